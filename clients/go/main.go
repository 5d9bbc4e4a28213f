// parley CLI - terminal client for a parley chat relay
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/parley-chat/parley/clients/go/parley"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("PARLEY_URL")
	if baseURL == "" {
		baseURL = "ws://localhost:8080"
	}

	room := os.Args[1]

	ctx := context.Background()
	client, err := parley.Dial(ctx, baseURL, room)
	exitOnError(err)
	defer client.Close()

	fmt.Printf("joined room %q on %s\n", room, baseURL)

	if len(os.Args) > 2 {
		exitOnError(client.SetName(ctx, os.Args[2]))
	} else {
		fmt.Println("anonymous session; type /user <name> to start chatting")
	}

	// Print everything the relay sends
	go func() {
		for {
			line, err := client.Receive(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, "connection closed:", err)
				os.Exit(0)
			}
			fmt.Println(line)
		}
	}()

	// Forward stdin lines to the room
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := client.Send(ctx, scanner.Text()); err != nil {
			exitOnError(err)
		}
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: parley <room> [name]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Set PARLEY_URL to target a relay other than ws://localhost:8080.")
	fmt.Fprintln(os.Stderr, "Commands once connected: /user <name>, /history, anything else is chat.")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
