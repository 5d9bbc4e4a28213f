package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/parley-chat/parley/internal/models"
)

func TestPersisterWritesInOrder(t *testing.T) {
	fs := newFakeStore()
	p := NewPersister(zerolog.Nop(), fs, 64)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	for i := 0; i < 20; i++ {
		p.Enqueue("lobby", models.NewMessage("alice", fmt.Sprintf("msg %d", i)))
	}

	waitFor(t, func() bool { return len(fs.appended("lobby")) == 20 })

	for i, event := range fs.appended("lobby") {
		want := fmt.Sprintf("msg %d", i)
		if event.Content != want {
			t.Fatalf("append %d = %q, want %q", i, event.Content, want)
		}
	}
}

func TestPersisterDropsWhenFull(t *testing.T) {
	fs := newFakeStore()
	p := NewPersister(zerolog.Nop(), fs, 4)

	// Worker is not running; the queue fills and overflow is dropped
	// without blocking the caller.
	for i := 0; i < 10; i++ {
		p.Enqueue("lobby", models.NewMessage("alice", fmt.Sprintf("msg %d", i)))
	}

	if got := len(p.queue); got != 4 {
		t.Fatalf("queued = %d, want 4", got)
	}
}
