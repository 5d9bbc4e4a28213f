package chat

import "testing"

func TestSessionStartsAnonymous(t *testing.T) {
	s := NewSession(4)
	if s.Named() {
		t.Fatal("new session must be anonymous")
	}
	if s.Name() != "" {
		t.Fatalf("anonymous name = %q, want empty", s.Name())
	}
}

func TestSessionIDsUnique(t *testing.T) {
	a := NewSession(1)
	b := NewSession(1)
	if a.ID == b.ID {
		t.Fatal("session ids must be unique")
	}
}

func TestDeliverNeverBlocks(t *testing.T) {
	s := NewSession(2)

	if !s.deliver("one") || !s.deliver("two") {
		t.Fatal("delivery into a free buffer must succeed")
	}
	// Buffer full: deliver drops instead of blocking.
	if s.deliver("three") {
		t.Fatal("delivery into a full buffer must report a drop")
	}

	if got := <-s.send; got != "one" {
		t.Fatalf("first = %q, want one", got)
	}
	if got := <-s.send; got != "two" {
		t.Fatalf("second = %q, want two", got)
	}
}
