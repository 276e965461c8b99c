package rules

import (
	"reflect"
	"testing"
)

func TestPendingQueueNoDuplicates(t *testing.T) {
	q := NewPendingQueue("Alice", "Bob", "Alice", "", " ")
	if !reflect.DeepEqual(q.Players(), []string{"Alice", "Bob"}) {
		t.Fatalf("unexpected queue %v", q.Players())
	}
}

func TestPendingQueueRemoveAndHead(t *testing.T) {
	q := NewPendingQueue("Alice", "Bob")

	head, ok := q.Head()
	if !ok || head != "Alice" {
		t.Fatalf("expected Alice at head, got %q", head)
	}

	if !q.Remove("Alice") {
		t.Fatalf("expected Alice to be removed")
	}
	if q.Remove("Alice") {
		t.Fatalf("expected second removal to fail")
	}

	head, _ = q.Head()
	if head != "Bob" {
		t.Fatalf("expected Bob at head, got %q", head)
	}

	q.Remove("Bob")
	if !q.Empty() {
		t.Fatalf("expected empty queue")
	}
	if _, ok := q.Head(); ok {
		t.Fatalf("expected no head on empty queue")
	}
}

func TestPendingQueuePlayersIsCopy(t *testing.T) {
	q := NewPendingQueue("Alice", "Bob")
	players := q.Players()
	players[0] = "Mallory"
	if !q.Contains("Alice") || q.Contains("Mallory") {
		t.Fatalf("queue mutated through Players()")
	}
}
