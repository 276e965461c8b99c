package rules

import "strings"

// PendingQueue is the ordered list of players who still owe an action
// before the current phase can advance. It never holds duplicates.
type PendingQueue struct {
	players []string
}

// NewPendingQueue creates a queue seeded with players, dropping duplicates
// and blanks.
func NewPendingQueue(players ...string) *PendingQueue {
	q := &PendingQueue{}
	q.Reset(players...)
	return q
}

// Reset replaces the queue contents.
func (q *PendingQueue) Reset(players ...string) {
	q.players = q.players[:0]
	for _, p := range players {
		p = strings.TrimSpace(p)
		if p == "" || q.Contains(p) {
			continue
		}
		q.players = append(q.players, p)
	}
}

// Clear empties the queue.
func (q *PendingQueue) Clear() {
	q.players = q.players[:0]
}

// Contains reports whether player is still pending.
func (q *PendingQueue) Contains(player string) bool {
	for _, p := range q.players {
		if p == player {
			return true
		}
	}
	return false
}

// Remove drops player from the queue. It returns false if the player was
// not pending.
func (q *PendingQueue) Remove(player string) bool {
	for i, p := range q.players {
		if p == player {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// Head returns the player who currently holds priority within the phase.
func (q *PendingQueue) Head() (string, bool) {
	if len(q.players) == 0 {
		return "", false
	}
	return q.players[0], true
}

// Len returns the number of pending players.
func (q *PendingQueue) Len() int {
	return len(q.players)
}

// Empty reports whether nobody is pending.
func (q *PendingQueue) Empty() bool {
	return len(q.players) == 0
}

// Players returns a copy of the queue in order.
func (q *PendingQueue) Players() []string {
	out := make([]string, len(q.players))
	copy(out, q.players)
	return out
}
