package resources

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInsufficientGold is returned when a spend exceeds the available gold.
var ErrInsufficientGold = errors.New("insufficient gold")

// DefaultStartingLife is the life total a player begins a match with.
const DefaultStartingLife = 20

// Resources holds a player's gold and life counters.
// Gold never drops below zero; life may go negative once a player loses.
type Resources struct {
	mu   sync.RWMutex
	gold int
	life int
}

// New creates counters with zero gold and the given starting life.
func New(startingLife int) *Resources {
	if startingLife <= 0 {
		startingLife = DefaultStartingLife
	}
	return &Resources{life: startingLife}
}

// Gold returns the available gold.
func (r *Resources) Gold() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gold
}

// Life returns the current life total.
func (r *Resources) Life() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.life
}

// CanAfford reports whether amount gold is available.
func (r *Resources) CanAfford(amount int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return amount <= r.gold
}

// Spend removes amount gold. Nothing changes when there is not enough.
func (r *Resources) Spend(amount int) error {
	if amount < 0 {
		return fmt.Errorf("spend %d gold: amount must not be negative", amount)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if amount > r.gold {
		return fmt.Errorf("spend %d gold with %d available: %w", amount, r.gold, ErrInsufficientGold)
	}
	r.gold -= amount
	return nil
}

// Gain adds amount gold and returns the new total.
func (r *Resources) Gain(amount int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if amount > 0 {
		r.gold += amount
	}
	return r.gold
}

// LoseLife subtracts points from life and returns the new total.
func (r *Resources) LoseLife(points int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if points > 0 {
		r.life -= points
	}
	return r.life
}

// GainLife adds points to life and returns the new total.
func (r *Resources) GainLife(points int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if points > 0 {
		r.life += points
	}
	return r.life
}

// Alive reports whether the life total is above zero.
func (r *Resources) Alive() bool {
	return r.Life() > 0
}

// Copy returns an independent copy of the counters.
func (r *Resources) Copy() *Resources {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Resources{gold: r.gold, life: r.life}
}

func (r *Resources) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("gold=%d life=%d", r.gold, r.life)
}
