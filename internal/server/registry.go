// Package server exposes matches over HTTP, websocket and gRPC.
package server

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/catalog"
	"github.com/thraizz/realms-server-go/internal/game"
	"github.com/thraizz/realms-server-go/internal/game/cards"
)

var (
	// ErrMatchNotFound is returned for an unknown match id.
	ErrMatchNotFound = errors.New("match not found")
	// ErrUnknownDeck is returned when a seat names a deck list nobody registered.
	ErrUnknownDeck = errors.New("unknown deck")
)

// SeatRequest names a player and their deck: either a registered deck list
// by name or an inline list of cards.
type SeatRequest struct {
	Name  string              `json:"name"`
	Deck  string              `json:"deck,omitempty"`
	Cards []catalog.DeckEntry `json:"cards,omitempty"`
}

// Registry owns the running matches.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*game.Match

	catalog *catalog.Catalog
	decks   map[string]catalog.DeckList
	opts    game.Options
	notify  game.NotificationHandler
	logger  *zap.Logger
}

// NewRegistry creates an empty registry. decks are the named lists seats
// may refer to; opts are applied to every new match.
func NewRegistry(cat *catalog.Catalog, decks []catalog.DeckList, opts game.Options, logger *zap.Logger) *Registry {
	r := &Registry{
		matches: make(map[string]*game.Match),
		catalog: cat,
		decks:   make(map[string]catalog.DeckList, len(decks)),
		opts:    opts,
		logger:  logger,
	}
	for _, d := range decks {
		r.decks[catalog.NormalizeName(d.Name)] = d
	}
	return r
}

// SetNotifier sets the handler that receives notifications from every
// match created afterwards.
func (r *Registry) SetNotifier(handler game.NotificationHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notify = handler
}

// DeckNames lists the registered deck lists.
func (r *Registry) DeckNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.decks))
	for _, d := range r.decks {
		names = append(names, d.Name)
	}
	slices.Sort(names)
	return names
}

// Create assembles both decks, starts a new match and registers it.
func (r *Registry) Create(first, second SeatRequest) (*game.Match, error) {
	setups := make([]game.PlayerSetup, 0, 2)
	for _, seat := range []SeatRequest{first, second} {
		deck, err := r.resolveDeck(seat)
		if err != nil {
			return nil, fmt.Errorf("seat %q: %w", seat.Name, err)
		}
		setups = append(setups, game.PlayerSetup{Name: seat.Name, Deck: deck})
	}

	m, err := game.NewMatch(setups[0], setups[1], r.opts, r.logger)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	notify := r.notify
	r.matches[m.ID()] = m
	r.mu.Unlock()

	if notify != nil {
		m.SetNotificationHandler(notify)
	}
	if err := m.Start(); err != nil {
		r.Remove(m.ID())
		return nil, err
	}
	return m, nil
}

// Get returns a running match.
func (r *Registry) Get(id string) (*game.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMatchNotFound, id)
	}
	return m, nil
}

// IDs lists the running matches in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.matches))
	for id := range r.matches {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Remove drops a match. It reports whether the match existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return false
	}
	delete(r.matches, id)
	if r.logger != nil {
		r.logger.Info("match removed", zap.String("match_id", id))
	}
	return true
}

func (r *Registry) resolveDeck(seat SeatRequest) ([]*cards.Definition, error) {
	list := catalog.DeckList{Name: seat.Name, Cards: seat.Cards}
	if len(seat.Cards) == 0 {
		r.mu.RLock()
		named, ok := r.decks[catalog.NormalizeName(seat.Deck)]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDeck, seat.Deck)
		}
		list = named
	}
	return r.catalog.Build(list)
}
