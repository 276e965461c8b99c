package zone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thraizz/realms-server-go/internal/game/cards"
)

var (
	// ErrCardNotFound is returned when a card id is not present in a zone.
	ErrCardNotFound = errors.New("card not found")
	// ErrInsufficientCards is returned when more cards are requested than a zone holds.
	ErrInsufficientCards = errors.New("insufficient cards")
	// ErrZoneFull is returned when a zone cannot accept any further card.
	ErrZoneFull = errors.New("zone full")
	// ErrTypeNotAllowed is returned when a card type is filtered out by a zone.
	ErrTypeNotAllowed = errors.New("card type not allowed")
)

// Name identifies one of a player's zones.
type Name string

const (
	Deck      Name = "DECK"
	Hand      Name = "HAND"
	Formation Name = "FORMATION"
	Combat    Name = "COMBAT"
	Reserve   Name = "RESERVE"
	Exhausted Name = "EXHAUSTED"
	Discard   Name = "DISCARD"
	Vault     Name = "VAULT"
	Tokens    Name = "TOKENS"
)

// All lists every zone name in display order.
var All = []Name{Deck, Hand, Formation, Combat, Reserve, Exhausted, Discard, Vault, Tokens}

// ParseName resolves a zone name case-insensitively.
func ParseName(value string) (Name, error) {
	name := Name(strings.ToUpper(strings.TrimSpace(value)))
	for _, n := range All {
		if n == name {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown zone %q", value)
}

// Spec declares the constraints of a zone.
type Spec struct {
	Name Name
	// MaxSize of 0 means unbounded.
	MaxSize      int
	AllowedTypes []cards.Type
	Visible      bool
	// Ordered zones keep a meaningful top and bottom.
	Ordered bool
}

// Zone is a capacity- and type-constrained container of cards. Index 0 is
// the top. Zones do no cross-zone bookkeeping; only the transfer engine
// moves cards between them.
type Zone struct {
	spec  Spec
	items []cards.Item
}

// New creates an empty zone.
func New(spec Spec) *Zone {
	return &Zone{spec: spec, items: make([]cards.Item, 0, spec.MaxSize)}
}

// Spec returns the zone constraints.
func (z *Zone) Spec() Spec { return z.spec }

// Name returns the zone name.
func (z *Zone) Name() Name { return z.spec.Name }

// Len returns the number of cards held.
func (z *Zone) Len() int { return len(z.items) }

// CanAccept reports whether at least one more card fits.
func (z *Zone) CanAccept() bool {
	return z.spec.MaxSize <= 0 || len(z.items) < z.spec.MaxSize
}

// Space returns how many more cards fit, or -1 when unbounded.
func (z *Zone) Space() int {
	if z.spec.MaxSize <= 0 {
		return -1
	}
	if free := z.spec.MaxSize - len(z.items); free > 0 {
		return free
	}
	return 0
}

// Accepts reports whether the zone's type filter admits t. An empty filter
// admits everything.
func (z *Zone) Accepts(t cards.Type) bool {
	if len(z.spec.AllowedTypes) == 0 {
		return true
	}
	for _, allowed := range z.spec.AllowedTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// AddToTop inserts items on top, keeping their relative order. Capacity is
// not checked here.
func (z *Zone) AddToTop(items []cards.Item) {
	if len(items) == 0 {
		return
	}
	if !z.spec.Ordered {
		z.items = append(z.items, items...)
		return
	}
	merged := make([]cards.Item, 0, len(items)+len(z.items))
	merged = append(merged, items...)
	z.items = append(merged, z.items...)
}

// AddToBottom appends items under the existing cards. Capacity is not
// checked here.
func (z *Zone) AddToBottom(items []cards.Item) {
	z.items = append(z.items, items...)
}

// RemoveByID removes the card with the given id.
func (z *Zone) RemoveByID(id cards.ID) ([]cards.Item, error) {
	for i, item := range z.items {
		if item.CardID() == id {
			z.items = append(z.items[:i:i], z.items[i+1:]...)
			return []cards.Item{item}, nil
		}
	}
	return nil, fmt.Errorf("%s in %s: %w", id, z.spec.Name, ErrCardNotFound)
}

// RemoveCount removes n cards from the top.
func (z *Zone) RemoveCount(n int) ([]cards.Item, error) {
	if n < 1 {
		return nil, fmt.Errorf("remove %d cards from %s: count must be positive", n, z.spec.Name)
	}
	if n > len(z.items) {
		return nil, fmt.Errorf("remove %d cards from %s holding %d: %w", n, z.spec.Name, len(z.items), ErrInsufficientCards)
	}
	removed := make([]cards.Item, n)
	copy(removed, z.items[:n])
	z.items = append(z.items[:0:0], z.items[n:]...)
	return removed, nil
}

// RemoveAll empties the zone and returns its contents top first.
func (z *Zone) RemoveAll() []cards.Item {
	removed := z.items
	z.items = make([]cards.Item, 0, z.spec.MaxSize)
	return removed
}

// Find returns the card with the given id without removing it.
func (z *Zone) Find(id cards.ID) (cards.Item, bool) {
	for _, item := range z.items {
		if item.CardID() == id {
			return item, true
		}
	}
	return nil, false
}

// Peek returns a copy of the contents, top first.
func (z *Zone) Peek() []cards.Item {
	out := make([]cards.Item, len(z.items))
	copy(out, z.items)
	return out
}

// IDs returns the ids of the contents, top first.
func (z *Zone) IDs() []cards.ID {
	out := make([]cards.ID, len(z.items))
	for i, item := range z.items {
		out[i] = item.CardID()
	}
	return out
}

// Shuffle applies a Fisher-Yates permutation driven by rng.
func (z *Zone) Shuffle(rng Shuffler) {
	for i := len(z.items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		z.items[i], z.items[j] = z.items[j], z.items[i]
	}
}

func (z *Zone) String() string {
	return fmt.Sprintf("%s(%d)", z.spec.Name, len(z.items))
}
