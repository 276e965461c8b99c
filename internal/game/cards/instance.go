package cards

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// ID identifies a physical card for the lifetime of a match.
type ID uint64

const idPrefix = "card_"

func (id ID) String() string {
	return fmt.Sprintf("%s%04d", idPrefix, uint64(id))
}

// ParseID accepts both "card_0042" and "42".
func ParseID(value string) (ID, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(value), idPrefix)
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid card id %q", value)
	}
	return ID(n), nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IDGenerator issues strictly increasing identifiers. The zero value starts
// at 1. A generator is owned by one match and injected where ids are minted.
type IDGenerator struct {
	last atomic.Uint64
}

// NewIDGenerator creates a generator whose first id is start+1.
func NewIDGenerator(start uint64) *IDGenerator {
	g := &IDGenerator{}
	g.last.Store(start)
	return g
}

// Next returns the next identifier.
func (g *IDGenerator) Next() uint64 {
	return g.last.Add(1)
}

// Last returns the most recently issued identifier, 0 if none.
func (g *IDGenerator) Last() uint64 {
	return g.last.Load()
}

// Item is anything a zone can hold: a bare card or an in-play instance.
type Item interface {
	CardID() ID
	Def() *Definition
}

// Card is a bare reference to a definition, as held in deck, hand, vault,
// reserve and discard.
type Card struct {
	ID         ID
	Definition *Definition
}

// NewCard creates a card reference with an id drawn from gen.
func NewCard(def *Definition, gen *IDGenerator) *Card {
	return &Card{ID: ID(gen.Next()), Definition: def}
}

// CardID implements Item.
func (c *Card) CardID() ID { return c.ID }

// Def implements Item.
func (c *Card) Def() *Definition { return c.Definition }

func (c *Card) String() string {
	return fmt.Sprintf("%s (%s)", c.Definition.Name, c.ID)
}

// Instance wraps a card while it is in play. Tap state and damage have no
// meaning outside formation and combat.
type Instance struct {
	Card       *Card
	InstanceID uint64
	CanAttack  bool
	Tapped     bool
	Damage     int
}

// Wrap creates an in-play instance for card. The instance id comes from gen.
func Wrap(card *Card, gen *IDGenerator) *Instance {
	return &Instance{
		Card:       card,
		InstanceID: gen.Next(),
		CanAttack:  card.Definition.CanAttackImmediately(),
	}
}

// CardID implements Item.
func (i *Instance) CardID() ID { return i.Card.ID }

// Def implements Item.
func (i *Instance) Def() *Definition { return i.Card.Definition }

// Unwrap drops the in-play state and returns the bare card.
func (i *Instance) Unwrap() *Card { return i.Card }

// Ready resets the per-turn state.
func (i *Instance) Ready() {
	i.CanAttack = true
	i.Tapped = false
	i.Damage = 0
}

// Destroyed reports whether accumulated damage has reached toughness.
func (i *Instance) Destroyed() bool {
	toughness := i.Def().Toughness()
	return i.Def().Type == TypeUnit && toughness > 0 && i.Damage >= toughness
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s (%s #%d)", i.Def().Name, i.Card.ID, i.InstanceID)
}

// Bare returns the underlying card of any item.
func Bare(item Item) *Card {
	switch v := item.(type) {
	case *Card:
		return v
	case *Instance:
		return v.Card
	default:
		return nil
	}
}
