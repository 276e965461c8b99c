package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/rules"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

// Selector picks the cards a move takes from its source zone.
type Selector struct {
	byID  bool
	id    cards.ID
	count int
}

// ByID selects exactly one card.
func ByID(id cards.ID) Selector {
	return Selector{byID: true, id: id}
}

// Count selects the top n cards. Values below 1 select a single card.
func Count(n int) Selector {
	if n < 1 {
		n = 1
	}
	return Selector{count: n}
}

func (s Selector) String() string {
	if s.byID {
		return s.id.String()
	}
	return fmt.Sprintf("%d card(s)", s.count)
}

// Transfer is the only component that moves cards between zones. Every
// operation validates before it mutates, so a failed call leaves both
// zones untouched.
type Transfer struct {
	instances *cards.IDGenerator
	rng       zone.Shuffler
	hooks     Hooks
	logger    *zap.Logger
}

// NewTransfer creates a transfer engine. Instance ids for cards entering
// play come from instances; rng drives every shuffle.
func NewTransfer(instances *cards.IDGenerator, rng zone.Shuffler, hooks Hooks, logger *zap.Logger) *Transfer {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Transfer{instances: instances, rng: rng, hooks: hooks, logger: logger}
}

// inPlay reports whether cards in the zone are wrapped as instances.
func inPlay(name zone.Name) bool {
	return name == zone.Formation || name == zone.Combat
}

// Move takes the selected cards from src and puts them on top of dst. When
// dst only has room for some of them, the rest go back on top of src in
// their original order and the call still succeeds with the cards that fit.
func (t *Transfer) Move(src, dst *zone.Zone, sel Selector) ([]cards.Item, error) {
	return t.move(src, dst, sel, false)
}

// MoveToBottom moves a single card to the bottom of dst.
func (t *Transfer) MoveToBottom(src, dst *zone.Zone, id cards.ID) ([]cards.Item, error) {
	return t.move(src, dst, ByID(id), true)
}

// MoveAll moves every card in src to dst under the same capacity rules as
// Move. An empty source is a no-op.
func (t *Transfer) MoveAll(src, dst *zone.Zone) ([]cards.Item, error) {
	if src.Len() == 0 {
		return nil, nil
	}
	return t.move(src, dst, Count(src.Len()), false)
}

// Play moves a card from hand into formation, wraps it as a fresh instance
// and fires the enter-play hook.
func (t *Transfer) Play(ctx HookContext, hand, formation *zone.Zone, id cards.ID) (*cards.Instance, error) {
	moved, err := t.Move(hand, formation, ByID(id))
	if err != nil {
		return nil, err
	}
	inst, ok := moved[0].(*cards.Instance)
	if !ok {
		return nil, fmt.Errorf("play %s: %s did not wrap the card", id, formation.Name())
	}
	t.hooks.EnterPlay(ctx, inst)
	return inst, nil
}

func (t *Transfer) move(src, dst *zone.Zone, sel Selector, bottom bool) ([]cards.Item, error) {
	if !dst.CanAccept() {
		return nil, fmt.Errorf("move %s from %s: %s: %w", sel, src.Name(), dst.Name(), zone.ErrZoneFull)
	}

	selected, err := t.preview(src, sel)
	if err != nil {
		return nil, err
	}
	for _, item := range selected {
		if !dst.Accepts(item.Def().Type) {
			return nil, fmt.Errorf("move %s (%s) to %s: %w", item.CardID(), item.Def().Type, dst.Name(), zone.ErrTypeNotAllowed)
		}
	}

	var removed []cards.Item
	if sel.byID {
		removed, err = src.RemoveByID(sel.id)
	} else {
		removed, err = src.RemoveCount(sel.count)
	}
	if err != nil {
		return nil, err
	}

	fits := removed
	if space := dst.Space(); space >= 0 && len(removed) > space {
		fits = removed[:space]
		leftovers := removed[space:]
		src.AddToTop(leftovers)
		if t.logger != nil {
			t.logger.Debug("returned leftovers to source",
				zap.String("from", string(src.Name())),
				zap.String("to", string(dst.Name())),
				zap.Int("moved", len(fits)),
				zap.Int("returned", len(leftovers)),
			)
		}
	}

	moved := make([]cards.Item, len(fits))
	for i, item := range fits {
		moved[i] = t.convert(item, dst.Name())
	}
	if bottom {
		dst.AddToBottom(moved)
	} else {
		dst.AddToTop(moved)
	}
	return moved, nil
}

// preview resolves the selector without touching src.
func (t *Transfer) preview(src *zone.Zone, sel Selector) ([]cards.Item, error) {
	if sel.byID {
		item, ok := src.Find(sel.id)
		if !ok {
			return nil, fmt.Errorf("%s in %s: %w", sel.id, src.Name(), zone.ErrCardNotFound)
		}
		return []cards.Item{item}, nil
	}
	if sel.count > src.Len() {
		return nil, fmt.Errorf("move %d cards from %s holding %d: %w", sel.count, src.Name(), src.Len(), zone.ErrInsufficientCards)
	}
	return src.Peek()[:sel.count], nil
}

// convert applies the wrapping rules for the destination zone.
func (t *Transfer) convert(item cards.Item, dst zone.Name) cards.Item {
	switch v := item.(type) {
	case *cards.Card:
		if inPlay(dst) {
			return cards.Wrap(v, t.instances)
		}
	case *cards.Instance:
		if !inPlay(dst) {
			return v.Unwrap()
		}
	}
	return item
}

// CleanupTurn returns exhausted treasures to the reserve, brings combat
// participants back to formation and readies every instance there.
func (t *Transfer) CleanupTurn(p *Player) error {
	var errs []error
	if _, err := t.MoveAll(p.Exhausted(), p.Reserve()); err != nil {
		errs = append(errs, fmt.Errorf("return exhausted treasures: %w", err))
	}
	if _, err := t.MoveAll(p.Combat(), p.Formation()); err != nil {
		errs = append(errs, fmt.Errorf("return combat units: %w", err))
	}
	for _, item := range p.Formation().Peek() {
		if inst, ok := item.(*cards.Instance); ok {
			inst.Ready()
		}
	}
	return errors.Join(errs...)
}

// Mulligan shuffles the hand back into the deck and draws a new hand of
// handSize cards. It is allowed once per player per match.
func (t *Transfer) Mulligan(p *Player, handSize int) error {
	if p.MulliganUsed {
		return rules.NewError(rules.CodeInvalidOption, "%s has already taken a mulligan", p.Name)
	}
	if _, err := t.MoveAll(p.Hand(), p.Deck()); err != nil {
		return fmt.Errorf("mulligan %s: %w", p.Name, err)
	}
	p.Deck().Shuffle(t.rng)
	if n := min(handSize, p.Deck().Len()); n > 0 {
		if _, err := t.Move(p.Deck(), p.Hand(), Count(n)); err != nil {
			return fmt.Errorf("mulligan %s: %w", p.Name, err)
		}
	}
	p.MulliganUsed = true
	if t.logger != nil {
		t.logger.Info("mulligan taken",
			zap.String("player", p.Name),
			zap.Int("hand", p.Hand().Len()),
			zap.Int("deck", p.Deck().Len()),
		)
	}
	return nil
}

// Shuffle randomizes a zone with the engine's random source.
func (t *Transfer) Shuffle(z *zone.Zone) {
	z.Shuffle(t.rng)
}
