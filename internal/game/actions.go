package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/effects"
	"github.com/thraizz/realms-server-go/internal/game/rules"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

// Actions are the player-facing operations. They only ever touch zones
// through the transfer engine and counters through Resources.
type Actions struct {
	transfer *Transfer
	hooks    Hooks
	logger   *zap.Logger
}

// NewActions creates the action set on top of a transfer engine.
func NewActions(transfer *Transfer, hooks Hooks, logger *zap.Logger) *Actions {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Actions{transfer: transfer, hooks: hooks, logger: logger}
}

// Draw moves n cards from the top of the deck into the hand.
func (a *Actions) Draw(p *Player, n int) ([]cards.Item, error) {
	if n < 1 {
		return nil, rules.NewError(rules.CodeInvalidOption, "cannot draw %d cards", n)
	}
	drawn, err := a.transfer.Move(p.Deck(), p.Hand(), Count(n))
	if err != nil {
		return nil, fmt.Errorf("%s draws %d: %w", p.Name, n, err)
	}
	return drawn, nil
}

// PlayCard puts a realm card from hand into formation and pays its cost.
func (a *Actions) PlayCard(ctx HookContext, p *Player, id cards.ID) (*cards.Instance, error) {
	item, ok := p.Hand().Find(id)
	if !ok {
		return nil, fmt.Errorf("%s plays %s: %w", p.Name, id, zone.ErrCardNotFound)
	}
	def := item.Def()
	if !p.Formation().Accepts(def.Type) {
		return nil, rules.NewError(rules.CodeInvalidOption, "%s cards cannot be played to formation", def.Type)
	}
	if !def.CanBePlayed(p.Resources.Gold()) {
		return nil, rules.NewError(rules.CodeInsufficientResources, "%s costs %d gold, %s has %d", def.Name, def.Cost, p.Name, p.Resources.Gold())
	}
	if def.IsRoyalty() {
		for _, inst := range p.InPlay() {
			if inst.Def().IsRoyalty() {
				return nil, rules.NewError(rules.CodeInvalidOption, "%s already has royalty in play (%s)", p.Name, inst.Def().Name)
			}
		}
	}

	inst, err := a.transfer.Play(ctx, p.Hand(), p.Formation(), id)
	if err != nil {
		return nil, fmt.Errorf("%s plays %s: %w", p.Name, id, err)
	}
	if err := p.Resources.Spend(def.Cost); err != nil {
		// Affordability was checked above.
		return nil, fmt.Errorf("%s pays for %s: %w", p.Name, def.Name, err)
	}
	if a.logger != nil {
		a.logger.Debug("card played",
			zap.String("player", p.Name),
			zap.Stringer("card", inst),
			zap.Int("cost", def.Cost),
			zap.Int("gold_left", p.Resources.Gold()),
		)
	}
	return inst, nil
}

// ActivateTreasure spends a treasure or token from the reserve for gold.
// Treasures are exhausted until cleanup, tokens are discarded.
func (a *Actions) ActivateTreasure(p *Player, id cards.ID) (int, error) {
	item, ok := p.Reserve().Find(id)
	if !ok {
		return 0, fmt.Errorf("%s activates %s: %w", p.Name, id, zone.ErrCardNotFound)
	}
	gold, ok := item.Def().GeneratesGold()
	if !ok {
		return 0, rules.NewError(rules.CodeInvalidOption, "%s does not generate gold", item.Def().Name)
	}

	dst := p.Exhausted()
	if item.Def().Type == cards.TypeToken {
		dst = p.Discard()
	}
	if _, err := a.transfer.Move(p.Reserve(), dst, ByID(id)); err != nil {
		return 0, fmt.Errorf("%s activates %s: %w", p.Name, id, err)
	}
	return p.Resources.Gain(gold), nil
}

// RevealTreasure moves the top treasure of the vault into the reserve.
func (a *Actions) RevealTreasure(p *Player) (cards.Item, error) {
	moved, err := a.transfer.Move(p.Vault(), p.Reserve(), Count(1))
	if err != nil {
		return nil, fmt.Errorf("%s reveals a treasure: %w", p.Name, err)
	}
	return moved[0], nil
}

// TakeToken moves a token from the token pool into the reserve.
func (a *Actions) TakeToken(p *Player) (cards.Item, error) {
	moved, err := a.transfer.Move(p.Tokens(), p.Reserve(), Count(1))
	if err != nil {
		return nil, fmt.Errorf("%s takes a token: %w", p.Name, err)
	}
	return moved[0], nil
}

// ReturnToBottom puts one hand card at the bottom of the deck.
func (a *Actions) ReturnToBottom(p *Player, id cards.ID) error {
	if _, err := a.transfer.MoveToBottom(p.Hand(), p.Deck(), id); err != nil {
		return fmt.Errorf("%s returns %s to the deck: %w", p.Name, id, err)
	}
	return nil
}

// DeclareAttack sends a ready unit from formation into combat and taps it.
func (a *Actions) DeclareAttack(p *Player, id cards.ID) (*cards.Instance, error) {
	inst, err := readyUnit(p, id)
	if err != nil {
		return nil, err
	}
	if !inst.CanAttack {
		return nil, rules.NewError(rules.CodeInvalidOption, "%s cannot attack this turn", inst.Def().Name)
	}
	if _, err := a.transfer.Move(p.Formation(), p.Combat(), ByID(id)); err != nil {
		return nil, fmt.Errorf("%s attacks with %s: %w", p.Name, id, err)
	}
	inst.Tapped = true
	return inst, nil
}

// DeclareDefense sends an untapped unit from formation into combat as a
// blocker.
func (a *Actions) DeclareDefense(p *Player, id cards.ID) (*cards.Instance, error) {
	inst, err := readyUnit(p, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.transfer.Move(p.Formation(), p.Combat(), ByID(id)); err != nil {
		return nil, fmt.Errorf("%s defends with %s: %w", p.Name, id, err)
	}
	return inst, nil
}

// ActivateAbility taps an instance in formation and fires each of its
// activated effects.
func (a *Actions) ActivateAbility(ctx HookContext, p *Player, id cards.ID) ([]effects.Descriptor, error) {
	item, ok := p.Formation().Find(id)
	if !ok {
		return nil, fmt.Errorf("%s activates %s: %w", p.Name, id, zone.ErrCardNotFound)
	}
	inst, ok := item.(*cards.Instance)
	if !ok {
		return nil, rules.NewError(rules.CodeInvalidOption, "%s is not in play", id)
	}
	activated := inst.Def().ActivatedEffects()
	if len(activated) == 0 {
		return nil, rules.NewError(rules.CodeInvalidOption, "%s has no activated ability", inst.Def().Name)
	}
	if inst.Tapped {
		return nil, rules.NewError(rules.CodeInvalidOption, "%s is tapped", inst.Def().Name)
	}

	inst.Tapped = true
	for _, effect := range activated {
		a.hooks.Activated(ctx, inst, effect)
	}
	return activated, nil
}

// readyUnit finds an untapped unit instance in formation.
func readyUnit(p *Player, id cards.ID) (*cards.Instance, error) {
	item, ok := p.Formation().Find(id)
	if !ok {
		return nil, fmt.Errorf("%s in formation of %s: %w", id, p.Name, zone.ErrCardNotFound)
	}
	inst, ok := item.(*cards.Instance)
	if !ok || inst.Def().Type != cards.TypeUnit {
		return nil, rules.NewError(rules.CodeInvalidOption, "%s is not a unit", item.Def().Name)
	}
	if inst.Tapped {
		return nil, rules.NewError(rules.CodeInvalidOption, "%s is tapped", inst.Def().Name)
	}
	return inst, nil
}
