package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/effects"
	"github.com/thraizz/realms-server-go/internal/game/rules"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

func newTestActions(t *testing.T, hooks Hooks) (*Actions, *cards.IDGenerator) {
	t.Helper()
	if hooks == nil {
		hooks = NopHooks{}
	}
	logger := zaptest.NewLogger(t)
	tr := NewTransfer(cards.NewIDGenerator(0), fixedShuffler{}, hooks, logger)
	return NewActions(tr, hooks, logger), cards.NewIDGenerator(0)
}

func TestDrawOpeningHandFromFullDeck(t *testing.T) {
	actions, gen := newTestActions(t, nil)
	p := NewPlayer("Alice", 20)
	fillZone(p.Deck(), gen, unitDef("Footman", 1, 1, 1), DeckSize)

	drawn, err := actions.Draw(p, 7)
	require.NoError(t, err)
	assert.Len(t, drawn, 7)
	assert.Equal(t, 7, p.Hand().Len())
	assert.Equal(t, 38, p.Deck().Len())
}

func TestDrawFromEmptyDeck(t *testing.T) {
	actions, _ := newTestActions(t, nil)
	p := NewPlayer("Alice", 20)

	_, err := actions.Draw(p, 1)
	require.ErrorIs(t, err, zone.ErrInsufficientCards)
	assert.Equal(t, rules.CodeInsufficientCards, rules.CodeOf(err))
	assert.Zero(t, p.Hand().Len())
}

func TestPlayCardInsufficientGold(t *testing.T) {
	actions, gen := newTestActions(t, nil)
	p := NewPlayer("Alice", 20)
	p.Resources.Gain(2)
	id := fillZone(p.Hand(), gen, unitDef("Knight", 3, 3, 3), 1)[0]

	_, err := actions.PlayCard(HookContext{}, p, id)
	require.Error(t, err)
	assert.Equal(t, rules.CodeInsufficientResources, rules.CodeOf(err))
	assert.Equal(t, []cards.ID{id}, p.Hand().IDs())
	assert.Zero(t, p.Formation().Len())
	assert.Equal(t, 2, p.Resources.Gold())
}

func TestPlayCardSpendsGold(t *testing.T) {
	actions, gen := newTestActions(t, nil)
	p := NewPlayer("Alice", 20)
	p.Resources.Gain(5)
	id := fillZone(p.Hand(), gen, unitDef("Knight", 3, 3, 3), 1)[0]

	inst, err := actions.PlayCard(HookContext{}, p, id)
	require.NoError(t, err)
	assert.Equal(t, id, inst.CardID())
	assert.Equal(t, 2, p.Resources.Gold())
	assert.Zero(t, p.Hand().Len())
	assert.Equal(t, 1, p.Formation().Len())
}

func TestPlayCardRejectsTreasure(t *testing.T) {
	actions, gen := newTestActions(t, nil)
	p := NewPlayer("Alice", 20)
	id := fillZone(p.Hand(), gen, treasureDef("Gold Coin", 1), 1)[0]

	_, err := actions.PlayCard(HookContext{}, p, id)
	assert.Equal(t, rules.CodeInvalidOption, rules.CodeOf(err))
	assert.Equal(t, 1, p.Hand().Len())
}

func TestPlayCardSingleRoyalty(t *testing.T) {
	actions, gen := newTestActions(t, nil)
	p := NewPlayer("Alice", 20)
	p.Resources.Gain(10)

	queen := unitDef("Queen", 2, 2, 2)
	queen.Supertype = cards.SupertypeRoyalty
	king := unitDef("Rey", 2, 2, 2)
	king.Supertype = "Realeza"

	ids := fillZone(p.Hand(), gen, queen, 1)
	ids = append(ids, fillZone(p.Hand(), gen, king, 1)...)

	_, err := actions.PlayCard(HookContext{}, p, ids[0])
	require.NoError(t, err)

	_, err = actions.PlayCard(HookContext{}, p, ids[1])
	assert.Equal(t, rules.CodeInvalidOption, rules.CodeOf(err))
	assert.Equal(t, 8, p.Resources.Gold())
	assert.Equal(t, []cards.ID{ids[1]}, p.Hand().IDs())
}

func TestActivateTreasureAndToken(t *testing.T) {
	actions, gen := newTestActions(t, nil)
	p := NewPlayer("Alice", 20)
	coin := fillZone(p.Reserve(), gen, treasureDef("Gold Coin", 2), 1)[0]
	spirit := fillZone(p.Reserve(), gen, tokenDef("Spirit"), 1)[0]

	gold, err := actions.ActivateTreasure(p, coin)
	require.NoError(t, err)
	assert.Equal(t, 2, gold)
	assert.Equal(t, []cards.ID{coin}, p.Exhausted().IDs())

	gold, err = actions.ActivateTreasure(p, spirit)
	require.NoError(t, err)
	assert.Equal(t, 3, gold)
	assert.Equal(t, []cards.ID{spirit}, p.Discard().IDs())
	assert.Zero(t, p.Reserve().Len())

	_, err = actions.ActivateTreasure(p, coin)
	assert.Equal(t, rules.CodeCardNotFound, rules.CodeOf(err))
	assert.Equal(t, 3, p.Resources.Gold())
}

func TestRevealTreasureRespectsReserveCapacity(t *testing.T) {
	actions, gen := newTestActions(t, nil)
	p := NewPlayer("Alice", 20)
	fillZone(p.Vault(), gen, treasureDef("Gold Coin", 1), VaultSize)

	for i := 0; i < ReserveSize; i++ {
		_, err := actions.RevealTreasure(p)
		require.NoError(t, err)
	}
	_, err := actions.RevealTreasure(p)
	assert.Equal(t, rules.CodeZoneFull, rules.CodeOf(err))
	assert.Equal(t, ReserveSize, p.Reserve().Len())
	assert.Equal(t, VaultSize-ReserveSize, p.Vault().Len())
}

func TestTakeToken(t *testing.T) {
	actions, gen := newTestActions(t, nil)
	p := NewPlayer("Alice", 20)
	id := fillZone(p.Tokens(), gen, tokenDef("Spirit"), 1)[0]

	item, err := actions.TakeToken(p)
	require.NoError(t, err)
	assert.Equal(t, id, item.CardID())
	assert.Equal(t, 1, p.Reserve().Len())

	_, err = actions.TakeToken(p)
	assert.Equal(t, rules.CodeInsufficientCards, rules.CodeOf(err))
}

func TestDeclareAttackRequiresReadyUnit(t *testing.T) {
	actions, gen := newTestActions(t, nil)
	p := NewPlayer("Alice", 20)
	p.Resources.Gain(10)

	slow := fillZone(p.Hand(), gen, unitDef("Footman", 1, 1, 1), 1)[0]
	fast := fillZone(p.Hand(), gen, unitDef("Raider", 1, 1, 1, effects.KeywordFrenzy), 1)[0]
	tower := fillZone(p.Hand(), gen, monumentDef("Watchtower", 1), 1)[0]
	for _, id := range []cards.ID{slow, fast, tower} {
		_, err := actions.PlayCard(HookContext{}, p, id)
		require.NoError(t, err)
	}

	_, err := actions.DeclareAttack(p, slow)
	assert.Equal(t, rules.CodeInvalidOption, rules.CodeOf(err), "summoned this turn")
	_, err = actions.DeclareAttack(p, tower)
	assert.Equal(t, rules.CodeInvalidOption, rules.CodeOf(err), "monuments do not attack")

	inst, err := actions.DeclareAttack(p, fast)
	require.NoError(t, err)
	assert.True(t, inst.Tapped)
	assert.Equal(t, []cards.ID{fast}, p.Combat().IDs())

	_, err = actions.DeclareAttack(p, fast)
	assert.Equal(t, rules.CodeCardNotFound, rules.CodeOf(err))
}

func TestActivateAbilityTapsAndFires(t *testing.T) {
	hooks := newRecordingHooks()
	actions, gen := newTestActions(t, hooks)
	p := NewPlayer("Alice", 20)

	seer := unitDef("Seer", 0, 1, 1)
	seer.Effects = []effects.Descriptor{{Kind: effects.KindActivated, Op: effects.OpShowVault, Amount: 1}}
	id := fillZone(p.Hand(), gen, seer, 1)[0]
	plain := fillZone(p.Hand(), gen, unitDef("Footman", 0, 1, 1), 1)[0]
	for _, cid := range []cards.ID{id, plain} {
		_, err := actions.PlayCard(HookContext{}, p, cid)
		require.NoError(t, err)
	}

	fired, err := actions.ActivateAbility(HookContext{}, p, id)
	require.NoError(t, err)
	require.Len(t, fired, 1)
	assert.Equal(t, effects.OpShowVault, fired[0].Op)
	assert.Equal(t, []cards.ID{id}, hooks.calls[effects.TriggerActivated])

	_, err = actions.ActivateAbility(HookContext{}, p, id)
	assert.Equal(t, rules.CodeInvalidOption, rules.CodeOf(err), "already tapped")
	_, err = actions.ActivateAbility(HookContext{}, p, plain)
	assert.Equal(t, rules.CodeInvalidOption, rules.CodeOf(err), "no activated ability")
}
