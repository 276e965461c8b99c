package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/effects"
	"github.com/thraizz/realms-server-go/internal/game/rules"
)

// fixedShuffler never swaps, so decks keep the order they were built in.
type fixedShuffler struct{}

func (fixedShuffler) IntN(n int) int { return n - 1 }

func unitDef(name string, cost, strength, toughness int, keywords ...effects.Keyword) *cards.Definition {
	return &cards.Definition{
		Name:     name,
		Cost:     cost,
		Type:     cards.TypeUnit,
		Unit:     &cards.UnitStats{Strength: strength, Toughness: toughness},
		Keywords: keywords,
	}
}

func monumentDef(name string, cost int) *cards.Definition {
	return &cards.Definition{Name: name, Cost: cost, Type: cards.TypeMonument}
}

func actionDef(name string, cost int) *cards.Definition {
	return &cards.Definition{Name: name, Cost: cost, Type: cards.TypeAction}
}

func treasureDef(name string, gold int) *cards.Definition {
	return &cards.Definition{Name: name, Type: cards.TypeTreasure, GoldValue: gold}
}

func tokenDef(name string) *cards.Definition {
	return &cards.Definition{Name: name, Type: cards.TypeToken}
}

// smallDeck is nine realm cards, two treasures and a token.
func smallDeck() []*cards.Definition {
	squire := unitDef("Squire", 1, 1, 1)
	archer := unitDef("Archer", 2, 2, 1)
	knight := unitDef("Knight", 3, 3, 3)
	coin := treasureDef("Gold Coin", 1)
	return []*cards.Definition{
		squire, squire,
		archer, archer,
		knight, knight,
		monumentDef("Watchtower", 2),
		actionDef("Ambush Orders", 1),
		unitDef("Berserker", 2, 2, 2, effects.KeywordFrenzy),
		coin, coin,
		tokenDef("Spirit"),
	}
}

// fullDeck is 45 realm cards, 15 treasures and 5 tokens.
func fullDeck() []*cards.Definition {
	var deck []*cards.Definition
	for i := 0; i < 15; i++ {
		deck = append(deck,
			unitDef("Footman", 1, 1, 2),
			unitDef("Raider", 2, 2, 1, effects.KeywordFrenzy),
			monumentDef("Shrine", 3),
		)
	}
	for i := 0; i < 15; i++ {
		deck = append(deck, treasureDef("Gold Coin", 1))
	}
	for i := 0; i < 5; i++ {
		deck = append(deck, tokenDef("Spirit"))
	}
	return deck
}

func newTestMatch(t *testing.T, deck func() []*cards.Definition, opts Options) *Match {
	t.Helper()
	if opts.Shuffler == nil && opts.Seed == 0 {
		opts.Shuffler = fixedShuffler{}
	}
	m, err := NewMatch(
		PlayerSetup{Name: "Alice", Deck: deck()},
		PlayerSetup{Name: "Bob", Deck: deck()},
		opts,
		zaptest.NewLogger(t),
	)
	require.NoError(t, err)
	return m
}

// mainPhaseMatch starts a match and settles the mulligan by having each
// player bottom the first card of their hand.
func mainPhaseMatch(t *testing.T, deck func() []*cards.Definition, opts Options) *Match {
	t.Helper()
	m := newTestMatch(t, deck, opts)
	require.NoError(t, m.Start())
	for _, name := range m.Players() {
		first := m.players[name].Hand().IDs()[0]
		res := m.ExecuteAction(name, rules.ActionReturnToBottom, Params{CardID: first})
		require.True(t, res.Success, res.Message)
	}
	require.Equal(t, rules.PhaseMain1, m.Phase())
	return m
}

// passUntil passes for whoever holds priority until the match reaches phase.
func passUntil(t *testing.T, m *Match, phase rules.Phase) {
	t.Helper()
	for i := 0; i < 20 && m.Phase() != phase; i++ {
		res := m.PassPhase()
		require.True(t, res.Success, res.Message)
	}
	require.Equal(t, phase, m.Phase())
}

// cardNamed returns the id of the first card called name in items.
func cardNamed(t *testing.T, items []cards.Item, name string) cards.ID {
	t.Helper()
	for _, item := range items {
		if item.Def().Name == name {
			return item.CardID()
		}
	}
	t.Fatalf("no card named %q", name)
	return 0
}

// recordingHooks counts hook invocations per trigger.
type recordingHooks struct {
	calls map[effects.Trigger][]cards.ID
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{calls: make(map[effects.Trigger][]cards.ID)}
}

func (h *recordingHooks) record(trigger effects.Trigger, inst *cards.Instance) {
	h.calls[trigger] = append(h.calls[trigger], inst.CardID())
}

func (h *recordingHooks) EnterPlay(_ HookContext, inst *cards.Instance) {
	h.record(effects.TriggerEnterPlay, inst)
}

func (h *recordingHooks) TurnStart(_ HookContext, inst *cards.Instance) {
	h.record(effects.TriggerTurnStart, inst)
}

func (h *recordingHooks) TurnEnd(_ HookContext, inst *cards.Instance) {
	h.record(effects.TriggerTurnEnd, inst)
}

func (h *recordingHooks) CombatDamage(_ HookContext, inst *cards.Instance, _ int) {
	h.record(effects.TriggerCombatDamage, inst)
}

func (h *recordingHooks) Activated(_ HookContext, inst *cards.Instance, _ effects.Descriptor) {
	h.record(effects.TriggerActivated, inst)
}
