package game

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/effects"
	"github.com/thraizz/realms-server-go/internal/game/rules"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

// raiderDeck is nine cheap units that may attack at once, two treasures and
// a token.
func raiderDeck() []*cards.Definition {
	raider := unitDef("Raider", 0, 2, 2, effects.KeywordFrenzy)
	coin := treasureDef("Gold Coin", 1)
	deck := make([]*cards.Definition, 0, 12)
	for i := 0; i < 9; i++ {
		deck = append(deck, raider)
	}
	return append(deck, coin, coin, tokenDef("Spirit"))
}

func TestNewMatchValidatesPlayers(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := NewMatch(PlayerSetup{Name: "Alice"}, PlayerSetup{Name: " "}, Options{}, logger)
	assert.Error(t, err)

	_, err = NewMatch(PlayerSetup{Name: "Alice"}, PlayerSetup{Name: "Alice"}, Options{}, logger)
	assert.Error(t, err)

	tooMany := make([]*cards.Definition, DeckSize+1)
	for i := range tooMany {
		tooMany[i] = unitDef("Footman", 1, 1, 1)
	}
	_, err = NewMatch(PlayerSetup{Name: "Alice", Deck: tooMany}, PlayerSetup{Name: "Bob"}, Options{}, logger)
	assert.ErrorIs(t, err, zone.ErrZoneFull)

	broken := []*cards.Definition{{Name: "Nameless Unit", Type: cards.TypeUnit}}
	_, err = NewMatch(PlayerSetup{Name: "Alice", Deck: broken}, PlayerSetup{Name: "Bob"}, Options{}, logger)
	assert.Error(t, err)
}

func TestNewMatchSortsCardsIntoZones(t *testing.T) {
	m := newTestMatch(t, fullDeck, Options{})

	for _, name := range m.Players() {
		p := m.players[name]
		assert.Equal(t, DeckSize, p.Deck().Len())
		assert.Equal(t, VaultSize, p.Vault().Len())
		assert.Equal(t, 5, p.Tokens().Len())
		assert.Zero(t, p.Hand().Len())
	}
	assert.NotEmpty(t, m.ID())
	assert.Equal(t, rules.PhaseSetup, m.Phase())
	assert.Equal(t, 1, m.Turn())
}

func TestActionsBeforeStartAreRejected(t *testing.T) {
	m := newTestMatch(t, smallDeck, Options{})

	res := m.ExecuteAction("Alice", rules.ActionPass, Params{})
	assert.False(t, res.Success)
	assert.Equal(t, rules.CodeInvalidOption, res.Code)

	require.NoError(t, m.Start())
	assert.Error(t, m.Start())
}

func TestStartDealsOpeningHands(t *testing.T) {
	m := newTestMatch(t, fullDeck, Options{})
	require.NoError(t, m.Start())

	for _, name := range m.Players() {
		p := m.players[name]
		assert.Equal(t, 7, p.Hand().Len())
		assert.Equal(t, 38, p.Deck().Len())
	}
	assert.Equal(t, rules.PhaseSetup, m.Phase())
	assert.Equal(t, rules.WaitingForMulligan, m.WaitingFor())
	assert.Equal(t, []string{"Alice", "Bob"}, m.Pending())
}

func TestMulliganSubProtocol(t *testing.T) {
	m := newTestMatch(t, smallDeck, Options{})
	require.NoError(t, m.Start())
	alice := m.players["Alice"]

	res := m.ExecuteAction("Alice", rules.ActionPass, Params{})
	assert.Equal(t, rules.CodeInvalidOption, res.Code, "pass cannot skip the mulligan")

	res = m.ExecuteAction("Alice", rules.ActionMulligan, Params{})
	require.True(t, res.Success, res.Message)
	assert.True(t, alice.MulliganUsed)
	assert.Equal(t, 7, alice.Hand().Len())

	hand, deck := alice.Hand().IDs(), alice.Deck().IDs()
	res = m.ExecuteAction("Alice", rules.ActionMulligan, Params{})
	assert.False(t, res.Success)
	assert.Equal(t, rules.CodeInvalidOption, res.Code)
	assert.Equal(t, hand, alice.Hand().IDs())
	assert.Equal(t, deck, alice.Deck().IDs())

	res = m.ExecuteAction("Alice", rules.ActionReturnToBottom, Params{CardID: hand[0]})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, hand[0], alice.Deck().IDs()[alice.Deck().Len()-1])
	assert.Equal(t, rules.PhaseSetup, m.Phase(), "phase waits for both players")
	assert.Equal(t, []string{"Bob"}, m.Pending())

	res = m.ExecuteAction("Alice", rules.ActionReturnToBottom, Params{CardID: hand[1]})
	assert.Equal(t, rules.CodeNotPlayerTurn, res.Code)

	res = m.ExecuteAction("Bob", rules.ActionReturnToBottom, Params{CardID: cards.ID(9999)})
	assert.Equal(t, rules.CodeCardNotFound, res.Code)
	assert.Equal(t, []string{"Bob"}, m.Pending())

	bobFirst := m.players["Bob"].Hand().IDs()[0]
	res = m.ExecuteAction("Bob", rules.ActionReturnToBottom, Params{CardID: bobFirst})
	require.True(t, res.Success, res.Message)

	assert.Equal(t, rules.PhaseMain1, m.Phase())
	assert.Equal(t, rules.WaitingForNothing, m.WaitingFor())
	assert.Equal(t, []string{"Alice", "Bob"}, m.Pending())

	res = m.ExecuteAction("Alice", rules.ActionMulligan, Params{})
	assert.Equal(t, rules.CodeIllegalPhaseAction, res.Code)
}

func TestPlayCardDuringAttackIsIllegal(t *testing.T) {
	m := mainPhaseMatch(t, smallDeck, Options{})
	passUntil(t, m, rules.PhaseAttack)

	hand := m.players["Alice"].Hand().IDs()
	before := m.Snapshot().Canonical()

	res := m.ExecuteAction("Alice", rules.ActionPlayCard, Params{CardID: hand[0]})
	assert.False(t, res.Success)
	assert.Equal(t, rules.CodeIllegalPhaseAction, res.Code)
	assert.Equal(t, before, m.Snapshot().Canonical())
}

func TestBothPassInMainAdvancesToAttack(t *testing.T) {
	m := mainPhaseMatch(t, smallDeck, Options{})

	res := m.ExecuteAction("Alice", rules.ActionPass, Params{})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, rules.PhaseMain1, m.Phase())
	assert.Equal(t, "Bob", m.CurrentPlayer())

	res = m.ExecuteAction("Alice", rules.ActionPass, Params{})
	assert.Equal(t, rules.CodeNotPlayerTurn, res.Code, "Alice already passed")

	res = m.ExecuteAction("Bob", rules.ActionPass, Params{})
	require.True(t, res.Success, res.Message)

	assert.Equal(t, rules.PhaseAttack, m.Phase())
	assert.Equal(t, []string{m.PriorityPlayer(), "Bob"}, m.Pending())
	assert.Equal(t, "ATTACK", res.Data["phase"])
}

func TestConcurrentPassPhaseEachSpendsOnePriority(t *testing.T) {
	m := mainPhaseMatch(t, smallDeck, Options{})

	var wg sync.WaitGroup
	results := make([]ActionResult, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = m.PassPhase()
		}()
	}
	wg.Wait()

	for _, res := range results {
		assert.True(t, res.Success, res.Message)
	}
	assert.NotEqual(t, results[0].Message, results[1].Message)
	assert.Equal(t, rules.PhaseAttack, m.Phase())
}

func TestInsufficientGoldLeavesStateUntouched(t *testing.T) {
	m := mainPhaseMatch(t, smallDeck, Options{})
	alice := m.players["Alice"]
	alice.Resources.Gain(2)

	knight := cardNamed(t, alice.Hand().Peek(), "Knight")
	before := m.Snapshot().Canonical()

	res := m.ExecuteAction("Alice", rules.ActionPlayCard, Params{CardID: knight})
	assert.False(t, res.Success)
	assert.Equal(t, rules.CodeInsufficientResources, res.Code)
	assert.Equal(t, before, m.Snapshot().Canonical())

	gold, err := m.Gold("Alice")
	require.NoError(t, err)
	assert.Equal(t, 2, gold)
}

func TestOnlyHeadOfQueueMayAct(t *testing.T) {
	m := mainPhaseMatch(t, raiderDeck, Options{})
	bobCard := m.players["Bob"].Hand().IDs()[0]

	res := m.ExecuteAction("Bob", rules.ActionPlayCard, Params{CardID: bobCard})
	assert.Equal(t, rules.CodeNotPlayerTurn, res.Code)

	require.True(t, m.ExecuteAction("Alice", rules.ActionPass, Params{}).Success)
	res = m.ExecuteAction("Bob", rules.ActionPlayCard, Params{CardID: bobCard})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, bobCard.String(), res.Data["card_id"])

	res = m.ExecuteAction("Mallory", rules.ActionPass, Params{})
	assert.Equal(t, rules.CodeInvalidOption, res.Code)
}

func TestPhaseCycle(t *testing.T) {
	m := mainPhaseMatch(t, smallDeck, Options{})

	var seen []rules.Event
	m.Events().SubscribeTyped(rules.EventPhaseChanged, func(e rules.Event) {
		seen = append(seen, e)
	})

	const turns = 3
	for i := 0; i < turns*8; i++ {
		res := m.PassPhase()
		require.True(t, res.Success, res.Message)
	}

	require.NotEmpty(t, seen)
	prevPhase, prevTurn := rules.PhaseMain1, 1
	for _, e := range seen {
		want, wrapped := prevPhase.Next()
		assert.Equal(t, want, e.Phase)
		if wrapped {
			assert.Equal(t, prevTurn+1, e.Turn)
		} else {
			assert.Equal(t, prevTurn, e.Turn)
		}
		prevPhase, prevTurn = e.Phase, e.Turn
	}

	assert.Equal(t, rules.PhaseMain1, m.Phase())
	assert.Equal(t, turns+1, m.Turn())
	assert.Equal(t, "Bob", m.PriorityPlayer(), "priority alternates every turn")
}

func TestEndOfTurnCleanupAndHooks(t *testing.T) {
	hooks := newRecordingHooks()
	m := mainPhaseMatch(t, raiderDeck, Options{Hooks: hooks})
	alice := m.players["Alice"]

	raider := alice.Hand().IDs()[0]
	require.True(t, m.ExecuteAction("Alice", rules.ActionRevealTreasure, Params{}).Success)
	coin := alice.Reserve().IDs()[0]
	require.True(t, m.ExecuteAction("Alice", rules.ActionActivateTreasure, Params{CardID: coin}).Success)
	require.True(t, m.ExecuteAction("Alice", rules.ActionPlayCard, Params{CardID: raider}).Success)
	assert.Equal(t, []cards.ID{raider}, hooks.calls[effects.TriggerEnterPlay])

	passUntil(t, m, rules.PhaseAttack)
	require.True(t, m.ExecuteAction("Alice", rules.ActionDeclareAttack, Params{CardID: raider}).Success)
	passUntil(t, m, rules.PhaseMain2)

	life, err := m.Life("Bob")
	require.NoError(t, err)
	assert.Equal(t, 18, life)
	assert.Equal(t, []cards.ID{raider}, hooks.calls[effects.TriggerCombatDamage])
	assert.Equal(t, []cards.ID{raider}, alice.Combat().IDs(), "attackers stay in combat until cleanup")

	passUntil(t, m, rules.PhaseSetup)
	assert.Equal(t, 2, m.Turn())
	assert.Equal(t, "Bob", m.PriorityPlayer())
	assert.Equal(t, []cards.ID{raider}, hooks.calls[effects.TriggerTurnEnd])
	assert.Empty(t, hooks.calls[effects.TriggerTurnStart], "Bob has nothing in play")

	assert.Zero(t, alice.Combat().Len())
	assert.Zero(t, alice.Exhausted().Len())
	assert.Equal(t, []cards.ID{coin}, alice.Reserve().IDs())
	inst := instanceIn(alice.Formation(), raider)
	require.NotNil(t, inst)
	assert.False(t, inst.Tapped)
	assert.True(t, inst.CanAttack)

	gold, err := m.Gold("Alice")
	require.NoError(t, err)
	assert.Equal(t, 1, gold, "unspent gold carries over")
}

func TestBlockedAttackersTradeDamage(t *testing.T) {
	m := mainPhaseMatch(t, raiderDeck, Options{})
	alice, bob := m.players["Alice"], m.players["Bob"]

	attacker := alice.Hand().IDs()[0]
	blocker := bob.Hand().IDs()[0]
	require.True(t, m.ExecuteAction("Alice", rules.ActionPlayCard, Params{CardID: attacker}).Success)
	require.True(t, m.ExecuteAction("Alice", rules.ActionPass, Params{}).Success)
	require.True(t, m.ExecuteAction("Bob", rules.ActionPlayCard, Params{CardID: blocker}).Success)
	require.True(t, m.ExecuteAction("Bob", rules.ActionPass, Params{}).Success)
	require.Equal(t, rules.PhaseAttack, m.Phase())

	res := m.ExecuteAction("Alice", rules.ActionDeclareDefense, Params{CardID: attacker, TargetID: attacker})
	assert.Equal(t, rules.CodeInvalidOption, res.Code, "the attacking player cannot defend")

	require.True(t, m.ExecuteAction("Alice", rules.ActionDeclareAttack, Params{CardID: attacker}).Success)
	require.True(t, m.ExecuteAction("Alice", rules.ActionPass, Params{}).Success)

	res = m.ExecuteAction("Bob", rules.ActionDeclareAttack, Params{CardID: blocker})
	assert.Equal(t, rules.CodeInvalidOption, res.Code, "only the priority player attacks")
	res = m.ExecuteAction("Bob", rules.ActionDeclareDefense, Params{CardID: blocker, TargetID: blocker})
	assert.Equal(t, rules.CodeInvalidOption, res.Code, "target is not attacking")

	res = m.ExecuteAction("Bob", rules.ActionDeclareDefense, Params{CardID: blocker, TargetID: attacker})
	require.True(t, res.Success, res.Message)
	require.True(t, m.ExecuteAction("Bob", rules.ActionPass, Params{}).Success)

	assert.Equal(t, rules.PhaseMain2, m.Phase())
	assert.Equal(t, []cards.ID{attacker}, alice.Discard().IDs())
	assert.Equal(t, []cards.ID{blocker}, bob.Discard().IDs())
	assert.Equal(t, 20, bob.Resources.Life())

	_, bare := alice.Discard().Peek()[0].(*cards.Card)
	assert.True(t, bare, "destroyed units are unwrapped")
}

func TestLethalDamageEndsMatch(t *testing.T) {
	m := mainPhaseMatch(t, raiderDeck, Options{})
	alice, bob := m.players["Alice"], m.players["Bob"]
	bob.Resources.LoseLife(18)

	raider := alice.Hand().IDs()[0]
	require.True(t, m.ExecuteAction("Alice", rules.ActionPlayCard, Params{CardID: raider}).Success)
	passUntil(t, m, rules.PhaseAttack)
	require.True(t, m.ExecuteAction("Alice", rules.ActionDeclareAttack, Params{CardID: raider}).Success)
	require.True(t, m.ExecuteAction("Alice", rules.ActionPass, Params{}).Success)
	require.True(t, m.ExecuteAction("Bob", rules.ActionPass, Params{}).Success)

	winner, over := m.Winner()
	assert.True(t, over)
	assert.Equal(t, "Alice", winner)
	assert.Empty(t, m.Pending())

	res := m.ExecuteAction("Bob", rules.ActionPass, Params{})
	assert.False(t, res.Success)
	assert.Equal(t, rules.CodeInvalidOption, res.Code)
}

func TestCardsAreConservedAndUnique(t *testing.T) {
	m := newTestMatch(t, fullDeck, Options{Seed: 7})

	initial := map[string][]cards.ID{}
	for _, name := range m.Players() {
		ids := m.players[name].CardIDs()
		slices.Sort(ids)
		initial[name] = ids
	}

	require.NoError(t, m.Start())
	require.True(t, m.ExecuteAction("Alice", rules.ActionMulligan, Params{}).Success)
	for _, name := range m.Players() {
		first := m.players[name].Hand().IDs()[0]
		require.True(t, m.ExecuteAction(name, rules.ActionReturnToBottom, Params{CardID: first}).Success)
	}

	for turn := 0; turn < 3; turn++ {
		// Rejected attempts are expected here and must not disturb anything.
		for i := 0; i < 2; i++ {
			name := m.CurrentPlayer()
			p := m.players[name]
			m.ExecuteAction(name, rules.ActionRevealTreasure, Params{})
			m.ExecuteAction(name, rules.ActionTakeToken, Params{})
			for _, id := range p.Reserve().IDs() {
				m.ExecuteAction(name, rules.ActionActivateTreasure, Params{CardID: id})
			}
			for _, id := range p.Hand().IDs() {
				m.ExecuteAction(name, rules.ActionPlayCard, Params{CardID: id})
			}
			require.True(t, m.PassPhase().Success)
		}
		require.Equal(t, rules.PhaseAttack, m.Phase())
		attacker := m.players[m.PriorityPlayer()]
		for _, id := range attacker.Formation().IDs() {
			m.ExecuteAction(attacker.Name, rules.ActionDeclareAttack, Params{CardID: id})
		}
		passUntil(t, m, rules.PhaseMain1)
	}

	seen := map[cards.ID]string{}
	for _, name := range m.Players() {
		p := m.players[name]
		ids := p.CardIDs()
		for _, id := range ids {
			owner, dup := seen[id]
			require.False(t, dup, "%s held by %s and %s", id, owner, name)
			seen[id] = name
		}
		slices.Sort(ids)
		assert.Equal(t, initial[name], ids, "cards of %s", name)

		assert.LessOrEqual(t, p.Hand().Len(), HandSize)
		assert.LessOrEqual(t, p.Deck().Len(), DeckSize)
		assert.LessOrEqual(t, p.Reserve().Len(), ReserveSize)
		assert.LessOrEqual(t, p.Vault().Len(), VaultSize)
	}
}

func TestInstanceIDsIncrease(t *testing.T) {
	m := mainPhaseMatch(t, raiderDeck, Options{})
	alice := m.players["Alice"]

	var last uint64
	for _, id := range alice.Hand().IDs()[:3] {
		res := m.ExecuteAction("Alice", rules.ActionPlayCard, Params{CardID: id})
		require.True(t, res.Success, res.Message)
		instanceID, ok := res.Data["instance_id"].(uint64)
		require.True(t, ok)
		assert.Greater(t, instanceID, last)
		last = instanceID
	}
}

func TestNotificationsAfterAction(t *testing.T) {
	m := mainPhaseMatch(t, smallDeck, Options{})

	var got []Notification
	m.SetNotificationHandler(func(n Notification) {
		got = append(got, n)
		// Handlers run unlocked and may read the match.
		_ = m.Phase()
	})

	require.True(t, m.ExecuteAction("Alice", rules.ActionPass, Params{}).Success)

	require.Len(t, got, 2)
	assert.Equal(t, rules.EventPassed, got[0].Type)
	assert.Equal(t, "Alice", got[0].PlayerID)
	assert.Equal(t, m.ID(), got[0].MatchID)
	assert.Equal(t, rules.EventPriority, got[1].Type)
	assert.Equal(t, "Bob", got[1].PlayerID)
	assert.Equal(t, "MAIN_1", got[1].Data["phase"])
}

func TestSeeCardsIsReadOnly(t *testing.T) {
	m := mainPhaseMatch(t, smallDeck, Options{})

	views, err := m.SeeCards("Alice", zone.Hand)
	require.NoError(t, err)
	require.Len(t, views, 6)
	views[0].Name = "Changed"

	again, err := m.SeeCards("Alice", zone.Hand)
	require.NoError(t, err)
	assert.NotEqual(t, "Changed", again[0].Name)

	_, err = m.PublicCards("Alice", zone.Hand)
	require.NoError(t, err)
	_, err = m.SeeCards("Alice", zone.Deck)
	require.NoError(t, err)
	for _, hidden := range []zone.Name{zone.Deck, zone.Vault} {
		_, err = m.PublicCards("Alice", hidden)
		assert.ErrorIs(t, err, ErrHiddenZone)
	}

	_, err = m.SeeCards("Mallory", zone.Hand)
	assert.Error(t, err)
	_, err = m.Life("Mallory")
	assert.Error(t, err)
}
