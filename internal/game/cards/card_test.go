package cards

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thraizz/realms-server-go/internal/game/effects"
)

func unitDef(name string, cost, strength, toughness int, keywords ...effects.Keyword) *Definition {
	return &Definition{
		Name:     name,
		Cost:     cost,
		Type:     TypeUnit,
		Unit:     &UnitStats{Strength: strength, Toughness: toughness},
		Keywords: keywords,
	}
}

func TestParseType(t *testing.T) {
	cases := map[string]Type{
		"UNIT":     TypeUnit,
		"unidad":   TypeUnit,
		"Monument": TypeMonument,
		"ACCIÓN":   TypeAction,
		"tesoro":   TypeTreasure,
		"TOKEN":    TypeToken,
	}
	for in, want := range cases {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseType("PLANESWALKER")
	assert.Error(t, err)
}

func TestCanBePlayed(t *testing.T) {
	unit := unitDef("Squire", 3, 2, 2)
	assert.False(t, unit.CanBePlayed(2))
	assert.True(t, unit.CanBePlayed(3))

	monument := &Definition{Name: "Keep", Cost: 4, Type: TypeMonument}
	assert.False(t, monument.CanBePlayed(0))

	treasure := &Definition{Name: "Coin", Cost: 9, Type: TypeTreasure}
	assert.True(t, treasure.CanBePlayed(0))

	token := &Definition{Name: "Trinket", Type: TypeToken}
	assert.True(t, token.CanBePlayed(0))
}

func TestGeneratesGold(t *testing.T) {
	gold, ok := (&Definition{Type: TypeTreasure}).GeneratesGold()
	assert.True(t, ok)
	assert.Equal(t, 1, gold)

	gold, ok = (&Definition{Type: TypeTreasure, GoldValue: 3}).GeneratesGold()
	assert.True(t, ok)
	assert.Equal(t, 3, gold)

	_, ok = unitDef("Squire", 1, 1, 1).GeneratesGold()
	assert.False(t, ok)
}

func TestCanAttackImmediately(t *testing.T) {
	assert.False(t, unitDef("Squire", 1, 1, 1).CanAttackImmediately())
	assert.True(t, unitDef("Berserker", 2, 3, 1, effects.KeywordFrenzy).CanAttackImmediately())

	monument := &Definition{Name: "Keep", Type: TypeMonument, Keywords: []effects.Keyword{effects.KeywordFrenzy}}
	assert.False(t, monument.CanAttackImmediately())
}

func TestIsRoyalty(t *testing.T) {
	assert.True(t, (&Definition{Supertype: "royalty"}).IsRoyalty())
	assert.True(t, (&Definition{Supertype: "REALEZA"}).IsRoyalty())
	assert.False(t, (&Definition{Supertype: "RAPIDA"}).IsRoyalty())
}

func TestDefinitionValidate(t *testing.T) {
	require.NoError(t, unitDef("Squire", 1, 1, 1).Validate())

	assert.Error(t, (&Definition{Name: "", Type: TypeUnit}).Validate())
	assert.Error(t, (&Definition{Name: "Squire", Type: TypeUnit}).Validate(), "unit without stats")
	assert.Error(t, (&Definition{Name: "Keep", Type: TypeMonument, Unit: &UnitStats{}}).Validate())
	assert.Error(t, (&Definition{Name: "Keep", Type: TypeMonument, Cost: -1}).Validate())

	bad := &Definition{
		Name:    "Oracle",
		Type:    TypeAction,
		Effects: []effects.Descriptor{{Kind: effects.KindTriggered, Op: effects.OpDigVault}},
	}
	assert.Error(t, bad.Validate(), "triggered effect without trigger")
}

func TestIDGeneratorMonotonic(t *testing.T) {
	gen := NewIDGenerator(0)
	prev := uint64(0)
	for i := 0; i < 100; i++ {
		next := gen.Next()
		assert.Greater(t, next, prev)
		prev = next
	}
	assert.Equal(t, uint64(100), gen.Last())
}

func TestWrapAndReady(t *testing.T) {
	cardIDs := NewIDGenerator(0)
	instanceIDs := NewIDGenerator(0)

	card := NewCard(unitDef("Squire", 1, 2, 2), cardIDs)
	inst := Wrap(card, instanceIDs)

	assert.Equal(t, card.ID, inst.CardID())
	assert.Equal(t, uint64(1), inst.InstanceID)
	assert.False(t, inst.CanAttack)
	assert.Same(t, card, inst.Unwrap())
	assert.Same(t, card, Bare(inst))
	assert.Same(t, card, Bare(card))

	inst.Tapped = true
	inst.Damage = 2
	assert.True(t, inst.Destroyed())

	inst.Ready()
	assert.True(t, inst.CanAttack)
	assert.False(t, inst.Tapped)
	assert.Equal(t, 0, inst.Damage)
	assert.False(t, inst.Destroyed())
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "card_0007", ID(7).String())
	assert.Equal(t, "card_12345", ID(12345).String())
}

func TestParseID(t *testing.T) {
	for _, in := range []string{"card_0042", "42", " card_42 "} {
		id, err := ParseID(in)
		require.NoError(t, err, in)
		assert.Equal(t, ID(42), id)
	}
	for _, in := range []string{"", "card_", "card_0000", "card_x1", "-3"} {
		_, err := ParseID(in)
		assert.Error(t, err, in)
	}
}

func TestIDJSON(t *testing.T) {
	type payload struct {
		Card ID `json:"card"`
	}
	out, err := json.Marshal(payload{Card: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"card":"card_0003"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"card":"card_0011"}`), &in))
	assert.Equal(t, ID(11), in.Card)
}
