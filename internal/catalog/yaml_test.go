package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/effects"
)

func TestLoadYAMLCatalog(t *testing.T) {
	c, err := Load(context.Background(), YAMLSource{Path: "testdata/catalog.yaml"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 7, c.Len())

	queen, ok := c.Lookup("reina del norte")
	require.True(t, ok)
	assert.True(t, queen.IsRoyalty())
	assert.Equal(t, []string{"Humano"}, queen.Subtypes)

	tower, ok := c.Lookup("ATALAYA")
	require.True(t, ok)
	assert.Equal(t, cards.TypeMonument, tower.Type)
	require.Len(t, tower.Effects, 1)
	assert.True(t, tower.Effects[0].FiresOn(effects.TriggerTurnStart))

	coin, ok := c.Lookup("Moneda de Oro")
	require.True(t, ok)
	gold, generates := coin.GeneratesGold()
	assert.True(t, generates)
	assert.Equal(t, 1, gold)
}

func TestDecodeYAMLRejectsUnknownFields(t *testing.T) {
	_, err := DecodeYAML(strings.NewReader("cards:\n  - name: X\n    type: UNIT\n    power: 3\n"))
	assert.Error(t, err)
}

func TestDecodeYAMLRequiresCards(t *testing.T) {
	_, err := DecodeYAML(strings.NewReader("decks: []\n"))
	assert.Error(t, err)
}

func TestYAMLSourceMissingFile(t *testing.T) {
	_, err := YAMLSource{Path: "testdata/missing.yaml"}.Records(context.Background())
	assert.Error(t, err)
}

func TestFileDeckLookup(t *testing.T) {
	f, err := ReadYAMLFile("testdata/catalog.yaml")
	require.NoError(t, err)

	list, ok := f.Deck("control de los mares")
	require.True(t, ok)
	assert.Equal(t, 9, list.Size())

	_, ok = f.Deck("Aggro Rojo")
	assert.False(t, ok)
}
