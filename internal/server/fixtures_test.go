package server

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/realms-server-go/internal/catalog"
	"github.com/thraizz/realms-server-go/internal/game"
)

// keepOrder never swaps, so decks stay in list order.
type keepOrder struct{}

func (keepOrder) IntN(n int) int { return n - 1 }

func intPtr(v int) *int { return &v }

func testRecords() []catalog.Record {
	return []catalog.Record{
		{Name: "Escudero", Cost: 1, Type: "UNIDAD", Strength: intPtr(1), Toughness: intPtr(1)},
		{Name: "Arquero", Cost: 2, Type: "UNIDAD", Strength: intPtr(2), Toughness: intPtr(1)},
		{Name: "Lobo", Cost: 2, Type: "UNIDAD", Strength: intPtr(2), Toughness: intPtr(2), Keywords: []string{"Frenesí"}},
		{Name: "Atalaya", Cost: 2, Type: "MONUMENTO"},
		{Name: "Moneda de Oro", Type: "TESORO"},
		{Name: "Espíritu", Type: "TOKEN"},
	}
}

func testDecks() []catalog.DeckList {
	return []catalog.DeckList{
		{Name: "Mares", Cards: []catalog.DeckEntry{
			{Name: "Escudero", Copies: 4},
			{Name: "Arquero", Copies: 3},
			{Name: "Lobo", Copies: 2},
			{Name: "Atalaya", Copies: 1},
			{Name: "Moneda de Oro", Copies: 3},
			{Name: "Espíritu", Copies: 1},
		}},
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cat := catalog.New(logger)
	require.NoError(t, cat.AddAll(testRecords()))
	return NewRegistry(cat, testDecks(), game.Options{Shuffler: keepOrder{}}, logger)
}

func seats() (SeatRequest, SeatRequest) {
	return SeatRequest{Name: "Alice", Deck: "mares"}, SeatRequest{Name: "Bob", Deck: "Mares"}
}
