package catalog

import (
	"errors"
	"fmt"

	"github.com/thraizz/realms-server-go/internal/game/cards"
)

// DeckEntry names a card and how many copies the deck holds.
type DeckEntry struct {
	Name   string `yaml:"name" json:"name"`
	Copies int    `yaml:"copies,omitempty" json:"copies,omitempty"`
}

// DeckList is a named list of entries. Realm cards, treasures and tokens
// all go in the same list; the match sorts them into zones.
type DeckList struct {
	Name  string      `yaml:"name" json:"name"`
	Cards []DeckEntry `yaml:"cards" json:"cards"`
}

// Size returns the total number of copies in the list.
func (l DeckList) Size() int {
	n := 0
	for _, e := range l.Cards {
		n += copiesOf(e)
	}
	return n
}

// Build resolves a deck list against the catalog. Every unknown name is
// reported; nothing is returned unless all of them resolve.
func (c *Catalog) Build(list DeckList) ([]*cards.Definition, error) {
	var (
		deck []*cards.Definition
		errs []error
	)
	for _, entry := range list.Cards {
		if entry.Copies < 0 {
			errs = append(errs, fmt.Errorf("%q: negative copies %d", entry.Name, entry.Copies))
			continue
		}
		def, ok := c.Lookup(entry.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownCard, entry.Name))
			continue
		}
		for i := 0; i < copiesOf(entry); i++ {
			deck = append(deck, def)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("deck %q: %w", list.Name, err)
	}
	return deck, nil
}

// Counts splits a built deck by destination: realm cards, treasures, tokens.
func Counts(deck []*cards.Definition) (realm, treasures, tokens int) {
	for _, def := range deck {
		switch def.Type {
		case cards.TypeTreasure:
			treasures++
		case cards.TypeToken:
			tokens++
		default:
			realm++
		}
	}
	return realm, treasures, tokens
}

func copiesOf(e DeckEntry) int {
	if e.Copies == 0 {
		return 1
	}
	return e.Copies
}
