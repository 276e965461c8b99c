package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/effects"
)

// ErrUnknownCard is returned when a deck list names a card the catalog
// does not hold.
var ErrUnknownCard = errors.New("unknown card")

// Record is one catalog row as stored by a source, before validation.
// Type and keyword names may use the printed Spanish spellings.
type Record struct {
	Name          string               `yaml:"name"`
	Cost          int                  `yaml:"cost"`
	Type          string               `yaml:"type"`
	Text          string               `yaml:"text,omitempty"`
	Supertype     string               `yaml:"supertype,omitempty"`
	Subtypes      []string             `yaml:"subtypes,omitempty"`
	Strength      *int                 `yaml:"strength,omitempty"`
	Toughness     *int                 `yaml:"toughness,omitempty"`
	Gold          int                  `yaml:"gold,omitempty"`
	Keywords      []string             `yaml:"keywords,omitempty"`
	Effects       []effects.Descriptor `yaml:"effects,omitempty"`
	Expansion     string               `yaml:"expansion,omitempty"`
	Rarity        string               `yaml:"rarity,omitempty"`
	Clarification string               `yaml:"clarification,omitempty"`
}

// Definition converts the record into a validated card definition.
func (r Record) Definition() (*cards.Definition, error) {
	name := strings.TrimSpace(r.Name)
	typ, err := cards.ParseType(r.Type)
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", name, err)
	}

	def := &cards.Definition{
		Name:      name,
		Cost:      r.Cost,
		Text:      strings.TrimSpace(r.Text),
		Type:      typ,
		Supertype: strings.TrimSpace(r.Supertype),
		GoldValue: r.Gold,
	}
	for _, sub := range r.Subtypes {
		if sub = strings.TrimSpace(sub); sub != "" {
			def.Subtypes = append(def.Subtypes, sub)
		}
	}
	if typ == cards.TypeUnit {
		def.Unit = &cards.UnitStats{Strength: intOrZero(r.Strength), Toughness: intOrZero(r.Toughness)}
	}

	for _, raw := range r.Keywords {
		kw, err := effects.ParseKeyword(raw)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", name, err)
		}
		if !effects.HasKeyword(def.Keywords, kw) {
			def.Keywords = append(def.Keywords, kw)
		}
	}

	for i, eff := range r.Effects {
		if eff.Op == effects.OpKeyword {
			kw, err := effects.ParseKeyword(string(eff.Keyword))
			if err != nil {
				return nil, fmt.Errorf("card %q effect %d: %w", name, i, err)
			}
			eff.Keyword = kw
		}
		def.Effects = append(def.Effects, eff)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// scanKeywords picks the standalone keyword sentences out of printed rules
// text, e.g. "Temible. Frenesí." yields FEARSOME and FRENZY.
func scanKeywords(text string) []string {
	var out []string
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if _, err := effects.ParseKeyword(sentence); err == nil {
			out = append(out, sentence)
		}
	}
	return out
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
