package cards

import (
	"fmt"
	"strings"

	"github.com/thraizz/realms-server-go/internal/game/effects"
)

// Type is the closed set of card types.
type Type int

const (
	TypeUnknown Type = iota
	TypeUnit
	TypeMonument
	TypeAction
	TypeTreasure
	TypeToken
)

var typeNames = map[Type]string{
	TypeUnit:     "UNIT",
	TypeMonument: "MONUMENT",
	TypeAction:   "ACTION",
	TypeTreasure: "TREASURE",
	TypeToken:    "TOKEN",
}

// typeAliases accepts the printed catalog names as well.
var typeAliases = map[string]Type{
	"UNIT":      TypeUnit,
	"UNIDAD":    TypeUnit,
	"MONUMENT":  TypeMonument,
	"MONUMENTO": TypeMonument,
	"ACTION":    TypeAction,
	"ACCION":    TypeAction,
	"ACCIÓN":    TypeAction,
	"TREASURE":  TypeTreasure,
	"TESORO":    TypeTreasure,
	"TOKEN":     TypeToken,
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE_%d", int(t))
}

// Valid reports whether t is one of the five card types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType resolves a catalog type name.
func ParseType(value string) (Type, error) {
	if t, ok := typeAliases[strings.ToUpper(strings.TrimSpace(value))]; ok {
		return t, nil
	}
	return TypeUnknown, fmt.Errorf("unknown card type %q", value)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid card type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Royalty supertypes. At most one royalty card may be in play per player.
const (
	SupertypeRoyalty = "ROYALTY"
	supertypeRealeza = "REALEZA"
)

const defaultGoldValue = 1

// UnitStats is the payload carried by UNIT definitions only.
type UnitStats struct {
	Strength  int `yaml:"strength" json:"strength"`
	Toughness int `yaml:"toughness" json:"toughness"`
}

// Definition is the immutable printed card. It is produced by the catalog
// layer and never mutated by the rules core.
type Definition struct {
	Name      string               `yaml:"name" json:"name"`
	Cost      int                  `yaml:"cost" json:"cost"`
	Text      string               `yaml:"text,omitempty" json:"text,omitempty"`
	Type      Type                 `yaml:"type" json:"type"`
	Supertype string               `yaml:"supertype,omitempty" json:"supertype,omitempty"`
	Subtypes  []string             `yaml:"subtypes,omitempty" json:"subtypes,omitempty"`
	Unit      *UnitStats           `yaml:"unit,omitempty" json:"unit,omitempty"`
	GoldValue int                  `yaml:"gold,omitempty" json:"gold,omitempty"`
	Keywords  []effects.Keyword    `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Effects   []effects.Descriptor `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// Validate checks the structural rules of a definition.
func (d *Definition) Validate() error {
	if d == nil {
		return fmt.Errorf("nil definition")
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("card definition has no name")
	}
	if !d.Type.Valid() {
		return fmt.Errorf("card %q: invalid type", d.Name)
	}
	if d.Cost < 0 {
		return fmt.Errorf("card %q: negative cost %d", d.Name, d.Cost)
	}
	switch d.Type {
	case TypeUnit:
		if d.Unit == nil {
			return fmt.Errorf("card %q: unit without strength/toughness", d.Name)
		}
	default:
		if d.Unit != nil {
			return fmt.Errorf("card %q: %s cannot carry unit stats", d.Name, d.Type)
		}
	}
	for i, eff := range d.Effects {
		if err := eff.Validate(); err != nil {
			return fmt.Errorf("card %q effect %d: %w", d.Name, i, err)
		}
	}
	return nil
}

// CanBePlayed reports whether the card can be put into play with the given
// amount of gold. Treasures and tokens are revealed, never paid for.
func (d *Definition) CanBePlayed(availableGold int) bool {
	switch d.Type {
	case TypeUnit, TypeMonument, TypeAction:
		return availableGold >= d.Cost
	case TypeTreasure, TypeToken:
		return true
	default:
		return false
	}
}

// GeneratesGold returns the gold produced when the card is exhausted.
func (d *Definition) GeneratesGold() (int, bool) {
	switch d.Type {
	case TypeTreasure, TypeToken:
		if d.GoldValue > 0 {
			return d.GoldValue, true
		}
		return defaultGoldValue, true
	default:
		return 0, false
	}
}

// CanAttackImmediately reports whether a unit may attack the turn it enters play.
func (d *Definition) CanAttackImmediately() bool {
	return d.Type == TypeUnit && effects.HasKeyword(d.Keywords, effects.KeywordFrenzy)
}

// IsRoyalty reports whether the card carries the royalty supertype.
func (d *Definition) IsRoyalty() bool {
	switch strings.ToUpper(strings.TrimSpace(d.Supertype)) {
	case SupertypeRoyalty, supertypeRealeza:
		return true
	}
	return false
}

// ActivatedEffects returns the descriptors that can be activated by tapping.
func (d *Definition) ActivatedEffects() []effects.Descriptor {
	var out []effects.Descriptor
	for _, eff := range d.Effects {
		if eff.Kind == effects.KindActivated {
			out = append(out, eff)
		}
	}
	return out
}

// Strength returns the unit strength or 0 for non-units.
func (d *Definition) Strength() int {
	if d.Unit == nil {
		return 0
	}
	return d.Unit.Strength
}

// Toughness returns the unit toughness or 0 for non-units.
func (d *Definition) Toughness() int {
	if d.Unit == nil {
		return 0
	}
	return d.Unit.Toughness
}
