package game

import (
	"fmt"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/resources"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

// Zone capacities used by every player.
const (
	DeckSize    = 45
	HandSize    = 7
	ReserveSize = 7
	VaultSize   = 15
)

// StandardZoneSpecs returns the zone layout every player starts with.
func StandardZoneSpecs() []zone.Spec {
	realm := []cards.Type{cards.TypeUnit, cards.TypeMonument, cards.TypeAction}
	return []zone.Spec{
		{Name: zone.Deck, MaxSize: DeckSize, AllowedTypes: realm, Ordered: true},
		{Name: zone.Hand, MaxSize: HandSize, Visible: true},
		{Name: zone.Formation, AllowedTypes: realm, Visible: true},
		{Name: zone.Combat, AllowedTypes: []cards.Type{cards.TypeUnit}, Visible: true},
		{Name: zone.Reserve, MaxSize: ReserveSize, AllowedTypes: []cards.Type{cards.TypeTreasure, cards.TypeToken}, Visible: true},
		{Name: zone.Exhausted, AllowedTypes: []cards.Type{cards.TypeTreasure}, Visible: true},
		{Name: zone.Discard, AllowedTypes: []cards.Type{cards.TypeUnit, cards.TypeMonument, cards.TypeAction, cards.TypeToken}, Visible: true, Ordered: true},
		{Name: zone.Vault, MaxSize: VaultSize, AllowedTypes: []cards.Type{cards.TypeTreasure}, Ordered: true},
		{Name: zone.Tokens, AllowedTypes: []cards.Type{cards.TypeToken}, Visible: true},
	}
}

// Player is one side of a match: its counters and its fixed set of zones.
type Player struct {
	Name         string
	Resources    *resources.Resources
	MulliganUsed bool

	zones map[zone.Name]*zone.Zone
}

// NewPlayer creates a player with empty standard zones.
func NewPlayer(name string, startingLife int) *Player {
	p := &Player{
		Name:      name,
		Resources: resources.New(startingLife),
		zones:     make(map[zone.Name]*zone.Zone),
	}
	for _, spec := range StandardZoneSpecs() {
		p.zones[spec.Name] = zone.New(spec)
	}
	return p
}

// Zone returns the named zone, nil if the name is unknown.
func (p *Player) Zone(name zone.Name) *zone.Zone {
	return p.zones[name]
}

// Deck is shorthand for Zone(zone.Deck).
func (p *Player) Deck() *zone.Zone { return p.zones[zone.Deck] }

// Hand is shorthand for Zone(zone.Hand).
func (p *Player) Hand() *zone.Zone { return p.zones[zone.Hand] }

// Formation is shorthand for Zone(zone.Formation).
func (p *Player) Formation() *zone.Zone { return p.zones[zone.Formation] }

// Combat is shorthand for Zone(zone.Combat).
func (p *Player) Combat() *zone.Zone { return p.zones[zone.Combat] }

// Reserve is shorthand for Zone(zone.Reserve).
func (p *Player) Reserve() *zone.Zone { return p.zones[zone.Reserve] }

// Exhausted is shorthand for Zone(zone.Exhausted).
func (p *Player) Exhausted() *zone.Zone { return p.zones[zone.Exhausted] }

// Discard is shorthand for Zone(zone.Discard).
func (p *Player) Discard() *zone.Zone { return p.zones[zone.Discard] }

// Vault is shorthand for Zone(zone.Vault).
func (p *Player) Vault() *zone.Zone { return p.zones[zone.Vault] }

// Tokens is shorthand for Zone(zone.Tokens).
func (p *Player) Tokens() *zone.Zone { return p.zones[zone.Tokens] }

// Load places freshly minted cards into their starting zones: treasures go
// to the vault, tokens to the token pool and everything else to the deck.
func (p *Player) Load(deck []*cards.Card) error {
	buckets := map[zone.Name][]cards.Item{}
	for _, card := range deck {
		dst := zone.Deck
		switch card.Definition.Type {
		case cards.TypeTreasure:
			dst = zone.Vault
		case cards.TypeToken:
			dst = zone.Tokens
		}
		buckets[dst] = append(buckets[dst], card)
	}

	for name, items := range buckets {
		z := p.zones[name]
		if space := z.Space(); space >= 0 && len(items) > space {
			return fmt.Errorf("load %d cards into %s of %s: %w", len(items), name, p.Name, zone.ErrZoneFull)
		}
	}
	for _, name := range zone.All {
		p.zones[name].AddToBottom(buckets[name])
	}
	return nil
}

// InPlay returns every instance in formation and combat.
func (p *Player) InPlay() []*cards.Instance {
	var out []*cards.Instance
	for _, z := range []*zone.Zone{p.Formation(), p.Combat()} {
		for _, item := range z.Peek() {
			if inst, ok := item.(*cards.Instance); ok {
				out = append(out, inst)
			}
		}
	}
	return out
}

// CardIDs returns the id of every card the player owns, zone by zone.
func (p *Player) CardIDs() []cards.ID {
	var ids []cards.ID
	for _, name := range zone.All {
		ids = append(ids, p.zones[name].IDs()...)
	}
	return ids
}

// CardCount returns the number of cards across all zones.
func (p *Player) CardCount() int {
	total := 0
	for _, z := range p.zones {
		total += z.Len()
	}
	return total
}

func (p *Player) String() string {
	return fmt.Sprintf("Player(name=%s, %s)", p.Name, p.Resources)
}
