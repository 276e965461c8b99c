package game

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

// CardView is a read-only copy of a card as it sits in a zone.
type CardView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Cost       int    `json:"cost"`
	Strength   int    `json:"strength,omitempty"`
	Toughness  int    `json:"toughness,omitempty"`
	InstanceID uint64 `json:"instance_id,omitempty"`
	CanAttack  bool   `json:"can_attack,omitempty"`
	Tapped     bool   `json:"tapped,omitempty"`
	Damage     int    `json:"damage,omitempty"`
}

// ZoneView is a read-only copy of one zone.
type ZoneView struct {
	Name    zone.Name  `json:"name"`
	MaxSize int        `json:"max_size,omitempty"`
	Visible bool       `json:"visible"`
	Cards   []CardView `json:"cards"`
}

// PlayerView is a read-only copy of one player.
type PlayerView struct {
	Name         string     `json:"name"`
	Gold         int        `json:"gold"`
	Life         int        `json:"life"`
	MulliganUsed bool       `json:"mulligan_used"`
	Zones        []ZoneView `json:"zones"`
}

// MatchSnapshot is an immutable copy of the match state at one instant.
type MatchSnapshot struct {
	MatchID    string       `json:"match_id"`
	Phase      string       `json:"phase"`
	Turn       int          `json:"turn"`
	Priority   string       `json:"priority"`
	Pending    []string     `json:"pending"`
	WaitingFor string       `json:"waiting_for,omitempty"`
	GameOver   bool         `json:"game_over"`
	Winner     string       `json:"winner,omitempty"`
	Players    []PlayerView `json:"players"`
}

// Snapshot copies the current state. It never mutates the match.
func (m *Match) Snapshot() MatchSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MatchSnapshot{
		MatchID:    m.id,
		Phase:      m.turns.CurrentPhase().String(),
		Turn:       m.turns.TurnNumber(),
		Priority:   m.turns.PriorityPlayer(),
		Pending:    m.pending.Players(),
		WaitingFor: string(m.waitingFor),
		GameOver:   m.gameOver,
		Winner:     m.winner,
	}
	for _, name := range m.seats {
		p := m.players[name]
		view := PlayerView{
			Name:         p.Name,
			Gold:         p.Resources.Gold(),
			Life:         p.Resources.Life(),
			MulliganUsed: p.MulliganUsed,
		}
		for _, zn := range zone.All {
			z := p.Zone(zn)
			view.Zones = append(view.Zones, ZoneView{
				Name:    zn,
				MaxSize: z.Spec().MaxSize,
				Visible: z.Spec().Visible,
				Cards:   viewCards(z.Peek()),
			})
		}
		snap.Players = append(snap.Players, view)
	}
	return snap
}

// Player returns the view of the named player.
func (s MatchSnapshot) Player(name string) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerView{}, false
}

// Zone returns the view of the named zone.
func (p PlayerView) Zone(name zone.Name) ZoneView {
	for _, z := range p.Zones {
		if z.Name == name {
			return z
		}
	}
	return ZoneView{Name: name}
}

// Canonical renders the snapshot as deterministic text. The match id is
// left out so that two matches replayed from the same seed compare equal.
func (s MatchSnapshot) Canonical() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MATCH:%s|%d|%s|%s|%t|%s\n", s.Phase, s.Turn, s.Priority, s.WaitingFor, s.GameOver, s.Winner)
	fmt.Fprintf(&b, "PENDING:%s\n", strings.Join(s.Pending, ","))
	for _, p := range s.Players {
		fmt.Fprintf(&b, "PLAYER:%s|%d|%d|%t\n", p.Name, p.Gold, p.Life, p.MulliganUsed)
		for _, z := range p.Zones {
			fmt.Fprintf(&b, "  ZONE:%s|%d\n", z.Name, len(z.Cards))
			for _, c := range z.Cards {
				fmt.Fprintf(&b, "    CARD:%s|%s|%s", c.ID, c.Name, c.Type)
				if c.InstanceID != 0 {
					fmt.Fprintf(&b, "|#%d|%t|%t|%d", c.InstanceID, c.CanAttack, c.Tapped, c.Damage)
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// Checksum returns the hex sha256 of the canonical form.
func (s MatchSnapshot) Checksum() string {
	sum := sha256.Sum256([]byte(s.Canonical()))
	return hex.EncodeToString(sum[:])
}

func viewCards(items []cards.Item) []CardView {
	out := make([]CardView, 0, len(items))
	for _, item := range items {
		def := item.Def()
		view := CardView{
			ID:        item.CardID().String(),
			Name:      def.Name,
			Type:      def.Type.String(),
			Cost:      def.Cost,
			Strength:  def.Strength(),
			Toughness: def.Toughness(),
		}
		if inst, ok := item.(*cards.Instance); ok {
			view.InstanceID = inst.InstanceID
			view.CanAttack = inst.CanAttack
			view.Tapped = inst.Tapped
			view.Damage = inst.Damage
		}
		out = append(out, view)
	}
	return out
}
