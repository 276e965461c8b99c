package rules

import (
	"fmt"
	"strings"
)

// Phase represents the phases of a turn.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseMain1
	PhaseAttack
	PhaseMain2
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseSetup:  "SETUP",
	PhaseMain1:  "MAIN_1",
	PhaseAttack: "ATTACK",
	PhaseMain2:  "MAIN_2",
	PhaseEnd:    "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// ParsePhase resolves a phase name.
func ParsePhase(value string) (Phase, error) {
	want := strings.ToUpper(strings.TrimSpace(value))
	for phase, name := range phaseNames {
		if name == want {
			return phase, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", value)
}

// turnSequence is the fixed phase order. There is no skipping.
var turnSequence = []Phase{PhaseSetup, PhaseMain1, PhaseAttack, PhaseMain2, PhaseEnd}

// Next returns the phase that follows p and whether that step wraps into
// a new turn.
func (p Phase) Next() (Phase, bool) {
	for i, phase := range turnSequence {
		if phase == p {
			if i == len(turnSequence)-1 {
				return turnSequence[0], true
			}
			return turnSequence[i+1], false
		}
	}
	return PhaseSetup, true
}

// TurnManager tracks phase, turn number and the priority player.
type TurnManager struct {
	phase          Phase
	turnNumber     int
	priorityPlayer string
	opponent       string
}

// NewTurnManager creates a turn manager at turn 1, SETUP, with first acting
// first.
func NewTurnManager(first, second string) *TurnManager {
	return &TurnManager{
		phase:          PhaseSetup,
		turnNumber:     1,
		priorityPlayer: strings.TrimSpace(first),
		opponent:       strings.TrimSpace(second),
	}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return tm.phase
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// PriorityPlayer returns the player who acts first this turn.
func (tm *TurnManager) PriorityPlayer() string {
	return tm.priorityPlayer
}

// Opponent returns the player who acts second this turn.
func (tm *TurnManager) Opponent() string {
	return tm.opponent
}

// OpponentOf returns the other player.
func (tm *TurnManager) OpponentOf(player string) string {
	if player == tm.priorityPlayer {
		return tm.opponent
	}
	return tm.priorityPlayer
}

// Order returns [priority, opponent].
func (tm *TurnManager) Order() []string {
	return []string{tm.priorityPlayer, tm.opponent}
}

// AdvancePhase moves to the next phase. Leaving END increments the turn
// counter and hands priority to the other player.
func (tm *TurnManager) AdvancePhase() Phase {
	next, wrapped := tm.phase.Next()
	if wrapped {
		tm.turnNumber++
		tm.priorityPlayer, tm.opponent = tm.opponent, tm.priorityPlayer
	}
	tm.phase = next
	return tm.phase
}
