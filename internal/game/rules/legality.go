package rules

import (
	"fmt"
	"strings"
)

// ActionType names a player-facing operation.
type ActionType string

const (
	ActionPass             ActionType = "PASS"
	ActionMulligan         ActionType = "MULLIGAN"
	ActionReturnToBottom   ActionType = "RETURN_TO_BOTTOM"
	ActionPlayCard         ActionType = "PLAY_CARD"
	ActionActivateTreasure ActionType = "ACTIVATE_TREASURE"
	ActionActivateAbility  ActionType = "ACTIVATE_ABILITY"
	ActionRevealTreasure   ActionType = "REVEAL_TREASURE"
	ActionTakeToken        ActionType = "TAKE_TOKEN"
	ActionDeclareAttack    ActionType = "DECLARE_ATTACK"
	ActionDeclareDefense   ActionType = "DECLARE_DEFENSE"
)

var allActions = []ActionType{
	ActionPass,
	ActionMulligan,
	ActionReturnToBottom,
	ActionPlayCard,
	ActionActivateTreasure,
	ActionActivateAbility,
	ActionRevealTreasure,
	ActionTakeToken,
	ActionDeclareAttack,
	ActionDeclareDefense,
}

// ParseActionType resolves an action name.
func ParseActionType(value string) (ActionType, error) {
	want := ActionType(strings.ToUpper(strings.TrimSpace(value)))
	for _, action := range allActions {
		if action == want {
			return action, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", value)
}

// WaitingFor marks a special sub-protocol that overrides normal dispatch.
type WaitingFor string

const (
	WaitingForNothing  WaitingFor = ""
	WaitingForMulligan WaitingFor = "MULLIGAN"
)

// phaseActions is the static per-phase legality table.
var phaseActions = map[Phase][]ActionType{
	PhaseSetup:  {ActionPass, ActionMulligan, ActionReturnToBottom},
	PhaseMain1:  {ActionPlayCard, ActionActivateTreasure, ActionActivateAbility, ActionRevealTreasure, ActionTakeToken, ActionPass},
	PhaseAttack: {ActionDeclareAttack, ActionDeclareDefense, ActionPass},
	PhaseMain2:  {ActionPlayCard, ActionActivateTreasure, ActionActivateAbility, ActionRevealTreasure, ActionTakeToken, ActionPass},
	PhaseEnd:    {ActionPass},
}

// subProtocolActions lists the only actions accepted while a sub-protocol is
// in progress.
var subProtocolActions = map[WaitingFor][]ActionType{
	WaitingForMulligan: {ActionMulligan, ActionReturnToBottom},
}

// LegalityResult represents the result of a legality check.
type LegalityResult struct {
	Legal  bool
	Code   Code
	Reason string
}

func legal() LegalityResult {
	return LegalityResult{Legal: true}
}

func illegal(code Code, format string, args ...any) LegalityResult {
	return LegalityResult{Legal: false, Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Err converts an illegal result into an *Error, nil when legal.
func (r LegalityResult) Err() error {
	if r.Legal {
		return nil
	}
	return NewError(r.Code, "%s", r.Reason)
}

// AllowedActions returns the actions the phase table permits.
func AllowedActions(phase Phase) []ActionType {
	actions := phaseActions[phase]
	out := make([]ActionType, len(actions))
	copy(out, actions)
	return out
}

// IsAllowedInPhase reports whether action appears in the phase table.
func IsAllowedInPhase(phase Phase, action ActionType) bool {
	return containsAction(phaseActions[phase], action)
}

// BelongsTo reports whether action is part of the given sub-protocol.
func (w WaitingFor) BelongsTo(action ActionType) bool {
	return containsAction(subProtocolActions[w], action)
}

// CheckDispatch validates an action request against the phase table, the
// active sub-protocol and the pending-player queue. It does not look at
// card-level preconditions.
func CheckDispatch(phase Phase, waiting WaitingFor, pending *PendingQueue, player string, action ActionType) LegalityResult {
	if !IsAllowedInPhase(phase, action) {
		return illegal(CodeIllegalPhaseAction, "%s is not allowed during %s", action, phase)
	}

	if waiting != WaitingForNothing {
		if !pending.Contains(player) {
			return illegal(CodeNotPlayerTurn, "%s has already resolved %s", player, strings.ToLower(string(waiting)))
		}
		if !waiting.BelongsTo(action) {
			return illegal(CodeInvalidOption, "%s must be resolved before %s", strings.ToLower(string(waiting)), action)
		}
		return legal()
	}

	if action == ActionPass {
		if !pending.Contains(player) {
			return illegal(CodeNotPlayerTurn, "%s has already passed %s", player, phase)
		}
		return legal()
	}

	if current, ok := pending.Head(); !ok || current != player {
		return illegal(CodeNotPlayerTurn, "it is not %s's turn to act", player)
	}
	return legal()
}

func containsAction(actions []ActionType, action ActionType) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
