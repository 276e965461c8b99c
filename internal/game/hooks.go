package game

import (
	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/effects"
	"github.com/thraizz/realms-server-go/internal/game/rules"
)

// HookContext carries the players and timing around a hook call.
type HookContext struct {
	MatchID  string
	Player   string
	Opponent string
	Turn     int
	Phase    rules.Phase
}

// Hooks is the effect subsystem seen from the core. Calls are fire and
// forget: nothing they return influences legality. Hooks run while the
// match is locked and must not call back into it.
type Hooks interface {
	EnterPlay(ctx HookContext, inst *cards.Instance)
	TurnStart(ctx HookContext, inst *cards.Instance)
	TurnEnd(ctx HookContext, inst *cards.Instance)
	CombatDamage(ctx HookContext, inst *cards.Instance, damage int)
	Activated(ctx HookContext, inst *cards.Instance, effect effects.Descriptor)
}

// NopHooks ignores every trigger.
type NopHooks struct{}

func (NopHooks) EnterPlay(HookContext, *cards.Instance) {}
func (NopHooks) TurnStart(HookContext, *cards.Instance) {}
func (NopHooks) TurnEnd(HookContext, *cards.Instance) {}
func (NopHooks) CombatDamage(HookContext, *cards.Instance, int) {}
func (NopHooks) Activated(HookContext, *cards.Instance, effects.Descriptor) {}

// TraceHooks logs each effect descriptor that would fire for a trigger.
// It is the default collaborator when no effect subsystem is wired.
type TraceHooks struct {
	logger *zap.Logger
}

// NewTraceHooks creates trace hooks writing to logger.
func NewTraceHooks(logger *zap.Logger) *TraceHooks {
	return &TraceHooks{logger: logger}
}

func (h *TraceHooks) EnterPlay(ctx HookContext, inst *cards.Instance) {
	h.trace(ctx, inst, effects.TriggerEnterPlay, 0)
}

func (h *TraceHooks) TurnStart(ctx HookContext, inst *cards.Instance) {
	h.trace(ctx, inst, effects.TriggerTurnStart, 0)
}

func (h *TraceHooks) TurnEnd(ctx HookContext, inst *cards.Instance) {
	h.trace(ctx, inst, effects.TriggerTurnEnd, 0)
}

func (h *TraceHooks) CombatDamage(ctx HookContext, inst *cards.Instance, damage int) {
	h.trace(ctx, inst, effects.TriggerCombatDamage, damage)
}

func (h *TraceHooks) Activated(ctx HookContext, inst *cards.Instance, effect effects.Descriptor) {
	if h.logger == nil {
		return
	}
	h.logger.Debug("ability activated",
		zap.String("match_id", ctx.MatchID),
		zap.String("player", ctx.Player),
		zap.Stringer("card", inst),
		zap.String("op", string(effect.Op)),
		zap.Int("amount", effect.Amount),
	)
}

func (h *TraceHooks) trace(ctx HookContext, inst *cards.Instance, trigger effects.Trigger, amount int) {
	if h.logger == nil {
		return
	}
	for _, effect := range inst.Def().Effects {
		if !effect.FiresOn(trigger) {
			continue
		}
		h.logger.Debug("effect triggered",
			zap.String("match_id", ctx.MatchID),
			zap.String("player", ctx.Player),
			zap.Int("turn", ctx.Turn),
			zap.String("trigger", string(trigger)),
			zap.Stringer("card", inst),
			zap.String("op", string(effect.Op)),
			zap.Int("amount", amount),
		)
	}
}
