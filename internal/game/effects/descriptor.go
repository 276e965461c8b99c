package effects

import (
	"fmt"
	"strings"
)

// SchemaVersion identifies the descriptor vocabulary shared with the effect
// parsing stage. Bump it whenever a Kind, Trigger, Op or Keyword is added.
const SchemaVersion = 1

// Kind classifies how an effect comes into being.
type Kind string

const (
	KindStatic         Kind = "STATIC"
	KindTriggered      Kind = "TRIGGERED"
	KindActivated      Kind = "ACTIVATED"
	KindGoldGenerating Kind = "GOLD_GENERATING"
)

// Trigger names the points at which the rules core calls into the effect
// subsystem.
type Trigger string

const (
	TriggerNone         Trigger = ""
	TriggerEnterPlay    Trigger = "ENTER_PLAY"
	TriggerDestroyed    Trigger = "DESTROYED"
	TriggerTurnStart    Trigger = "TURN_START"
	TriggerTurnEnd      Trigger = "TURN_END"
	TriggerCombatDamage Trigger = "COMBAT_DAMAGE"
	TriggerActivated    Trigger = "ACTIVATED"
)

var triggerSet = map[Trigger]struct{}{
	TriggerEnterPlay:    {},
	TriggerDestroyed:    {},
	TriggerTurnStart:    {},
	TriggerTurnEnd:      {},
	TriggerCombatDamage: {},
	TriggerActivated:    {},
}

// Op is the closed set of effect operations the parsing stage may emit.
type Op string

const (
	OpDigVault          Op = "DIG_VAULT"
	OpShowVault         Op = "SHOW_VAULT"
	OpSwapTreasure      Op = "SWAP_TREASURE"
	OpDealDamage        Op = "DEAL_DAMAGE"
	OpDamageUnit        Op = "DAMAGE_UNIT"
	OpDiscardCards      Op = "DISCARD_CARDS"
	OpReturnToHand      Op = "RETURN_TO_HAND"
	OpCreateToken       Op = "CREATE_TOKEN"
	OpSearchCard        Op = "SEARCH_CARD"
	OpReturnFromDiscard Op = "RETURN_FROM_DISCARD"
	OpModifyStats       Op = "MODIFY_STATS"
	OpGenerateGold      Op = "GENERATE_GOLD"
	OpKeyword           Op = "KEYWORD"
)

var opSet = map[Op]struct{}{
	OpDigVault:          {},
	OpShowVault:         {},
	OpSwapTreasure:      {},
	OpDealDamage:        {},
	OpDamageUnit:        {},
	OpDiscardCards:      {},
	OpReturnToHand:      {},
	OpCreateToken:       {},
	OpSearchCard:        {},
	OpReturnFromDiscard: {},
	OpModifyStats:       {},
	OpGenerateGold:      {},
	OpKeyword:           {},
}

// ParseOp converts a catalog string into an Op.
func ParseOp(value string) (Op, error) {
	op := Op(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := opSet[op]; !ok {
		return "", fmt.Errorf("unknown effect op %q", value)
	}
	return op, nil
}

// ParseTrigger converts a catalog string into a Trigger. The empty string is
// TriggerNone.
func ParseTrigger(value string) (Trigger, error) {
	trigger := Trigger(strings.ToUpper(strings.TrimSpace(value)))
	if trigger == TriggerNone {
		return TriggerNone, nil
	}
	if _, ok := triggerSet[trigger]; !ok {
		return "", fmt.Errorf("unknown trigger %q", value)
	}
	return trigger, nil
}

// Descriptor is a validated, structured effect produced once by the parsing
// stage. The rules core never looks at card text.
type Descriptor struct {
	Kind     Kind    `yaml:"kind" json:"kind"`
	Trigger  Trigger `yaml:"trigger,omitempty" json:"trigger,omitempty"`
	Op       Op      `yaml:"op" json:"op"`
	Amount   int     `yaml:"amount,omitempty" json:"amount,omitempty"`
	Targets  int     `yaml:"targets,omitempty" json:"targets,omitempty"`
	Optional bool    `yaml:"optional,omitempty" json:"optional,omitempty"`
	// Keyword is set for OpKeyword descriptors only.
	Keyword  Keyword `yaml:"keyword,omitempty" json:"keyword,omitempty"`
}

// Validate checks the descriptor against the closed vocabulary.
func (d Descriptor) Validate() error {
	if _, ok := opSet[d.Op]; !ok {
		return fmt.Errorf("unknown effect op %q", d.Op)
	}
	if d.Amount < 0 || d.Targets < 0 {
		return fmt.Errorf("effect %s: negative amount or targets", d.Op)
	}
	switch d.Kind {
	case KindTriggered:
		if _, ok := triggerSet[d.Trigger]; !ok {
			return fmt.Errorf("triggered effect %s: unknown trigger %q", d.Op, d.Trigger)
		}
	case KindActivated:
		if d.Trigger != TriggerNone && d.Trigger != TriggerActivated {
			return fmt.Errorf("activated effect %s cannot use trigger %s", d.Op, d.Trigger)
		}
	case KindStatic:
		if d.Op == OpKeyword {
			if _, err := ParseKeyword(string(d.Keyword)); err != nil {
				return err
			}
		}
	case KindGoldGenerating:
		if d.Op != OpGenerateGold {
			return fmt.Errorf("gold generating effect must use %s, got %s", OpGenerateGold, d.Op)
		}
	default:
		return fmt.Errorf("unknown effect kind %q", d.Kind)
	}
	return nil
}

// FiresOn reports whether the descriptor reacts to the given trigger.
func (d Descriptor) FiresOn(trigger Trigger) bool {
	if d.Kind == KindActivated {
		return trigger == TriggerActivated
	}
	return d.Kind == KindTriggered && d.Trigger == trigger
}
