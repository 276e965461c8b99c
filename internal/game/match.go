package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/game/cards"
	"github.com/thraizz/realms-server-go/internal/game/rules"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

// Options configure a match.
type Options struct {
	StartingLife int
	OpeningHand  int
	// Seed makes shuffles reproducible. Zero seeds from crypto/rand.
	Seed uint64
	// Shuffler overrides Seed when set.
	Shuffler zone.Shuffler
	Hooks    Hooks
}

// PlayerSetup names a player and lists the definitions in their deck.
type PlayerSetup struct {
	Name string
	Deck []*cards.Definition
}

// Params carries the arguments of an action. Which fields matter depends on
// the action type.
type Params struct {
	CardID cards.ID `json:"card_id,omitempty"`
	// TargetID is the attacker a DECLARE_DEFENSE blocks.
	TargetID cards.ID `json:"target_id,omitempty"`
}

// ErrHiddenZone is returned by PublicCards for zones whose order is secret.
var ErrHiddenZone = errors.New("zone is hidden")

// ActionResult is what every action returns. Rejections carry a Code and
// never leave partial changes behind.
type ActionResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Code    rules.Code     `json:"code,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Notification represents a state change pushed to UI or websocket clients.
type Notification struct {
	Type      rules.EventType `json:"type"`
	MatchID   string          `json:"match_id"`
	PlayerID  string          `json:"player_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      map[string]any  `json:"data,omitempty"`
}

// NotificationHandler receives notifications after the action that caused
// them has been fully applied.
type NotificationHandler func(Notification)

// Match is the game state machine for one two-player match. All mutation
// goes through ExecuteAction (and Start); one action is applied completely
// before the next is looked at.
type Match struct {
	mu     sync.Mutex
	id     string
	logger *zap.Logger
	opts   Options

	seats   [2]string
	players map[string]*Player

	turns      *rules.TurnManager
	pending    *rules.PendingQueue
	waitingFor rules.WaitingFor

	// attackers in declaration order; blocks maps attacker to blocker.
	attackers []cards.ID
	blocks    map[cards.ID]cards.ID

	started  bool
	gameOver bool
	winner   string

	cardIDs     *cards.IDGenerator
	instanceIDs *cards.IDGenerator
	transfer    *Transfer
	actions     *Actions
	hooks       Hooks

	events              *rules.EventBus
	outbox              []rules.Event
	notificationHandler NotificationHandler
}

// NewMatch builds both players, mints their cards and shuffles their decks.
// The match waits in SETUP of turn 1 until Start is called.
func NewMatch(first, second PlayerSetup, opts Options, logger *zap.Logger) (*Match, error) {
	first.Name = strings.TrimSpace(first.Name)
	second.Name = strings.TrimSpace(second.Name)
	if first.Name == "" || second.Name == "" {
		return nil, fmt.Errorf("both players need a name")
	}
	if first.Name == second.Name {
		return nil, fmt.Errorf("player names must differ, got %q twice", first.Name)
	}
	if opts.StartingLife <= 0 {
		opts.StartingLife = 20
	}
	if opts.OpeningHand <= 0 || opts.OpeningHand > HandSize {
		opts.OpeningHand = HandSize
	}
	if opts.Hooks == nil {
		opts.Hooks = NewTraceHooks(logger)
	}
	rng := opts.Shuffler
	if rng == nil {
		if opts.Seed != 0 {
			rng = zone.NewSeededRand(opts.Seed)
		} else {
			rng = zone.NewRand()
		}
	}

	m := &Match{
		id:          uuid.New().String(),
		logger:      logger,
		opts:        opts,
		seats:       [2]string{first.Name, second.Name},
		players:     make(map[string]*Player, 2),
		turns:       rules.NewTurnManager(first.Name, second.Name),
		pending:     rules.NewPendingQueue(),
		blocks:      make(map[cards.ID]cards.ID),
		cardIDs:     cards.NewIDGenerator(0),
		instanceIDs: cards.NewIDGenerator(0),
		hooks:       opts.Hooks,
		events:      rules.NewEventBus(),
	}
	m.transfer = NewTransfer(m.instanceIDs, rng, opts.Hooks, logger)
	m.actions = NewActions(m.transfer, opts.Hooks, logger)
	m.events.Subscribe(func(e rules.Event) {
		m.outbox = append(m.outbox, e)
	})

	for _, setup := range []PlayerSetup{first, second} {
		p := NewPlayer(setup.Name, opts.StartingLife)
		deck := make([]*cards.Card, 0, len(setup.Deck))
		for i, def := range setup.Deck {
			if err := def.Validate(); err != nil {
				return nil, fmt.Errorf("deck of %s, card %d: %w", setup.Name, i, err)
			}
			deck = append(deck, cards.NewCard(def, m.cardIDs))
		}
		if err := p.Load(deck); err != nil {
			return nil, err
		}
		m.transfer.Shuffle(p.Deck())
		m.players[p.Name] = p
	}

	if logger != nil {
		logger.Info("match created",
			zap.String("match_id", m.id),
			zap.String("first", first.Name),
			zap.String("second", second.Name),
			zap.Int("deck_first", m.players[first.Name].Deck().Len()),
			zap.Int("deck_second", m.players[second.Name].Deck().Len()),
		)
	}
	return m, nil
}

// ID returns the match identifier.
func (m *Match) ID() string {
	return m.id
}

// Events exposes the rules event bus. Listeners run while the match is
// locked and must not call back into it.
func (m *Match) Events() *rules.EventBus {
	return m.events
}

// SetNotificationHandler sets the handler for match notifications.
// Handlers run after the lock is released and may read the match.
func (m *Match) SetNotificationHandler(handler NotificationHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationHandler = handler
}

// Start enters SETUP of turn 1: both players draw their opening hand and
// the mulligan sub-protocol begins.
func (m *Match) Start() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return fmt.Errorf("match %s already started", m.id)
	}
	m.started = true
	m.enterPhase()
	outbox, handler := m.drain()
	m.mu.Unlock()

	m.deliver(handler, outbox)
	return nil
}

// ExecuteAction validates and applies one player action.
func (m *Match) ExecuteAction(player string, action rules.ActionType, params Params) ActionResult {
	m.mu.Lock()
	result := m.execute(player, action, params)
	outbox, handler := m.drain()
	m.mu.Unlock()

	m.deliver(handler, outbox)
	return result
}

// PassPhase passes on behalf of whoever currently holds priority.
func (m *Match) PassPhase() ActionResult {
	m.mu.Lock()
	result := m.execute(m.currentPlayer(), rules.ActionPass, Params{})
	outbox, handler := m.drain()
	m.mu.Unlock()

	m.deliver(handler, outbox)
	return result
}

func (m *Match) execute(player string, action rules.ActionType, params Params) ActionResult {
	if !m.started {
		return reject(rules.CodeInvalidOption, "match has not started")
	}
	if m.gameOver {
		return reject(rules.CodeInvalidOption, fmt.Sprintf("match is over, %s won", m.winner))
	}
	p, ok := m.players[player]
	if !ok {
		return reject(rules.CodeInvalidOption, fmt.Sprintf("unknown player %q", player))
	}

	check := rules.CheckDispatch(m.turns.CurrentPhase(), m.waitingFor, m.pending, player, action)
	if !check.Legal {
		m.logRejected(player, action, check.Code, check.Reason)
		return reject(check.Code, check.Reason)
	}

	data, err := m.dispatch(p, action, params)
	if err != nil {
		code := rules.CodeOf(err)
		message := messageOf(err)
		m.logRejected(player, action, code, message)
		return reject(code, message)
	}

	if m.logger != nil {
		m.logger.Debug("action applied",
			zap.String("match_id", m.id),
			zap.String("player", player),
			zap.String("action", string(action)),
			zap.Stringer("phase", m.turns.CurrentPhase()),
		)
	}
	return ActionResult{
		Success: true,
		Message: fmt.Sprintf("%s: %s", player, strings.ToLower(string(action))),
		Data:    data,
	}
}

func (m *Match) dispatch(p *Player, action rules.ActionType, params Params) (map[string]any, error) {
	switch action {
	case rules.ActionPass:
		return m.pass(p)
	case rules.ActionMulligan:
		return m.mulligan(p)
	case rules.ActionReturnToBottom:
		return m.returnToBottom(p, params.CardID)
	case rules.ActionPlayCard:
		return m.playCard(p, params.CardID)
	case rules.ActionActivateTreasure:
		return m.activateTreasure(p, params.CardID)
	case rules.ActionActivateAbility:
		return m.activateAbility(p, params.CardID)
	case rules.ActionRevealTreasure:
		return m.revealTreasure(p)
	case rules.ActionTakeToken:
		return m.takeToken(p)
	case rules.ActionDeclareAttack:
		return m.declareAttack(p, params.CardID)
	case rules.ActionDeclareDefense:
		return m.declareDefense(p, params.CardID, params.TargetID)
	default:
		return nil, rules.NewError(rules.CodeInvalidOption, "unsupported action %s", action)
	}
}

func (m *Match) pass(p *Player) (map[string]any, error) {
	m.pending.Remove(p.Name)
	m.publish(rules.Event{Type: rules.EventPassed, PlayerID: p.Name})

	if m.pending.Empty() {
		m.waitingFor = rules.WaitingForNothing
		m.advance()
	} else if next, ok := m.pending.Head(); ok {
		m.publish(rules.Event{Type: rules.EventPriority, PlayerID: next})
	}
	return map[string]any{"phase": m.turns.CurrentPhase().String(), "turn": m.turns.TurnNumber()}, nil
}

func (m *Match) mulligan(p *Player) (map[string]any, error) {
	if m.waitingFor != rules.WaitingForMulligan {
		return nil, rules.NewError(rules.CodeInvalidOption, "no mulligan in progress")
	}
	if err := m.transfer.Mulligan(p, m.opts.OpeningHand); err != nil {
		return nil, err
	}
	m.publish(rules.Event{Type: rules.EventMulliganTaken, PlayerID: p.Name, Amount: p.Hand().Len()})
	return map[string]any{"hand": p.Hand().Len(), "deck": p.Deck().Len()}, nil
}

func (m *Match) returnToBottom(p *Player, id cards.ID) (map[string]any, error) {
	if m.waitingFor != rules.WaitingForMulligan {
		return nil, rules.NewError(rules.CodeInvalidOption, "no mulligan in progress")
	}
	if err := m.actions.ReturnToBottom(p, id); err != nil {
		return nil, err
	}
	m.pending.Remove(p.Name)
	m.publish(rules.Event{Type: rules.EventCardBottomed, PlayerID: p.Name, CardID: id.String(), From: string(zone.Hand), To: string(zone.Deck)})

	if m.pending.Empty() {
		m.waitingFor = rules.WaitingForNothing
		m.publish(rules.Event{Type: rules.EventMulliganCompleted})
		m.advance()
	}
	return map[string]any{"hand": p.Hand().Len(), "deck": p.Deck().Len()}, nil
}

func (m *Match) playCard(p *Player, id cards.ID) (map[string]any, error) {
	inst, err := m.actions.PlayCard(m.hookContext(p.Name), p, id)
	if err != nil {
		return nil, err
	}
	m.publish(rules.Event{Type: rules.EventCardPlayed, PlayerID: p.Name, CardID: id.String(), From: string(zone.Hand), To: string(zone.Formation)})
	m.publish(rules.Event{Type: rules.EventGoldChanged, PlayerID: p.Name, Amount: p.Resources.Gold()})
	return map[string]any{"card_id": id.String(), "instance_id": inst.InstanceID, "gold": p.Resources.Gold()}, nil
}

func (m *Match) activateTreasure(p *Player, id cards.ID) (map[string]any, error) {
	gold, err := m.actions.ActivateTreasure(p, id)
	if err != nil {
		return nil, err
	}
	m.publish(rules.Event{Type: rules.EventTreasureUsed, PlayerID: p.Name, CardID: id.String(), From: string(zone.Reserve)})
	m.publish(rules.Event{Type: rules.EventGoldChanged, PlayerID: p.Name, Amount: gold})
	return map[string]any{"gold": gold}, nil
}

func (m *Match) activateAbility(p *Player, id cards.ID) (map[string]any, error) {
	fired, err := m.actions.ActivateAbility(m.hookContext(p.Name), p, id)
	if err != nil {
		return nil, err
	}
	ops := make([]string, len(fired))
	for i, effect := range fired {
		ops[i] = string(effect.Op)
	}
	return map[string]any{"card_id": id.String(), "effects": ops}, nil
}

func (m *Match) revealTreasure(p *Player) (map[string]any, error) {
	item, err := m.actions.RevealTreasure(p)
	if err != nil {
		return nil, err
	}
	m.publish(rules.Event{Type: rules.EventZoneChange, PlayerID: p.Name, CardID: item.CardID().String(), From: string(zone.Vault), To: string(zone.Reserve)})
	return map[string]any{"card_id": item.CardID().String()}, nil
}

func (m *Match) takeToken(p *Player) (map[string]any, error) {
	item, err := m.actions.TakeToken(p)
	if err != nil {
		return nil, err
	}
	m.publish(rules.Event{Type: rules.EventZoneChange, PlayerID: p.Name, CardID: item.CardID().String(), From: string(zone.Tokens), To: string(zone.Reserve)})
	return map[string]any{"card_id": item.CardID().String()}, nil
}

func (m *Match) declareAttack(p *Player, id cards.ID) (map[string]any, error) {
	if p.Name != m.turns.PriorityPlayer() {
		return nil, rules.NewError(rules.CodeInvalidOption, "only %s may attack this turn", m.turns.PriorityPlayer())
	}
	if _, err := m.actions.DeclareAttack(p, id); err != nil {
		return nil, err
	}
	m.attackers = append(m.attackers, id)
	m.publish(rules.Event{Type: rules.EventAttackDeclared, PlayerID: p.Name, CardID: id.String(), From: string(zone.Formation), To: string(zone.Combat)})
	return map[string]any{"attackers": len(m.attackers)}, nil
}

func (m *Match) declareDefense(p *Player, defender, attacker cards.ID) (map[string]any, error) {
	if p.Name == m.turns.PriorityPlayer() {
		return nil, rules.NewError(rules.CodeInvalidOption, "%s is attacking and cannot defend", p.Name)
	}
	if !containsID(m.attackers, attacker) {
		return nil, rules.NewError(rules.CodeInvalidOption, "%s is not attacking", attacker)
	}
	if blocker, ok := m.blocks[attacker]; ok {
		return nil, rules.NewError(rules.CodeInvalidOption, "%s is already blocked by %s", attacker, blocker)
	}
	if _, err := m.actions.DeclareDefense(p, defender); err != nil {
		return nil, err
	}
	m.blocks[attacker] = defender
	m.publish(rules.Event{Type: rules.EventDefenseDeclared, PlayerID: p.Name, CardID: defender.String(), From: string(zone.Formation), To: string(zone.Combat)})
	return map[string]any{"blocker": defender.String(), "attacker": attacker.String()}, nil
}

// advance leaves the current phase and enters the next one.
func (m *Match) advance() {
	if m.turns.CurrentPhase() == rules.PhaseAttack {
		m.resolveCombat()
		if m.gameOver {
			m.pending.Clear()
			return
		}
	}
	m.turns.AdvancePhase()
	m.enterPhase()
}

// enterPhase runs the automatic entry actions of the current phase.
func (m *Match) enterPhase() {
	phase := m.turns.CurrentPhase()
	turn := m.turns.TurnNumber()
	m.publish(rules.Event{Type: rules.EventPhaseChanged, PlayerID: m.turns.PriorityPlayer()})
	if m.logger != nil {
		m.logger.Debug("phase entered",
			zap.String("match_id", m.id),
			zap.Stringer("phase", phase),
			zap.Int("turn", turn),
			zap.String("priority", m.turns.PriorityPlayer()),
		)
	}

	switch phase {
	case rules.PhaseSetup:
		m.pending.Reset(m.turns.Order()...)
		if turn == 1 {
			for _, name := range m.turns.Order() {
				m.drawOpeningHand(m.players[name])
			}
			m.waitingFor = rules.WaitingForMulligan
			m.publish(rules.Event{Type: rules.EventMulliganStarted})
			return
		}
		priority := m.turns.PriorityPlayer()
		m.publish(rules.Event{Type: rules.EventTurnStarted, PlayerID: priority})
		ctx := m.hookContext(priority)
		for _, item := range m.players[priority].Formation().Peek() {
			if inst, ok := item.(*cards.Instance); ok {
				m.hooks.TurnStart(ctx, inst)
			}
		}

	case rules.PhaseMain1, rules.PhaseMain2:
		m.pending.Reset(m.turns.Order()...)

	case rules.PhaseAttack:
		m.pending.Reset(m.turns.Order()...)
		m.attackers = nil
		clear(m.blocks)

	case rules.PhaseEnd:
		m.pending.Clear()
		for _, name := range m.turns.Order() {
			if err := m.transfer.CleanupTurn(m.players[name]); err != nil && m.logger != nil {
				m.logger.Warn("cleanup left cards behind",
					zap.String("match_id", m.id),
					zap.String("player", name),
					zap.Error(err),
				)
			}
		}
		priority := m.turns.PriorityPlayer()
		ctx := m.hookContext(priority)
		for _, item := range m.players[priority].Formation().Peek() {
			if inst, ok := item.(*cards.Instance); ok {
				m.hooks.TurnEnd(ctx, inst)
			}
		}
		m.publish(rules.Event{Type: rules.EventTurnEnded, PlayerID: priority})
		m.advance()
	}
}

func (m *Match) drawOpeningHand(p *Player) {
	n := min(m.opts.OpeningHand, p.Deck().Len())
	if n == 0 {
		return
	}
	drawn, err := m.actions.Draw(p, n)
	if err != nil {
		if m.logger != nil {
			m.logger.Error("opening hand draw failed", zap.String("player", p.Name), zap.Error(err))
		}
		return
	}
	m.publish(rules.Event{Type: rules.EventCardsDrawn, PlayerID: p.Name, Amount: len(drawn), From: string(zone.Deck), To: string(zone.Hand)})
}

// resolveCombat applies damage for the declared attacks and sends destroyed
// units to the discard pile.
func (m *Match) resolveCombat() {
	attacker := m.players[m.turns.PriorityPlayer()]
	defender := m.players[m.turns.Opponent()]
	ctx := m.hookContext(attacker.Name)

	for _, id := range m.attackers {
		inst := instanceIn(attacker.Combat(), id)
		if inst == nil {
			continue
		}
		damage := inst.Def().Strength()
		if blockerID, ok := m.blocks[id]; ok {
			if blocker := instanceIn(defender.Combat(), blockerID); blocker != nil {
				blocker.Damage += damage
				inst.Damage += blocker.Def().Strength()
			}
			m.publish(rules.Event{Type: rules.EventCombatDamage, PlayerID: attacker.Name, CardID: id.String(), Amount: damage})
		} else if damage > 0 {
			life := defender.Resources.LoseLife(damage)
			m.publish(rules.Event{Type: rules.EventCombatDamage, PlayerID: attacker.Name, CardID: id.String(), Amount: damage})
			m.publish(rules.Event{Type: rules.EventLifeChanged, PlayerID: defender.Name, Amount: life})
		}
		m.hooks.CombatDamage(ctx, inst, damage)
	}

	for _, p := range []*Player{attacker, defender} {
		for _, item := range p.Combat().Peek() {
			inst, ok := item.(*cards.Instance)
			if !ok || !inst.Destroyed() {
				continue
			}
			if _, err := m.transfer.Move(p.Combat(), p.Discard(), ByID(inst.CardID())); err != nil {
				if m.logger != nil {
					m.logger.Error("failed to discard destroyed unit", zap.Stringer("card", inst), zap.Error(err))
				}
				continue
			}
			m.publish(rules.Event{Type: rules.EventUnitDestroyed, PlayerID: p.Name, CardID: inst.CardID().String(), From: string(zone.Combat), To: string(zone.Discard)})
		}
	}
	m.attackers = nil
	clear(m.blocks)

	if !defender.Resources.Alive() {
		m.gameOver = true
		m.winner = attacker.Name
		m.publish(rules.Event{Type: rules.EventGameOver, PlayerID: attacker.Name})
		if m.logger != nil {
			m.logger.Info("match over",
				zap.String("match_id", m.id),
				zap.String("winner", attacker.Name),
				zap.Int("turn", m.turns.TurnNumber()),
			)
		}
	}
}

func (m *Match) hookContext(player string) HookContext {
	return HookContext{
		MatchID:  m.id,
		Player:   player,
		Opponent: m.turns.OpponentOf(player),
		Turn:     m.turns.TurnNumber(),
		Phase:    m.turns.CurrentPhase(),
	}
}

// publish stamps the event with the current turn and phase.
func (m *Match) publish(e rules.Event) {
	e.Turn = m.turns.TurnNumber()
	e.Phase = m.turns.CurrentPhase()
	m.events.Publish(e)
}

// drain takes the queued events. Callers hold m.mu.
func (m *Match) drain() ([]rules.Event, NotificationHandler) {
	outbox := m.outbox
	m.outbox = nil
	return outbox, m.notificationHandler
}

func (m *Match) deliver(handler NotificationHandler, events []rules.Event) {
	if handler == nil {
		return
	}
	for _, e := range events {
		handler(m.notification(e))
	}
}

func (m *Match) notification(e rules.Event) Notification {
	data := map[string]any{
		"phase": e.Phase.String(),
		"turn":  e.Turn,
	}
	if e.CardID != "" {
		data["card_id"] = e.CardID
	}
	if e.From != "" {
		data["from"] = e.From
	}
	if e.To != "" {
		data["to"] = e.To
	}
	if e.Amount != 0 {
		data["amount"] = e.Amount
	}
	return Notification{
		Type:      e.Type,
		MatchID:   m.id,
		PlayerID:  e.PlayerID,
		Timestamp: e.Timestamp,
		Data:      data,
	}
}

func (m *Match) logRejected(player string, action rules.ActionType, code rules.Code, reason string) {
	if m.logger == nil {
		return
	}
	m.logger.Debug("action rejected",
		zap.String("match_id", m.id),
		zap.String("player", player),
		zap.String("action", string(action)),
		zap.String("code", string(code)),
		zap.String("reason", reason),
	)
}

// CurrentPlayer returns the player expected to act next: the head of the
// pending queue, or the priority player when nobody is pending.
func (m *Match) CurrentPlayer() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentPlayer()
}

func (m *Match) currentPlayer() string {
	if head, ok := m.pending.Head(); ok {
		return head
	}
	return m.turns.PriorityPlayer()
}

// Players returns the player names in seat order.
func (m *Match) Players() []string {
	return []string{m.seats[0], m.seats[1]}
}

// Phase returns the current phase.
func (m *Match) Phase() rules.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turns.CurrentPhase()
}

// Turn returns the current turn number.
func (m *Match) Turn() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turns.TurnNumber()
}

// PriorityPlayer returns the player who acts first this turn.
func (m *Match) PriorityPlayer() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turns.PriorityPlayer()
}

// Pending returns the players who still owe an action this phase.
func (m *Match) Pending() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending.Players()
}

// WaitingFor returns the active sub-protocol, if any.
func (m *Match) WaitingFor() rules.WaitingFor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waitingFor
}

// Winner reports whether the match is over and who won.
func (m *Match) Winner() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.winner, m.gameOver
}

// Gold returns a player's available gold.
func (m *Match) Gold(player string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.player(player)
	if err != nil {
		return 0, err
	}
	return p.Resources.Gold(), nil
}

// Life returns a player's life total.
func (m *Match) Life(player string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.player(player)
	if err != nil {
		return 0, err
	}
	return p.Resources.Life(), nil
}

// SeeCards returns a read-only view of one of a player's zones.
func (m *Match) SeeCards(player string, name zone.Name) ([]CardView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.player(player)
	if err != nil {
		return nil, err
	}
	z := p.Zone(name)
	if z == nil {
		return nil, fmt.Errorf("unknown zone %q", name)
	}
	return viewCards(z.Peek()), nil
}

// PublicCards is SeeCards for callers outside the engine: hidden zones
// such as the deck and the vault are refused with ErrHiddenZone.
func (m *Match) PublicCards(player string, name zone.Name) ([]CardView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.player(player)
	if err != nil {
		return nil, err
	}
	z := p.Zone(name)
	if z == nil {
		return nil, fmt.Errorf("unknown zone %q", name)
	}
	if !z.Spec().Visible {
		return nil, fmt.Errorf("%w: %s", ErrHiddenZone, name)
	}
	return viewCards(z.Peek()), nil
}

func (m *Match) player(name string) (*Player, error) {
	p, ok := m.players[name]
	if !ok {
		return nil, fmt.Errorf("unknown player %q", name)
	}
	return p, nil
}

func reject(code rules.Code, message string) ActionResult {
	return ActionResult{Success: false, Code: code, Message: message}
}

// messageOf strips the code prefix from rules errors.
func messageOf(err error) string {
	var rulesErr *rules.Error
	if errors.As(err, &rulesErr) && rulesErr.Error() == err.Error() {
		return rulesErr.Message
	}
	return err.Error()
}

func instanceIn(z *zone.Zone, id cards.ID) *cards.Instance {
	item, ok := z.Find(id)
	if !ok {
		return nil
	}
	inst, _ := item.(*cards.Instance)
	return inst
}

func containsID(ids []cards.ID, id cards.ID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
