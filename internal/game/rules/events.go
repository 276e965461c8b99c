package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Turn structure
	EventPhaseChanged EventType = "PHASE_CHANGED"
	EventTurnStarted  EventType = "TURN_STARTED"
	EventTurnEnded    EventType = "TURN_ENDED"
	EventPriority     EventType = "PRIORITY_CHANGED"

	// Sub-protocols
	EventMulliganStarted   EventType = "MULLIGAN_STARTED"
	EventMulliganTaken     EventType = "MULLIGAN_TAKEN"
	EventCardBottomed      EventType = "CARD_BOTTOMED"
	EventMulliganCompleted EventType = "MULLIGAN_COMPLETED"

	// Zone movement
	EventZoneChange   EventType = "ZONE_CHANGE"
	EventCardsDrawn   EventType = "CARDS_DRAWN"
	EventCardPlayed   EventType = "CARD_PLAYED"
	EventTreasureUsed EventType = "TREASURE_USED"

	// Combat
	EventAttackDeclared  EventType = "ATTACK_DECLARED"
	EventDefenseDeclared EventType = "DEFENSE_DECLARED"
	EventCombatDamage    EventType = "COMBAT_DAMAGE"
	EventUnitDestroyed   EventType = "UNIT_DESTROYED"

	// Players
	EventGoldChanged EventType = "GOLD_CHANGED"
	EventLifeChanged EventType = "LIFE_CHANGED"
	EventPassed      EventType = "PASSED"
	EventGameOver    EventType = "GAME_OVER"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type      EventType
	PlayerID  string // Acting or affected player
	CardID    string // Card involved, if any
	From      string // Source zone for zone changes
	To        string // Destination zone for zone changes
	Amount    int    // Numeric value (cards, gold, damage, life)
	Phase     Phase
	Turn      int
	Timestamp time.Time
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type typedListener struct {
	handle   int
	callback Listener
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]typedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]typedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], typedListener{handle: handle, callback: listener})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	all := make([]Listener, 0, len(bus.listeners))
	for _, l := range bus.listeners {
		all = append(all, l)
	}
	typed := append([]typedListener(nil), bus.typedListeners[event.Type]...)
	bus.mu.RUnlock()

	for _, l := range all {
		l(event)
	}
	for _, l := range typed {
		l.callback(event)
	}
}
