package events

import (
	"context"
	"sync"

	"betboard/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeAccountCreated    EventType = "account_created"
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeBetCreated        EventType = "bet_created"
	EventTypeBetChallenged     EventType = "bet_challenged"
	EventTypeEngagementChanged EventType = "engagement_changed"
)

// AllEventTypes lists every event type emitted by the ledger
var AllEventTypes = []EventType{
	EventTypeAccountCreated,
	EventTypeBalanceChange,
	EventTypeBetCreated,
	EventTypeBetChallenged,
	EventTypeEngagementChanged,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// AccountCreatedEvent represents a new account registration
type AccountCreatedEvent struct {
	AccountID      int64  `json:"account_id"`
	Handle         string `json:"handle"`
	InitialBalance int64  `json:"initial_balance"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID       int64                  `json:"account_id"`
	OldBalance      int64                  `json:"old_balance"`
	NewBalance      int64                  `json:"new_balance"`
	ChangeAmount    int64                  `json:"change_amount"`
	TransactionType models.TransactionType `json:"transaction_type"`
	BetID           *int64                 `json:"bet_id,omitempty"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// BetCreatedEvent represents a bet opened with an escrowed wager
type BetCreatedEvent struct {
	BetID          int64 `json:"bet_id"`
	OwnerAccountID int64 `json:"owner_account_id"`
	Wager          int64 `json:"wager"`
}

func (e BetCreatedEvent) Type() EventType {
	return EventTypeBetCreated
}

// BetChallengedEvent represents a challenge taking hold of a bet
type BetChallengedEvent struct {
	BetID                   int64  `json:"bet_id"`
	ChallengerAccountID     int64  `json:"challenger_account_id"`
	ChallengeAmount         int64  `json:"challenge_amount"`
	ReplacedChallengerID    *int64 `json:"replaced_challenger_id,omitempty"`
	RefundedChallengeAmount int64  `json:"refunded_challenge_amount,omitempty"`
}

func (e BetChallengedEvent) Type() EventType {
	return EventTypeBetChallenged
}

// EngagementChangedEvent represents a like or bookmark being added or removed
type EngagementChangedEvent struct {
	Kind      models.EngagementKind `json:"kind"`
	AccountID int64                 `json:"account_id"`
	BetID     int64                 `json:"bet_id"`
	Active    bool                  `json:"active"`
	Count     int64                 `json:"count"`
}

func (e EngagementChangedEvent) Type() EventType {
	return EventTypeEngagementChanged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wg       sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously; a panicking handler is logged and does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	for i, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started so far has returned
func (b *Bus) Wait() {
	b.wg.Wait()
}

// TransactionalBus holds events published inside a unit of work until the
// transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Flush emits the pending events in publish order. Called after a successful commit.
func (b *TransactionalBus) Flush() {
	// Handlers outlive the request that committed the transaction
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops the pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
