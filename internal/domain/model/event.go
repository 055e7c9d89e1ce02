package model

import "time"

// EventKind identifies a lifecycle transition observed by collaborators.
type EventKind string

const (
	EventOrderCreated         EventKind = "order.created"
	EventOrderReserved        EventKind = "order.reserved"
	EventOrderAwaitingPayment EventKind = "order.awaiting_payment"
	EventOrderPaid            EventKind = "order.paid"
	EventOrderCompleted       EventKind = "order.completed"
	EventOrderCancelled       EventKind = "order.cancelled"
	EventOrderExpired         EventKind = "order.expired"

	EventStorageReserved    EventKind = "storage.reserved"
	EventStorageOccupied    EventKind = "storage.occupied"
	EventStorageReleased    EventKind = "storage.released"
	EventStorageUnavailable EventKind = "storage.unavailable"
	EventStorageAvailable   EventKind = "storage.available"
	EventStorageAtRisk      EventKind = "storage.at_risk"

	EventContractCreated    EventKind = "contract.created"
	EventContractSigned     EventKind = "contract.signed"
	EventContractTerminated EventKind = "contract.terminated"
)

// Event is a value describing a completed lifecycle transition. Use
// cases collect events and append them to the transactional outbox;
// dispatch to mail and admin notification handlers happens elsewhere.
type Event struct {
	Kind       EventKind
	OccurredAt time.Time
	Payload    map[string]any
}

// NewEvent constructs an event stamped at the transition time.
func NewEvent(kind EventKind, occurredAt time.Time, payload map[string]any) Event {
	return Event{Kind: kind, OccurredAt: occurredAt, Payload: payload}
}
