package notification

import "context"

// Notifier is fire-and-forget: Notify never blocks the caller and never reports failure.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Service is the dispatcher seen by the HTTP layer.
type Service interface {
	Notifier

	// Subscribe streams business-wide events and events addressed to recipientID.
	// The returned func releases the subscription.
	Subscribe(ctx context.Context, businessID string, recipientID string) (<-chan Event, func())
}

// Discard drops every event.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(context.Context, Event) {}
