package repository

import (
	"context"

	"github.com/veresko/boxroom/internal/domain/model"
)

// EventRepository appends lifecycle events to the transactional outbox.
// Dispatch to notification handlers is a separate concern.
type EventRepository interface {
	Append(ctx context.Context, events ...model.Event) error
}
