package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionEventType classifies a session change.
type SessionEventType string

// Session event types.
const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionRefreshed SessionEventType = "refreshed"
	SessionSignedOut SessionEventType = "signed_out"
	SessionExpired   SessionEventType = "expired"
)

// SessionEvent reports a change of the signed-in identity.
type SessionEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type SessionEventType `json:"type"`

	// UserID is uuid.Nil for signed_out and expired events
	UserID uuid.UUID `json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
}

// Active reports whether a session exists after this event.
func (e *SessionEvent) Active() bool {
	return e.Type == SessionSignedIn || e.Type == SessionRefreshed
}

// NewSessionEvent creates a SessionEvent.
func NewSessionEvent(eventType SessionEventType, userID uuid.UUID) *SessionEvent {
	if eventType == SessionSignedOut || eventType == SessionExpired {
		userID = uuid.Nil
	}
	return &SessionEvent{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *SessionEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *SessionEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *SessionEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *SessionEvent) error
}
