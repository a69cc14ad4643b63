package events

import "log"

// AuthEventType identifies account lifecycle events that trigger
// best-effort notification emails.
type AuthEventType string

const (
	// UserRegistered is published after a new account is created.
	UserRegistered AuthEventType = "UserRegistered"

	// UserLoggedIn is published after a successful credential sign-in.
	UserLoggedIn AuthEventType = "UserLoggedIn"

	// PasswordChanged is published after a reset flow completes.
	PasswordChanged AuthEventType = "PasswordChanged"
)

// AuthEvent is the payload carried on the bus.
type AuthEvent struct {
	Type  AuthEventType
	Email string
	Name  string
}

// Bus is a buffered channel of auth events. Buffering keeps API
// handlers from blocking on a slow email provider.
type Bus struct {
	ch chan AuthEvent
}

func NewBus(size int) *Bus {
	if size <= 0 {
		size = 100
	}
	return &Bus{ch: make(chan AuthEvent, size)}
}

// Publish enqueues an event without blocking. If the buffer is full the
// event is dropped and logged: notifications are best-effort.
func (b *Bus) Publish(event AuthEvent) {
	select {
	case b.ch <- event:
	default:
		log.Printf("event bus full, dropping %s for %s", event.Type, event.Email)
	}
}

// Events exposes the receive side for the notifier worker.
func (b *Bus) Events() <-chan AuthEvent {
	return b.ch
}

// Close stops the bus; the notifier drains remaining events and exits.
func (b *Bus) Close() {
	close(b.ch)
}
