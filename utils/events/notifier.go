package events

import "log"

// Sender is the slice of the mailer the notifier needs.
type Sender interface {
	SendWelcomeEmail(toEmail, name string) error
	SendLoginNotificationEmail(toEmail, name string) error
	SendPasswordChangedEmail(toEmail, name string) error
}

// Notifier consumes auth events and sends the matching email. Failures
// are logged and swallowed; no event ever fails a request.
type Notifier struct {
	bus    *Bus
	sender Sender
}

func NewNotifier(bus *Bus, sender Sender) *Notifier {
	return &Notifier{bus: bus, sender: sender}
}

// Run processes events until the bus is closed. Call in its own
// goroutine.
func (n *Notifier) Run() {
	for event := range n.bus.Events() {
		n.handle(event)
	}
}

func (n *Notifier) handle(event AuthEvent) {
	var err error
	switch event.Type {
	case UserRegistered:
		err = n.sender.SendWelcomeEmail(event.Email, event.Name)
	case UserLoggedIn:
		err = n.sender.SendLoginNotificationEmail(event.Email, event.Name)
	case PasswordChanged:
		err = n.sender.SendPasswordChangedEmail(event.Email, event.Name)
	default:
		log.Printf("unknown auth event type %q", event.Type)
		return
	}

	if err != nil {
		log.Printf("failed to send %s email to %s: %v", event.Type, event.Email, err)
	}
}
