package notify

import "context"

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer envía notificaciones por email. Enabled() permite degradar sin romper flujos.
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, msg Message) error
}
