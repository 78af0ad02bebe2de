package usecase

import (
	"fmt"
	"html"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
)

// EmailSender delivers a single HTML email with a plain text alternative.
type EmailSender interface {
	SendHTML(to []string, subject, htmlBody, textBody string) error
}

// notifier sends account emails. Failures are logged and never returned.
type notifier struct {
	sender EmailSender
	logger *zerolog.Logger
}

func (n *notifier) welcome(user *model.User) {
	greeting := "Hi"
	if user.Name != nil && *user.Name != "" {
		greeting = "Hi " + *user.Name
	}

	n.send(user.Email, "Welcome to Carbon Tracker",
		fmt.Sprintf("<p>%s,</p><p>Your account is ready. Start logging activities to see your footprint.</p>",
			html.EscapeString(greeting)),
		fmt.Sprintf("%s,\n\nYour account is ready. Start logging activities to see your footprint.\n", greeting),
	)
}

func (n *notifier) passwordChanged(user *model.User) {
	n.send(user.Email, "Your password was changed",
		"<p>The password of your Carbon Tracker account was just changed.</p>"+
			"<p>If this wasn't you, reset it immediately.</p>",
		"The password of your Carbon Tracker account was just changed.\n"+
			"If this wasn't you, reset it immediately.\n",
	)
}

func (n *notifier) send(to, subject, htmlBody, textBody string) {
	if n == nil || n.sender == nil {
		return
	}

	if err := n.sender.SendHTML([]string{to}, subject, htmlBody, textBody); err != nil {
		n.logger.Warn().Err(err).Str("subject", subject).Msg("failed to send email")
	}
}
