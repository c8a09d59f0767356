// Package notify delivers cart notifications to whatever surface shows them.
package notify

import (
	"context"
	"log/slog"

	"github.com/dukerupert/tillcart/internal/domain"
)

// Notifier receives notifications about cart operations. Delivery is a side
// channel; cart state never depends on it.
type Notifier interface {
	Notify(n domain.Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n domain.Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n domain.Notification) {
	f(n)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(domain.Notification) {})

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs through logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs n at a level matching its severity.
func (l *LogNotifier) Notify(n domain.Notification) {
	level := slog.LevelInfo
	switch n.Severity {
	case domain.SeverityWarning:
		level = slog.LevelWarn
	case domain.SeverityError:
		level = slog.LevelError
	}

	l.logger.Log(context.Background(), level, n.Title,
		slog.String("description", n.Description),
		slog.String("severity", string(n.Severity)),
	)
}

// Multi fans a notification out to several notifiers in order.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(n domain.Notification) {
		for _, x := range notifiers {
			x.Notify(n)
		}
	})
}
