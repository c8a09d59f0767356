package notify

import (
	"github.com/dukerupert/tillcart/internal/domain"
)

// Recorder is a test Notifier that keeps every notification it receives.
type Recorder struct {
	Notifications []domain.Notification
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify appends n.
func (r *Recorder) Notify(n domain.Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Last returns the most recent notification and whether there was one.
func (r *Recorder) Last() (domain.Notification, bool) {
	if len(r.Notifications) == 0 {
		return domain.Notification{}, false
	}
	return r.Notifications[len(r.Notifications)-1], true
}

// BySeverity returns the notifications with severity s.
func (r *Recorder) BySeverity(s domain.Severity) []domain.Notification {
	var out []domain.Notification
	for _, n := range r.Notifications {
		if n.Severity == s {
			out = append(out, n)
		}
	}
	return out
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.Notifications = nil
}
