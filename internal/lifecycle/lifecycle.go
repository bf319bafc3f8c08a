// Package lifecycle derives the time-windowed state of a session and the
// human-readable countdown shown next to it.
//
// A session moves through three phases against two fixed boundaries:
//
//	submission open   now < expiresAt
//	download window   expiresAt <= now < deletionScheduledAt
//	terminal          now >= deletionScheduledAt
//
// Transitions are one-directional; terminal is absorbing. The phase is a
// pure function of the inputs, so the same clock reading always yields the
// same answer.
package lifecycle

import (
	"fmt"
	"time"
)

// Phase is the derived state of a session at a point in time.
type Phase string

const (
	// PhaseSubmissionOpen means contacts may still be submitted.
	PhaseSubmissionOpen Phase = "submission_open"
	// PhaseAlreadySubmitted is the submission window as seen by a viewer
	// whose browser-local marker is set. Same window, different UI.
	PhaseAlreadySubmitted Phase = "already_submitted"
	// PhaseDownloadWindow means submissions are closed and the contact
	// card file may be produced.
	PhaseDownloadWindow Phase = "download_window"
	// PhaseTerminal means the session and its contacts no longer exist.
	PhaseTerminal Phase = "terminal"
	// PhaseNotFound is reported by callers when no record exists for a
	// token; the record may never have existed or may already be purged.
	PhaseNotFound Phase = "not_found"
)

// Evaluate derives the phase for the given boundaries. The submitted flag
// is the viewer's advisory browser-local marker; it only distinguishes
// PhaseAlreadySubmitted from PhaseSubmissionOpen inside the open window.
func Evaluate(now, expiresAt, deletionScheduledAt time.Time, submitted bool) Phase {
	switch {
	case !now.Before(deletionScheduledAt):
		return PhaseTerminal
	case !now.Before(expiresAt):
		return PhaseDownloadWindow
	case submitted:
		return PhaseAlreadySubmitted
	default:
		return PhaseSubmissionOpen
	}
}

// Countdown returns the informational remaining-time text for the active
// boundary: counting down to expiresAt while submissions are open, then to
// deletionScheduledAt during the download window. It has no semantic effect.
func Countdown(now, expiresAt, deletionScheduledAt time.Time) string {
	switch Evaluate(now, expiresAt, deletionScheduledAt, false) {
	case PhaseTerminal:
		return "Session permanently closed."
	case PhaseDownloadWindow:
		return "Download available for: " + formatRemaining(deletionScheduledAt.Sub(now))
	default:
		return "Submissions open for: " + formatRemaining(expiresAt.Sub(now))
	}
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
