package ui

import "github.com/arcbridge/venuearb/business/venue/domain"

// SessionStateMsg reports a venue session's latest state transition.
type SessionStateMsg struct {
	Change domain.SessionStateChange
}

// AlertMsg reports a notification accepted by the alert gate.
type AlertMsg struct {
	Instrument string
	VenueA     string
	VenueB     string
	DiffPct    string
}

// ErrorMsg reports a fatal startup error.
type ErrorMsg struct {
	Error error
}

// tickMsg drives the periodic redraw independent of incoming state events.
type tickMsg struct{}
