package domain

// SessionState is the lifecycle state of one venue stream client as owned
// by its supervisor. Disconnected is the only initial state; the state is
// terminal only when the supervisor itself is shutting down.
type SessionState string

const (
	SessionDisconnected SessionState = "disconnected"
	SessionConnecting   SessionState = "connecting"
	SessionConnected    SessionState = "connected"
	SessionReconnecting SessionState = "reconnecting"
	SessionRotating     SessionState = "rotating"
)

// SessionStateChange is delivered to observers (the TUI, health checks,
// metrics) whenever a session transitions between states.
type SessionStateChange struct {
	Venue string
	From  SessionState
	To    SessionState
	Err   error
}
