package session

import "expvar"

var (
	sessionsStartedTotal    = expvar.NewInt("sessions_started_total")
	sessionsTerminatedTotal = expvar.NewInt("sessions_terminated_total")
	completionTokensTotal   = expvar.NewInt("completion_tokens_total")
	roomTimeoutsTotal       = expvar.NewInt("room_timeouts_total")
	leaveTimeoutsTotal      = expvar.NewInt("leave_timeouts_total")
	droppedEventsTotal      = expvar.NewInt("dropped_events_total")
)
