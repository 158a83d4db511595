package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

// DispatchEvent is one audit-trail row for an internal job run, whether it
// arrived through the queue or was triggered by hand. WeekStart scopes
// week-level jobs; LeagueID scopes league-level ones. Either may be empty.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	JobPath      string
	WeekStart    string
	LeagueID     string
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
