package jobscheduler

import "context"

// Repository persists the dispatch audit trail. Events are upserted by
// DispatchID so a completion overwrites its own "sent" row.
type Repository interface {
	UpsertEvent(ctx context.Context, event DispatchEvent) error
}
