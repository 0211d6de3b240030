package homework

import (
	"context"
	"time"
)

// JournalEntry is an audit row for a status notice handed to the notifier.
type JournalEntry struct {
	CycleID      string
	HomeworkName string
	Status       Status
	Message      string
	FromDate     int64
	SentAt       time.Time
}

// Journal records delivered notices. It is write-only and never used to
// restore the poll cursor.
type Journal interface {
	Record(ctx context.Context, entry JournalEntry) error
}
