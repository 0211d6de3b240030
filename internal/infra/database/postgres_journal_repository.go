package database

import (
	"context"
	"database/sql"
	"fmt"

	"homework_status_bot/internal/domain/homework"

	sq "github.com/Masterminds/squirrel"
)

const journalTable = "homework_notifications"

const createJournalTable = `CREATE TABLE IF NOT EXISTS homework_notifications (
	id            BIGSERIAL PRIMARY KEY,
	cycle_id      UUID        NOT NULL,
	homework_name TEXT        NOT NULL,
	status        TEXT        NOT NULL,
	message       TEXT        NOT NULL,
	from_date     BIGINT      NOT NULL,
	sent_at       TIMESTAMPTZ NOT NULL
)`

var _ homework.Journal = (*PostgresJournalRepository)(nil)

// PostgresJournalRepository keeps an audit trail of status notices.
type PostgresJournalRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

func NewPostgresJournalRepository(db *sql.DB) *PostgresJournalRepository {
	return &PostgresJournalRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the journal table if it does not exist yet.
func (r *PostgresJournalRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createJournalTable); err != nil {
		return fmt.Errorf("error creating %s table: %w", journalTable, err)
	}
	return nil
}

func (r *PostgresJournalRepository) Record(ctx context.Context, entry homework.JournalEntry) error {
	query, args, err := r.builder.
		Insert(journalTable).
		Columns("cycle_id", "homework_name", "status", "message", "from_date", "sent_at").
		Values(entry.CycleID, entry.HomeworkName, string(entry.Status), entry.Message, entry.FromDate, entry.SentAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building journal insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error recording notification for %q: %w", entry.HomeworkName, err)
	}
	return nil
}
