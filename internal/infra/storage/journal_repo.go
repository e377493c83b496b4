package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type JournalRepo struct{ db *sql.DB }

func NewJournalRepo(db *sql.DB) *JournalRepo { return &JournalRepo{db: db} }

// Record inserta una fila; genera ID y received_at si vienen vacíos.
func (r *JournalRepo) Record(ctx context.Context, e JournalEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now().UTC()
	}
	var errText sql.NullString
	if e.Error != "" {
		errText = sql.NullString{String: e.Error, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO dispatch_journal
  (id, kind, key, guild_id, user_id, outcome, error, duration_ms, received_at)
VALUES
  ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, e.ID, e.Kind, e.Key, e.GuildID, e.UserID, e.Outcome, errText, e.Duration.Milliseconds(), e.ReceivedAt)
	return err
}

// Prune deletes entries received before cutoff and returns how many went.
func (r *JournalRepo) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM dispatch_journal
 WHERE received_at < $1
`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Recent returns the newest entries first.
func (r *JournalRepo) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, kind, key, guild_id, user_id, outcome, COALESCE(error, ''), duration_ms, received_at
  FROM dispatch_journal
 ORDER BY received_at DESC
 LIMIT $1
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var (
			e  JournalEntry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.Kind, &e.Key, &e.GuildID, &e.UserID, &e.Outcome, &e.Error, &ms, &e.ReceivedAt); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}
