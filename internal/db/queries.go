package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
)

const sqlTimeFormat = "2006-01-02 15:04:05"

// InsertCall records a call in the history table. Re-inserting a call_id
// already present is a no-op, so replayed batches never duplicate history.
func (db *DB) InsertCall(call *models.Call) error {
	ts, ok := call.Time()
	if !ok {
		// Unparseable upstream timestamp; fall back to receipt time so the
		// record still lands in the right neighborhood of the charts.
		ts = call.ReceivedAt
		if ts.IsZero() {
			ts = time.Now()
		}
	}

	received := call.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}

	query := `
		INSERT OR IGNORE INTO calls (
			call_id, timestamp, raw_timestamp, audio_url, talkgroup,
			description, feed_id, received_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(context.Background(), query,
		call.CallID,
		ts.UTC().Format(sqlTimeFormat),
		call.Timestamp,
		call.AudioURL,
		call.Talkgroup,
		call.Description,
		nullString(call.FeedID),
		received.UTC().Format(sqlTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert call: %w", err)
	}

	return nil
}

// InsertPollCycle records the outcome of one poll cycle.
func (db *DB) InsertPollCycle(newCalls int, cycleErr error) error {
	var errStr sql.NullString
	if cycleErr != nil {
		errStr = sql.NullString{String: cycleErr.Error(), Valid: true}
	}

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO poll_cycles (new_calls, error) VALUES (?, ?)`,
		newCalls, errStr,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll cycle: %w", err)
	}
	return nil
}

// GetRecentCalls returns the most recent calls, newest first.
func (db *DB) GetRecentCalls(limit int) ([]models.Call, error) {
	query := `
		SELECT call_id, raw_timestamp, audio_url, talkgroup, description,
			   feed_id, received_at
		FROM calls
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var calls []models.Call
	for rows.Next() {
		var call models.Call
		var feedID sql.NullString

		err := rows.Scan(
			&call.CallID,
			&call.Timestamp,
			&call.AudioURL,
			&call.Talkgroup,
			&call.Description,
			&feedID,
			&call.ReceivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call: %w", err)
		}

		call.FeedID = feedID.String
		calls = append(calls, call)
	}

	return calls, rows.Err()
}

// CountCalls returns the total number of calls in history.
func (db *DB) CountCalls() (int, error) {
	var count int
	err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM calls`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count calls: %w", err)
	}
	return count, nil
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
