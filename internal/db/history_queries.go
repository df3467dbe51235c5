package db

import (
	"context"
	"fmt"
	"time"

	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
)

// rangeModifier converts a TimeRange into a SQLite datetime() modifier.
// Empty string means no filter (all time).
func rangeModifier(r models.TimeRange) string {
	days := r.Days()
	if days == 0 {
		return ""
	}
	return fmt.Sprintf("-%d days", days)
}

// GetHourlyCallVolume returns per-hour call counts inside the range,
// oldest bucket first.
func (db *DB) GetHourlyCallVolume(timeRange models.TimeRange) ([]models.HourlyCallVolume, error) {
	query := `
		SELECT strftime('%Y-%m-%d %H:00:00', timestamp) as hour,
			   COUNT(*) as call_count
		FROM calls
	`
	var args []any
	if mod := rangeModifier(timeRange); mod != "" {
		query += ` WHERE timestamp >= datetime('now', ?)`
		args = append(args, mod)
	}
	query += ` GROUP BY hour ORDER BY hour ASC`

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly call volume: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var volume []models.HourlyCallVolume
	for rows.Next() {
		var hourStr string
		var bucket models.HourlyCallVolume
		if err := rows.Scan(&hourStr, &bucket.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hourly bucket: %w", err)
		}
		bucket.Hour, _ = time.Parse(sqlTimeFormat, hourStr)
		volume = append(volume, bucket)
	}

	return volume, rows.Err()
}

// GetTalkgroupStats returns per-talkgroup call counts inside the range,
// busiest first.
func (db *DB) GetTalkgroupStats(timeRange models.TimeRange, limit int) ([]models.TalkgroupStats, error) {
	query := `
		SELECT talkgroup, COUNT(*) as call_count, MAX(timestamp) as last_heard
		FROM calls
	`
	var args []any
	if mod := rangeModifier(timeRange); mod != "" {
		query += ` WHERE timestamp >= datetime('now', ?)`
		args = append(args, mod)
	}
	query += ` GROUP BY talkgroup ORDER BY call_count DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query talkgroup stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []models.TalkgroupStats
	for rows.Next() {
		var tg models.TalkgroupStats
		var lastHeard string
		if err := rows.Scan(&tg.Talkgroup, &tg.Count, &lastHeard); err != nil {
			return nil, fmt.Errorf("failed to scan talkgroup stats: %w", err)
		}
		tg.LastHeard, _ = time.Parse(sqlTimeFormat, lastHeard)
		stats = append(stats, tg)
	}

	return stats, rows.Err()
}

// GetFeedStats returns per-feed call counts inside the range, busiest first.
// Calls without a feed_id are grouped under an empty ID.
func (db *DB) GetFeedStats(timeRange models.TimeRange) ([]models.FeedStats, error) {
	query := `
		SELECT COALESCE(feed_id, ''), COUNT(*) as call_count,
			   MAX(timestamp) as last_heard
		FROM calls
	`
	var args []any
	if mod := rangeModifier(timeRange); mod != "" {
		query += ` WHERE timestamp >= datetime('now', ?)`
		args = append(args, mod)
	}
	query += ` GROUP BY feed_id ORDER BY call_count DESC`

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []models.FeedStats
	for rows.Next() {
		var fs models.FeedStats
		var lastHeard string
		if err := rows.Scan(&fs.FeedID, &fs.Count, &lastHeard); err != nil {
			return nil, fmt.Errorf("failed to scan feed stats: %w", err)
		}
		fs.LastHeard, _ = time.Parse(sqlTimeFormat, lastHeard)
		stats = append(stats, fs)
	}

	return stats, rows.Err()
}

// GetCallHistoryStats assembles everything the history tab renders for the
// selected time range.
func (db *DB) GetCallHistoryStats(timeRange models.TimeRange) (*models.CallHistoryStats, error) {
	stats := &models.CallHistoryStats{TimeRange: timeRange}

	query := `
		SELECT COUNT(*),
			   COALESCE(MIN(timestamp), ''),
			   COALESCE(MAX(timestamp), '')
		FROM calls
	`
	var args []any
	if mod := rangeModifier(timeRange); mod != "" {
		query += ` WHERE timestamp >= datetime('now', ?)`
		args = append(args, mod)
	}

	var first, last string
	err := db.QueryRowContext(context.Background(), query, args...).
		Scan(&stats.TotalCalls, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to query call totals: %w", err)
	}
	stats.FirstCall, _ = time.Parse(sqlTimeFormat, first)
	stats.LastCall, _ = time.Parse(sqlTimeFormat, last)

	if stats.HourlyVolume, err = db.GetHourlyCallVolume(timeRange); err != nil {
		return nil, err
	}
	if stats.Talkgroups, err = db.GetTalkgroupStats(timeRange, 10); err != nil {
		return nil, err
	}
	if stats.Feeds, err = db.GetFeedStats(timeRange); err != nil {
		return nil, err
	}

	return stats, nil
}
