package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fyangcodes/webnovel-reader/models"
)

// MaxBufferedEvents is the rolling cap on the local event buffer. Inserting
// past the cap evicts the oldest rows.
const MaxBufferedEvents = 100

// InsertEvent appends an event to the buffer and enforces the rolling cap.
func (db *DB) InsertEvent(e models.Event) error {
	var props any
	if e.Props != nil {
		data, err := json.Marshal(e.Props)
		if err != nil {
			return fmt.Errorf("failed to encode event props: %w", err)
		}
		props = string(data)
	}

	if _, err := db.Exec(
		"INSERT INTO events (name, url, ts_utc, props) VALUES (?, ?, ?, ?)",
		e.Name, e.URL, e.TSUTC, props,
	); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if _, err := db.Exec(
		`DELETE FROM events WHERE event_id NOT IN
		   (SELECT event_id FROM events ORDER BY event_id DESC LIMIT ?)`,
		MaxBufferedEvents,
	); err != nil {
		return fmt.Errorf("failed to trim event buffer: %w", err)
	}

	return nil
}

// RecentEvents returns up to n buffered events, newest first.
func (db *DB) RecentEvents(n int) ([]models.Event, error) {
	rows, err := db.Query(
		"SELECT name, url, ts_utc, props FROM events ORDER BY event_id DESC LIMIT ?", n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var url, props sql.NullString
		if err := rows.Scan(&e.Name, &url, &e.TSUTC, &props); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.URL = url.String
		if props.Valid && props.String != "" {
			if err := json.Unmarshal([]byte(props.String), &e.Props); err != nil {
				return nil, fmt.Errorf("failed to decode event props: %w", err)
			}
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountEvents returns the number of buffered events.
func (db *DB) CountEvents() (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}
