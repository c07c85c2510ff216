package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one recorded experiment run.
type Session struct {
	ID         string         `json:"id"`
	Experiment string         `json:"experiment"`
	StartedAt  time.Time      `json:"startedAt"`
	EndedAt    time.Time      `json:"endedAt"`
	Duration   float64        `json:"durationSeconds"`
	Score      float64        `json:"score"`
	Completed  bool           `json:"completed"`
	Detail     map[string]any `json:"detail,omitempty"`
}

// SessionEvent is one notable moment within a session, with its offset
// from the session start in seconds.
type SessionEvent struct {
	Kind   string         `json:"kind"`
	At     float64        `json:"at"`
	Detail map[string]any `json:"detail,omitempty"`
}

// SessionRepository provides CRUD operations for sessions and their
// events.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

func marshalDetail(detail map[string]any) (string, error) {
	if detail == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalDetail(raw string) (map[string]any, error) {
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	var detail map[string]any
	if err := json.Unmarshal([]byte(raw), &detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// Create inserts a new session.
func (r *SessionRepository) Create(sess *Session) error {
	detail, err := marshalDetail(sess.Detail)
	if err != nil {
		return err
	}

	completed := 0
	if sess.Completed {
		completed = 1
	}

	_, err = r.db.Exec(
		`INSERT INTO sessions (id, experiment, started_at, ended_at, duration_s, score, completed, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Experiment, sess.StartedAt, sess.EndedAt, sess.Duration, sess.Score, completed, detail,
	)
	return err
}

func scanSession(row interface{ Scan(...any) error }) (*Session, error) {
	sess := &Session{}
	var completed int
	var detail string

	err := row.Scan(&sess.ID, &sess.Experiment, &sess.StartedAt, &sess.EndedAt,
		&sess.Duration, &sess.Score, &completed, &detail)
	if err != nil {
		return nil, err
	}

	sess.Completed = completed != 0
	if sess.Detail, err = unmarshalDetail(detail); err != nil {
		return nil, err
	}
	return sess, nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, experiment, started_at, ended_at, duration_s, score, completed, detail
		 FROM sessions WHERE id = ?`,
		id,
	)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List retrieves sessions newest first. An empty experiment matches all;
// limit <= 0 means no limit.
func (r *SessionRepository) List(experiment string, limit int) ([]*Session, error) {
	query := `SELECT id, experiment, started_at, ended_at, duration_s, score, completed, detail
		 FROM sessions`
	var args []any

	if experiment != "" {
		query += ` WHERE experiment = ?`
		args = append(args, experiment)
	}
	query += ` ORDER BY started_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Delete removes a session and, via the foreign key, its events.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddEvent records an event against an existing session.
func (r *SessionRepository) AddEvent(sessionID string, event *SessionEvent) error {
	detail, err := marshalDetail(event.Detail)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO session_events (session_id, kind, at_s, detail) VALUES (?, ?, ?, ?)`,
		sessionID, event.Kind, event.At, detail,
	)
	return err
}

// Events retrieves a session's events in chronological order.
func (r *SessionRepository) Events(sessionID string) ([]*SessionEvent, error) {
	rows, err := r.db.Query(
		`SELECT kind, at_s, detail FROM session_events WHERE session_id = ? ORDER BY at_s, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*SessionEvent
	for rows.Next() {
		ev := &SessionEvent{}
		var detail string
		if err := rows.Scan(&ev.Kind, &ev.At, &detail); err != nil {
			return nil, err
		}
		if ev.Detail, err = unmarshalDetail(detail); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
