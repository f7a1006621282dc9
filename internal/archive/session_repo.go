package archive

import (
	"context"
	"database/sql"
	"time"
)

// SessionRecord is one archived recording session.
type SessionRecord struct {
	ID        string
	SubjectID string
	Group     string
	Label     string
	Notes     string
	StartedAt time.Time
	StoppedAt *time.Time
	Packets   int64
	Bytes     int64
}

// MarkerRecord is one archived marker.
type MarkerRecord struct {
	ID        int64
	SessionID string
	Label     string
	OffsetMS  int64
	At        time.Time
}

// SessionRepo handles session rows.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// Insert records a session at start time. StoppedAt and the counters are
// filled in by Finish.
func (r *SessionRepo) Insert(ctx context.Context, s SessionRecord) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, subject_id, subject_group, label, notes, started_at)
	VALUES(?, ?, ?, ?, ?, ?);
	`,
		s.ID, s.SubjectID, s.Group, s.Label, s.Notes, s.StartedAt)
	return err
}

// Finish closes a session row with its stop time and transmit counters.
func (r *SessionRepo) Finish(ctx context.Context, id string, stoppedAt time.Time, packets, bytes uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET stopped_at = ?, packets = ?, bytes = ? WHERE id = ?`,
		stoppedAt, int64(packets), int64(bytes), id)
	return err
}

// Get returns one session by id.
func (r *SessionRepo) Get(ctx context.Context, id string) (SessionRecord, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, subject_id, subject_group, label, notes, started_at, stopped_at, packets, bytes
	FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

// Delete removes a session and its markers. The markers are deleted
// explicitly inside one transaction; the schema's cascade only fires when
// the connection has foreign_keys on, which depends on the DSN.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	return WithTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM markers WHERE session_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		return err
	})
}

// List returns the newest sessions first, at most limit rows.
func (r *SessionRepo) List(ctx context.Context, limit int) ([]SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, subject_id, subject_group, label, notes, started_at, stopped_at, packets, bytes
	FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (SessionRecord, error) {
	var s SessionRecord
	var stopped sql.NullTime
	err := row.Scan(&s.ID, &s.SubjectID, &s.Group, &s.Label, &s.Notes,
		&s.StartedAt, &stopped, &s.Packets, &s.Bytes)
	if err != nil {
		return SessionRecord{}, err
	}
	if stopped.Valid {
		t := stopped.Time
		s.StoppedAt = &t
	}
	return s, nil
}

// MarkerRepo handles marker rows.
type MarkerRepo struct {
	db *sql.DB
}

func NewMarkerRepo(db *sql.DB) *MarkerRepo { return &MarkerRepo{db: db} }

func (r *MarkerRepo) Insert(ctx context.Context, m MarkerRecord) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO markers(session_id, label, offset_ms, at) VALUES(?, ?, ?, ?);
	`,
		m.SessionID, m.Label, m.OffsetMS, m.At)
	return err
}

// ListBySession returns a session's markers in insertion order.
func (r *MarkerRepo) ListBySession(ctx context.Context, sessionID string) ([]MarkerRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, session_id, label, offset_ms, at FROM markers
	WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MarkerRecord
	for rows.Next() {
		var m MarkerRecord
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Label, &m.OffsetMS, &m.At); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
