package record

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS readings (
	reading_id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT    NOT NULL,
	frame      INTEGER NOT NULL,
	seconds    DOUBLE  NOT NULL,
	channel    INTEGER NOT NULL,
	raw        INTEGER NOT NULL,
	value      DOUBLE  NOT NULL,
	ts_ms      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_readings_run ON readings(run_id, frame);
`

// Store appends readings to a SQLite database.
type Store struct {
	db  *sql.DB
	ins *sql.Stmt
}

// OpenStore opens (creating if needed) the database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer; SQLite serialises anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	ins, err := db.Prepare(`INSERT INTO readings (run_id, frame, seconds, channel, raw, value, ts_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, ins: ins}, nil
}

func (s *Store) Write(ctx context.Context, r Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.ins.ExecContext(ctx, r.RunID, int64(r.Frame), r.Seconds, r.Channel, int64(r.Raw), r.Value, ts.UnixMilli())
	return err
}

// Run returns the records of one run ordered by frame.
func (s *Store) Run(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT frame, seconds, channel, raw, value, ts_ms
		FROM readings WHERE run_id = ? ORDER BY frame`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			frame, raw, tsMs int64
			r                Record
		)
		if err := rows.Scan(&frame, &r.Seconds, &r.Channel, &raw, &r.Value, &tsMs); err != nil {
			return nil, err
		}
		r.RunID = runID
		r.Frame = uint64(frame)
		r.Raw = int16(raw)
		r.Time = time.UnixMilli(tsMs)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return errors.Join(s.ins.Close(), s.db.Close())
}
