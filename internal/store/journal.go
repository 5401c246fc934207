package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	journalFileName = "history.sqlite"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Journal is a local, append-only record of mutations sent to the server.
// It exists for the operator ("what did I change yesterday?"), not for sync:
// the server stays the source of truth.
type Journal struct {
	// Dir holds history.sqlite. Empty means "use the config directory".
	Dir string
}

// Action is one journal row. Detail carries op-specific fields (names, ids,
// status values) as free-form JSON.
type Action struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	DeviceID string    `json:"device_id,omitempty"`
	Op       string    `json:"op"`
	Kind     string    `json:"kind"`
	EntityID int64     `json:"entity_id,omitempty"`
	Detail   any       `json:"detail,omitempty"`
	Outcome  string    `json:"outcome"`
	Error    string    `json:"error,omitempty"`
	Server   string    `json:"server,omitempty"`
}

func (j Journal) dir() (string, error) {
	if strings.TrimSpace(j.Dir) != "" {
		return j.Dir, nil
	}
	return ConfigDir()
}

func (j Journal) path() (string, error) {
	dir, err := j.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, journalFileName), nil
}

func (j Journal) open(ctx context.Context) (*sql.DB, error) {
	path, err := j.path()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas for multi-process local usage.
	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := j.migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (j Journal) migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS actions (
			action_id TEXT PRIMARY KEY,
			device_id TEXT NOT NULL,
			op TEXT NOT NULL,
			entity_kind TEXT NOT NULL,
			entity_id INTEGER,
			detail_json TEXT NOT NULL,
			outcome TEXT NOT NULL,
			error TEXT,
			server TEXT,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_created ON actions(created_at_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_kind ON actions(entity_kind, created_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	_, err := ensureMetaID(ctx, db, "device_id")
	return err
}

func ensureMetaID(ctx context.Context, db *sql.DB, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("empty meta key")
	}
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, key).Scan(&v)
	if err == nil && strings.TrimSpace(v) != "" {
		return v, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, key, id); err != nil {
		return "", err
	}
	return id, nil
}

// Record appends one action. opErr nil means the mutation succeeded; non-nil
// records the failure alongside its user-facing text. Call sites ignore the
// returned error: a broken journal must never block the actual mutation.
func (j Journal) Record(ctx context.Context, server, op, kind string, entityID int64, detail any, opErr error) error {
	op = strings.TrimSpace(op)
	if op == "" {
		return errors.New("journal: missing op")
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return errors.New("journal: missing entity kind")
	}

	db, err := j.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	deviceID, err := ensureMetaID(ctx, db, "device_id")
	if err != nil {
		return err
	}

	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return err
	}

	outcome := OutcomeOK
	errText := ""
	if opErr != nil {
		outcome = OutcomeError
		errText = opErr.Error()
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO actions(
			action_id, device_id, op, entity_kind, entity_id,
			detail_json, outcome, error, server, created_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), deviceID, op, kind, entityID,
		string(detailJSON), outcome, errText, server, time.Now().UTC().UnixMilli())
	return err
}

// Actions returns journal rows newest first. kind filters by entity kind when
// non-empty; limit <= 0 means no limit.
func (j Journal) Actions(ctx context.Context, kind string, limit int) ([]Action, error) {
	db, err := j.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT action_id, device_id, op, entity_kind, entity_id,
	             detail_json, outcome, error, server, created_at_unixms
	      FROM actions`
	var args []any
	if kind = strings.TrimSpace(kind); kind != "" {
		q += ` WHERE entity_kind = ?`
		args = append(args, kind)
	}
	q += ` ORDER BY created_at_unixms DESC, action_id DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		var a Action
		var detailJSON, errText, server sql.NullString
		var entityID sql.NullInt64
		var tsMs int64
		if err := rows.Scan(&a.ID, &a.DeviceID, &a.Op, &a.Kind, &entityID,
			&detailJSON, &a.Outcome, &errText, &server, &tsMs); err != nil {
			return nil, err
		}
		a.TS = time.UnixMilli(tsMs).UTC()
		a.EntityID = entityID.Int64
		a.Error = errText.String
		a.Server = server.String
		if detailJSON.Valid && detailJSON.String != "" {
			var d any
			_ = json.Unmarshal([]byte(detailJSON.String), &d)
			a.Detail = d
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Action{}
	}
	return out, nil
}
