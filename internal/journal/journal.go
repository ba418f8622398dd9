package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/sqlite"

	"github.com/alexghenderson/downloader-ctl/internal/config"
	"github.com/alexghenderson/downloader-ctl/internal/logging"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Entry is one recorded operator action and its outcome. The journal is
// append-only audit history; dashboard state is never rebuilt from it.
type Entry struct {
	ID      int64
	At      time.Time
	Action  string // stop | restart | pause | create
	Target  string // download name; empty for create
	URL     string // create URL, sanitized; empty otherwise
	Outcome string // ok | error
	Detail  string // error text; empty on ok
}

// DB is the action journal. A nil *DB is a disabled journal and every
// method is a no-op on it.
type DB struct {
	SQL  *sql.DB
	Path string
}

// Open returns (nil, nil) when the journal is disabled in the config.
func Open(cfg *config.Config) (*DB, error) {
	if cfg == nil || !cfg.JournalEnabled() {
		return nil, nil
	}
	path := cfg.Journal.Path
	if path == "" {
		return nil, errors.New("journal.path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := initSchema(sqldb); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return &DB{SQL: sqldb, Path: path}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS actions (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		at      INTEGER NOT NULL,
		action  TEXT NOT NULL,
		target  TEXT NOT NULL DEFAULT '',
		url     TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL,
		detail  TEXT NOT NULL DEFAULT ''
	);`)
	return err
}

func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	return d.SQL.Close()
}

// Record appends one entry, stamping the time when absent and scrubbing
// credentials from the URL. Callers treat failures as log-only; a
// journal problem never blocks a control action.
func (d *DB) Record(e Entry) error {
	if d == nil {
		return nil
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := d.SQL.Exec(
		`INSERT INTO actions(at, action, target, url, outcome, detail) VALUES(?,?,?,?,?,?)`,
		at.Unix(), e.Action, e.Target, logging.SanitizeURL(e.URL), e.Outcome, e.Detail,
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (d *DB) Recent(limit int) ([]Entry, error) {
	if d == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.SQL.Query(
		`SELECT id, at, action, target, url, outcome, detail FROM actions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &at, &e.Action, &e.Target, &e.URL, &e.Outcome, &e.Detail); err != nil {
			return nil, err
		}
		e.At = time.Unix(at, 0).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Ping verifies the journal file is usable; doctor calls this.
func (d *DB) Ping() error {
	if d == nil {
		return nil
	}
	return d.SQL.Ping()
}
