package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/model"
)

// SQLiteFileName is the database file inside the data directory.
const SQLiteFileName = "rollcall.db"

// SQLiteBackend stores members and records in two SQLite tables. The seq
// column preserves insertion order.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS members (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  department TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  date TEXT NOT NULL,
  name TEXT NOT NULL,
  department TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('present', 'late', 'absent')),
  note TEXT NOT NULL DEFAULT '',
  UNIQUE(date, name)
);
`

// OpenSQLite opens a SQLite store at path and creates the schema if missing.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewStorageError("open sqlite", path, fmt.Errorf("storage path is required"))
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStorageError("open sqlite", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError("ping sqlite", cleanPath, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError("create schema", cleanPath, err)
	}

	return &SQLiteBackend{db: db, path: cleanPath}, nil
}

// Location returns the database file path.
func (s *SQLiteBackend) Location() string {
	return s.path
}

// Close closes the SQLite handle.
func (s *SQLiteBackend) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadMembers returns every member in insertion order.
func (s *SQLiteBackend) LoadMembers() ([]model.Member, error) {
	rows, err := s.db.Query(`SELECT name, department FROM members ORDER BY seq ASC`)
	if err != nil {
		return nil, errors.NewStorageError("read members", s.path, err)
	}
	defer rows.Close()

	var out []model.Member
	for rows.Next() {
		var m model.Member
		var dept string
		if err := rows.Scan(&m.Name, &dept); err != nil {
			return nil, errors.NewStorageError("read members", s.path, err)
		}
		m.Department = model.Department(dept)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("read members", s.path, err)
	}
	return out, nil
}

// AppendMember inserts one member row.
func (s *SQLiteBackend) AppendMember(m model.Member) error {
	_, err := s.db.Exec(`INSERT INTO members (name, department) VALUES (?, ?)`, m.Name, string(m.Department))
	return errors.NewStorageError("append member", s.path, err)
}

// ReplaceMembers rewrites the members table in one transaction.
func (s *SQLiteBackend) ReplaceMembers(members []model.Member) error {
	err := s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM members`); err != nil {
			return err
		}
		stmt, err := tx.Prepare(`INSERT INTO members (name, department) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, m := range members {
			if _, err := stmt.Exec(m.Name, string(m.Department)); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.NewStorageError("write members", s.path, err)
}

// LoadRecords returns every record in insertion order.
func (s *SQLiteBackend) LoadRecords() ([]model.Record, error) {
	rows, err := s.db.Query(`SELECT date, name, department, status, note FROM records ORDER BY seq ASC`)
	if err != nil {
		return nil, errors.NewStorageError("read records", s.path, err)
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		var r model.Record
		var dept, status string
		if err := rows.Scan(&r.Date, &r.Name, &dept, &status, &r.Note); err != nil {
			return nil, errors.NewStorageError("read records", s.path, err)
		}
		r.Department = model.Department(dept)
		r.Status = model.Status(status)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("read records", s.path, err)
	}
	return out, nil
}

// ReplaceRecords rewrites the records table in one transaction.
func (s *SQLiteBackend) ReplaceRecords(records []model.Record) error {
	err := s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM records`); err != nil {
			return err
		}
		stmt, err := tx.Prepare(`INSERT INTO records (date, name, department, status, note) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range records {
			if _, err := stmt.Exec(r.Date, r.Name, string(r.Department), string(r.Status), r.Note); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.NewStorageError("write records", s.path, err)
}

func (s *SQLiteBackend) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
