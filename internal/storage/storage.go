// Package storage provides the persistence layer for rollcall.
//
// The ledger needs two narrow stores: a line-oriented member store and a
// tabular attendance store, both with read-all/rewrite-all semantics. Three
// backends implement them: plain files (the default), badger and sqlite.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/manav03panchal/rollcall/internal/model"
)

const (
	// AppName is the application name used for data directories.
	AppName = "rollcall"
)

// MemberStore is the durable key-line store for membership.
type MemberStore interface {
	// LoadMembers returns every member in storage order.
	LoadMembers() ([]model.Member, error)
	// AppendMember adds one member without rewriting existing entries.
	AppendMember(m model.Member) error
	// ReplaceMembers rewrites the whole store.
	ReplaceMembers(members []model.Member) error
}

// RecordStore is the durable tabular store for attendance records.
type RecordStore interface {
	// LoadRecords returns every record in insertion order.
	LoadRecords() ([]model.Record, error)
	// ReplaceRecords rewrites the whole store.
	ReplaceRecords(records []model.Record) error
}

// Backend bundles both stores over one storage technology.
type Backend interface {
	MemberStore
	RecordStore
	// Location describes where the data lives, for messages and logs.
	Location() string
	Close() error
}

// Kind names a backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindBadger Kind = "badger"
	KindSQLite Kind = "sqlite"
)

// Kinds lists the supported backends.
var Kinds = []Kind{KindFile, KindBadger, KindSQLite}

// ParseKind parses a backend name.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	switch k {
	case KindFile, KindBadger, KindSQLite:
		return k, nil
	case "":
		return KindFile, nil
	}
	return "", fmt.Errorf("unknown storage backend %q (want file, badger or sqlite)", name)
}

// Options configures the backend.
type Options struct {
	// Kind selects the backend. Empty means KindFile.
	Kind Kind
	// Dir is the data directory holding the stores.
	Dir string
	// InMemory opens a throwaway badger store; Dir and Kind are ignored.
	InMemory bool
	// MinFreeSpace is the free space required before file writes. Zero uses
	// the package default.
	MinFreeSpace uint64
	// NoLock skips the data directory lock. Only for tests that open the
	// same directory twice on purpose.
	NoLock bool
}

// DefaultDir returns the default data directory following the XDG spec.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Open opens or bootstraps the configured backend. On-disk backends hold an
// exclusive lock on the data directory until Close.
func Open(opts Options) (Backend, error) {
	if opts.InMemory {
		return OpenBadger("", true)
	}

	kind, err := ParseKind(string(opts.Kind))
	if err != nil {
		return nil, err
	}
	if opts.Dir == "" {
		opts.Dir = DefaultDir()
	}
	minFree := opts.MinFreeSpace
	if minFree == 0 {
		minFree = MinFreeSpace
	}
	if err := EnsureDirectory(opts.Dir, minFree); err != nil {
		return nil, err
	}

	var lock *FileLock
	if !opts.NoLock {
		lock = NewFileLock(opts.Dir)
		if err := lock.Acquire(); err != nil {
			return nil, NewLockError(err)
		}
	}

	var backend Backend
	switch kind {
	case KindBadger:
		backend, err = OpenBadger(filepath.Join(opts.Dir, BadgerDirName), false)
	case KindSQLite:
		backend, err = OpenSQLite(filepath.Join(opts.Dir, SQLiteFileName))
	default:
		backend, err = OpenFiles(opts.Dir, minFree)
	}
	if err != nil {
		if lock != nil {
			lock.Release()
		}
		return nil, err
	}

	if lock == nil {
		return backend, nil
	}
	return &lockedBackend{Backend: backend, lock: lock}, nil
}

// lockedBackend releases the directory lock after closing the backend.
type lockedBackend struct {
	Backend
	lock *FileLock
}

func (b *lockedBackend) Close() error {
	err := b.Backend.Close()
	if lerr := b.lock.Release(); err == nil {
		err = lerr
	}
	return err
}
