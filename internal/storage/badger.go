package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/model"
)

// BadgerDirName is the badger directory inside the data directory.
const BadgerDirName = "badger"

// seqWidth is the zero-padded width of the sequence part of a key.
const seqWidth = 10

// BadgerBackend stores members and records as JSON values in badger.
// Keys are `prefix:sequence` with a zero-padded sequence, so prefix
// iteration returns rows in insertion order.
type BadgerBackend struct {
	db   *badger.DB
	path string
}

// OpenBadger opens or creates a badger store at path. An empty path or
// inMemory opens a throwaway in-memory store.
func OpenBadger(path string, inMemory bool) (*BadgerBackend, error) {
	var badgerOpts badger.Options

	if inMemory || path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
		path = ""
	} else {
		if err := os.MkdirAll(path, 0700); err != nil {
			return nil, writeError("mkdir", path, err)
		}
		badgerOpts = badger.DefaultOptions(path)
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, errors.NewStorageError("open badger", path, err)
	}

	return &BadgerBackend{db: db, path: path}, nil
}

// Location returns the badger directory, or ":memory:".
func (b *BadgerBackend) Location() string {
	if b.path == "" {
		return ":memory:"
	}
	return b.path
}

// Close closes the database connection.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}

func seqKey(prefix string, seq int) []byte {
	return []byte(fmt.Sprintf("%s:%0*d", prefix, seqWidth, seq))
}

func parseSeq(prefix string, key []byte) (int, bool) {
	rest, ok := strings.CutPrefix(string(key), prefix+":")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}

// LoadMembers returns every member in insertion order.
func (b *BadgerBackend) LoadMembers() ([]model.Member, error) {
	members, err := getAllByPrefix[model.Member](b.db, model.PrefixMember)
	if err != nil {
		return nil, errors.NewStorageError("read members", b.Location(), err)
	}
	return members, nil
}

// AppendMember stores m under the next sequence number.
func (b *BadgerBackend) AppendMember(m model.Member) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errors.NewStorageError("encode member", b.Location(), err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		next, err := nextSeq(txn, model.PrefixMember)
		if err != nil {
			return err
		}
		return txn.Set(seqKey(model.PrefixMember, next), data)
	})
	return errors.NewStorageError("append member", b.Location(), err)
}

// ReplaceMembers rewrites every member key in one transaction.
func (b *BadgerBackend) ReplaceMembers(members []model.Member) error {
	err := replacePrefix(b.db, model.PrefixMember, members)
	return errors.NewStorageError("write members", b.Location(), err)
}

// LoadRecords returns every record in insertion order.
func (b *BadgerBackend) LoadRecords() ([]model.Record, error) {
	records, err := getAllByPrefix[model.Record](b.db, model.PrefixRecord)
	if err != nil {
		return nil, errors.NewStorageError("read records", b.Location(), err)
	}
	return records, nil
}

// ReplaceRecords rewrites every record key in one transaction.
func (b *BadgerBackend) ReplaceRecords(records []model.Record) error {
	err := replacePrefix(b.db, model.PrefixRecord, records)
	return errors.NewStorageError("write records", b.Location(), err)
}

// keysByPrefix returns all keys under prefix without fetching values.
func keysByPrefix(txn *badger.Txn, prefix string) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	prefixBytes := []byte(prefix + ":")
	for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// nextSeq returns one past the highest sequence under prefix.
func nextSeq(txn *badger.Txn, prefix string) (int, error) {
	next := 0
	for _, key := range keysByPrefix(txn, prefix) {
		seq, ok := parseSeq(prefix, key)
		if !ok {
			return 0, fmt.Errorf("malformed key %q", key)
		}
		if seq >= next {
			next = seq + 1
		}
	}
	return next, nil
}

// replacePrefix deletes every key under prefix and writes values as
// sequence 0..n-1, all in one transaction.
func replacePrefix[T any](db *badger.DB, prefix string, values []T) error {
	encoded := make([][]byte, len(values))
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded[i] = data
	}

	return db.Update(func(txn *badger.Txn) error {
		for _, key := range keysByPrefix(txn, prefix) {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for i, data := range encoded {
			if err := txn.Set(seqKey(prefix, i), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// getAllByPrefix decodes all values under prefix in key order.
func getAllByPrefix[T any](db *badger.DB, prefix string) ([]T, error) {
	var results []T
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 100
		it := txn.NewIterator(opts)
		defer it.Close()

		prefixBytes := []byte(prefix + ":")
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var v T
				if err := json.Unmarshal(val, &v); err != nil {
					return fmt.Errorf("decode %s: %w", item.Key(), err)
				}
				results = append(results, v)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return results, err
}
