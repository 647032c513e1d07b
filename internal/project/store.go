// Package project records separation runs: a status per project and the
// per-stem upload results. It stands in for the document store of the
// surrounding system; the separation core itself never touches it.
package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// Status of a project's separation run.
type Status string

const (
	StatusCreated    Status = "created"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrNotFound is returned when a project ID has no record.
var ErrNotFound = errors.New("project not found")

// StemRecord is the stored outcome for one stem. A failed upload keeps
// its Error and leaves URL empty; siblings are unaffected.
type StemRecord struct {
	Name     string `msgpack:"name"`
	Emoji    string `msgpack:"emoji"`
	URL      string `msgpack:"url,omitempty"`
	PublicID string `msgpack:"public_id,omitempty"`
	Format   string `msgpack:"format,omitempty"`
	Bytes    int64  `msgpack:"bytes,omitempty"`
	Error    string `msgpack:"error,omitempty"`
}

// Record is the stored state of one project.
type Record struct {
	ID        string                `msgpack:"id"`
	Status    Status                `msgpack:"status"`
	Error     string                `msgpack:"error,omitempty"`
	Stems     map[string]StemRecord `msgpack:"stems,omitempty"`
	CreatedAt time.Time             `msgpack:"created_at"`
	UpdatedAt time.Time             `msgpack:"updated_at"`
}

// Store persists project records.
type Store interface {
	Save(ctx context.Context, record *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	SetStatus(ctx context.Context, id string, status Status, errorMessage string) error
}

// BadgerStore is a local, embedded Store implementation.
type BadgerStore struct {
	db *badger.DB
}

// Open creates or opens a store rooted at dir.
func Open(dir string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening project store: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func recordKey(id string) []byte {
	return []byte("project/" + id)
}

// Save writes the record, stamping UpdatedAt (and CreatedAt when unset).
func (s *BadgerStore) Save(_ context.Context, record *Record) error {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	record.UpdatedAt = now

	data, err := msgpack.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding project %s: %w", record.ID, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(record.ID), data)
	})
	if err != nil {
		return fmt.Errorf("saving project %s: %w", record.ID, err)
	}

	return nil
}

// Get returns the record for id, or ErrNotFound.
func (s *BadgerStore) Get(_ context.Context, id string) (*Record, error) {
	var record Record

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if err != nil {
			return err
		}

		return item.Value(func(data []byte) error {
			return msgpack.Unmarshal(data, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", id, err)
	}

	return &record, nil
}

// SetStatus updates only the status and error message of an existing
// record, creating it if needed.
func (s *BadgerStore) SetStatus(ctx context.Context, id string, status Status, errorMessage string) error {
	record, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		record = &Record{ID: id}
	} else if err != nil {
		return err
	}

	record.Status = status
	record.Error = errorMessage

	return s.Save(ctx, record)
}
