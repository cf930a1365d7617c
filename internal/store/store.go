// Package store implements the local document store backing the record
// collections: whole JSON arrays keyed by collection name, rewritten on
// every mutation. It is the durable source of truth; the Postgres mirror
// is derived from it.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	CollectionMentors = "mentors"
	CollectionInterns = "interns"
	CollectionGallery = "gallery"

	// SchemaVersion gates initialization: a stored version that differs
	// (or is absent) triggers seeding of missing collections.
	SchemaVersion = "1.0.0"
)

// ErrNotFound signals a lookup miss inside a collection.
var ErrNotFound = errors.New("record not found")

// Collections lists every collection the store manages.
func Collections() []string {
	return []string{CollectionMentors, CollectionInterns, CollectionGallery}
}

// Event describes a committed write.
type Event struct {
	Collection string
}

// Subscriber receives change events after every successful write.
type Subscriber func(Event)

// Store serializes read-modify-write cycles over the collection files.
type Store struct {
	dir    string
	prefix string
	logger *zap.Logger

	mu sync.RWMutex

	subMu sync.RWMutex
	subs  []Subscriber
}

// Open prepares the data directory and returns a store handle. Call
// Migrate before serving traffic.
func Open(dir, prefix string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		dir = "./data"
	}
	if prefix == "" {
		prefix = "pln"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{dir: dir, prefix: prefix, logger: logger}, nil
}

// Subscribe registers a change listener. Subscribers are invoked
// synchronously after the write lock is released and must not block.
func (s *Store) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

// Migrate applies the one-way version gate: when the stored version tag is
// absent or stale, missing collections are seeded and the current version
// stamped. Existing collection files are never overwritten.
func (s *Store) Migrate(seed *SeedData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.readKey(s.versionPath())
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if strings.TrimSpace(string(stored)) == SchemaVersion {
		return nil
	}

	s.logger.Info("initializing store", zap.String("version", SchemaVersion))

	for _, collection := range Collections() {
		path := s.collectionPath(collection)
		if _, statErr := os.Stat(path); statErr == nil {
			continue
		} else if !os.IsNotExist(statErr) {
			return fmt.Errorf("stat collection %s: %w", collection, statErr)
		}
		payload := []byte("[]")
		if seed != nil {
			raw, marshalErr := seed.collection(collection)
			if marshalErr != nil {
				return fmt.Errorf("encode seed %s: %w", collection, marshalErr)
			}
			payload = raw
		}
		if err := s.writeFileAtomic(path, payload); err != nil {
			return fmt.Errorf("seed collection %s: %w", collection, err)
		}
	}

	if err := s.writeFileAtomic(s.versionPath(), []byte(SchemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	if err := s.touchSyncLocked(); err != nil {
		return err
	}
	return nil
}

// Version returns the stored schema version tag, empty when uninitialized.
func (s *Store) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, err := s.readKey(s.versionPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// Read returns the raw serialized collection. An absent file yields nil,
// which decodes as an empty collection.
func (s *Store) Read(collection string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readKey(s.collectionPath(collection))
}

// Update runs fn against the current serialized collection under the write
// lock and persists its result atomically. fn receives nil when the
// collection file does not exist yet.
func (s *Store) Update(collection string, fn func(raw []byte) ([]byte, error)) error {
	s.mu.Lock()
	raw, err := s.readKey(s.collectionPath(collection))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next, err := fn(raw)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.writeFileAtomic(s.collectionPath(collection), next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	if syncErr := s.maybeTouchSyncLocked(collection); syncErr != nil {
		s.logger.Warn("failed to stamp sync timestamp", zap.Error(syncErr))
	}
	s.mu.Unlock()

	s.publish(Event{Collection: collection})
	return nil
}

// UpdateMany runs fn against several collections under one write lock.
// Used for cascades and wholesale imports, so a caller never observes a
// half-applied mutation from another request.
func (s *Store) UpdateMany(collections []string, fn func(raw map[string][]byte) (map[string][]byte, error)) error {
	s.mu.Lock()
	current := make(map[string][]byte, len(collections))
	for _, collection := range collections {
		raw, err := s.readKey(s.collectionPath(collection))
		if err != nil {
			s.mu.Unlock()
			return err
		}
		current[collection] = raw
	}
	next, err := fn(current)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	written := make([]string, 0, len(next))
	for collection, raw := range next {
		if err := s.writeFileAtomic(s.collectionPath(collection), raw); err != nil {
			s.mu.Unlock()
			// A crash or error here can leave earlier collections written
			// and later ones stale; acceptable for this reliability tier.
			return fmt.Errorf("write collection %s: %w", collection, err)
		}
		written = append(written, collection)
	}
	for _, collection := range written {
		if syncErr := s.maybeTouchSyncLocked(collection); syncErr != nil {
			s.logger.Warn("failed to stamp sync timestamp", zap.Error(syncErr))
			break
		}
	}
	s.mu.Unlock()

	for _, collection := range written {
		s.publish(Event{Collection: collection})
	}
	return nil
}

// LastSync returns the timestamp of the last successful mentor or intern
// collection write. Zero when never written.
func (s *Store) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, err := s.readKey(s.syncPath())
	if err != nil || len(raw) == 0 {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Clear removes every collection file plus the version and sync keys.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := []string{s.versionPath(), s.syncPath()}
	for _, collection := range Collections() {
		paths = append(paths, s.collectionPath(collection))
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// DecodeList unmarshals a raw collection into dest, treating absent data
// as an empty list.
func DecodeList(raw []byte, dest interface{}) error {
	if len(raw) == 0 {
		raw = []byte("[]")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode collection: %w", err)
	}
	return nil
}

// EncodeList marshals a record slice for persistence.
func EncodeList(records interface{}) ([]byte, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return raw, nil
}

func (s *Store) publish(ev Event) {
	s.subMu.RLock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func (s *Store) maybeTouchSyncLocked(collection string) error {
	if collection != CollectionMentors && collection != CollectionInterns {
		return nil
	}
	return s.touchSyncLocked()
}

func (s *Store) touchSyncLocked() error {
	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.writeFileAtomic(s.syncPath(), []byte(stamp)); err != nil {
		return fmt.Errorf("stamp sync timestamp: %w", err)
	}
	return nil
}

func (s *Store) readKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return raw, nil
}

func (s *Store) writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *Store) collectionPath(collection string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", s.prefix, collection))
}

func (s *Store) versionPath() string {
	return filepath.Join(s.dir, s.prefix+"_db_version")
}

func (s *Store) syncPath() string {
	return filepath.Join(s.dir, s.prefix+"_sync_timestamp")
}
