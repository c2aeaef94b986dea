// Package journal holds the entry store: the ordered collection of journal
// entries, the mutations applied to it and the views derived from it.
//
// The whole collection is kept under a single storage key and rewritten
// after every mutation. The reflection call is the only blocking step and
// runs without the store lock held.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/storage"
)

// Reflector produces the reflection for an entry's text.
type Reflector interface {
	Reflect(ctx context.Context, prompt string) (string, error)
}

// PersistenceError wraps a storage failure. The store logs and absorbs it
// on writes; Load returns it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is the entry store. It is safe for concurrent use.
type Store struct {
	kv        storage.KV
	reflector Reflector
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string

	mu      sync.Mutex
	entries []domain.Entry
	// degraded is set when the persisted collection could not be read;
	// from then on nothing is written so the stored data is left intact.
	degraded bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty store backed by kv. Call Load to read the
// persisted collection.
func New(kv storage.KV, r Reflector, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		reflector: r,
		logger:    zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
		entries:   []domain.Entry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A missing
// key is an empty journal. On a read or decode failure the store starts
// empty, stops persisting for the rest of the session and returns a
// *PersistenceError.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.kv.Get(storage.KeyEntries)
	if errors.Is(err, storage.ErrNotExist) {
		s.entries = []domain.Entry{}
		return nil
	}
	if err != nil {
		return s.degrade("load", err)
	}

	var entries []domain.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return s.degrade("decode", err)
	}

	seen := make(map[string]bool, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.ID == "" || seen[e.ID] {
			e.ID = s.newID()
		}
		seen[e.ID] = true
		if e.Tags == nil {
			e.Tags = []string{}
		}
	}
	s.entries = entries

	s.logger.Debug("entries loaded", zap.Int("count", len(entries)))
	return nil
}

func (s *Store) degrade(op string, err error) error {
	s.entries = []domain.Entry{}
	s.degraded = true
	perr := &PersistenceError{Op: op, Err: err}
	s.logger.Warn("persisted entries unreadable, continuing without persistence", zap.Error(perr))
	return perr
}

// Degraded reports whether persistence is switched off for this session.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// persist writes the full collection. Callers hold s.mu. Failures are
// logged and otherwise ignored: the in-memory state stays authoritative.
func (s *Store) persist() {
	if s.degraded {
		return
	}
	data, err := json.Marshal(s.entries)
	if err != nil {
		s.logger.Error("encode entries", zap.Error(&PersistenceError{Op: "encode", Err: err}))
		return
	}
	if err := s.kv.Set(storage.KeyEntries, data); err != nil {
		s.logger.Error("save entries", zap.Error(&PersistenceError{Op: "save", Err: err}))
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.entries, func(e domain.Entry) bool { return e.ID == id })
}

// Create asks the reflector for a reflection on prompt and, on success,
// prepends a new entry. On failure nothing is added and the reflector's
// error is returned.
func (s *Store) Create(ctx context.Context, prompt string) (domain.Entry, error) {
	if strings.TrimSpace(prompt) == "" {
		return domain.Entry{}, domain.ErrEmptyPrompt
	}

	response, err := s.reflector.Reflect(ctx, prompt)
	if err != nil {
		return domain.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.Entry{
		ID:        s.newID(),
		Prompt:    prompt,
		Response:  response,
		CreatedAt: s.now(),
		IsPinned:  false,
		Tags:      []string{},
	}
	s.entries = slices.Insert(s.entries, 0, entry)
	s.persist()

	return entry.Clone(), nil
}

// Edit replaces the prompt of entry id, regenerating its reflection and
// resetting its timestamp. Pin state and tags are preserved.
func (s *Store) Edit(ctx context.Context, id, prompt string) (domain.Entry, error) {
	if strings.TrimSpace(prompt) == "" {
		return domain.Entry{}, domain.ErrEmptyPrompt
	}

	s.mu.Lock()
	exists := s.indexOf(id) >= 0
	s.mu.Unlock()
	if !exists {
		return domain.Entry{}, domain.ErrNotFound
	}

	response, err := s.reflector.Reflect(ctx, prompt)
	if err != nil {
		return domain.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The entry may have been deleted while the reflection was in flight.
	i := s.indexOf(id)
	if i < 0 {
		return domain.Entry{}, domain.ErrNotFound
	}
	e := &s.entries[i]
	e.Prompt = prompt
	e.Response = response
	e.CreatedAt = s.now()
	s.persist()

	return e.Clone(), nil
}

// Delete removes entry id and persists immediately. It reports whether an
// entry was removed; deleting an unknown id is a no-op.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	s.persist()
	return true
}

// update applies fn to entry id under the lock and persists.
func (s *Store) update(id string, fn func(e *domain.Entry) bool) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Entry{}, domain.ErrNotFound
	}
	e := &s.entries[i]
	if fn(e) {
		s.persist()
	}
	return e.Clone(), nil
}

// TogglePin flips the pinned flag of entry id.
func (s *Store) TogglePin(id string) (domain.Entry, error) {
	return s.update(id, func(e *domain.Entry) bool {
		e.IsPinned = !e.IsPinned
		return true
	})
}

// AddTag adds the trimmed tag to entry id. Blank tags and tags already
// present leave the entry unchanged.
func (s *Store) AddTag(id, tag string) (domain.Entry, error) {
	tag = strings.TrimSpace(tag)
	return s.update(id, func(e *domain.Entry) bool {
		if tag == "" || e.HasTag(tag) {
			return false
		}
		e.Tags = append(e.Tags, tag)
		return true
	})
}

// RemoveTag removes every occurrence of tag from entry id.
func (s *Store) RemoveTag(id, tag string) (domain.Entry, error) {
	return s.update(id, func(e *domain.Entry) bool {
		before := len(e.Tags)
		e.Tags = slices.DeleteFunc(e.Tags, func(t string) bool { return t == tag })
		return len(e.Tags) != before
	})
}

// Get returns a copy of entry id.
func (s *Store) Get(id string) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Entry{}, domain.ErrNotFound
	}
	return s.entries[i].Clone(), nil
}

// Resolve expands an id prefix to the full id of the single entry it
// matches. An exact match always wins.
func (s *Store) Resolve(prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", domain.ErrNotFound
	}

	var found []string
	for _, e := range s.entries {
		if e.ID == prefix {
			return e.ID, nil
		}
		if strings.HasPrefix(e.ID, prefix) {
			found = append(found, e.ID)
		}
	}

	switch len(found) {
	case 0:
		return "", domain.ErrNotFound
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d entries", domain.ErrAmbiguousID, prefix, len(found))
	}
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
