// ABOUTME: Prospect store owning the in-memory collection
// ABOUTME: Load-or-seed on open, explicit persist after every mutation, flush on close
package tracker

import (
	"errors"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/harperreed/prospector/models"
)

var (
	// ErrNotFound is returned when an operation names an unknown prospect id.
	ErrNotFound = errors.New("prospect not found")

	// ErrInvalid wraps input validation failures.
	ErrInvalid = errors.New("invalid prospect input")
)

// Tracker is the sole mutation path for the prospect collection. Reads return
// copies; writes mutate in memory and then hand the whole collection to the
// Persister.
type Tracker struct {
	mu        sync.RWMutex
	prospects []models.Prospect
	persister Persister
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string

	entropyMu sync.Mutex
	entropy   io.Reader
}

type Option func(*Tracker)

// WithLogger sets the diagnostics logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithClock overrides time.Now for interaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithIDGenerator overrides prospect id generation.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) {
		if gen != nil {
			t.newID = gen
		}
	}
}

// New creates a tracker with an empty collection. Call Load before use.
func New(persister Persister, opts ...Option) *Tracker {
	t := &Tracker{
		persister: persister,
		logger:    zap.NewNop(),
		now:       time.Now,
		entropy:   ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		newID:     newProspectID,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open creates a tracker and loads its collection.
func Open(persister Persister, opts ...Option) *Tracker {
	t := New(persister, opts...)
	t.Load()
	return t
}

// Load replaces the in-memory collection with the persisted one. A missing or
// unreadable copy falls back to the seed dataset; that is not an error.
func (t *Tracker) Load() {
	prospects, err := t.persister.Load()
	if err == nil {
		err = validateCollection(prospects)
	}

	if err != nil {
		if errors.Is(err, ErrNoSavedData) {
			t.logger.Info("no saved prospects, using seed dataset")
		} else {
			t.logger.Info("saved prospects unreadable, using seed dataset", zap.Error(err))
		}
		prospects = SeedProspects()
	}

	t.mu.Lock()
	t.prospects = prospects
	t.mu.Unlock()

	t.logger.Debug("prospects loaded", zap.Int("count", len(prospects)))
}

// Persist writes the whole collection. Failures are logged and returned but
// never retried.
func (t *Tracker) Persist() error {
	t.mu.RLock()
	snapshot := cloneAll(t.prospects)
	t.mu.RUnlock()

	if err := t.persister.Save(snapshot); err != nil {
		t.logger.Warn("failed to persist prospects", zap.Error(err), zap.Int("count", len(snapshot)))
		return err
	}
	return nil
}

// Close flushes the collection and releases the persister.
func (t *Tracker) Close() error {
	flushErr := t.Persist()
	if closer, ok := t.persister.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	return flushErr
}

// Reset discards the collection and restores the seed dataset.
func (t *Tracker) Reset() {
	t.commit(func() { t.prospects = SeedProspects() })
}

// commit runs mutate under the write lock, then persists. Persistence is best
// effort: a failed save leaves the in-memory change in place.
func (t *Tracker) commit(mutate func()) {
	t.mu.Lock()
	mutate()
	t.mu.Unlock()

	_ = t.Persist()
}

func (t *Tracker) interactionID(at time.Time) string {
	t.entropyMu.Lock()
	defer t.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), t.entropy).String()
}

func (t *Tracker) indexOf(id string) int {
	for i := range t.prospects {
		if t.prospects[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(prospects []models.Prospect) []models.Prospect {
	if prospects == nil {
		return nil
	}
	out := make([]models.Prospect, len(prospects))
	for i, p := range prospects {
		out[i] = p.Clone()
	}
	return out
}

func validateCollection(prospects []models.Prospect) error {
	if prospects == nil {
		return errors.New("collection is null")
	}
	seen := make(map[string]bool, len(prospects))
	for _, p := range prospects {
		if p.ID == "" {
			return errors.New("prospect without id")
		}
		if seen[p.ID] {
			return errors.New("duplicate prospect id " + p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
