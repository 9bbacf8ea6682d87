// Package store owns the live ledger: it serializes dispatches, keeps the
// in-memory state authoritative and writes it through to storage.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/persist"
	"github.com/cleared-dev/tally/internal/reducer"
	"github.com/cleared-dev/tally/internal/storage"
)

// Event describes one dispatch. Err is the rejection reason, nil when the
// action was accepted.
type Event struct {
	Time   time.Time
	Action string
	Err    error
}

// Store is safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	storage    storage.Storage
	state      model.State
	env        reducer.Env
	base       *slog.Logger
	logger     *slog.Logger
	persistLog *slog.Logger
	storageLog *slog.Logger
	hooks      []func(Event)
}

// Option configures a Store.
type Option func(*Store)

// WithEnv replaces the clock, id source and color allocator.
func WithEnv(env reducer.Env) Option {
	return func(s *Store) { s.env = env }
}

// WithLogger sets the logger the store tags with its components. The
// default is the slog default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.base = l }
}

// OnDispatch registers fn to run after every dispatch, outside the lock.
func OnDispatch(fn func(Event)) Option {
	return func(s *Store) { s.hooks = append(s.hooks, fn) }
}

// Open loads the ledger from st. A missing blob starts fresh; a corrupt or
// unreadable one is logged and replaced by a fresh ledger. If setup was
// never completed but a wizard record exists, setup is completed from it.
func Open(ctx context.Context, st storage.Storage, opts ...Option) *Store {
	s := &Store{storage: st, env: reducer.DefaultEnv()}
	for _, opt := range opts {
		opt(s)
	}
	if s.base == nil {
		s.base = slog.Default()
	}
	s.logger = s.base.With("component", logging.ComponentStore)
	s.persistLog = s.base.With("component", logging.ComponentPersist)
	s.storageLog = s.base.With("component", logging.ComponentStorage)

	state, err := persist.Load(ctx, st, s.today())
	switch {
	case errors.Is(err, persist.ErrCorruptState):
		s.persistLog.Warn("discarding corrupt state", "error", err)
	case err != nil:
		s.persistLog.Error("loading state", "error", err)
	}
	s.state = state

	if !s.state.UI.IsSetupComplete {
		s.recoverSetup(ctx)
	}
	return s
}

func (s *Store) recoverSetup(ctx context.Context) {
	rec, ok, err := persist.LoadSetup(ctx, s.storage)
	if err != nil {
		s.persistLog.Warn("reading setup record", "error", err)
		return
	}
	if !ok {
		return
	}
	next, err := reducer.Apply(s.state, s.env, rec.Action())
	if err != nil {
		s.logger.Warn("completing setup from record", "error", err)
		return
	}
	s.state = next
	s.logger.Info("completed setup from saved record")
	s.save(ctx)
}

func (s *Store) today() model.Date {
	if s.env.Now == nil {
		return model.DateOf(time.Now())
	}
	return model.DateOf(s.env.Now())
}

// Now is the store's clock.
func (s *Store) Now() time.Time {
	if s.env.Now == nil {
		return time.Now()
	}
	return s.env.Now()
}

// State returns a deep copy of the current ledger.
func (s *Store) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies a. A rejected action leaves the state untouched and its
// reason is returned. An accepted action is followed by exactly one save;
// a failed save is logged and the in-memory state stays authoritative.
func (s *Store) Dispatch(ctx context.Context, a reducer.Action) error {
	s.mu.Lock()
	next, err := reducer.Apply(s.state, s.env, a)
	if err != nil {
		s.logger.Debug("action rejected", "action", a.Kind(), "error", err)
	} else {
		if c, ok := a.(reducer.StorageClearer); ok && c.ClearsStorage() {
			if err := persist.Clear(ctx, s.storage); err != nil {
				s.persistLog.Warn("clearing storage", "action", a.Kind(), "error", err)
			}
		}
		s.state = next
		s.save(ctx)
	}
	hooks := s.hooks
	s.mu.Unlock()

	ev := Event{Time: s.Now(), Action: a.Kind(), Err: err}
	for _, h := range hooks {
		h(ev)
	}
	return err
}

// DispatchAll dispatches actions in order and stops at the first rejection.
func (s *Store) DispatchAll(ctx context.Context, actions ...reducer.Action) error {
	for _, a := range actions {
		if err := s.Dispatch(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// SaveSetup records the wizard output next to the ledger.
func (s *Store) SaveSetup(ctx context.Context, rec persist.SetupRecord) error {
	return persist.SaveSetup(ctx, s.storage, rec)
}

// Close releases the storage backend.
func (s *Store) Close() error {
	if err := s.storage.Close(); err != nil {
		s.storageLog.Error("closing backend", "error", err)
		return err
	}
	return nil
}

func (s *Store) save(ctx context.Context) {
	if err := persist.Save(ctx, s.storage, s.state); err != nil {
		s.persistLog.Warn("saving state", "error", err)
	}
}
