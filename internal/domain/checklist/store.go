package checklist

import (
	"context"
	"log/slog"
	"time"
)

// Store persists the state blob as one atomic value.
type Store interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, data []byte) error
}

// Repository converts between the persisted blob and State.
type Repository struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewRepository wraps a blob store.
func NewRepository(store Store, logger *slog.Logger, now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	return &Repository{store: store, logger: logger.With("component", "checklist.repository"), now: now}
}

// Load returns the persisted state, migrated to the current schema. Missing
// or unreadable data yields the default state; found reports whether a
// persisted state was used.
func (r *Repository) Load(ctx context.Context) (st State, found bool) {
	raw, ok, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Warn("state load failed, using defaults", "error", err)
		return DefaultState(r.now()), false
	}
	if !ok || len(raw) == 0 {
		return DefaultState(r.now()), false
	}
	st, err = Migrate(raw, r.now())
	if err != nil {
		r.logger.Warn("persisted state unreadable, using defaults", "error", err)
		return st, false
	}
	r.logger.Debug("state loaded", "marks", len(st.Marks), "schema", describeVersion(st.Meta.Version))
	return st, true
}

// Save writes the state.
func (r *Repository) Save(ctx context.Context, st State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, data)
}
