// Package ledger provides role-scoped reads and validated mutations over
// the dataset held by the persistent store. The repository is the only
// component allowed to mutate the dataset; every mutation persists the
// whole snapshot before returning, so the durable state always reflects
// the last completed call.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"worktracker/internal/core"
	"worktracker/internal/store"
)

// EventPublisher receives best-effort notifications after a mutation has
// been persisted. Publish failures never affect the local state.
type EventPublisher interface {
	PublishEntryUpsert(ctx context.Context, id int64) error
	PublishEntryDelete(ctx context.Context, id int64) error
}

// Repository owns the in-memory dataset exclusively.
type Repository struct {
	mu     sync.Mutex
	store  store.Store
	data   *core.Dataset
	events EventPublisher
	now    func() time.Time
	lastID int64
}

type Option func(*Repository)

// WithPublisher attaches an event publisher for entry sync.
func WithPublisher(p EventPublisher) Option {
	return func(r *Repository) { r.events = p }
}

// WithClock overrides the id-generation clock.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// New loads the snapshot from the store, seeding it when the snapshot is
// absent or corrupt. Both conditions are recovered here; only real I/O
// failures propagate.
func New(ctx context.Context, st store.Store, opts ...Option) (*Repository, error) {
	r := &Repository{store: st, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	data, err := st.Load(ctx)
	switch {
	case err == nil:
		r.data = data
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrCorruptSnapshot):
		slog.InfoContext(ctx, "No usable snapshot, seeding dataset", "reason", err)
		r.data = store.Seed()
		if err := st.Save(ctx, r.data); err != nil {
			return nil, fmt.Errorf("persist seed dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	for _, e := range r.data.Entries {
		if e.ID > r.lastID {
			r.lastID = e.ID
		}
	}
	return r, nil
}

// Entries returns the entries visible to the actor. Admins see everything,
// middlemen see entries they broker, users see their own. An unrecognized
// role sees nothing rather than failing.
func (r *Repository) Entries(actor core.User) []core.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]core.Entry, 0, len(r.data.Entries))
	for _, e := range r.data.Entries {
		switch actor.Role {
		case core.RoleAdmin:
			out = append(out, e)
		case core.RoleMiddleman:
			if e.MiddlemanID == actor.ID {
				out = append(out, e)
			}
		case core.RoleUser:
			if e.UserID == actor.ID {
				out = append(out, e)
			}
		}
	}
	return out
}

// Summary aggregates the entries visible to the actor.
func (r *Repository) Summary(actor core.User) core.Summary {
	return core.Summarize(r.Entries(actor))
}

// SaveEntry upserts an entry. A set id that matches an existing record
// replaces it in place; anything else gets a fresh unique id and is
// appended. The snapshot is persisted before the call returns.
func (r *Repository) SaveEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	r.mu.Lock()
	if _, ok := r.data.UserByID(e.UserID); !ok {
		r.mu.Unlock()
		return core.Entry{}, fmt.Errorf("%w: userId %d", core.ErrUnknownUser, e.UserID)
	}
	if e.MiddlemanID != 0 {
		if _, ok := r.data.UserByID(e.MiddlemanID); !ok {
			r.mu.Unlock()
			return core.Entry{}, fmt.Errorf("%w: middlemanId %d", core.ErrUnknownUser, e.MiddlemanID)
		}
	}

	updated := false
	if e.ID != 0 {
		for i := range r.data.Entries {
			if r.data.Entries[i].ID == e.ID {
				r.data.Entries[i] = e
				updated = true
				break
			}
		}
	}
	if !updated {
		e.ID = r.nextIDLocked()
		r.data.Entries = append(r.data.Entries, e)
	}

	if err := r.persistLocked(ctx); err != nil {
		r.mu.Unlock()
		return core.Entry{}, err
	}
	r.mu.Unlock()

	slog.InfoContext(ctx, "Entry saved",
		"id", e.ID,
		"title", e.Title,
		"updated", updated,
		"amount_agreed_cents", e.AmountAgreed,
		"amount_received_cents", e.AmountReceived)

	if r.events != nil {
		if err := r.events.PublishEntryUpsert(ctx, e.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish entry upsert", "id", e.ID, "error", err)
		}
	}
	return e, nil
}

// DeleteEntry removes the entry with the given id. Deleting an id that is
// not present is a no-op, not an error; the snapshot persists either way.
func (r *Repository) DeleteEntry(ctx context.Context, id int64) error {
	r.mu.Lock()
	removed := false
	kept := r.data.Entries[:0]
	for _, e := range r.data.Entries {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	r.data.Entries = kept

	if err := r.persistLocked(ctx); err != nil {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	slog.InfoContext(ctx, "Entry deleted", "id", id, "removed", removed)

	if removed && r.events != nil {
		if err := r.events.PublishEntryDelete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish entry delete", "id", id, "error", err)
		}
	}
	return nil
}

// Entry returns a single entry by id.
func (r *Repository) Entry(id int64) (core.Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.data.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return core.Entry{}, false
}

// Users returns all users through the public projection. No secret field
// can pass this point.
func (r *Repository) Users() []core.PublicUser {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]core.PublicUser, 0, len(r.data.Users))
	for _, u := range r.data.Users {
		out = append(out, u.Public())
	}
	return out
}

// FindByEmail returns the internal user record for the login key. Only the
// auth orchestrator may call this; everything outward goes through Users.
func (r *Repository) FindByEmail(email string) (core.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data.UserByEmail(email)
}

// Reset discards the dataset, reloads the seed and persists it.
func (r *Repository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = store.Seed()
	r.lastID = 0
	for _, e := range r.data.Entries {
		if e.ID > r.lastID {
			r.lastID = e.ID
		}
	}
	if err := r.persistLocked(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Dataset reset to seed")
	return nil
}

// nextIDLocked issues a unique entry id from the millisecond clock,
// bumping past the last issued id so rapid successive creates within the
// same instant never collide.
func (r *Repository) nextIDLocked() int64 {
	id := r.now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

func (r *Repository) persistLocked(ctx context.Context) error {
	if err := r.store.Save(ctx, r.data); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}
