// Package session holds the authenticated user's working set so the
// presentation layer can read synchronously without re-querying on every
// render.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/financebook/financebook/internal/model"
	"github.com/financebook/financebook/internal/storage"
)

// Store is the repository surface the session depends on.
type Store interface {
	GetCategories(ctx context.Context, activeOnly bool) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	GetAllRecords(ctx context.Context, userID int64) ([]model.Record, error)
	SaveRecord(ctx context.Context, record *model.Record) error
	DeleteRecord(ctx context.Context, recordID int64) error
}

var _ Store = (*storage.SQLiteStorage)(nil)

// Session caches one user's records and the global category list. Mutations
// always go through the repository and, on success, trigger a wholesale
// reload of the cache; the cache itself is never patched in place, so it
// cannot drift from the store.
//
// A Session is created at login and discarded at logout. It is not safe for
// concurrent use; the desktop model is a single synchronous caller.
type Session struct {
	store      Store
	user       *model.User
	records    []model.Record
	categories []model.Category
}

// New creates an empty session over the given store.
func New(store Store) *Session {
	return &Session{store: store}
}

// SetCurrentUser stores the identity and loads the user's working set.
func (s *Session) SetCurrentUser(ctx context.Context, user *model.User) error {
	s.user = user
	return s.LoadUserData(ctx)
}

// CurrentUser returns the active user, or nil when logged out.
func (s *Session) CurrentUser() *model.User {
	return s.user
}

// LoadUserData refetches the global categories and the current user's
// records from the repository, replacing the cached collections wholesale.
func (s *Session) LoadUserData(ctx context.Context) error {
	if s.user == nil {
		return nil
	}

	categories, err := s.store.GetCategories(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	records, err := s.store.GetAllRecords(ctx, s.user.ID)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	s.categories = categories
	s.records = records

	slog.Debug("loaded user data",
		"user_id", s.user.ID,
		"records", len(records),
		"categories", len(categories))
	return nil
}

// Records returns the cached record collection, newest first.
func (s *Session) Records() []model.Record {
	return s.records
}

// Categories returns the cached active category list, name ascending.
func (s *Session) Categories() []model.Category {
	return s.categories
}

// FilteredRecords computes a derived view on demand from the raw cache.
// Filter criteria live with the caller, so a mutation-triggered reload can
// never silently clobber an applied filter; re-invoking with the same
// predicate always reflects the latest persisted data.
func (s *Session) FilteredRecords(keep func(model.Record) bool) []model.Record {
	if keep == nil {
		return append([]model.Record(nil), s.records...)
	}
	filtered := make([]model.Record, 0, len(s.records))
	for _, r := range s.records {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// CategoryByID resolves a category from the cached list first, falling back
// to a direct repository lookup on miss so inactive categories attached to
// historical records still resolve.
func (s *Session) CategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return &s.categories[i], nil
		}
	}
	return s.store.GetCategory(ctx, id)
}

// AddRecord persists a new record and refreshes the working set.
func (s *Session) AddRecord(ctx context.Context, record *model.Record) error {
	if err := s.store.SaveRecord(ctx, record); err != nil {
		return err
	}
	return s.LoadUserData(ctx)
}

// UpdateRecord replaces a persisted record and refreshes the working set.
func (s *Session) UpdateRecord(ctx context.Context, record *model.Record) error {
	if err := s.store.SaveRecord(ctx, record); err != nil {
		return err
	}
	return s.LoadUserData(ctx)
}

// DeleteRecord removes a record and refreshes the working set.
func (s *Session) DeleteRecord(ctx context.Context, recordID int64) error {
	if err := s.store.DeleteRecord(ctx, recordID); err != nil {
		return err
	}
	return s.LoadUserData(ctx)
}

// ClearUserData resets the session on logout.
func (s *Session) ClearUserData() {
	s.user = nil
	s.records = nil
	s.categories = nil
}
