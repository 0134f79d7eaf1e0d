package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/financebook/financebook/internal/model"
)

// SeedDefaultCategories inserts the default taxonomy into an empty
// categories table. It runs in two passes: top-level categories first, then
// children resolving their parent by name, so seeding never depends on
// insertion order. A non-empty table makes this a no-op.
//
// Seed data is non-critical; callers are expected to log a failure and
// continue rather than abort startup.
func (s *SQLiteStorage) SeedDefaultCategories(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	parentIDs := make(map[string]int64)

	// First pass: top-level categories.
	for _, cat := range model.DefaultCategories {
		if cat.Parent != "" {
			continue
		}
		result, execErr := tx.ExecContext(ctx,
			`INSERT INTO categories (name, parent_id, is_active) VALUES (?, NULL, 1)`,
			cat.Name,
		)
		if execErr != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat.Name, execErr)
		}
		id, idErr := result.LastInsertId()
		if idErr != nil {
			return fmt.Errorf("failed to get seeded category ID: %w", idErr)
		}
		parentIDs[cat.Name] = id
	}

	// Second pass: children, resolving parents by name.
	for _, cat := range model.DefaultCategories {
		if cat.Parent == "" {
			continue
		}
		parentID, ok := parentIDs[cat.Parent]
		if !ok {
			return fmt.Errorf("seed category %q references unknown parent %q", cat.Name, cat.Parent)
		}
		if _, execErr := tx.ExecContext(ctx,
			`INSERT INTO categories (name, parent_id, is_active) VALUES (?, ?, 1)`,
			cat.Name, parentID,
		); execErr != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat.Name, execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	slog.Info("seeded default categories", "count", len(model.DefaultCategories))
	return nil
}
