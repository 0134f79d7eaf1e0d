package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/financebook/financebook/internal/model"
)

// SaveCategory inserts the category when it has no id yet, otherwise fully
// replaces the stored row. Re-saving the same state is a visible no-op.
func (s *SQLiteStorage) SaveCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	row, err := model.EncodeCategory(category)
	if err != nil {
		return err
	}

	if category.ID == 0 {
		result, execErr := s.db.ExecContext(ctx, `
			INSERT INTO categories (name, parent_id, is_active)
			VALUES (?, ?, ?)`,
			row["name"], row["parent_id"], row["is_active"],
		)
		if execErr != nil {
			execErr = translateError(execErr)
			slog.Warn("failed to insert category", "name", category.Name, "error", execErr)
			return execErr
		}

		id, idErr := result.LastInsertId()
		if idErr != nil {
			return fmt.Errorf("failed to get category ID: %w", idErr)
		}
		category.ID = id

		slog.Info("created category", "name", category.Name, "id", id)
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, parent_id = ?, is_active = ?
		WHERE id = ?`,
		row["name"], row["parent_id"], row["is_active"], category.ID,
	)
	if err != nil {
		err = translateError(err)
		slog.Warn("failed to update category", "id", category.ID, "error", err)
		return err
	}

	return nil
}

// GetCategories returns categories ordered by name ascending. With
// activeOnly set, soft-disabled categories are filtered out.
func (s *SQLiteStorage) GetCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT * FROM categories`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	categories := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, model.DecodeCategory(row))
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategory returns a single category by id, including inactive ones so
// historical records keep resolving their labels. Missing returns (nil, nil).
func (s *SQLiteStorage) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.Query(ctx, `SELECT * FROM categories WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	category := model.DecodeCategory(rows[0])
	return &category, nil
}
