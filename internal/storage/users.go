package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/financebook/financebook/internal/common"
	"github.com/financebook/financebook/internal/model"
)

// SaveUser inserts a new user and assigns the generated id. A username or
// email already in use returns common.ErrDuplicateEntry, an expected
// recoverable condition rather than a fault.
func (s *SQLiteStorage) SaveUser(ctx context.Context, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, email)
		VALUES (?, ?, ?)`,
		user.Username, user.PasswordHash, user.Email,
	)
	if err != nil {
		err = translateError(err)
		slog.Warn("failed to save user", "username", user.Username, "error", err)
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user ID: %w", err)
	}
	user.ID = id

	slog.Info("created user", "username", user.Username, "id", id)
	return nil
}

// GetUser looks a user up by id when id > 0, otherwise by username when one
// is given. With neither lookup key it returns (nil, nil) without touching
// the database, as does a lookup that matches no row.
func (s *SQLiteStorage) GetUser(ctx context.Context, id int64, username string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var rows []model.Row
	var err error
	switch {
	case id > 0:
		rows, err = s.Query(ctx, `SELECT * FROM users WHERE id = ?`, id)
	case username != "":
		rows, err = s.Query(ctx, `SELECT * FROM users WHERE username = ?`, username)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	user := model.DecodeUser(rows[0])
	return &user, nil
}

// UpdateUserLogin stamps the user's last_login with the current time.
func (s *SQLiteStorage) UpdateUserLogin(ctx context.Context, userID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`,
		time.Now().Format(timestampLayout), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %d", common.ErrNotFound, userID)
	}

	return nil
}
