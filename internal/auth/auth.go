// Package auth implements registration and login on top of the repository.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/financebook/financebook/internal/common"
	"github.com/financebook/financebook/internal/model"
	"github.com/financebook/financebook/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt with the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Store is the repository surface the auth service depends on.
type Store interface {
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id int64, username string) (*model.User, error)
	UpdateUserLogin(ctx context.Context, userID int64) error
}

var _ Store = (*storage.SQLiteStorage)(nil)

// Service wires credential handling to user persistence.
type Service struct {
	store Store
}

// NewService creates an auth service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates a new account. A username or email already in use is an
// expected condition surfaced as common.ErrDuplicateEntry inside a
// user-facing error.
func (s *Service) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are all required", common.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email address looks malformed", common.ErrValidation)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			return nil, common.NewUserError("username or email already registered", err)
		}
		return nil, err
	}

	slog.Info("registered user", "username", username, "id", user.ID)
	return user, nil
}

// Login authenticates a user and stamps last_login on success. A missing
// user and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, 0, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	if err := s.store.UpdateUserLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the stamp is an audit nicety.
		slog.Warn("failed to stamp last login", "user_id", user.ID, "error", err)
	} else {
		now := time.Now()
		user.LastLogin = &now
	}

	slog.Info("user logged in", "username", username, "id", user.ID)
	return user, nil
}
