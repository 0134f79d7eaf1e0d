package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/financebook/financebook/internal/config"
	"github.com/financebook/financebook/internal/model"
	"github.com/financebook/financebook/internal/session"
	"github.com/financebook/financebook/internal/storage"

	"golang.org/x/term"
)

// initStorage opens the configured database, applies pending migrations and
// seeds the default category taxonomy. Seed failures are logged but never
// block startup; an unseeded store is still functional.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := store.SeedDefaultCategories(ctx); err != nil {
		slog.Warn("failed to seed default categories", "error", err)
	}

	return store, nil
}

// requireUser resolves a username to a stored user, erroring when missing.
func requireUser(ctx context.Context, store *storage.SQLiteStorage, username string) (*model.User, error) {
	user, err := store.GetUser(ctx, 0, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no such user: %s", username)
	}
	return user, nil
}

// openSession loads a session for the named user.
func openSession(ctx context.Context, store *storage.SQLiteStorage, username string) (*session.Session, error) {
	user, err := requireUser(ctx, store, username)
	if err != nil {
		return nil, err
	}

	sess := session.New(store)
	if err := sess.SetCurrentUser(ctx, user); err != nil {
		return nil, err
	}
	return sess, nil
}

// readPassword prompts for a password without echoing when stdin is a
// terminal, falling back to a plain line read for pipes and tests.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	defer fmt.Println()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no password provided")
}
