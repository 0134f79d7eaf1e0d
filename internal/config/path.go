// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultDatabaseFile is the store created next to the working directory
// when no database path is configured.
const DefaultDatabaseFile = "finance_book.db"

// DefaultExportDir receives exported JSON/CSV files.
const DefaultExportDir = "FinanceBookExports"

// DatabasePath resolves the configured database path, falling back to the
// default file, with ~ and environment variables expanded.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = DefaultDatabaseFile
	}
	return ExpandPath(path)
}

// ExportDir resolves the configured export directory.
func ExportDir() string {
	dir := viper.GetString("export.dir")
	if dir == "" {
		dir = DefaultExportDir
	}
	return ExpandPath(dir)
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
