// Package export serializes the session's working set to local files. It is
// a read-only consumer of the session cache; it never mutates the store.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/financebook/financebook/internal/common"
	"github.com/financebook/financebook/internal/session"
)

// Exporter writes the current session's records and categories to files
// under a dedicated export directory.
type Exporter struct {
	session *session.Session
	dir     string
}

// New creates an exporter writing into dir, creating it if needed.
func New(sess *session.Session, dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Exporter{session: sess, dir: dir}, nil
}

type exportUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	ID       int64  `json:"id"`
}

type exportCategory struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

type exportRecord struct {
	Date         string  `json:"date"`
	Type         string  `json:"record_type"`
	Note         string  `json:"note,omitempty"`
	CategoryName string  `json:"category_name"`
	Amount       float64 `json:"amount"`
	ID           int64   `json:"id"`
	CategoryID   int64   `json:"category_id"`
}

type exportDocument struct {
	ExportTime string           `json:"export_time"`
	User       exportUser       `json:"user"`
	Categories []exportCategory `json:"categories"`
	Records    []exportRecord   `json:"records"`
}

// ExportJSON writes the working set as a JSON document and returns the file
// path. An empty filename gets a timestamped default.
func (e *Exporter) ExportJSON(ctx context.Context, filename string) (string, error) {
	doc, err := e.buildDocument(ctx)
	if err != nil {
		return "", err
	}

	path := e.resolvePath(filename, ".json")
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	slog.Info("exported records", "format", "json", "path", path, "records", len(doc.Records))
	return path, nil
}

// ExportCSV writes the working set as a CSV table and returns the file path.
func (e *Exporter) ExportCSV(ctx context.Context, filename string) (string, error) {
	doc, err := e.buildDocument(ctx)
	if err != nil {
		return "", err
	}

	path := e.resolvePath(filename, ".csv")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "date", "record_type", "amount", "category", "note"}); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range doc.Records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Date,
			r.Type,
			strconv.FormatFloat(r.Amount, 'f', 2, 64),
			r.CategoryName,
			r.Note,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}

	slog.Info("exported records", "format", "csv", "path", path, "records", len(doc.Records))
	return path, nil
}

func (e *Exporter) buildDocument(ctx context.Context) (*exportDocument, error) {
	user := e.session.CurrentUser()
	if user == nil {
		return nil, fmt.Errorf("%w: no user logged in", common.ErrValidation)
	}

	doc := &exportDocument{
		ExportTime: time.Now().Format(time.RFC3339),
		User: exportUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	}

	for _, cat := range e.session.Categories() {
		doc.Categories = append(doc.Categories, exportCategory{ID: cat.ID, Name: cat.Name})
	}

	for _, rec := range e.session.Records() {
		name := "unknown"
		if cat, err := e.session.CategoryByID(ctx, rec.CategoryID); err == nil && cat != nil {
			name = cat.Name
		}
		doc.Records = append(doc.Records, exportRecord{
			ID:           rec.ID,
			Amount:       rec.Amount,
			Date:         rec.Date.Format("2006-01-02 15:04:05"),
			Type:         string(rec.Type),
			Note:         rec.Note,
			CategoryID:   rec.CategoryID,
			CategoryName: name,
		})
	}

	return doc, nil
}

func (e *Exporter) resolvePath(filename, ext string) string {
	if filename == "" {
		filename = "finance_data_" + time.Now().Format("20060102_150405") + ext
	} else if !strings.HasSuffix(filename, ext) {
		filename += ext
	}
	return filepath.Join(e.dir, filepath.Base(filename))
}
