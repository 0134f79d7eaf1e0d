package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/financebook/financebook/internal/common"
	"github.com/financebook/financebook/internal/model"
)

// timestampLayout is the canonical text form for timestamps in the store.
// Keeping dates as plain local timestamps makes the widened date-range
// comparison in GetRecords an exact lexicographic match.
const timestampLayout = "2006-01-02 15:04:05"

// dateOnlyLen is the length of a date-only bound ("2006-01-02") that gets
// widened to a full-day range.
const dateOnlyLen = 10

// Dynamic ORDER BY allowlist. This is the injection defense for the one
// clause that cannot be bound as a query parameter; any requested column or
// direction outside these sets falls back to date DESC.
var (
	allowedOrderColumns = map[string]bool{
		"date":        true,
		"amount":      true,
		"record_type": true,
		"created_at":  true,
		"updated_at":  true,
	}
	allowedOrderDirections = map[string]bool{
		"ASC":  true,
		"DESC": true,
	}
)

// RecordQuery carries the optional filters for GetRecords.
type RecordQuery struct {
	// StartDate and EndDate bound the record date, inclusive. Both must be
	// set for the range to apply; a lone bound is ignored. Date-only values
	// ("2006-01-02") are widened to cover the whole day.
	StartDate string
	EndDate   string
	// OrderBy is a "column direction" request checked against the allowlist.
	OrderBy string
	// Limit caps the result set when positive.
	Limit int
}

// parseOrderBy resolves an order_by request against the allowlist. A single
// token is treated as a column with DESC direction. Anything malformed or
// outside the allowlist silently falls back to date DESC.
func parseOrderBy(orderBy string) (column, direction string) {
	column, direction = "date", "DESC"

	parts := strings.Fields(orderBy)
	switch len(parts) {
	case 1:
		column = parts[0]
	case 2:
		column = parts[0]
		direction = strings.ToUpper(parts[1])
	default:
		return "date", "DESC"
	}

	if !allowedOrderColumns[column] {
		column = "date"
	}
	if !allowedOrderDirections[direction] {
		direction = "DESC"
	}
	return column, direction
}

// widenDateBounds expands date-only bounds to full-day timestamps.
func widenDateBounds(start, end string) (string, string) {
	if len(start) == dateOnlyLen {
		start += " 00:00:00"
	}
	if len(end) == dateOnlyLen {
		end += " 23:59:59"
	}
	return start, end
}

// SaveRecord inserts the record when it has no id yet (assigning the
// generated id), otherwise fully replaces the stored row and stamps
// updated_at. The record type is validated strictly before any I/O.
func (s *SQLiteStorage) SaveRecord(ctx context.Context, record *model.Record) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	if record.Date.IsZero() {
		record.Date = time.Now()
	}

	row, err := model.EncodeRecord(record)
	if err != nil {
		return err
	}
	date := record.Date.Format(timestampLayout)

	if record.ID == 0 {
		result, execErr := s.db.ExecContext(ctx, `
			INSERT INTO records (amount, date, record_type, note, category_id, user_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
			row["amount"], date, row["record_type"], row["note"], row["category_id"], row["user_id"],
		)
		if execErr != nil {
			execErr = translateError(execErr)
			slog.Warn("failed to insert record", "user_id", record.UserID, "error", execErr)
			return execErr
		}

		id, idErr := result.LastInsertId()
		if idErr != nil {
			return fmt.Errorf("failed to get record ID: %w", idErr)
		}
		record.ID = id

		slog.Debug("created record", "id", id, "user_id", record.UserID, "type", record.Type)
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE records
		SET amount = ?, date = ?, record_type = ?, note = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		row["amount"], date, row["record_type"], row["note"], row["category_id"],
		time.Now().Format(timestampLayout), record.ID,
	)
	if err != nil {
		err = translateError(err)
		slog.Warn("failed to update record", "id", record.ID, "error", err)
		return err
	}

	slog.Debug("updated record", "id", record.ID, "user_id", record.UserID)
	return nil
}

// DeleteRecord removes a record by id. It reports common.ErrNotFound when no
// row was actually removed, not merely "statement executed".
func (s *SQLiteStorage) DeleteRecord(ctx context.Context, recordID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, recordID)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: record %d", common.ErrNotFound, recordID)
	}

	slog.Debug("deleted record", "id", recordID)
	return nil
}

// GetRecords returns a user's records with optional date-range filtering,
// an allowlisted sort order, and an optional limit. All filter values are
// bound as parameters; only the allowlist-resolved column and direction are
// interpolated into the statement text.
func (s *SQLiteStorage) GetRecords(ctx context.Context, userID int64, q RecordQuery) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT * FROM records WHERE user_id = ?`
	args := []any{userID}

	if q.StartDate != "" && q.EndDate != "" {
		start, end := widenDateBounds(q.StartDate, q.EndDate)
		query += ` AND date BETWEEN ? AND ?`
		args = append(args, start, end)
	}

	column, direction := parseOrderBy(q.OrderBy)
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.DecodeRecord(row))
	}

	slog.Debug("retrieved records", "user_id", userID, "count", len(records))
	return records, nil
}

// GetRecord returns a single record by id, or (nil, nil) when missing.
func (s *SQLiteStorage) GetRecord(ctx context.Context, recordID int64) (*model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.Query(ctx, `SELECT * FROM records WHERE id = ?`, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	record := model.DecodeRecord(rows[0])
	return &record, nil
}

// maxRecordFetch caps GetAllRecords so a runaway dataset cannot exhaust
// memory on a wholesale cache reload.
const maxRecordFetch = 10000

// GetAllRecords returns the user's full working set, newest first.
func (s *SQLiteStorage) GetAllRecords(ctx context.Context, userID int64) ([]model.Record, error) {
	return s.GetRecords(ctx, userID, RecordQuery{Limit: maxRecordFetch})
}

// GetUserBalance aggregates the user's income and expense totals. A user
// with no records gets zero-valued fields, never absent ones.
func (s *SQLiteStorage) GetUserBalance(ctx context.Context, userID int64) (model.Balance, error) {
	if err := validateContext(ctx); err != nil {
		return model.Balance{}, err
	}

	var balance model.Balance
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN record_type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN record_type = 'expense' THEN amount ELSE 0 END), 0)
		FROM records WHERE user_id = ?`,
		userID,
	).Scan(&balance.Income, &balance.Expense)
	if err != nil {
		return model.Balance{}, fmt.Errorf("failed to query balance: %w", err)
	}

	balance.Balance = balance.Income - balance.Expense
	return balance, nil
}

// periodRange maps a named period onto inclusive date-only bounds relative
// to now. Weeks start on Monday; months and years start on their first day.
// An unrecognized period returns ok=false, which callers treat as "no
// filtering" rather than an error.
func periodRange(period string, now time.Time) (start, end string, ok bool) {
	end = now.Format("2006-01-02")

	switch period {
	case "today":
		return end, end, true
	case "week":
		offset := (int(now.Weekday()) + 6) % 7 // Monday-based weekday index
		start = now.AddDate(0, 0, -offset).Format("2006-01-02")
		return start, end, true
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
		return start, end, true
	case "year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
		return start, end, true
	default:
		return "", "", false
	}
}

// GetRecordsByPeriod returns the user's records within a named calendar
// period: "today", "week", "month" or "year". Any other value falls open to
// the user's full record set.
func (s *SQLiteStorage) GetRecordsByPeriod(ctx context.Context, userID int64, period string) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	start, end, ok := periodRange(period, time.Now())
	if !ok {
		return s.GetRecords(ctx, userID, RecordQuery{})
	}

	return s.GetRecords(ctx, userID, RecordQuery{StartDate: start, EndDate: end})
}
