package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/financebook/financebook/internal/common"
)

// Row is a loosely-typed row mapping as returned by the generic query path.
type Row map[string]any

// Timestamp layouts accepted on decode. SQLite hands back whatever layout
// the writer used, so both the driver's native form and plain ISO-8601
// variants must parse.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
}

// DecodeUser builds a User from a row mapping. Missing or malformed fields
// fall back to zero values; audit timestamps fall back to their zero time.
func DecodeUser(row Row) User {
	u := User{
		ID:           coerceInt64(row["id"]),
		Username:     coerceString(row["username"]),
		PasswordHash: coerceString(row["password_hash"]),
		Email:        coerceString(row["email"]),
		CreatedAt:    coerceTime(row["created_at"]),
	}
	if t := coerceTime(row["last_login"]); !t.IsZero() {
		u.LastLogin = &t
	}
	return u
}

// DecodeCategory builds a Category from a row mapping.
func DecodeCategory(row Row) Category {
	c := Category{
		ID:       coerceInt64(row["id"]),
		Name:     coerceString(row["name"]),
		IsActive: coerceBool(row["is_active"]),
	}
	if row["parent_id"] != nil {
		parent := coerceInt64(row["parent_id"])
		c.ParentID = &parent
	}
	return c
}

// DecodeRecord builds a Record from a row mapping. The primary date falls
// back to the current time when absent or unparseable; unrecognized type
// values collapse to RecordTypeUnknown rather than failing.
func DecodeRecord(row Row) Record {
	r := Record{
		ID:         coerceInt64(row["id"]),
		Amount:     coerceFloat(row["amount"]),
		Note:       coerceString(row["note"]),
		CategoryID: coerceInt64(row["category_id"]),
		UserID:     coerceInt64(row["user_id"]),
		CreatedAt:  coerceTime(row["created_at"]),
		UpdatedAt:  coerceTime(row["updated_at"]),
	}

	r.Date = coerceTime(row["date"])
	if r.Date.IsZero() {
		r.Date = time.Now()
	}

	if rt := RecordType(coerceString(row["record_type"])); rt.Valid() {
		r.Type = rt
	} else {
		r.Type = RecordTypeUnknown
	}
	return r
}

// EncodeUser converts a User to a row mapping. The username and email are
// required; everything else round-trips as-is.
func EncodeUser(u *User) (Row, error) {
	if u.Username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	if u.Email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	row := Row{
		"id":            u.ID,
		"username":      u.Username,
		"password_hash": u.PasswordHash,
		"email":         u.Email,
		"created_at":    u.CreatedAt,
		"last_login":    nil,
	}
	if u.LastLogin != nil {
		row["last_login"] = *u.LastLogin
	}
	return row, nil
}

// EncodeCategory converts a Category to a row mapping.
func EncodeCategory(c *Category) (Row, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", common.ErrValidation)
	}
	row := Row{
		"id":        c.ID,
		"name":      c.Name,
		"parent_id": nil,
		"is_active": c.IsActive,
	}
	if c.ParentID != nil {
		row["parent_id"] = *c.ParentID
	}
	return row, nil
}

// EncodeRecord converts a Record to a row mapping. Unlike decode, encode is
// strict: a record with an empty or unrecognized type is rejected before any
// I/O can happen.
func EncodeRecord(r *Record) (Row, error) {
	if !r.Type.Valid() {
		return nil, fmt.Errorf("%w: record_type must be income or expense, got %q", common.ErrValidation, r.Type)
	}
	if r.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", common.ErrValidation)
	}
	return Row{
		"id":          r.ID,
		"amount":      r.Amount,
		"date":        r.Date,
		"record_type": string(r.Type),
		"note":        r.Note,
		"category_id": r.CategoryID,
		"user_id":     r.UserID,
		"created_at":  r.CreatedAt,
		"updated_at":  r.UpdatedAt,
	}, nil
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func coerceInt64(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		if err != nil {
			return 0
		}
		return i
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case []byte:
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case int64:
		return b != 0
	case int:
		return b != 0
	case float64:
		return b != 0
	case []byte:
		return string(b) == "1" || string(b) == "true"
	case string:
		return b == "1" || b == "true"
	default:
		return false
	}
}

func coerceTime(v any) time.Time {
	switch t := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return t
	case *time.Time:
		if t == nil {
			return time.Time{}
		}
		return *t
	case []byte:
		return parseTime(string(t))
	case string:
		return parseTime(t)
	default:
		return time.Time{}
	}
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
