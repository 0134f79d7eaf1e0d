package model

import "time"

// RecordType distinguishes income from expense records.
type RecordType string

const (
	// RecordTypeIncome marks money coming in.
	RecordTypeIncome RecordType = "income"
	// RecordTypeExpense marks money going out.
	RecordTypeExpense RecordType = "expense"
	// RecordTypeUnknown is the collapsed form of any unrecognized type value.
	RecordTypeUnknown RecordType = ""
)

// Valid reports whether the type is one of the enumerated values.
func (rt RecordType) Valid() bool {
	return rt == RecordTypeIncome || rt == RecordTypeExpense
}

// Record is a single financial transaction owned by one user.
type Record struct {
	Date       time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Type       RecordType
	Note       string
	Amount     float64
	ID         int64
	CategoryID int64
	UserID     int64
}

// Balance is the aggregate income/expense summary for a user.
// Balance == Income - Expense always holds; a user with no records
// gets zero-valued fields, never absent ones.
type Balance struct {
	Income  float64
	Expense float64
	Balance float64
}
