package model

// Category is a label applied to records. Categories form a two-level tree:
// top-level categories have a nil ParentID, children reference a top-level id.
type Category struct {
	ParentID *int64
	Name     string
	ID       int64
	IsActive bool
}

// IsTopLevel reports whether the category has no parent.
func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}

// DefaultCategory declares one entry of the seed taxonomy. Children name
// their parent rather than assuming insertion order, so seeding resolves
// parent ids by a name lookup after the first pass.
type DefaultCategory struct {
	Name   string
	Parent string
}

// DefaultCategories is the taxonomy seeded into an empty database.
// Top-level entries have an empty Parent.
var DefaultCategories = []DefaultCategory{
	{Name: "Food & Dining"},
	{Name: "Breakfast", Parent: "Food & Dining"},
	{Name: "Lunch", Parent: "Food & Dining"},
	{Name: "Dinner", Parent: "Food & Dining"},
	{Name: "Transportation"},
	{Name: "Bus", Parent: "Transportation"},
	{Name: "Subway", Parent: "Transportation"},
	{Name: "Taxi", Parent: "Transportation"},
	{Name: "Entertainment"},
	{Name: "Movies", Parent: "Entertainment"},
	{Name: "Games", Parent: "Entertainment"},
	{Name: "Salary"},
	{Name: "Investment Returns"},
	{Name: "Daily Necessities"},
	{Name: "Healthcare"},
	{Name: "Shopping"},
	{Name: "Utilities"},
	{Name: "Education"},
	{Name: "Travel"},
	{Name: "Gift & Donation"},
}
