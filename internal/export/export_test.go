package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financebook/financebook/internal/common"
	"github.com/financebook/financebook/internal/model"
	"github.com/financebook/financebook/internal/session"
	"github.com/financebook/financebook/internal/storage"
)

func createTestExporter(t *testing.T) (*Exporter, *session.Session, *model.User) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "export_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	food := &model.Category{Name: "Food", IsActive: true}
	require.NoError(t, store.SaveCategory(ctx, food))
	salary := &model.Category{Name: "Salary", IsActive: true}
	require.NoError(t, store.SaveCategory(ctx, salary))

	user := &model.User{Username: "alice", PasswordHash: "h", Email: "alice@x.com"}
	require.NoError(t, store.SaveUser(ctx, user))

	sess := session.New(store)
	require.NoError(t, sess.SetCurrentUser(ctx, user))

	require.NoError(t, sess.AddRecord(ctx, &model.Record{
		UserID:     user.ID,
		CategoryID: salary.ID,
		Type:       model.RecordTypeIncome,
		Amount:     1000,
		Note:       "march salary",
		Date:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local),
	}))
	require.NoError(t, sess.AddRecord(ctx, &model.Record{
		UserID:     user.ID,
		CategoryID: food.ID,
		Type:       model.RecordTypeExpense,
		Amount:     12.5,
		Note:       "lunch",
		Date:       time.Date(2024, 3, 2, 13, 0, 0, 0, time.Local),
	}))

	exporter, err := New(sess, filepath.Join(dir, "exports"))
	require.NoError(t, err)
	return exporter, sess, user
}

func TestExportJSON(t *testing.T) {
	ctx := context.Background()
	exporter, _, user := createTestExporter(t)

	path, err := exporter.ExportJSON(ctx, "my_data")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "my_data.json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		ExportTime string `json:"export_time"`
		User       struct {
			Username string `json:"username"`
			ID       int64  `json:"id"`
		} `json:"user"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
		Records []struct {
			Date         string  `json:"date"`
			Type         string  `json:"record_type"`
			Note         string  `json:"note"`
			CategoryName string  `json:"category_name"`
			Amount       float64 `json:"amount"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.NotEmpty(t, doc.ExportTime)
	assert.Equal(t, "alice", doc.User.Username)
	assert.Equal(t, user.ID, doc.User.ID)
	require.Len(t, doc.Categories, 2)
	require.Len(t, doc.Records, 2)

	// Records come out newest first, with category ids resolved to names.
	assert.Equal(t, "lunch", doc.Records[0].Note)
	assert.Equal(t, "Food", doc.Records[0].CategoryName)
	assert.Equal(t, "expense", doc.Records[0].Type)
	assert.Equal(t, 12.5, doc.Records[0].Amount)
	assert.Equal(t, "2024-03-02 13:00:00", doc.Records[0].Date)
	assert.Equal(t, "Salary", doc.Records[1].CategoryName)
	assert.Equal(t, "income", doc.Records[1].Type)
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	exporter, _, _ := createTestExporter(t)

	path, err := exporter.ExportCSV(ctx, "my_data")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "my_data.csv"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"id", "date", "record_type", "amount", "category", "note"}, rows[0])
	assert.Equal(t, "expense", rows[1][2])
	assert.Equal(t, "12.50", rows[1][3])
	assert.Equal(t, "Food", rows[1][4])
	assert.Equal(t, "lunch", rows[1][5])
	assert.Equal(t, "income", rows[2][2])
	assert.Equal(t, "1000.00", rows[2][3])
}

func TestExportDefaultFilename(t *testing.T) {
	ctx := context.Background()
	exporter, _, _ := createTestExporter(t)

	path, err := exporter.ExportJSON(ctx, "")
	require.NoError(t, err)
	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "finance_data_"))
	assert.True(t, strings.HasSuffix(base, ".json"))
}

func TestExportStripsDirectoryTraversal(t *testing.T) {
	ctx := context.Background()
	exporter, _, _ := createTestExporter(t)

	path, err := exporter.ExportJSON(ctx, "../../escape")
	require.NoError(t, err)
	assert.Equal(t, "escape.json", filepath.Base(path))
	assert.Contains(t, path, "exports")
}

func TestExportRequiresUser(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "export_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	exporter, err := New(session.New(store), filepath.Join(dir, "exports"))
	require.NoError(t, err)

	_, err = exporter.ExportJSON(ctx, "x")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = exporter.ExportCSV(ctx, "x")
	assert.ErrorIs(t, err, common.ErrValidation)
}
