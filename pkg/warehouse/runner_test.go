package warehouse

import (
	"bytes"
	"context"
	"testing"

	"cortex-analyst-be/internal/pkg/logger"
	"cortex-analyst-be/internal/testutil"
	"cortex-analyst-be/pkg/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSales(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE sales (region TEXT, amount INTEGER)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO sales VALUES ('north', 10), ('south', 20), ('east', 30)`).Error)
	return db
}

func TestPreview(t *testing.T) {
	runner := NewRunner(seedSales(t), 10, logger.NewNopLogger())

	table, err := runner.Preview(context.Background(), "SELECT region, amount FROM sales ORDER BY amount")
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "amount"}, table.Columns)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "north", table.Rows[0][0])
	assert.False(t, table.Truncated)
	assert.Equal(t, []string{"amount"}, table.NumericColumns())
}

func TestPreview_Truncates(t *testing.T) {
	runner := NewRunner(seedSales(t), 2, logger.NewNopLogger())

	table, err := runner.Preview(context.Background(), "SELECT region FROM sales")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
	assert.True(t, table.Truncated)
}

func TestPreview_EmptyResult(t *testing.T) {
	runner := NewRunner(seedSales(t), 10, logger.NewNopLogger())

	table, err := runner.Preview(context.Background(), "SELECT region FROM sales WHERE amount > 100")
	require.NoError(t, err)
	assert.True(t, table.Empty())
}

func TestPreview_InvalidStatement(t *testing.T) {
	runner := NewRunner(seedSales(t), 10, logger.NewNopLogger())

	_, err := runner.Preview(context.Background(), "SELECT nope FROM missing_table")
	assert.Error(t, err)
}

func TestWriteCSV_FromLiveCursor(t *testing.T) {
	runner := NewRunner(seedSales(t), 10, logger.NewNopLogger())
	cur, err := runner.Stream(context.Background(), "SELECT region, amount FROM sales ORDER BY amount")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cur))
	assert.Equal(t, "region,amount\nnorth,10\nsouth,20\neast,30\n", buf.String())
}

func TestWriteCSV_FromTable(t *testing.T) {
	table := &content.Table{Columns: []string{"city", "note"}, Rows: [][]any{{"Paris", nil}, {"Lyon, FR", "a\"b"}}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table.Cursor()))
	assert.Equal(t, "city,note\nParis,\n\"Lyon, FR\",\"a\"\"b\"\n", buf.String())
}
