package warehouse

import (
	"context"
	"database/sql"

	"cortex-analyst-be/internal/pkg/logger"
	"cortex-analyst-be/pkg/content"

	"gorm.io/gorm"
)

const DefaultMaxRows = 1000

// Runner executes generated statements against the warehouse
type Runner struct {
	db      *gorm.DB
	maxRows int
	logger  logger.ILogger
}

func NewRunner(db *gorm.DB, maxRows int, log logger.ILogger) *Runner {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Runner{db: db, maxRows: maxRows, logger: log}
}

// Preview runs statement and materializes at most maxRows rows
func (r *Runner) Preview(ctx context.Context, statement string) (*content.Table, error) {
	cur, err := r.Stream(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	table := &content.Table{Columns: cur.Columns(), Rows: [][]any{}}
	for cur.Next() {
		if len(table.Rows) == r.maxRows {
			table.Truncated = true
			break
		}
		table.Rows = append(table.Rows, cur.Row())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("WAREHOUSE", "Statement previewed", map[string]interface{}{
		"rows":      len(table.Rows),
		"truncated": table.Truncated,
	})
	return table, nil
}

// Stream runs statement and returns a live single-pass cursor. The caller must Close it.
func (r *Runner) Stream(ctx context.Context, statement string) (content.RowCursor, error) {
	rows, err := r.db.WithContext(ctx).Raw(statement).Rows()
	if err != nil {
		r.logger.Warn("WAREHOUSE", "Statement execution failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	return &sqlCursor{rows: rows, columns: cols}, nil
}

type sqlCursor struct {
	rows    *sql.Rows
	columns []string
	current []any
	err     error
}

func (c *sqlCursor) Columns() []string { return c.columns }

func (c *sqlCursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	values := make([]any, len(c.columns))
	ptrs := make([]any, len(c.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		c.err = err
		return false
	}
	for i, v := range values {
		// drivers hand text back as []byte, which would encode as base64
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	c.current = values
	return true
}

func (c *sqlCursor) Row() []any { return c.current }

func (c *sqlCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *sqlCursor) Close() error { return c.rows.Close() }
