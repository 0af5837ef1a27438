package content

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Table is a materialized preview of a statement result
type Table struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Truncated bool     `json:"truncated,omitempty"`
}

// RowCursor is a lazy, single-pass sequence of result rows.
// Row is only valid after Next returned true. Close must be called once the caller is done.
type RowCursor interface {
	Columns() []string
	Next() bool
	Row() []any
	Err() error
	Close() error
}

// Cursor returns a single-pass cursor over the materialized rows
func (t *Table) Cursor() RowCursor {
	if t == nil {
		return &tableCursor{}
	}
	return &tableCursor{table: t, pos: -1}
}

// Empty reports whether the preview holds no row
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// NumericColumns lists the columns, other than the first one (used as chart index),
// whose non-null values all parse as numbers. A column with only nulls is not numeric.
func (t *Table) NumericColumns() []string {
	if t == nil || len(t.Columns) < 2 {
		return nil
	}
	var numeric []string
	for col := 1; col < len(t.Columns); col++ {
		seen := false
		ok := true
		for _, row := range t.Rows {
			if col >= len(row) || row[col] == nil {
				continue
			}
			if !isNumeric(row[col]) {
				ok = false
				break
			}
			seen = true
		}
		if ok && seen {
			numeric = append(numeric, t.Columns[col])
		}
	}
	return numeric
}

func isNumeric(v any) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case decimal.Decimal:
		return true
	case []byte:
		_, err := decimal.NewFromString(string(x))
		return err == nil
	case string:
		_, err := decimal.NewFromString(x)
		return err == nil
	default:
		_, err := decimal.NewFromString(fmt.Sprint(x))
		return err == nil
	}
}

type tableCursor struct {
	table *Table
	pos   int
	done  bool
}

func (c *tableCursor) Columns() []string {
	if c.table == nil {
		return nil
	}
	return c.table.Columns
}

func (c *tableCursor) Next() bool {
	if c.done || c.table == nil {
		return false
	}
	c.pos++
	if c.pos >= len(c.table.Rows) {
		c.done = true
		return false
	}
	return true
}

func (c *tableCursor) Row() []any {
	if c.table == nil || c.pos < 0 || c.pos >= len(c.table.Rows) {
		return nil
	}
	return c.table.Rows[c.pos]
}

func (c *tableCursor) Err() error { return nil }

func (c *tableCursor) Close() error {
	c.done = true
	return nil
}
