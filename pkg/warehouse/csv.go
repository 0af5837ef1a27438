package warehouse

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"cortex-analyst-be/pkg/content"
)

// DownloadFileName is the name offered for result downloads
const DownloadFileName = "resultats_requete.csv"

// WriteCSV drains cur into w, header first. The cursor is consumed and closed.
func WriteCSV(w io.Writer, cur content.RowCursor) error {
	defer cur.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write(cur.Columns()); err != nil {
		return err
	}

	record := make([]string, len(cur.Columns()))
	for cur.Next() {
		row := cur.Row()
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = formatValue(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
