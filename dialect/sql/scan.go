package sql

import (
	"fmt"
)

// ScanRows reads all rows from the scanner into generic column→value
// maps, in result order. Raw []byte column values are converted to
// string since drivers commonly return text columns as byte slices.
func ScanRows(rows ColumnScanner) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sql/scan: %w", err)
	}
	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("sql/scan: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, c := range columns {
			switch v := values[i].(type) {
			case []byte:
				row[c] = string(v)
			default:
				row[c] = v
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sql/scan: %w", err)
	}
	return out, nil
}

// ScanOne reads exactly the first row from the scanner. It returns
// (nil, nil) when the result set is empty.
func ScanOne(rows ColumnScanner) (map[string]any, error) {
	all, err := ScanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}
