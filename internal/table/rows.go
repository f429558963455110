package table

import (
	"encoding/json"
	"fmt"
)

// RowsOf converts records into rows keyed by their JSON field names.
func RowsOf[T any](records []T) ([]Row, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}
	rows := make([]Row, 0, len(records))
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rows: %w", err)
	}
	return rows, nil
}
