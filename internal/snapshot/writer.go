package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Write serializes the document to path as 2-space-indented JSON, creating the
// parent directory if needed. Values JSON cannot represent natively (times,
// raw bytes) are coerced to strings; the caller's records are not mutated.
func Write(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	coerced := make([]Record, len(doc.DataRecords))
	for i, rec := range doc.DataRecords {
		out := make(Record, len(rec))
		for col, v := range rec {
			out[col] = coerceValue(v)
		}
		coerced[i] = out
	}
	doc.DataRecords = coerced

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

func coerceValue(v any) any {
	switch v := v.(type) {
	case time.Time:
		return v.Format(time.RFC3339)
	case []byte:
		return string(v)
	default:
		return v
	}
}
