// Package snapshot defines the JSON document the extractor writes and the
// reporter reads, plus the in-memory table both stages operate on.
package snapshot

import "time"

// Document is the on-disk snapshot format. DataSchema maps each column to the
// type name inferred from the extracted values, not from the warehouse
// catalog. DataRecords preserves warehouse return order.
type Document struct {
	TableName   string            `json:"table_name"`
	Description string            `json:"description"`
	DataSchema  map[string]string `json:"data_schema"`
	DataRecords []Record          `json:"data_records"`
}

// FileName returns the snapshot file name for a given table name.
func FileName(tableName string) string {
	return tableName + "_data.json"
}

// InferSchema derives the column-to-type-name mapping from the table's own
// values: the first non-nil value per column decides. Columns that are nil in
// every record map to "object".
func InferSchema(t Table) map[string]string {
	schema := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		schema[col] = "object"
		for _, rec := range t.Records {
			if v, ok := rec[col]; ok && v != nil {
				schema[col] = typeName(v)
				break
			}
		}
	}
	return schema
}

func typeName(v any) string {
	switch v.(type) {
	case string, []byte:
		return "string"
	case int, int32, int64:
		return "int64"
	case float32, float64:
		return "float64"
	case bool:
		return "bool"
	case time.Time:
		return "timestamp"
	default:
		return "object"
	}
}
