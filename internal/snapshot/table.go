package snapshot

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Record is one flat denormalized telemetry row: field name to value. Values
// are whatever the warehouse driver or the JSON decoder produced (string,
// int64, float64, bool, time.Time or nil).
type Record map[string]any

// Table is an ordered, in-memory collection of records. Columns preserves the
// warehouse column order when the table comes from a query; tables rebuilt
// from a snapshot file carry the sorted union of record fields instead, since
// JSON objects have no column order.
type Table struct {
	Columns []string
	Records []Record
}

// NewTable builds a table from loose records, deriving Columns as the sorted
// union of all field names.
func NewTable(records []Record) Table {
	seen := make(map[string]struct{})
	var columns []string
	for _, rec := range records {
		for col := range rec {
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				columns = append(columns, col)
			}
		}
	}
	slices.Sort(columns)
	return Table{Columns: columns, Records: records}
}

func (t Table) Empty() bool {
	return len(t.Records) == 0
}

func (t Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// String returns the value of col rendered as a string. The second return is
// false when the field is absent or nil.
func (r Record) String(col string) (string, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case time.Time:
		return v.Format(time.RFC3339), true
	default:
		return fmt.Sprint(v), true
	}
}

// Float returns the value of col coerced to a float64. Absent, nil and
// non-numeric values report false.
func (r Record) Float(col string) (float64, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return 0, false
	}
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// timeLayouts covers the timestamp shapes the warehouse and the snapshot file
// produce: RFC3339 from our own writer, space-separated forms from upstream
// exports, and bare dates for DATE columns.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time returns the value of col parsed as a timestamp. Absent, nil and
// unparseable values report false.
func (r Record) Time(col string) (time.Time, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return time.Time{}, false
	}
	switch v := v.(type) {
	case time.Time:
		return v, true
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	default:
		return time.Time{}, false
	}
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
