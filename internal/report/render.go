package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/redhat-cee/telesense/internal/snapshot"
)

// renderTable renders a markdown pipe table.
func renderTable(headers []string, rows [][]string) string {
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("|")
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	return buf.String()
}

// recordCells extracts the given columns from a record as display strings.
func recordCells(rec snapshot.Record, columns []string) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = formatValue(rec[col])
	}
	return cells
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%g", v)
	case time.Time:
		return v.Format(time.RFC3339)
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// presentColumns filters candidates to those the table actually has,
// preserving candidate order.
func presentColumns(t snapshot.Table, candidates []string) []string {
	var present []string
	for _, col := range candidates {
		if t.HasColumn(col) {
			present = append(present, col)
		}
	}
	return present
}

func percent(part, total int) string {
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}
