package report

import (
	"fmt"
	"strings"

	"github.com/redhat-cee/telesense/internal/snapshot"
)

// DefaultWindowDays is the job summary lookback when the caller does not
// choose one.
const DefaultWindowDays = 30

const sampleJobRows = 5

var jobSampleColumns = []string{
	"job_created_date",
	"job_name",
	"job_status",
	"job_elapsed_seconds",
	"job_org_id",
}

// JobRunSummary reports job execution health over the window
// [now-nDays, now], inclusive on both ends. Rows whose job_created_timestamp
// does not parse are dropped before filtering; the drop count is logged. An
// empty table or an empty window is a normal outcome, reported as a plain
// sentence instead of a table.
func (r *Reporter) JobRunSummary(t snapshot.Table, nDays int) string {
	if nDays < 0 {
		return fmt.Sprintf("Window length must be a non-negative number of days, got %d.", nDays)
	}
	if t.Empty() {
		return "No telemetry data available to analyze for jobs."
	}

	end := r.clock.Now()
	start := end.AddDate(0, 0, -nDays)

	var inWindow []snapshot.Record
	dropped := 0
	for _, rec := range t.Records {
		ts, ok := rec.Time("job_created_timestamp")
		if !ok {
			dropped++
			continue
		}
		if ts.Before(start) || ts.After(end) {
			continue
		}
		inWindow = append(inWindow, rec)
	}
	if dropped > 0 {
		r.log.Warn("dropped rows with unparseable job_created_timestamp", "rows", dropped)
	}
	if len(inWindow) == 0 {
		return fmt.Sprintf("No job data found in the last %d days.", nDays)
	}

	total := len(inWindow)
	successful, failed := 0, 0
	var totalHosts float64
	for _, rec := range inWindow {
		if status, _ := rec.String("job_status"); status == "successful" {
			successful++
		} else if status == "failed" {
			failed++
		}
		if hosts, ok := rec.Float("job_host_count"); ok {
			totalHosts += hosts
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "## Job Run Summary (Last %d Days):\n\n", nDays)
	fmt.Fprintf(&out, "- Total Jobs Run: %d\n", total)
	fmt.Fprintf(&out, "- Successful Jobs: %d\n", successful)
	fmt.Fprintf(&out, "- Failed Jobs: %d\n", failed)
	fmt.Fprintf(&out, "- Success Rate: %s\n", percent(successful, total))
	fmt.Fprintf(&out, "- Total Hosts Touched by These Jobs: %.0f\n\n", totalHosts)

	out.WriteString("### Sample Job Data:\n")
	columns := presentColumns(t, jobSampleColumns)
	var rows [][]string
	for i, rec := range inWindow {
		if i == sampleJobRows {
			break
		}
		rows = append(rows, recordCells(rec, columns))
	}
	out.WriteString(renderTable(columns, rows))

	return out.String()
}
