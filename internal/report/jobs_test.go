package report

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/redhat-cee/telesense/internal/snapshot"
)

func testReporter(t *testing.T, clk clockwork.Clock) *Reporter {
	t.Helper()
	rep, err := New(Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:  clk,
	})
	require.NoError(t, err)
	return rep
}

func jobRecord(created time.Time, status string, hosts float64) snapshot.Record {
	return snapshot.Record{
		"job_created_timestamp": created.Format(time.RFC3339),
		"job_created_date":      created.Format("2006-01-02"),
		"job_name":              "deploy",
		"job_status":            status,
		"job_host_count":        hosts,
		"job_org_id":            1.0,
	}
}

func TestJobRunSummary_WindowFilter(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	clk := clockwork.NewFakeClockAt(now)
	rep := testReporter(t, clk)

	table := snapshot.NewTable([]snapshot.Record{
		jobRecord(now, "successful", 3),
		jobRecord(now.AddDate(0, 0, -1), "failed", 2),
		jobRecord(now.AddDate(0, 0, -40), "successful", 100),
	})

	out := rep.JobRunSummary(table, 30)
	require.Contains(t, out, "## Job Run Summary (Last 30 Days):")
	require.Contains(t, out, "- Total Jobs Run: 2")
	require.Contains(t, out, "- Successful Jobs: 1")
	require.Contains(t, out, "- Failed Jobs: 1")
	// 1 successful out of 2 in window.
	require.Contains(t, out, "- Success Rate: 50.00%")
	require.Contains(t, out, "- Total Hosts Touched by These Jobs: 5")
	require.Contains(t, out, "### Sample Job Data:")
	require.Contains(t, out, "job_status")
	require.NotContains(t, out, "100")
}

func TestJobRunSummary_WindowIsInclusive(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	rep := testReporter(t, clockwork.NewFakeClockAt(now))

	// Rows at exactly now and exactly the window start count; a row one
	// second in the future does not.
	table := snapshot.NewTable([]snapshot.Record{
		jobRecord(now, "successful", 0),
		jobRecord(now.AddDate(0, 0, -30), "failed", 0),
		jobRecord(now.Add(time.Second), "failed", 0),
	})

	out := rep.JobRunSummary(table, 30)
	require.Contains(t, out, "- Total Jobs Run: 2")
}

func TestJobRunSummary_EmptyTable(t *testing.T) {
	t.Parallel()

	rep := testReporter(t, clockwork.NewFakeClock())
	out := rep.JobRunSummary(snapshot.Table{}, 30)
	require.Equal(t, "No telemetry data available to analyze for jobs.", out)
}

func TestJobRunSummary_EmptyWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	rep := testReporter(t, clockwork.NewFakeClockAt(now))

	table := snapshot.NewTable([]snapshot.Record{
		jobRecord(now.AddDate(0, 0, -40), "successful", 1),
	})

	out := rep.JobRunSummary(table, 30)
	require.Equal(t, "No job data found in the last 30 days.", out)
}

func TestJobRunSummary_NegativeDays(t *testing.T) {
	t.Parallel()

	rep := testReporter(t, clockwork.NewFakeClock())
	out := rep.JobRunSummary(snapshot.NewTable([]snapshot.Record{jobRecord(time.Now(), "successful", 1)}), -1)
	require.Contains(t, out, "non-negative")
}

func TestJobRunSummary_UnparseableTimestampsDropped(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	rep := testReporter(t, clockwork.NewFakeClockAt(now))

	table := snapshot.NewTable([]snapshot.Record{
		jobRecord(now, "successful", 1),
		{"job_created_timestamp": "not a timestamp", "job_status": "successful"},
		{"job_created_timestamp": nil, "job_status": "failed"},
	})

	out := rep.JobRunSummary(table, 30)
	require.Contains(t, out, "- Total Jobs Run: 1")
	require.Contains(t, out, "- Successful Jobs: 1")
}

func TestJobRunSummary_SampleLimitedToFiveRows(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	rep := testReporter(t, clockwork.NewFakeClockAt(now))

	var records []snapshot.Record
	for i := 0; i < 8; i++ {
		rec := jobRecord(now.Add(-time.Duration(i)*time.Hour), "successful", 1)
		rec["job_name"] = "job-" + string(rune('a'+i))
		records = append(records, rec)
	}

	out := rep.JobRunSummary(snapshot.NewTable(records), 30)
	require.Contains(t, out, "job-a")
	require.Contains(t, out, "job-e")
	require.NotContains(t, out, "job-f")
}

func TestJobRunSummary_Idempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	rep := testReporter(t, clockwork.NewFakeClockAt(now))
	table := snapshot.NewTable([]snapshot.Record{
		jobRecord(now, "successful", 3),
		jobRecord(now.AddDate(0, 0, -2), "failed", 2),
	})

	first := rep.JobRunSummary(table, 30)
	second := rep.JobRunSummary(table, 30)
	require.Equal(t, first, second)
}
