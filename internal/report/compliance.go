package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/redhat-cee/telesense/internal/snapshot"
)

const sampleNonCompliantRows = 3

var nonCompliantSampleColumns = []string{
	"job_org_id",
	"job_cluster_id",
	"tower_version",
	"cluster_url",
}

// ClusterCompliance summarizes license compliance across unique clusters.
// The join fans a cluster out over many rows, so rows are first sorted
// descending by job_created_date and deduplicated to the most recent row per
// (job_org_id, job_cluster_id). Compliance values are normalized to lowercase
// string form so booleans and mixed-case text collapse to "true"/"false".
func (r *Reporter) ClusterCompliance(t snapshot.Table) string {
	if t.Empty() {
		return "No telemetry data available to analyze for cluster compliance."
	}
	if !t.HasColumn("is_compliant") {
		return `Missing "is_compliant" column in snapshot data for compliance analysis; check the extractor query.`
	}

	// Stable sort on the rendered date keeps warehouse order within a day;
	// ISO dates compare lexicographically in chronological order.
	rows := make([]snapshot.Record, len(t.Records))
	copy(rows, t.Records)
	sort.SliceStable(rows, func(i, j int) bool {
		di, _ := rows[i].String("job_created_date")
		dj, _ := rows[j].String("job_created_date")
		return di > dj
	})

	seen := make(map[string]struct{})
	var clusters []snapshot.Record
	for _, rec := range rows {
		org, _ := rec.String("job_org_id")
		cluster, _ := rec.String("job_cluster_id")
		key := org + "\x00" + cluster
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		clusters = append(clusters, rec)
	}

	total := len(clusters)
	compliant, nonCompliant := 0, 0
	var nonCompliantSample []snapshot.Record
	for _, rec := range clusters {
		switch normalizeCompliance(rec["is_compliant"]) {
		case "true":
			compliant++
		case "false":
			nonCompliant++
			if len(nonCompliantSample) < sampleNonCompliantRows {
				nonCompliantSample = append(nonCompliantSample, rec)
			}
		}
	}

	var out strings.Builder
	out.WriteString("## Cluster Compliance Summary (Last Year):\n\n")
	fmt.Fprintf(&out, "- Total Unique Clusters Monitored: %d\n", total)
	fmt.Fprintf(&out, "- Compliant Clusters: %d\n", compliant)
	fmt.Fprintf(&out, "- Non-Compliant Clusters: %d\n", nonCompliant)
	if total > 0 {
		fmt.Fprintf(&out, "- Compliance Rate: %s\n", percent(compliant, total))
	}

	if nonCompliant > 0 {
		out.WriteString("\n### Sample Non-Compliant Clusters:\n")
		columns := presentColumns(t, nonCompliantSampleColumns)
		sample := make([][]string, len(nonCompliantSample))
		for i, rec := range nonCompliantSample {
			sample[i] = recordCells(rec, columns)
		}
		out.WriteString(renderTable(columns, sample))
	}

	return out.String()
}

func normalizeCompliance(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []byte:
		return strings.ToLower(string(v))
	default:
		return strings.ToLower(fmt.Sprint(v))
	}
}
