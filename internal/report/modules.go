package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/redhat-cee/telesense/internal/snapshot"
)

// DefaultTopModules is the module ranking depth when the caller does not
// choose one.
const DefaultTopModules = 10

var moduleColumns = []string{"collection_name", "module_name", "module_invocation_count"}

type moduleKey struct {
	collection string
	module     string
}

// TopModules ranks (collection, module) pairs by summed invocation count over
// the whole snapshot window. Rows with a nil, empty or "nan" module name are
// dropped; non-numeric invocation counts contribute 0. Ties keep first-seen
// order (stable sort).
func (r *Reporter) TopModules(t snapshot.Table, topN int) string {
	if topN <= 0 {
		return fmt.Sprintf("Top module count must be a positive number, got %d.", topN)
	}
	if t.Empty() {
		return "No telemetry data available to analyze for modules."
	}
	for _, col := range moduleColumns {
		if !t.HasColumn(col) {
			return fmt.Sprintf("Missing %q column in snapshot data for module analysis; check the extractor query.", col)
		}
	}

	sums := make(map[moduleKey]float64)
	var order []moduleKey
	dropped := 0
	for _, rec := range t.Records {
		module, ok := rec.String("module_name")
		if !ok || module == "" || module == "nan" {
			dropped++
			continue
		}
		collection, _ := rec.String("collection_name")
		count, _ := rec.Float("module_invocation_count")

		key := moduleKey{collection: collection, module: module}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += count
	}
	if dropped > 0 {
		r.log.Debug("dropped rows without a usable module name", "rows", dropped)
	}
	if len(order) == 0 {
		return "No valid module usage data after cleaning."
	}

	sort.SliceStable(order, func(i, j int) bool {
		return sums[order[i]] > sums[order[j]]
	})
	if len(order) > topN {
		order = order[:topN]
	}

	var out strings.Builder
	fmt.Fprintf(&out, "## Top %d Ansible Modules Used (Last Year):\n\n", topN)

	rows := make([][]string, len(order))
	for i, key := range order {
		rows[i] = []string{key.collection, key.module, formatValue(sums[key])}
	}
	out.WriteString(renderTable(moduleColumns, rows))

	return out.String()
}
