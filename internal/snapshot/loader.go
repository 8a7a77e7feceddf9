package snapshot

import (
	"encoding/json"
	"os"
)

// LoadStatus classifies the outcome of reading a snapshot file. Every
// non-Loaded status is non-fatal: the caller logs the cause and continues
// with an empty table.
type LoadStatus int

const (
	// Loaded means the snapshot was read and the table populated.
	Loaded LoadStatus = iota
	// NotFound means the file does not exist; the extractor has not run yet.
	NotFound
	// Corrupted means the file exists but is not valid JSON.
	Corrupted
	// BadStructure means the JSON is valid but data_records is missing or
	// not an array of objects.
	BadStructure
)

func (s LoadStatus) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case NotFound:
		return "not_found"
	case Corrupted:
		return "corrupted"
	case BadStructure:
		return "bad_structure"
	default:
		return "unknown"
	}
}

// LoadResult reports how a load attempt went, with the underlying error for
// the log line when there is one.
type LoadResult struct {
	Status LoadStatus
	Path   string
	Err    error
}

// Load reads the snapshot at path into a table. The returned table is empty
// for every status other than Loaded.
func Load(path string) (Table, LoadResult) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, LoadResult{Status: NotFound, Path: path, Err: err}
		}
		return Table{}, LoadResult{Status: Corrupted, Path: path, Err: err}
	}

	if !json.Valid(b) {
		return Table{}, LoadResult{Status: Corrupted, Path: path}
	}

	var raw struct {
		DataRecords json.RawMessage `json:"data_records"`
	}
	if err := json.Unmarshal(b, &raw); err != nil || len(raw.DataRecords) == 0 || string(raw.DataRecords) == "null" {
		return Table{}, LoadResult{Status: BadStructure, Path: path, Err: err}
	}

	var records []Record
	if err := json.Unmarshal(raw.DataRecords, &records); err != nil {
		return Table{}, LoadResult{Status: BadStructure, Path: path, Err: err}
	}

	return NewTable(records), LoadResult{Status: Loaded, Path: path}
}
