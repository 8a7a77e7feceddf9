// Package extractor orchestrates stage one of the pipeline: run every
// configured warehouse query and persist the results as JSON snapshots.
// Per-query failures are logged and skipped, never fatal.
package extractor

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/redhat-cee/telesense/internal/snapshot"
	"github.com/redhat-cee/telesense/internal/warehouse"
)

const defaultOutputDir = "telemetry_json_output"

// Warehouse is the slice of the warehouse client the extractor needs.
type Warehouse interface {
	FetchPages(ctx context.Context, q warehouse.Query, pageSize int) (snapshot.Table, error)
}

type Config struct {
	Logger    *slog.Logger
	Warehouse Warehouse
	Queries   []warehouse.Query

	// Optional with defaults.
	Clock     clockwork.Clock
	OutputDir string
	PageSize  int
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.Warehouse == nil {
		return errors.New("warehouse is required")
	}
	if len(c.Queries) == 0 {
		return errors.New("at least one query is required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.PageSize == 0 {
		c.PageSize = warehouse.DefaultPageSize
	}
	if c.PageSize < 0 {
		return errors.New("page size must be > 0")
	}
	return nil
}

type Extractor struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{cfg: cfg, log: cfg.Logger}, nil
}

// Run executes every configured query and writes one snapshot per query that
// returned rows. A query that fails or comes back empty is logged and
// skipped; an existing snapshot for it is left untouched. Run itself only
// fails on context cancellation.
func (e *Extractor) Run(ctx context.Context) error {
	for _, q := range e.cfg.Queries {
		if err := ctx.Err(); err != nil {
			return err
		}

		started := e.cfg.Clock.Now()
		table, err := e.cfg.Warehouse.FetchPages(ctx, q, e.cfg.PageSize)
		if err != nil {
			e.log.Error("query failed, treating as no data", "query", q.Name, "error", err)
			continue
		}
		if table.Empty() {
			e.log.Info("no rows fetched, skipping snapshot write", "query", q.Name)
			continue
		}

		doc := snapshot.Document{
			TableName:   q.Name,
			Description: q.Description,
			DataSchema:  snapshot.InferSchema(table),
			DataRecords: table.Records,
		}

		path := filepath.Join(e.cfg.OutputDir, snapshot.FileName(q.Name))
		if err := snapshot.Write(path, doc); err != nil {
			e.log.Error("failed to write snapshot", "query", q.Name, "path", path, "error", err)
			continue
		}

		e.log.Info("snapshot written",
			"query", q.Name,
			"path", path,
			"rows", len(table.Records),
			"columns", len(table.Columns),
			"elapsed", e.cfg.Clock.Since(started))
	}
	return nil
}
