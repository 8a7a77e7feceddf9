package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/redhat-cee/telesense/internal/snapshot"
)

// DefaultPageSize bounds how many rows accumulate before a page boundary is
// logged. With the default row cap this is effectively one page.
const DefaultPageSize = 50000

// Client wraps a single warehouse connection. The connection is established
// lazily on the first query, so Open only fails on invalid configuration;
// connectivity problems surface from FetchPages where the caller's fail-soft
// handling lives.
type Client struct {
	log *slog.Logger
	db  *sql.DB
}

func Open(log *slog.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid warehouse config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}
	// One connection per run; no pooling by design.
	db.SetMaxOpenConns(1)

	log.Debug("warehouse client configured",
		"host", cfg.Host, "port", cfg.Port, "database", cfg.Database, "user", cfg.User)

	return &Client{log: log, db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// FetchPages executes the query and drains the result in pages of pageSize
// rows, concatenating them in warehouse return order. Rows are scanned
// generically by column name so the query projection can change without
// touching this code.
func (c *Client) FetchPages(ctx context.Context, q Query, pageSize int) (snapshot.Table, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	c.log.Info("fetching warehouse data", "query", q.Name, "page_size", pageSize)

	rows, err := c.db.QueryContext(ctx, q.SQL)
	if err != nil {
		return snapshot.Table{}, fmt.Errorf("failed to execute query %s: %w", q.Name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return snapshot.Table{}, fmt.Errorf("failed to get columns for query %s: %w", q.Name, err)
	}

	var records []snapshot.Record
	page, inPage := 1, 0
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return snapshot.Table{}, fmt.Errorf("failed to scan row for query %s: %w", q.Name, err)
		}

		rec := make(snapshot.Record, len(columns))
		for i, col := range columns {
			rec[col] = normalizeValue(values[i])
		}
		records = append(records, rec)

		inPage++
		if inPage == pageSize {
			c.log.Info("fetched page", "query", q.Name, "page", page, "rows", inPage)
			page++
			inPage = 0
		}
	}
	if err := rows.Err(); err != nil {
		return snapshot.Table{}, fmt.Errorf("failed while iterating query %s: %w", q.Name, err)
	}
	if inPage > 0 {
		c.log.Info("fetched page", "query", q.Name, "page", page, "rows", inPage)
	}

	return snapshot.Table{Columns: columns, Records: records}, nil
}

// normalizeValue keeps record values to the small set the snapshot layer
// understands. lib/pq hands text columns back as []byte.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
