package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/redhat-cee/telesense/internal/extractor"
	"github.com/redhat-cee/telesense/internal/report"
	"github.com/redhat-cee/telesense/internal/snapshot"
	"github.com/redhat-cee/telesense/internal/warehouse"
)

const defaultSnapshotDir = "telemetry_json_output"

var (
	verbose     bool
	snapshotDir string

	pageSize      int
	lookbackYears int
	rowCap        int

	windowDays int
	topModules int

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "telesense",
	Short: "Ansible fleet telemetry extraction and reporting",
	Long: `Telesense extracts denormalized Ansible telemetry from the analytics
warehouse into a JSON snapshot, and renders operator-facing summary reports
(job health, module usage, cluster compliance) from that snapshot.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("telesense %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract telemetry from the warehouse into a JSON snapshot",
	Long: `Run every configured warehouse query and write one snapshot file per
query that returned rows. Queries that fail or come back empty are logged and
skipped; existing snapshots are left untouched in that case.`,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(verbose)

		// Optional .env next to the binary; real deployments set the
		// TELESENSE_DB_* variables directly.
		if err := godotenv.Load(); err == nil {
			log.Debug("loaded .env file")
		}

		client, err := warehouse.Open(log, warehouse.ConfigFromEnv())
		if err != nil {
			log.Error("Operation failed: open_warehouse", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		ext, err := extractor.New(extractor.Config{
			Logger:    log,
			Warehouse: client,
			Queries:   warehouse.Queries(lookbackYears, rowCap),
			OutputDir: snapshotDir,
			PageSize:  pageSize,
		})
		if err != nil {
			log.Error("Operation failed: new_extractor", "error", err)
			os.Exit(1)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		log.Info("Operation started: extract", "output_dir", snapshotDir)
		if err := ext.Run(ctx); err != nil {
			log.Error("Operation failed: extract", "error", err)
			os.Exit(1)
		}
		log.Info("Operation completed: extract")
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render summary reports from the latest snapshot",
}

var reportJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Job run summary for the last N days",
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(verbose)
		table := loadSnapshot(log)
		rep := newReporter(log)
		fmt.Println(rep.JobRunSummary(table, windowDays))
	},
}

var reportModulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Top modules by invocation count",
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(verbose)
		table := loadSnapshot(log)
		rep := newReporter(log)
		fmt.Println(rep.TopModules(table, topModules))
	},
}

var reportComplianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Cluster compliance summary",
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(verbose)
		table := loadSnapshot(log)
		rep := newReporter(log)
		fmt.Println(rep.ClusterCompliance(table))
	},
}

var reportAllCmd = &cobra.Command{
	Use:   "all",
	Short: "All three reports in order",
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(verbose)
		table := loadSnapshot(log)
		rep := newReporter(log)
		fmt.Println(rep.JobRunSummary(table, windowDays))
		fmt.Println(rep.TopModules(table, topModules))
		fmt.Println(rep.ClusterCompliance(table))
	},
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func newReporter(log *slog.Logger) *report.Reporter {
	rep, err := report.New(report.Config{Logger: log})
	if err != nil {
		log.Error("Operation failed: new_reporter", "error", err)
		os.Exit(1)
	}
	return rep
}

// loadSnapshot reads the snapshot the extractor produced. Every failure mode
// is non-fatal: the specific cause is logged and the reports run against an
// empty table.
func loadSnapshot(log *slog.Logger) snapshot.Table {
	path := filepath.Join(snapshotDir, snapshot.FileName(warehouse.TelemetryQueryName))
	table, result := snapshot.Load(path)
	switch result.Status {
	case snapshot.Loaded:
		log.Info("snapshot loaded", "path", path, "rows", len(table.Records))
	case snapshot.NotFound:
		log.Warn("snapshot not found; run `telesense extract` first", "path", path)
	case snapshot.Corrupted:
		log.Warn("snapshot file is corrupted", "path", path, "error", result.Err)
	case snapshot.BadStructure:
		log.Warn("snapshot file has unexpected structure (missing data_records array)", "path", path)
	}
	return table
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&snapshotDir, "snapshot-dir", defaultSnapshotDir, "Directory holding snapshot files")

	extractCmd.Flags().IntVar(&pageSize, "page-size", warehouse.DefaultPageSize, "Rows fetched per page")
	extractCmd.Flags().IntVar(&lookbackYears, "lookback-years", warehouse.DefaultLookbackYears, "Extraction lookback window in years")
	extractCmd.Flags().IntVar(&rowCap, "row-cap", warehouse.DefaultRowCap, "Maximum rows extracted per query (sampling limit)")

	reportCmd.PersistentFlags().IntVar(&windowDays, "days", report.DefaultWindowDays, "Job summary window length in days")
	reportCmd.PersistentFlags().IntVar(&topModules, "top", report.DefaultTopModules, "Number of module groups to rank")

	reportCmd.AddCommand(reportJobsCmd)
	reportCmd.AddCommand(reportModulesCmd)
	reportCmd.AddCommand(reportComplianceCmd)
	reportCmd.AddCommand(reportAllCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
