// File path: cmd/trialstream/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mkarlsen/trialstream/internal/api"
	"github.com/mkarlsen/trialstream/internal/common"
	"github.com/mkarlsen/trialstream/internal/config"
	"github.com/mkarlsen/trialstream/internal/pipeline"
	"github.com/mkarlsen/trialstream/internal/sqlite"
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// runFlags are CLI overrides layered on top of env-derived configuration.
type runFlags struct {
	maxRecords     int
	pageSize       int
	extractionDate string
	dbPath         string
	rawDir         string
}

func (f runFlags) apply(cfg *config.Config) {
	if f.maxRecords > 0 {
		cfg.MaxRecords = f.maxRecords
	}
	if f.pageSize > 0 {
		cfg.PageSize = f.pageSize
	}
	if f.extractionDate != "" {
		cfg.ExtractionDate = f.extractionDate
	}
	if f.dbPath != "" {
		cfg.DatabasePath = f.dbPath
	}
	if f.rawDir != "" {
		cfg.RawDataDir = f.rawDir
	}
}

func main() {
	logger := common.Logger()
	if err := godotenv.Load(); err != nil {
		logger.Debug("trialstream: .env file not loaded", "error", err)
	}

	root := &cobra.Command{
		Use:           "trialstream",
		Short:         "Clinical trial registry ETL pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var flags runFlags
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the full extract-transform-load pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), flags)
		},
	}
	f := runCmd.Flags()
	f.IntVar(&flags.maxRecords, "max-records", 0, "Maximum number of records to extract (0 uses configuration)")
	f.IntVar(&flags.pageSize, "page-size", 0, "Records per page request (0 uses configuration)")
	f.StringVar(&flags.extractionDate, "extraction-date", "", "Extraction date recorded in run metadata (YYYY-MM-DD)")
	f.StringVar(&flags.dbPath, "db", "", "SQLite database path")
	f.StringVar(&flags.rawDir, "raw-dir", "", "Directory for raw JSONL archives")

	var initReset bool
	var initDB string
	initCmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create or migrate the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitDB(initDB, initReset)
		},
	}
	initCmd.Flags().StringVar(&initDB, "db", "", "SQLite database path")
	initCmd.Flags().BoolVar(&initReset, "reset", false, "Delete the existing database file before migrating")

	var validateDB string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Run post-load integrity checks and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), validateDB)
		},
	}
	validateCmd.Flags().StringVar(&validateDB, "db", "", "SQLite database path")

	var serveAddr, serveDB string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only API over a loaded database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(serveAddr, serveDB)
		},
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8084", "Listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path")

	root.AddCommand(runCmd, initCmd, validateCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig(overlay func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, codeError(1, "load configuration: %v", err)
	}
	if overlay != nil {
		overlay(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, codeError(1, "invalid configuration: %v", err)
	}
	return cfg, nil
}

func runPipeline(ctx context.Context, flags runFlags) error {
	cfg, err := loadConfig(flags.apply)
	if err != nil {
		return err
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return codeError(1, "open store: %v", err)
	}
	defer store.Close()

	report, err := pipeline.New(cfg, store).Run(ctx)
	printReport(report)
	if err != nil {
		return codeError(1, "pipeline failed: %v", err)
	}
	return nil
}

func runInitDB(dbPath string, reset bool) error {
	cfg, err := loadConfig(func(c *config.Config) {
		if dbPath != "" {
			c.DatabasePath = dbPath
		}
	})
	if err != nil {
		return err
	}
	if reset {
		if err := os.Remove(cfg.DatabasePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return codeError(1, "remove database: %v", err)
		}
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return codeError(1, "open store: %v", err)
	}
	defer store.Close()
	fmt.Printf("database ready at %s\n", cfg.DatabasePath)
	return nil
}

func runValidate(ctx context.Context, dbPath string) error {
	cfg, err := loadConfig(func(c *config.Config) {
		if dbPath != "" {
			c.DatabasePath = dbPath
		}
	})
	if err != nil {
		return err
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return codeError(1, "open store: %v", err)
	}
	defer store.Close()

	report, err := store.Validate(ctx)
	if err != nil {
		return codeError(1, "validation failed: %v", err)
	}
	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return codeError(1, "encode report: %v", err)
	}
	fmt.Println(string(encoded))
	if report.OrphanTotal() > 0 || report.DuplicateNCTIDs > 0 {
		return codeError(2, "integrity violations found")
	}
	return nil
}

func runServe(addr, dbPath string) error {
	cfg, err := loadConfig(func(c *config.Config) {
		if dbPath != "" {
			c.DatabasePath = dbPath
		}
	})
	if err != nil {
		return err
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return codeError(1, "open store: %v", err)
	}
	defer store.Close()

	server, err := api.NewServer(store, nil)
	if err != nil {
		return codeError(1, "build server: %v", err)
	}
	common.Logger().Info("trialstream: serving", "addr", addr, "db", cfg.DatabasePath)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		return codeError(1, "serve: %v", err)
	}
	return nil
}

func printReport(report pipeline.Report) {
	fmt.Printf("run %s: %s\n", report.RunID, report.State)
	fmt.Printf("  extracted:   %d\n", report.Extracted)
	fmt.Printf("  transformed: %d\n", report.Transformed)
	fmt.Printf("  loaded:      %d (inserted %d, updated %d)\n",
		report.Loaded, report.LoadStats.Inserted, report.LoadStats.Updated)
	if len(report.Rejections) > 0 {
		fmt.Printf("  rejected:    %d\n", len(report.Rejections))
	}
	if len(report.LoadFailures) > 0 {
		fmt.Printf("  load failures: %d\n", len(report.LoadFailures))
	}
	if report.ArchivePath != "" {
		fmt.Printf("  archive:     %s\n", report.ArchivePath)
	}
	if v := report.Validation; v != nil {
		fmt.Printf("  validation:  %d studies, %d orphans, %d duplicate ids, %d date violations\n",
			v.Counts["studies"], v.OrphanTotal(), v.DuplicateNCTIDs, v.DateViolations)
	}
}
