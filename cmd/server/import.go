package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/catalog"
	"github.com/thraizz/realms-server-go/internal/config"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	DatabaseURL string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <catalog-file>",
		Short: "Load a CSV or YAML card catalog into PostgreSQL",
		Long: `Validate every record of a catalog file and upsert the valid ones into
the realm_cards table, creating it when missing. Records are matched by
their normalized name, so re-importing a file updates cards in place.

Example:
  realms import data/cartas.csv --database postgres://localhost/realms
  REALMS_CATALOG_DATABASE_URL=postgres://localhost/realms realms import config/catalog.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.DatabaseURL, "database", "", "PostgreSQL URL (default: catalog.database_url)")

	return cmd
}

// ImportReport is the json output of import.
type ImportReport struct {
	File     string   `json:"file"`
	Read     int      `json:"read"`
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

// fileSource picks a catalog source by file extension.
func fileSource(path string) (catalog.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return catalog.CSVSource{Path: path}, nil
	case ".yaml", ".yml":
		return catalog.YAMLSource{Path: path}, nil
	default:
		return nil, fmt.Errorf("cannot import %s: expected a .csv, .yaml or .yml file", path)
	}
}

// validRecords splits records into those that make a valid definition and
// the reasons the others were skipped.
func validRecords(records []catalog.Record) ([]catalog.Record, []string) {
	valid := make([]catalog.Record, 0, len(records))
	var skipped []string
	for _, rec := range records {
		if _, err := rec.Definition(); err != nil {
			skipped = append(skipped, err.Error())
			continue
		}
		valid = append(valid, rec)
	}
	return valid, skipped
}

func runImport(ctx context.Context, opts *ImportOptions, path string, out io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	databaseURL := opts.DatabaseURL
	if databaseURL == "" {
		databaseURL = cfg.Catalog.DatabaseURL
	}
	if databaseURL == "" {
		return fmt.Errorf("no database: pass --database or set catalog.database_url")
	}

	src, err := fileSource(path)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	records, err := src.Records(ctx)
	if err != nil {
		return err
	}
	valid, skipped := validRecords(records)
	for _, reason := range skipped {
		logger.Warn("skipping record", zap.String("reason", reason))
	}

	pg, err := catalog.NewPostgresSource(ctx, databaseURL, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		return err
	}
	imported, err := pg.Import(ctx, valid)
	if err != nil {
		return err
	}

	report := ImportReport{File: path, Read: len(records), Imported: imported, Skipped: skipped}
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Fprintf(out, "Imported %d of %d cards from %s\n", report.Imported, report.Read, report.File)
	if len(skipped) > 0 {
		fmt.Fprintf(out, "Skipped %d invalid records\n", len(skipped))
	}
	return nil
}
