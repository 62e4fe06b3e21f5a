package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/FAU-CDI/nightcap/internal/exporter"
	"github.com/FAU-CDI/nightcap/internal/rdfio"
	"github.com/FAU-CDI/nightcap/internal/stats"
	"github.com/FAU-CDI/nightcap/internal/triplestore"
	"github.com/huandu/go-sqlbuilder"
	"github.com/spf13/cobra"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/go-sql-driver/mysql"
)

// cspell:words sqlbuilder glebarez

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions

	NQuads string // path to write nquads to, "-" for standard output
	Lines  string // path to write encoded statement lines to, "-" for standard output

	SQL    string // data source name of the sql database
	Driver string // sql driver, "sqlite" or "mysql"
	Table  string
}

var errNoExport = errors.New("at least one of --nquads, --lines or --sql is required")

// NewExportCommand creates the export command.
func NewExportCommand(root *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "export file or directory...",
		Short: "Load files into a store and export it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.NQuads == "" && opts.Lines == "" && opts.SQL == "" {
				return errNoExport
			}
			return opts.run(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}

	cmd.Flags().StringVar(&opts.NQuads, "nquads", "", "write statements as nquads to the given path")
	cmd.Flags().StringVar(&opts.Lines, "lines", "", "write statements including triple terms to the given path")
	cmd.Flags().StringVar(&opts.SQL, "sql", "", "write statements into the sql database with the given data source name")
	cmd.Flags().StringVar(&opts.Driver, "driver", "sqlite", "sql driver to use (sqlite|mysql)")
	cmd.Flags().StringVar(&opts.Table, "table", exporter.DefaultTable, "name of the sql table")

	return cmd
}

func (opts *ExportOptions) run(ctx context.Context, stdout io.Writer, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := opts.openStore(nil)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := opts.load(ctx, store, args); err != nil {
		return err
	}

	return store.View(func(txn *triplestore.ReadTxn) error {
		if opts.NQuads != "" {
			err := opts.Stats.DoStage(stats.StageExportNQuads, func() error {
				return writeTo(opts.NQuads, stdout, func(w io.Writer) error {
					written, skipped, err := rdfio.WriteQuads(w, txn)
					opts.Stats.Log("wrote nquads", "statements", written, "skipped", skipped)
					return err
				})
			})
			if err != nil {
				return err
			}
		}

		if opts.Lines != "" {
			err := opts.Stats.DoStage(stats.StageExportLines, func() error {
				return writeTo(opts.Lines, stdout, func(w io.Writer) error {
					written, err := rdfio.WriteLines(w, txn)
					opts.Stats.Log("wrote lines", "statements", written)
					return err
				})
			})
			if err != nil {
				return err
			}
		}

		if opts.SQL != "" {
			return opts.Stats.DoStage(stats.StageExportSQL, func() error {
				return opts.exportSQL(txn)
			})
		}
		return nil
	})
}

// writeTo calls f with a writer for path, or stdout if path is "-"
func writeTo(path string, stdout io.Writer, f func(w io.Writer) error) (e error) {
	if path == "-" {
		return f(stdout)
	}

	file, err := os.Create(path) // #nosec G304 -- explicit parameter
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer func() {
		if e2 := file.Close(); e2 != nil {
			e = errors.Join(e, fmt.Errorf("failed to close %q: %w", path, e2))
		}
	}()
	return f(file)
}

func (opts *ExportOptions) exportSQL(txn *triplestore.ReadTxn) (e error) {
	export := &exporter.SQL{
		Table:     opts.Table,
		BatchSize: 1000,
	}
	switch opts.Driver {
	case "sqlite":
		export.Flavor = sqlbuilder.SQLite
		export.MaxQueryVar = 999
	case "mysql":
		export.Flavor = sqlbuilder.MySQL
		export.MaxQueryVar = 65535
	default:
		return fmt.Errorf("unknown sql driver %q", opts.Driver)
	}

	db, err := sql.Open(opts.Driver, opts.SQL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if e2 := db.Close(); e2 != nil {
			e = errors.Join(e, fmt.Errorf("failed to close database: %w", e2))
		}
	}()
	export.DB = db

	count, err := export.Export(txn, opts.Stats)
	if err != nil {
		return err
	}
	opts.Stats.Log("wrote sql", "statements", count, "table", export.Table)
	return nil
}
