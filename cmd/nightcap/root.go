package main

import (
	"context"
	"fmt"

	"github.com/FAU-CDI/nightcap"
	"github.com/FAU-CDI/nightcap/internal/config"
	"github.com/FAU-CDI/nightcap/internal/rdfio"
	"github.com/FAU-CDI/nightcap/internal/stats"
	"github.com/FAU-CDI/nightcap/internal/triplestore"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// cspell:words nightcap rdfio

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Engine     string
	Path       string
	LogLevel   string
	Profile    string // directory to write a cpu profile to

	Config config.Config
	Stats  *stats.Stats

	profiler interface{ Stop() }
}

// NewRootCommand creates the root command for the nightcap CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "nightcap",
		Short:         "nightcap - a transactional RDF-star store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.teardown()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "read configuration from the given yaml file")
	cmd.PersistentFlags().StringVar(&opts.Engine, "engine", "", "dictionary engine (memory|leveldb|badger)")
	cmd.PersistentFlags().StringVar(&opts.Path, "path", "", "directory for disk-based dictionary engines")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "minimum level of log messages")
	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", "", "write a cpu profile to the given directory")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// setup reads the configuration and prepares logging
func (opts *RootOptions) setup(cmd *cobra.Command) (err error) {
	opts.Config = config.Default()
	if opts.ConfigPath != "" {
		if opts.Config, err = config.Load(opts.ConfigPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		opts.Config.Engine = opts.Engine
	}
	if flags.Changed("path") {
		opts.Config.Path = opts.Path
	}
	if flags.Changed("log-level") {
		opts.Config.LogLevel = opts.LogLevel
	}
	if err := opts.Config.Validate(); err != nil {
		return err
	}

	level, err := opts.Config.Level()
	if err != nil {
		return err
	}
	opts.Stats = stats.NewStats(cmd.ErrOrStderr(), level)

	if opts.Profile != "" {
		opts.profiler = profile.Start(profile.ProfilePath(opts.Profile), profile.Quiet)
	}
	return nil
}

func (opts *RootOptions) teardown() {
	if opts.profiler != nil {
		opts.profiler.Stop()
	}
	opts.Stats.Log("finished", "took", opts.Stats.Took())
	opts.Stats.Close()
}

// openStore opens a new store using the configured engine
func (opts *RootOptions) openStore(metrics *stats.Metrics) (store *triplestore.Store, err error) {
	err = opts.Stats.DoStage(stats.StageOpen, func() error {
		engine, err := triplestore.NewEngine(opts.Config.Engine, opts.Config.Path)
		if err != nil {
			return err
		}

		store, err = triplestore.Open(triplestore.Options{
			Engine:  engine,
			Stats:   opts.Stats,
			Metrics: metrics,
		})
		return err
	})
	return store, err
}

// load loads all sources found in paths into store
func (opts *RootOptions) load(ctx context.Context, store *triplestore.Store, paths []string) error {
	files, err := nightcap.FindSources(paths...)
	if err != nil {
		return err
	}

	for _, file := range files {
		err := opts.Stats.DoStage(stats.StageLoad, func() error {
			opts.Stats.Log("loading", "file", file)

			count, last, err := rdfio.LoadFile(ctx, store, file, rdfio.LoadOptions{CommitInterval: opts.Config.CommitInterval}, opts.Stats)
			if err != nil {
				return err
			}
			opts.Stats.LogDebug("loaded", "file", file, "statements", count, "snapshot", last)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to load %q: %w", file, err)
		}
	}

	opts.Stats.Log("loaded", "files", len(files), "index", store.Stats())
	return nil
}
