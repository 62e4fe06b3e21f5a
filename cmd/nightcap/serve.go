package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/FAU-CDI/nightcap/internal/server"
	"github.com/FAU-CDI/nightcap/internal/stats"
	"github.com/FAU-CDI/nightcap/pkg/protocol"
	"github.com/pkg/browser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions

	Listen      string
	DebugListen string
	Repository  string
	Open        bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(root *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "serve [file or directory...]",
		Short: "Serve a store over http",
		Long:  "Serve a store over http, optionally loading the given files into it first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("listen") {
				opts.Config.Listen = opts.Listen
			}
			if flags.Changed("debug-listen") {
				opts.Config.DebugListen = opts.DebugListen
			}
			if flags.Changed("repository") {
				opts.Config.Repository = opts.Repository
			}
			if err := opts.Config.Validate(); err != nil {
				return err
			}
			return opts.run(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVarP(&opts.Listen, "listen", "l", "", "address to listen on")
	cmd.Flags().StringVar(&opts.DebugListen, "debug-listen", "", "start a profiling server on the given address")
	cmd.Flags().StringVar(&opts.Repository, "repository", "", "id of the served repository")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "open the list of repositories in a browser")

	return cmd
}

const readHeaderTimeout = 10 * time.Second

func (opts *ServeOptions) run(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := opts.openStore(stats.NewMetrics(reg))
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) > 0 {
		if err := opts.load(ctx, store, args); err != nil {
			return err
		}
	}

	// start listening before anything is served, so that the address is known
	listener, err := net.Listen("tcp", opts.Config.Listen)
	if err != nil {
		return err
	}
	location := "http://" + listener.Addr().String()
	opts.Stats.Log("listen", "addr", listener.Addr(), "repository", protocol.RepositoryLocation(location, opts.Config.Repository))

	handler := &server.Server{
		Store:      store,
		Repository: opts.Config.Repository,
		Stats:      opts.Stats,
		Gatherer:   reg,
	}

	g, gctx := errgroup.WithContext(ctx)

	servers := []*http.Server{{Handler: handler, ReadHeaderTimeout: readHeaderTimeout}}
	listeners := []net.Listener{listener}
	if opts.Config.DebugListen != "" {
		debug, err := net.Listen("tcp", opts.Config.DebugListen)
		if err != nil {
			listener.Close()
			return err
		}
		opts.Stats.Log("debug server listening", "addr", debug.Addr())

		servers = append(servers, &http.Server{Handler: debugRouter(), ReadHeaderTimeout: readHeaderTimeout})
		listeners = append(listeners, debug)
	}

	for i, srv := range servers {
		g.Go(func() error {
			if err := srv.Serve(listeners[i]); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()

			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdown)
		})
	}

	g.Go(func() error {
		return store.RunGC(gctx, opts.Config.GCInterval)
	})

	if opts.Open {
		if err := browser.OpenURL(protocol.RepositoriesLocation(location)); err != nil {
			opts.Stats.LogError("open browser", err)
		}
	}

	return opts.Stats.DoStage(stats.StageServe, g.Wait)
}
