package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MrEthical07/campusdesk/internal/poll"
	"github.com/MrEthical07/campusdesk/internal/web"
)

// serveConfig holds the flags of the serve command.
type serveConfig struct {
	addr       string
	noPrompter bool
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local portal gateway and background pollers",
		Long: `Run the portal gateway over the persisted session, together with the meal
feedback prompter and the live headcount poller. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			return runServe(ctx, a, cfg)
		}),
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", "", "listen address (overrides gateway.addr)")
	cmd.Flags().BoolVar(&cfg.noPrompter, "no-feedback-prompt", false, "disable the meal feedback prompter")

	return cmd
}

func runServe(ctx context.Context, a *app, cfg *serveConfig) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deskCfg := a.desk.Config()
	stats := poll.NewStatsPoller(a.desk, deskCfg.Polling.StatsInterval, a.log.Named("stats"))
	srv := web.NewServer(a.desk, web.Options{Logger: a.log.Named("gateway"), Stats: stats})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if cfg.addr != "" {
			return srv.ServeAddr(ctx, cfg.addr)
		}
		return srv.Run(ctx)
	})
	g.Go(func() error { return stats.Run(ctx) })
	if !cfg.noPrompter {
		ledger := poll.NewLedger(a.desk.Store().Storage(), a.desk.TimeZone())
		prompter := poll.NewFeedbackPrompter(a.desk, ledger, deskCfg.Polling.FeedbackInterval, a.log.Named("feedback"))
		g.Go(func() error { return prompter.Run(ctx) })
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		a.log.Error("serve stopped", zap.Error(err))
	}
	return err
}
