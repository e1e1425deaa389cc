package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/internal/logging"
)

// Origin tags notices raised from the command line.
const Origin = "cli"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	baseURL    string
	storage    string
	logLevel   string
	logFormat  string
	jsonOutput bool

	// lookup reads the environment; tests replace it.
	lookup func(string) (string, bool)
}

func (o *globalOptions) apply(cfg *campusdesk.Config) {
	if o.baseURL != "" {
		cfg.API.BaseURL = o.baseURL
	}
	if o.storage != "" {
		cfg.Storage.Backend = campusdesk.StorageBackend(o.storage)
	}
}

// NewRootCmd creates the root command for the campusdesk CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{lookup: os.LookupEnv}

	cmd := &cobra.Command{
		Use:   "campusdesk",
		Short: "campusdesk - hostel and mess portal client",
		Long: `campusdesk signs in to the campus backend and drives the student, hostel,
mess and super-admin portals from the terminal or through a local gateway.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file path (default $XDG_CONFIG_HOME/campusdesk/config.yaml)")
	pf.StringVar(&opts.baseURL, "api", "", "backend base URL")
	pf.StringVar(&opts.storage, "storage", "", "session storage: file, redis or memory")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	pf.StringVar(&opts.logFormat, "log-format", string(logging.FormatConsole), "log format: json or console")
	pf.BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newWhoamiCmd(opts))
	cmd.AddCommand(newRegisterCmd(opts))
	cmd.AddCommand(newForgotCmd(opts))
	cmd.AddCommand(newResetCmd(opts))
	cmd.AddCommand(newComplaintsCmd(opts))
	cmd.AddCommand(newInvitesCmd(opts))
	cmd.AddCommand(newMealsCmd(opts))
	cmd.AddCommand(newScheduleCmd(opts))
	cmd.AddCommand(newFeedbackCmd(opts))
	cmd.AddCommand(newChatCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}

// app is one command's desk, logger and output.
type app struct {
	desk *campusdesk.Desk
	log  *zap.Logger
	out  io.Writer
	json bool
}

// openApp builds the desk from configuration and restores the persisted session. An
// expired session is dropped silently; the command then runs signed out.
func openApp(cmd *cobra.Command, opts *globalOptions) (*app, context.Context, error) {
	cfg, err := loadConfig(opts, opts.lookup)
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(opts.logLevel, logging.Format(opts.logFormat))
	if err != nil {
		return nil, nil, err
	}
	for _, w := range cfg.Lint() {
		log.Warn("config lint", zap.String("code", w.Code), zap.Stringer("severity", w.Severity), zap.String("message", w.Message))
	}

	sink := campusdesk.MultiSink{
		noticePrinter{w: cmd.ErrOrStderr(), quiet: opts.jsonOutput},
		campusdesk.LogSink{Logger: log},
	}
	desk, err := campusdesk.New().
		WithConfig(cfg).
		WithLogger(log).
		WithNoticeSink(sink).
		Build()
	if err != nil {
		return nil, nil, err
	}

	ctx := campusdesk.WithRequestOrigin(cmd.Context(), Origin)
	if _, err := desk.Restore(ctx); err != nil && !errors.Is(err, campusdesk.ErrSessionExpired) {
		desk.Close()
		return nil, nil, err
	}

	return &app{desk: desk, log: log, out: cmd.OutOrStdout(), json: opts.jsonOutput}, ctx, nil
}

// Close flushes pending notices and the logger.
func (a *app) Close() {
	a.desk.Close()
	_ = a.log.Sync()
}

// print writes v as indented JSON under --json and calls text otherwise.
func (a *app) print(v interface{}, text func(w io.Writer)) error {
	if a.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(a.out)
	return nil
}

// withApp runs fn against a freshly opened app and closes it afterwards.
func withApp(opts *globalOptions, fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, ctx, err := openApp(cmd, opts)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a, cmd, args)
	}
}

// noticePrinter shows notices on stderr the way the portal shows toasts.
type noticePrinter struct {
	w     io.Writer
	quiet bool
}

func (p noticePrinter) Emit(_ context.Context, n campusdesk.Notice) {
	if p.quiet || p.w == nil {
		return
	}
	fmt.Fprintf(p.w, "[%s] %s\n", strings.ToUpper(string(n.Level)), n.Message)
}
