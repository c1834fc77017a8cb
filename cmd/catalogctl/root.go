package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/riskibarqy/golf-catalog/internal/app"
	"github.com/riskibarqy/golf-catalog/internal/config"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"github.com/spf13/cobra"
)

const closeTimeout = 30 * time.Second

type deps struct {
	loadConfig func() (config.Config, error)
	appOptions []app.Option
}

func defaultDeps() deps {
	return deps{loadConfig: config.Load}
}

type rootFlags struct {
	logLevel string
}

func newRootCommand(d deps) *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Operate the golf course catalog",
		Long: `catalogctl runs catalog maintenance against the configured store.

It reads the same environment as the API service, so a local .env file is honored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (defaults to APP_LOG_LEVEL)")

	cmd.AddCommand(newSyncCommand(d, flags))
	cmd.AddCommand(newOrphansCommand(d, flags))
	cmd.AddCommand(newRunsCommand(d, flags))

	return cmd
}

// openApp loads configuration and wires the catalog with a console logger on stderr.
func openApp(ctx context.Context, cmd *cobra.Command, d deps, flags *rootFlags, extra ...app.Option) (*app.App, *logging.Logger, error) {
	cfg, err := d.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if flags.logLevel != "" {
		level = logging.ParseLevel(flags.logLevel)
	}
	logger := logging.NewConsole(level, cmd.ErrOrStderr())
	logging.SetDefault(logger)

	opts := append(append([]app.Option{}, d.appOptions...), extra...)
	application, err := app.New(ctx, cfg, logger, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("build app: %w", err)
	}
	return application, logger, nil
}

func closeApp(application *app.App, logger *logging.Logger) {
	if err := application.Close(closeTimeout); err != nil {
		logger.Warn("close app failed", "error", err)
	}
	_ = logger.Sync()
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
