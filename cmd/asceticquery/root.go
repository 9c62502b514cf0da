package main

import (
	"io"
	"log/slog"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/config"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/query"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/schema"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/session"
)

var validFormats = []string{"yaml", "json"}

type rootOptions struct {
	ConfigPath string
	SchemaPath string
	Format     string
	Verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "asceticquery",
		Short:         "Run queries through the ascetic query factory",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return errors.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "database config file (YAML)")
	cmd.PersistentFlags().StringVarP(&opts.SchemaPath, "schema", "s", "", "entity schema file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "yaml", "output format (yaml|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every query")

	cmd.AddCommand(newNativeCommand(opts))
	cmd.AddCommand(newTextCommand(opts))
	cmd.AddCommand(newExecCommand(opts))
	cmd.AddCommand(newScalarCommand(opts))
	cmd.AddCommand(newConfigCommand(opts))

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// withFactory opens the configured database and hands a query factory bound
// to one session to fn.
func withFactory(cmd *cobra.Command, opts *rootOptions, fn func(*query.Factory) error) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	registry := schema.NewRegistry()
	if opts.SchemaPath != "" {
		if registry, err = schema.LoadFile(opts.SchemaPath); err != nil {
			return err
		}
	}
	dialect, err := query.DialectFor(cfg.Driver)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, closePool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePool()

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	return pool.Session(ctx, func(s session.Session) error {
		dbSession, ok := session.ExtractDbSession(s)
		if !ok {
			return errors.Errorf("%T is not a database session", s)
		}
		detach := session.NewQueryLogger(logger, session.WithSlowThreshold(cfg.SlowThreshold)).Observe(dbSession)
		defer detach()
		return fn(query.NewFactory(dbSession, registry, query.WithDialect(dialect)))
	})
}

func newConfigCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective database configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
