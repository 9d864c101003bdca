package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mysqlupdate/internal/config"
	"mysqlupdate/internal/logging"
	"mysqlupdate/internal/metrics"
	"mysqlupdate/internal/metrics/datadog"
	"mysqlupdate/internal/metrics/prompush"
	"mysqlupdate/internal/parser/delimited"
	"mysqlupdate/internal/storage"
	"mysqlupdate/internal/update"
)

// Exit statuses.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const longHelp = `mysqlupdate reads a delimited source file line by line and, for each line,
sets <update column> to the update field wherever <match column> equals the
match field. It stops at the first line that is too short or fails in the
database; rows already updated stay updated.`

func newRootCmd(deps Deps) *cobra.Command {
	opts := config.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "mysqlupdate [flags] <credentials> <table> <match column> <update column> <source> <match field #> <update field #> <delimiter> [quote] [escape]",
		Short: "Update one table column from a delimited source file",
		Long:  longHelp,
		Args:  cobra.ArbitraryArgs,

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args, opts, deps)
		},
	}
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.UsageError{Reason: err.Error()}
	})

	fs := cmd.Flags()
	fs.StringVar(&opts.Driver, "driver", opts.Driver, "storage backend: "+strings.Join(storage.ListKinds(), ", "))
	fs.StringVar(&opts.Encoding, "encoding", opts.Encoding, "source file charset, e.g. utf-8, windows-1250, iso-8859-2")
	fs.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level: trace, debug, info, warn, error")
	fs.StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "log format: console or json")
	fs.IntVar(&opts.ProgressEvery, "progress-every", opts.ProgressEvery, "log progress every N lines, 0 disables")
	fs.StringVar(&opts.MetricsBackend, "metrics-backend", opts.MetricsBackend, "metrics backend: none, pushgateway, datadog")
	fs.StringVar(&opts.PushgatewayURL, "pushgateway-url", opts.PushgatewayURL, "Prometheus Pushgateway base `url`")
	fs.StringVar(&opts.DatadogAddr, "datadog-addr", opts.DatadogAddr, "DogStatsD `address`")
	fs.StringVar(&opts.Job, "job", opts.Job, "job name attached to metrics")
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	return cmd
}

// execute runs the command and maps the outcome to an exit status.
func execute(ctx context.Context, args []string, deps Deps) int {
	cmd := newRootCmd(deps)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case config.IsUsage(err):
		fmt.Fprintln(deps.Stderr, err)
		fmt.Fprintln(deps.Stderr)
		config.WriteUsage(deps.Stderr)
		return exitUsage
	default:
		fmt.Fprintln(deps.Stderr, "error:", err)
		return exitFailure
	}
}

// run is the whole batch: validate, load credentials, connect and prepare,
// stream the source through the driver, report.
func run(ctx context.Context, args []string, opts config.Options, deps Deps) (err error) {
	if err := opts.Validate(); err != nil {
		return err
	}
	cfg, err := config.ParseArgs(args)
	if err != nil {
		return err
	}
	if err := delimited.CheckEncoding(opts.Encoding); err != nil {
		return &config.UsageError{Reason: err.Error()}
	}
	if kinds := storage.ListKinds(); !slices.Contains(kinds, opts.Driver) {
		return &config.UsageError{Reason: fmt.Sprintf("unknown --driver %q (have %s)", opts.Driver, strings.Join(kinds, ", "))}
	}

	log := logging.New(deps.Stderr, opts.LogLevel, opts.LogFormat)
	if len(cfg.Extra) > 0 {
		log.Warn().Strs("ignored", cfg.Extra).Msgf("more than %d arguments given; extras are ignored", config.MaxArgs)
	}

	creds, err := deps.LoadCredentials(cfg.CredentialsPath)
	if err != nil {
		return err
	}

	backend, err := newMetricsBackend(opts)
	if err != nil {
		return err
	}
	if backend != nil {
		metrics.SetBackend(backend)
		defer func() {
			if ferr := metrics.Flush(); ferr != nil {
				log.Warn().Err(ferr).Str("backend", opts.MetricsBackend).Msg("flushing metrics failed")
			}
			metrics.Reset()
		}()
	}

	log.Info().
		Str("driver", opts.Driver).
		Str("server", creds.Server).
		Str("user", creds.User).
		Str("password", creds.Redacted().Password).
		Str("database", creds.Database).
		Msg("connecting")

	u, err := deps.NewUpdater(ctx, storage.Config{Kind: opts.Driver, Credentials: creds, Target: cfg.Spec})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := u.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("closing connection failed")
			if err == nil {
				err = cerr
			}
		}
	}()
	log.Debug().Str("statement", u.Statement()).Msg("statement prepared")

	rc, err := deps.OpenSource(ctx, cfg.SourcePath)
	if err != nil {
		return err
	}
	defer rc.Close()

	src, err := delimited.Decode(rc, opts.Encoding)
	if err != nil {
		return err
	}

	log.Info().Str("source", cfg.SourcePath).Str("table", cfg.Spec.Table).Msg("updating")
	d := update.New(u, cfg.Mapping,
		update.WithLogger(log),
		update.WithJob(opts.Job),
		update.WithProgressEvery(opts.ProgressEvery),
	)
	res, err := d.Run(ctx, src)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Update completed. %d lines updated.\n", res.RowsUpdated)
	return nil
}

func newMetricsBackend(opts config.Options) (metrics.Backend, error) {
	switch strings.ToLower(opts.MetricsBackend) {
	case "pushgateway":
		b, err := prompush.NewBackend(opts.Job, opts.PushgatewayURL)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       opts.DatadogAddr,
			GlobalTags: []string{"job:" + opts.Job},
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, nil
	}
}
