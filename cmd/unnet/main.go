package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"unnet/citegraph/store/cockroachdb"
	"unnet/citegraph/store/csvfile"
	"unnet/config"
	"unnet/graphstats"
	"unnet/logging"
	"unnet/progress"
	"unnet/service"
)

var (
	appName = "unnet"
	appSha  = "populated-at-link-time"
	logger  *logrus.Entry
	line    *progress.Line
	cfg     *config.Config
	force   bool
)

func main() {
	cfg = config.Load()

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Build and analyze the citation graph of a UN documents corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			rootLogger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
			line = progress.New(os.Stderr)
			rootLogger.AddHook(line)
			logger = rootLogger.WithFields(logrus.Fields{
				"app": appName,
				"sha": appSha,
			})
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			_, err = svc.Run(cmd.Context())
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "root of the XML corpus")
	flags.StringVar(&cfg.EdgeFile, "edges", cfg.EdgeFile, "location of the edge file")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of files parsed concurrently")
	flags.BoolVar(&cfg.Strict, "strict", cfg.Strict, "abort the analysis on the first malformed edge line")
	flags.BoolVar(&cfg.PermissiveXML, "permissive", cfg.PermissiveXML, "tolerate common XML syntax errors")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text or json)")
	rootCmd.Flags().BoolVar(&force, "force", false, "rebuild the edge file even if it exists")

	rootCmd.AddCommand(scanCmd(), analyzeCmd(), exportCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.WithField("err", err).Error("shutting down due to error")
		} else {
			logrus.WithField("err", err).Error("shutting down due to error")
		}
		stop()
		os.Exit(1)
	}
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Extract the edge file from the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			_, err = svc.Scan(cmd.Context())
			return err
		},
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Report degree statistics of an existing edge file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			_, err = svc.Analyze()
			return err
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the edge file and node degrees into CockroachDB",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return export(cfg.DBDSN)
		},
	}
	cmd.Flags().StringVar(&cfg.DBDSN, "dsn", cfg.DBDSN, "database connection string")
	return cmd
}

func newService() (*service.Service, error) {
	return service.New(service.Config{
		DataDir:    cfg.DataDir,
		EdgeFile:   cfg.EdgeFile,
		Workers:    cfg.Workers,
		Strict:     cfg.Strict,
		Permissive: cfg.PermissiveXML,
		Force:      force,
		Progress:   line,
		Logger:     logger,
	})
}

func export(dsn string) error {
	if dsn == "" {
		return xerrors.New("export: no database connection string provided")
	}
	store, err := cockroachdb.NewCockroachDBGraph(dsn)
	if err != nil {
		return xerrors.Errorf("export: %w", err)
	}
	defer func() { _ = store.Close() }()

	opts := csvfile.Options{Strict: cfg.Strict, Logger: logger}
	r, err := csvfile.Open(cfg.EdgeFile, opts)
	if err != nil {
		return xerrors.Errorf("export: %w", err)
	}
	defer func() { _ = r.Close() }()

	w, err := store.BeginRun(cfg.EdgeFile)
	if err != nil {
		return xerrors.Errorf("export: %w", err)
	}
	acc := graphstats.NewAccumulator()
	for r.Next() {
		edge := r.Edge()
		acc.Observe(edge)
		if err = w.WriteEdge(edge); err != nil {
			_ = w.Abort()
			return xerrors.Errorf("export: %w", err)
		}
	}
	if err = r.Error(); err != nil {
		_ = w.Abort()
		return xerrors.Errorf("export: %w", err)
	}
	if err = w.Close(); err != nil {
		return xerrors.Errorf("export: %w", err)
	}
	if err = store.SaveNodes(w.ID, acc.Nodes()); err != nil {
		return xerrors.Errorf("export: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"run_id": w.ID.String(),
		"edges":  w.EdgeCount(),
		"nodes":  len(acc.Nodes()),
	}).Info("exported network")
	return nil
}
