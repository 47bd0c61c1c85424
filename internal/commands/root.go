package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/payiter/internal/buildinfo"
	"github.com/cleared-dev/payiter/internal/config"
	"github.com/cleared-dev/payiter/internal/lending"
	"github.com/cleared-dev/payiter/internal/logging"
	"github.com/cleared-dev/payiter/internal/model"
	"github.com/cleared-dev/payiter/internal/payment"
	"github.com/cleared-dev/payiter/internal/runlog"
	"github.com/cleared-dev/payiter/internal/source"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
	source     string
	format     string
	skipHeader bool

	// loader is replaced in tests.
	loader *source.Loader
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&globalOptions{loader: &source.Loader{}})
}

func newRootCommand(opts *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "payiter",
		Short:   "Step through JSON and CSV payment records one at a time",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.FileName, "config file")
	pf.StringVar(&opts.envFile, "env-file", "", "dotenv file (default: .env next to the config file)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&opts.source, "source", "", "records file or s3://bucket/key")
	pf.StringVar(&opts.format, "format", "", "record format: json or csv")
	pf.BoolVar(&opts.skipHeader, "skip-header", false, "drop the first line of the source")

	rootCmd.AddCommand(newInitCommand(opts))
	rootCmd.AddCommand(newNextCommand(opts))
	rootCmd.AddCommand(newExtractCommand(opts))
	rootCmd.AddCommand(newSummaryCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))

	return rootCmd
}

// session is what a record command needs once flags and config are resolved.
type session struct {
	name    string
	cfg     *config.Config
	log     *zap.Logger
	decoder payment.Decoder
	out     io.Writer
	loader  *source.Loader
}

func (o *globalOptions) newSession(cmd *cobra.Command) (*session, error) {
	baseDir := filepath.Dir(o.configPath)
	envFile := o.envFile
	if envFile == "" {
		envFile = filepath.Join(baseDir, ".env")
	}

	cfg, err := config.Resolve(o.configPath, envFile)
	if err != nil {
		return nil, err
	}
	cfg.Source.Path = relativeTo(baseDir, cfg.Source.Path)
	cfg.RunLog.Dir = relativeTo(baseDir, cfg.RunLog.Dir)

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source.Path = o.source
	}
	if flags.Changed("format") {
		f, ok := model.ParseFormat(o.format)
		if !ok {
			return nil, fmt.Errorf("unknown format %q", o.format)
		}
		cfg.Source.Format = f
	}
	if flags.Changed("skip-header") {
		cfg.Source.SkipHeader = o.skipHeader
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	decoder := payment.DefaultRegistry().Get(string(cfg.Source.Format))
	if decoder == nil {
		return nil, fmt.Errorf("no decoder for format %q", cfg.Source.Format)
	}

	return &session{
		name:    cmd.Name(),
		cfg:     cfg,
		log:     logger.With(zap.String("command", cmd.Name())),
		decoder: decoder,
		out:     cmd.OutOrStdout(),
		loader:  o.loader,
	}, nil
}

// relativeTo anchors relative local paths at dir. s3 URIs are left alone.
func relativeTo(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "s3://") {
		return path
	}
	return filepath.Join(dir, path)
}

func (s *session) loadStore(ctx context.Context) (*lending.Store, error) {
	if s.cfg.Source.Path == "" {
		return nil, errors.New("no source configured (set source.path or --source)")
	}
	records, err := s.loader.Load(ctx, s.cfg.Source.Path, s.cfg.Source.SkipHeader)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	s.log.Debug("loaded records",
		zap.String("source", s.cfg.Source.Path),
		zap.String("format", string(s.cfg.Source.Format)),
		zap.Int("records", len(records)))
	return lending.New(records), nil
}

// record appends a run log entry. Failures are logged, not returned.
func (s *session) record(store *lending.Store, details string) {
	defer func() { _ = s.log.Sync() }()

	entry := runlog.NewEntry(s.name, string(s.cfg.Source.Format), store.Position(), details)
	s.log.Info("run finished",
		zap.String("run_id", entry.RunID),
		zap.Int("records", entry.Records),
		zap.Int("remaining", store.Remaining()))

	if !s.cfg.RunLog.Enabled {
		return
	}
	if err := runlog.Append(s.cfg.RunLog.Dir, []runlog.Entry{entry}); err != nil {
		s.log.Warn("failed to write run log", zap.Error(err))
	}
}
