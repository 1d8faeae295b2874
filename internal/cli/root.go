// Package cli wires the PVInsight tools into a cobra command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pvinsight/internal/config"
	"pvinsight/internal/observability/metrics"
	"pvinsight/internal/runlog"
)

type app struct {
	configPath string
	outputDir  string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger zerolog.Logger
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
}

// NewRootCmd builds the command tree. Summaries go to out, logs to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, now: time.Now, logger: zerolog.Nop()}
	root := &cobra.Command{
		Use:               "pvinsight",
		Short:             "Analyze TMY weather files and PV hourly simulation results",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML configuration file (default $PVINSIGHT_CONFIG)")
	root.PersistentFlags().StringVar(&a.outputDir, "output", "", "Output root directory")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "json", "Log format: json or console")

	root.AddCommand(newTMYCmd(a), newHourlyCmd(a))
	return root
}

// Execute runs the CLI against the process arguments.
func Execute() error {
	return NewRootCmd(os.Stdout, os.Stderr).Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// A .env file in the working directory may carry PVINSIGHT_* overrides.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = a.outputDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("config: log_level %q: %w", cfg.LogLevel, err)
	}

	var w io.Writer = a.errOut
	switch a.logFormat {
	case "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: a.errOut, TimeFormat: time.RFC3339}
	default:
		return fmt.Errorf("unsupported log format %q", a.logFormat)
	}
	a.logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	a.cfg = cfg
	metrics.Init()
	return nil
}

// finish records the run and, when enabled, dumps metrics next to the run log.
func (a *app) finish(tool string, started time.Time, paths runlog.Paths, suffix string, err error) {
	metrics.ObserveRun(tool, metrics.ResultOf(err), a.now().Sub(started))
	if !a.cfg.Metrics.Enabled || paths.Logs == "" {
		return
	}
	path := filepath.Join(paths.Logs, tool+"_metrics"+suffix+".prom")
	if werr := metrics.WriteTextfile(path); werr != nil {
		a.logger.Warn().Err(werr).Str("path", path).Msg("metrics textfile not written")
	}
}

// writeArtifact renders and stores one report, timing the render.
func (a *app) writeArtifact(path, format string, render func() ([]byte, error)) error {
	started := a.now()
	data, err := render()
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	metrics.ObserveReport(format, metrics.ResultOf(err), a.now().Sub(started))
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	a.logger.Info().Str("event", "report_written").Str("format", format).Str("path", path).Msg("report written")
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
