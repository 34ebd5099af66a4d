package main

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/scorpio-su/2023-IMDB/config"
	"github.com/scorpio-su/2023-IMDB/pipeline"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"github.com/scorpio-su/2023-IMDB/pkg/log"
	"github.com/scorpio-su/2023-IMDB/report"
)

// app carries the state of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// Global flags
	cfgFile   string
	baseDir   string
	logLevel  string
	logFormat string

	opts     *config.Options
	logger   log.Logger
	runID    string
	exitCode int
}

// execute runs the CLI with args and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := errors.SafeExecute("regpipe", root.Execute); err != nil {
		if a.logger != nil {
			a.logger.Error("Run aborted", log.ErrAttr(err))
		}
		fmt.Fprintln(stderr, "Error:", err)
		return pipeline.ExitFatal
	}
	return a.exitCode
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "regpipe",
		Short:         "Folder-by-folder linear regression pipeline",
		Long:          `regpipe fits one single-feature OLS model per target column for every folder and dataset file, combines the per-folder results tables and charts how MSE and R-squared move across folders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default is ./regpipe.yaml)")
	f.StringVar(&a.baseDir, "base-dir", "", "base directory holding the numbered folders (overrides config)")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
	f.StringVar(&a.logFormat, "log-format", "", "log format: json or console (overrides config)")

	root.AddCommand(
		a.runCommand(),
		a.regressCommand(),
		a.combineCommand(),
		a.chartCommand(),
		a.normalizeCommand(),
		a.movingAverageCommand(),
		a.olsCommand(),
		a.configCommand(),
	)
	return root
}

// setup loads the configuration, applies flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	opts, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("base-dir") {
		opts.BaseDir = a.baseDir
	}
	if f.Changed("log-level") {
		opts.Logging.Level = a.logLevel
	}
	if f.Changed("log-format") {
		opts.Logging.Format = a.logFormat
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	a.opts = opts

	if err := a.setupLogging(); err != nil {
		return err
	}
	a.runID = uuid.NewString()
	a.logger = log.GetLogger().With(log.RunIDKey, a.runID)
	return nil
}

func (a *app) setupLogging() error {
	level := a.opts.Logging.Level
	if a.opts.Logging.Format == "console" {
		lv, err := log.ParseLevel(level)
		if err != nil {
			return errors.NewValidationError("logging.level", err.Error(), level)
		}
		zl := log.NewZerologLogger(a.stderr, log.Level(lv), true)
		log.SetLogger(zl)
		errors.SetZerologWarnFunc(zl.Warning)
		return nil
	}

	log.SetupLogger(a.stderr, level)
	errors.SetZerologWarnFunc(nil)
	errors.SetWarningHandler(func(w error) {
		log.GetLogger().Warn("Warning", "warning", w.Error())
	})
	return nil
}

func (a *app) newReport() *pipeline.Report {
	return pipeline.NewReport(a.runID, time.Now())
}

// finish closes the report, writes the run summary when enabled and sets the exit code.
func (a *app) finish(rep *pipeline.Report) error {
	rep.Finish(time.Now())

	if a.opts.Report {
		paths, err := report.WriteSummary(a.opts.BaseDir, rep)
		if err != nil {
			return err
		}
		rep.Written = append(rep.Written, paths...)
	}

	a.logger.Info("Run finished",
		"stages", rep.Stages,
		"units", rep.Units,
		"written", len(rep.Written),
		log.SkippedKey, len(rep.Skipped),
		log.DurationMsKey, rep.Duration().Milliseconds(),
	)

	fmt.Fprintf(a.stdout, "%d units of work, %d files written, %d skipped\n", rep.Units, len(rep.Written), len(rep.Skipped))
	for _, s := range rep.Skipped {
		fmt.Fprintf(a.stdout, "  %s\n", s)
	}

	a.exitCode = rep.ExitCode()
	return nil
}
