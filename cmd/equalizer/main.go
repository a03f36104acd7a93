// equalizer resamples irregular meter readings onto fixed-width buckets.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/xtxerr/equalizer/internal/config"
	"github.com/xtxerr/equalizer/internal/errors"
	"github.com/xtxerr/equalizer/internal/job"
	"github.com/xtxerr/equalizer/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

const defaultConfigPath = "equalizer.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("equalizer", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: equalizer [flags] <input> [output]\n\n")
		fmt.Fprintf(stderr, "Without <input>, the batch jobs of the config file are run.\n\nflags:\n")
		flags.PrintDefaults()
	}

	// CLI flags
	cfgPath := flags.String("config", defaultConfigPath, "config file path")
	format := flags.String("format", "", "output format: json, parquet (overrides config)")
	bucket := flags.String("bucket", "", "bucket width, e.g. 30m or PT30M (overrides config)")
	maxSynthetic := flags.Int("max-synthetic", -1, "cap on gap-filling insertions, 0 disables (overrides config)")
	summation := flags.String("summation", "", "summation mode: naive, kahan (overrides config)")
	report := flags.String("report", "", "write a YAML run summary to this path, - for stdout")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	logJSON := flags.Bool("log-json", false, "log as JSON")
	verbose := flags.Bool("v", false, "shorthand for -log-level debug")
	version := flags.Bool("version", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errors.ExitOK
		}
		return errors.ExitUsage
	}

	if *version {
		fmt.Fprintf(stdout, "equalizer %s\n", Version)
		return errors.ExitOK
	}

	if flags.NArg() > 2 {
		flags.Usage()
		return errors.ExitUsage
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Load config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !set["config"] {
			cfg = config.DefaultConfig()
		} else {
			return fail(stderr, err)
		}
	}

	// CLI overrides
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *bucket != "" {
		d, err := config.ParseDuration(*bucket)
		if err != nil {
			return fail(stderr, errors.NewInvalidValue("bucket", *bucket, err.Error()))
		}
		cfg.Resample.BucketWidth = config.Duration(d)
	}
	if *maxSynthetic >= 0 {
		cfg.Resample.MaxSynthetic = *maxSynthetic
	}
	if *summation != "" {
		cfg.Resample.Summation = *summation
	}
	if *report != "" {
		cfg.Output.Report = *report
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if set["log-json"] {
		cfg.Logging.JSON = *logJSON
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return fail(stderr, err)
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logging.Output = stderr
	logging.Init(level, cfg.Logging.JSON)
	logging.Debug("equalizer starting", "version", Version, "config", *cfgPath)

	opts, err := job.OptionsFromConfig(cfg)
	if err != nil {
		return fail(stderr, err)
	}
	runner, err := job.NewRunner(opts)
	if err != nil {
		return fail(stderr, err)
	}

	var outcomes []*job.Outcome
	if flags.NArg() == 0 {
		if len(cfg.Batch.Jobs) == 0 {
			flags.Usage()
			return errors.ExitUsage
		}
		outcomes, err = runner.RunBatch(ctx, job.FromConfig(cfg.Batch.Jobs), cfg.Batch.Workers)
	} else {
		j := job.Job{Input: flags.Arg(0), Output: flags.Arg(1)}
		var out *job.Outcome
		out, err = runner.Run(ctx, j)
		outcomes = []*job.Outcome{out}
	}

	for _, o := range outcomes {
		if o != nil {
			confirm(stdout, o)
		}
	}

	if cfg.Output.Report != "" {
		if rerr := job.WriteReport(cfg.Output.Report, outcomes); rerr != nil && err == nil {
			err = rerr
		}
	}

	if err != nil {
		return fail(stderr, err)
	}
	return errors.ExitOK
}

func confirm(w io.Writer, o *job.Outcome) {
	msg := fmt.Sprintf("Wrote %s buckets (%s) to %s",
		humanize.Comma(int64(o.Summary.Emitted)), humanize.Bytes(uint64(o.Bytes)), o.Output)
	if n := o.Summary.DroppedCount(); n > 0 {
		msg += fmt.Sprintf(", dropped %s incomplete", humanize.Comma(int64(n)))
	}
	fmt.Fprintln(w, msg)
}

func fail(w io.Writer, err error) int {
	code := errors.ExitCode(err)
	fmt.Fprintf(w, "equalizer: %v\n", err)
	logging.Debug("exiting", "code", code, "category", errors.ExitName(code))
	return code
}
