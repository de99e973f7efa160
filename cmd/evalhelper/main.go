package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"moodle-eval-helper/internal/config"
	"moodle-eval-helper/internal/model"
	"moodle-eval-helper/internal/pipeline"
	"moodle-eval-helper/internal/store"
	"moodle-eval-helper/pkg/logging"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const description = "Reads csv file from Moodle evaluations and parses selected columns to an output csv. " +
	"Can try to read urls from a selected column."

const example = `Usual parameters are -i csv-file-from-moodle -o target-csv -c "Koko nimi" Sähköpostiosoite -u Verkkoteksti`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "history" {
		return runHistory(args[1:], stdout, stderr)
	}

	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		printUsage(stderr, opts.flags)
		return exitUsage
	}

	cfg := opts.cfg
	cfg.Logging.Output = stderr
	log := logging.New(cfg.Logging)

	runner := &pipeline.Runner{Log: log, Progress: stdout}
	if opts.quiet {
		runner.Progress = nil
	}

	if cfg.History.Path != "" {
		history, err := store.Open(cfg.History.Path)
		if err != nil {
			fmt.Fprintf(stderr, "evalhelper: %v\n", err)
			return exitError
		}
		defer history.Close()
		runner.History = history
	}

	if _, err := runner.Run(ctx, cfg.Job); err != nil {
		fmt.Fprintln(stderr, describeError(cfg.Job, err))
		if errors.Is(err, pipeline.ErrInvalidConfig) {
			printUsage(stderr, opts.flags)
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

func describeError(job model.JobSpec, err error) string {
	if errors.Is(err, pipeline.ErrInputNotFound) {
		return fmt.Sprintf("Input csv file (%s) does not exist.", job.Input.Path)
	}
	return fmt.Sprintf("evalhelper: %v", err)
}

// ------------------- Arguments -------------------

type cliOptions struct {
	cfg   *config.Config
	quiet bool
	flags *flag.FlagSet
}

// columnList collects -c values in the order given
type columnList []string

func (c *columnList) String() string { return strings.Join(*c, ", ") }

func (c *columnList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

var columnFlagNames = map[string]bool{"c": true, "selected-columns": true}

// expandColumnArgs rewrites `-c A B C` into `-c A -c B -c C` so the
// selected columns can be listed after a single flag.
func expandColumnArgs(args []string) []string {
	out := make([]string, 0, len(args))
	inColumns, awaiting := false, false
	for _, arg := range args {
		switch {
		case arg == "--":
			inColumns, awaiting = false, false
			out = append(out, arg)
		case strings.HasPrefix(arg, "-") && arg != "-":
			name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
			inColumns = columnFlagNames[name]
			// a bare -c still waits for its own value
			awaiting = inColumns && !hasValue
			out = append(out, arg)
		case awaiting:
			awaiting = false
			out = append(out, arg)
		case inColumns:
			out = append(out, "-c", arg)
		default:
			out = append(out, arg)
		}
	}
	return out
}

func parseArgs(args []string, stderr io.Writer) (cliOptions, error) {
	fs := flag.NewFlagSet("evalhelper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := cliOptions{flags: fs}

	var (
		input, output, urlColumn, configPath     string
		encoding, historyDB, logLevel, logFormat string
		crlf, bom, quiet                         bool
		columns                                  columnList
	)
	fs.StringVar(&input, "input", "", "Moodle evaluations csv file (required)")
	fs.StringVar(&input, "i", "", "shorthand for --input")
	fs.StringVar(&output, "output", "", "Output csv file (required)")
	fs.StringVar(&output, "o", "", "shorthand for --output")
	fs.Var(&columns, "selected-columns", "Selected columns from the input, one or more (required)")
	fs.Var(&columns, "c", "shorthand for --selected-columns")
	fs.StringVar(&urlColumn, "url-column", "", "The column from input where to parse url")
	fs.StringVar(&urlColumn, "u", "", "shorthand for --url-column")
	fs.StringVar(&configPath, "config", "", "YAML job file; flags override its values")
	fs.StringVar(&encoding, "input-encoding", "", "text encoding of the input file (default utf-8)")
	fs.BoolVar(&crlf, "crlf", false, "terminate output lines with CRLF")
	fs.BoolVar(&bom, "bom", false, "start the output with a UTF-8 byte order mark")
	fs.StringVar(&historyDB, "history-db", "", "SQLite file recording each run")
	fs.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&logFormat, "log-format", "", "text or json")
	fs.BoolVar(&quiet, "quiet", false, "do not print a progress line per row")
	fs.BoolVar(&quiet, "q", false, "shorthand for --quiet")

	if err := fs.Parse(expandColumnArgs(args)); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stderr, fs)
		}
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return opts, err
		}
		cfg = loaded
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["input"] || set["i"] {
		cfg.Job.Input.Path = input
	}
	if set["output"] || set["o"] {
		cfg.Job.Output.Path = output
	}
	if len(columns) > 0 {
		cfg.Job.SelectedColumns = columns
	}
	if set["url-column"] || set["u"] {
		cfg.Job.URLColumn = urlColumn
	}
	if set["input-encoding"] {
		cfg.Job.Input.Encoding = encoding
	}
	if set["crlf"] {
		cfg.Job.Output.CRLF = crlf
	}
	if set["bom"] {
		cfg.Job.Output.BOM = bom
	}
	if set["history-db"] {
		cfg.History.Path = historyDB
	}
	if set["log-level"] {
		cfg.Logging.Level = logLevel
	}
	if set["log-format"] {
		cfg.Logging.Format = logFormat
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return opts, err
	}

	var missing []string
	if cfg.Job.Input.Path == "" {
		missing = append(missing, "--input")
	}
	if cfg.Job.Output.Path == "" {
		missing = append(missing, "--output")
	}
	if len(cfg.Job.SelectedColumns) == 0 {
		missing = append(missing, "--selected-columns")
	}
	if len(missing) > 0 {
		return opts, fmt.Errorf("required option(s) missing: %s", strings.Join(missing, ", "))
	}

	opts.cfg = cfg
	opts.quiet = quiet
	return opts, nil
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: evalhelper -i <input.csv> -o <output.csv> -c <column>... [-u <url-column>]")
	fmt.Fprintln(w, "       evalhelper history --history-db <file> [job-id]")
	fmt.Fprintln(w)
	if fs != nil {
		fs.SetOutput(w)
		fs.PrintDefaults()
		fs.SetOutput(io.Discard)
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, description)
	fmt.Fprintln(w, example)
}

// ------------------- History -------------------

func runHistory(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("evalhelper history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("history-db", "", "SQLite file recording each run (required)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *dbPath == "" || fs.NArg() > 1 {
		fmt.Fprintln(stderr, "Usage: evalhelper history --history-db <file> [job-id]")
		return exitUsage
	}
	if _, err := os.Stat(*dbPath); err != nil {
		fmt.Fprintf(stderr, "evalhelper: history database %s: %v\n", *dbPath, err)
		return exitError
	}

	history, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "evalhelper: %v\n", err)
		return exitError
	}
	defer history.Close()

	if fs.NArg() == 1 {
		job, err := history.GetJob(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "evalhelper: job %s: %v\n", fs.Arg(0), err)
			return exitError
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(job); err != nil {
			fmt.Fprintf(stderr, "evalhelper: %v\n", err)
			return exitError
		}
		return exitOK
	}

	jobs, err := history.ListJobs()
	if err != nil {
		fmt.Fprintf(stderr, "evalhelper: %v\n", err)
		return exitError
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tREAD\tWRITTEN\tURLS\tCREATED")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			j.ID, j.Status, j.RowsRead, j.RowsWritten, j.URLsFound, j.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	tw.Flush()
	return exitOK
}
