package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/pixelsuite/internal/config"
	"github.com/example/pixelsuite/internal/logging"
	"github.com/example/pixelsuite/internal/notify"
	"github.com/example/pixelsuite/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	config   *config.Config
	notifier *notify.Notifier
	stdout   io.Writer
	stderr   io.Writer

	configPath   string
	envFile      string
	themeName    string
	verbose      bool
	exportAlerts bool
	batchAlerts  bool
	copyAlerts   bool
	activeTheme  *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:       flag.NewFlagSet("pixelsuite", flag.ContinueOnError),
		program:  "pixelsuite",
		notifier: notify.New(notify.LoadPreferences()),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.fs.SetOutput(r.stderr)
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "path to the rc configuration file")
	r.fs.StringVar(&r.envFile, "env-file", ".env", "dotenv file read for PIXELSUITE_* overrides")
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, high_contrast)")
	r.fs.BoolVar(&r.verbose, "v", false, "log debug output from the engine")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", false, "show a desktop notification after writing an image")
	r.fs.BoolVar(&r.batchAlerts, "notify-batch", false, "show a desktop notification when a batch finishes")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	r.fs.Usage = usageFunc(r)
	return r
}

// loadConfig applies the precedence default < rc file < environment. Flags
// are applied on top by the caller.
func (r *root) loadConfig() error {
	loader := config.NewLoader(version, r.configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	var dotenv []string
	if r.envFile != "" {
		dotenv = append(dotenv, r.envFile)
	}
	lookup, err := config.Environ(dotenv...)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg, lookup); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	r.config = cfg
	return nil
}

// flagsSet returns the names of flags given on the command line.
func flagsSet(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = r.config.Theme
	}
	loader := theme.NewLoader()
	loader.Inline = r.config.Themes
	t, err := loader.Load(name)
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(r.stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := r.loadConfig(); err != nil {
		return err
	}
	set := flagsSet(r.fs)
	if !set["notify-export"] {
		r.exportAlerts = r.config.Notify.Export
	}
	if !set["notify-batch"] {
		r.batchAlerts = r.config.Notify.Batch
	}
	if !set["notify-copy"] {
		r.copyAlerts = r.config.Notify.Copy
	}
	r.notifier.Enable(notify.EventExport, r.exportAlerts)
	r.notifier.Enable(notify.EventBatch, r.batchAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "crop":
		cmd, err = parseCropCmd(subArgs, r)
	case "watermark":
		cmd, err = parseWatermarkCmd(subArgs, r)
	case "mask":
		cmd, err = parseMaskCmd(subArgs, r)
	case "batch":
		cmd, err = parseBatchCmd(subArgs, r)
	case "preview":
		cmd, err = parsePreviewCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r}
	case "help":
		return &UsageError{of: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) subcommand(name string) string {
	return strings.TrimSpace(r.program + " " + name)
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		switch {
		case errors.Is(err, flag.ErrHelp):
		case errors.As(err, &uerr):
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
