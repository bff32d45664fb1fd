package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/getsentry/sentry-go"
	"golang.org/x/term"

	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/file"
	"github.com/divVerent/msrconverser/internal/msr"
	"github.com/divVerent/msrconverser/internal/processor"
	"github.com/divVerent/msrconverser/internal/version"
)

const defaultConfig = "msrconverser.yml"

var cli struct {
	Config      string           `short:"c" default:"msrconverser.yml" help:"Config file name (YAML)."`
	Input       string           `short:"i" required:"" help:"Song options file name (YAML)."`
	OPrefix     string           `name:"o-prefix" help:"Output file name prefix; defaults to the input name without .yml."`
	AddChecksum bool             `help:"Write the checksum of the input file back to the options file."`
	Report      bool             `help:"Print the measures of every voice to standard output."`
	Strict      bool             `help:"Treat repeated finalization as an error."`
	Lang        string           `help:"Language of diagnostics."`
	Trace       []string         `help:"Trace flags: measures, measures-details, positions, harmonies, figured-bass, clones, midi or all."`
	Version     kong.VersionFlag `help:"Print the version and exit."`
}

// warner returns the diagnostics sink: colored when stderr is a terminal,
// and recorded as breadcrumbs for error reports.
func warner() func(diag.Diagnostic) {
	color := term.IsTerminal(int(os.Stderr.Fd()))
	return func(d diag.Diagnostic) {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Category: "diag",
			Message:  d.String(),
			Level:    sentry.LevelWarning,
		})
		if color {
			fmt.Fprintf(os.Stderr, "\x1b[33mWarning:\x1b[0m %v.\n", d)
			return
		}
		log.Printf("Warning: %v.", d)
	}
}

func Main() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	fsys := os.DirFS(cwd)

	config, err := file.ReadConfig(fsys, cli.Config)
	if errors.Is(err, fs.ErrNotExist) && cli.Config == defaultConfig {
		config, err = &processor.Config{}, nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if cli.Lang != "" {
		config.Language = cli.Lang
	}
	if cli.Strict {
		config.Strict = true
	}
	config.Trace = append(config.Trace, cli.Trace...)

	options, err := file.ReadOptions(fsys, cli.Input)
	if err != nil {
		return fmt.Errorf("failed to read options: %w", err)
	}

	wantChecksum := options.InputFileBLAKE3 == ""

	res, err := file.Process(fsys, config, options, warner())
	if err != nil {
		return fmt.Errorf("failed to process: %w", err)
	}

	if cli.Report {
		err := msr.Dump(os.Stdout, res.Score)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if cli.OPrefix == "" {
		cli.OPrefix = strings.TrimSuffix(cli.Input, ".yml")
	}

	for key, mid := range res.Output {
		name := fmt.Sprintf("%s.%s.mid", cli.OPrefix, key)
		err := mid.WriteFile(name)
		if err != nil {
			return fmt.Errorf("failed to write %v: %w", name, err)
		}
	}

	if wantChecksum && cli.AddChecksum {
		err := file.WriteOptions(cli.Input, options)
		if err != nil {
			return fmt.Errorf("failed to write %v: %w", cli.Input, err)
		}
	}

	return nil
}

func main() {
	kong.Parse(&cli,
		kong.Name("process"),
		kong.Description("Converts score descriptions to MIDI files."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version()},
	)
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     dsn,
			Release: "msrconverser@" + version.Version(),
		})
		if err != nil {
			log.Printf("Could not initialize Sentry - working without: %v.", err)
		}
	}
	err := Main()
	if err != nil {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		log.Println(err)
		os.Exit(1)
	}
	sentry.Flush(2 * time.Second)
}
