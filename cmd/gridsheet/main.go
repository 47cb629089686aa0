// Command gridsheet is a thin demonstration wrapper around the gosheet
// engine (spec.md §1: "Any CLI, file I/O, configuration, or concurrency
// wrapper around a single engine instance" is explicitly out of the
// engine's scope). It owns no engine logic itself; it only loads a
// config, wires logging, replays an edit script, and prints the result.
//
// Grounded on UNO-SOFT-spreadsheet/csv2pdf/csv2pdf.go's ffcli.Command +
// zlog wiring.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3/ffcli"

	gosheet "github.com/vogtb/gosheet"
	"github.com/vogtb/gosheet/config"
	"github.com/vogtb/gosheet/formula"
	"github.com/vogtb/gosheet/render"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	rootFS := flag.NewFlagSet("gridsheet", flag.ContinueOnError)
	rootFS.Var(&verbose, "v", "logging verbosity")
	flagConfig := rootFS.String("config", "", "path to config.toml (grid bounds)")
	flagScript := rootFS.String("script", "", "path to an edit script: one \"cell<TAB>text\" pair per line")

	printFS := flag.NewFlagSet("gridsheet print", flag.ContinueOnError)
	flagTexts := printFS.Bool("texts", false, "print source texts instead of computed values")

	setFS := flag.NewFlagSet("gridsheet set", flag.ContinueOnError)

	printCmd := &ffcli.Command{
		Name:       "print",
		ShortUsage: "gridsheet print [-texts]",
		FlagSet:    printFS,
		Exec: func(ctx context.Context, args []string) error {
			sh, err := loadSheet(*flagConfig, *flagScript)
			if err != nil {
				return err
			}
			if *flagTexts {
				return render.Texts(os.Stdout, sh)
			}
			return render.Values(os.Stdout, sh)
		},
	}

	setCmd := &ffcli.Command{
		Name:       "set",
		ShortUsage: "gridsheet set <cell> <text>",
		FlagSet:    setFS,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("gridsheet set: expected exactly 2 arguments, got %d", len(args))
			}
			sh, err := loadSheet(*flagConfig, *flagScript)
			if err != nil {
				return err
			}
			pos, err := gosheet.ParsePosition(args[0])
			if err != nil {
				return err
			}
			if err := sh.SetCell(pos, args[1]); err != nil {
				return err
			}
			view, ok, err := sh.GetCell(pos)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("")
				return nil
			}
			fmt.Println(view.Value().String())
			return nil
		},
	}

	root := &ffcli.Command{
		Name:        "gridsheet",
		ShortUsage:  "gridsheet [-v] [-config path] [-script path] <subcommand> ...",
		FlagSet:     rootFS,
		Subcommands: []*ffcli.Command{printCmd, setCmd},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}

	logger.Debug("starting", "verbose", verbose.String())
	return root.ParseAndRun(context.Background(), os.Args[1:])
}

// loadSheet builds a Sheet from config and replays the edit script, in
// order, top to bottom. A malformed line or a failing edit aborts the
// whole load (the script is meant to describe a single consistent
// sheet, not a fuzzed sequence).
func loadSheet(configPath, scriptPath string) (*gosheet.Sheet, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	sh := gosheet.New(formula.Parse, gosheet.WithBounds(cfg.Bounds()), gosheet.WithLogger(logger))
	if scriptPath == "" {
		return sh, nil
	}

	f, err := os.Open(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("script line %d: expected \"cell<TAB>text\", got %q", lineNo, line)
		}
		pos, err := gosheet.ParsePosition(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("script line %d: %w", lineNo, err)
		}
		if err := sh.SetCell(pos, parts[1]); err != nil {
			return nil, fmt.Errorf("script line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return sh, nil
}
