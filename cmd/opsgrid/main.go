package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/rebelice/opsgrid/internal/app"
	"github.com/rebelice/opsgrid/internal/config"
	"github.com/rebelice/opsgrid/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := config.Flags()
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	loader, err := config.NewLoader(flags)
	if err != nil {
		return err
	}
	cfg, err := loader.Config()
	if err != nil {
		return err
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = config.DataPath("", config.AppName+".log")
	}
	if err := logger.Init(logger.Options{
		File:       logFile,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		return fmt.Errorf("failed to start logging: %w", err)
	}
	defer logger.Close()

	if f := loader.File(); f != "" {
		logger.Infof("using config %s", f)
	} else {
		logger.Infof("no config file found, using defaults")
	}

	a := app.New(cfg, loader)
	defer a.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(a, opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
