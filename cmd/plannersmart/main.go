package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/plannersmart/internal/cli"
	"github.com/alexanderramin/plannersmart/internal/config"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	sessionPath := os.Getenv("PLANNERSMART_SESSION")
	if sessionPath == "" {
		sessionPath = filepath.Join(dir, "session.yaml")
	}

	app := &cli.App{
		Config:      cfg,
		SessionPath: sessionPath,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
