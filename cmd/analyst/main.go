package main

import (
	"fmt"
	"os"

	"cortex-analyst-be/internal/bootstrap"
	"cortex-analyst-be/internal/config"
	"cortex-analyst-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	appID    int
	username string

	headerColor  = color.New(color.FgCyan, color.Bold)
	userColor    = color.New(color.FgGreen, color.Bold)
	noticeColors = map[string]*color.Color{
		"info":    color.New(color.FgBlue),
		"success": color.New(color.FgGreen),
		"warning": color.New(color.FgYellow),
		"error":   color.New(color.FgRed, color.Bold),
	}
	dimColor = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "Operator console for the Cortex Analyst front-end",
	Long: `Drive the conversation orchestrator from a terminal.

Quick Start:
  analyst migrate                          # create the tables
  analyst apps                             # list active apps
  analyst ask --app 1 --user alice "..."   # run one analyst turn
  analyst keys --app 1                     # shared key questions
  analyst events                           # tail events from NATS`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&appID, "app", 1, "App id")
	rootCmd.PersistentFlags().StringVar(&username, "user", os.Getenv("USER"), "Username the session belongs to")
}

// openContainer wires the same components the REST server uses
func openContainer() (*bootstrap.Container, error) {
	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return bootstrap.NewContainer(db, cfg), nil
}
