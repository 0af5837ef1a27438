package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cortex-analyst-be/internal/config"
	"cortex-analyst-be/pkg/database"
	"cortex-analyst-be/pkg/events"
	pktNats "cortex-analyst-be/pkg/nats"

	"github.com/spf13/cobra"
)

var eventType string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the registry, feedback and usage tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := database.NewGormDBFromDSN(cfg.Database.Driver, cfg.Database.Connection)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		noticeColors["success"].Printf("Migrated %d tables\n", len(database.Models()))
		return nil
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail analyst events from the NATS stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.App.NatsURL == "" {
			return fmt.Errorf("NATS_URL is not set")
		}

		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = sub.Subscribe(ctx, eventType, "", func(ctx context.Context, evt events.Event) error {
			payload, _ := json.Marshal(evt.Payload())
			dimColor.Printf("%s ", evt.Timestamp().Format("15:04:05"))
			headerColor.Printf("%-24s ", evt.EventType())
			fmt.Println(string(payload))
			return nil
		})
		if err != nil {
			return err
		}

		dimColor.Println("Waiting for events, Ctrl+C to stop")
		<-ctx.Done()
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventType, "type", "", "Only show this event type, e.g. "+events.TypeTurnCompleted)
	rootCmd.AddCommand(migrateCmd, eventsCmd)
}
