package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var questionLimit int

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List active apps",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer()
		if err != nil {
			return err
		}
		defer c.Close()

		apps, err := c.Registry.ActiveApps(context.Background())
		if err != nil {
			return err
		}
		for _, app := range apps {
			headerColor.Printf("%4d  ", app.Id)
			fmt.Printf("%s", app.Name)
			dimColor.Printf("  %s.%s.%s\n", app.Database, app.Schema, app.Stage)
		}
		return nil
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print the shared key questions of an app",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer()
		if err != nil {
			return err
		}
		defer c.Close()

		questions, err := c.Feedback.ListSharedKeyQuestions(context.Background(), appID, questionLimit)
		if err != nil {
			return err
		}
		printQuestions("Key questions", questions)
		return nil
	},
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Print the most asked questions of an app",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer()
		if err != nil {
			return err
		}
		defer c.Close()

		questions, err := c.Feedback.PopularQuestions(context.Background(), appID, questionLimit)
		if err != nil {
			return err
		}
		printQuestions("Popular questions", questions)
		return nil
	},
}

func init() {
	keysCmd.Flags().IntVar(&questionLimit, "limit", 0, "Maximum number of questions (0 for the default)")
	popularCmd.Flags().IntVar(&questionLimit, "limit", 0, "Maximum number of questions (0 for the default)")
	rootCmd.AddCommand(appsCmd, keysCmd, popularCmd)
}

func printQuestions(title string, questions []string) {
	headerColor.Println(title)
	if len(questions) == 0 {
		dimColor.Println("  (none)")
		return
	}
	for i, q := range questions {
		fmt.Printf("  %d. %s\n", i+1, q)
	}
}
