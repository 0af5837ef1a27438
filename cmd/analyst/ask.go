package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"cortex-analyst-be/pkg/content"
	"cortex-analyst-be/pkg/orchestrator"

	"github.com/spf13/cobra"
)

var askModel int

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the analyst one question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer()
		if err != nil {
			return err
		}
		defer c.Close()

		ctx := context.Background()
		if askModel > 0 {
			if _, err := c.Orchestrator.Run(ctx, orchestrator.RunRequest{
				Username: username,
				AppID:    appID,
				Action:   orchestrator.Action{Kind: orchestrator.ActionSelectModel, ModelID: askModel},
			}); err != nil {
				return err
			}
		}

		view, err := c.Orchestrator.Run(ctx, orchestrator.RunRequest{
			Username: username,
			AppID:    appID,
			Action:   orchestrator.Action{Kind: orchestrator.ActionAsk, Text: strings.Join(args, " ")},
		})
		if err != nil {
			return err
		}

		printView(view, true)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the current conversation of a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer()
		if err != nil {
			return err
		}
		defer c.Close()

		view, err := c.Orchestrator.Run(context.Background(), orchestrator.RunRequest{
			Username: username,
			AppID:    appID,
			Action:   orchestrator.Action{Kind: orchestrator.ActionRender},
		})
		if err != nil {
			return err
		}
		printView(view, false)
		return nil
	},
}

func init() {
	askCmd.Flags().IntVar(&askModel, "model", 0, "Semantic model id to switch to before asking")
	rootCmd.AddCommand(askCmd, historyCmd)
}

func printView(view *orchestrator.View, lastOnly bool) {
	headerColor.Printf("%s", view.App.Name)
	for _, m := range view.Models {
		if m.Selected {
			dimColor.Printf("  [%s]", m.Name)
		}
	}
	fmt.Println()

	messages := view.Messages
	if lastOnly && len(messages) > 2 {
		messages = messages[len(messages)-2:]
	}
	for _, m := range messages {
		printMessage(m)
	}

	for _, n := range view.Notices {
		c, ok := noticeColors[string(n.Level)]
		if !ok {
			c = dimColor
		}
		c.Printf("[%s] %s\n", n.Kind, n.Message)
	}
}

func printMessage(m orchestrator.MessageView) {
	if m.Role == content.RoleUser {
		for _, b := range m.Blocks {
			userColor.Printf("> %s\n", b.Text)
		}
		return
	}

	for _, b := range m.Blocks {
		switch b.Kind {
		case content.KindText:
			fmt.Println(b.Text)
		case content.KindSuggestions:
			for _, s := range b.Suggestions {
				fmt.Printf("  ? %s\n", s.Text)
			}
		case content.KindSQL:
			dimColor.Println(b.Statement)
			if b.QueryError != "" {
				noticeColors["error"].Println(b.QueryError)
				continue
			}
			printRows(b)
		default:
			dimColor.Printf("(%s block not shown)\n", b.OpaqueType)
		}
	}
}

func printRows(b orchestrator.BlockView) {
	if len(b.Columns) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(b.Columns, "\t"))
	for _, row := range b.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	if b.Truncated {
		dimColor.Println("(truncated)")
	}
}
