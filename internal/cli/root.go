// Package cli wires the cobra command surface and the interactive loop.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"control-agent/internal/config"
	"control-agent/internal/di"
)

var (
	cfgFile        string
	requestText    string
	goalText       string
	singleCommand  string
	executeCommand string
	browseURL      string
	planGoal       string
	headless       bool
)

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "LLM-driven automation agent for the terminal and the browser",
	Long: `agent couples a terminal executor, a browser session and a chat
completion model. Requests are sent to the model together with the current
context; commands and browser actions found in the reply are executed.

Without flags an interactive session is started.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("headless") {
			cfg.Browser.Headless = headless
		}

		ctx := cmd.Context()
		container, err := di.NewContainer(ctx, cfg)
		if err != nil {
			return fmt.Errorf("initialization failed: %w", err)
		}
		defer container.Close()

		repl := NewREPL(container.Agent, os.Stdin, os.Stdout)

		switch {
		case requestText != "":
			outcome := container.Agent.ProcessRequest(ctx, requestText)
			return printJSON(os.Stdout, outcome)
		case goalText != "":
			outcome := container.Agent.ExecutePlan(ctx, goalText)
			return printJSON(os.Stdout, outcome)
		case singleCommand != "":
			repl.ProcessCommand(ctx, singleCommand)
		case executeCommand != "":
			repl.ProcessCommand(ctx, "execute "+executeCommand)
		case browseURL != "":
			repl.ProcessCommand(ctx, "browse "+browseURL)
		case planGoal != "":
			repl.ProcessCommand(ctx, "plan "+planGoal)
		default:
			repl.RunInteractive(ctx)
		}
		return nil
	},
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&requestText, "request", "", "process one request and print the outcome as JSON")
	rootCmd.Flags().StringVar(&goalText, "goal", "", "execute a plan for a goal and print the outcome as JSON")
	rootCmd.Flags().StringVar(&singleCommand, "command", "", "run a single interactive command and exit")
	rootCmd.Flags().StringVar(&executeCommand, "execute", "", "execute a terminal command and exit")
	rootCmd.Flags().StringVar(&browseURL, "browse", "", "navigate to a URL and exit")
	rootCmd.Flags().StringVar(&planGoal, "plan", "", "execute a plan for a goal and exit")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
