// Package main provides the AgriBot CLI entrypoint.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agrisense-ai/agribot/internal/config"
	"github.com/agrisense-ai/agribot/internal/observability"
)

var (
	cfgFile    string
	outputJSON bool

	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "agribot-cli",
	Short: "AgriBot CLI for chatting with the agriculture assistant",
	Long: `AgriBot CLI runs the agriculture assistant pipeline in-process.

Use this tool to:
- Chat interactively from the terminal
- Ask a single question for scripting
- Inspect the loaded knowledge topics

Generation needs GOOGLE_API_KEY; without it the bot answers in offline mode.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// Keep pipeline logs off the chat transcript.
		level := cfg.Observability.LogLevel
		if !outputJSON {
			level = "error"
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      "console",
			ServiceName: "agribot-cli",
		})

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")

	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newTopicsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newChatCmd creates the interactive chat subcommand.
func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively with the agriculture assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			bot := buildPipeline(ctx, logger, cfg)
			ui := NewUI(outputJSON)

			ui.Banner()
			scanner := bufio.NewScanner(os.Stdin)
			sessionID := ""
			for {
				ui.Prompt()
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				ui.StartThinking()
				reply, sid := bot.Reply(ctx, sessionID, line)
				sessionID = sid
				ui.StopThinking()

				ui.BotSays(reply)

				if line == "exit" || line == "quit" {
					return nil
				}
			}
			return scanner.Err()
		},
	}
}

// newAskCmd creates the one-shot ask subcommand.
func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			bot := buildPipeline(ctx, logger, cfg)
			question := strings.Join(args, " ")

			reply, _ := bot.Reply(ctx, "", question)

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(map[string]string{
					"question":  question,
					"response":  reply,
					"timestamp": bot.Timestamp(),
				})
			}
			fmt.Println(reply)
			return nil
		},
	}
}

// newTopicsCmd creates the topics subcommand.
func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the loaded knowledge topics and entry keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := loadStore(logger, cfg)

			if outputJSON {
				out := make(map[string][]string)
				for _, topic := range store.TopicNames() {
					keys := []string{}
					for _, ke := range store.Entries(topic) {
						keys = append(keys, ke.Key)
					}
					out[topic] = keys
				}
				return json.NewEncoder(os.Stdout).Encode(out)
			}

			ui := NewUI(false)
			for _, topic := range store.TopicNames() {
				ui.Heading(topic)
				for _, ke := range store.Entries(topic) {
					fmt.Printf("  %s\n", ke.Key)
				}
			}
			return nil
		},
	}
}
