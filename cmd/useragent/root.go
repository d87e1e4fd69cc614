package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "useragent",
	Short: "Natural-language user management agent",
	Long: `useragent resolves free-form Arabic or English sentences into user CRUD
operations, executes them against the configured store, and answers in a
chat transcript. Structured tool calls are dispatched directly.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real env always wins.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: openai|gemini|anthropic|ollama|dummy|none")
	rootCmd.PersistentFlags().String("model", "", "Model ID for the selected provider")
	rootCmd.PersistentFlags().String("store", "", "User store backend: memory|postgres|mongo")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
