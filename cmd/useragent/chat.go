package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conversa-labs/user-agent/pkg/agent"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Resolve one message and print the reply",
	Long: `Resolves a single free-form message (Arabic or English) against the
configured store and prints the reply. Useful for scripting and smoke tests:

  useragent chat -m "Create user named Bob, email bob@example.com, password pw"
  useragent chat --store postgres -m "اعرض لي الصفحة الأخيرة من المستخدمين"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		message, _ := cmd.Flags().GetString("message")
		if strings.TrimSpace(message) == "" {
			return errors.New("a message is required (-m)")
		}

		debug, _ := cmd.Flags().GetBool("debug")
		log, err := newLogger(debug)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, _, cleanup, err := buildAgent(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer cleanup()

		result := a.Resolve(ctx, agent.NewTextMessage(message))
		fmt.Println(result.Render())
		return nil
	},
}

func init() {
	chatCmd.Flags().StringP("message", "m", "", "The message to resolve")
	rootCmd.AddCommand(chatCmd)
}
