package cmd

import (
	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Show the rules in the order they are matched",
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()
		bot := newDispatcher(logger, config)

		renderTopics(cmd.OutOrStdout(), bot.Describe())
	},
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}
