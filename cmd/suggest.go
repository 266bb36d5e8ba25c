package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print a few random conversation starters",
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup()
		bot := newDispatcher(logger, config)

		suggestions := bot.RandomSuggestions()

		asJSON, _ := cmd.Flags().GetBool("output-json")
		if !asJSON {
			printSuggestions(cmd.OutOrStdout(), suggestions)
			return
		}

		if err := printJSON(cmd.OutOrStdout(), suggestions); err != nil {
			logger.Fatal("printing suggestions", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().Bool("output-json", false, "print the suggestions as json")
}
