package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer a single question and exit",
	Example: `  careerbot ask how do I prepare for a technical interview
  careerbot ask --output-json resume format tips`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ask(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().Bool("output-json", false, "print the answer as json")
}

func ask(cmd *cobra.Command, question string) {
	logger, config := setup()
	bot := newDispatcher(logger, config)

	resp := bot.Generate(question)
	logger.Debug("answered", exchangeFields(config, question, resp)...)

	asJSON, _ := cmd.Flags().GetBool("output-json")
	if !asJSON {
		printResponse(cmd.OutOrStdout(), resp)
		return
	}

	if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
		logger.Fatal("printing the answer", zap.Error(err))
	}
}
