package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/placementcell/careerbot/internal/chatbot"
	"github.com/placementcell/careerbot/internal/session"
)

const (
	CommandSuggest = "/suggest"
	CommandHistory = "/history"
	CommandTopics  = "/topics"
	CommandExit    = "/exit"
	PromptBack     = "Ask something else"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	Long: `Start an interactive session. Besides questions it understands
/suggest, /history, /topics and /exit.`,
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Int("history-limit", session.DefaultHistoryLimit, "messages kept in the transcript")

	viper.BindPFlag("chat.history-limit", chatCmd.Flags().Lookup("history-limit"))
}

type chatSession struct {
	bot    *chatbot.Dispatcher
	store  *session.Store
	config *Config
	logger *zap.Logger
	out    io.Writer

	conversationID string
}

func chat(cmd *cobra.Command) {
	logger, config := setup()

	s := &chatSession{
		bot:    newDispatcher(logger, config),
		store:  session.NewStore(config.Chat.HistoryLimit),
		config: config,
		logger: logger,
		out:    cmd.OutOrStdout(),
	}

	fmt.Fprintln(s.out, replyStyle.Render("Hi! I'm your placement assistant. Ask me anything about placements, or try one of these:"))
	printSuggestions(s.out, s.bot.RandomSuggestions())
	fmt.Fprintln(s.out, hintStyle.Render(fmt.Sprintf("Commands: %s %s %s %s", CommandSuggest, CommandHistory, CommandTopics, CommandExit)))

	prompt := promptui.Prompt{Label: "You"}
	for {
		input, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return
		}
		if err != nil {
			logger.Fatal("reading input", zap.Error(err))
		}

		line := strings.TrimSpace(input)
		switch line {
		case "":
			continue
		case CommandExit:
			return
		case CommandSuggest:
			picked, err := s.pick("Pick a question", s.bot.RandomSuggestions())
			if err != nil {
				logger.Fatal("choosing a suggestion", zap.Error(err))
			}
			line = picked
		case CommandHistory:
			s.history()
			continue
		case CommandTopics:
			renderTopics(s.out, s.bot.Describe())
			continue
		}

		if err := s.ask(line); err != nil {
			logger.Fatal("answering", zap.Error(err))
		}
	}
}

// ask answers text and keeps following the suggestions the user picks.
func (s *chatSession) ask(text string) error {
	for text != "" {
		resp := s.bot.Generate(text)

		conv, err := s.store.Append(s.conversationID,
			session.Message{Role: session.RoleUser, Content: text},
			session.Message{Role: session.RoleAssistant, Content: resp.Content, Topic: resp.Topic, Suggestions: resp.Suggestions},
		)
		if err != nil {
			return fmt.Errorf("storing the exchange: %w", err)
		}
		s.conversationID = conv.ID

		s.logger.Debug("answered", exchangeFields(s.config, text, resp)...)

		printResponse(s.out, resp)

		text, err = s.pick("Follow up?", resp.Suggestions)
		if err != nil {
			return err
		}
	}

	return nil
}

// pick offers items and returns the chosen one, or "" when the user backs out.
func (s *chatSession) pick(label string, items []string) (string, error) {
	if len(items) == 0 {
		return "", nil
	}

	selectPrompt := promptui.Select{
		Label: label,
		Items: append(append([]string{}, items...), PromptBack),
	}

	_, choice, err := selectPrompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if choice == PromptBack {
		return "", nil
	}
	return choice, nil
}

func (s *chatSession) history() {
	if s.conversationID == "" {
		fmt.Fprintln(s.out, hintStyle.Render("Nothing asked yet."))
		return
	}

	conv, err := s.store.Get(s.conversationID)
	if err != nil {
		s.logger.Warn("reading the transcript", zap.Error(err))
		return
	}
	printTranscript(s.out, conv)
}
