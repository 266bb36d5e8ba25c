package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/placementcell/careerbot/internal/api"
	"github.com/placementcell/careerbot/internal/secrets"
	"github.com/placementcell/careerbot/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over http",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", ":8080", "address to listen on")
	serveCmd.Flags().String("token-file", "", "file with the bearer token clients must send")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("server.token-file", serveCmd.Flags().Lookup("token-file"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()
	bot := newDispatcher(logger, config)

	token, err := secrets.Optional(secrets.Source{
		Name:  "api token",
		Value: config.Server.Token,
		File:  config.Server.TokenFile,
	})
	if err != nil {
		logger.Fatal("loading the api token", zap.Error(err))
	}
	if token == "" {
		logger.Warn("no api token configured, the api is open")
	}

	handler := &api.Handler{
		Bot:            bot,
		Sessions:       session.NewStore(config.Chat.HistoryLimit),
		Logger:         logger,
		UtteranceLimit: config.Log.MaxUtteranceLength,
	}

	srv := api.NewServer(api.ServerConfig{
		Listen:          config.Server.Listen,
		Token:           token,
		BodyLimit:       config.Server.BodyLimit,
		ReadTimeout:     config.Server.ReadTimeout,
		WriteTimeout:    config.Server.WriteTimeout,
		IdleTimeout:     config.Server.IdleTimeout,
		ShutdownTimeout: config.Server.ShutdownTimeout,
	}, handler, logger)

	logger.Info("starting careerbot api", zap.String("version", version), zap.String("listen", config.Server.Listen))

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}

	logger.Info("stopped")
}
