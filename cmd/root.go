package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/placementcell/careerbot/internal/api"
	"github.com/placementcell/careerbot/internal/chatbot"
	"github.com/placementcell/careerbot/internal/logger"
	"github.com/placementcell/careerbot/internal/session"
)

const (
	app       = "careerbot"
	envPrefix = "CAREERBOT"
)

type Config struct {
	KnowledgeFile string        `mapstructure:"knowledge-file"`
	Seed          string        `mapstructure:"seed"`
	Chat          *ChatConfig   `mapstructure:"chat"`
	Server        *ServerConfig `mapstructure:"server"`
	Log           *LogConfig    `mapstructure:"log"`
}

type ChatConfig struct {
	HistoryLimit int `mapstructure:"history-limit"`
}

type ServerConfig struct {
	Listen          string        `mapstructure:"listen"`
	Token           string        `mapstructure:"token"`
	TokenFile       string        `mapstructure:"token-file"`
	BodyLimit       int64         `mapstructure:"body-limit"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

type LogConfig struct {
	MaxUtteranceLength int `mapstructure:"max-utterance-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "careerbot answers placement and career questions from a fixed knowledge base",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())
	bindEnv(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is careerbot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("knowledge-file", "k", "", "yaml knowledge base to answer from (default is the built-in one)")
	rootCmd.PersistentFlags().String("seed", "", "seed for the random choices, for reproducible answers")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("knowledge-file", rootCmd.PersistentFlags().Lookup("knowledge-file"))
	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("knowledge-file", "")
	v.SetDefault("seed", "")
	v.SetDefault("chat.history-limit", session.DefaultHistoryLimit)
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.token", "")
	v.SetDefault("server.token-file", "")
	v.SetDefault("server.body-limit", api.DefaultBodyLimit)
	v.SetDefault("server.read-timeout", api.DefaultReadTimeout)
	v.SetDefault("server.write-timeout", api.DefaultWriteTimeout)
	v.SetDefault("server.idle-timeout", api.DefaultIdleTimeout)
	v.SetDefault("server.shutdown-timeout", api.DefaultShutdownTimeout)
	v.SetDefault("log.max-utterance-length", logger.DefaultUtteranceLimit)
}

// bindEnv maps server.read-timeout to CAREERBOT_SERVER_READ_TIMEOUT and so on.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// .env is optional, but a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The default config file may be absent; an explicit one may not.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return config, err
	}

	return config, nil
}

// setup builds the logger and the config every command except version needs.
// Failures here are fatal.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	zap.ReplaceGlobals(logger)

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	return logger, config
}

// newDispatcher loads the knowledge base and wires the random source.
func newDispatcher(logger *zap.Logger, config *Config) *chatbot.Dispatcher {
	kb, err := chatbot.LoadKnowledge(config.KnowledgeFile)
	if err != nil {
		logger.Fatal("loading the knowledge base", zap.Error(err))
	}

	var src chatbot.Source
	if config.Seed != "" {
		src = chatbot.NewSeededSource(config.Seed)
	}

	bot, err := chatbot.New(kb, src)
	if err != nil {
		logger.Fatal("creating the dispatcher", zap.Error(err))
	}

	logger.Debug("knowledge base loaded",
		zap.String("file", config.KnowledgeFile),
		zap.Strings("topics", kb.TopicNames()),
		zap.Bool("seeded", src != nil),
	)

	return bot
}

func exchangeFields(config *Config, question string, resp chatbot.Response) []zap.Field {
	fields := logger.UtteranceFields(question, config.Log.MaxUtteranceLength)
	return append(fields, logger.AnswerFields(resp.Topic, resp.Variant, len(resp.Suggestions))...)
}
