package main

import (
	"context"
	"fishbot/internal/adapters/calculator"
	"fishbot/internal/adapters/file"
	"fishbot/internal/adapters/handler"
	"fishbot/internal/adapters/metrics"
	"fishbot/internal/adapters/osu"
	"fishbot/internal/adapters/palette"
	"fishbot/internal/adapters/sender"
	"fishbot/internal/config"
	"fishbot/internal/core/domain"
	"fishbot/internal/core/domain/commands"
	"fishbot/internal/core/service"
	"fishbot/internal/logging"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting fishbot...")

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("toml")

	cfg, err := config.Load(v)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	logFile, err := logging.Setup(cfg.Bot.LogLevel, cfg.Log, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up logging")
	}
	defer logFile.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b, err := bot.New(cfg.Telegram.BotToken, bot.WithDefaultHandler(noOpHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("failed initializing telegram bot")
	}

	s := sender.NewTelegram(b)

	recorder := metrics.NewRecorder()
	if cfg.Metrics.ListenAddress != "" {
		go func() {
			if err := recorder.Serve(ctx, cfg.Metrics.ListenAddress); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	downloader := file.NewDownloader(cfg.HTTP.Timeout)
	stores := commands.Stores{
		Images:   osu.NewAssets(downloader, cfg.Osu.AssetsURL),
		Beatmaps: osu.NewFiles(downloader, cfg.Osu.BeatmapURL),
		Metadata: osu.NewAPI(downloader, cfg.Osu.APIURL, cfg.Osu.APIKey),
	}

	reporter := service.NewPerformanceReporter(calculator.New())
	extractor := palette.NewExtractor(palette.DefaultMaxDimension)

	prefix := cfg.Bot.Prefix
	commandRegistry := &domain.CommandRegistry{}

	commandRegistry.Register(commands.NewHelpHandler(commandRegistry, s, prefix+"help"))
	commandRegistry.Register(commands.NewHiHandler(s, prefix+"hi"))
	commandRegistry.Register(commands.NewPingHandler(s, prefix+"ping"))
	commandRegistry.Register(commands.NewPPHandler(stores, extractor, reporter, s, recorder, prefix+"pp"))
	commandRegistry.Register(commands.NewIDsHandler(stores.Metadata, s, prefix+"get_ids"))

	authorizer := service.NewAuthorizer(cfg.Telegram.AllowedChatIDs, cfg.Telegram.AdminUsername, s)

	commandHandler := handler.NewCommand(commandRegistry, authorizer, s, recorder,
		cfg.Handler.Timeout, cfg.Handler.MaxConcurrency)

	b.RegisterHandler(bot.HandlerTypeMessageText, prefix, bot.MatchTypePrefix, commandHandler.Handle)

	log.Info().Str("prefix", prefix).Msg("bot listening")
	b.Start(ctx)

	log.Info().Msg("waiting for running commands")
	commandHandler.Wait()
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
