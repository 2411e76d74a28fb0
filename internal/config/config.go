package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var ErrMissingCredential = errors.New("missing credential")

const (
	KeyBotToken       = "telegram.bot_token"
	KeyAllowedChatIDs = "telegram.allowed_chat_ids"
	KeyAdminUsername  = "telegram.admin_username"
	KeyOsuAPIKey      = "osu.api_key"
	KeyOsuAPIURL      = "osu.api_url"
	KeyOsuBeatmapURL  = "osu.beatmap_url"
	KeyOsuAssetsURL   = "osu.assets_url"
	KeyPrefix         = "bot.prefix"
	KeyLogLevel       = "bot.log_level"
	KeyHandlerTimeout = "handler.timeout"
	KeyMaxConcurrency = "handler.max_concurrency"
	KeyHTTPTimeout    = "http.timeout"
	KeyLogFile        = "log.file"
	KeyLogMaxSize     = "log.max_size_mb"
	KeyLogMaxBackups  = "log.max_backups"
	KeyLogMaxAge      = "log.max_age_days"
	KeyLogCompress    = "log.compress"
	KeyMetricsAddress = "metrics.listen_address"
)

type Config struct {
	Telegram Telegram
	Osu      Osu
	Bot      Bot
	Handler  Handler
	HTTP     HTTP
	Log      Log
	Metrics  Metrics
}

type Telegram struct {
	BotToken       string
	AllowedChatIDs []int64
	AdminUsername  string
}

type Osu struct {
	APIKey     string
	APIURL     string
	BeatmapURL string
	AssetsURL  string
}

type Bot struct {
	Prefix   string
	LogLevel string
}

type Handler struct {
	Timeout        time.Duration
	MaxConcurrency int
}

type HTTP struct {
	Timeout time.Duration
}

// Log configures the optional rotating log file. An empty File disables it.
type Log struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Metrics struct {
	ListenAddress string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPrefix, "/")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyHandlerTimeout, "60s")
	v.SetDefault(KeyMaxConcurrency, 16)
	v.SetDefault(KeyHTTPTimeout, "20s")
	v.SetDefault(KeyOsuAPIURL, "https://osu.ppy.sh/api")
	v.SetDefault(KeyOsuBeatmapURL, "https://osu.ppy.sh/osu")
	v.SetDefault(KeyOsuAssetsURL, "https://assets.ppy.sh/beatmaps")
	v.SetDefault(KeyLogMaxSize, 50)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyLogMaxAge, 14)
	v.SetDefault(KeyLogCompress, true)
}

// Load reads .env, the config file known to v and the environment, in
// increasing order of precedence. A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}

		log.Info().Msg("no config file found, using defaults and environment")
	}

	cfg := &Config{
		Telegram: Telegram{
			BotToken:      v.GetString(KeyBotToken),
			AdminUsername: v.GetString(KeyAdminUsername),
		},
		Osu: Osu{
			APIKey:     v.GetString(KeyOsuAPIKey),
			APIURL:     strings.TrimSuffix(v.GetString(KeyOsuAPIURL), "/"),
			BeatmapURL: strings.TrimSuffix(v.GetString(KeyOsuBeatmapURL), "/"),
			AssetsURL:  strings.TrimSuffix(v.GetString(KeyOsuAssetsURL), "/"),
		},
		Bot: Bot{
			Prefix:   v.GetString(KeyPrefix),
			LogLevel: v.GetString(KeyLogLevel),
		},
		Log: Log{
			File:       v.GetString(KeyLogFile),
			MaxSizeMB:  v.GetInt(KeyLogMaxSize),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
			MaxAgeDays: v.GetInt(KeyLogMaxAge),
			Compress:   v.GetBool(KeyLogCompress),
		},
		Metrics: Metrics{
			ListenAddress: v.GetString(KeyMetricsAddress),
		},
	}

	for _, key := range []string{KeyBotToken, KeyOsuAPIKey} {
		if v.GetString(key) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredential, key)
		}
	}

	if cfg.Bot.Prefix == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyPrefix)
	}

	var err error

	cfg.Handler.Timeout, err = parseDuration(v, KeyHandlerTimeout)
	if err != nil {
		return nil, err
	}

	cfg.HTTP.Timeout, err = parseDuration(v, KeyHTTPTimeout)
	if err != nil {
		return nil, err
	}

	cfg.Handler.MaxConcurrency, err = cast.ToIntE(v.Get(KeyMaxConcurrency))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyMaxConcurrency, err)
	}

	cfg.Telegram.AllowedChatIDs, err = parseChatIDs(v.Get(KeyAllowedChatIDs))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyAllowedChatIDs, err)
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("invalid duration for %s: must be positive", key)
	}

	return d, nil
}

// parseChatIDs accepts a TOML array or a comma separated string from the environment.
func parseChatIDs(raw any) ([]int64, error) {
	switch ids := raw.(type) {
	case nil:
		return nil, nil
	case string:
		var out []int64
		for _, field := range strings.FieldsFunc(ids, func(r rune) bool { return r == ',' || r == ' ' }) {
			id, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
		return out, nil
	case []any:
		out := make([]int64, 0, len(ids))
		for _, item := range ids {
			id, err := cast.ToInt64E(item)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", raw)
	}
}
