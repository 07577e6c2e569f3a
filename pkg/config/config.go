package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Provider  ProviderConfig
	Cache     CacheConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Locale    LocaleConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type ProviderConfig struct {
	DefaultLocale string
	DefaultRegion string
	SearchLimit   int
	ReviewCount   int
	SuggestLimit  int
	TimeoutSec    int
}

type CacheConfig struct {
	Backend    string
	TTLSeconds int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LLMConfig struct {
	Enabled     bool
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	TimeoutSec  int
}

type LocaleConfig struct {
	// TextConfigPath points at the JSON file holding per-locale keyword
	// tables (complaint clusters, wishlist patterns, size markers).
	// Built-in defaults apply when the file is absent.
	TextConfigPath string
}

type RateLimitConfig struct {
	MaxRequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/app-scout")

	viper.SetEnvPrefix("APP_SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 60)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("provider.defaultLocale", "id")
	viper.SetDefault("provider.defaultRegion", "id")
	viper.SetDefault("provider.searchLimit", 20)
	viper.SetDefault("provider.reviewCount", 300)
	viper.SetDefault("provider.suggestLimit", 3)
	viper.SetDefault("provider.timeoutSec", 10)

	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.ttlSeconds", 3600)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("llm.enabled", false)
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.3)
	viper.SetDefault("llm.maxTokens", 400)
	viper.SetDefault("llm.timeoutSec", 30)

	viper.SetDefault("locale.textConfigPath", "./config/locale_text.json")

	viper.SetDefault("ratelimit.maxRequestsPerMinute", 60)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
