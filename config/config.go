// Package config loads the process-wide settings consumed by the access
// checks. Values come from an optional YAML file overlaid with environment
// variables (ACCESSGATE_OWNER_ID, ACCESSGATE_TOKEN_TIMEOUT, ...).
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all the configuration.
type Config struct {
	Bot       BotConfig
	Gate      GateConfig
	Redis     RedisConfig
	Shortener ShortenerConfig
}

// BotConfig identifies the bot on the platform.
type BotConfig struct {
	Token    string
	Username string
}

// GateConfig drives the access checks.
type GateConfig struct {
	// OwnerID is the bot owner's user id.
	OwnerID int64 `mapstructure:"owner_id"`
	// ExemptChatID bypasses every check for the matching requester.
	ExemptChatID int64 `mapstructure:"exempt_chat_id"`
	// FSubIDs is the space-separated forced-subscription channel id list.
	FSubIDs string `mapstructure:"fsub_ids"`
	// TokenTimeout is the token window in seconds; 0 disables tokens.
	TokenTimeout int64 `mapstructure:"token_timeout"`
	// PaidChannelID and PaidChannelLink configure the paid bypass.
	PaidChannelID   int64  `mapstructure:"paid_channel_id"`
	PaidChannelLink string `mapstructure:"paid_channel_link"`
	// NSFWKeywords overrides the built-in keyword list when non-empty.
	NSFWKeywords []string `mapstructure:"nsfw_keywords"`
}

// RedisConfig stores data for the redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ShortenerConfig stores data for the link-shortener client.
type ShortenerConfig struct {
	Endpoint string
	APIKey   string `mapstructure:"api_key"`
}

// Load reads the configuration. An absent config file is not an error:
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("accessgate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("gate.token_timeout", 0)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// FSubChannelIDs parses the space-separated channel id list. Malformed
// entries are dropped.
func (g GateConfig) FSubChannelIDs() []int64 {
	fields := strings.Fields(g.FSubIDs)
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
