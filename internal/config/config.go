package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Discord  DiscordConfig  `yaml:"discord"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Database DatabaseConfig `yaml:"database"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
	PostHour  int    `yaml:"post_hour"`
}

type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: 9872},
		Discord:  DiscordConfig{PostHour: 9},
		OpenAI:   OpenAIConfig{BaseURL: "https://api.openai.com", Model: "gpt-3.5-turbo"},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Database: DatabaseConfig{Path: "mistressbot.db"},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/mistressbot/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Discord.Token, "DISCORD_BOT_TOKEN")
	envOverride(&c.Discord.ChannelID, "CHANNEL_ID")
	envOverride(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	envOverride(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	envOverride(&c.OpenAI.Model, "OPENAI_MODEL")
	envOverride(&c.Database.Path, "DB_PATH")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Discord.PostHour, "DAILY_POST_HOUR")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(c.Database.Path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", c.Database.Path, err)
	}
	return db, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
