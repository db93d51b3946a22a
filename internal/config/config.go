package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"eduappbot/internal/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.yaml
const EnvPrefix = "EDUBOT"

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	EduApp     EduAppConfig     `yaml:"eduapp"`
	Redis      RedisConfig      `yaml:"redis"`
	Bot        BotConfig        `yaml:"bot"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Blacklist  []int64          `yaml:"blacklist"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token" split_words:"true"`
	Debug    bool   `yaml:"debug"`
}

// EduAppConfig описывает подключение к API EduApp.
// APIURL используется для REST-запросов, SiteURL для ссылок, которые видит пользователь.
type EduAppConfig struct {
	APIURL         string  `yaml:"api_url"`
	SiteURL        string  `yaml:"site_url" split_words:"true"`
	Timeout        int     `yaml:"timeout"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" split_words:"true"`
	RateLimitBurst int     `yaml:"rate_limit_burst" split_words:"true"`
	CacheTTL       int     `yaml:"cache_ttl" split_words:"true"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size" split_words:"true"`
}

type BotConfig struct {
	RateLimitMessages int `yaml:"rate_limit_messages" split_words:"true"`
	RateLimitWindow   int `yaml:"rate_limit_window" split_words:"true"`
	SessionTTL        int `yaml:"session_ttl" split_words:"true"`
	UpdateTimeout     int `yaml:"update_timeout" split_words:"true"`
}

type MonitoringConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

func Load(configPath string) (*Config, error) {
	// .env не обязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	if c.EduApp.APIURL == "" {
		return errors.New("eduapp api_url is required")
	}
	u, err := url.Parse(c.EduApp.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("eduapp api_url must be an absolute http(s) URL: %q", c.EduApp.APIURL)
	}

	if c.Monitoring.Enabled && (c.Monitoring.Port <= 0 || c.Monitoring.Port > 65535) {
		return fmt.Errorf("invalid monitoring port: %d", c.Monitoring.Port)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "eduappbot"
	}
	if c.EduApp.SiteURL == "" {
		c.EduApp.SiteURL = models.DefaultSiteURL
	}
	if c.EduApp.Timeout == 0 {
		c.EduApp.Timeout = models.DefaultHTTPTimeout
	}
	if c.EduApp.RateLimitRPS == 0 {
		c.EduApp.RateLimitRPS = models.DefaultAPIRateLimitRPS
	}
	if c.EduApp.RateLimitBurst == 0 {
		c.EduApp.RateLimitBurst = models.DefaultAPIRateLimitBurst
	}

	if c.Monitoring.Enabled && c.Monitoring.Port == 0 {
		c.Monitoring.Port = 9090
	}

	// Bot defaults
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
	if c.Bot.SessionTTL == 0 {
		c.Bot.SessionTTL = models.DefaultSessionTTL
	}
	if c.Bot.UpdateTimeout == 0 {
		c.Bot.UpdateTimeout = models.DefaultUpdateTimeout
	}
}
