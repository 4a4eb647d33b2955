// config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type TelegramConfig struct {
	Token     string
	Debug     bool
	RateLimit float64 // requests per second per user
	RateBurst int
}

type StoreConfig struct {
	Driver string // postgres, sqlite, mongo or memory
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

type SQLiteConfig struct {
	Path string
}

type MongoConfig struct {
	URI      string
	Database string
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
}

type StripeConfig struct {
	SecretKey  string
	PublicKey  string
	WebhookKey string
	ProductID  string
	PriceID    string
}

type GPTConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	ChatModel     string
	VisionModel   string
	SpeechModel   string
	Voice         string
	Timeout       time.Duration
	MaxAttempts   int
	RetryDelay    time.Duration
	MaxToolRounds int
}

type ServerConfig struct {
	Port string
}

type LogConfig struct {
	Level       string
	Development bool
}

type Config struct {
	Telegram        TelegramConfig
	Store           StoreConfig
	DB              DBConfig
	SQLite          SQLiteConfig
	Mongo           MongoConfig
	S3              S3Config
	Stripe          StripeConfig
	GPT             GPTConfig
	Server          ServerConfig
	Log             LogConfig
	Language        string
	ShutdownTimeout time.Duration

	v *viper.Viper
}

// Load loads the configuration
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add paths where to look for the config file
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")
	v.AddConfigPath("$HOME/.fitlife-bot")

	setDefaults(v)

	// Environment variables override config values, e.g. GPT_APIKEY -> GPT.APIKey
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file: defaults + environment only
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ShutdownTimeout", 10*time.Second)
	v.SetDefault("Language", "es")

	v.SetDefault("Telegram.Token", "")
	v.SetDefault("Telegram.Debug", false)
	v.SetDefault("Telegram.RateLimit", 1.0)
	v.SetDefault("Telegram.RateBurst", 5)

	v.SetDefault("Store.Driver", "postgres")

	v.SetDefault("DB.Host", "localhost")
	v.SetDefault("DB.Port", "5432")
	v.SetDefault("DB.User", "postgres")
	v.SetDefault("DB.Password", "postgres")
	v.SetDefault("DB.DBName", "fitlife_bot")
	v.SetDefault("DB.SSLMode", "disable")
	v.SetDefault("DB.MaxOpenConns", 20)
	v.SetDefault("DB.MaxIdleConns", 10)
	v.SetDefault("DB.ConnLifetime", 5*time.Minute)

	v.SetDefault("SQLite.Path", "fitlife.db")

	v.SetDefault("Mongo.URI", "mongodb://localhost:27017")
	v.SetDefault("Mongo.Database", "fitlife_bot")

	v.SetDefault("S3.Endpoint", "")
	v.SetDefault("S3.Region", "us-east-1")
	v.SetDefault("S3.AccessKeyID", "")
	v.SetDefault("S3.SecretAccessKey", "")
	v.SetDefault("S3.BucketName", "")

	v.SetDefault("Stripe.SecretKey", "")
	v.SetDefault("Stripe.PublicKey", "")
	v.SetDefault("Stripe.WebhookKey", "")
	v.SetDefault("Stripe.ProductID", "")
	v.SetDefault("Stripe.PriceID", "")

	v.SetDefault("GPT.APIKey", "")
	v.SetDefault("GPT.BaseURL", "")
	v.SetDefault("GPT.Model", "gpt-4o-mini")
	v.SetDefault("GPT.ChatModel", "gpt-4o-mini")
	v.SetDefault("GPT.VisionModel", "gpt-4o-mini")
	v.SetDefault("GPT.SpeechModel", "tts-1")
	v.SetDefault("GPT.Voice", "nova")
	v.SetDefault("GPT.Timeout", 180*time.Second)
	v.SetDefault("GPT.MaxAttempts", 3)
	v.SetDefault("GPT.RetryDelay", 2*time.Second)
	v.SetDefault("GPT.MaxToolRounds", 10)

	v.SetDefault("Server.Port", "8080")

	v.SetDefault("Log.Level", "info")
	v.SetDefault("Log.Development", false)
}

func decode(v *viper.Viper) (*Config, error) {
	// Process any ${ENV_VAR} syntax in the config values
	for _, key := range v.AllKeys() {
		value := v.GetString(key)
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			envVar := strings.TrimPrefix(strings.TrimSuffix(value, "}"), "${")
			if envValue := os.Getenv(envVar); envValue != "" {
				v.Set(key, envValue)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.v = v

	return &cfg, nil
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram token is not configured")
	}
	if c.GPT.APIKey == "" {
		return errors.New("GPT API key is not configured")
	}
	switch c.Store.Driver {
	case "postgres", "sqlite", "mongo", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.PaymentsEnabled() && (c.Stripe.WebhookKey == "" || c.Stripe.PriceID == "") {
		return errors.New("stripe configuration is incomplete")
	}
	if c.GPT.MaxAttempts < 1 {
		return errors.New("GPT.MaxAttempts must be at least 1")
	}
	return nil
}

// PaymentsEnabled reports whether plan generation is gated behind a Stripe checkout.
func (c *Config) PaymentsEnabled() bool {
	return c.Stripe.SecretKey != ""
}

// PhotosEnabled reports whether progress photos can be stored.
func (c *Config) PhotosEnabled() bool {
	return c.S3.BucketName != ""
}

// Watch re-reads the config file whenever it changes and hands the new values to fn.
// Only a config loaded from a file can be watched.
func (c *Config) Watch(fn func(*Config)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(c.v)
		if err != nil {
			return
		}
		fn(cfg)
	})
	c.v.WatchConfig()
}
