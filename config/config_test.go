package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the duration of the test so Load does not pick up
// a config.yaml from the working tree.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 180*time.Second, cfg.GPT.Timeout)
	assert.Equal(t, 3, cfg.GPT.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.GPT.RetryDelay)
	assert.Equal(t, 10, cfg.GPT.MaxToolRounds)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "es", cfg.Language)
	assert.False(t, cfg.PaymentsEnabled())
	assert.False(t, cfg.PhotosEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("GPT_APIKEY", "sk-test")
	t.Setenv("GPT_TIMEOUT", "30s")
	t.Setenv("STORE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tg-token", cfg.Telegram.Token)
	assert.Equal(t, "sk-test", cfg.GPT.APIKey)
	assert.Equal(t, 30*time.Second, cfg.GPT.Timeout)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileWithEnvPlaceholder(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MY_BOT_TOKEN", "from-placeholder")

	yaml := []byte("telegram:\n  token: ${MY_BOT_TOKEN}\ngpt:\n  apikey: sk-file\n  maxattempts: 5\nstore:\n  driver: memory\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-placeholder", cfg.Telegram.Token)
	assert.Equal(t, "sk-file", cfg.GPT.APIKey)
	assert.Equal(t, 5, cfg.GPT.MaxAttempts)
	assert.Equal(t, "memory", cfg.Store.Driver)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Telegram: TelegramConfig{Token: "t"},
			GPT:      GPTConfig{APIKey: "k", MaxAttempts: 3},
			Store:    StoreConfig{Driver: "memory"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing token", func(c *Config) { c.Telegram.Token = "" }, true},
		{"missing api key", func(c *Config) { c.GPT.APIKey = "" }, true},
		{"unknown driver", func(c *Config) { c.Store.Driver = "redis" }, true},
		{"incomplete stripe", func(c *Config) { c.Stripe.SecretKey = "sk" }, true},
		{"complete stripe", func(c *Config) {
			c.Stripe = StripeConfig{SecretKey: "sk", WebhookKey: "wh", PriceID: "price"}
		}, false},
		{"zero attempts", func(c *Config) { c.GPT.MaxAttempts = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
