package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every environment-driven knob the service reads at startup.
type Config struct {
	ServiceName string
	Env         string
	Port        string

	PixBaseURL string
	PixAPIKey  string

	CardBaseURL string
	CardAPIKey  string

	WebhookURL string

	ProviderTimeout time.Duration
	WebhookTimeout  time.Duration

	SandboxSuccessRate float64
}

// Load reads the configuration from the environment, falling back to
// development defaults.
func Load() Config {
	return Config{
		ServiceName: getenv("SERVICE_NAME", "fastcv-payments"),
		Env:         getenv("ENV", "dev"),
		Port:        getenv("PORT", "8080"),

		PixBaseURL: getenv("PIX_BASE_URL", "https://api.abacatepay.com"),
		PixAPIKey:  os.Getenv("PIX_API_KEY"),

		CardBaseURL: getenv("CARD_BASE_URL", "https://api.pagar.me"),
		CardAPIKey:  os.Getenv("CARD_API_KEY"),

		WebhookURL: os.Getenv("PAYMENT_WEBHOOK_URL"),

		ProviderTimeout: getenvDuration("PROVIDER_TIMEOUT", 15*time.Second),
		WebhookTimeout:  getenvDuration("WEBHOOK_TIMEOUT", 10*time.Second),

		SandboxSuccessRate: getenvFloat("SANDBOX_SUCCESS_RATE", 0.7),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
