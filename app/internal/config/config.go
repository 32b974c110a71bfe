package config

import (
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Anthropic struct {
		APIKey                 string `env:"ANTHROPIC_API_KEY" env-required:"true"`
		BaseURL                string `env:"ANTHROPIC_BASE_URL" env-default:"https://api.anthropic.com"`
		DefaultModel           string `env:"DEFAULT_MODEL" env-default:"claude-3-5-haiku-20241022"`
		RateLimitPerMin        int    `env:"RATE_LIMIT_PER_MIN" env-default:"60"`
		UpstreamTimeoutSeconds int    `env:"UPSTREAM_TIMEOUT_SECONDS" env-default:"20"`
	}
	HTTP struct {
		Port          int    `env:"PORT" env-default:"8080"`
		AllowedOrigin string `env:"ALLOWED_ORIGIN" env-default:"*"`
	}
	Session struct {
		TTLHours int `env:"SESSION_TTL_HOURS" env-default:"24"`
	}
	Repository struct {
		Type      string `env:"REPOSITORY_TYPE" env-default:"memory"`
		SQLiteDSN string `env:"SQLITE_DSN" env-default:"sessions.db"`
	}
}

// Singleton: Config should only ever be created once.
var instance *Config

// Once is an object that will perform exactly one action.
var once sync.Once

// GetConfig returns pointer to Config.
func GetConfig() *Config {
	once.Do(func() {
		log.Print("collecting config...")

		instance = &Config{}

		// Read environment variables into the instance of the Config
		if err := cleanenv.ReadEnv(instance); err != nil {
			helpText := "Environment variables error:"
			help, descErr := cleanenv.GetDescription(instance, &helpText)
			if descErr != nil {
				log.Fatal(descErr)
			}
			log.Print(help)

			log.Fatal(err)
		}
	})
	return instance
}
