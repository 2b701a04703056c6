// Package config loads application configuration from environment variables
// into tagged structs, with optional .env file support for development.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//	type SessionConfig struct {
//	    Secret string        `env:"SESSION_SECRET,required"`
//	    TTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
//	}
//
//	var cfg SessionConfig
//	config.MustLoad(&cfg)
//
// Each component owns its Config struct next to the code that consumes it,
// so the environment surface of the application is discoverable per package.
package config
