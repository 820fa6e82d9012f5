// Package config resolves runtime settings from an optional YAML file
// with DASHD_* environment variables taking precedence.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Bind             string
	DataDir          string
	CORSOrigin       string
	TrustProxy       bool
	LogLevel         zerolog.Level
	SessionTTL       time.Duration
	SessionSecret    []byte
	DefaultPassword  string
	RateLoginPerHour int
	RateAPIPer15m    int
	WeatherAPIKey    string
	WeatherCity      string
	WeatherCountry   string
}

type fileConfig struct {
	HTTP struct {
		Bind string `yaml:"bind"`
	} `yaml:"http"`
	Data struct {
		Dir string `yaml:"dir"`
	} `yaml:"data"`
	CORS struct {
		Origin string `yaml:"origin"`
	} `yaml:"cors"`
	Sessions struct {
		TTL    string `yaml:"ttl"`
		Secret string `yaml:"secret"`
	} `yaml:"sessions"`
	Auth struct {
		DefaultPassword string `yaml:"defaultPassword"`
	} `yaml:"auth"`
	Rate struct {
		LoginPerHour int `yaml:"loginPerHour"`
		APIPer15m    int `yaml:"apiPer15m"`
	} `yaml:"rate"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Weather struct {
		APIKey  string `yaml:"apiKey"`
		City    string `yaml:"city"`
		Country string `yaml:"country"`
	} `yaml:"weather"`
	TrustProxy bool `yaml:"trustProxy"`
}

// Load builds the config from defaults, then the YAML file at path (if
// any), then the environment. It never fails the process: unreadable or
// malformed files fall back to defaults plus env.
func Load(path string) Config {
	cfg := Config{
		Bind:             "127.0.0.1:3000",
		DataDir:          "data",
		CORSOrigin:       "http://localhost:3000",
		LogLevel:         zerolog.InfoLevel,
		SessionTTL:       time.Hour,
		DefaultPassword:  "admin123",
		RateLoginPerHour: 5,
		RateAPIPer15m:    100,
		WeatherCity:      "Palmerston North",
		WeatherCountry:   "NZ",
	}

	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			var fc fileConfig
			if err := yaml.Unmarshal(b, &fc); err == nil {
				applyFile(&cfg, fc)
			}
		}
	}
	applyEnv(&cfg)
	return cfg
}

func applyFile(cfg *Config, fc fileConfig) {
	if fc.HTTP.Bind != "" {
		cfg.Bind = fc.HTTP.Bind
	}
	if fc.Data.Dir != "" {
		cfg.DataDir = fc.Data.Dir
	}
	if fc.CORS.Origin != "" {
		cfg.CORSOrigin = fc.CORS.Origin
	}
	if fc.Sessions.TTL != "" {
		if d, err := time.ParseDuration(fc.Sessions.TTL); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if fc.Sessions.Secret != "" {
		cfg.SessionSecret = []byte(fc.Sessions.Secret)
	}
	if fc.Auth.DefaultPassword != "" {
		cfg.DefaultPassword = fc.Auth.DefaultPassword
	}
	if fc.Rate.LoginPerHour > 0 {
		cfg.RateLoginPerHour = fc.Rate.LoginPerHour
	}
	if fc.Rate.APIPer15m > 0 {
		cfg.RateAPIPer15m = fc.Rate.APIPer15m
	}
	if fc.Logging.Level != "" {
		if l, err := zerolog.ParseLevel(fc.Logging.Level); err == nil {
			cfg.LogLevel = l
		}
	}
	if fc.Weather.APIKey != "" {
		cfg.WeatherAPIKey = fc.Weather.APIKey
	}
	if fc.Weather.City != "" {
		cfg.WeatherCity = fc.Weather.City
	}
	if fc.Weather.Country != "" {
		cfg.WeatherCountry = fc.Weather.Country
	}
	cfg.TrustProxy = fc.TrustProxy
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DASHD_BIND"); v != "" {
		cfg.Bind = v
	} else if v := os.Getenv("DASHD_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Bind = "127.0.0.1:" + v
		}
	}
	if v := os.Getenv("DASHD_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DASHD_CORS_ORIGIN"); v != "" {
		cfg.CORSOrigin = v
	}
	if v := os.Getenv("DASHD_SESSION_SECRET"); v != "" {
		cfg.SessionSecret = []byte(v)
	}
	if v := os.Getenv("DASHD_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if v := os.Getenv("DASHD_DEFAULT_PASSWORD"); v != "" {
		cfg.DefaultPassword = v
	}
	if v := os.Getenv("DASHD_LOG"); v != "" {
		if l, err := zerolog.ParseLevel(v); err == nil {
			cfg.LogLevel = l
		}
	}
	if v := os.Getenv("DASHD_TRUST_PROXY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TrustProxy = b
		}
	}
	if v := os.Getenv("DASHD_RATE_LOGIN_PER_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLoginPerHour = n
		}
	}
	if v := os.Getenv("DASHD_RATE_API_PER_15M"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateAPIPer15m = n
		}
	}
	if v := os.Getenv("DASHD_WEATHER_API_KEY"); v != "" {
		cfg.WeatherAPIKey = v
	}
	if v := os.Getenv("DASHD_CITY"); v != "" {
		cfg.WeatherCity = v
	}
	if v := os.Getenv("DASHD_COUNTRY"); v != "" {
		cfg.WeatherCountry = v
	}
}
