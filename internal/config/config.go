package config

import (
	"log"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "DAILY_PUSH_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	aiAPIKeyEnv     = "AI_API_KEY"
	aiModelEnv      = "AI_MODEL"
	pushTokenEnv    = "PUSHPLUS_TOKEN"
	localityEnv     = "WEATHER_LOCALITY"
	logLevelEnv     = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Sources  SourcesConfig  `yaml:"sources"`
	AI       AIConfig       `yaml:"ai"`
	Push     PushConfig     `yaml:"push"`
	Digest   DigestConfig   `yaml:"digest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SourcesConfig lists the upstream endpoints feeding the digest.
type SourcesConfig struct {
	WeatherURL  string `yaml:"weatherUrl"`
	Locality    string `yaml:"locality"`
	HistoryURL  string `yaml:"historyUrl"`
	TrendingURL string `yaml:"trendingUrl"`
	ImageURL    string `yaml:"imageUrl"`
}

// WeatherEndpoint appends the locality parameter to the weather URL.
func (s SourcesConfig) WeatherEndpoint() string {
	parsed, err := url.Parse(s.WeatherURL)
	if err != nil {
		return s.WeatherURL
	}
	query := parsed.Query()
	query.Set("districtId", s.Locality)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// AIConfig defines how to contact the chat-completion API.
type AIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
	Persona  string `yaml:"persona"`
}

// PushConfig wires the push channel used for delivery.
type PushConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
}

// DigestConfig shapes the rendered message.
type DigestConfig struct {
	Title    string         `yaml:"title"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the digest timezone string to a time.Location.
func (d DigestConfig) Location() *time.Location {
	if d.location != nil {
		return d.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// LoggingConfig controls console output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(aiAPIKeyEnv); v != "" {
		c.AI.APIKey = v
	}

	if v := os.Getenv(aiModelEnv); v != "" {
		c.AI.Model = v
	}

	if v := os.Getenv(pushTokenEnv); v != "" {
		c.Push.Token = v
	}

	if v := os.Getenv(localityEnv); v != "" {
		c.Sources.Locality = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Digest.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Digest.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Sources.WeatherURL != "" {
		base.Sources.WeatherURL = override.Sources.WeatherURL
	}
	if override.Sources.Locality != "" {
		base.Sources.Locality = override.Sources.Locality
	}
	if override.Sources.HistoryURL != "" {
		base.Sources.HistoryURL = override.Sources.HistoryURL
	}
	if override.Sources.TrendingURL != "" {
		base.Sources.TrendingURL = override.Sources.TrendingURL
	}
	if override.Sources.ImageURL != "" {
		base.Sources.ImageURL = override.Sources.ImageURL
	}

	if override.AI.Endpoint != "" {
		base.AI.Endpoint = override.AI.Endpoint
	}
	if override.AI.Model != "" {
		base.AI.Model = override.AI.Model
	}
	if override.AI.APIKey != "" {
		base.AI.APIKey = override.AI.APIKey
	}
	if override.AI.Persona != "" {
		base.AI.Persona = override.AI.Persona
	}

	if override.Push.Endpoint != "" {
		base.Push.Endpoint = override.Push.Endpoint
	}
	if override.Push.Token != "" {
		base.Push.Token = override.Push.Token
	}

	if override.Digest.Title != "" {
		base.Digest.Title = override.Digest.Title
	}
	if override.Digest.Timezone != "" {
		base.Digest.Timezone = override.Digest.Timezone
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{DSN: ""},
		Sources: SourcesConfig{
			WeatherURL:  "https://api.dwo.cc/api/tianqi",
			Locality:    "",
			HistoryURL:  "https://v2.api-m.com/api/history",
			TrendingURL: "https://v2.api-m.com/api/weibohot",
			ImageURL:    "https://img.8845.top/good",
		},
		AI: AIConfig{
			Endpoint: "https://api.chatanywhere.tech/v1/chat/completions",
			Model:    "gpt-3.5-turbo",
			APIKey:   "",
			Persona:  "You are an elegant, confident travelling witch chatting with a fellow traveller.",
		},
		Push: PushConfig{
			Endpoint: "https://www.pushplus.plus/send",
			Token:    "",
		},
		Digest: DigestConfig{
			Title:    "Daily Briefing",
			Timezone: defaultTimezone,
			location: tz,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
