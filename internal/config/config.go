package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Scoreboard struct {
		// UTCOffsetHours is the competition's reporting offset (default +7).
		UTCOffsetHours *int   `yaml:"utc_offset_hours"`
		QuestionTTL    string `yaml:"question_ttl"`
		SeedTeams      int    `yaml:"seed_teams"`
	} `yaml:"scoreboard"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// UTCOffsetHours returns the configured reporting offset or 7 when unset.
func (c Config) UTCOffsetHours() int {
	if c.Scoreboard.UTCOffsetHours == nil {
		return 7
	}
	return *c.Scoreboard.UTCOffsetHours
}
