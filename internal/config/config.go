// Package config provides YAML-based configuration loading for GoalRaiders.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goalraiders/goalraiders/internal/game"
	"gopkg.in/yaml.v3"
)

// Config is the top-level GoalRaiders configuration, loaded from
// goalraiders.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Game     GameConfig     `yaml:"game"`
	Scanner  ScannerConfig  `yaml:"scanner"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds connection settings. Driver is "mysql" or "sqlite";
// sqlite uses Path, mysql uses Host/Port/User/Password/Database.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Path     string `yaml:"path"`
}

// AuthConfig holds bearer-token settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// GameConfig holds the difficulty balance tables. Empty maps fall back to
// the built-in defaults.
type GameConfig struct {
	DifficultyDamage map[game.Difficulty]int `yaml:"difficulty_damage"`
	BossHP           map[game.Difficulty]int `yaml:"boss_hp"`
	BossXPReward     map[game.Difficulty]int `yaml:"boss_xp_reward"`
}

// ScannerConfig holds recurrence scanner settings. Schedule is a 5-field
// cron expression.
type ScannerConfig struct {
	Schedule string `yaml:"schedule"`
}

// NotifyConfig controls how "task due" notifications are delivered. All
// channels are optional; configured channels are used together.
type NotifyConfig struct {
	Command string              `yaml:"command"`
	Slack   SlackNotifyConfig   `yaml:"slack"`
	Discord DiscordNotifyConfig `yaml:"discord"`
}

// SlackNotifyConfig holds Slack delivery settings.
type SlackNotifyConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// DiscordNotifyConfig holds Discord delivery settings.
type DiscordNotifyConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Tables builds the immutable game tables from configuration.
func (c *Config) Tables() *game.Tables {
	return game.New(c.Game.DifficultyDamage, c.Game.BossHP, c.Game.BossXPReward)
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Database == "" {
		c.Database.Database = "goalraiders"
	}
	if c.Database.Path == "" {
		c.Database.Path = "goalraiders.db"
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 24 * 30
	}
	if c.Scanner.Schedule == "" {
		c.Scanner.Schedule = "0 0 * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not one of mysql, sqlite", c.Database.Driver))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, "auth.jwt_secret is required")
	}
	tables := []struct {
		label string
		m     map[game.Difficulty]int
	}{
		{"game.difficulty_damage", c.Game.DifficultyDamage},
		{"game.boss_hp", c.Game.BossHP},
		{"game.boss_xp_reward", c.Game.BossXPReward},
	}
	for _, tbl := range tables {
		for d, v := range tbl.m {
			if !d.Valid() {
				errs = append(errs, fmt.Sprintf("%s: unknown difficulty %q", tbl.label, d))
			}
			if v < 0 {
				errs = append(errs, fmt.Sprintf("%s[%s] must not be negative", tbl.label, d))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
