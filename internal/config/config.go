// Package config loads gonewton's runtime configuration.
//
// Values are resolved in three layers: built-in defaults, then the YAML file,
// then GONEWTON_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. Its absence is not an error.
const DefaultPath = "gonewton.yaml"

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Solver SolverConfig `mapstructure:"solver"`
	MCP    MCPConfig    `mapstructure:"mcp"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig enables the result cache when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type SolverConfig struct {
	Budget    time.Duration `mapstructure:"budget"`
	Precision int           `mapstructure:"precision"`
}

type MCPConfig struct {
	Transport string `mapstructure:"transport"`
	Port      int    `mapstructure:"port"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Redis: RedisConfig{
			Prefix: "gonewton:result:",
			TTL:    time.Hour,
		},
		Solver: SolverConfig{
			Budget:    5 * time.Second,
			Precision: 11,
		},
		MCP: MCPConfig{
			Transport: "stdio",
			Port:      8081,
		},
	}
}

// Load resolves the configuration. An empty path means DefaultPath, which may
// be missing; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

var envInts = map[string]func(*Config, int){
	"GONEWTON_REDIS_DB": func(c *Config, v int) { c.Redis.DB = v },
}

var envStrings = map[string]func(*Config, string){
	"GONEWTON_ADDR":           func(c *Config, v string) { c.Server.Addr = v },
	"GONEWTON_LOG_LEVEL":      func(c *Config, v string) { c.Log.Level = v },
	"GONEWTON_REDIS_ADDR":     func(c *Config, v string) { c.Redis.Addr = v },
	"GONEWTON_REDIS_PASSWORD": func(c *Config, v string) { c.Redis.Password = v },
}

func applyEnv(cfg *Config) error {
	for name, set := range envStrings {
		if v, ok := os.LookupEnv(name); ok {
			set(cfg, strings.TrimSpace(v))
		}
	}
	for name, set := range envInts {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		set(cfg, n)
	}
	return nil
}

// Validate rejects values the front ends cannot run with.
func (c Config) Validate() error {
	if c.Solver.Precision < 1 || c.Solver.Precision > 17 {
		return fmt.Errorf("solver.precision must be between 1 and 17, got %d", c.Solver.Precision)
	}
	if c.Solver.Budget < 0 {
		return fmt.Errorf("solver.budget must not be negative")
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("mcp.transport must be stdio or sse, got %q", c.MCP.Transport)
	}
	return nil
}
