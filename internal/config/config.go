// Package config loads the site's settings from an optional YAML file, .env files
// and environment variables, in that order of increasing priority.
//
// Example config.yml:
//
//	server:
//	  address: ":3000"
//	  dev_mode: true
//	backend:
//	  origin: "http://localhost:8000"
//	  timeout: 10s
//
// Every field can be overridden through the variable named in its `env` tag.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete site configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Backend  BackendConfig  `yaml:"backend"`
	Session  SessionConfig  `yaml:"session"`
	PubSub   PubSubConfig   `yaml:"pubsub"`
	Live     LiveConfig     `yaml:"live"`
	Document DocumentConfig `yaml:"document"`
}

type ServerConfig struct {
	Address string `yaml:"address" env:"ELEGANT_ADDRESS"`
	DevMode bool   `yaml:"dev_mode" env:"ELEGANT_DEV_MODE"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"ELEGANT_LOG_LEVEL"`
}

// BackendConfig points at the content API.
type BackendConfig struct {
	Origin  string        `yaml:"origin" env:"ELEGANT_BACKEND_ORIGIN"`
	Timeout time.Duration `yaml:"timeout" env:"ELEGANT_BACKEND_TIMEOUT"`
}

// SessionConfig controls the SQLite-backed visitor sessions. An empty DBPath keeps
// sessions in memory.
type SessionConfig struct {
	DBPath          string        `yaml:"db_path" env:"ELEGANT_SESSION_DB"`
	Lifetime        time.Duration `yaml:"lifetime" env:"ELEGANT_SESSION_LIFETIME"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"ELEGANT_SESSION_CLEANUP"`
}

// PubSubConfig enables the embedded NATS bus. An empty DataDir disables it.
type PubSubConfig struct {
	DataDir string `yaml:"data_dir" env:"ELEGANT_NATS_DIR"`
}

type LiveConfig struct {
	ContextTTL  time.Duration `yaml:"context_ttl" env:"ELEGANT_CONTEXT_TTL"`
	ActionRate  float64       `yaml:"action_rate" env:"ELEGANT_ACTION_RATE"`
	ActionBurst int           `yaml:"action_burst" env:"ELEGANT_ACTION_BURST"`
}

type DocumentConfig struct {
	Title       string `yaml:"title" env:"ELEGANT_TITLE"`
	Description string `yaml:"description" env:"ELEGANT_DESCRIPTION"`
}

// Default returns the settings used for anything the file and environment leave unset.
func Default() Config {
	return Config{
		Server:  ServerConfig{Address: ":3000"},
		Log:     LogConfig{Level: "info"},
		Backend: BackendConfig{Origin: "http://localhost:8000", Timeout: 10 * time.Second},
		Session: SessionConfig{
			DBPath:          "data/sessions.db",
			Lifetime:        24 * time.Hour,
			CleanupInterval: 5 * time.Minute,
		},
		Live: LiveConfig{ContextTTL: 30 * time.Second},
		Document: DocumentConfig{
			Title:       "Elegant Interiors",
			Description: "Interior design for homes, offices and hospitality spaces.",
		},
	}
}

// Load builds the configuration. Defaults come first, then the YAML file at path
// (skipped when path is empty), then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// loadEnvFiles loads ENV_FILE when set, otherwise .env.local and then .env.
// Variables already present in the environment are never overwritten.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg any) {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	applyEnvToStruct(v)
}

func applyEnvToStruct(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			applyEnvToStruct(field)
			continue
		}
		envTag := t.Field(i).Tag.Get("env")
		if envTag == "" {
			continue
		}
		if envVal := os.Getenv(envTag); envVal != "" {
			setFieldFromString(field, envVal)
		}
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

func setFieldFromString(field reflect.Value, val string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Int, reflect.Int64:
		if field.Type() == durationType {
			if d, err := time.ParseDuration(val); err == nil {
				field.SetInt(int64(d))
			}
		} else if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Float64:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			field.SetFloat(f)
		}
	case reflect.Bool:
		s := strings.ToLower(strings.TrimSpace(val))
		field.SetBool(s == "true" || s == "1" || s == "yes")
	}
}
