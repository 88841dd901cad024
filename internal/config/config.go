// Package config reads runtime settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every environment-driven setting.
type Config struct {
	LogLevel    string
	LogFormat   string // "text" or "json"
	Tolerant    bool   // perturbation-tolerant hit keys
	CacheSize   int
	LoadTimeout time.Duration
	AutoConfirm bool
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "text",
		CacheSize:   64,
		LoadTimeout: 2 * time.Second,
		AutoConfirm: true,
	}
}

// Load reads the named env files, or ./.env when none are named, and then
// the OPI_* variables. Only a missing ./.env is ignored; a named file must
// exist. Malformed values are an error.
func Load(files ...string) (Config, error) {
	err := godotenv.Load(files...)
	if err != nil && !(len(files) == 0 && os.IsNotExist(err)) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Defaults()
	if v := getenv("OPI_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("OPI_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	var err error
	if c.Tolerant, err = boolVar(getenv, "OPI_PERTURBATION_TOLERANT", c.Tolerant); err != nil {
		return Config{}, err
	}
	if c.AutoConfirm, err = boolVar(getenv, "OPI_AUTO_CONFIRM", c.AutoConfirm); err != nil {
		return Config{}, err
	}
	if c.CacheSize, err = intVar(getenv, "OPI_CACHE_SIZE", c.CacheSize); err != nil {
		return Config{}, err
	}
	ms, err := intVar(getenv, "OPI_LOAD_TIMEOUT_MS", int(c.LoadTimeout/time.Millisecond))
	if err != nil {
		return Config{}, err
	}
	c.LoadTimeout = time.Duration(ms) * time.Millisecond
	return c, c.Validate()
}

func boolVar(getenv func(string) string, name string, def bool) (bool, error) {
	v := getenv(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

func intVar(getenv func(string) string, name string, def int) (int, error) {
	v := getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q: expected text or json", c.LogFormat)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size %d: must be positive", c.CacheSize)
	}
	if c.LoadTimeout <= 0 {
		return fmt.Errorf("load timeout %s: must be positive", c.LoadTimeout)
	}
	return nil
}

// ConfigureLogging applies the level and formatter to the standard logrus
// logger.
func (c Config) ConfigureLogging() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	logrus.SetOutput(os.Stderr)
	return nil
}
