package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"mosaic-theme/internal/theme"
)

const (
	envPrefix = "MOSAIC"

	defaultSSHHost            = "0.0.0.0"
	defaultSSHPort            = 2222
	defaultHostKeyPath        = ".data/host_ed25519"
	defaultIdleTimeout        = 120 * time.Second
	defaultMaxSessions        = 32
	defaultRateLimitPerMinute = 30
	defaultRateLimitBurst     = 10
	defaultHTTPAddr           = "127.0.0.1:8080"
	defaultThemeMode          = "light"
	defaultLogLevel           = "info"
	maximumConfiguredSessions = 1024
)

const (
	keySSHHost            = "ssh_host"
	keySSHPort            = "ssh_port"
	keyHostKeyPath        = "ssh_host_key_path"
	keyIdleTimeout        = "ssh_idle_timeout"
	keyMaxSessions        = "ssh_max_sessions"
	keyRateLimitPerMinute = "ssh_rate_limit_per_minute"
	keyRateLimitBurst     = "ssh_rate_limit_burst"
	keyHTTPAddr           = "http_addr"
	keyThemeMode          = "theme_mode"
	keyThemeOverrides     = "theme_overrides"
	keyLogLevel           = "log_level"
)

var logLevels = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}

// Config captures startup settings for the theme server.
type Config struct {
	SSHHost            string
	SSHPort            int
	HostKeyPath        string
	IdleTimeout        time.Duration
	MaxSessions        int
	RateLimitPerMinute int
	RateLimitBurst     int

	// HTTPAddr is the listen address of the theme API. Empty disables it.
	HTTPAddr string

	// DefaultMode is used when a session or request names no mode.
	DefaultMode theme.Mode
	// ModeFallback is true when the configured mode was not recognized and
	// DefaultMode holds the substituted value.
	ModeFallback bool
	// OverridesPath optionally names a YAML override layer applied on top
	// of every resolved configuration.
	OverridesPath string

	LogLevel string
}

// SSHAddress returns host:port for the SSH listener.
func (c Config) SSHAddress() string {
	return fmt.Sprintf("%s:%d", c.SSHHost, c.SSHPort)
}

// LoadFromEnv loads configuration from MOSAIC_* environment variables.
func LoadFromEnv() (Config, error) {
	return Load("")
}

// Load reads configuration from an optional file (yaml, json or toml by
// extension) and MOSAIC_* environment variables. Environment wins over the
// file; both win over defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	v.SetDefault(keySSHHost, defaultSSHHost)
	v.SetDefault(keySSHPort, strconv.Itoa(defaultSSHPort))
	v.SetDefault(keyHostKeyPath, defaultHostKeyPath)
	v.SetDefault(keyIdleTimeout, defaultIdleTimeout.String())
	v.SetDefault(keyMaxSessions, strconv.Itoa(defaultMaxSessions))
	v.SetDefault(keyRateLimitPerMinute, strconv.Itoa(defaultRateLimitPerMinute))
	v.SetDefault(keyRateLimitBurst, strconv.Itoa(defaultRateLimitBurst))
	v.SetDefault(keyHTTPAddr, defaultHTTPAddr)
	v.SetDefault(keyThemeMode, defaultThemeMode)
	v.SetDefault(keyThemeOverrides, "")
	v.SetDefault(keyLogLevel, defaultLogLevel)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	host, err := readRequired(v, keySSHHost)
	if err != nil {
		return Config{}, err
	}

	port, err := readInt(v, keySSHPort, 1, 65535)
	if err != nil {
		return Config{}, err
	}

	hostKeyPath, err := readRequired(v, keyHostKeyPath)
	if err != nil {
		return Config{}, err
	}
	cleanHostKeyPath := filepath.Clean(hostKeyPath)
	if cleanHostKeyPath == "." {
		return Config{}, fmt.Errorf("%s must not resolve to current directory", envName(keyHostKeyPath))
	}

	idleTimeout, err := readDuration(v, keyIdleTimeout)
	if err != nil {
		return Config{}, err
	}

	maxSessions, err := readInt(v, keyMaxSessions, 1, maximumConfiguredSessions)
	if err != nil {
		return Config{}, err
	}

	rateLimit, err := readInt(v, keyRateLimitPerMinute, 1, 10000)
	if err != nil {
		return Config{}, err
	}

	burst, err := readInt(v, keyRateLimitBurst, 1, 1000)
	if err != nil {
		return Config{}, err
	}

	mode, ok := theme.NormalizeMode(strings.TrimSpace(v.GetString(keyThemeMode)))

	logLevel := strings.ToLower(strings.TrimSpace(v.GetString(keyLogLevel)))
	if _, known := logLevels[logLevel]; !known {
		return Config{}, fmt.Errorf("%s must be one of debug, info, warn, error", envName(keyLogLevel))
	}

	return Config{
		SSHHost:            host,
		SSHPort:            port,
		HostKeyPath:        cleanHostKeyPath,
		IdleTimeout:        idleTimeout,
		MaxSessions:        maxSessions,
		RateLimitPerMinute: rateLimit,
		RateLimitBurst:     burst,
		HTTPAddr:           strings.TrimSpace(v.GetString(keyHTTPAddr)),
		DefaultMode:        mode,
		ModeFallback:       !ok,
		OverridesPath:      strings.TrimSpace(v.GetString(keyThemeOverrides)),
		LogLevel:           logLevel,
	}, nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(key)
}

func readRequired(v *viper.Viper, key string) (string, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return "", fmt.Errorf("%s must not be empty", envName(key))
	}
	return raw, nil
}

func readInt(v *viper.Viper, key string, min, max int) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", envName(key), err)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s must be between %d and %d", envName(key), min, max)
	}
	return parsed, nil
}

func readDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", envName(key), err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", envName(key))
	}
	return parsed, nil
}
