package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
)

const envPrefix = "TRUSTCHECK_"

// Config holds all application configuration
type Config struct {
	App     AppConfig     `json:"app"`
	Log     LogConfig     `json:"log"`
	Cache   CacheConfig   `json:"cache"`
	Scanner ScannerConfig `json:"scanner"`
	Metrics MetricsConfig `json:"metrics"`
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name              string `json:"name"`
	Host              string `json:"host"`
	Port              int    `json:"port"`
	AdvertisedAddress string `json:"advertised_address"`
}

// Address returns the host:port the server listens on
func (a *AppConfig) Address() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// BaseURL returns the URL shown to users in usage text
func (a *AppConfig) BaseURL() string {
	if a.AdvertisedAddress != "" {
		return strings.TrimSuffix(a.AdvertisedAddress, "/")
	}
	return "http://" + a.Address()
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// CacheMode represents the cache implementation mode
type CacheMode string

const (
	CacheModeNone  CacheMode = "none"
	CacheModeMem   CacheMode = "mem"
	CacheModeRedis CacheMode = "redis"
)

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Mode  CacheMode     `json:"mode"`
	TTL   time.Duration `json:"ttl"`
	Redis RedisConfig   `json:"redis"`
}

type RedisConfig struct {
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

// ScannerConfig holds the inspection timeouts and the default nameserver
type ScannerConfig struct {
	DNSTimeout     time.Duration `json:"dns_timeout"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	ProbeTimeout   time.Duration `json:"probe_timeout"`
	Nameserver     string        `json:"nameserver"`
}

type MetricsConfig struct {
	Enabled bool `json:"enabled"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name: "trustcheck",
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			Mode: CacheModeMem,
			TTL:  5 * time.Minute,
			Redis: RedisConfig{
				Address: "localhost:6379",
			},
		},
		Scanner: ScannerConfig{
			DNSTimeout:     5 * time.Second,
			ConnectTimeout: 10 * time.Second,
			ProbeTimeout:   5 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// RegisterFlags adds every configuration flag to fs, using the defaults as flag defaults
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()

	fs.String("host", d.App.Host, "Server host address")
	fs.Int("port", d.App.Port, "Server port")
	fs.String("advertised-address", d.App.AdvertisedAddress, "Public base URL shown in usage text")
	fs.String("log-level", d.Log.Level, "Log level: debug, info, warn or error")
	fs.String("log-format", d.Log.Format, "Log format: text or json")
	fs.String("cache-mode", string(d.Cache.Mode), "Cache mode: none, mem or redis")
	fs.Duration("cache-ttl", d.Cache.TTL, "Cache TTL duration (e.g., 5m, 1h)")
	fs.String("redis-address", d.Cache.Redis.Address, "Redis address for cache-mode=redis")
	fs.String("redis-password", d.Cache.Redis.Password, "Redis password")
	fs.Int("redis-db", d.Cache.Redis.DB, "Redis database number")
	fs.Duration("dns-timeout", d.Scanner.DNSTimeout, "Timeout for a single DNS query")
	fs.Duration("connect-timeout", d.Scanner.ConnectTimeout, "Timeout for TCP connect and TLS handshake")
	fs.Duration("probe-timeout", d.Scanner.ProbeTimeout, "Read/write timeout for the HTTP probe")
	fs.String("nameserver", d.Scanner.Nameserver, "Default nameserver IP for DNSSEC inspections (empty uses the system resolver)")
	fs.Bool("metrics", d.Metrics.Enabled, "Expose Prometheus metrics on /metrics")
}

// Load loads configuration from environment variables and command line flags.
// Flags that were set explicitly take precedence over environment variables.
// fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if fs != nil {
		if err := cfg.loadFromFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to load from flags: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration from TRUSTCHECK_* environment variables
func (c *Config) loadFromEnv() error {
	var result *multierror.Error

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("invalid %s%s value '%s': %w", envPrefix, key, v, err))
				return
			}
			*dst = n
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("invalid %s%s value '%s': %w", envPrefix, key, v, err))
				return
			}
			*dst = d
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("invalid %s%s value '%s': %w", envPrefix, key, v, err))
				return
			}
			*dst = b
		}
	}

	setString("HOST", &c.App.Host)
	setInt("PORT", &c.App.Port)
	setString("ADVERTISED_ADDRESS", &c.App.AdvertisedAddress)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)

	var mode string
	setString("CACHE_MODE", &mode)
	if mode != "" {
		c.Cache.Mode = CacheMode(strings.ToLower(mode))
	}

	setDuration("CACHE_TTL", &c.Cache.TTL)
	setString("REDIS_ADDRESS", &c.Cache.Redis.Address)
	setString("REDIS_PASSWORD", &c.Cache.Redis.Password)
	setInt("REDIS_DB", &c.Cache.Redis.DB)
	setDuration("DNS_TIMEOUT", &c.Scanner.DNSTimeout)
	setDuration("CONNECT_TIMEOUT", &c.Scanner.ConnectTimeout)
	setDuration("PROBE_TIMEOUT", &c.Scanner.ProbeTimeout)
	setString("NAMESERVER", &c.Scanner.Nameserver)
	setBool("METRICS_ENABLED", &c.Metrics.Enabled)

	return result.ErrorOrNil()
}

// loadFromFlags applies only the flags that were set on the command line
func (c *Config) loadFromFlags(fs *pflag.FlagSet) error {
	var result *multierror.Error
	record := func(err error) {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "host":
			c.App.Host, _ = fs.GetString(f.Name)
		case "port":
			var err error
			c.App.Port, err = fs.GetInt(f.Name)
			record(err)
		case "advertised-address":
			c.App.AdvertisedAddress, _ = fs.GetString(f.Name)
		case "log-level":
			c.Log.Level, _ = fs.GetString(f.Name)
		case "log-format":
			c.Log.Format, _ = fs.GetString(f.Name)
		case "cache-mode":
			mode, _ := fs.GetString(f.Name)
			c.Cache.Mode = CacheMode(strings.ToLower(mode))
		case "cache-ttl":
			var err error
			c.Cache.TTL, err = fs.GetDuration(f.Name)
			record(err)
		case "redis-address":
			c.Cache.Redis.Address, _ = fs.GetString(f.Name)
		case "redis-password":
			c.Cache.Redis.Password, _ = fs.GetString(f.Name)
		case "redis-db":
			var err error
			c.Cache.Redis.DB, err = fs.GetInt(f.Name)
			record(err)
		case "dns-timeout":
			var err error
			c.Scanner.DNSTimeout, err = fs.GetDuration(f.Name)
			record(err)
		case "connect-timeout":
			var err error
			c.Scanner.ConnectTimeout, err = fs.GetDuration(f.Name)
			record(err)
		case "probe-timeout":
			var err error
			c.Scanner.ProbeTimeout, err = fs.GetDuration(f.Name)
			record(err)
		case "nameserver":
			c.Scanner.Nameserver, _ = fs.GetString(f.Name)
		case "metrics":
			var err error
			c.Metrics.Enabled, err = fs.GetBool(f.Name)
			record(err)
		}
	})

	return result.ErrorOrNil()
}

// validate reports every problem with the configuration at once
func (c *Config) validate() error {
	var result *multierror.Error

	if c.App.Name == "" {
		result = multierror.Append(result, errors.New("app name cannot be empty"))
	}

	if c.App.Port < 1 || c.App.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("port %d out of range 1-65535", c.App.Port))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("invalid log level '%s': must be debug, info, warn, or error", c.Log.Level))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("invalid log format '%s': must be text or json", c.Log.Format))
	}

	switch c.Cache.Mode {
	case CacheModeNone:
	case CacheModeMem:
		if c.Cache.TTL == 0 {
			result = multierror.Append(result, errors.New("cache TTL cannot be zero when cache is enabled"))
		}
	case CacheModeRedis:
		if c.Cache.Redis.Address == "" {
			result = multierror.Append(result, errors.New("redis address is required when cache mode is redis"))
		}
		if c.Cache.Redis.DB < 0 {
			result = multierror.Append(result, errors.New("redis db cannot be negative"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("invalid cache mode '%s': must be 'none', 'mem' or 'redis'", c.Cache.Mode))
	}

	if c.Cache.TTL < 0 {
		result = multierror.Append(result, errors.New("cache TTL cannot be negative"))
	}

	for name, d := range map[string]time.Duration{
		"dns timeout":     c.Scanner.DNSTimeout,
		"connect timeout": c.Scanner.ConnectTimeout,
		"probe timeout":   c.Scanner.ProbeTimeout,
	} {
		if d <= 0 {
			result = multierror.Append(result, fmt.Errorf("%s must be positive", name))
		}
	}

	if c.Scanner.Nameserver != "" && net.ParseIP(c.Scanner.Nameserver) == nil {
		result = multierror.Append(result, fmt.Errorf("default nameserver '%s' is not an IP address", c.Scanner.Nameserver))
	}

	return result.ErrorOrNil()
}

// String returns a string representation of the config for debugging
func (c *Config) String() string {
	return fmt.Sprintf("Config{App: {Name: %s, Address: %s}, Cache: {Mode: %v, TTL: %s}, Scanner: {DNS: %s, Connect: %s, Probe: %s}, Metrics: %t}",
		c.App.Name, c.App.Address(), c.Cache.Mode, c.Cache.TTL,
		c.Scanner.DNSTimeout, c.Scanner.ConnectTimeout, c.Scanner.ProbeTimeout, c.Metrics.Enabled)
}
