package main

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-sql-driver/mysql"
)

// Connection defaults, used when neither the config file nor the environment
// sets a value.
const (
	DefaultHost           = "localhost"
	DefaultPort           = 9030
	DefaultUser           = "root"
	DefaultConnectTimeout = 10 * time.Second
	DefaultLogLevel       = "info"
)

// Environment variables read by LoadConfig.
const (
	EnvHost           = "STARROCKS_HOST"
	EnvPort           = "STARROCKS_PORT"
	EnvUser           = "STARROCKS_USER"
	EnvPassword       = "STARROCKS_PASSWORD"
	EnvDatabase       = "STARROCKS_DB"
	EnvConnectTimeout = "STARROCKS_CONNECT_TIMEOUT"
	EnvLogLevel       = "MCP_LOG_LEVEL"
)

type Config struct {
	StarRocks StarRocksConfig `toml:"starrocks"`
	Log       LogConfig       `toml:"log"`
}

type StarRocksConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	User           string   `toml:"user"`
	Password       string   `toml:"password"`
	Database       string   `toml:"database"`
	ConnectTimeout Duration `toml:"connect_timeout"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration reads Go duration strings ("10s", "1m") from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", string(text))
	}
	d.Duration = v
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		StarRocks: StarRocksConfig{
			Host:           DefaultHost,
			Port:           DefaultPort,
			User:           DefaultUser,
			ConnectTimeout: Duration{DefaultConnectTimeout},
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// LookupEnv reports the value of an environment variable and whether it is
// set, like os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// LoadConfig builds the configuration from defaults, then the optional TOML
// file at path, then the environment. A missing file is not an error.
func LoadConfig(path string, lookup LookupEnv) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "parsing config")
			}
		case !os.IsNotExist(err):
			return nil, errors.Wrap(err, "reading config")
		}
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from non-empty variables. The password is the
// exception: a set but empty STARROCKS_PASSWORD clears it.
func (c *Config) applyEnv(lookup LookupEnv) error {
	getenv := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	if v := getenv(EnvHost); v != "" {
		c.StarRocks.Host = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Newf("%s must be a number, got %q", EnvPort, v)
		}
		c.StarRocks.Port = port
	}
	if v := getenv(EnvUser); v != "" {
		c.StarRocks.User = v
	}
	if v, ok := lookup(EnvPassword); ok {
		c.StarRocks.Password = v
	}
	if v := getenv(EnvDatabase); v != "" {
		c.StarRocks.Database = v
	}
	if v := getenv(EnvConnectTimeout); v != "" {
		if err := c.StarRocks.ConnectTimeout.UnmarshalText([]byte(v)); err != nil {
			return errors.Wrap(err, EnvConnectTimeout)
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.StarRocks.Host == "" {
		return errors.New("starrocks host must not be empty")
	}
	if c.StarRocks.Port < 1 || c.StarRocks.Port > 65535 {
		return errors.Newf("starrocks port out of range: %d", c.StarRocks.Port)
	}
	if c.StarRocks.ConnectTimeout.Duration < 0 {
		return errors.New("connect timeout must not be negative")
	}
	return nil
}

// DSN renders the go-sql-driver/mysql data source name for this config.
func (c StarRocksConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Database
	mc.ParseTime = true
	mc.Timeout = c.ConnectTimeout.Duration
	return mc.FormatDSN()
}
