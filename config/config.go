package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// Config holds server configuration.
// Zero timeouts mean no limit.
type Config struct {
	Port            int           `config:"port"`
	Host            string        `config:"host"`
	Env             string        `config:"env"`
	ReadTimeout     time.Duration `config:"read_timeout"`
	WriteTimeout    time.Duration `config:"write_timeout"`
	IdleTimeout     time.Duration `config:"idle_timeout"`
	ShutdownTimeout time.Duration `config:"shutdown_timeout"`
	H2C             bool          `config:"h2c"`
	ReusePort       bool          `config:"reuse_port"`
}

// Default returns the built-in defaults
func Default() *Config {
	return &Config{
		Port:            1337,
		Host:            "localhost",
		Env:             "development",
		ShutdownTimeout: 10 * time.Second,
	}
}

// New loads configuration from the command-line arguments over the defaults.
// Flags are parsed on a private FlagSet, so New may be called more than once.
// Invalid arguments print usage and exit with status 2; -h exits with 0.
func New() *Config {
	cfg, err := Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}
	return cfg
}

// Parse applies command-line style args over the defaults
func Parse(args []string) (*Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("fast-dispatch", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RegisterFlags binds the config fields to fs
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Port, "port", c.Port, "HTTP server port")
	fs.StringVar(&c.Host, "host", c.Host, "HTTP bind address")
	fs.StringVar(&c.Env, "env", c.Env, "Environment (development/production)")
	fs.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "HTTP read timeout (0 = none)")
	fs.DurationVar(&c.WriteTimeout, "write-timeout", c.WriteTimeout, "HTTP write timeout (0 = none)")
	fs.DurationVar(&c.IdleTimeout, "idle-timeout", c.IdleTimeout, "keep-alive idle timeout (0 = none)")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "graceful shutdown timeout")
	fs.BoolVar(&c.H2C, "h2c", c.H2C, "serve HTTP/2 cleartext")
	fs.BoolVar(&c.ReusePort, "reuse-port", c.ReusePort, "set SO_REUSEPORT on the listener")
}

// Load layers a JSON file (if file is non-empty) and then PREFIX_* environment
// variables (if prefix is non-empty) over the defaults. Keys use the `config` struct tags, so
// PREFIX_READ_TIMEOUT=5s sets ReadTimeout.
func Load(prefix, file string) (*Config, error) {
	m := NewManager()

	if file != "" {
		if err := m.LoadFromJSON(file); err != nil {
			return nil, err
		}
	}
	if prefix != "" {
		m.LoadFromEnv(prefix)
	}

	cfg := Default()
	if err := m.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address, host:port
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
