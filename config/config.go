package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nczempin/0004_std_lib_http_client/httpc/client"
	"github.com/nczempin/0004_std_lib_http_client/httpc/log"
	"github.com/nczempin/0004_std_lib_http_client/httpc/transport"
)

type Config struct {
	// The transport engine: "net", "uring" or "uring-v2".
	Engine string `yaml:"engine,omitempty"`
	// How many 301 hops a call follows. Zero returns the 301 as is.
	MaxRedirects int `yaml:"max_redirects"`
	// Sent as User-Agent when a request sets none.
	UserAgent string `yaml:"user_agent,omitempty"`
	// Sent with every request unless the request sets the same key.
	Headers map[string]string `yaml:"headers,omitempty"`
	// Ports dialed per scheme.
	Ports Ports `yaml:"ports,omitempty"`
	// When set, requests go over this Unix socket instead of TCP.
	UnixSocket string `yaml:"unix_socket,omitempty"`
	TLS        TLS    `yaml:"tls,omitempty"`
	Log        Log    `yaml:"log,omitempty"`
}

type Ports struct {
	HTTP  uint16 `yaml:"http,omitempty"`
	HTTPS uint16 `yaml:"https,omitempty"`
}

type TLS struct {
	InsecureSkipVerify bool `yaml:"insecure_skip_verify,omitempty"`
	// PEM bundle used as the only trust roots. Empty means system roots.
	CAFile string `yaml:"ca_file,omitempty"`
}

type Log struct {
	Level string `yaml:"level,omitempty"`
	JSON  bool   `yaml:"json,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Engine:       transport.EngineNet,
		MaxRedirects: client.DefaultMaxRedirects,
		Ports: Ports{
			HTTP:  80,
			HTTPS: 443,
		},
		Log: Log{
			Level: "warn",
		},
	}
}

// Dir returns the path to the httpc configuration directory.
func Dir() string {
	return filepath.Join(os.Getenv("HOME"), ".httpc")
}

// DefaultPath returns the config file read when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the config file at path, or DefaultPath when path is empty.
// A missing file yields Default.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch c.Engine {
	case transport.EngineNet, transport.EngineUring, transport.EngineUringV2:
	default:
		return fmt.Errorf("engine: unknown engine %q", c.Engine)
	}

	if c.MaxRedirects < 0 {
		return fmt.Errorf("max_redirects: must not be negative, got %d", c.MaxRedirects)
	}
	if c.Ports.HTTP == 0 {
		return fmt.Errorf("ports.http: must be set")
	}
	if c.Ports.HTTPS == 0 {
		return fmt.Errorf("ports.https: must be set")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// TLSConfig builds the client TLS configuration, or nil for system defaults.
func (c *Config) TLSConfig() (*tls.Config, error) {
	if !c.TLS.InsecureSkipVerify && c.TLS.CAFile == "" {
		return nil, nil
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.TLS.InsecureSkipVerify,
	}

	if c.TLS.CAFile != "" {
		pem, err := os.ReadFile(c.TLS.CAFile)
		if err != nil {
			return nil, fmt.Errorf("tls.ca_file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("tls.ca_file: no certificates in %s", c.TLS.CAFile)
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}

// ClientOptions translates the configuration into client options.
func (c *Config) ClientOptions() ([]client.Option, error) {
	tlsConfig, err := c.TLSConfig()
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithEngine(c.Engine),
		client.WithMaxRedirects(c.MaxRedirects),
		client.WithPorts(c.Ports.HTTP, c.Ports.HTTPS),
		client.WithTLSConfig(tlsConfig),
	}
	if c.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(c.UserAgent))
	}
	if len(c.Headers) > 0 {
		opts = append(opts, client.WithDefaultHeaders(c.Headers))
	}
	if c.UnixSocket != "" {
		opts = append(opts, client.WithUnixSocket(c.UnixSocket))
	}
	return opts, nil
}

// LogOptions translates the log section into logger options.
func (c *Config) LogOptions() []log.Option {
	// Validate has already vetted the level
	level, _ := log.ParseLevel(c.Log.Level)
	return []log.Option{
		log.WithLevel(level),
		log.WithJSON(c.Log.JSON),
	}
}
