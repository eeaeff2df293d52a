package model

import (
	"fmt"
	"os"
	"time"
)

const (
	ProtocolSSH    = "ssh"
	ProtocolTelnet = "telnet"

	DefaultSSHPort    = 22
	DefaultTelnetPort = 23
)

// FilerConfig describes how to reach and drive one filer. It can be filled
// programmatically or parsed from the environment via env.ParseAs.
type FilerConfig struct {
	Host         string        `env:"FILER_HOST,required"`
	User         string        `env:"FILER_USER" envDefault:"root"`
	Protocol     string        `env:"FILER_PROTOCOL" envDefault:"ssh"`
	Port         int           `env:"FILER_PORT"`
	IdentityFile string        `env:"FILER_SSH_IDENTITY"`
	Password     string        `env:"FILER_PASSWORD"`
	Prefix       string        `env:"FILER_SSH_PREFIX"`
	Timeout      time.Duration `env:"FILER_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"FILER_TELNET_IDLE_TIMEOUT" envDefault:"5m"`
	CacheEnabled bool          `env:"FILER_CACHE" envDefault:"true"`
	CacheTTL     time.Duration `env:"FILER_CACHE_TTL" envDefault:"10s"`
}

type AgentConfig struct {
	ListenAddr   string        `env:"AGENT_LISTEN_ADDR" envDefault:":9090"`
	PollInterval time.Duration `env:"AGENT_POLL_INTERVAL" envDefault:"1m"`
}

// ConfigError is fatal and raised at construction, never mid-call.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Validate checks the fields the transports depend on. A missing host,
// an unknown protocol, or an unreadable identity file is fatal here rather
// than on the first remote call.
func (c *FilerConfig) Validate() error {
	if c.Host == "" {
		return &ConfigError{Field: "host", Reason: "required"}
	}
	if c.User == "" {
		return &ConfigError{Field: "user", Reason: "required"}
	}
	switch c.Protocol {
	case ProtocolSSH:
		if c.IdentityFile != "" {
			if _, err := os.Stat(c.IdentityFile); err != nil {
				return &ConfigError{Field: "identity_file", Reason: fmt.Sprintf("%s: %v", c.IdentityFile, err)}
			}
		}
		if c.IdentityFile == "" && c.Password == "" {
			return &ConfigError{Field: "identity_file", Reason: "ssh requires an identity file or a password"}
		}
	case ProtocolTelnet:
		if c.Password == "" {
			return &ConfigError{Field: "password", Reason: "telnet requires a password"}
		}
	default:
		return &ConfigError{Field: "protocol", Reason: fmt.Sprintf("%q is not ssh or telnet", c.Protocol)}
	}
	if c.CacheTTL < 0 {
		return &ConfigError{Field: "cache_ttl", Reason: "must not be negative"}
	}
	return nil
}

// Addr returns host:port, applying the protocol's default port.
func (c *FilerConfig) Addr() string {
	port := c.Port
	if port == 0 {
		if c.Protocol == ProtocolTelnet {
			port = DefaultTelnetPort
		} else {
			port = DefaultSSHPort
		}
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}
