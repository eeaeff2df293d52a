package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func validSSHConfig(t *testing.T) FilerConfig {
	t.Helper()
	key := filepath.Join(t.TempDir(), "id_rsa")
	if err := os.WriteFile(key, []byte("dummy"), 0600); err != nil {
		t.Fatal(err)
	}
	return FilerConfig{
		Host:         "filer1",
		User:         "root",
		Protocol:     ProtocolSSH,
		IdentityFile: key,
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid ssh", func(t *testing.T) {
		cfg := validSSHConfig(t)
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := validSSHConfig(t)
		cfg.Host = ""
		if err := cfg.Validate(); err == nil {
			t.Fatal("want error")
		}
	})

	t.Run("ssh without credentials", func(t *testing.T) {
		cfg := validSSHConfig(t)
		cfg.IdentityFile = ""
		if err := cfg.Validate(); err == nil {
			t.Fatal("want error")
		}
		cfg.Password = "secret"
		if err := cfg.Validate(); err != nil {
			t.Fatalf("password auth should validate: %v", err)
		}
	})

	t.Run("unreadable identity file", func(t *testing.T) {
		cfg := validSSHConfig(t)
		cfg.IdentityFile = filepath.Join(t.TempDir(), "missing")
		err := cfg.Validate()
		if err == nil {
			t.Fatal("want error")
		}
		var ce *ConfigError
		if !errors.As(err, &ce) || ce.Field != "identity_file" {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("telnet requires password", func(t *testing.T) {
		cfg := FilerConfig{Host: "filer1", User: "root", Protocol: ProtocolTelnet}
		if err := cfg.Validate(); err == nil {
			t.Fatal("want error")
		}
		cfg.Password = "secret"
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	})

	t.Run("unknown protocol", func(t *testing.T) {
		cfg := validSSHConfig(t)
		cfg.Protocol = "rsh"
		if err := cfg.Validate(); err == nil {
			t.Fatal("want error")
		}
	})

	t.Run("negative cache ttl", func(t *testing.T) {
		cfg := validSSHConfig(t)
		cfg.CacheTTL = -1
		if err := cfg.Validate(); err == nil {
			t.Fatal("want error")
		}
	})
}

func TestAddrDefaults(t *testing.T) {
	cfg := FilerConfig{Host: "filer1", Protocol: ProtocolSSH}
	if got := cfg.Addr(); got != "filer1:22" {
		t.Errorf("Addr() = %q", got)
	}
	cfg.Protocol = ProtocolTelnet
	if got := cfg.Addr(); got != "filer1:23" {
		t.Errorf("Addr() = %q", got)
	}
	cfg.Port = 2323
	if got := cfg.Addr(); got != "filer1:2323" {
		t.Errorf("Addr() = %q", got)
	}
}
