package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recorder.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

const validYAML = `
instance:
  id: test-recorder
  az: us-east-1a
gateway:
  url: https://stokenet.radixdlt.com
  network_id: 2
exchange:
  env_registry: component_tdx_2_1czj40n6730x4saae7mnpe20htre57rdwvzvnfcuvcusy9s0jn6qqmf
targets:
  pairs:
    - BTC/USD
    - ETH/USD
database:
  postgres:
    host: localhost
    port: 5432
    name: surge
    user: recorder
    password: testpass
`

func TestLoad(t *testing.T) {
	path := writeTempFile(t, validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-recorder" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-recorder")
	}
	if cfg.Gateway.URL != "https://stokenet.radixdlt.com" {
		t.Errorf("Gateway.URL = %q", cfg.Gateway.URL)
	}
	if cfg.Gateway.NetworkID != 2 {
		t.Errorf("Gateway.NetworkID = %d, want 2", cfg.Gateway.NetworkID)
	}
	if len(cfg.Targets.Pairs) != 2 {
		t.Errorf("Targets.Pairs = %v", cfg.Targets.Pairs)
	}
	if cfg.Database.Postgres.Host != "localhost" {
		t.Errorf("Database.Postgres.Host = %q", cfg.Database.Postgres.Host)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: test-recorder
database:
  postgres:
    host: localhost
    name: surge
    user: recorder
    password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Postgres.Password != "secret123" {
		t.Errorf("Database.Postgres.Password = %q, want %q", cfg.Database.Postgres.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, validYAML)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Gateway.Timeout != DefaultGatewayTimeout {
		t.Errorf("Gateway.Timeout = %v, want %v", cfg.Gateway.Timeout, DefaultGatewayTimeout)
	}
	if cfg.Oracle.URL != DefaultOracleURL {
		t.Errorf("Oracle.URL = %q, want default", cfg.Oracle.URL)
	}
	if cfg.Writers.BatchSize != DefaultBatchSize {
		t.Errorf("Writers.BatchSize = %d, want %d", cfg.Writers.BatchSize, DefaultBatchSize)
	}
	if cfg.Poller.Interval != 1*time.Minute {
		t.Errorf("Poller.Interval = %v, want 1m", cfg.Poller.Interval)
	}
	if cfg.Database.Postgres.SSLMode != DefaultDBSSLMode {
		t.Errorf("SSLMode = %q, want %q", cfg.Database.Postgres.SSLMode, DefaultDBSSLMode)
	}
	if cfg.Health.Port != DefaultHealthPort {
		t.Errorf("Health.Port = %d, want %d", cfg.Health.Port, DefaultHealthPort)
	}
}

func TestLoadAndValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeTempFile(t, validYAML)
		if _, err := LoadAndValidate(path); err != nil {
			t.Errorf("LoadAndValidate failed: %v", err)
		}
	})

	t.Run("missing instance id", func(t *testing.T) {
		yaml := `
gateway:
  network_id: 2
exchange:
  env_registry: component_tdx_2_1czj40n
targets:
  pairs: [BTC/USD]
database:
  postgres:
    host: localhost
    name: surge
    user: recorder
    password: x
`
		path := writeTempFile(t, yaml)
		if _, err := LoadAndValidate(path); err == nil {
			t.Error("expected error for missing instance.id")
		}
	})

	t.Run("missing env registry", func(t *testing.T) {
		yaml := `
instance:
  id: r1
gateway:
  network_id: 2
targets:
  pairs: [BTC/USD]
database:
  postgres:
    host: localhost
    name: surge
    user: recorder
    password: x
`
		path := writeTempFile(t, yaml)
		if _, err := LoadAndValidate(path); err == nil {
			t.Error("expected error for missing exchange.env_registry")
		}
	})

	t.Run("no pairs", func(t *testing.T) {
		yaml := `
instance:
  id: r1
gateway:
  network_id: 2
exchange:
  env_registry: component_tdx_2_1czj40n
database:
  postgres:
    host: localhost
    name: surge
    user: recorder
    password: x
`
		path := writeTempFile(t, yaml)
		if _, err := LoadAndValidate(path); err == nil {
			t.Error("expected error for empty targets.pairs")
		}
	})

	t.Run("bad network id", func(t *testing.T) {
		cfg := RecorderConfig{}
		cfg.Instance.ID = "r1"
		cfg.Gateway.NetworkID = 9
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unknown network id")
		}
	})
}

func TestValidateDBConfig(t *testing.T) {
	base := DBConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "surge",
		User:     "recorder",
		Password: "x",
		MaxConns: 10,
		MinConns: 2,
	}

	if err := base.validate("database.postgres"); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := base
	bad.MinConns = 20
	if err := bad.validate("database.postgres"); err == nil {
		t.Error("expected error for min_conns > max_conns")
	}

	bad = base
	bad.Password = ""
	if err := bad.validate("database.postgres"); err == nil {
		t.Error("expected error for missing password")
	}
}
