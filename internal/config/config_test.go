package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver: want sqlite without a DSN, got %q", cfg.DBDriver)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort: want 8080, got %d", cfg.HTTPPort)
	}
	if cfg.GetHTTPAddr() != ":8080" {
		t.Errorf("GetHTTPAddr: got %q", cfg.GetHTTPAddr())
	}
	if cfg.ListLimit != 100 {
		t.Errorf("ListLimit: want 100, got %d", cfg.ListLimit)
	}
}

func TestDSNSelectsPostgres(t *testing.T) {
	t.Setenv("MEMORIES_POSTGRES_DSN", "postgres://localhost:5432/memories")
	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver: want postgres with a DSN, got %q", cfg.DBDriver)
	}
}

func TestExplicitDriverWins(t *testing.T) {
	t.Setenv("MEMORIES_POSTGRES_DSN", "postgres://localhost:5432/memories")
	t.Setenv("MEMORIES_DB_DRIVER", "sqlite")
	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver: want sqlite, got %q", cfg.DBDriver)
	}
}

func TestRejectsUnknownDriver(t *testing.T) {
	t.Setenv("MEMORIES_DB_DRIVER", "oracle")
	if _, err := New(); err == nil {
		t.Fatal("unknown driver accepted")
	}
}
