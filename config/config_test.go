package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.App.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.App.Port)
	}
	if cfg.KPI.FingerRateTarget != 95.0 {
		t.Errorf("finger target = %v, want 95.0", cfg.KPI.FingerRateTarget)
	}
	if len(cfg.KPI.SaturdayOffices) != 1 || cfg.KPI.SaturdayOffices[0] != "Martinsburg" {
		t.Errorf("saturday offices = %v, want [Martinsburg]", cfg.KPI.SaturdayOffices)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/test.sqlite3")
	t.Setenv("KPI_FINGER_RATE_TARGET", "90")
	t.Setenv("SATURDAY_OFFICES", "Martinsburg, Cumberland")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.GetDSN() != "/tmp/test.sqlite3" {
		t.Errorf("dsn = %q, want the sqlite path", cfg.Database.GetDSN())
	}
	if cfg.KPI.FingerRateTarget != 90.0 {
		t.Errorf("finger target = %v, want 90.0", cfg.KPI.FingerRateTarget)
	}
	if len(cfg.KPI.SaturdayOffices) != 2 || cfg.KPI.SaturdayOffices[1] != "Cumberland" {
		t.Errorf("saturday offices = %v, want trimmed pair", cfg.KPI.SaturdayOffices)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   "postgres",
		Host:     "db.internal",
		Port:     "5433",
		User:     "bstt",
		Password: "secret",
		DBName:   "compliance",
		SSLMode:  "require",
	}
	want := "host=db.internal port=5433 user=bstt password=secret dbname=compliance sslmode=require"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}
