package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestInitDatabaseAppliesPool(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver:       "sqlite",
			Path:         filepath.Join(t.TempDir(), "screener.db"),
			MaxOpenConns: 3,
			MaxIdleConns: 2,
			ConnLifetime: time.Minute,
		},
	}

	db, err := InitDatabase(cfg, nil)
	if err != nil {
		t.Fatalf("InitDatabase() error = %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if got := sqlDB.Stats().MaxOpenConnections; got != 3 {
		t.Errorf("MaxOpenConnections = %d, want 3", got)
	}
	if !db.Migrator().HasTable("candidate_records") {
		t.Error("InitDatabase() did not migrate candidate_records")
	}
}
