package db

import (
	"strings"
	"testing"

	"github.com/goalraiders/goalraiders/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		User:     "raider",
		Password: "pw",
		Host:     "127.0.0.1",
		Port:     3306,
		Database: "goalraiders",
	})
	if !strings.Contains(dsn, "tcp(127.0.0.1:3306)") {
		t.Errorf("DSN = %q, want tcp addr", dsn)
	}
	if !strings.Contains(dsn, "/goalraiders") {
		t.Errorf("DSN = %q, want database name", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN = %q, want parseTime=true", dsn)
	}
	if !strings.HasPrefix(dsn, "raider:pw@") {
		t.Errorf("DSN = %q, want credentials prefix", dsn)
	}
}

func TestConnect_SQLiteMemory(t *testing.T) {
	db, err := Connect(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error: %v", err)
	}
	for _, table := range []string{"users", "bosses", "tasks", "task_completions"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %q missing after migrate", table)
		}
	}
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "postgres"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if !strings.Contains(err.Error(), "unsupported driver") {
		t.Errorf("error = %q", err)
	}
}

func TestConnectAdmin_RequiresMySQL(t *testing.T) {
	_, err := ConnectAdmin(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err == nil {
		t.Fatal("expected error for sqlite admin connect")
	}
	if !strings.Contains(err.Error(), "mysql") {
		t.Errorf("error = %q", err)
	}
}

func TestAllModels_Count(t *testing.T) {
	if got := len(AllModels()); got != 4 {
		t.Errorf("AllModels() returned %d models, want 4", got)
	}
}
