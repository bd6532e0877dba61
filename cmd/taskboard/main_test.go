package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/service"
	"taskboard/internal/storage/sqlite"
)

// useTempConfig points the commands at a fresh database for one test.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cli.db")
	cfgFile := filepath.Join(dir, "config.yaml")
	content := "database:\n  path: " + dbPath + "\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	old := configPath
	configPath = cfgFile
	t.Cleanup(func() { configPath = old })
	return dbPath
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestRunMigrate(t *testing.T) {
	dbPath := useTempConfig(t)
	cmd, out := testCommand()
	if err := runMigrate(cmd, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database not created: %v", err)
	}
	if !strings.Contains(out.String(), dbPath) {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunPurge(t *testing.T) {
	dbPath := useTempConfig(t)
	ctx := context.Background()

	store, err := sqlite.Open(dbPath, sqlite.Options{}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	svc := service.New(store, service.Options{}, nil)
	for i := 0; i < 2; i++ {
		if _, err := svc.CreateBoard(ctx, service.BoardInput{}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.ArchiveBoard(ctx, 1); err != nil {
		t.Fatalf("archive: %v", err)
	}
	_ = store.Close()

	cmd, out := testCommand()
	if err := runPurge(cmd, []string{"boards"}); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "purged 1 archived boards" {
		t.Fatalf("output = %q", got)
	}
}

func TestPurgeArgs(t *testing.T) {
	for _, args := range [][]string{{}, {"projects"}, {"boards", "tasks"}} {
		if err := purgeCmd.Args(purgeCmd, args); err == nil {
			t.Errorf("args %v should be rejected", args)
		}
	}
	if err := purgeCmd.Args(purgeCmd, []string{"tasks"}); err != nil {
		t.Errorf("tasks rejected: %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %q", lines)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if entry["msg"] != "shown" || entry["id"] != float64(7) {
		t.Fatalf("entry = %v", entry)
	}

	if _, err := newLogger(config.LogConfig{Level: "chatty"}, &buf); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
