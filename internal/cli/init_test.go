package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spendlog/internal/config"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Fatalf("info line should be filtered: %s", line)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if m["msg"] != "shown" {
		t.Errorf("unexpected line %v", m)
	}
}

func TestLoadEnvFileAndConfig(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "PORT=9191\nDATA_BACKEND=memory\nTIMEZONE=UTC\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// godotenv never overrides variables that are already set
	for _, key := range []string{"PORT", "DATA_BACKEND", "TIMEZONE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	LoadEnvFile(envFile)
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		t.Fatalf("LoadAndValidateConfig() error = %v", err)
	}
	if cfg.Port != "9191" || cfg.DataBackend != "memory" || cfg.Location.String() != "UTC" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadAndValidateConfigRejectsInvalid(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := LoadAndValidateConfig(); err == nil {
		t.Fatal("expected validation error")
	}
}
