package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := DefaultConfig()
	if cfg.LLM.Model != def.LLM.Model {
		t.Errorf("expected default model %q, got %q", def.LLM.Model, cfg.LLM.Model)
	}
	if cfg.Agent.MaxToolRounds != def.Agent.MaxToolRounds {
		t.Errorf("expected default maxToolRounds %d, got %d", def.Agent.MaxToolRounds, cfg.Agent.MaxToolRounds)
	}
}

func TestLoad_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	data, err := json.Marshal(map[string]any{
		"llm": map[string]any{
			"model":     "gpt-4o",
			"maxTokens": 2048,
		},
		"server": map[string]any{"port": 9000},
	})
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := writeConfig(t, dir, "config.json", data)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("expected model %q, got %q", "gpt-4o", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 2048 {
		t.Errorf("expected maxTokens 2048, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Unset fields keep their defaults.
	if cfg.Agent.MaxToolRounds != 5 {
		t.Errorf("expected default maxToolRounds 5, got %d", cfg.Agent.MaxToolRounds)
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	yamlCfg := []byte("llm:\n  model: gpt-4o-mini\nchannels:\n  telegram:\n    enabled: true\n    token: abc\n")
	path := writeConfig(t, dir, "config.yaml", yamlCfg)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected model %q, got %q", "gpt-4o-mini", cfg.LLM.Model)
	}
	if !cfg.Channels.Telegram.Enabled || cfg.Channels.Telegram.Token != "abc" {
		t.Errorf("telegram channel not parsed: %+v", cfg.Channels.Telegram)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.json", []byte("{not valid json"))

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultConfig()
	cfg.LLM.APIKey = "sk-test"
	cfg.Server.Port = 8123
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.LLM.APIKey != "sk-test" {
		t.Errorf("expected api key round-trip, got %q", loaded.LLM.APIKey)
	}
	if loaded.Server.Port != 8123 {
		t.Errorf("expected port 8123, got %d", loaded.Server.Port)
	}
}

func TestAddr(t *testing.T) {
	cfg := Config{}
	if got := cfg.Addr(); got != "0.0.0.0:8000" {
		t.Errorf("expected default addr, got %q", got)
	}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 9999
	if got := cfg.Addr(); got != "127.0.0.1:9999" {
		t.Errorf("expected 127.0.0.1:9999, got %q", got)
	}
}
