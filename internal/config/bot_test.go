package config

import "testing"

func TestLoadBotDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "tok")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.ChatWSURL != "ws://localhost:5000/ws" {
		t.Fatalf("ChatWSURL = %q, want ws://localhost:5000/ws", cfg.ChatWSURL)
	}
	if cfg.BotUserID != "bot" {
		t.Fatalf("BotUserID = %q, want bot", cfg.BotUserID)
	}
	if cfg.OpsAddr != ":8080" {
		t.Fatalf("OpsAddr = %q, want :8080", cfg.OpsAddr)
	}
}

func TestLoadBotRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := LoadBot()
	if err == nil {
		t.Fatal("LoadBot() expected error, got nil")
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "tok")
	t.Setenv("CHAT_WS_URL", "ws://127.0.0.1:9000/ws")
	t.Setenv("BOT_NAME", "wordbot")
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/crowdbot")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.ChatWSURL != "ws://127.0.0.1:9000/ws" {
		t.Fatalf("ChatWSURL = %q", cfg.ChatWSURL)
	}
	if cfg.BotName != "wordbot" || cfg.PostgresDSN == "" {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}
