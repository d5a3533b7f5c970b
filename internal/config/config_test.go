package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT", "STORE_BACKEND", "STORE_PATH", "HISTORY_MODE",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_MODEL",
		"ARK_BASE_URL", "ARK_REGION", "ARK_TEMPERATURE", "ARK_TOP_P",
		"ARK_MAX_TOKENS", "ASSISTANT_NAME", "ASSISTANT_SYSTEM_PROMPT",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":5000" {
		t.Errorf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.History != HistoryServer {
		t.Errorf("unexpected history mode %q", cfg.History)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("unexpected store backend %q", cfg.Store.Backend)
	}
	if cfg.AI.Enabled() {
		t.Error("AI must be disabled without credentials")
	}
	if cfg.AI.AssistantName != "Assistant" {
		t.Errorf("unexpected assistant name %q", cfg.AI.AssistantName)
	}
}

func TestLoadPortForms(t *testing.T) {
	cases := []struct {
		port string
		want string
	}{
		{"8080", ":8080"},
		{":8080", ":8080"},
		{"127.0.0.1:8080", "127.0.0.1:8080"},
		{"", ":5000"},
	}
	for _, tc := range cases {
		clearEnv(t)
		t.Setenv("PORT", tc.port)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load(PORT=%q) err: %v", tc.port, err)
		}
		if cfg.Server.Addr != tc.want {
			t.Errorf("PORT=%q: got %q, want %q", tc.port, cfg.Server.Addr, tc.want)
		}
	}
}

func TestLoadRejectsInvalidHistoryMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("HISTORY_MODE", "both")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid HISTORY_MODE")
	}
}

func TestLoadRejectsInvalidStoreBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid STORE_BACKEND")
	}
}

func TestLoadRejectsMalformedTuning(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARK_TEMPERATURE", "warm")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric ARK_TEMPERATURE")
	}
}

func TestAIConfigEnabled(t *testing.T) {
	cases := []struct {
		name string
		cfg  AIConfig
		want bool
	}{
		{"empty", AIConfig{}, false},
		{"model only", AIConfig{Model: "m"}, false},
		{"api key", AIConfig{Model: "m", APIKey: "k"}, true},
		{"ak/sk pair", AIConfig{Model: "m", AccessKey: "a", SecretKey: "s"}, true},
		{"ak without sk", AIConfig{Model: "m", AccessKey: "a"}, false},
		{"key without model", AIConfig{APIKey: "k"}, false},
	}
	for _, tc := range cases {
		if got := tc.cfg.Enabled(); got != tc.want {
			t.Errorf("%s: Enabled() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHistoryModeCaseInsensitive(t *testing.T) {
	clearEnv(t)
	t.Setenv("HISTORY_MODE", "CLIENT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.History != HistoryClient {
		t.Fatalf("unexpected history mode %q", cfg.History)
	}
}
