package config

import "testing"

func TestLoadServerConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != ":8000" {
		t.Fatalf("expected :8000 default, got %q", cfg.Addr)
	}
}

func TestLoadServerConfigPortForms(t *testing.T) {
	cases := []struct {
		port string
		want string
	}{
		{"9000", ":9000"},
		{":9000", ":9000"},
		{"127.0.0.1:9000", "127.0.0.1:9000"},
	}
	for _, tc := range cases {
		t.Setenv("PORT", tc.port)
		cfg, err := loadServerConfig()
		if err != nil {
			t.Fatalf("PORT=%q err: %v", tc.port, err)
		}
		if cfg.Addr != tc.want {
			t.Fatalf("PORT=%q: got %q want %q", tc.port, cfg.Addr, tc.want)
		}
	}
}

func TestLoadServerConfigRejectsGarbage(t *testing.T) {
	t.Setenv("PORT", "80 00")
	if _, err := loadServerConfig(); err == nil {
		t.Fatal("expected error for port with spaces")
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
		{"ak only", AIConfig{Model: "m", AccessKey: "a"}, false},
		{"ak sk", AIConfig{Model: "m", AccessKey: "a", SecretKey: "s"}, true},
		{"key without model", AIConfig{APIKey: "k"}, false},
	}
	for _, tc := range cases {
		if got := tc.cfg.Enabled(); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestWithSessionKey(t *testing.T) {
	base := AIConfig{Model: "m", APIKey: "server-key"}

	if got := base.WithSessionKey("  "); got.APIKey != "server-key" {
		t.Fatalf("blank session key should keep the server key, got %q", got.APIKey)
	}
	if got := base.WithSessionKey(" sk-session "); got.APIKey != "sk-session" {
		t.Fatalf("session key should override after trimming, got %q", got.APIKey)
	}
	if base.APIKey != "server-key" {
		t.Fatal("WithSessionKey should not mutate the receiver")
	}
}

func TestParseOptionalEnvValues(t *testing.T) {
	t.Setenv("ARK_TEMPERATURE", "0.4")
	temp, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil || temp == nil || *temp != 0.4 {
		t.Fatalf("got %v err=%v", temp, err)
	}

	t.Setenv("ARK_TEMPERATURE", "warm")
	if _, err := parseOptionalFloatEnv("ARK_TEMPERATURE"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}

	t.Setenv("ARK_MAX_TOKENS", " 512 ")
	tokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil || tokens == nil || *tokens != 512 {
		t.Fatalf("got %v err=%v", tokens, err)
	}
}
