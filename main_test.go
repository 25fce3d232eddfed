package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestDefaultSettingsAreValid(t *testing.T) {
	s, err := loadSettings(newTestViper())
	if err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
	if s.Voice != "Kore" {
		t.Errorf("voice = %q, want Kore", s.Voice)
	}
	if s.Audio.SampleRate != 24000 {
		t.Errorf("sample rate = %d, want 24000", s.Audio.SampleRate)
	}
	if !s.Preload.Enabled || s.Preload.BatchSize != 3 || s.Preload.BatchDelay != time.Second {
		t.Errorf("preload = %+v", s.Preload)
	}
	if s.Speech.CacheEnabled {
		t.Error("speech cache should be off by default")
	}
}

func TestDefaultConfigFileMatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	setDefaults(v)
	fromFile, err := loadSettings(v)
	if err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
	defaults, _ := loadSettings(newTestViper())
	if fromFile != defaults {
		t.Errorf("default config file\n%+v\ndiffers from built-in defaults\n%+v", fromFile, defaults)
	}
}

func TestInvalidSettings(t *testing.T) {
	tests := []struct {
		key   string
		value any
		want  string
	}{
		{"voice.default", "", "voice.default"},
		{"speech.retries", -1, "speech.retries"},
		{"speech.base_delay", "0s", "speech.base_delay"},
		{"speech.requests_per_minute", 0, "speech.requests_per_minute"},
		{"speech.cache.compression_level", 23, "compression_level"},
		{"preload.batch_size", 0, "preload.batch_size"},
		{"preload.batch_delay", "-1s", "preload.batch_delay"},
		{"audio.sample_rate", 100, "audio.sample_rate"},
		{"audio.volume", 1.5, "audio.volume"},
		{"serve.addr", "", "serve.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newTestViper()
			v.Set(tt.key, tt.value)
			_, err := loadSettings(v)
			if err == nil {
				t.Fatalf("expected %s=%v to be rejected", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSpeechConfigCarriesSettings(t *testing.T) {
	v := newTestViper()
	v.Set("speech.retries", 4)
	v.Set("image.model", "pictures-1")
	s, err := loadSettings(v)
	if err != nil {
		t.Fatal(err)
	}
	cfg := s.speechConfig("secret")
	if cfg.APIKey != "secret" || cfg.Retries != 4 || cfg.ImageModel != "pictures-1" {
		t.Errorf("speech config = %+v", cfg)
	}
}

func TestPreloadPlanUsesBatchSettings(t *testing.T) {
	v := newTestViper()
	v.Set("preload.batch_size", 5)
	v.Set("preload.batch_delay", "250ms")
	s, err := loadSettings(v)
	if err != nil {
		t.Fatal(err)
	}
	plan := s.preloadPlan()
	if plan.BatchSize != 5 || plan.BatchDelay != 250*time.Millisecond {
		t.Errorf("plan batches = %d every %s", plan.BatchSize, plan.BatchDelay)
	}
	if len(plan.Greetings) == 0 {
		t.Error("plan lost its greetings")
	}
}

func TestEnvKeyPrecedence(t *testing.T) {
	tests := []struct {
		gemini, generic, want string
	}{
		{"", "", ""},
		{"", "b", "b"},
		{"a", "", "a"},
		{"a", "b", "a"},
	}
	for _, tt := range tests {
		t.Setenv("GEMINI_API_KEY", tt.gemini)
		t.Setenv("API_KEY", tt.generic)
		e, err := loadEnv()
		if err != nil {
			t.Fatal(err)
		}
		if got := e.Key(); got != tt.want {
			t.Errorf("Key() with %q/%q = %q, want %q", tt.gemini, tt.generic, got, tt.want)
		}
	}
}

func TestEnsureConfigFile(t *testing.T) {
	saved := configFile
	t.Cleanup(func() { configFile = saved })

	configFile = filepath.Join(t.TempDir(), "nested", "minik.yml")
	if err := ensureConfigFile(); err != nil {
		t.Fatalf("ensureConfigFile: %v", err)
	}
	b, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != defaultConfig {
		t.Error("written file is not the default config")
	}

	if err := os.WriteFile(configFile, []byte("voice:\n  default: Puck\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := ensureConfigFile(); err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(configFile); !strings.Contains(string(b), "Puck") {
		t.Error("existing config was overwritten")
	}

	configFile = filepath.Join(t.TempDir(), "minik.toml")
	if err := ensureConfigFile(); err == nil {
		t.Error("expected .toml to be rejected")
	}
}
