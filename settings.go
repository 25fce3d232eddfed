package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"

	"github.com/minikastronot/minik/internal/audio"
	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/speech"
	"github.com/minikastronot/minik/utils"
)

const defaultCacheSize = 256 << 20

// settings is the validated view of the configuration file.
type settings struct {
	Voice string
	Mouse bool

	Speech struct {
		Model             string
		Retries           int
		BaseDelay         time.Duration
		RequestsPerMinute int
		CacheEnabled      bool
		CacheDir          string
		CacheLevel        int
	}
	Image struct {
		Enabled bool
		Model   string
	}
	Preload struct {
		Enabled    bool
		BatchSize  int
		BatchDelay time.Duration
	}
	Audio struct {
		SampleRate int
		Volume     float64
		Muted      bool
	}
	Serve struct {
		Addr string
	}
}

// envConfig holds settings that only come from the environment.
type envConfig struct {
	GeminiKey string `env:"GEMINI_API_KEY"`
	APIKey    string `env:"API_KEY"`
	LogFile   string `env:"MINIK_LOGFILE"`
}

// Key prefers GEMINI_API_KEY over the generic API_KEY.
func (e envConfig) Key() string {
	if e.GeminiKey != "" {
		return e.GeminiKey
	}
	return e.APIKey
}

func loadEnv() (envConfig, error) {
	cfg, err := env.ParseAs[envConfig]()
	if err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := speech.DefaultConfig()
	plan := content.DefaultPlan()

	v.SetDefault("voice.default", speech.DefaultVoice)
	v.SetDefault("mouse", false)

	v.SetDefault("speech.model", def.SpeechModel)
	v.SetDefault("speech.retries", def.Retries)
	v.SetDefault("speech.base_delay", def.BaseDelay)
	v.SetDefault("speech.requests_per_minute", def.RequestsPerMinute)
	v.SetDefault("speech.cache.enabled", false)
	v.SetDefault("speech.cache.dir", "")
	v.SetDefault("speech.cache.compression_level", 3)

	v.SetDefault("image.enabled", true)
	v.SetDefault("image.model", def.ImageModel)

	v.SetDefault("preload.enabled", true)
	v.SetDefault("preload.batch_size", plan.BatchSize)
	v.SetDefault("preload.batch_delay", plan.BatchDelay)

	v.SetDefault("audio.sample_rate", audio.SpeechSampleRate)
	v.SetDefault("audio.volume", 1.0)
	v.SetDefault("audio.muted", false)

	v.SetDefault("serve.addr", "127.0.0.1:8080")
}

func loadSettings(v *viper.Viper) (settings, error) {
	var s settings
	s.Voice = v.GetString("voice.default")
	s.Mouse = v.GetBool("mouse")

	s.Speech.Model = v.GetString("speech.model")
	s.Speech.Retries = v.GetInt("speech.retries")
	s.Speech.BaseDelay = v.GetDuration("speech.base_delay")
	s.Speech.RequestsPerMinute = v.GetInt("speech.requests_per_minute")
	s.Speech.CacheEnabled = v.GetBool("speech.cache.enabled")
	s.Speech.CacheDir = utils.ExpandPath(v.GetString("speech.cache.dir"))
	s.Speech.CacheLevel = v.GetInt("speech.cache.compression_level")

	s.Image.Enabled = v.GetBool("image.enabled")
	s.Image.Model = v.GetString("image.model")

	s.Preload.Enabled = v.GetBool("preload.enabled")
	s.Preload.BatchSize = v.GetInt("preload.batch_size")
	s.Preload.BatchDelay = v.GetDuration("preload.batch_delay")

	s.Audio.SampleRate = v.GetInt("audio.sample_rate")
	s.Audio.Volume = v.GetFloat64("audio.volume")
	s.Audio.Muted = v.GetBool("audio.muted")

	s.Serve.Addr = v.GetString("serve.addr")

	return s, s.validate()
}

func (s settings) validate() error {
	if s.Voice == "" {
		return fmt.Errorf("voice.default must not be empty")
	}
	if s.Speech.Retries < 0 || s.Speech.Retries > 10 {
		return fmt.Errorf("speech.retries must be between 0 and 10, got %d", s.Speech.Retries)
	}
	if s.Speech.BaseDelay <= 0 {
		return fmt.Errorf("speech.base_delay must be positive, got %s", s.Speech.BaseDelay)
	}
	if s.Speech.RequestsPerMinute < 1 {
		return fmt.Errorf("speech.requests_per_minute must be at least 1, got %d", s.Speech.RequestsPerMinute)
	}
	if s.Speech.CacheLevel < 1 || s.Speech.CacheLevel > 22 {
		return fmt.Errorf("speech.cache.compression_level must be between 1 and 22, got %d", s.Speech.CacheLevel)
	}
	if s.Preload.BatchSize < 1 {
		return fmt.Errorf("preload.batch_size must be at least 1, got %d", s.Preload.BatchSize)
	}
	if s.Preload.BatchDelay < 0 {
		return fmt.Errorf("preload.batch_delay must not be negative, got %s", s.Preload.BatchDelay)
	}
	if s.Audio.SampleRate < 8000 || s.Audio.SampleRate > 192000 {
		return fmt.Errorf("audio.sample_rate must be between 8000 and 192000 Hz, got %d", s.Audio.SampleRate)
	}
	if s.Audio.Volume < 0 || s.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be between 0.0 and 1.0, got %.2f", s.Audio.Volume)
	}
	if s.Serve.Addr == "" {
		return fmt.Errorf("serve.addr must not be empty")
	}
	return nil
}

func (s settings) speechConfig(key string) speech.Config {
	cfg := speech.DefaultConfig()
	cfg.APIKey = key
	cfg.SpeechModel = s.Speech.Model
	cfg.ImageModel = s.Image.Model
	cfg.Retries = s.Speech.Retries
	cfg.BaseDelay = s.Speech.BaseDelay
	cfg.RequestsPerMinute = s.Speech.RequestsPerMinute
	return cfg
}

func (s settings) preloadPlan() content.Plan {
	plan := content.DefaultPlan()
	plan.BatchSize = s.Preload.BatchSize
	plan.BatchDelay = s.Preload.BatchDelay
	return plan
}
