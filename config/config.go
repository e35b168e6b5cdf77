package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"voice-actuator/actuator"
	"voice-actuator/audio_capture"
)

const (
	BackendOpenAI  = "openai"
	BackendWhisper = "whisper"
)

// Config represents the complete configuration of the voice actuator
type Config struct {
	Serial      actuator.SerialConfig `yaml:"serial"`
	Audio       audio_capture.Format  `yaml:"audio"`
	Timing      TimingConfig          `yaml:"timing"`
	Transcriber TranscriberConfig     `yaml:"transcriber"`
	Recordings  RecordingsConfig      `yaml:"recordings"`
	Log         LogConfig             `yaml:"log"`
	Metrics     MetricsConfig         `yaml:"metrics"`
}

// TimingConfig holds the fixed delays of a command cycle
type TimingConfig struct {
	RecordWindow      time.Duration `yaml:"record_window"`
	SettleTime        time.Duration `yaml:"settle_time"`
	TranscribeTimeout time.Duration `yaml:"transcribe_timeout"`
}

// TranscriberConfig selects and configures the speech to text backend
type TranscriberConfig struct {
	Backend          string `yaml:"backend"`
	Language         string `yaml:"language"`
	Model            string `yaml:"model"`
	BaseURL          string `yaml:"base_url"`
	APIKey           string `yaml:"-"`
	WhisperModelPath string `yaml:"whisper_model_path"`
}

// RecordingsConfig holds where finished recordings are written
type RecordingsConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig holds optional log file rotation settings
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// MetricsConfig holds the Prometheus listener address; empty disables it
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load builds the configuration from defaults, the YAML file at path (or
// VOICE_ACTUATOR_CONFIG when path is empty), a .env file, the environment and
// finally overrides, then validates it.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %v", err)
	}

	if path == "" {
		path = os.Getenv("VOICE_ACTUATOR_CONFIG")
	}

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %v", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

// Default returns the bench setup: COM4 at 115200 baud, 48 kHz 24-bit mono, 3s windows
func Default() *Config {
	return &Config{
		Serial: actuator.SerialConfig{
			Port:        "COM4",
			BaudRate:    115200,
			ReadTimeout: time.Second,
		},
		Audio: audio_capture.DefaultFormat,
		Timing: TimingConfig{
			RecordWindow: 3 * time.Second,
			SettleTime:   5 * time.Second,
		},
		Transcriber: TranscriberConfig{
			Backend:  BackendOpenAI,
			Language: "ko",
			Model:    "whisper-1",
		},
		Recordings: RecordingsConfig{
			Dir: os.TempDir(),
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) error {
	if port := os.Getenv("VOICE_ACTUATOR_SERIAL_PORT"); port != "" {
		cfg.Serial.Port = port
	}

	if baud := os.Getenv("VOICE_ACTUATOR_BAUD_RATE"); baud != "" {
		rate, err := strconv.Atoi(baud)
		if err != nil {
			return fmt.Errorf("invalid VOICE_ACTUATOR_BAUD_RATE %q: %v", baud, err)
		}
		cfg.Serial.BaudRate = rate
	}

	if window := os.Getenv("VOICE_ACTUATOR_RECORD_WINDOW"); window != "" {
		d, err := time.ParseDuration(window)
		if err != nil {
			return fmt.Errorf("invalid VOICE_ACTUATOR_RECORD_WINDOW %q: %v", window, err)
		}
		cfg.Timing.RecordWindow = d
	}

	if settle := os.Getenv("VOICE_ACTUATOR_SETTLE_TIME"); settle != "" {
		d, err := time.ParseDuration(settle)
		if err != nil {
			return fmt.Errorf("invalid VOICE_ACTUATOR_SETTLE_TIME %q: %v", settle, err)
		}
		cfg.Timing.SettleTime = d
	}

	if dir := os.Getenv("VOICE_ACTUATOR_RECORDINGS_DIR"); dir != "" {
		cfg.Recordings.Dir = dir
	}

	if addr := os.Getenv("VOICE_ACTUATOR_METRICS_ADDR"); addr != "" {
		cfg.Metrics.Addr = addr
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Transcriber.APIKey = key
	}

	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.Transcriber.BaseURL = baseURL
	}

	return nil
}
