package config

import (
	"errors"
	"strings"
	"time"

	cenv "github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr      string
	ASRBaseURL      string
	TTSBaseURL      string
	CopilotBaseURL  string
	CopilotEnabled  bool
	ChatTimeout     time.Duration
	ChatMaxRetries  int
	ChatRetryDelay  time.Duration
	ChatMaxPairs    int
	ASRTimeout      time.Duration
	TTSTimeout      time.Duration
	RequestTimeout  time.Duration
	MaxUploadBytes  int64
	NotesDir        string
	SummaryMaxWords int
	LogLevel        string
	SentryDSN       string
}

type envConfig struct {
	ListenAddr            string `env:"LISTEN_ADDR" envDefault:":8080"`
	ASRBaseURL            string `env:"ASR_BASE_URL" envDefault:"http://localhost:8000"`
	TTSBaseURL            string `env:"TTS_BASE_URL" envDefault:"http://localhost:8001"`
	CopilotBaseURL        string `env:"COPILOT_BASE_URL" envDefault:"http://localhost:3000"`
	CopilotEnabled        bool   `env:"COPILOT_ENABLED" envDefault:"false"`
	ChatTimeoutSeconds    int    `env:"CHAT_TIMEOUT_SECONDS" envDefault:"30"`
	ChatMaxRetries        int    `env:"CHAT_MAX_RETRIES" envDefault:"3"`
	ChatRetryDelayMillis  int    `env:"CHAT_RETRY_DELAY_MS" envDefault:"500"`
	ChatMaxHistoryPairs   int    `env:"CHAT_MAX_HISTORY_PAIRS" envDefault:"10"`
	ASRTimeoutSeconds     int    `env:"ASR_TIMEOUT_SECONDS" envDefault:"20"`
	TTSTimeoutSeconds     int    `env:"TTS_TIMEOUT_SECONDS" envDefault:"20"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"35"`
	MaxUploadBytes        int64  `env:"MAX_UPLOAD_BYTES" envDefault:"26214400"`
	NotesDir              string `env:"NOTES_DIR" envDefault:"voicepipe_notes"`
	SummaryMaxWords       int    `env:"SUMMARY_MAX_WORDS" envDefault:"150"`
	LogLevel              string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN             string `env:"SENTRY_DSN"`
}

func Load() (Config, error) {
	var raw envConfig
	if err := cenv.Parse(&raw); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddr:      strings.TrimSpace(raw.ListenAddr),
		ASRBaseURL:      strings.TrimRight(strings.TrimSpace(raw.ASRBaseURL), "/"),
		TTSBaseURL:      strings.TrimRight(strings.TrimSpace(raw.TTSBaseURL), "/"),
		CopilotBaseURL:  strings.TrimRight(strings.TrimSpace(raw.CopilotBaseURL), "/"),
		CopilotEnabled:  raw.CopilotEnabled,
		ChatTimeout:     time.Duration(raw.ChatTimeoutSeconds) * time.Second,
		ChatMaxRetries:  raw.ChatMaxRetries,
		ChatRetryDelay:  time.Duration(raw.ChatRetryDelayMillis) * time.Millisecond,
		ChatMaxPairs:    raw.ChatMaxHistoryPairs,
		ASRTimeout:      time.Duration(raw.ASRTimeoutSeconds) * time.Second,
		TTSTimeout:      time.Duration(raw.TTSTimeoutSeconds) * time.Second,
		RequestTimeout:  time.Duration(raw.RequestTimeoutSeconds) * time.Second,
		MaxUploadBytes:  raw.MaxUploadBytes,
		NotesDir:        strings.TrimSpace(raw.NotesDir),
		SummaryMaxWords: raw.SummaryMaxWords,
		LogLevel:        strings.ToLower(strings.TrimSpace(raw.LogLevel)),
		SentryDSN:       strings.TrimSpace(raw.SentryDSN),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("LISTEN_ADDR must not be empty")
	}
	if c.ASRBaseURL == "" {
		return errors.New("ASR_BASE_URL must not be empty")
	}
	if c.TTSBaseURL == "" {
		return errors.New("TTS_BASE_URL must not be empty")
	}
	if c.CopilotEnabled && c.CopilotBaseURL == "" {
		return errors.New("COPILOT_BASE_URL must not be empty when COPILOT_ENABLED is true")
	}
	if c.ChatTimeout <= 0 {
		return errors.New("CHAT_TIMEOUT_SECONDS must be > 0")
	}
	if c.ChatMaxRetries <= 0 {
		return errors.New("CHAT_MAX_RETRIES must be > 0")
	}
	if c.ChatRetryDelay < 0 {
		return errors.New("CHAT_RETRY_DELAY_MS must be >= 0")
	}
	if c.ChatMaxPairs < 0 {
		return errors.New("CHAT_MAX_HISTORY_PAIRS must be >= 0")
	}
	if c.ASRTimeout <= 0 {
		return errors.New("ASR_TIMEOUT_SECONDS must be > 0")
	}
	if c.TTSTimeout <= 0 {
		return errors.New("TTS_TIMEOUT_SECONDS must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT_SECONDS must be > 0")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be > 0")
	}
	if c.NotesDir == "" {
		return errors.New("NOTES_DIR must not be empty")
	}
	if c.SummaryMaxWords <= 0 {
		return errors.New("SUMMARY_MAX_WORDS must be > 0")
	}
	return nil
}
