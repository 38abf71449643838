package config

import (
	"fmt"
	"time"
)

type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	Paths       PathsConfig       `yaml:"paths"`
	Narration   NarrationConfig   `yaml:"narration"`
	Player      PlayerConfig      `yaml:"player"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

// ServiceConfig points at the remote OCR + summary + TTS service.
// BaseURL may be left empty here; requests fail with errs.ConfigError instead.
type ServiceConfig struct {
	BaseURL    string        `yaml:"base_url"`
	OCRTimeout time.Duration `yaml:"ocr_timeout"`
	TTSTimeout time.Duration `yaml:"tts_timeout"`
}

type PathsConfig struct {
	Inbox    string `yaml:"inbox"`
	Cache    string `yaml:"cache"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type NarrationConfig struct {
	AutoPlay bool `yaml:"auto_play"`
	Muted    bool `yaml:"muted"`
}

type PlayerConfig struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

const (
	DefaultOCRTimeout = 20 * time.Second
	DefaultTTSTimeout = 60 * time.Second
)

func (c *Config) Validate() error {
	if c.Paths.Inbox == "" {
		return fmt.Errorf("paths.inbox is required")
	}
	if c.Paths.Cache == "" {
		return fmt.Errorf("paths.cache is required")
	}
	if c.Service.OCRTimeout < 0 || c.Service.TTSTimeout < 0 {
		return fmt.Errorf("service timeouts must not be negative")
	}

	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Service.OCRTimeout == 0 {
		c.Service.OCRTimeout = DefaultOCRTimeout
	}
	if c.Service.TTSTimeout == 0 {
		c.Service.TTSTimeout = DefaultTTSTimeout
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
