// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

// LLMConfig holds the provider connection and sampling parameters.
type LLMConfig struct {
	BaseURL          string  `mapstructure:"base_url"`
	APIKey           string  `mapstructure:"api_key"`
	Model            string  `mapstructure:"model"`
	MaxTokens        int     `mapstructure:"max_tokens"`
	Temperature      float64 `mapstructure:"temperature"`
	PresencePenalty  float64 `mapstructure:"presence_penalty"`
	FrequencyPenalty float64 `mapstructure:"frequency_penalty"`
	Timeout          int     `mapstructure:"timeout"`     // milliseconds
	MaxRetries       int     `mapstructure:"max_retries"` // extra transport attempts
}

func (l LLMConfig) TimeoutDuration() time.Duration {
	return time.Duration(l.Timeout) * time.Millisecond
}

// SessionConfig bounds the per-user conversation state.
type SessionConfig struct {
	Store         string `mapstructure:"store"` // memory | redis
	TTL           int    `mapstructure:"ttl"`   // minutes, sliding
	MaxSessions   int    `mapstructure:"max_sessions"`
	HistoryWindow int    `mapstructure:"history_window"` // turns sent to the LLM
}

func (s SessionConfig) TTLDuration() time.Duration {
	return time.Duration(s.TTL) * time.Minute
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
