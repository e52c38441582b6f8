package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Paths        PathsConfig        `yaml:"paths"`
	Audio        AudioConfig        `yaml:"audio"`
	VoiceService VoiceServiceConfig `yaml:"voice_service"`
	Voices       VoicesConfig       `yaml:"voices"`
}

// PathsConfig contains directory paths for media processing
type PathsConfig struct {
	ScratchDirectory string `yaml:"scratch_directory"`
	OutputDirectory  string `yaml:"output_directory"`
}

// AudioConfig contains audio extraction settings
type AudioConfig struct {
	Bitrate string `yaml:"bitrate"`
}

// VoiceServiceConfig contains settings for the speech-transformation service
type VoiceServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	ModelID string `yaml:"model_id"`

	// Per-call timeout as a Go duration string, e.g. "5m". Empty uses the
	// client default.
	Timeout string `yaml:"timeout"`

	// Either a static API key or OAuth2 client credentials.
	APIKey       string `yaml:"api_key"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	TokenURL     string `yaml:"token_url"`
}

// VoicesConfig maps local aliases to enrolled voice identities
type VoicesConfig struct {
	DefaultVoice string            `yaml:"default_voice"`
	Aliases      map[string]string `yaml:"aliases"`
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
