package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors for voice alias management
var (
	ErrVoiceNotFound  = errors.New("voice alias not found")
	ErrDuplicateAlias = errors.New("voice alias already exists")
)

// VoiceRegistry provides CRUD operations for voice aliases in config
type VoiceRegistry struct {
	config     *Config
	configPath string
}

// NewVoiceRegistry creates a new voice registry backed by the config file
func NewVoiceRegistry(cfg *Config, configPath string) *VoiceRegistry {
	return &VoiceRegistry{
		config:     cfg,
		configPath: configPath,
	}
}

// Resolve maps an alias (or a raw identity) to a voice identity string.
// Values that are not registered aliases are returned unchanged, so callers
// may pass service identities directly.
func (r *VoiceRegistry) Resolve(aliasOrID string) string {
	key := normalizeAlias(aliasOrID)
	if id, ok := r.config.Voices.Aliases[key]; ok {
		return id
	}
	return aliasOrID
}

// Default returns the configured default voice identity, resolving aliases
func (r *VoiceRegistry) Default() (string, error) {
	if r.config.Voices.DefaultVoice == "" {
		return "", fmt.Errorf("no default voice configured")
	}
	return r.Resolve(r.config.Voices.DefaultVoice), nil
}

// Add registers an alias for an enrolled voice identity and saves the config
func (r *VoiceRegistry) Add(alias, voiceID string) error {
	alias = normalizeAlias(alias)
	voiceID = strings.TrimSpace(voiceID)

	if alias == "" {
		return fmt.Errorf("voice alias is required")
	}
	if voiceID == "" {
		return fmt.Errorf("voice identity is required")
	}
	if _, ok := r.config.Voices.Aliases[alias]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAlias, alias)
	}

	if r.config.Voices.Aliases == nil {
		r.config.Voices.Aliases = make(map[string]string)
	}
	r.config.Voices.Aliases[alias] = voiceID

	return r.save()
}

// Remove deletes an alias and saves the config
func (r *VoiceRegistry) Remove(alias string) error {
	alias = normalizeAlias(alias)
	if _, ok := r.config.Voices.Aliases[alias]; !ok {
		return fmt.Errorf("%w: %s", ErrVoiceNotFound, alias)
	}

	delete(r.config.Voices.Aliases, alias)
	if normalizeAlias(r.config.Voices.DefaultVoice) == alias {
		r.config.Voices.DefaultVoice = ""
	}

	return r.save()
}

// List returns registered aliases in sorted order
func (r *VoiceRegistry) List() []string {
	aliases := make([]string, 0, len(r.config.Voices.Aliases))
	for alias := range r.config.Voices.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

func (r *VoiceRegistry) save() error {
	if r.configPath == "" {
		return nil // in-memory registry, nothing to persist
	}
	return Save(r.config, r.configPath)
}

func normalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}
