// Package agent selects the generative-model provider from file config.
package agent

import (
	"fmt"
	"sort"
	"sync"

	"dartlens/pkg/core/llm"
)

// Config is the shape of config/models.yaml.
type Config struct {
	ActiveProvider string `yaml:"active_provider"`
	Model          string `yaml:"model"`
}

// Manager owns the provider instances and hands out the active one.
// Constructed once at process start and passed into handlers. The active
// provider can be switched at runtime through the config endpoint.
type Manager struct {
	mu        sync.RWMutex
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini": &llm.GeminiProvider{Model: config.Model},
			"stub":   &llm.StubProvider{},
		},
	}
}

// GetProvider returns the configured active provider, defaulting to gemini.
func (m *Manager) GetProvider() llm.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["gemini"]
}

// ActiveProvider returns the configured provider name for diagnostics.
func (m *Manager) ActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config.ActiveProvider == "" {
		return "gemini"
	}
	return m.config.ActiveProvider
}

// Switch changes the active provider to a registered one.
func (m *Manager) Switch(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("unknown provider: %s", name)
	}
	m.config.ActiveProvider = name
	return nil
}

// Available returns the registered provider names, sorted.
func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
