package application

import "sync"

// APIKeyProvider enables runtime hot-swap of the API key exchanged for bearer
// tokens. A key saved through the settings page replaces the configured one
// without restarting the application.
type APIKeyProvider struct {
	mu  sync.RWMutex
	key string
}

// NewAPIKeyProvider creates a provider holding the initial key, which may be
// empty if no key is configured at startup.
func NewAPIKeyProvider(key string) *APIKeyProvider {
	return &APIKeyProvider{key: key}
}

// Get returns the current API key.
func (p *APIKeyProvider) Get() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.key
}

// Replace swaps the current key. The next pipeline run uses the new value.
func (p *APIKeyProvider) Replace(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.key = key
}

// HasKey returns true if a non-empty key is currently held.
func (p *APIKeyProvider) HasKey() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.key != ""
}
