package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ericfisherdev/adview/internal/domain/model"
	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

// KeySource tells where the active API key came from.
type KeySource string

const (
	KeySourceNone        KeySource = "none"
	KeySourceEnvironment KeySource = "environment"
	KeySourceStored      KeySource = "stored"
)

// CredentialStatus describes the active API key without revealing it.
type CredentialStatus struct {
	Configured     bool
	Source         KeySource
	Masked         string
	StorageEnabled bool
}

// CredentialService manages the API key entered through the GUI. A stored key
// takes priority over the environment key; deleting it falls back to the
// environment key.
type CredentialService struct {
	store  driven.CredentialStore
	keys   *APIKeyProvider
	envKey string

	mu     sync.Mutex
	source KeySource
}

// NewCredentialService creates a CredentialService. store may be nil when no
// encryption key is configured, which disables saving keys.
func NewCredentialService(store driven.CredentialStore, keys *APIKeyProvider, envKey string) *CredentialService {
	source := KeySourceNone
	if envKey != "" {
		source = KeySourceEnvironment
	}
	return &CredentialService{store: store, keys: keys, envKey: envKey, source: source}
}

// LoadStored swaps in a previously saved key, if any. A missing encryption key
// is not an error: the environment key stays active.
func (s *CredentialService) LoadStored(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	stored, err := s.store.Get(ctx, model.CredentialServiceWatson, model.CredentialKeyAPIKey)
	if errors.Is(err, driven.ErrEncryptionKeyNotSet) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading stored API key: %w", err)
	}
	if stored != "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.keys.Replace(stored)
		s.source = KeySourceStored
	}
	return nil
}

// SaveAPIKey persists key and makes it active for the next run.
func (s *CredentialService) SaveAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: API key must not be empty", ErrInvalidInput)
	}
	if s.store == nil {
		return driven.ErrEncryptionKeyNotSet
	}
	if err := s.store.Set(ctx, model.CredentialServiceWatson, model.CredentialKeyAPIKey, key); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys.Replace(key)
	s.source = KeySourceStored
	return nil
}

// DeleteAPIKey removes the stored key and reverts to the environment key.
func (s *CredentialService) DeleteAPIKey(ctx context.Context) error {
	if s.store == nil {
		return driven.ErrEncryptionKeyNotSet
	}
	if err := s.store.Delete(ctx, model.CredentialServiceWatson, model.CredentialKeyAPIKey); err != nil {
		return fmt.Errorf("deleting API key: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys.Replace(s.envKey)
	s.source = KeySourceNone
	if s.envKey != "" {
		s.source = KeySourceEnvironment
	}
	return nil
}

// Status reports the active key's source and a masked rendering.
func (s *CredentialService) Status() CredentialStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.keys.Get()
	return CredentialStatus{
		Configured:     key != "",
		Source:         s.source,
		Masked:         MaskSecret(key),
		StorageEnabled: s.store != nil,
	}
}

// MaskSecret shows only the last four characters of a secret.
func MaskSecret(secret string) string {
	const visible = 4
	if secret == "" {
		return ""
	}
	if len(secret) <= visible {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", 8) + secret[len(secret)-visible:]
}
