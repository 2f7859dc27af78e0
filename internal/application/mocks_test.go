package application_test

import (
	"context"
	"sync"

	"github.com/ericfisherdev/adview/internal/domain/model"
)

// mockAuthenticator implements driven.Authenticator.
type mockAuthenticator struct {
	token   string
	err     error
	calls   int
	lastKey string
}

func (m *mockAuthenticator) Authenticate(_ context.Context, apiKey string) (string, error) {
	m.calls++
	m.lastKey = apiKey
	return m.token, m.err
}

// mockPredictor implements driven.Predictor.
type mockPredictor struct {
	probability float64
	err         error
	calls       int
	lastToken   string
	lastInput   model.InputRecord
}

func (m *mockPredictor) Predict(_ context.Context, token string, input model.InputRecord) (float64, error) {
	m.calls++
	m.lastToken = token
	m.lastInput = input
	return m.probability, m.err
}

// mockPredictionStore implements driven.PredictionStore in memory.
type mockPredictionStore struct {
	mu      sync.Mutex
	saved   []model.Prediction
	saveErr error
	listErr error
}

func (m *mockPredictionStore) Save(_ context.Context, p model.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, p)
	return nil
}

func (m *mockPredictionStore) GetByID(_ context.Context, id string) (*model.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.saved {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *mockPredictionStore) ListRecent(_ context.Context, limit int) ([]model.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Prediction
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.saved[i])
	}
	return out, nil
}

// mockCredentialStore implements driven.CredentialStore in memory.
type mockCredentialStore struct {
	values map[string]string
	err    error
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{values: map[string]string{}}
}

func (m *mockCredentialStore) Set(_ context.Context, service, key, plaintext string) error {
	if m.err != nil {
		return m.err
	}
	m.values[service+"/"+key] = plaintext
	return nil
}

func (m *mockCredentialStore) Get(_ context.Context, service, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[service+"/"+key], nil
}

func (m *mockCredentialStore) Delete(_ context.Context, service, key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.values, service+"/"+key)
	return nil
}
