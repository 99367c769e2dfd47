package testutil

import (
	"context"
	"slices"
	"sync"
)

// MockProvider mocks a spelling suggestion provider. It answers from
// Suggestions and records every batch of words it was asked about.
type MockProvider struct {
	ProviderName string
	Suggestions  map[string]string
	Err          error

	mu    sync.Mutex
	Calls [][]string
}

// Name returns the configured provider name, "mock" by default.
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// Suggest returns the known suggestions for words. Words without an entry
// are left out of the result.
func (m *MockProvider) Suggest(ctx context.Context, words []string) (map[string]string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, slices.Clone(words))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	out := make(map[string]string)
	for _, w := range words {
		if hindi, ok := m.Suggestions[w]; ok {
			out[w] = hindi
		}
	}
	return out, nil
}

// CallCount returns how often Suggest was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
