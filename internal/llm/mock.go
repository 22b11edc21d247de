package llm

import (
	"context"
	"sync"
)

// MockResponse is one scripted answer of a MockProvider.
type MockResponse struct {
	Content string

	// Raw, when set, is passed through Text and replaces Content, so any
	// backend result shape can be scripted.
	Raw any

	Err error
}

// MockProvider replays scripted responses in order, repeating the last one
// once the script is exhausted, and records every request it serves.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	pos    int
	calls  []Request
}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider returns a mock that replays script. An empty script
// answers every request with empty content.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

// Complete records req and returns the next scripted response. A cancelled
// context fails before anything is recorded.
func (m *MockProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, req)
	r, ok := m.next()
	m.mu.Unlock()

	model := req.Model
	if model == "" {
		model = "mock"
	}
	if !ok {
		return &Response{Model: model}, nil
	}
	if r.Err != nil {
		return nil, r.Err
	}

	content := r.Content
	if r.Raw != nil {
		content = Text(r.Raw)
	}
	return &Response{
		Content: content,
		Model:   model,
		Usage:   Usage{InputTokens: 10, OutputTokens: 5},
	}, nil
}

// next must be called with mu held.
func (m *MockProvider) next() (MockResponse, bool) {
	if len(m.script) == 0 {
		return MockResponse{}, false
	}
	r := m.script[m.pos]
	if m.pos < len(m.script)-1 {
		m.pos++
	}
	return r, true
}

// Calls returns a copy of the recorded requests.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// CallCount returns the number of recorded requests.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset forgets recorded requests and rewinds the script.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.pos = 0
}
