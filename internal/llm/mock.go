package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Text string
	Err  error
}

// MockProvider is a deterministic Provider for testing and offline runs.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu          sync.Mutex
	responses   []MockResponse
	defaultText string
	Calls       []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response. With an empty queue it returns
// the default text if one is set, otherwise ErrProviderUnavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		if m.defaultText != "" {
			return &Response{Text: m.defaultText, Model: "mock"}, nil
		}
		return nil, &ErrProviderUnavailable{}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{Text: resp.Text, Model: "mock"}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// SetDefault sets the text returned once the queue is exhausted.
func (m *MockProvider) SetDefault(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultText = text
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
