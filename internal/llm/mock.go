package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var errMockDrained = errors.New("mock provider has no queued responses")

// MockResponse is one canned MockProvider reply. Truncated replays a reply
// cut off at the token limit.
type MockResponse struct {
	Content   json.RawMessage
	Usage     Usage
	Truncated bool
	Err       error
}

// MockProvider replays canned responses in order and records requests.
// Replies go through the same schema check as real providers, and an empty
// queue fails with *UnavailableError.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider queues responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	next, ok := m.next(req)
	if !ok {
		return nil, &UnavailableError{Err: errMockDrained}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return completion{
		text:      string(next.Content),
		model:     m.ModelID(),
		truncated: next.Truncated,
		input:     next.Usage.InputTokens,
		output:    next.Usage.OutputTokens,
		total:     next.Usage.TotalTokens,
	}.response(req)
}

// next records req and pops the head of the queue.
func (m *MockProvider) next(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		return MockResponse{}, false
	}
	head := m.responses[0]
	m.responses = m.responses[1:]
	return head, true
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another response.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.responses = append(m.responses, resp)
	m.mu.Unlock()
}

// Pending is the number of responses not yet replayed.
func (m *MockProvider) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}

// CallCount is the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
