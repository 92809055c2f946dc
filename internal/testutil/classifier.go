package testutil

import (
	"context"
	"sync"

	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

// StubClassifier returns a canned response or error. It records the last
// request so tests can assert on what was sent.
type StubClassifier struct {
	mu       sync.Mutex
	Response []byte
	Err      error
	ConnErr  error

	lastRequest *organizer.ClassificationRequest
	calls       int
}

var _ organizer.Classifier = (*StubClassifier)(nil)

// NewStubClassifier creates a StubClassifier returning the given response.
func NewStubClassifier(response []byte) *StubClassifier {
	return &StubClassifier{Response: response}
}

func (s *StubClassifier) Classify(_ context.Context, req *organizer.ClassificationRequest) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRequest = req
	s.calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Response, nil
}

func (s *StubClassifier) TestConnection(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ConnErr
}

// LastRequest returns the request from the most recent Classify call.
func (s *StubClassifier) LastRequest() *organizer.ClassificationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRequest
}

// Calls returns the number of Classify calls.
func (s *StubClassifier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
