package irrecoverable

import (
	"context"
	"testing"
)

// MockSignalerContext is a SignalerContext that fails the test on Throw.
type MockSignalerContext struct {
	context.Context
	t           *testing.T
	expectError error
}

var _ SignalerContext = &MockSignalerContext{}

func (m MockSignalerContext) sealed() {}

func (m MockSignalerContext) Throw(err error) {
	if m.expectError != nil && err.Error() == m.expectError.Error() {
		return
	}
	m.t.Fatalf("mock signaler context received error: %v", err)
}

func NewMockSignalerContext(t *testing.T, ctx context.Context) *MockSignalerContext {
	return &MockSignalerContext{
		Context: ctx,
		t:       t,
	}
}

// NewMockSignalerContextExpectError creates a new MockSignalerContext which
// accepts the given error on Throw and fails the test on any other.
func NewMockSignalerContextExpectError(t *testing.T, ctx context.Context, err error) *MockSignalerContext {
	return &MockSignalerContext{
		Context:     ctx,
		t:           t,
		expectError: err,
	}
}

func NewMockSignalerContextWithCancel(t *testing.T, parent context.Context) (*MockSignalerContext, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return NewMockSignalerContext(t, ctx), cancel
}
