package mocks

import (
	"github.com/brettbedarf/docvault/audit"
	"github.com/stretchr/testify/mock"
)

// MockSink implements audit.Sink for testing across packages
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Record(actorID, actorName, action, details string) {
	m.Called(actorID, actorName, action, details)
}

// NewMockSink returns a sink that accepts any event; assert on it with
// AssertCalled or Actions.
func NewMockSink() *MockSink {
	m := &MockSink{}
	m.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	return m
}

// Actions returns the action of every recorded event in order.
func (m *MockSink) Actions() []string {
	var out []string
	for _, c := range m.Calls {
		if c.Method == "Record" {
			out = append(out, c.Arguments.String(2))
		}
	}
	return out
}

var _ audit.Sink = (*MockSink)(nil)
