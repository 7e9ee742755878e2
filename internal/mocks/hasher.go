package mocks

import (
	"github.com/brettbedarf/docvault/passwd"
	"github.com/stretchr/testify/mock"
)

// MockHasher implements passwd.Hasher for testing across packages
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) GenerateSalt() ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockHasher) DeriveKey(password string, salt []byte, iterations, keyLengthBits int) ([]byte, error) {
	args := m.Called(password, salt, iterations, keyLengthBits)

	// Handle function return types (for tests that derive from inputs)
	if fn, ok := args.Get(0).(func(string, []byte, int, int) []byte); ok {
		return fn(password, salt, iterations, keyLengthBits), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockHasher) Algorithm() string {
	return m.Called().String(0)
}

func (m *MockHasher) Iterations() int {
	return m.Called().Int(0)
}

func (m *MockHasher) KeyLengthBits() int {
	return m.Called().Int(0)
}

var _ passwd.Hasher = (*MockHasher)(nil)
