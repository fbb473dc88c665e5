package mocks

import (
	"errors"
	"sync"
)

// ErrPasswordMismatch is returned by MockPasswordVerifier.Compare when
// ShouldSucceed is false.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordVerifier implements auth.PasswordVerifier and auth.PasswordHasher
// for testing. Hash returns "hashed:" + password unless HashErr is set.
type MockPasswordVerifier struct {
	ShouldSucceed bool
	HashErr       error

	CompareFn func(hashedPassword, password string) error

	mu           sync.Mutex
	compareCalls int
	hashCalls    int
}

// Compare implements auth.PasswordVerifier.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.compareCalls++
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrPasswordMismatch
}

// Hash implements auth.PasswordHasher.
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	m.mu.Lock()
	m.hashCalls++
	m.mu.Unlock()

	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}

// CompareCount returns how many times Compare was called.
func (m *MockPasswordVerifier) CompareCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.compareCalls
}

// HashCount returns how many times Hash was called.
func (m *MockPasswordVerifier) HashCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hashCalls
}
