package registry

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

// MockRegistryStore mocks the interfaces.RegistryStore interface.
type MockRegistryStore struct {
	mock.Mock
}

// Allocate mocks the Allocate method.
func (m *MockRegistryStore) Allocate(ctx context.Context, loc interfaces.RegistryLocation, size int) error {
	args := m.Called(ctx, loc, size)
	return args.Error(0)
}

// Read mocks the Read method.
func (m *MockRegistryStore) Read(ctx context.Context, loc interfaces.RegistryLocation) ([]byte, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Write mocks the Write method.
func (m *MockRegistryStore) Write(ctx context.Context, loc interfaces.RegistryLocation, data []byte) error {
	args := m.Called(ctx, loc, data)
	return args.Error(0)
}

// Reserved mocks the Reserved method.
func (m *MockRegistryStore) Reserved(ctx context.Context, loc interfaces.RegistryLocation) (int, error) {
	args := m.Called(ctx, loc)
	return args.Int(0), args.Error(1)
}

// Available mocks the Available method.
func (m *MockRegistryStore) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// Name mocks the Name method.
func (m *MockRegistryStore) Name() string {
	args := m.Called()
	return args.String(0)
}

// LocationURI mocks the LocationURI method.
func (m *MockRegistryStore) LocationURI() string {
	args := m.Called()
	return args.String(0)
}
