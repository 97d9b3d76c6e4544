package clients

import (
	"github.com/stretchr/testify/mock"

	"github.com/ruteri/memory-registry-backend/httpserver"
	"github.com/ruteri/memory-registry-backend/interfaces"
)

// RegistryAPI is the client-side registry surface. RegistryClient is the
// HTTP implementation; MockRegistryAPI stands in for tests of code built
// on top of the client.
type RegistryAPI interface {
	CreateRegistry(owner interfaces.OwnerID) error
	AppendEntry(owner interfaces.OwnerID, req httpserver.AppendRequest) error
	VerifyEntry(owner interfaces.OwnerID, hash interfaces.ContentHash) error
	RegistryInfo(owner interfaces.OwnerID) (*httpserver.RegistryInfoResponse, error)
}

var _ RegistryAPI = (*RegistryClient)(nil)

// MockRegistryAPI mocks the RegistryAPI interface.
type MockRegistryAPI struct {
	mock.Mock
}

// CreateRegistry mocks the CreateRegistry method.
func (m *MockRegistryAPI) CreateRegistry(owner interfaces.OwnerID) error {
	args := m.Called(owner)
	return args.Error(0)
}

// AppendEntry mocks the AppendEntry method.
func (m *MockRegistryAPI) AppendEntry(owner interfaces.OwnerID, req httpserver.AppendRequest) error {
	args := m.Called(owner, req)
	return args.Error(0)
}

// VerifyEntry mocks the VerifyEntry method.
func (m *MockRegistryAPI) VerifyEntry(owner interfaces.OwnerID, hash interfaces.ContentHash) error {
	args := m.Called(owner, hash)
	return args.Error(0)
}

// RegistryInfo mocks the RegistryInfo method.
func (m *MockRegistryAPI) RegistryInfo(owner interfaces.OwnerID) (*httpserver.RegistryInfoResponse, error) {
	args := m.Called(owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*httpserver.RegistryInfoResponse), args.Error(1)
}
