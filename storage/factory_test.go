package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

func TestStoreFactory(t *testing.T) {
	factory := NewStoreFactory(testLogger())

	t.Run("mem", func(t *testing.T) {
		store, err := factory.StoreFor("mem://")
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("mem with quota", func(t *testing.T) {
		store, err := factory.StoreFor("mem://?max_bytes=4096")
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "registry-data")
		store, err := factory.StoreFor("file://" + dir)
		require.NoError(t, err)
		assert.IsType(t, &FileStore{}, store)
	})

	t.Run("s3", func(t *testing.T) {
		store, err := factory.StoreFor("s3://my-bucket/registries?region=eu-west-1")
		require.NoError(t, err)
		assert.IsType(t, &S3Store{}, store)
		assert.Contains(t, store.LocationURI(), "my-bucket")
	})

	t.Run("vault", func(t *testing.T) {
		store, err := factory.StoreFor("vault://vault.example.com:8200/secret/memory-registry")
		require.NoError(t, err)
		assert.IsType(t, &VaultStore{}, store)
	})

	t.Run("vault missing data path", func(t *testing.T) {
		_, err := factory.StoreFor("vault://vault.example.com:8200/secret")
		assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := factory.StoreFor("ftp://somewhere/else")
		assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
	})
}

func TestDefaultLocationPolicy(t *testing.T) {
	policy := DefaultLocationPolicy()

	assert.False(t, policy.ValidLocation(interfaces.RegistryLocation{}))
	assert.True(t, policy.ValidLocation(testLocation(1)))
}
