package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLocation(seed byte) interfaces.RegistryLocation {
	var loc interfaces.RegistryLocation
	loc[0] = seed
	loc[31] = ^seed
	return loc
}

// storeUnderTest exercises the shared RegistryStore contract.
func storeUnderTest(t *testing.T, store interfaces.RegistryStore) {
	t.Helper()
	ctx := context.Background()
	loc := testLocation(1)

	// Missing regions report not-found everywhere.
	_, err := store.Read(ctx, loc)
	assert.ErrorIs(t, err, interfaces.ErrRegistryNotFound)
	_, err = store.Reserved(ctx, loc)
	assert.ErrorIs(t, err, interfaces.ErrRegistryNotFound)
	err = store.Write(ctx, loc, []byte("data"))
	assert.ErrorIs(t, err, interfaces.ErrRegistryNotFound)

	// Allocation is zero-filled and exclusive.
	require.NoError(t, store.Allocate(ctx, loc, 64))
	assert.ErrorIs(t, store.Allocate(ctx, loc, 64), interfaces.ErrAlreadyExists)

	data, err := store.Read(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 64), data)

	reserved, err := store.Reserved(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, 64, reserved)

	// Same-size writes replace the image.
	image := make([]byte, 64)
	image[0] = 0xaa
	require.NoError(t, store.Write(ctx, loc, image))
	data, err = store.Read(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, image, data)

	// Larger writes grow the reservation.
	bigger := make([]byte, 128)
	bigger[127] = 0xbb
	require.NoError(t, store.Write(ctx, loc, bigger))
	reserved, err = store.Reserved(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, 128, reserved)

	// Reservations never shrink.
	err = store.Write(ctx, loc, make([]byte, 64))
	assert.Error(t, err)
	data, err = store.Read(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, bigger, data, "rejected write must not alter the region")

	assert.True(t, store.Available(ctx))
	assert.NotEmpty(t, store.Name())
	assert.NotEmpty(t, store.LocationURI())
}

func TestMemoryStoreContract(t *testing.T) {
	storeUnderTest(t, NewMemoryStore(0, testLogger()))
}

func TestFileStoreContract(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	storeUnderTest(t, store)
}

func TestMemoryStoreQuota(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(100, testLogger())

	// Allocation beyond quota is denied.
	err := store.Allocate(ctx, testLocation(1), 101)
	assert.ErrorIs(t, err, interfaces.ErrAllocationFailed)

	require.NoError(t, store.Allocate(ctx, testLocation(1), 80))

	// Growth beyond quota is denied and leaves the region untouched.
	err = store.Write(ctx, testLocation(1), make([]byte, 120))
	assert.ErrorIs(t, err, interfaces.ErrResourceExhausted)

	reserved, err := store.Reserved(ctx, testLocation(1))
	require.NoError(t, err)
	assert.Equal(t, 80, reserved)

	// Quota is shared across regions.
	err = store.Allocate(ctx, testLocation(2), 30)
	assert.ErrorIs(t, err, interfaces.ErrAllocationFailed)
	require.NoError(t, store.Allocate(ctx, testLocation(2), 20))
}

func TestMemoryStoreReadIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, testLogger())
	loc := testLocation(3)

	require.NoError(t, store.Allocate(ctx, loc, 8))

	data, err := store.Read(ctx, loc)
	require.NoError(t, err)
	data[0] = 0xff // mutating the returned slice must not touch the region

	fresh, err := store.Read(ctx, loc)
	require.NoError(t, err)
	assert.Zero(t, fresh[0])
}
