package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/memory-registry-backend/addressing"
	"github.com/ruteri/memory-registry-backend/interfaces"
	"github.com/ruteri/memory-registry-backend/layout"
	"github.com/ruteri/memory-registry-backend/storage"
)

func testOwner(seed byte) interfaces.OwnerID {
	var owner interfaces.OwnerID
	for i := range owner {
		owner[i] = seed
	}
	return owner
}

func testHash(seed byte) interfaces.ContentHash {
	var hash interfaces.ContentHash
	hash[0] = seed
	hash[31] = ^seed
	return hash
}

// setupService builds a service over a quota'd in-memory store and a mock
// clock. maxBytes zero means unbounded.
func setupService(t *testing.T, maxBytes int) (*Service, *storage.MemoryStore, *clock.Mock) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewMemoryStore(maxBytes, logger)
	mockClock := clock.NewMock()
	mockClock.Set(time.Unix(1700000000, 0))

	svc := NewService(store, storage.DefaultLocationPolicy(), mockClock, logger)
	return svc, store, mockClock
}

// locationOf resolves the owner's derived location the same way the
// service does.
func locationOf(t *testing.T, owner interfaces.OwnerID) interfaces.RegistryLocation {
	t.Helper()
	_, loc, err := addressing.FindNonce(owner, storage.DefaultLocationPolicy())
	require.NoError(t, err)
	return loc
}

func TestCreateRegistry(t *testing.T) {
	svc, store, _ := setupService(t, 0)
	ctx := context.Background()
	owner := testOwner(1)

	require.NoError(t, svc.CreateRegistry(ctx, owner))

	// Initial reservation covers header plus 50 record slots.
	reserved, err := store.Reserved(ctx, locationOf(t, owner))
	require.NoError(t, err)
	assert.Equal(t, layout.SpaceFor(layout.InitialCapacity), reserved)

	container, err := svc.Registry(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, owner, container.Authority)
	assert.Zero(t, container.EntryCount())
	assert.EqualValues(t, layout.InitialCapacity, container.Capacity)

	// Second creation for the same owner fails.
	err = svc.CreateRegistry(ctx, owner)
	assert.ErrorIs(t, err, interfaces.ErrAlreadyExists)
}

func TestCreateRegistry_AllocationDenied(t *testing.T) {
	// Quota below even one container header.
	svc, _, _ := setupService(t, 10)

	err := svc.CreateRegistry(context.Background(), testOwner(1))
	assert.ErrorIs(t, err, interfaces.ErrAllocationFailed)
}

func TestAppendEntry_DuplicateHash(t *testing.T) {
	svc, store, _ := setupService(t, 0)
	ctx := context.Background()
	owner := testOwner(2)
	loc := locationOf(t, owner)

	require.NoError(t, svc.CreateRegistry(ctx, owner))
	require.NoError(t, svc.AppendEntry(ctx, owner, testHash(1), 0, interfaces.TierMedium, 42, false))

	before, err := store.Read(ctx, loc)
	require.NoError(t, err)

	// Same hash with entirely different metadata is still a duplicate.
	err = svc.AppendEntry(ctx, owner, testHash(1), 2, interfaces.TierLow, 99, true)
	assert.ErrorIs(t, err, interfaces.ErrDuplicateHash)

	after, err := store.Read(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed append must leave the container byte-for-byte unchanged")

	container, err := svc.Registry(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, container.EntryCount())
}

func TestAppendEntry_InvalidMemoryType(t *testing.T) {
	svc, store, _ := setupService(t, 0)
	ctx := context.Background()
	owner := testOwner(3)
	loc := locationOf(t, owner)

	require.NoError(t, svc.CreateRegistry(ctx, owner))
	before, err := store.Read(ctx, loc)
	require.NoError(t, err)

	err = svc.AppendEntry(ctx, owner, testHash(2), 4, interfaces.TierLow, 1, false)
	assert.ErrorIs(t, err, interfaces.ErrInvalidMemoryType)

	after, err := store.Read(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	container, err := svc.Registry(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, container.EntryCount())
}

func TestAppendEntry_TierNotValidated(t *testing.T) {
	svc, _, _ := setupService(t, 0)
	ctx := context.Background()
	owner := testOwner(4)

	require.NoError(t, svc.CreateRegistry(ctx, owner))

	// Out-of-range importance tiers are stored as-is.
	require.NoError(t, svc.AppendEntry(ctx, owner, testHash(3), 1, interfaces.ImportanceTier(9), 7, false))

	container, err := svc.Registry(ctx, owner)
	require.NoError(t, err)
	require.EqualValues(t, 1, container.EntryCount())
	assert.EqualValues(t, 9, container.Entries[0].ImportanceTier)
}

func TestAppendEntry_OrderCountAndTimestamps(t *testing.T) {
	svc, _, mockClock := setupService(t, 0)
	ctx := context.Background()
	owner := testOwner(5)

	require.NoError(t, svc.CreateRegistry(ctx, owner))

	const k = 10
	for i := byte(0); i < k; i++ {
		mockClock.Add(time.Minute)
		require.NoError(t, svc.AppendEntry(ctx, owner, testHash(i), interfaces.MemoryType(i%4), interfaces.TierMedium, uint64(i), i%2 == 0))
	}

	container, err := svc.Registry(ctx, owner)
	require.NoError(t, err)
	require.EqualValues(t, k, container.EntryCount())
	require.Len(t, container.Entries, k)

	base := time.Unix(1700000000, 0)
	for i := 0; i < k; i++ {
		e := container.Entries[i]
		assert.Equal(t, testHash(byte(i)), e.ContentHash, "entry %d out of order", i)
		assert.EqualValues(t, i, e.MemoryID)
		assert.Equal(t, base.Add(time.Duration(i+1)*time.Minute).Unix(), e.Timestamp)
	}
}

func TestAppendEntry_GrowthAtCapacity(t *testing.T) {
	svc, store, _ := setupService(t, 0)
	ctx := context.Background()
	owner := testOwner(6)
	loc := locationOf(t, owner)

	require.NoError(t, svc.CreateRegistry(ctx, owner))

	prevReserved := 0
	for i := 0; i < layout.InitialCapacity; i++ {
		require.NoError(t, svc.AppendEntry(ctx, owner, testHash(byte(i)), 0, interfaces.TierLow, uint64(i), false))

		reserved, err := store.Reserved(ctx, loc)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, reserved, prevReserved, "reservation must never shrink")
		assert.GreaterOrEqual(t, reserved, layout.SpaceFor(i+1))
		prevReserved = reserved
	}

	// Still the initial allocation while within capacity.
	assert.Equal(t, layout.SpaceFor(layout.InitialCapacity), prevReserved)

	// The 51st distinct hash triggers expansion to 51+10 slots.
	var extra interfaces.ContentHash
	extra[1] = 0xee
	require.NoError(t, svc.AppendEntry(ctx, owner, extra, 0, interfaces.TierLow, 51, false))

	container, err := svc.Registry(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, layout.InitialCapacity+1, container.EntryCount())
	assert.EqualValues(t, layout.InitialCapacity+1+layout.GrowthIncrement, container.Capacity)

	reserved, err := store.Reserved(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, layout.SpaceFor(layout.InitialCapacity+1+layout.GrowthIncrement), reserved)
}

func TestAppendEntry_GrowthDenied(t *testing.T) {
	// Quota fits exactly the initial allocation: the 51st append needs a
	// larger region and must fail without writing anything.
	svc, store, _ := setupService(t, layout.SpaceFor(layout.InitialCapacity))
	ctx := context.Background()
	owner := testOwner(7)
	loc := locationOf(t, owner)

	require.NoError(t, svc.CreateRegistry(ctx, owner))
	for i := 0; i < layout.InitialCapacity; i++ {
		require.NoError(t, svc.AppendEntry(ctx, owner, testHash(byte(i)), 0, interfaces.TierLow, uint64(i), false))
	}

	before, err := store.Read(ctx, loc)
	require.NoError(t, err)

	var extra interfaces.ContentHash
	extra[1] = 0xee
	err = svc.AppendEntry(ctx, owner, extra, 0, interfaces.TierLow, 51, false)
	assert.ErrorIs(t, err, interfaces.ErrResourceExhausted)

	after, err := store.Read(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, before, after, "denied growth must not leave a partial append")

	container, err := svc.Registry(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, layout.InitialCapacity, container.EntryCount())
}

func TestVerifyEntry(t *testing.T) {
	svc, store, _ := setupService(t, 0)
	ctx := context.Background()
	owner := testOwner(8)
	loc := locationOf(t, owner)

	require.NoError(t, svc.CreateRegistry(ctx, owner))
	require.NoError(t, svc.AppendEntry(ctx, owner, testHash(1), 0, interfaces.TierMedium, 42, false))

	before, err := store.Read(ctx, loc)
	require.NoError(t, err)

	assert.NoError(t, svc.VerifyEntry(ctx, owner, testHash(1)))
	assert.ErrorIs(t, svc.VerifyEntry(ctx, owner, testHash(9)), interfaces.ErrHashNotFound)

	after, err := store.Read(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, before, after, "verify must never mutate the container")
}

func TestVerifyEntry_MissingRegistry(t *testing.T) {
	svc, _, _ := setupService(t, 0)

	err := svc.VerifyEntry(context.Background(), testOwner(9), testHash(1))
	assert.ErrorIs(t, err, interfaces.ErrRegistryNotFound)
}

func TestAuthorizationMismatch(t *testing.T) {
	svc, store, _ := setupService(t, 0)
	ctx := context.Background()
	owner := testOwner(10)
	loc := locationOf(t, owner)

	require.NoError(t, svc.CreateRegistry(ctx, owner))

	// Overwrite the stored authority, simulating a container that does not
	// belong to the asserted owner.
	image, err := store.Read(ctx, loc)
	require.NoError(t, err)
	intruder := testOwner(11)
	copy(image[0:32], intruder[:])
	require.NoError(t, store.Write(ctx, loc, image))

	err = svc.AppendEntry(ctx, owner, testHash(1), 0, interfaces.TierLow, 1, false)
	assert.ErrorIs(t, err, interfaces.ErrAuthorizationMismatch)

	err = svc.VerifyEntry(ctx, owner, testHash(1))
	assert.ErrorIs(t, err, interfaces.ErrAuthorizationMismatch)
}

func TestNonceMismatch(t *testing.T) {
	svc, store, _ := setupService(t, 0)
	ctx := context.Background()
	owner := testOwner(20)
	loc := locationOf(t, owner)

	require.NoError(t, svc.CreateRegistry(ctx, owner))

	// Corrupt the stored nonce so it no longer re-derives the container's
	// location.
	image, err := store.Read(ctx, loc)
	require.NoError(t, err)
	image[40] ^= 0x01
	require.NoError(t, store.Write(ctx, loc, image))

	err = svc.AppendEntry(ctx, owner, testHash(1), 0, interfaces.TierLow, 1, false)
	assert.ErrorIs(t, err, interfaces.ErrCorruptedContainer)

	err = svc.VerifyEntry(ctx, owner, testHash(1))
	assert.ErrorIs(t, err, interfaces.ErrCorruptedContainer)
}

func TestOwnersAreIndependent(t *testing.T) {
	svc, _, _ := setupService(t, 0)
	ctx := context.Background()
	ownerA := testOwner(12)
	ownerB := testOwner(13)

	require.NoError(t, svc.CreateRegistry(ctx, ownerA))
	require.NoError(t, svc.CreateRegistry(ctx, ownerB))

	// The same hash may exist in both registries; uniqueness is per-owner.
	require.NoError(t, svc.AppendEntry(ctx, ownerA, testHash(1), 0, interfaces.TierLow, 1, false))
	require.NoError(t, svc.AppendEntry(ctx, ownerB, testHash(1), 0, interfaces.TierLow, 2, false))

	assert.NoError(t, svc.VerifyEntry(ctx, ownerA, testHash(1)))
	assert.ErrorIs(t, svc.VerifyEntry(ctx, ownerB, testHash(2)), interfaces.ErrHashNotFound)
}

func TestService_StoreWriteFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockStore := new(MockRegistryStore)
	svc := NewService(mockStore, storage.DefaultLocationPolicy(), clock.NewMock(), logger)

	owner := testOwner(14)

	mockStore.On("Allocate", mock.Anything, mock.Anything, layout.SpaceFor(layout.InitialCapacity)).Return(nil)
	mockStore.On("Write", mock.Anything, mock.Anything, mock.Anything).Return(interfaces.ErrResourceExhausted)

	err := svc.CreateRegistry(context.Background(), owner)
	assert.ErrorIs(t, err, interfaces.ErrResourceExhausted)
	mockStore.AssertExpectations(t)
}
