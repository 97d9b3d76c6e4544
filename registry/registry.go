// Package registry implements the operational core of the memory registry:
// create, append-with-dedup and verify against per-owner containers held in
// a registry store.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/benbjohnson/clock"

	"github.com/ruteri/memory-registry-backend/addressing"
	"github.com/ruteri/memory-registry-backend/interfaces"
	"github.com/ruteri/memory-registry-backend/layout"
)

// Service executes registry operations against a single registry store.
// Mutations on one owner's container are a single logical transaction: the
// duplicate check, capacity growth and entry write either all commit via
// one atomic store write, or the container stays byte-for-byte unchanged.
//
// The service assumes the runtime serializes mutations per container
// (single writer per owner); verifies are read-only and may run
// concurrently.
type Service struct {
	store  interfaces.RegistryStore
	policy interfaces.LocationPolicy
	clock  clock.Clock
	log    *slog.Logger
}

// NewService creates a registry service on top of the given store. The
// policy is the allocation layer's location validity rule used by the
// nonce search; the clock supplies entry timestamps.
func NewService(store interfaces.RegistryStore, policy interfaces.LocationPolicy, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		store:  store,
		policy: policy,
		clock:  clk,
		log:    log,
	}
}

// CreateRegistry allocates a new, empty container for the owner at its
// derived location, reserving space for the initial capacity. Fails with
// ErrAlreadyExists if a container already exists there.
func (s *Service) CreateRegistry(ctx context.Context, owner interfaces.OwnerID) error {
	nonce, loc, err := addressing.FindNonce(owner, s.policy)
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrAllocationFailed, err)
	}

	container := layout.NewContainer(owner, nonce)

	if err := s.store.Allocate(ctx, loc, container.Size()); err != nil {
		return err
	}
	if err := s.store.Write(ctx, loc, container.Encode()); err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	s.log.Info("Created memory registry",
		slog.String("owner", owner.String()),
		slog.String("location", loc.String()),
		slog.Int("nonce", int(nonce)),
		slog.Int("capacity", layout.InitialCapacity))
	return nil
}

// AppendEntry registers a content hash in the owner's container. The
// memory type is validated, the hash deduplicated against all stored
// entries, and capacity grown by the fixed increment when the append would
// exceed the reservation. On success the new entry is the last element; on
// any failure the container is unchanged.
//
// The importance tier is stored as-is: unlike the memory type it is not
// range-checked.
func (s *Service) AppendEntry(ctx context.Context, owner interfaces.OwnerID, hash interfaces.ContentHash, memoryType interfaces.MemoryType, tier interfaces.ImportanceTier, memoryID uint64, encrypted bool) error {
	if !memoryType.Valid() {
		return interfaces.ErrInvalidMemoryType
	}

	loc, container, err := s.load(ctx, owner)
	if err != nil {
		return err
	}

	if container.HasHash(hash) {
		return interfaces.ErrDuplicateHash
	}

	newCount := len(container.Entries) + 1
	if newCount > layout.MaxCapacity {
		return fmt.Errorf("%w: container at maximum capacity %d", interfaces.ErrResourceExhausted, layout.MaxCapacity)
	}
	if uint32(newCount) > container.Capacity {
		container.Capacity = uint32(min(newCount+layout.GrowthIncrement, layout.MaxCapacity))
	}

	container.Entries = append(container.Entries, layout.MemoryEntry{
		ContentHash:    hash,
		Timestamp:      s.clock.Now().Unix(),
		MemoryType:     memoryType,
		ImportanceTier: tier,
		MemoryID:       memoryID,
		Encrypted:      encrypted,
	})

	// Growth and append commit together or not at all.
	if err := s.store.Write(ctx, loc, container.Encode()); err != nil {
		return err
	}

	s.log.Debug("Registered memory entry",
		slog.String("owner", owner.String()),
		slog.String("content_hash", hash.String()),
		slog.String("memory_type", memoryType.String()),
		slog.Uint64("entry_count", container.EntryCount()))
	return nil
}

// VerifyEntry checks whether a content hash is registered in the owner's
// container. It never mutates the container and needs no authorization:
// registration is a public fact for anyone who can name the owner. Returns
// ErrHashNotFound on a miss.
func (s *Service) VerifyEntry(ctx context.Context, owner interfaces.OwnerID, hash interfaces.ContentHash) error {
	_, container, err := s.load(ctx, owner)
	if err != nil {
		return err
	}

	if !container.HasHash(hash) {
		return interfaces.ErrHashNotFound
	}
	return nil
}

// Registry returns a read-only snapshot of the owner's container.
func (s *Service) Registry(ctx context.Context, owner interfaces.OwnerID) (*layout.Container, error) {
	_, container, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return container, nil
}

// load resolves the owner's location, reads the container image and checks
// the authority precondition: the loaded container's authority must equal
// the asserted owner before any operation proceeds.
func (s *Service) load(ctx context.Context, owner interfaces.OwnerID) (interfaces.RegistryLocation, *layout.Container, error) {
	// The policy is pure, so the search re-derives the same nonce chosen
	// at creation; the stored nonce then confirms the location.
	nonce, loc, err := addressing.FindNonce(owner, s.policy)
	if err != nil {
		return interfaces.RegistryLocation{}, nil, fmt.Errorf("%w: %v", interfaces.ErrRegistryNotFound, err)
	}

	image, err := s.store.Read(ctx, loc)
	if err != nil {
		return loc, nil, err
	}

	container, err := layout.DecodeContainer(image)
	if err != nil {
		return loc, nil, err
	}

	if !container.Authority.Equal(owner) {
		return loc, nil, interfaces.ErrAuthorizationMismatch
	}
	if container.Nonce != nonce {
		return loc, nil, fmt.Errorf("%w: stored nonce %d does not re-derive location", interfaces.ErrCorruptedContainer, container.Nonce)
	}

	return loc, container, nil
}
