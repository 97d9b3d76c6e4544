package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

// MemoryStore implements an in-memory registry store. It is used in tests
// and single-process deployments. An optional byte quota lets tests
// exercise allocation and growth denial paths.
type MemoryStore struct {
	mu       sync.RWMutex
	regions  map[interfaces.RegistryLocation][]byte
	used     int
	maxBytes int

	log *slog.Logger
}

// NewMemoryStore creates an in-memory registry store. maxBytes bounds the
// total reserved bytes across all regions; zero means unbounded.
func NewMemoryStore(maxBytes int, log *slog.Logger) *MemoryStore {
	return &MemoryStore{
		regions:  make(map[interfaces.RegistryLocation][]byte),
		maxBytes: maxBytes,
		log:      log,
	}
}

// Allocate reserves a zero-filled region at the location.
func (s *MemoryStore) Allocate(ctx context.Context, loc interfaces.RegistryLocation, size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.regions[loc]; ok {
		return interfaces.ErrAlreadyExists
	}
	if s.maxBytes > 0 && s.used+size > s.maxBytes {
		return fmt.Errorf("%w: quota %d bytes, %d in use, %d requested", interfaces.ErrAllocationFailed, s.maxBytes, s.used, size)
	}

	s.regions[loc] = make([]byte, size)
	s.used += size

	s.log.Debug("Allocated registry region",
		slog.String("location", loc.String()),
		slog.Int("size", size))
	return nil
}

// Read returns a copy of the full stored region.
func (s *MemoryStore) Read(ctx context.Context, loc interfaces.RegistryLocation) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	region, ok := s.regions[loc]
	if !ok {
		return nil, interfaces.ErrRegistryNotFound
	}

	out := make([]byte, len(region))
	copy(out, region)
	return out, nil
}

// Write atomically replaces the stored region, growing the reservation
// when the image is larger than the current one.
func (s *MemoryStore) Write(ctx context.Context, loc interfaces.RegistryLocation, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	region, ok := s.regions[loc]
	if !ok {
		return interfaces.ErrRegistryNotFound
	}
	if len(data) < len(region) {
		return fmt.Errorf("write below reservation: region %d bytes, image %d", len(region), len(data))
	}
	if grow := len(data) - len(region); grow > 0 && s.maxBytes > 0 && s.used+grow > s.maxBytes {
		return fmt.Errorf("%w: quota %d bytes, %d in use, %d more requested", interfaces.ErrResourceExhausted, s.maxBytes, s.used, grow)
	}

	out := make([]byte, len(data))
	copy(out, data)
	s.used += len(data) - len(region)
	s.regions[loc] = out
	return nil
}

// Reserved returns the current reservation size in bytes.
func (s *MemoryStore) Reserved(ctx context.Context, loc interfaces.RegistryLocation) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	region, ok := s.regions[loc]
	if !ok {
		return 0, interfaces.ErrRegistryNotFound
	}
	return len(region), nil
}

// Available always reports true for the in-memory store.
func (s *MemoryStore) Available(ctx context.Context) bool {
	return true
}

// Name returns a unique identifier for this store.
func (s *MemoryStore) Name() string {
	return "memory"
}

// LocationURI returns the URI that identifies this store.
func (s *MemoryStore) LocationURI() string {
	return "mem://"
}
