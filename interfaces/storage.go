package interfaces

import "context"

// RegistryStore is the allocation collaborator: it persists raw container
// images keyed by registry location and owns the byte reservation for each
// region. Implementations must make Write all-or-nothing; a failed Write
// leaves the stored image byte-for-byte unchanged.
type RegistryStore interface {
	// Allocate reserves a zero-filled region of the given size at the
	// location. Returns ErrAlreadyExists if a region is already present,
	// ErrAllocationFailed if the reservation cannot be satisfied.
	Allocate(ctx context.Context, loc RegistryLocation, size int) error

	// Read returns the full stored region. Returns ErrRegistryNotFound if
	// no region exists at the location.
	Read(ctx context.Context, loc RegistryLocation) ([]byte, error)

	// Write atomically replaces the stored region. A write larger than the
	// current reservation grows the reservation as part of the same
	// operation; ErrResourceExhausted is returned when the growth cannot
	// be satisfied, leaving the region untouched. Reservations never
	// shrink: writes smaller than the reservation are rejected.
	Write(ctx context.Context, loc RegistryLocation, data []byte) error

	// Reserved returns the current reservation size in bytes.
	Reserved(ctx context.Context, loc RegistryLocation) (int, error)

	// Available checks if the store is accessible.
	Available(ctx context.Context) bool

	// Name returns identifier for logging.
	Name() string

	// LocationURI returns URI identifying this store.
	LocationURI() string
}

// LocationPolicy is the allocation layer's validity rule for derived
// registry locations. The nonce search at creation time walks candidate
// nonces until it finds a location the policy accepts; the chosen nonce is
// persisted in the container header so no search is needed again.
type LocationPolicy interface {
	// ValidLocation reports whether a derived location may be allocated.
	ValidLocation(loc RegistryLocation) bool
}

// LocationPolicyFunc adapts a function to the LocationPolicy interface.
type LocationPolicyFunc func(loc RegistryLocation) bool

// ValidLocation calls f(loc).
func (f LocationPolicyFunc) ValidLocation(loc RegistryLocation) bool {
	return f(loc)
}
