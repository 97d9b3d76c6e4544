package interfaces

import "errors"

var (
	// ErrAlreadyExists is returned when a registry container already exists
	// at the derived location for an owner.
	ErrAlreadyExists = errors.New("registry already exists")

	// ErrAllocationFailed is returned when the allocation layer could not
	// reserve storage for a new registry container.
	ErrAllocationFailed = errors.New("registry allocation failed")

	// ErrInvalidMemoryType is returned when a memory type outside 0-3 is
	// submitted to the append operation.
	ErrInvalidMemoryType = errors.New("invalid memory type: must be 0-3")

	// ErrDuplicateHash is returned when a content hash is already
	// registered in the owner's registry.
	ErrDuplicateHash = errors.New("duplicate content hash: already registered")

	// ErrHashNotFound is returned by Verify when a content hash is not
	// present in the registry. It is an expected query miss, not a fault.
	ErrHashNotFound = errors.New("content hash not found in registry")

	// ErrAuthorizationMismatch is returned when the asserted owner does not
	// match the authority recorded in the loaded container.
	ErrAuthorizationMismatch = errors.New("owner does not match registry authority")

	// ErrResourceExhausted is returned when a capacity expansion could not
	// be satisfied by the allocation layer. No entry is written.
	ErrResourceExhausted = errors.New("registry storage exhausted")

	// ErrRegistryNotFound is returned when no container exists at the
	// derived location for an owner.
	ErrRegistryNotFound = errors.New("registry not found")

	// ErrCorruptedContainer is returned when a stored container image
	// cannot be decoded.
	ErrCorruptedContainer = errors.New("corrupted registry container")

	// ErrInvalidLocationURI is returned when a registry store URI is
	// malformed or its scheme is unsupported.
	ErrInvalidLocationURI = errors.New("invalid registry store location URI")

	// ErrStoreUnavailable is returned when a registry store backend is not
	// accessible.
	ErrStoreUnavailable = errors.New("registry store unavailable")
)
