// Package interfaces defines the shared types and contracts of the memory
// registry system.
//
// The memory registry is a content-addressed, append-only record store:
// each owner has exactly one registry container at a deterministically
// derived storage location, holding fixed-width entries keyed by a
// 32-byte content hash. Entries are never updated or deleted.
//
// # Core Types
//
// OwnerID names the party a registry belongs to:
//
//	type OwnerID [32]byte
//
// ContentHash is the dedup key within one owner's registry:
//
//	type ContentHash [32]byte
//
// RegistryLocation is the derived storage address of a container:
//
//	type RegistryLocation [32]byte
//
// # Collaborator Contracts
//
// RegistryStore is the allocation collaborator. It owns byte reservations
// for container regions and guarantees atomic, all-or-nothing writes.
// Growth of a reservation happens inside Write so that a capacity
// expansion and the entry append it serves commit as one unit.
//
// LocationPolicy is the allocation layer's validity rule for derived
// locations. The registry core only runs the bounded nonce search against
// it at creation time and persists the chosen nonce thereafter.
//
// # Error Taxonomy
//
// Sentinel errors group into validation (ErrInvalidMemoryType), conflict
// (ErrDuplicateHash, ErrAlreadyExists), query miss (ErrHashNotFound),
// authorization (ErrAuthorizationMismatch) and resource exhaustion
// (ErrResourceExhausted, ErrAllocationFailed). ErrHashNotFound is an
// expected outcome of Verify and must stay distinguishable from faults
// such as ErrRegistryNotFound or ErrStoreUnavailable.
package interfaces
