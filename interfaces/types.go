// Package interfaces defines the core interfaces and types for the memory
// registry system. It provides the contract between different components
// without implementation details.
package interfaces

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// OwnerID is the opaque 32-byte public identifier of the party a registry
// belongs to. It is supplied by the authorization layer and is immutable
// once a registry has been created for it.
type OwnerID [32]byte

// NewOwnerIDFromBytes creates an owner identity from a raw byte slice.
func NewOwnerIDFromBytes(source []byte) (OwnerID, error) {
	if len(source) != 32 {
		return OwnerID{}, errors.New("invalid owner ID length: must be 32 bytes")
	}

	var id OwnerID
	copy(id[:], source)
	return id, nil
}

// NewOwnerIDFromHex creates an owner identity from a hex string.
func NewOwnerIDFromHex(source string) (OwnerID, error) {
	// Remove 0x prefix if present
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) != 64 {
		return OwnerID{}, errors.New("invalid owner ID length: hex string must be 64 characters")
	}

	idBytes, err := hex.DecodeString(clean)
	if err != nil {
		return OwnerID{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewOwnerIDFromBytes(idBytes)
}

// String returns the hex string representation of the owner identity.
func (id OwnerID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the raw 32-byte identity.
func (id OwnerID) Bytes() []byte {
	return id[:]
}

// Equal compares two owner identities for equality.
func (id OwnerID) Equal(other OwnerID) bool {
	return id == other
}

// ContentHash is a 32-byte SHA-256 digest identifying registered content.
// It is the dedup key within a single owner's registry.
type ContentHash [32]byte

// NewContentHashFromBytes creates a content hash from a raw byte slice.
func NewContentHashFromBytes(source []byte) (ContentHash, error) {
	if len(source) != 32 {
		return ContentHash{}, errors.New("invalid content hash length: must be 32 bytes")
	}

	var hash ContentHash
	copy(hash[:], source)
	return hash, nil
}

// NewContentHashFromHex creates a content hash from a hex string.
func NewContentHashFromHex(source string) (ContentHash, error) {
	// Remove 0x prefix if present
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) != 64 {
		return ContentHash{}, errors.New("invalid content hash length: hex string must be 64 characters")
	}

	hashBytes, err := hex.DecodeString(clean)
	if err != nil {
		return ContentHash{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewContentHashFromBytes(hashBytes)
}

// ComputeContentHash calculates the content hash of raw data. Callers
// normally submit pre-computed hashes; this is a convenience for clients.
func ComputeContentHash(data []byte) ContentHash {
	return ContentHash(sha256.Sum256(data))
}

// String returns hex representation.
func (h ContentHash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns the raw 32-byte hash.
func (h ContentHash) Bytes() []byte {
	return h[:]
}

// Equal compares two content hashes.
func (h ContentHash) Equal(other ContentHash) bool {
	return bytes.Equal(h[:], other[:])
}

// RegistryLocation is the 32-byte deterministic storage address of an
// owner's registry container, derived from the owner identity and an
// addressing nonce.
type RegistryLocation [32]byte

// String returns hex representation.
func (loc RegistryLocation) String() string {
	return hex.EncodeToString(loc[:])
}

// Bytes returns the raw 32-byte location.
func (loc RegistryLocation) Bytes() []byte {
	return loc[:]
}

// Equal compares two registry locations.
func (loc RegistryLocation) Equal(other RegistryLocation) bool {
	return loc == other
}

// MemoryType classifies a registered memory entry. Valid values are 0-3;
// Append rejects anything else.
type MemoryType uint8

const (
	// MemoryTypeEpisodic marks event-like memories.
	MemoryTypeEpisodic MemoryType = iota
	// MemoryTypeSemantic marks fact-like memories.
	MemoryTypeSemantic
	// MemoryTypeProcedural marks skill-like memories.
	MemoryTypeProcedural
	// MemoryTypeSelfModel marks self-descriptive memories.
	MemoryTypeSelfModel
)

// Valid reports whether the memory type is within the accepted range.
func (t MemoryType) Valid() bool {
	return t <= MemoryTypeSelfModel
}

// String returns the type name.
func (t MemoryType) String() string {
	switch t {
	case MemoryTypeEpisodic:
		return "episodic"
	case MemoryTypeSemantic:
		return "semantic"
	case MemoryTypeProcedural:
		return "procedural"
	case MemoryTypeSelfModel:
		return "self_model"
	default:
		return "unknown"
	}
}

// ImportanceTier ranks a memory entry's importance. Expected values are
// 0-2 but the append path stores the field as-is without range checks.
type ImportanceTier uint8

const (
	// TierLow for importance below 0.3.
	TierLow ImportanceTier = iota
	// TierMedium for importance between 0.3 and 0.7.
	TierMedium
	// TierHigh for importance above 0.7.
	TierHigh
)

// String returns the tier name.
func (t ImportanceTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}
