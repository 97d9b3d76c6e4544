// Package layout defines the byte-exact persisted layout of registry
// containers: a fixed-size header followed by fixed-stride record slots, so
// that the N-th record lives at HeaderSize + N*RecordSize and space
// requirements are exact arithmetic rather than per-record encoding.
package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

const (
	// RecordSize is the fixed stride of one encoded entry:
	// hash(32) + timestamp(8) + memory_type(1) + importance_tier(1) +
	// memory_id(8) + encrypted(1) = 51, padded to 56 for alignment.
	RecordSize = 56
)

// MemoryEntry is one registered memory record. All fields are immutable
// once stored.
type MemoryEntry struct {
	// ContentHash is the SHA-256 digest of the memory content.
	ContentHash interfaces.ContentHash

	// Timestamp is the unix time the entry was registered, taken once
	// from the ambient clock at insertion.
	Timestamp int64

	// MemoryType classifies the entry (0-3, validated at insertion).
	MemoryType interfaces.MemoryType

	// ImportanceTier ranks the entry (0-2 by convention, stored as-is).
	ImportanceTier interfaces.ImportanceTier

	// MemoryID is an external correlation id, opaque to the registry.
	MemoryID uint64

	// Encrypted flags content encrypted at rest. Informational only.
	Encrypted bool
}

// EncodeRecord serializes the entry to its fixed 56-byte representation.
// Padding bytes are zero-filled so encoded output is reproducible.
func EncodeRecord(e MemoryEntry) [RecordSize]byte {
	var buf [RecordSize]byte
	copy(buf[0:32], e.ContentHash[:])
	binary.LittleEndian.PutUint64(buf[32:40], uint64(e.Timestamp))
	buf[40] = byte(e.MemoryType)
	buf[41] = byte(e.ImportanceTier)
	binary.LittleEndian.PutUint64(buf[42:50], e.MemoryID)
	if e.Encrypted {
		buf[50] = 1
	}
	// buf[51:] stays zero: alignment padding up to the stride
	return buf
}

// DecodeRecord parses a fixed 56-byte record. Padding bytes are ignored.
func DecodeRecord(data []byte) (MemoryEntry, error) {
	if len(data) < RecordSize {
		return MemoryEntry{}, fmt.Errorf("%w: record truncated at %d bytes", interfaces.ErrCorruptedContainer, len(data))
	}

	var e MemoryEntry
	copy(e.ContentHash[:], data[0:32])
	e.Timestamp = int64(binary.LittleEndian.Uint64(data[32:40]))
	e.MemoryType = interfaces.MemoryType(data[40])
	e.ImportanceTier = interfaces.ImportanceTier(data[41])
	e.MemoryID = binary.LittleEndian.Uint64(data[42:50])
	e.Encrypted = data[50] != 0
	return e, nil
}
