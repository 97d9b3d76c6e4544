package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

const (
	// HeaderSize is the fixed container header:
	// authority(32) + entry_count(8 LE) + addressing_nonce(1) +
	// reserved_capacity(4 LE) = 45 bytes.
	HeaderSize = 45

	// InitialCapacity is the number of record slots reserved at creation.
	InitialCapacity = 50

	// GrowthIncrement is the extra record slots reserved beyond the exact
	// need whenever a capacity expansion triggers.
	GrowthIncrement = 10

	// MaxCapacity bounds a single container. The reserved_capacity header
	// field is 4 bytes, but growth is capped well below that to keep the
	// linear dedup scan tractable.
	MaxCapacity = 1 << 20
)

// SpaceFor returns the exact byte size of a container image reserving n
// record slots.
func SpaceFor(n int) int {
	return HeaderSize + n*RecordSize
}

// Container is the in-memory form of one owner's registry: header metadata
// plus the ordered entry sequence. Entries only ever grow; positions never
// change once assigned.
type Container struct {
	// Authority is the owner identity. Immutable after creation.
	Authority interfaces.OwnerID

	// Nonce is the addressing nonce chosen at creation. Immutable.
	Nonce uint8

	// Capacity is the number of record slots currently reserved. It is
	// always >= len(Entries) and never decreases.
	Capacity uint32

	// Entries holds the stored records in insertion order.
	Entries []MemoryEntry
}

// NewContainer initializes an empty container for an owner with the
// initial slot reservation.
func NewContainer(authority interfaces.OwnerID, nonce uint8) *Container {
	return &Container{
		Authority: authority,
		Nonce:     nonce,
		Capacity:  InitialCapacity,
		Entries:   make([]MemoryEntry, 0, InitialCapacity),
	}
}

// EntryCount returns the number of stored entries. The persisted
// entry_count field is derived from the sequence length, never tracked
// independently.
func (c *Container) EntryCount() uint64 {
	return uint64(len(c.Entries))
}

// Size returns the byte size of the container's encoded image, which
// always covers the full reservation.
func (c *Container) Size() int {
	return SpaceFor(int(c.Capacity))
}

// HasHash reports whether a content hash is already registered.
func (c *Container) HasHash(hash interfaces.ContentHash) bool {
	for _, e := range c.Entries {
		if e.ContentHash.Equal(hash) {
			return true
		}
	}
	return false
}

// Encode serializes the container to its byte-exact persisted image:
// header followed by entry_count records, with the unused slots up to
// Capacity zero-filled so the image length always equals Size().
func (c *Container) Encode() []byte {
	buf := make([]byte, c.Size())
	copy(buf[0:32], c.Authority[:])
	binary.LittleEndian.PutUint64(buf[32:40], c.EntryCount())
	buf[40] = c.Nonce
	binary.LittleEndian.PutUint32(buf[41:45], c.Capacity)

	for i, e := range c.Entries {
		rec := EncodeRecord(e)
		copy(buf[HeaderSize+i*RecordSize:], rec[:])
	}
	return buf
}

// DecodeContainer parses a stored container image. The image must be at
// least large enough for the header and the declared entry count; slack
// beyond the declared capacity is tolerated, a capacity below the entry
// count is not.
func DecodeContainer(data []byte) (*Container, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: image smaller than header (%d bytes)", interfaces.ErrCorruptedContainer, len(data))
	}

	var c Container
	copy(c.Authority[:], data[0:32])
	count := binary.LittleEndian.Uint64(data[32:40])
	c.Nonce = data[40]
	c.Capacity = binary.LittleEndian.Uint32(data[41:45])

	if uint64(c.Capacity) < count {
		return nil, fmt.Errorf("%w: capacity %d below entry count %d", interfaces.ErrCorruptedContainer, c.Capacity, count)
	}
	if c.Capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: capacity %d exceeds maximum %d", interfaces.ErrCorruptedContainer, c.Capacity, MaxCapacity)
	}
	if need := SpaceFor(int(count)); len(data) < need {
		return nil, fmt.Errorf("%w: image %d bytes, %d entries need %d", interfaces.ErrCorruptedContainer, len(data), count, need)
	}

	c.Entries = make([]MemoryEntry, 0, c.Capacity)
	for i := 0; i < int(count); i++ {
		off := HeaderSize + i*RecordSize
		e, err := DecodeRecord(data[off : off+RecordSize])
		if err != nil {
			return nil, err
		}
		c.Entries = append(c.Entries, e)
	}
	return &c, nil
}
