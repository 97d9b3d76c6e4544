// Package registry implements the operational core of the memory registry
// system: per-owner, append-only containers of content hashes with
// duplicate rejection and amortized capacity growth.
//
// The package exposes three operations over a Service:
//
//   - CreateRegistry allocates an owner's container at its deterministic
//     location, reserving space for an initial 50 entries.
//   - AppendEntry validates the memory type, scans for a duplicate hash,
//     grows the reservation by a fixed increment of 10 slots when needed,
//     and writes the new entry with a clock timestamp.
//   - VerifyEntry is a read-only scan answering "was this content hash
//     registered by this owner".
//
// Mutations are transactional. The duplicate check, the capacity growth
// and the entry write commit through one atomic store write; a denied
// growth surfaces as interfaces.ErrResourceExhausted with the container
// untouched.
//
// Containers are fully independent. There is no cross-container state, so
// operations on different owners never contend.
//
// Every operation first resolves owner to location through the addressing
// package and checks that the loaded container's authority equals the
// asserted owner. Verify deliberately has no caller authorization beyond
// that integrity precondition: registration is a publicly checkable fact.
package registry
