// Package storage provides registry store backends: the allocation layer
// that persists container regions at derived locations.
//
// A registry store keeps one raw byte region per registry location and
// owns the byte reservation for it. All backends guarantee:
//
//   - Allocation is create-once: a second Allocate at the same location
//     fails with interfaces.ErrAlreadyExists.
//   - Writes are all-or-nothing: a failed Write leaves the stored image
//     byte-for-byte unchanged.
//   - Reservations only grow. A Write larger than the reservation grows
//     it as part of the same operation; a Write smaller is rejected.
//
// # Store URI Format
//
// Registry stores are specified using URI format:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Supported URI schemes:
//
//   - mem://?max_bytes=1048576
//   - file:///var/lib/memory-registry/
//   - s3://bucket-name/prefix/?region=us-west-2
//   - vault://vault.example.com:8200/secret/memory-registry
//
// The in-memory store accepts an optional total byte quota, which is how
// tests drive the allocation-failure and growth-denial paths.
//
// Concurrency: per the registry's resource model, the runtime serializes
// mutations per container. Stores add their own coarse safety (the memory
// store locks, the file store renames atomically) but do not fence
// concurrent writers of the same owner.
package storage
