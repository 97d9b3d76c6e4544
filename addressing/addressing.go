// Package addressing maps an owner identity to the single canonical storage
// location of its registry container. The derivation is a pure function over
// a fixed namespace, the owner identity and a one-byte nonce; a bounded
// search at creation time picks the first nonce (descending from 255) whose
// derived location the allocation layer accepts. The chosen nonce is
// persisted in the container header so subsequent operations re-derive the
// location without searching.
package addressing

import (
	"errors"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

// Namespace is the fixed derivation domain separator for registry
// containers.
const Namespace = "memory-registry"

// ErrNoValidNonce is returned when no nonce in the search range yields a
// location the allocation policy accepts.
var ErrNoValidNonce = errors.New("no valid addressing nonce for owner")

// Derive computes the registry location for an owner and nonce:
// Keccak256(namespace || owner || nonce). Same inputs always yield the
// same location; distinct owners collide only with negligible probability.
func Derive(owner interfaces.OwnerID, nonce uint8) interfaces.RegistryLocation {
	hash := crypto.Keccak256Hash([]byte(Namespace), owner[:], []byte{nonce})
	return interfaces.RegistryLocation(hash)
}

// FindNonce searches nonces descending from 255 and returns the first one
// whose derived location the policy accepts, together with that location.
func FindNonce(owner interfaces.OwnerID, policy interfaces.LocationPolicy) (uint8, interfaces.RegistryLocation, error) {
	for nonce := 255; nonce >= 0; nonce-- {
		loc := Derive(owner, uint8(nonce))
		if policy.ValidLocation(loc) {
			return uint8(nonce), loc, nil
		}
	}
	return 0, interfaces.RegistryLocation{}, ErrNoValidNonce
}
