package storage

import "github.com/ruteri/memory-registry-backend/interfaces"

// DefaultLocationPolicy is the allocation layer's standard validity rule
// for derived registry locations: any location is acceptable except the
// all-zero one, which is reserved as a sentinel.
func DefaultLocationPolicy() interfaces.LocationPolicy {
	return interfaces.LocationPolicyFunc(func(loc interfaces.RegistryLocation) bool {
		return loc != interfaces.RegistryLocation{}
	})
}
