package utils

import (
	"maps"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[T any](m map[string]T) []string {
	return slices.Sorted(maps.Keys(m))
}
