package resource

import (
	"github.com/trezcool/presensi/core"
)

// Replace discards the current items in favor of the returned collection (list and delete operations).
func Replace[T any](_ []T, data []T) []T {
	return copyItems(data)
}

// Single makes the slice hold exactly the fetched entity (get-by-id operations).
func Single[T any](_ []T, item T) []T {
	return []T{item}
}

// Append adds the created entity at the end (add operations).
func Append[T any](items []T, item T) []T {
	return append(items, item)
}

// Patch replaces, in place, the element sharing item's id.
// Items are returned unchanged when no element matches.
func Patch[T Entity](items []T, item T) []T {
	if i := IndexOf(items, item.Key()); i >= 0 {
		items[i] = item
	}
	return items
}

// IndexOf returns the position of the element with the given id, or -1.
func IndexOf[T Entity](items []T, id core.ID) int {
	if id.IsZero() {
		return -1
	}
	for i, item := range items {
		if item.Key() == id {
			return i
		}
	}
	return -1
}

// Find returns the element with the given id.
func Find[T Entity](items []T, id core.ID) (T, bool) {
	if i := IndexOf(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}
