package ecs

import "unsafe"

// iface represents the internal memory layout of an interface value.
// For non-empty interfaces the first word is the itab instead of the type,
// the data word is in the same place.
type iface struct {
	tab  unsafe.Pointer
	data unsafe.Pointer
}
