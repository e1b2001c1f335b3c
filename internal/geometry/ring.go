package geometry

import "fmt"

// Close returns the coordinates as a closed ring, appending a copy of the
// first coordinate unless the last already equals it by value. The input is
// never modified.
//
// Close panics when given fewer than MinRingVertices coordinates; callers are
// expected to run Validate first.
func Close(coords []Coordinate) Ring {
	if len(coords) < MinRingVertices {
		panic(fmt.Sprintf("geometry: Close needs at least %d coordinates, got %d", MinRingVertices, len(coords)))
	}
	closed := Ring(coords).Closed()
	n := len(coords)
	if !closed {
		n++
	}
	ring := make(Ring, n)
	copy(ring, coords)
	if !closed {
		ring[n-1] = coords[0]
	}
	return ring
}
