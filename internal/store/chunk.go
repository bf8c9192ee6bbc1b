// internal/store/chunk.go
package store

// ChunkSize is the world chunk edge length in blocks.
const ChunkSize = 16

// floorDiv divides rounding toward negative infinity. Block -1 lives in
// chunk -1, not chunk 0, so plain integer division is wrong for negative
// coordinates.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ChunkCoords maps a block coordinate pair to its chunk coordinates.
func ChunkCoords(x, z int) (int, int) {
	return floorDiv(x, ChunkSize), floorDiv(z, ChunkSize)
}
