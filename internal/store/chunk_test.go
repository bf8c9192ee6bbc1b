package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkCoords(t *testing.T) {
	cases := []struct {
		x, z           int
		chunkX, chunkZ int
	}{
		{0, 0, 0, 0},
		{15, 15, 0, 0},
		{16, 16, 1, 1},
		{-1, -1, -1, -1},
		{-16, -16, -1, -1},
		{-17, -17, -2, -2},
		{100, -5, 6, -1},
	}
	for _, tc := range cases {
		cx, cz := ChunkCoords(tc.x, tc.z)
		assert.Equal(t, tc.chunkX, cx, "x=%d", tc.x)
		assert.Equal(t, tc.chunkZ, cz, "z=%d", tc.z)
	}
}
