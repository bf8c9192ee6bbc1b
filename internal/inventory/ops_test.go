package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclabs/buttonshop/internal/models"
	"github.com/arclabs/buttonshop/internal/shoperr"
)

func diamond(count int) models.ItemDescriptor {
	return models.ItemDescriptor{Type: "minecraft:diamond", Count: count}
}

func TestCountMatching(t *testing.T) {
	c := NewMemoryContainer(9)
	c.SetSlot(0, diamond(10))
	c.SetSlot(3, models.ItemDescriptor{Type: "minecraft:emerald", Count: 5})
	c.SetSlot(7, diamond(22))

	assert.Equal(t, 32, CountMatching(c, diamond(1)))
	assert.Equal(t, 5, CountMatching(c, models.ItemDescriptor{Type: "minecraft:emerald", Count: 1}))
	assert.Equal(t, 0, CountMatching(c, models.ItemDescriptor{Type: "minecraft:gold_ingot", Count: 1}))
}

func TestRemoveSlotAscending(t *testing.T) {
	c := NewMemoryContainer(9)
	c.SetSlot(0, diamond(10))
	c.SetSlot(2, diamond(20))
	c.SetSlot(5, diamond(30))

	require.NoError(t, Remove(c, diamond(1), 25))

	// Slot 0 drained, slot 2 partially drained, slot 5 untouched.
	_, ok := c.Slot(0)
	assert.False(t, ok)
	s2, ok := c.Slot(2)
	require.True(t, ok)
	assert.Equal(t, 5, s2.Count)
	s5, ok := c.Slot(5)
	require.True(t, ok)
	assert.Equal(t, 30, s5.Count)
}

func TestRemoveInsufficientLeavesContainerUntouched(t *testing.T) {
	c := NewMemoryContainer(9)
	c.SetSlot(0, diamond(10))

	err := Remove(c, diamond(1), 11)
	assert.ErrorIs(t, err, shoperr.ErrInsufficientItems)

	s0, ok := c.Slot(0)
	require.True(t, ok)
	assert.Equal(t, 10, s0.Count)
}

func TestInsertMergesBeforeOpeningSlots(t *testing.T) {
	c := NewMemoryContainer(3)
	c.SetSlot(0, diamond(60))

	left, err := Insert(c, diamond(10))
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	s0, _ := c.Slot(0)
	assert.Equal(t, 64, s0.Count)
	s1, ok := c.Slot(1)
	require.True(t, ok)
	assert.Equal(t, 6, s1.Count)
}

func TestInsertSplitsIntoStacks(t *testing.T) {
	c := NewMemoryContainer(4)

	left, err := Insert(c, diamond(130))
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	counts := []int{}
	for i := 0; i < c.Slots(); i++ {
		if s, ok := c.Slot(i); ok {
			counts = append(counts, s.Count)
		}
	}
	assert.Equal(t, []int{64, 64, 2}, counts)
}

func TestInsertPartialFit(t *testing.T) {
	c := NewMemoryContainer(1)
	c.SetSlot(0, diamond(50))

	left, err := Insert(c, diamond(30))
	require.NoError(t, err)
	assert.Equal(t, 16, left)

	s0, _ := c.Slot(0)
	assert.Equal(t, 64, s0.Count)
}

func TestInsertZeroAbsorptionFails(t *testing.T) {
	c := NewMemoryContainer(1)
	c.SetSlot(0, models.ItemDescriptor{Type: "minecraft:emerald", Count: 64})

	left, err := Insert(c, diamond(10))
	assert.ErrorIs(t, err, shoperr.ErrContainerFull)
	assert.Equal(t, 10, left)

	s0, _ := c.Slot(0)
	assert.Equal(t, "minecraft:emerald", s0.Type)
	assert.Equal(t, 64, s0.Count)
}

func TestInsertDoesNotMergeDistinctItems(t *testing.T) {
	c := NewMemoryContainer(2)
	enchanted := models.ItemDescriptor{
		Type:     "minecraft:diamond_sword",
		Count:    1,
		Enchants: map[string]int{"minecraft:sharpness": 5},
	}
	c.SetSlot(0, models.ItemDescriptor{Type: "minecraft:diamond_sword", Count: 1})

	left, err := Insert(c, enchanted)
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	s1, ok := c.Slot(1)
	require.True(t, ok)
	assert.Equal(t, 5, s1.Enchants["minecraft:sharpness"])
}

func TestInsertAllCommitsOrNothing(t *testing.T) {
	c := NewMemoryContainer(1)
	items := []models.ItemDescriptor{diamond(64), diamond(10)}

	unplaced, err := InsertAll(c, items)
	assert.ErrorIs(t, err, shoperr.ErrContainerFull)
	assert.Equal(t, 10, unplaced)

	// Nothing committed.
	_, ok := c.Slot(0)
	assert.False(t, ok)

	c2 := NewMemoryContainer(2)
	unplaced, err = InsertAll(c2, items)
	require.NoError(t, err)
	assert.Equal(t, 0, unplaced)
	assert.Equal(t, 74, CountMatching(c2, diamond(1)))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("p1")
	assert.ErrorIs(t, err, shoperr.ErrContainerUnknown)

	c := NewMemoryContainer(9)
	c.SetSlot(0, diamond(3))
	r.Put("p1", c)

	got, err := r.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, 3, CountMatching(got, diamond(1)))

	r.Drop("p1")
	_, err = r.Get("p1")
	assert.ErrorIs(t, err, shoperr.ErrContainerUnknown)
}
