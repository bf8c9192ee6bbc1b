// internal/inventory/ops.go
package inventory

import (
	"github.com/arclabs/buttonshop/internal/item"
	"github.com/arclabs/buttonshop/internal/models"
	"github.com/arclabs/buttonshop/internal/shoperr"
)

// CountMatching sums the units across all slots whose stack matches the
// wanted descriptor.
func CountMatching(c Container, want models.ItemDescriptor) int {
	total := 0
	for i := 0; i < c.Slots(); i++ {
		stack, ok := c.Slot(i)
		if !ok {
			continue
		}
		if item.Matches(want, stack) {
			total += stack.Count
		}
	}
	return total
}

// Remove extracts count matching units, walking slots in ascending order and
// draining partial stacks as it goes. The container is checked up front and
// left untouched when it cannot cover the full amount; extraction is all or
// nothing.
func Remove(c Container, want models.ItemDescriptor, count int) error {
	if count <= 0 {
		return shoperr.ErrInvalidQuantity
	}
	if CountMatching(c, want) < count {
		return shoperr.ErrInsufficientItems
	}
	remaining := count
	for i := 0; i < c.Slots() && remaining > 0; i++ {
		stack, ok := c.Slot(i)
		if !ok || !item.Matches(want, stack) {
			continue
		}
		if stack.Count <= remaining {
			remaining -= stack.Count
			c.ClearSlot(i)
			continue
		}
		stack.Count -= remaining
		remaining = 0
		c.SetSlot(i, stack)
	}
	return nil
}

// Insert places the descriptor's units into the container, topping up
// matching stacks to MaxStackSize before opening empty slots. It returns the
// number of units that did not fit. When the container absorbs nothing at
// all, it is left untouched and ErrContainerFull is returned; a partial fit
// is not an error, the caller decides what to do with the remainder.
func Insert(c Container, d models.ItemDescriptor) (int, error) {
	if d.Count <= 0 {
		return 0, shoperr.ErrInvalidQuantity
	}
	remaining := d.Count

	// Merge into existing matching stacks first.
	for i := 0; i < c.Slots() && remaining > 0; i++ {
		stack, ok := c.Slot(i)
		if !ok || !item.Matches(d, stack) {
			continue
		}
		room := MaxStackSize - stack.Count
		if room <= 0 {
			continue
		}
		take := room
		if take > remaining {
			take = remaining
		}
		stack.Count += take
		remaining -= take
		c.SetSlot(i, stack)
	}

	// Then fill empty slots a stack at a time.
	for i := 0; i < c.Slots() && remaining > 0; i++ {
		if _, ok := c.Slot(i); ok {
			continue
		}
		take := MaxStackSize
		if take > remaining {
			take = remaining
		}
		c.SetSlot(i, d.WithCount(take))
		remaining -= take
	}

	if remaining == d.Count {
		return remaining, shoperr.ErrContainerFull
	}
	return remaining, nil
}

// InsertAll places every descriptor or none: the pass runs on a scratch copy
// and commits only when everything fits. On failure the original container is
// untouched and the total unplaced count is reported.
func InsertAll(c *MemoryContainer, items []models.ItemDescriptor) (int, error) {
	scratch := c.Clone()
	unplaced := 0
	for _, d := range items {
		left, err := Insert(scratch, d)
		if err != nil && left == d.Count {
			unplaced += left
			continue
		}
		unplaced += left
	}
	if unplaced > 0 {
		return unplaced, shoperr.ErrContainerFull
	}
	*c = *scratch
	return 0, nil
}
