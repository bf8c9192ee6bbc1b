// internal/inventory/container.go

// Package inventory models actor containers (player inventories, chests) as
// slot-addressed stacks and implements the extract and insert primitives the
// trade processor runs against them. The game bridge pushes container
// snapshots; the engine mutates its copy and returns the result for the
// bridge to apply.
package inventory

import (
	"sync"

	"github.com/arclabs/buttonshop/internal/models"
	"github.com/arclabs/buttonshop/internal/shoperr"
)

// MaxStackSize is the hard per-slot stack cap. Stackability quirks of
// individual item types are the bridge's problem; the engine never merges
// beyond this.
const MaxStackSize = 64

// DefaultSlotCount matches a player inventory (hotbar plus main grid).
const DefaultSlotCount = 36

// Container is a slot-addressed item holder. Slot indexes are zero-based and
// dense; an empty slot reports ok=false. Implementations are not required to
// be safe for concurrent use: the listing locks serialize trades per shop,
// and the bridge dispatches one world event per actor at a time, so no two
// operations touch the same actor's container concurrently.
type Container interface {
	Slots() int
	Slot(i int) (models.ItemDescriptor, bool)
	SetSlot(i int, d models.ItemDescriptor)
	ClearSlot(i int)
}

// MemoryContainer is the in-process Container the engine keeps per actor,
// rebuilt from bridge snapshots.
type MemoryContainer struct {
	slots []*models.ItemDescriptor
}

// NewMemoryContainer returns an empty container with n slots. n <= 0 falls
// back to DefaultSlotCount.
func NewMemoryContainer(n int) *MemoryContainer {
	if n <= 0 {
		n = DefaultSlotCount
	}
	return &MemoryContainer{slots: make([]*models.ItemDescriptor, n)}
}

// FromSnapshot builds a container from a slot-indexed snapshot. Nil entries
// are empty slots. Descriptors are cloned so the snapshot owner keeps its
// copy.
func FromSnapshot(stacks []*models.ItemDescriptor, slotCount int) *MemoryContainer {
	if slotCount < len(stacks) {
		slotCount = len(stacks)
	}
	c := NewMemoryContainer(slotCount)
	for i, d := range stacks {
		if d == nil || d.Count <= 0 {
			continue
		}
		clone := d.Clone()
		c.slots[i] = &clone
	}
	return c
}

func (c *MemoryContainer) Slots() int { return len(c.slots) }

func (c *MemoryContainer) Slot(i int) (models.ItemDescriptor, bool) {
	if i < 0 || i >= len(c.slots) || c.slots[i] == nil {
		return models.ItemDescriptor{}, false
	}
	return *c.slots[i], true
}

func (c *MemoryContainer) SetSlot(i int, d models.ItemDescriptor) {
	if i < 0 || i >= len(c.slots) {
		return
	}
	c.slots[i] = &d
}

func (c *MemoryContainer) ClearSlot(i int) {
	if i < 0 || i >= len(c.slots) {
		return
	}
	c.slots[i] = nil
}

// Snapshot returns a slot-indexed copy suitable for shipping back to the
// bridge. Empty slots are nil.
func (c *MemoryContainer) Snapshot() []*models.ItemDescriptor {
	out := make([]*models.ItemDescriptor, len(c.slots))
	for i, d := range c.slots {
		if d == nil {
			continue
		}
		clone := d.Clone()
		out[i] = &clone
	}
	return out
}

// Clone deep-copies the container. The trade processor clones before a
// mutating pass so a failed leg can discard its work.
func (c *MemoryContainer) Clone() *MemoryContainer {
	return FromSnapshot(c.slots, len(c.slots))
}

// Registry holds the latest container per actor id. The bridge replaces an
// actor's entry on every snapshot push; trades read and write through it.
type Registry struct {
	mu         sync.RWMutex
	containers map[string]*MemoryContainer
}

func NewRegistry() *Registry {
	return &Registry{containers: make(map[string]*MemoryContainer)}
}

// Put replaces the actor's container.
func (r *Registry) Put(actorID string, c *MemoryContainer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.containers[actorID] = c
}

// Get returns the actor's container or ErrContainerUnknown if the bridge has
// never pushed one.
func (r *Registry) Get(actorID string) (*MemoryContainer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.containers[actorID]
	if !ok {
		return nil, shoperr.ErrContainerUnknown
	}
	return c, nil
}

// Drop forgets the actor's container, typically on disconnect.
func (r *Registry) Drop(actorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.containers, actorID)
}
