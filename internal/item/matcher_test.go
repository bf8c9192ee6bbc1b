package item

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arclabs/buttonshop/internal/models"
)

func TestNormalizeEnchantID(t *testing.T) {
	assert.Equal(t, "minecraft:sharpness", NormalizeEnchantID("sharpness"))
	assert.Equal(t, "minecraft:sharpness", NormalizeEnchantID("Sharpness"))
	assert.Equal(t, "minecraft:sharpness", NormalizeEnchantID("minecraft:sharpness"))
	assert.Equal(t, "custom:blaze", NormalizeEnchantID("custom:blaze"))
	assert.Equal(t, "", NormalizeEnchantID("  "))
}

func TestMatchesTypeAndData(t *testing.T) {
	want := models.ItemDescriptor{Type: "minecraft:diamond", Count: 1, Data: 0}

	assert.True(t, Matches(want, models.ItemDescriptor{Type: "minecraft:diamond", Count: 64, Data: 0}))
	assert.False(t, Matches(want, models.ItemDescriptor{Type: "minecraft:emerald", Count: 1, Data: 0}))
	assert.False(t, Matches(want, models.ItemDescriptor{Type: "minecraft:diamond", Count: 1, Data: 3}))
}

func TestMatchesCountIgnored(t *testing.T) {
	want := models.ItemDescriptor{Type: "minecraft:stone", Count: 10}
	have := models.ItemDescriptor{Type: "minecraft:stone", Count: 1}
	assert.True(t, Matches(want, have))
}

func TestMatchesEnchantsExactLevel(t *testing.T) {
	want := models.ItemDescriptor{
		Type:     "minecraft:diamond_sword",
		Count:    1,
		Enchants: map[string]int{"sharpness": 5},
	}

	assert.True(t, Matches(want, models.ItemDescriptor{
		Type:     "minecraft:diamond_sword",
		Count:    1,
		Enchants: map[string]int{"minecraft:sharpness": 5},
	}))

	// Wrong level.
	assert.False(t, Matches(want, models.ItemDescriptor{
		Type:     "minecraft:diamond_sword",
		Count:    1,
		Enchants: map[string]int{"minecraft:sharpness": 4},
	}))

	// Missing a wanted enchant.
	assert.False(t, Matches(want, models.ItemDescriptor{
		Type:  "minecraft:diamond_sword",
		Count: 1,
	}))
}

func TestMatchesUnrequiredEnchantsIgnored(t *testing.T) {
	// Enchantments beyond the wanted set never break a match.
	want := models.ItemDescriptor{
		Type:     "minecraft:diamond_sword",
		Count:    1,
		Enchants: map[string]int{"sharpness": 5},
	}
	assert.True(t, Matches(want, models.ItemDescriptor{
		Type:     "minecraft:diamond_sword",
		Count:    1,
		Enchants: map[string]int{"minecraft:sharpness": 5, "minecraft:unbreaking": 3},
	}))

	// An empty wanted set leaves the stack unconstrained.
	plain := models.ItemDescriptor{Type: "minecraft:diamond_sword", Count: 1}
	assert.True(t, Matches(plain, models.ItemDescriptor{
		Type:     "minecraft:diamond_sword",
		Count:    1,
		Enchants: map[string]int{"minecraft:sharpness": 1},
	}))
	assert.True(t, Matches(plain, models.ItemDescriptor{Type: "minecraft:diamond_sword", Count: 1}))
}

type fakeStack struct {
	typeID   string
	count    int
	data     int
	name     string
	lore     []string
	enchants map[string]int
}

func (s fakeStack) TypeID() string      { return s.typeID }
func (s fakeStack) Count() int          { return s.count }
func (s fakeStack) DataValue() int      { return s.data }
func (s fakeStack) DisplayName() string { return s.name }
func (s fakeStack) Lore() []string      { return s.lore }
func (s fakeStack) EnchantLevel(id string) int {
	return s.enchants[id]
}

func TestDescriptorFromStackProbesKnownEnchants(t *testing.T) {
	d := DescriptorFromStack(fakeStack{
		typeID: "minecraft:diamond_sword",
		count:  1,
		name:   "Heirloom",
		lore:   []string{"Line"},
		enchants: map[string]int{
			"minecraft:sharpness": 5,
			"custom:unknown":      3,
		},
	})

	assert.Equal(t, "minecraft:diamond_sword", d.Type)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, []string{"Line"}, d.Lore)
	assert.Equal(t, 5, d.Enchants["minecraft:sharpness"])
	// Ids outside the probe table are invisible.
	_, ok := d.Enchants["custom:unknown"]
	assert.False(t, ok)
}

func TestMatchesLorePositional(t *testing.T) {
	want := models.ItemDescriptor{Type: "minecraft:paper", Count: 1, Lore: []string{"Deed", "Plot 7"}}

	assert.True(t, Matches(want, models.ItemDescriptor{Type: "minecraft:paper", Count: 1, Lore: []string{"Deed", "Plot 7"}}))
	assert.False(t, Matches(want, models.ItemDescriptor{Type: "minecraft:paper", Count: 1, Lore: []string{"Plot 7", "Deed"}}))
	assert.False(t, Matches(want, models.ItemDescriptor{Type: "minecraft:paper", Count: 1, Lore: []string{"Deed"}}))
	assert.False(t, Matches(want, models.ItemDescriptor{Type: "minecraft:paper", Count: 1}))
}

func TestMatchesEmptyLoreUnconstrained(t *testing.T) {
	want := models.ItemDescriptor{Type: "minecraft:paper", Count: 1}
	assert.True(t, Matches(want, models.ItemDescriptor{Type: "minecraft:paper", Count: 1, Lore: []string{"Deed", "Plot 7"}}))
}
