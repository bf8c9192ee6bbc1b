package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemDescriptorValidate(t *testing.T) {
	d := ItemDescriptor{Type: "minecraft:diamond", Count: 1}
	assert.NoError(t, d.Validate())

	assert.Error(t, (&ItemDescriptor{Count: 1}).Validate())
	assert.Error(t, (&ItemDescriptor{Type: "minecraft:diamond", Count: 0}).Validate())
	assert.Error(t, (&ItemDescriptor{
		Type:     "minecraft:diamond_sword",
		Count:    1,
		Enchants: map[string]int{"minecraft:sharpness": 0},
	}).Validate())
}

func TestItemDescriptorCloneIsIndependent(t *testing.T) {
	d := ItemDescriptor{
		Type:     "minecraft:diamond_sword",
		Count:    1,
		Enchants: map[string]int{"minecraft:sharpness": 5},
		Lore:     []string{"Heirloom"},
	}
	c := d.Clone()
	c.Enchants["minecraft:sharpness"] = 1
	c.Lore[0] = "Fake"

	assert.Equal(t, 5, d.Enchants["minecraft:sharpness"])
	assert.Equal(t, "Heirloom", d.Lore[0])
}

func TestItemDescriptorColumnRoundTrip(t *testing.T) {
	d := ItemDescriptor{
		Type:           "minecraft:diamond_sword",
		TranslationKey: "item.diamond_sword.name",
		Name:           "Heirloom Blade",
		Count:          1,
		Data:           0,
		Enchants:       map[string]int{"minecraft:sharpness": 5},
		Lore:           []string{"Line one", "Line two"},
	}

	v, err := d.Value()
	require.NoError(t, err)

	var got ItemDescriptor
	require.NoError(t, got.Scan(v))
	assert.Equal(t, d, got)

	// The stored field names are the persisted contract.
	assert.Contains(t, v.(string), `"type_translation_key"`)
	assert.Contains(t, v.(string), `"enchants"`)
}

func TestDescriptorListScanEmpty(t *testing.T) {
	var l DescriptorList
	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)
	require.NoError(t, l.Scan(""))
	assert.Nil(t, l)

	l = DescriptorList{{Type: "minecraft:diamond", Count: 3}, {Type: "minecraft:emerald", Count: 2}}
	assert.Equal(t, 5, l.TotalCount())
}

func TestShouldDeactivate(t *testing.T) {
	sell := &ShopListing{Kind: ShopKindSell, Balance: 1, UnitPrice: 10}
	assert.False(t, sell.ShouldDeactivate())
	sell.Balance = 0
	assert.True(t, sell.ShouldDeactivate())

	buy := &ShopListing{Kind: ShopKindBuy, Balance: 10, UnitPrice: 10}
	assert.False(t, buy.ShouldDeactivate())
	buy.Balance = 9
	assert.True(t, buy.ShouldDeactivate())
}
