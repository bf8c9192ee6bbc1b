// internal/item/matcher.go

// Package item implements descriptor matching: deciding whether a concrete
// inventory stack counts as "the same item" as a shop listing's descriptor.
// Count never participates in matching; it is quantity, not identity.
package item

import (
	"github.com/arclabs/buttonshop/internal/models"
)

// Matches reports whether the stack satisfies the wanted descriptor.
//
// Type and data value must be equal. Enchantments and lore are requirements,
// not equality: every wanted enchantment must be present on the stack at the
// exact level, and non-empty wanted lore must be matched line for line in
// order. An empty wanted set leaves the stack unconstrained, and enchantments
// or lore beyond the wanted set never break a match.
func Matches(want, have models.ItemDescriptor) bool {
	if want.Type != have.Type {
		return false
	}
	if want.Data != have.Data {
		return false
	}
	if !enchantsSatisfy(want.Enchants, have.Enchants) {
		return false
	}
	return loreSatisfies(want.Lore, have.Lore)
}

func enchantsSatisfy(want, have map[string]int) bool {
	if len(want) == 0 {
		return true
	}
	haveNorm := NormalizeEnchants(have)
	for id, level := range NormalizeEnchants(want) {
		if haveNorm[id] != level {
			return false
		}
	}
	return true
}

func loreSatisfies(want, have []string) bool {
	if len(want) == 0 {
		return true
	}
	if len(want) != len(have) {
		return false
	}
	for i := range want {
		if want[i] != have[i] {
			return false
		}
	}
	return true
}
