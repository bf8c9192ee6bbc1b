// internal/item/enchant.go
package item

import (
	"strings"

	"github.com/arclabs/buttonshop/internal/models"
)

// Bedrock hosts expose no way to enumerate the enchantments on a stack, only
// to probe a stack for a known id. This table is the probe set: every vanilla
// enchantment id as of 1.21. Unknown ids on a stack are invisible to matching.
var knownEnchants = []string{
	"minecraft:aqua_affinity",
	"minecraft:bane_of_arthropods",
	"minecraft:binding",
	"minecraft:blast_protection",
	"minecraft:breach",
	"minecraft:channeling",
	"minecraft:density",
	"minecraft:depth_strider",
	"minecraft:efficiency",
	"minecraft:feather_falling",
	"minecraft:fire_aspect",
	"minecraft:fire_protection",
	"minecraft:flame",
	"minecraft:fortune",
	"minecraft:frost_walker",
	"minecraft:impaling",
	"minecraft:infinity",
	"minecraft:knockback",
	"minecraft:looting",
	"minecraft:loyalty",
	"minecraft:luck_of_the_sea",
	"minecraft:lure",
	"minecraft:mending",
	"minecraft:multishot",
	"minecraft:piercing",
	"minecraft:power",
	"minecraft:projectile_protection",
	"minecraft:protection",
	"minecraft:punch",
	"minecraft:quick_charge",
	"minecraft:respiration",
	"minecraft:riptide",
	"minecraft:sharpness",
	"minecraft:silk_touch",
	"minecraft:smite",
	"minecraft:soul_speed",
	"minecraft:swift_sneak",
	"minecraft:thorns",
	"minecraft:unbreaking",
	"minecraft:vanishing",
	"minecraft:wind_burst",
}

// NormalizeEnchantID canonicalizes an enchantment id to its namespaced,
// lower-case form so "Sharpness" and "minecraft:sharpness" compare equal.
func NormalizeEnchantID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return id
	}
	if !strings.Contains(id, ":") {
		id = "minecraft:" + id
	}
	return id
}

// NormalizeEnchants returns a copy of the map keyed by canonical ids. A nil
// input yields nil.
func NormalizeEnchants(enchants map[string]int) map[string]int {
	if enchants == nil {
		return nil
	}
	out := make(map[string]int, len(enchants))
	for id, level := range enchants {
		out[NormalizeEnchantID(id)] = level
	}
	return out
}

// KnownEnchantIDs returns the probe table. Callers must not mutate it.
func KnownEnchantIDs() []string {
	return knownEnchants
}

// RegisterEnchantIDs extends the probe table at startup with ids from
// modded hosts. Not safe to call once matching has begun.
func RegisterEnchantIDs(ids ...string) {
	for _, id := range ids {
		id = NormalizeEnchantID(id)
		if id == "" {
			continue
		}
		known := false
		for _, k := range knownEnchants {
			if k == id {
				known = true
				break
			}
		}
		if !known {
			knownEnchants = append(knownEnchants, id)
		}
	}
}

// StackMeta is the engine's view of a host item stack: the host can answer
// point probes about a stack but cannot enumerate its enchantments.
type StackMeta interface {
	TypeID() string
	Count() int
	DataValue() int
	DisplayName() string
	Lore() []string
	// EnchantLevel reports the level of one enchantment id, 0 if absent.
	EnchantLevel(id string) int
}

// DescriptorFromStack builds a descriptor by probing the stack with every
// known enchantment id. Enchantments outside the probe table are invisible.
func DescriptorFromStack(s StackMeta) models.ItemDescriptor {
	d := models.ItemDescriptor{
		Type:  s.TypeID(),
		Name:  s.DisplayName(),
		Count: s.Count(),
		Data:  s.DataValue(),
	}
	if lore := s.Lore(); len(lore) > 0 {
		d.Lore = append([]string(nil), lore...)
	}
	for _, id := range knownEnchants {
		if level := s.EnchantLevel(id); level > 0 {
			if d.Enchants == nil {
				d.Enchants = make(map[string]int)
			}
			d.Enchants[id] = level
		}
	}
	return d
}
