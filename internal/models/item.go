// internal/models/item.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ItemDescriptor is the canonical record of "what item, how many, with what
// enchantments and lore". It is both the in-memory matching unit and the
// persisted wire format for listing items and collected stock, so the JSON
// field names are part of the on-disk contract and must not change.
type ItemDescriptor struct {
	Type           string         `json:"type"`
	TranslationKey string         `json:"type_translation_key,omitempty"`
	Name           string         `json:"name,omitempty"`
	Count          int            `json:"count"`
	Data           int            `json:"data"`
	Enchants       map[string]int `json:"enchants,omitempty"`
	Lore           []string       `json:"lore,omitempty"`
	CollectedAt    *time.Time     `json:"collect_time,omitempty"`
}

// Validate enforces the descriptor invariants: a positive count and strictly
// positive enchantment levels.
func (d *ItemDescriptor) Validate() error {
	if d.Type == "" {
		return errors.New("item type is required")
	}
	if d.Count <= 0 {
		return fmt.Errorf("item count must be positive, got %d", d.Count)
	}
	for id, level := range d.Enchants {
		if level <= 0 {
			return fmt.Errorf("enchant %s level must be positive, got %d", id, level)
		}
	}
	return nil
}

// WithCount returns a copy of the descriptor carrying a different count.
func (d ItemDescriptor) WithCount(count int) ItemDescriptor {
	c := d.Clone()
	c.Count = count
	return c
}

// Clone deep-copies the descriptor so callers can mutate counts and metadata
// without aliasing persisted state.
func (d ItemDescriptor) Clone() ItemDescriptor {
	c := d
	if d.Enchants != nil {
		c.Enchants = make(map[string]int, len(d.Enchants))
		for id, level := range d.Enchants {
			c.Enchants[id] = level
		}
	}
	if d.Lore != nil {
		c.Lore = append([]string(nil), d.Lore...)
	}
	return c
}

func (d ItemDescriptor) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *ItemDescriptor) Scan(value interface{}) error {
	if value == nil {
		*d = ItemDescriptor{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported item descriptor column type %T", value)
	}
}

// DescriptorList is an ordered collection of descriptors persisted as a JSON
// array (the collected-items column of buy shops). Order is significant: it
// is the pickup order shown to the owner.
type DescriptorList []ItemDescriptor

func (l DescriptorList) Value() (driver.Value, error) {
	if l == nil {
		l = DescriptorList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *DescriptorList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported descriptor list column type %T", value)
	}
}

// TotalCount sums the counts of all descriptors in the list.
func (l DescriptorList) TotalCount() int {
	total := 0
	for _, d := range l {
		total += d.Count
	}
	return total
}
