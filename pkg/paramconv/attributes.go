package paramconv

import (
	"fmt"

	"github.com/bestit/odm-param-converter-bundle/internal/assert"
)

// Attributes is the request attribute bag the resolver reads from and writes
// the resolved value into.
type Attributes interface {
	// Has reports whether key is set, even when its value is nil.
	Has(key string) bool
	// Get returns the value for key, or nil when key is not set.
	Get(key string) any
	// Keys returns the set keys in insertion order.
	Keys() []string
	// Set stores value under key. Setting an existing key keeps its position.
	Set(key string, value any)
}

// Bag is an ordered, map-backed Attributes implementation.
// A Bag belongs to a single request and is not safe for concurrent use.
type Bag struct {
	keys   []string
	values map[string]any
}

var _ Attributes = (*Bag)(nil)

// NewBag returns an empty bag.
func NewBag() *Bag {
	return &Bag{values: make(map[string]any)}
}

// BagFrom returns a bag holding the given pairs in order.
// pairs alternate key and value; a trailing key without a value is stored as nil.
// BagFrom panics when a key is not a string.
func BagFrom(pairs ...any) *Bag {
	b := NewBag()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("paramconv: BagFrom key at position %d is %T, not string", i, pairs[i]))
		}
		var value any
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		b.Set(key, value)
	}
	return b
}

func (b *Bag) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

func (b *Bag) Get(key string) any {
	return b.values[key]
}

func (b *Bag) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

func (b *Bag) Set(key string, value any) {
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
	assert.Invariant(len(b.keys) == len(b.values), "bag keys and values out of sync")
}

// Len returns the number of set keys.
func (b *Bag) Len() int { return len(b.keys) }
