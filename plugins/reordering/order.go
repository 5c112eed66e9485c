package reordering

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
)

// ErrUnknownKey is the panic value for positions
// requested for keys that are not ordered.
var ErrUnknownKey = errors.New("no position found for key")

// OrderOf returns a position for every key
// so the positions are a permutation of 0..len(keys)-1.
//
// Entries of current for keys that are still present are honored
// in the order of their positions. Keys without an entry keep
// their relative order and fill the positions not claimed by current.
// Entries for keys not in keys are ignored.
func OrderOf(keys []string, current map[string]int) map[string]int {
	type entry struct {
		key      string
		position int
		index    int
	}
	var (
		honored    []entry
		unassigned []string
	)
	for i, key := range keys {
		if position, ok := current[key]; ok {
			honored = append(honored, entry{key: key, position: position, index: i})
		} else {
			unassigned = append(unassigned, key)
		}
	}
	sort.SliceStable(honored, func(i, j int) bool {
		if honored[i].position != honored[j].position {
			return honored[i].position < honored[j].position
		}
		return honored[i].index < honored[j].index
	})

	result := make(map[string]int, len(keys))
	h, u := 0, 0
	for i := range keys {
		switch {
		case h < len(honored) && honored[h].position <= i:
			result[honored[h].key] = i
			h++
		case u < len(unassigned):
			result[unassigned[u]] = i
			u++
		default:
			result[honored[h].key] = i
			h++
		}
	}
	return result
}

// OrderConfig configures a ColumnOrder.
type OrderConfig struct {
	// Keys returns the currently ordered keys in their default order.
	Keys func() []string
	// Save is called with all positions after every change.
	Save func(positions map[string]int) error
	// Existing positions, usually restored from preferences.
	Existing map[string]int
}

// ColumnOrder holds user chosen column positions by column key
// so positions survive changes of the column list.
type ColumnOrder struct {
	keys  func() []string
	save  func(map[string]int) error
	order map[string]int
}

func NewColumnOrder(config OrderConfig) *ColumnOrder {
	if config.Keys == nil {
		panic("ColumnOrder needs a Keys function")
	}
	return &ColumnOrder{
		keys:  config.Keys,
		save:  config.Save,
		order: maps.Clone(config.Existing),
	}
}

// OrderedMap returns the position of every current key.
func (o *ColumnOrder) OrderedMap() map[string]int {
	return OrderOf(o.keys(), o.order)
}

// OrderedKeys returns the current keys sorted by position.
func (o *ColumnOrder) OrderedKeys() []string {
	ordered := o.OrderedMap()
	keys := make([]string, len(ordered))
	for key, position := range ordered {
		keys[position] = key
	}
	return keys
}

// Get returns the position of key.
// It panics if key is not one of the current keys.
func (o *ColumnOrder) Get(key string) int {
	position, ok := o.OrderedMap()[key]
	if !ok {
		panic(fmt.Errorf("%w: %s. Is the column used within this table?", ErrUnknownKey, key))
	}
	return position
}

// Set moves key to position by swapping it
// with the key currently at position.
// See SwapWith.
func (o *ColumnOrder) Set(key string, position int) (bool, error) {
	return o.SwapWith(key, position)
}

// SwapWith swaps key with the key at position.
// It returns false without changes if position is out of range
// or already the position of key.
// After a swap the positions of all current keys are stored
// and passed to the Save function.
// It panics if key is not one of the current keys.
func (o *ColumnOrder) SwapWith(key string, position int) (bool, error) {
	ordered := o.OrderedMap()
	current, ok := ordered[key]
	if !ok {
		panic(fmt.Errorf("%w: %s. Is the column used within this table?", ErrUnknownKey, key))
	}
	if position < 0 || position >= len(ordered) || position == current {
		return false, nil
	}
	for other, otherPosition := range ordered {
		if otherPosition == position {
			ordered[other] = current
			break
		}
	}
	ordered[key] = position

	if o.order == nil {
		o.order = make(map[string]int, len(ordered))
	}
	maps.Copy(o.order, ordered)
	if o.save == nil {
		return true, nil
	}
	return true, o.save(maps.Clone(o.order))
}

// MoveLeft swaps key with the key before it.
func (o *ColumnOrder) MoveLeft(key string) (bool, error) {
	return o.SwapWith(key, o.Get(key)-1)
}

// MoveRight swaps key with the key after it.
func (o *ColumnOrder) MoveRight(key string) (bool, error) {
	return o.SwapWith(key, o.Get(key)+1)
}

// IsDefault returns true if no position was set.
func (o *ColumnOrder) IsDefault() bool {
	return len(o.order) == 0
}

// Reset forgets all positions.
func (o *ColumnOrder) Reset() {
	o.order = nil
}

// sortByOrder sorts keyed items by the positions of their keys.
func sortByOrder[T any](items []T, keyOf func(T) string, positions map[string]int) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return positions[keyOf(a)] - positions[keyOf(b)]
	})
	return sorted
}
