package timeutil

import "github.com/samber/lo"

// Item is one timestamp or a nested list of items.
type Item interface {
	flatten() []Timestamp
}

// List groups items. Lists may nest arbitrarily.
type List []Item

func (t Timestamp) flatten() []Timestamp {
	return []Timestamp{t}
}

func (l List) flatten() []Timestamp {
	return Flatten(l...)
}

// Flatten returns the timestamps of items in order, descending into nested
// lists. Nil items are skipped.
func Flatten(items ...Item) []Timestamp {
	return lo.FlatMap(items, func(item Item, _ int) []Timestamp {
		if item == nil {
			return nil
		}
		return item.flatten()
	})
}
