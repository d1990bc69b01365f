package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// search returns the index where day is or would be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// ValueAsOf returns the value on a given day, or the most recent value before it, but not before
// 'floor'. It returns the day the value was found on.
func (h *History[T]) ValueAsOf(day, floor Date) (Date, T, bool) {
	i, found := h.search(day)
	if !found {
		// The value we want is at `i-1`, which is the last entry before the target date.
		i--
	}
	if i < 0 || h.days[i].Before(floor) {
		var zero T
		return Date{}, zero, false
	}
	return h.days[i], h.values[i], true
}

// Range returns the first and last days of the history.
func (h *History[T]) Range() (Range, bool) {
	if len(h.days) == 0 {
		return Range{}, false
	}
	return Range{From: h.days[0], To: h.days[len(h.days)-1]}, true
}
