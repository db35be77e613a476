package domain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
)

// ErrNilItems is returned when a nil item slice is passed to a constructor
// or bulk mutator. A nil sequence would corrupt the invariant that the queue
// always holds a valid (possibly empty) item list, so this is the one input
// that is rejected instead of absorbed.
var ErrNilItems = errors.New("item list must not be nil")

// PlayQueue is an ordered, mutable sequence of QueueItems with a cursor
// denoting the currently selected item, plus independent shuffle and repeat
// flags.
//
// A PlayQueue is shared by reference between the playback-control goroutine
// and any number of reader goroutines. One coarse-grained lock guards items,
// cursor and both flags together: cross-field invariants (cursor in range,
// consistent snapshots) must never be observed mid-mutation.
//
// The cursor always satisfies 0 <= index < len(items) while the queue is
// non-empty, and is 0 for an empty queue.
type PlayQueue struct {
	mu      sync.RWMutex
	items   []QueueItem
	index   int
	shuffle bool
	repeat  bool
	rng     *rand.Rand
}

// NewPlayQueue creates a queue from a copy of items, with the cursor clamped
// into range and the given repeat flag. A nil item slice is rejected with
// ErrNilItems.
func NewPlayQueue(index int, items []QueueItem, repeat bool) (*PlayQueue, error) {
	if items == nil {
		return nil, ErrNilItems
	}

	q := &PlayQueue{
		items:  slices.Clone(items),
		repeat: repeat,
		rng:    newRNG(),
	}
	q.index = clampIndex(index, len(q.items))
	return q, nil
}

// NewPlayQueueFrom creates a queue with the cursor at 0 and repeat disabled.
func NewPlayQueueFrom(items []QueueItem) (*PlayQueue, error) {
	return NewPlayQueue(0, items, false)
}

func newRNG() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// clampIndex forces idx into [0, size-1], or 0 for an empty queue.
func clampIndex(idx, size int) int {
	if size == 0 || idx < 0 {
		return 0
	}
	if idx >= size {
		return size - 1
	}
	return idx
}

// Index returns the current cursor position.
func (q *PlayQueue) Index() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.index
}

// Size returns the number of items in the queue.
func (q *PlayQueue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return len(q.items)
}

// IsEmpty returns true if the queue has no items.
func (q *PlayQueue) IsEmpty() bool {
	return q.Size() == 0
}

// IsShuffle returns the shuffle flag.
func (q *PlayQueue) IsShuffle() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.shuffle
}

// SetShuffle sets the shuffle flag. The item order and cursor are untouched.
func (q *PlayQueue) SetShuffle(enabled bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.shuffle = enabled
}

// ToggleShuffle flips the shuffle flag and returns the new value.
func (q *PlayQueue) ToggleShuffle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.shuffle = !q.shuffle
	return q.shuffle
}

// IsRepeat returns the repeat flag.
func (q *PlayQueue) IsRepeat() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.repeat
}

// SetRepeat sets the repeat flag.
func (q *PlayQueue) SetRepeat(enabled bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.repeat = enabled
}

// ToggleRepeat flips the repeat flag and returns the new value.
func (q *PlayQueue) ToggleRepeat() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.repeat = !q.repeat
	return q.repeat
}

// ShuffleNow randomly reorders the queue while keeping the current item
// current: the item at the cursor before the call ends up at position 0 and
// the cursor is reset to 0, so playback continuity is preserved and only the
// upcoming order changes. Queues with fewer than two items are left alone.
func (q *PlayQueue) ShuffleNow() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) < 2 {
		return
	}

	current := q.items[q.index]
	rest := slices.Delete(slices.Clone(q.items), q.index, q.index+1)
	q.rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	q.items = append([]QueueItem{current}, rest...)
	q.index = 0
}

// Next advances the cursor and returns its new position.
//
// With shuffle enabled the cursor jumps to a uniformly random index that
// differs from the current one (for queues of size >= 2). This is a
// probabilistic reject-on-match draw, not a permutation walk: short-run
// repeats of recently played indices are possible, only an immediate repeat
// is ruled out. Without shuffle the cursor moves forward by one, wrapping to
// 0 when repeat is enabled and clamping at the last index otherwise.
func (q *PlayQueue) Next() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return 0
	}

	if q.shuffle {
		q.index = q.randomAdvance()
		return q.index
	}

	next := q.index + 1
	if next >= len(q.items) {
		if q.repeat {
			next = 0
		} else {
			next = len(q.items) - 1
		}
	}
	q.index = next
	return q.index
}

// randomAdvance draws uniform indices until one differs from the cursor.
// Expected O(1) retries; almost surely terminates. Caller holds the lock.
func (q *PlayQueue) randomAdvance() int {
	if len(q.items) <= 1 {
		return 0
	}
	for {
		drawn := q.rng.IntN(len(q.items))
		if drawn != q.index {
			return drawn
		}
	}
}

// Previous moves the cursor back by one and returns its new position.
// Shuffle is ignored: previous is always sequential. Going below 0 wraps to
// the last index when repeat is enabled and clamps at 0 otherwise.
func (q *PlayQueue) Previous() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return 0
	}

	prev := q.index - 1
	if prev < 0 {
		if q.repeat {
			prev = len(q.items) - 1
		} else {
			prev = 0
		}
	}
	q.index = prev
	return q.index
}

// SetIndex moves the cursor to target. Out-of-range targets wrap with
// floored modulo when repeat is enabled (so -1 on a 5-item queue resolves to
// 4) and clamp to the nearer bound otherwise. On an empty queue the cursor
// is forced to 0.
func (q *PlayQueue) SetIndex(target int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	size := len(q.items)
	if size == 0 {
		q.index = 0
		return
	}

	if q.repeat {
		q.index = ((target % size) + size) % size
		return
	}
	q.index = clampIndex(target, size)
}

// Item returns the item at the cursor, or false if the queue is empty.
func (q *PlayQueue) Item() (QueueItem, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if len(q.items) == 0 {
		return QueueItem{}, false
	}
	return q.items[q.index], true
}

// ItemAt returns the item at the given index. Out-of-range indices yield
// false, never an error.
func (q *PlayQueue) ItemAt(index int) (QueueItem, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if index < 0 || index >= len(q.items) {
		return QueueItem{}, false
	}
	return q.items[index], true
}

// PeekNext returns the item that a sequential Next would select. It returns
// false while shuffle is enabled (the next item is not determined until the
// queue advances, and must not be guessed), at the end of the queue with
// repeat disabled, and on queues too small to have a next item. At the end
// with repeat enabled it wraps to the first item.
func (q *PlayQueue) PeekNext() (QueueItem, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.shuffle || len(q.items) == 0 {
		return QueueItem{}, false
	}

	if q.index+1 < len(q.items) {
		return q.items[q.index+1], true
	}
	if q.repeat {
		return q.items[0], true
	}
	return QueueItem{}, false
}

// Upcoming returns a copy of all items strictly after the cursor, in order.
func (q *PlayQueue) Upcoming() []QueueItem {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.index+1 >= len(q.items) {
		return []QueueItem{}
	}
	return slices.Clone(q.items[q.index+1:])
}

// Items returns a copy of all items in play order. Mutating the returned
// slice never affects the queue.
func (q *PlayQueue) Items() []QueueItem {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return slices.Clone(q.items)
}

// Append adds items to the end of the queue, preserving their relative
// order. The cursor is unchanged. A nil slice is rejected with ErrNilItems.
func (q *PlayQueue) Append(items []QueueItem) error {
	if items == nil {
		return ErrNilItems
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, items...)
	return nil
}

// Insert places items at position, clamped into [0, size]. Inserting at or
// before the cursor shifts the cursor forward by len(items) so the currently
// denoted item stays denoted. An empty slice is a no-op; a nil slice is
// rejected with ErrNilItems.
func (q *PlayQueue) Insert(position int, items []QueueItem) error {
	if items == nil {
		return ErrNilItems
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(items) == 0 {
		return nil
	}

	pos := position
	if pos < 0 {
		pos = 0
	}
	if pos > len(q.items) {
		pos = len(q.items)
	}

	wasEmpty := len(q.items) == 0
	q.items = slices.Insert(q.items, pos, items...)
	if !wasEmpty && pos <= q.index {
		q.index += len(items)
	}
	return nil
}

// Remove deletes the item at index. Out-of-range indices are a no-op. The
// cursor shifts back by one when the removed index was before it, and clamps
// to the new last index when it would run off the end.
func (q *PlayQueue) Remove(index int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if index < 0 || index >= len(q.items) {
		return
	}

	q.items = slices.Delete(q.items, index, index+1)

	switch {
	case len(q.items) == 0:
		q.index = 0
	case index < q.index:
		q.index--
	case q.index >= len(q.items):
		q.index = len(q.items) - 1
	}
}

// Move relocates the item at source to target, shifting the items between
// them by one position. Out-of-range or equal indices are a no-op. The
// cursor follows the moved item when it was current, and shifts by one when
// it sat between source and target.
func (q *PlayQueue) Move(source, target int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	size := len(q.items)
	if source == target ||
		source < 0 || source >= size ||
		target < 0 || target >= size {
		return
	}

	item := q.items[source]
	q.items = slices.Delete(q.items, source, source+1)
	q.items = slices.Insert(q.items, target, item)

	switch {
	case q.index == source:
		q.index = target
	case source < q.index && q.index <= target:
		q.index--
	case target <= q.index && q.index < source:
		q.index++
	}
}

// ReplaceAll atomically swaps the whole item sequence and moves the cursor
// to index, sanitized the same way as at construction. A nil slice is
// rejected with ErrNilItems.
func (q *PlayQueue) ReplaceAll(items []QueueItem, index int) error {
	if items == nil {
		return ErrNilItems
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = slices.Clone(items)
	q.index = clampIndex(index, len(q.items))
	return nil
}

// Clear empties the queue and resets the cursor to 0. The shuffle and
// repeat flags are untouched.
func (q *PlayQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = q.items[:0]
	q.index = 0
}

// Equal reports whether two queues hold equal cursors, flags and item
// sequences. Each side is read as one consistent snapshot.
func (q *PlayQueue) Equal(other *PlayQueue) bool {
	if q == other {
		return true
	}
	if other == nil {
		return false
	}

	a := q.Snapshot()
	b := other.Snapshot()
	return a.Equal(b)
}

// String returns a diagnostic description of the queue.
func (q *PlayQueue) String() string {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return fmt.Sprintf("PlayQueue{index: %d, size: %d, shuffle: %t, repeat: %t}",
		q.index, len(q.items), q.shuffle, q.repeat)
}
