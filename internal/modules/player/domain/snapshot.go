package domain

import "slices"

// QueueSnapshot is the transferable form of a PlayQueue: plain serializable
// fields only. Thumbnails travel as URL strings; any richer in-memory
// representation is rebuilt lazily by a collaborator, not by the queue.
type QueueSnapshot struct {
	Items   []QueueItem `json:"items"`
	Index   int         `json:"index"`
	Shuffle bool        `json:"shuffle"`
	Repeat  bool        `json:"repeat"`
}

// Snapshot captures items, cursor and both flags atomically under the
// queue's lock.
func (q *PlayQueue) Snapshot() QueueSnapshot {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return QueueSnapshot{
		Items:   slices.Clone(q.items),
		Index:   q.index,
		Shuffle: q.shuffle,
		Repeat:  q.repeat,
	}
}

// Equal reports whether two snapshots carry the same cursor, flags and item
// sequence (content, not identity).
func (s QueueSnapshot) Equal(other QueueSnapshot) bool {
	return s.Index == other.Index &&
		s.Shuffle == other.Shuffle &&
		s.Repeat == other.Repeat &&
		slices.EqualFunc(s.Items, other.Items, QueueItem.Equal)
}

// RestoreQueue reconstructs a queue from a snapshot. The cursor is
// re-sanitized exactly as at construction, and the queue gets a fresh lock
// and random source; those are not part of the transferable state. A
// snapshot with a nil item list is rejected with ErrNilItems.
func RestoreQueue(s QueueSnapshot) (*PlayQueue, error) {
	q, err := NewPlayQueue(s.Index, s.Items, s.Repeat)
	if err != nil {
		return nil, err
	}
	q.SetShuffle(s.Shuffle)
	return q, nil
}
