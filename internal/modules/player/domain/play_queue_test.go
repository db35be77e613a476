package domain

import (
	"strconv"
	"sync"
	"testing"
)

func testItem(n int) QueueItem {
	id := strconv.Itoa(n)
	return QueueItem{
		Title:      "Track " + id,
		URL:        "https://example.com/watch?v=" + id,
		Service:    ServiceYouTube,
		Duration:   180,
		Uploader:   "Uploader " + id,
		StreamType: StreamTypeAudio,
	}
}

func testItems(n int) []QueueItem {
	items := make([]QueueItem, n)
	for i := range items {
		items[i] = testItem(i)
	}
	return items
}

func newTestQueue(t *testing.T, index int, n int, repeat bool) *PlayQueue {
	t.Helper()
	q, err := NewPlayQueue(index, testItems(n), repeat)
	if err != nil {
		t.Fatalf("NewPlayQueue returned error: %v", err)
	}
	return q
}

// checkInvariant verifies the cursor-in-range invariant after an operation.
func checkInvariant(t *testing.T, q *PlayQueue) {
	t.Helper()
	idx, size := q.Index(), q.Size()
	if size == 0 {
		if idx != 0 {
			t.Errorf("empty queue must have cursor 0, got %d", idx)
		}
		return
	}
	if idx < 0 || idx >= size {
		t.Errorf("cursor %d out of range for size %d", idx, size)
	}
}

func TestNewPlayQueue(t *testing.T) {
	q, err := NewPlayQueue(1, testItems(3), true)
	if err != nil {
		t.Fatalf("NewPlayQueue returned error: %v", err)
	}
	if q.Index() != 1 {
		t.Errorf("expected cursor 1, got %d", q.Index())
	}
	if q.Size() != 3 {
		t.Errorf("expected size 3, got %d", q.Size())
	}
	if !q.IsRepeat() {
		t.Error("expected repeat enabled")
	}
	if q.IsShuffle() {
		t.Error("expected shuffle disabled")
	}
}

func TestNewPlayQueue_NilItems(t *testing.T) {
	if _, err := NewPlayQueue(0, nil, false); err != ErrNilItems {
		t.Errorf("expected ErrNilItems, got %v", err)
	}
}

func TestNewPlayQueue_ClampsIndex(t *testing.T) {
	tests := []struct {
		name  string
		index int
		size  int
		want  int
	}{
		{"negative", -5, 3, 0},
		{"past end", 10, 3, 2},
		{"in range", 2, 3, 2},
		{"empty", 7, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQueue(t, tt.index, tt.size, false)
			if q.Index() != tt.want {
				t.Errorf("expected cursor %d, got %d", tt.want, q.Index())
			}
		})
	}
}

func TestNewPlayQueue_CopiesItems(t *testing.T) {
	items := testItems(3)
	q, _ := NewPlayQueueFrom(items)

	items[0] = testItem(99)

	got, ok := q.ItemAt(0)
	if !ok || !got.Equal(testItem(0)) {
		t.Error("queue aliases the caller's slice")
	}
}

func TestNext_Sequential(t *testing.T) {
	q := newTestQueue(t, 0, 3, false)

	if got := q.Next(); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := q.Next(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	// Repeat disabled: clamps at the last index.
	if got := q.Next(); got != 2 {
		t.Errorf("expected clamp at 2, got %d", got)
	}
}

func TestNext_WrapsWithRepeat(t *testing.T) {
	q := newTestQueue(t, 2, 3, true)

	if got := q.Next(); got != 0 {
		t.Errorf("expected wrap to 0, got %d", got)
	}
}

func TestNext_Empty(t *testing.T) {
	q := newTestQueue(t, 0, 0, false)

	if got := q.Next(); got != 0 {
		t.Errorf("expected 0 on empty queue, got %d", got)
	}
	checkInvariant(t, q)
}

func TestNext_ShuffleNeverRepeatsCurrent(t *testing.T) {
	q := newTestQueue(t, 0, 5, false)
	q.SetShuffle(true)

	prev := q.Index()
	for range 200 {
		got := q.Next()
		if got == prev {
			t.Fatalf("shuffle advance returned current index %d", got)
		}
		checkInvariant(t, q)
		prev = got
	}
}

func TestNext_ShuffleSingleItem(t *testing.T) {
	q := newTestQueue(t, 0, 1, false)
	q.SetShuffle(true)

	if got := q.Next(); got != 0 {
		t.Errorf("expected 0 for single-item shuffle, got %d", got)
	}
}

func TestPrevious(t *testing.T) {
	q := newTestQueue(t, 1, 3, false)

	if got := q.Previous(); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	// Repeat disabled: clamps at 0.
	if got := q.Previous(); got != 0 {
		t.Errorf("expected clamp at 0, got %d", got)
	}
}

func TestPrevious_WrapsWithRepeat(t *testing.T) {
	q := newTestQueue(t, 0, 3, true)

	if got := q.Previous(); got != 2 {
		t.Errorf("expected wrap to 2, got %d", got)
	}
}

func TestPrevious_IgnoresShuffle(t *testing.T) {
	q := newTestQueue(t, 2, 5, false)
	q.SetShuffle(true)

	if got := q.Previous(); got != 1 {
		t.Errorf("previous under shuffle must be sequential, expected 1, got %d", got)
	}
}

func TestPrevious_Empty(t *testing.T) {
	q := newTestQueue(t, 0, 0, true)

	if got := q.Previous(); got != 0 {
		t.Errorf("expected 0 on empty queue, got %d", got)
	}
}

func TestShuffleNow_KeepsCurrentItem(t *testing.T) {
	for range 50 {
		q := newTestQueue(t, 3, 8, false)
		before, _ := q.Item()

		q.ShuffleNow()

		if q.Index() != 0 {
			t.Fatalf("expected cursor 0 after shuffle, got %d", q.Index())
		}
		after, ok := q.Item()
		if !ok || !after.Equal(before) {
			t.Fatalf("current item changed by shuffle: %v != %v", after, before)
		}
		if q.Size() != 8 {
			t.Fatalf("shuffle changed queue size: %d", q.Size())
		}
	}
}

func TestShuffleNow_SmallQueues(t *testing.T) {
	for _, n := range []int{0, 1} {
		q := newTestQueue(t, 0, n, false)
		before := q.Snapshot()

		q.ShuffleNow()

		if !q.Snapshot().Equal(before) {
			t.Errorf("shuffle of %d-item queue must be a no-op", n)
		}
	}
}

func TestShuffleNow_KeepsAllItems(t *testing.T) {
	q := newTestQueue(t, 2, 6, false)
	q.ShuffleNow()

	seen := make(map[string]int)
	for _, item := range q.Items() {
		seen[item.URL]++
	}
	for _, item := range testItems(6) {
		if seen[item.URL] != 1 {
			t.Fatalf("item %s occurs %d times after shuffle", item.URL, seen[item.URL])
		}
	}
}

func TestSetIndex(t *testing.T) {
	tests := []struct {
		name   string
		target int
		repeat bool
		want   int
	}{
		{"in range", 3, false, 3},
		{"clamp low", -2, false, 0},
		{"clamp high", 9, false, 4},
		{"wrap negative", -1, true, 4},
		{"wrap high", 7, true, 2},
		{"wrap exact", 5, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQueue(t, 0, 5, tt.repeat)
			q.SetIndex(tt.target)
			if q.Index() != tt.want {
				t.Errorf("SetIndex(%d) = cursor %d, want %d", tt.target, q.Index(), tt.want)
			}
		})
	}
}

func TestSetIndex_Empty(t *testing.T) {
	q := newTestQueue(t, 0, 0, true)
	q.SetIndex(42)
	if q.Index() != 0 {
		t.Errorf("expected cursor 0 on empty queue, got %d", q.Index())
	}
}

func TestItem(t *testing.T) {
	q := newTestQueue(t, 1, 3, false)

	got, ok := q.Item()
	if !ok {
		t.Fatal("expected an item at the cursor")
	}
	if !got.Equal(testItem(1)) {
		t.Errorf("expected item 1, got %v", got)
	}

	empty := newTestQueue(t, 0, 0, false)
	if _, ok := empty.Item(); ok {
		t.Error("expected no item on empty queue")
	}
}

func TestItemAt_OutOfRange(t *testing.T) {
	q := newTestQueue(t, 0, 3, false)

	for _, idx := range []int{-1, 3, 100} {
		if _, ok := q.ItemAt(idx); ok {
			t.Errorf("ItemAt(%d) must yield absent", idx)
		}
	}
}

func TestPeekNext(t *testing.T) {
	q := newTestQueue(t, 0, 3, false)

	got, ok := q.PeekNext()
	if !ok || !got.Equal(testItem(1)) {
		t.Errorf("expected item 1, got %v (ok=%t)", got, ok)
	}
}

func TestPeekNext_AtEnd(t *testing.T) {
	q := newTestQueue(t, 2, 3, false)
	if _, ok := q.PeekNext(); ok {
		t.Error("expected absent at end without repeat")
	}

	q.SetRepeat(true)
	got, ok := q.PeekNext()
	if !ok || !got.Equal(testItem(0)) {
		t.Errorf("expected wrap to item 0 with repeat, got %v (ok=%t)", got, ok)
	}
}

func TestPeekNext_AbsentUnderShuffle(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		q := newTestQueue(t, 0, n, true)
		q.SetShuffle(true)
		if _, ok := q.PeekNext(); ok {
			t.Errorf("PeekNext must be absent under shuffle (size %d)", n)
		}
	}
}

func TestUpcoming(t *testing.T) {
	q := newTestQueue(t, 1, 4, false)

	upcoming := q.Upcoming()
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming items, got %d", len(upcoming))
	}
	if !upcoming[0].Equal(testItem(2)) || !upcoming[1].Equal(testItem(3)) {
		t.Errorf("unexpected upcoming items: %v", upcoming)
	}

	q.SetIndex(3)
	if len(q.Upcoming()) != 0 {
		t.Error("expected empty upcoming at end of queue")
	}
}

func TestItems_DefensiveCopy(t *testing.T) {
	q := newTestQueue(t, 0, 3, false)

	items := q.Items()
	items[0] = testItem(42)

	got, _ := q.ItemAt(0)
	if !got.Equal(testItem(0)) {
		t.Error("mutating the returned slice affected the queue")
	}
}

func TestAppend(t *testing.T) {
	q := newTestQueue(t, 1, 2, false)

	if err := q.Append(testItems(2)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if q.Size() != 4 {
		t.Errorf("expected size 4, got %d", q.Size())
	}
	if q.Index() != 1 {
		t.Errorf("append must not move the cursor, got %d", q.Index())
	}
}

func TestAppend_NilItems(t *testing.T) {
	q := newTestQueue(t, 0, 1, false)
	if err := q.Append(nil); err != ErrNilItems {
		t.Errorf("expected ErrNilItems, got %v", err)
	}
}

func TestInsert_RebasesCursor(t *testing.T) {
	// Queue [A,B,C], cursor at B; insert two items at 0 ->
	// [X,Y,A,B,C] with the cursor still denoting B.
	q := newTestQueue(t, 1, 3, false)
	inserted := []QueueItem{testItem(10), testItem(11)}

	if err := q.Insert(0, inserted); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if q.Size() != 5 {
		t.Fatalf("expected size 5, got %d", q.Size())
	}
	if q.Index() != 3 {
		t.Errorf("expected cursor 3, got %d", q.Index())
	}
	current, _ := q.Item()
	if !current.Equal(testItem(1)) {
		t.Errorf("cursor no longer denotes the same item: %v", current)
	}
	first, _ := q.ItemAt(0)
	if !first.Equal(testItem(10)) {
		t.Errorf("expected inserted item at 0, got %v", first)
	}
}

func TestInsert_AfterCursor(t *testing.T) {
	q := newTestQueue(t, 1, 3, false)

	if err := q.Insert(2, []QueueItem{testItem(10)}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if q.Index() != 1 {
		t.Errorf("inserting after the cursor must not move it, got %d", q.Index())
	}
	got, _ := q.ItemAt(2)
	if !got.Equal(testItem(10)) {
		t.Errorf("expected inserted item at 2, got %v", got)
	}
}

func TestInsert_ClampsPosition(t *testing.T) {
	q := newTestQueue(t, 0, 2, false)

	if err := q.Insert(100, []QueueItem{testItem(10)}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	got, _ := q.ItemAt(2)
	if !got.Equal(testItem(10)) {
		t.Errorf("expected item appended at clamped position, got %v", got)
	}

	if err := q.Insert(-3, []QueueItem{testItem(11)}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	got, _ = q.ItemAt(0)
	if !got.Equal(testItem(11)) {
		t.Errorf("expected item at clamped position 0, got %v", got)
	}
}

func TestInsert_EmptyAndNil(t *testing.T) {
	q := newTestQueue(t, 0, 2, false)
	before := q.Snapshot()

	if err := q.Insert(0, []QueueItem{}); err != nil {
		t.Errorf("empty insert must be a no-op, got error %v", err)
	}
	if !q.Snapshot().Equal(before) {
		t.Error("empty insert changed the queue")
	}

	if err := q.Insert(0, nil); err != ErrNilItems {
		t.Errorf("expected ErrNilItems, got %v", err)
	}
}

func TestInsert_IntoEmptyQueue(t *testing.T) {
	q := newTestQueue(t, 0, 0, false)

	if err := q.Insert(0, testItems(2)); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if q.Index() != 0 {
		t.Errorf("cursor must stay 0 when inserting into an empty queue, got %d", q.Index())
	}
	checkInvariant(t, q)
}

func TestRemove_RebasesCursor(t *testing.T) {
	// Queue [A,B,C], cursor at C; remove index 0 -> [B,C], cursor at C.
	q := newTestQueue(t, 2, 3, false)

	q.Remove(0)

	if q.Size() != 2 {
		t.Fatalf("expected size 2, got %d", q.Size())
	}
	if q.Index() != 1 {
		t.Errorf("expected cursor 1, got %d", q.Index())
	}
	current, _ := q.Item()
	if !current.Equal(testItem(2)) {
		t.Errorf("cursor no longer denotes the same item: %v", current)
	}
}

func TestRemove_CurrentAtEnd(t *testing.T) {
	q := newTestQueue(t, 2, 3, false)

	q.Remove(2)

	if q.Index() != 1 {
		t.Errorf("expected cursor clamped to 1, got %d", q.Index())
	}
	checkInvariant(t, q)
}

func TestRemove_AfterCursor(t *testing.T) {
	q := newTestQueue(t, 0, 3, false)

	q.Remove(2)

	if q.Index() != 0 {
		t.Errorf("removing after the cursor must not move it, got %d", q.Index())
	}
}

func TestRemove_LastItem(t *testing.T) {
	q := newTestQueue(t, 0, 1, false)

	q.Remove(0)

	if !q.IsEmpty() {
		t.Error("expected empty queue")
	}
	if q.Index() != 0 {
		t.Errorf("expected cursor reset to 0, got %d", q.Index())
	}
}

func TestRemove_OutOfRangeIsNoOp(t *testing.T) {
	q := newTestQueue(t, 1, 3, true)
	before := q.Snapshot()

	q.Remove(-1)
	q.Remove(3)
	q.Remove(100)

	if !q.Snapshot().Equal(before) {
		t.Error("out-of-range remove changed the queue")
	}
}

func TestMove_RebasesCursor(t *testing.T) {
	// Queue [A,B,C,D], cursor at B; move C to the front ->
	// [C,A,B,D] with the cursor following B to index 2.
	q := newTestQueue(t, 1, 4, false)

	q.Move(2, 0)

	want := []int{2, 0, 1, 3}
	for i, n := range want {
		got, _ := q.ItemAt(i)
		if !got.Equal(testItem(n)) {
			t.Errorf("position %d: expected item %d, got %v", i, n, got)
		}
	}
	if q.Index() != 2 {
		t.Errorf("expected cursor 2, got %d", q.Index())
	}
	current, _ := q.Item()
	if !current.Equal(testItem(1)) {
		t.Errorf("cursor no longer denotes the same item: %v", current)
	}
}

func TestMove_CursorIsSource(t *testing.T) {
	q := newTestQueue(t, 1, 4, false)

	q.Move(1, 3)

	if q.Index() != 3 {
		t.Errorf("cursor must follow the moved item, got %d", q.Index())
	}
	current, _ := q.Item()
	if !current.Equal(testItem(1)) {
		t.Errorf("moved item is no longer current: %v", current)
	}
}

func TestMove_ForwardPastCursor(t *testing.T) {
	// source < cursor <= target: cursor shifts back by one.
	q := newTestQueue(t, 2, 4, false)

	q.Move(0, 3)

	if q.Index() != 1 {
		t.Errorf("expected cursor 1, got %d", q.Index())
	}
	current, _ := q.Item()
	if !current.Equal(testItem(2)) {
		t.Errorf("cursor no longer denotes the same item: %v", current)
	}
}

func TestMove_NoOps(t *testing.T) {
	q := newTestQueue(t, 1, 3, false)
	before := q.Snapshot()

	q.Move(1, 1)
	q.Move(-1, 2)
	q.Move(0, 3)
	q.Move(5, 0)

	if !q.Snapshot().Equal(before) {
		t.Error("no-op move changed the queue")
	}
}

func TestReplaceAll(t *testing.T) {
	q := newTestQueue(t, 2, 3, false)

	if err := q.ReplaceAll(testItems(5), 9); err != nil {
		t.Fatalf("ReplaceAll returned error: %v", err)
	}
	if q.Size() != 5 {
		t.Errorf("expected size 5, got %d", q.Size())
	}
	if q.Index() != 4 {
		t.Errorf("expected cursor sanitized to 4, got %d", q.Index())
	}

	if err := q.ReplaceAll(nil, 0); err != ErrNilItems {
		t.Errorf("expected ErrNilItems, got %v", err)
	}
}

func TestClear(t *testing.T) {
	q := newTestQueue(t, 2, 3, true)
	q.SetShuffle(true)

	q.Clear()

	if !q.IsEmpty() {
		t.Error("expected empty queue")
	}
	if q.Index() != 0 {
		t.Errorf("expected cursor 0, got %d", q.Index())
	}
	if !q.IsShuffle() || !q.IsRepeat() {
		t.Error("clear must not touch the mode flags")
	}
}

func TestToggleFlags(t *testing.T) {
	q := newTestQueue(t, 0, 2, false)

	if !q.ToggleShuffle() || !q.IsShuffle() {
		t.Error("expected shuffle enabled after toggle")
	}
	if q.ToggleShuffle() || q.IsShuffle() {
		t.Error("expected shuffle disabled after second toggle")
	}
	if !q.ToggleRepeat() || !q.IsRepeat() {
		t.Error("expected repeat enabled after toggle")
	}

	before := q.Snapshot()
	q.SetShuffle(true)
	after := q.Snapshot()
	if !slicesEqualItems(before.Items, after.Items) || before.Index != after.Index {
		t.Error("mode toggles must not touch items or cursor")
	}
}

func slicesEqualItems(a, b []QueueItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func TestEqual(t *testing.T) {
	a := newTestQueue(t, 1, 3, true)
	b := newTestQueue(t, 1, 3, true)

	if !a.Equal(b) {
		t.Error("expected queues equal")
	}

	b.SetShuffle(true)
	if a.Equal(b) {
		t.Error("expected flag difference to break equality")
	}
	b.SetShuffle(false)

	b.SetIndex(2)
	if a.Equal(b) {
		t.Error("expected cursor difference to break equality")
	}
	b.SetIndex(1)

	b.Remove(2)
	if a.Equal(b) {
		t.Error("expected item difference to break equality")
	}

	if !a.Equal(a) {
		t.Error("expected queue equal to itself")
	}
	if a.Equal(nil) {
		t.Error("expected inequality with nil")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	q := newTestQueue(t, 2, 4, true)
	q.SetShuffle(true)

	restored, err := RestoreQueue(q.Snapshot())
	if err != nil {
		t.Fatalf("RestoreQueue returned error: %v", err)
	}

	if !q.Equal(restored) {
		t.Errorf("restored queue differs: %v != %v", restored, q)
	}
}

func TestRestoreQueue_SanitizesCursor(t *testing.T) {
	snap := QueueSnapshot{Items: testItems(2), Index: 9}

	restored, err := RestoreQueue(snap)
	if err != nil {
		t.Fatalf("RestoreQueue returned error: %v", err)
	}
	if restored.Index() != 1 {
		t.Errorf("expected cursor sanitized to 1, got %d", restored.Index())
	}

	if _, err := RestoreQueue(QueueSnapshot{}); err != ErrNilItems {
		t.Errorf("expected ErrNilItems for nil snapshot items, got %v", err)
	}
}

func TestString(t *testing.T) {
	q := newTestQueue(t, 1, 3, true)

	want := "PlayQueue{index: 1, size: 3, shuffle: false, repeat: true}"
	if got := q.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestConcurrentAccess hammers the queue from mutator and reader goroutines
// and verifies the cursor invariant holds throughout. Run with -race.
func TestConcurrentAccess(t *testing.T) {
	q := newTestQueue(t, 0, 10, true)

	var wg sync.WaitGroup
	const iterations = 200

	mutators := []func(i int){
		func(i int) { q.Next() },
		func(i int) { q.Previous() },
		func(i int) { _ = q.Append([]QueueItem{testItem(i)}) },
		func(i int) { _ = q.Insert(i%5, []QueueItem{testItem(i)}) },
		func(i int) { q.Remove(i % 7) },
		func(i int) { q.Move(i%5, i%3) },
		func(i int) { q.SetIndex(i) },
		func(i int) { q.ShuffleNow() },
		func(i int) { q.ToggleShuffle() },
		func(i int) { q.ToggleRepeat() },
	}

	for _, mutate := range mutators {
		wg.Add(1)
		go func(mutate func(int)) {
			defer wg.Done()
			for i := range iterations {
				mutate(i)
			}
		}(mutate)
	}

	// Readers observe consistent snapshots alongside the writers.
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				snap := q.Snapshot()
				if len(snap.Items) > 0 && (snap.Index < 0 || snap.Index >= len(snap.Items)) {
					t.Errorf("inconsistent snapshot: cursor %d, size %d", snap.Index, len(snap.Items))
					return
				}
				q.Item()
				q.Upcoming()
				q.PeekNext()
			}
		}()
	}

	wg.Wait()
	checkInvariant(t, q)
}
