package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

func testSnapshot() domain.QueueSnapshot {
	return domain.QueueSnapshot{
		Items: []domain.QueueItem{
			domain.NewQueueItem(
				"First", "https://example.com/watch?v=1", domain.ServiceYouTube,
				180, "Uploader", "", domain.StreamTypeAudio, nil),
			domain.NewQueueItem(
				"Second", "https://example.com/watch?v=2", domain.ServiceSoundCloud,
				240, "Uploader", "", domain.StreamTypeAudio, nil),
		},
		Index:   1,
		Shuffle: true,
		Repeat:  false,
	}
}

func TestFileSnapshotStore_RoundTrip(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	guildID := snowflake.ID(123)
	want := testSnapshot()

	if err := store.Save(guildID, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := store.Load(guildID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected snapshot to exist")
	}
	if !got.Equal(want) {
		t.Errorf("snapshot mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestFileSnapshotStore_LoadMissing(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	_, ok, err := store.Load(snowflake.ID(999))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Error("expected no snapshot for unknown guild")
	}
}

func TestFileSnapshotStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	guildID := snowflake.ID(123)
	if err := os.WriteFile(filepath.Join(dir, guildID.String()+".json"),
		[]byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	if _, _, err := store.Load(guildID); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}

func TestFileSnapshotStore_SaveOverwrites(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	guildID := snowflake.ID(123)
	if err := store.Save(guildID, testSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	updated := testSnapshot()
	updated.Index = 0
	updated.Shuffle = false
	if err := store.Save(guildID, updated); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, ok, err := store.Load(guildID)
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%t err=%v", ok, err)
	}
	if got.Index != 0 || got.Shuffle {
		t.Errorf("expected overwritten snapshot, got %+v", got)
	}
}

func TestFileSnapshotStore_Delete(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	guildID := snowflake.ID(123)
	if err := store.Save(guildID, testSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(guildID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, ok, err := store.Load(guildID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Error("expected snapshot gone after delete")
	}

	// Deleting again must not fail
	if err := store.Delete(guildID); err != nil {
		t.Errorf("Delete of missing snapshot failed: %v", err)
	}
}

func TestFileSnapshotStore_RestoredQueueMatches(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	original, err := domain.NewPlayQueue(1, testSnapshot().Items, true)
	if err != nil {
		t.Fatalf("failed to build queue: %v", err)
	}

	guildID := snowflake.ID(42)
	if err := store.Save(guildID, original.Snapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	snap, ok, err := store.Load(guildID)
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%t err=%v", ok, err)
	}

	restored, err := domain.RestoreQueue(snap)
	if err != nil {
		t.Fatalf("RestoreQueue failed: %v", err)
	}
	if !restored.Equal(original) {
		t.Error("restored queue differs from the original")
	}
}
