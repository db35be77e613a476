package infrastructure

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/application/ports"
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// FileSnapshotStore persists queue snapshots as one JSON file per guild, so
// a guild's queue survives restarts and reconnects.
type FileSnapshotStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileSnapshotStore creates a FileSnapshotStore rooted at dir, creating
// the directory if needed.
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

func (s *FileSnapshotStore) path(guildID snowflake.ID) string {
	return filepath.Join(s.dir, guildID.String()+".json")
}

// Save writes the snapshot for the guild. The file is written to a temporary
// path first and renamed into place so a crash never leaves a torn file.
func (s *FileSnapshotStore) Save(guildID snowflake.ID, snap domain.QueueSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	target := s.path(guildID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	slog.Debug("saved queue snapshot", "guild", guildID, "items", len(snap.Items))
	return nil
}

// Load reads the snapshot for the guild. The second return value is false
// when no snapshot exists.
func (s *FileSnapshotStore) Load(guildID snowflake.ID) (domain.QueueSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(guildID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.QueueSnapshot{}, false, nil
		}
		return domain.QueueSnapshot{}, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap domain.QueueSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.QueueSnapshot{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return snap, true, nil
}

// Delete removes the guild's snapshot. Deleting a missing snapshot is not an
// error.
func (s *FileSnapshotStore) Delete(guildID snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(guildID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Ensure FileSnapshotStore implements ports.SnapshotStore.
var _ ports.SnapshotStore = (*FileSnapshotStore)(nil)
