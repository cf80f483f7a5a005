package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/ccvpets/server/internal/world"
)

// FileStore keeps the whole collection in one pets.json file, keyed by
// owner id. Writes stage into a temp file in the same
// directory and rename over the target, so a crash mid-write never leaves
// a truncated file behind.
type FileStore struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex // serializes writers; rename itself is atomic
}

func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the collection. A missing file is an empty collection; a
// malformed file is recovered as an empty collection with a logged warning
// (the next save will overwrite it: data loss, but no crash).
func (s *FileStore) Load(_ context.Context) (map[string]*world.PetState, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*world.PetState{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var records map[string]petRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		s.log.Warn("pet store corrupt, starting with empty collection",
			zap.String("path", s.path), zap.Error(err))
		return map[string]*world.PetState{}, nil
	}

	pets := make(map[string]*world.PetState, len(records))
	for ownerID, r := range records {
		pets[ownerID] = fromRecord(ownerID, r)
	}
	return pets, nil
}

// Save replaces the collection on disk.
func (s *FileStore) Save(_ context.Context, pets map[string]*world.PetState) error {
	records := make(map[string]petRecord, len(pets))
	for ownerID, p := range pets {
		records[ownerID] = toRecord(p)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pets: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".pets-*.json")
	if err != nil {
		return fmt.Errorf("stage pets file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
