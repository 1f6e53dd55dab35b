package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ShelfWatch/internal/domain/models"
	applogger "ShelfWatch/pkg/logger"
)

// FileStore holds the catalog in a single JSON file, read wholesale on every
// access. Writes go through a temp file and rename so a reader never sees a
// half-written catalog.
type FileStore struct {
	path string
	log  *applogger.Logger

	mu sync.Mutex // serializes writers
}

func NewFileStore(path string, log *applogger.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// ReadAll parses the whole backing file. A missing file is an empty catalog.
func (s *FileStore) ReadAll(_ context.Context) ([]models.Item, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Item{}, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(b) == 0 {
		return []models.Item{}, nil
	}

	var items []models.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	return items, nil
}

// Append adds one item and rewrites the file atomically. A zero ID is
// assigned from the current wall clock, matching the convention the seed
// data uses.
func (s *FileStore) Append(ctx context.Context, item models.Item) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.ReadAll(ctx)
	if err != nil {
		return models.Item{}, err
	}

	if item.ID == 0 {
		item.ID = time.Now().UnixMilli()
	}
	items = append(items, item)

	if err := s.writeAll(items); err != nil {
		return models.Item{}, err
	}

	s.log.Debug("item appended",
		applogger.Int64("id", item.ID),
		applogger.Int("records", len(items)),
	)
	return item, nil
}

func (s *FileStore) writeAll(items []models.Item) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".items-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
