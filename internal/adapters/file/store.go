package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/colloquy/pkg/domain"
)

// Store implements ports.SuspensionStore on the local filesystem, one JSON
// file per suspended execution.
type Store struct {
	BasePath string
}

// NewStore creates a Store rooted at basePath.
// If basePath is empty, it defaults to ".colloquy/suspensions".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".colloquy", "suspensions")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(executionID string) (string, error) {
	if executionID == "" {
		return "", errors.New("execution id cannot be empty")
	}
	if strings.ContainsAny(executionID, `/\`) || executionID == "." || executionID == ".." {
		return "", fmt.Errorf("invalid execution id %q", executionID)
	}
	return filepath.Join(s.BasePath, executionID+".json"), nil
}

// Save writes the snapshot atomically: to a temporary file first, synced,
// then renamed over the destination.
func (s *Store) Save(ctx context.Context, snap *domain.Suspension) error {
	if snap == nil {
		return errors.New("suspension cannot be nil")
	}
	destPath, err := s.path(snap.ExecutionID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure suspension directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal suspension: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+snap.ExecutionID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows refuses to rename over an existing file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to replace suspension file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads a snapshot back.
func (s *Store) Load(ctx context.Context, executionID string) (*domain.Suspension, error) {
	filePath, err := s.path(executionID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSuspensionNotFound
		}
		return nil, fmt.Errorf("failed to read suspension file: %w", err)
	}
	var snap domain.Suspension
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suspension: %w", err)
	}
	return &snap, nil
}

// Delete removes a snapshot file.
func (s *Store) Delete(ctx context.Context, executionID string) error {
	filePath, err := s.path(executionID)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete suspension file: %w", err)
	}
	return nil
}

// List returns the stored execution ids, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list suspensions: %w", err)
	}
	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
