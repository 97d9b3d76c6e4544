package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

// FileStore implements a registry store on the local file system. Each
// container region is one file named by its location hex; the reservation
// is the file size. Writes go through a temp file and rename so a stored
// image is never observed half-written.
type FileStore struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileStore creates a file-backed registry store rooted at baseDir.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	regDir := filepath.Join(baseDir, "registries")
	if err := os.MkdirAll(regDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create registries directory: %w", err)
	}

	return &FileStore{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Allocate creates a zero-filled region file. Creation is exclusive, so a
// second allocation at the same location fails with ErrAlreadyExists.
func (s *FileStore) Allocate(ctx context.Context, loc interfaces.RegistryLocation, size int) error {
	path := s.regionPath(loc)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return interfaces.ErrAlreadyExists
		}
		return fmt.Errorf("%w: %v", interfaces.ErrAllocationFailed, err)
	}
	defer f.Close()

	if err := f.Truncate(int64(size)); err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: %v", interfaces.ErrAllocationFailed, err)
	}

	s.log.Debug("Allocated registry region",
		slog.String("path", path),
		slog.Int("size", size))
	return nil
}

// Read returns the full stored region.
func (s *FileStore) Read(ctx context.Context, loc interfaces.RegistryLocation) ([]byte, error) {
	path := s.regionPath(loc)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrRegistryNotFound
		}
		return nil, fmt.Errorf("failed to read region file: %w", err)
	}
	return data, nil
}

// Write atomically replaces the stored region via temp file and rename.
func (s *FileStore) Write(ctx context.Context, loc interfaces.RegistryLocation, data []byte) error {
	path := s.regionPath(loc)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return interfaces.ErrRegistryNotFound
		}
		return fmt.Errorf("failed to stat region file: %w", err)
	}
	if int64(len(data)) < info.Size() {
		return fmt.Errorf("write below reservation: region %d bytes, image %d", info.Size(), len(data))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrResourceExhausted, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", interfaces.ErrResourceExhausted, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", interfaces.ErrResourceExhausted, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace region file: %w", err)
	}

	s.log.Debug("Wrote registry region",
		slog.String("path", path),
		slog.Int("size", len(data)))
	return nil
}

// Reserved returns the region file size.
func (s *FileStore) Reserved(ctx context.Context, loc interfaces.RegistryLocation) (int, error) {
	info, err := os.Stat(s.regionPath(loc))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, interfaces.ErrRegistryNotFound
		}
		return 0, fmt.Errorf("failed to stat region file: %w", err)
	}
	return int(info.Size()), nil
}

// Available checks if the base directory exists.
func (s *FileStore) Available(ctx context.Context) bool {
	_, err := os.Stat(s.baseDir)
	if err != nil {
		s.log.Debug("File store unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this store.
func (s *FileStore) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(s.baseDir))
}

// LocationURI returns the URI that identifies this store.
func (s *FileStore) LocationURI() string {
	return s.locationURI
}

// regionPath generates the file path for a registry location.
func (s *FileStore) regionPath(loc interfaces.RegistryLocation) string {
	return filepath.Join(s.baseDir, "registries", loc.String())
}
