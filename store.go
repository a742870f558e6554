package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// fileStore persists the scratchpad region in a local file. It stands in
// for watch-side storage, which the GW-B5600 does not expose a writable
// region for over GATT.
type fileStore struct {
	mu   sync.Mutex
	path string
}

func newFileStore(path string) *fileStore {
	return &fileStore{path: path}
}

func (f *fileStore) GetScratchpadData(_ context.Context, offset, length int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if offset >= len(data) {
		return nil, nil
	}
	end := offset + length
	if end > len(data) {
		end = len(data)
	}
	return data[offset:end], nil
}

func (f *fileStore) SetScratchpadData(_ context.Context, data []byte, offset int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, err := os.ReadFile(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	need := offset + len(data)
	if need > len(existing) {
		grown := make([]byte, need)
		copy(grown, existing)
		existing = grown
	}
	copy(existing[offset:], data)

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, existing, 0o644)
}
