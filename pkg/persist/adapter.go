// Package persist serialises named collections to the local key-value store.
package persist

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"krishibondhu/pkg/persist/repository"
)

const keyPrefix = "kb_"

type Adapter struct {
	repo repository.KVRepository
	log  *zap.Logger
}

func New(repo repository.KVRepository, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{repo: repo, log: log}
}

// Key is the storage key for a collection name, e.g. "crops" -> "kb_crops".
func Key(name string) string { return keyPrefix + name }

// Load returns the saved records for name. Any failure (missing key, read error,
// malformed blob) is reported as found=false: callers fall back to defaults.
func Load[T any](a *Adapter, name string) ([]T, bool) {
	raw, found, err := a.repo.Get(Key(name))
	if err != nil {
		a.log.Debug("local load failed, treating as empty", zap.String("collection", name), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		a.log.Debug("local blob unreadable, treating as empty", zap.String("collection", name), zap.Error(err))
		return nil, false
	}
	if out == nil {
		out = []T{}
	}
	return out, true
}

// Save replaces the stored blob for name with records.
func Save[T any](a *Adapter, name string, records []T) error {
	if records == nil {
		records = []T{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("persist: encode %s: %w", name, err)
	}
	if err := a.repo.Put(Key(name), string(b)); err != nil {
		return fmt.Errorf("persist: save %s: %w", name, err)
	}
	return nil
}

// Clear drops every saved collection.
func (a *Adapter) Clear() error {
	if err := a.repo.DeleteAll(); err != nil {
		return fmt.Errorf("persist: clear: %w", err)
	}
	return nil
}
