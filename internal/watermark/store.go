package watermark

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"

	"filtersync/internal/errorwrapper"
)

// Store maps canonical source descriptors to the last-applied watermark.
// It is loaded once at process start, mutated in memory per processed
// source, and persisted exactly once after all sources are processed.
type Store struct {
	entries map[string]string
	logger  zerolog.Logger
}

// Load reads the store from its JSON document. A missing or corrupt file
// means starting fresh: it is logged as a warning, never propagated.
func Load(path string, logger zerolog.Logger) *Store {
	store := &Store{
		entries: make(map[string]string),
		logger:  logger.With().Str("component", "WatermarkStore").Logger(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			store.logger.Warn().Err(err).Str("path", path).Msg("Could not read existing watermark file, starting from scratch")
		}
		return store
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		store.logger.Warn().Err(err).Str("path", path).Msg("Could not parse existing watermark file, starting from scratch")
		return store
	}

	// A file containing JSON null decodes without error but yields no map.
	if entries != nil {
		store.entries = entries
	}
	return store
}

// Save persists the store as pretty-printed JSON by whole-file overwrite
func (s *Store) Save(path string) error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return errorwrapper.NewPersistenceError(path, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errorwrapper.NewPersistenceError(path, err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return errorwrapper.NewPersistenceError(path, err)
	}

	s.logger.Info().Str("path", path).Int("entries", len(s.entries)).Msg("Saved watermarks")
	return nil
}

// Get returns the stored watermark for a canonical descriptor
func (s *Store) Get(descriptor string) (string, bool) {
	value, ok := s.entries[descriptor]
	return value, ok
}

// Set records the watermark for a canonical descriptor in memory
func (s *Store) Set(descriptor, mark string) {
	s.entries[descriptor] = mark
}

// Clear empties the store in place, forcing re-installation of every source
func (s *Store) Clear() {
	s.entries = make(map[string]string)
}

// Len returns the number of stored watermarks
func (s *Store) Len() int {
	return len(s.entries)
}
