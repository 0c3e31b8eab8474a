// Package store persists the single save slot and the oracle credential
// as YAML/plain files under a save directory.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Crazy-Trade/Crypto-Game-AI/internal/game"
)

const (
	saveFile       = "savegame.yaml"
	credentialFile = "credentials"
)

var (
	ErrSaveCorrupt       = errors.New("saved game is corrupt")
	ErrCredentialMissing = errors.New("no oracle credential configured")
)

// Store reads and writes one game slot. It never mutates a GameState
// concurrently with the engine; it only sees serialized snapshots.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Save overwrites the slot with the given state and stamps LastSaved.
// A game whose history is still empty is not persisted.
func (s *Store) Save(state *game.GameState) error {
	if len(state.History) == 0 {
		return nil
	}
	state.LastSaved = time.Now()
	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, saveFile), data, 0644)
}

// Load returns the persisted state, or (nil, nil) when no save exists.
// Unparsable data is reported as ErrSaveCorrupt. Fields absent from an
// older save fall back to zero values; in particular a missing
// infrastructure section yields an empty 12-slot grid.
func (s *Store) Load() (*game.GameState, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, saveFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state game.GameState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveCorrupt, err)
	}
	return &state, nil
}

// Delete removes the slot. Removing an absent save is not an error.
func (s *Store) Delete() error {
	err := os.Remove(filepath.Join(s.dir, saveFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// SaveAPIKey stores the oracle credential beside the save slot.
func (s *Store) SaveAPIKey(key string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, credentialFile), []byte(strings.TrimSpace(key)+"\n"), 0600)
}

// LoadAPIKey returns the stored oracle credential.
func (s *Store) LoadAPIKey() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, credentialFile))
	if os.IsNotExist(err) {
		return "", ErrCredentialMissing
	}
	if err != nil {
		return "", err
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrCredentialMissing
	}
	return key, nil
}
