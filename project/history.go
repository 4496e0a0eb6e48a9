package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const maxRecent = 10

// History remembers recently opened project roots, most recent first.
type History struct {
	path    string
	Recents []string `json:"recent_projects"`
}

// LoadHistory reads the history file under the user config directory,
// starting empty when it does not exist yet.
func LoadHistory() (*History, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return LoadHistoryFile(filepath.Join(configDir, "ahk-workbench", "recent.json"))
}

// LoadHistoryFile reads history from an explicit path.
func LoadHistoryFile(path string) (*History, error) {
	h := &History{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project history: %w", err)
	}
	if err := json.Unmarshal(data, h); err != nil {
		// A corrupt history file is not worth failing startup over.
		h.Recents = nil
	}
	return h, nil
}

// Add moves root to the front, dropping any earlier occurrence and
// anything beyond the cap, then persists the file.
func (h *History) Add(root string) error {
	recents := []string{root}
	for _, r := range h.Recents {
		if r == root {
			continue
		}
		recents = append(recents, r)
	}
	if len(recents) > maxRecent {
		recents = recents[:maxRecent]
	}
	h.Recents = recents
	return h.save()
}

func (h *History) save() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project history: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save project history: %w", err)
	}
	return nil
}
