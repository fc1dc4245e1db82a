package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Prefs holds viewer settings that persist across sessions.
type Prefs struct {
	// ContextLines is how many source lines are shown on each side of a
	// finding.
	ContextLines int `json:"context_lines"`
	// ShowAutofix shows the generated remediation under secret findings.
	ShowAutofix bool `json:"show_autofix"`
}

// DefaultPrefs returns the default preferences.
func DefaultPrefs() Prefs {
	return Prefs{ContextLines: 3, ShowAutofix: true}
}

func prefsPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "codeshield", "tui_prefs.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "codeshield", "tui_prefs.json"), nil
}

// LoadPrefs loads preferences from disk, returning defaults if not found.
func LoadPrefs() Prefs {
	prefs := DefaultPrefs()
	path, err := prefsPath()
	if err != nil {
		return prefs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}
	_ = json.Unmarshal(data, &prefs)
	if prefs.ContextLines < 0 || prefs.ContextLines > 20 {
		prefs.ContextLines = DefaultPrefs().ContextLines
	}
	return prefs
}

// SavePrefs persists preferences to disk.
func SavePrefs(prefs Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
