// Package config handles loading and saving dsearch configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/dsearch/internal/dict"
	"gopkg.in/yaml.v3"
)

// File names inside the config directory.
const (
	DictionariesFile = "dictionaries.yaml"
	SettingsFile     = "dsearch.yaml"
	DatabaseFile     = "entries.db"
	LogFile          = "dsearch.log"
)

// Settings holds general application settings read through viper.
type Settings struct {
	DefaultTarget string `yaml:"default_target" mapstructure:"default_target"` // Dictionary ID or "*"
	ResultLimit   int    `yaml:"result_limit" mapstructure:"result_limit"`     // Max results per search
	Database      string `yaml:"database,omitempty" mapstructure:"database"`   // Database path; defaults to the config dir
	FontPath      string `yaml:"font_path,omitempty" mapstructure:"font_path"` // CJK font for headword art
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		DefaultTarget: string(dict.AllTarget),
		ResultLimit:   dict.DefaultLimit,
	}
}

// DefaultDictionaries returns the dictionaries written by `dsearch init`.
func DefaultDictionaries() []dict.Dictionary {
	return []dict.Dictionary{
		{ID: "zh-en", Name: "Chinese → English", Language: "zh", Gloss: "en", Source: "cedict.jsonl", Romanize: true},
		{ID: "ja-en", Name: "Japanese → English", Language: "ja", Gloss: "en", Source: "jmdict.jsonl"},
		{ID: "en-en", Name: "English", Language: "en", Gloss: "en", Source: "wordnet.jsonl"},
	}
}

// LoadDictionaries loads the dictionary registry from a YAML file.
func LoadDictionaries(path string) ([]dict.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dictionaries file: %w", err)
	}

	var dicts struct {
		Dictionaries []dict.Dictionary `yaml:"dictionaries"`
	}
	if err := yaml.Unmarshal(data, &dicts); err != nil {
		return nil, fmt.Errorf("parsing dictionaries file: %w", err)
	}

	return dicts.Dictionaries, nil
}

// SaveDictionaries saves the dictionary registry to a YAML file.
func SaveDictionaries(path string, dicts []dict.Dictionary) error {
	data := struct {
		Dictionaries []dict.Dictionary `yaml:"dictionaries"`
	}{Dictionaries: dicts}

	out, err := yaml.Marshal(&data)
	if err != nil {
		return fmt.Errorf("marshaling dictionaries: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing dictionaries file: %w", err)
	}

	return nil
}

// SaveSettings saves settings to a YAML file.
func SaveSettings(path string, s Settings) error {
	out, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}

// DatabasePath returns the configured database path, or the default inside dir.
func (s Settings) DatabasePath(dir string) string {
	if s.Database != "" {
		return s.Database
	}
	return filepath.Join(dir, DatabaseFile)
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dsearch"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dsearch"), nil
}

// EnsureDir creates the config directory if it doesn't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}
