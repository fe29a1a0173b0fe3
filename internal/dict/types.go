// Package dict holds dictionary descriptors, the entry store and search ranking.
package dict

import "errors"

// Target identifies what a query runs against: a dictionary ID or AllTarget.
type Target string

// AllTarget searches every registered dictionary.
const AllTarget Target = "*"

var (
	// ErrUnknownDictionary is returned when a target names no registered dictionary.
	ErrUnknownDictionary = errors.New("unknown dictionary")
	// ErrEmptyQuery is returned when a search has no text to match.
	ErrEmptyQuery = errors.New("empty query")
)

// Dictionary describes one searchable dictionary.
type Dictionary struct {
	ID       string `yaml:"id" json:"id"`                                 // Unique identifier (e.g., "zh-en")
	Name     string `yaml:"name" json:"name"`                             // Display name (e.g., "Chinese → English")
	Language string `yaml:"language" json:"language"`                     // Headword language (e.g., "zh")
	Gloss    string `yaml:"gloss" json:"gloss"`                           // Definition language (e.g., "en")
	Source   string `yaml:"source,omitempty" json:"source,omitempty"`     // Default JSONL file for imports
	Romanize bool   `yaml:"romanize,omitempty" json:"romanize,omitempty"` // Derive pinyin readings on import
}

// Target returns the target that selects only this dictionary.
func (d Dictionary) Target() Target {
	return Target(d.ID)
}

// Label returns the name, falling back to the ID.
func (d Dictionary) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// Entry is a single dictionary entry.
type Entry struct {
	ID           int64  `db:"id" json:"-"`
	DictID       string `db:"dict_id" json:"-"`
	Headword     string `db:"headword" json:"headword"`
	Reading      string `db:"reading" json:"reading,omitempty"`
	ReadingPlain string `db:"reading_plain" json:"-"`
	Definition   string `db:"definition" json:"definition"`
	Tags         string `db:"tags" json:"-"`
}

// Result is a ranked search hit.
type Result struct {
	Entry
	Score float64
}

// Query describes a search request against the store.
type Query struct {
	DictIDs []string
	Text    string
	Limit   int
}
