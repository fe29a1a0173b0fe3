package dict

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Romanizer derives readings for dictionaries with Romanize set.
type Romanizer interface {
	Reading(text string) string
	Plain(text string) string
}

// rawEntry is one line of a JSONL dictionary file.
type rawEntry struct {
	Headword    string   `json:"headword"`
	Reading     string   `json:"reading"`
	Definition  string   `json:"definition"`
	Definitions []string `json:"definitions"`
	Tags        []string `json:"tags"`
}

// ImportStats summarizes an import.
type ImportStats struct {
	Read     int
	Imported int
	Skipped  int
	Cleared  int64
}

// Importer loads JSONL dictionary files into a Store.
type Importer struct {
	store     *Store
	romanizer Romanizer
	normalize Normalizer
}

// NewImporter creates an importer. romanizer may be nil.
func NewImporter(store *Store, romanizer Romanizer) *Importer {
	imp := &Importer{store: store, romanizer: romanizer, normalize: lowerNormalizer{}}
	if romanizer != nil {
		imp.normalize = romanizer
	}
	return imp
}

// ImportFile imports a JSONL file into the given dictionary. When replace is
// set, existing entries of the dictionary are removed first.
func (imp *Importer) ImportFile(ctx context.Context, d Dictionary, path string, replace bool) (ImportStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("opening dictionary file: %w", err)
	}
	defer file.Close()

	return imp.Import(ctx, d, file, replace)
}

// Import reads JSONL entries from r. Blank lines are ignored and malformed
// lines or lines without a headword are counted as skipped. The whole file is
// parsed before the store is touched, and the entries are written in one
// transaction; with replace set, that transaction also removes the
// dictionary's existing entries, so a failed import leaves them intact.
func (imp *Importer) Import(ctx context.Context, d Dictionary, r io.Reader, replace bool) (ImportStats, error) {
	var stats ImportStats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var entries []Entry
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stats.Read++

		var raw rawEntry
		if err := json.Unmarshal([]byte(line), &raw); err != nil || strings.TrimSpace(raw.Headword) == "" {
			stats.Skipped++
			slog.Default().Debug("skipping dictionary line", "dict", d.ID, "line", lineNum)
			continue
		}

		entries = append(entries, imp.toEntry(d, raw))
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading dictionary file: %w", err)
	}

	if replace {
		cleared, err := imp.store.Replace(ctx, d.ID, entries)
		if err != nil {
			return stats, err
		}
		stats.Cleared = cleared
	} else if err := imp.store.Insert(ctx, entries); err != nil {
		return stats, err
	}
	stats.Imported = len(entries)

	slog.Default().Info("imported dictionary",
		"dict", d.ID,
		"read", stats.Read,
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"cleared", stats.Cleared)
	return stats, nil
}

// FilePreview summarizes a JSONL file without importing it.
type FilePreview struct {
	Lines     int
	Malformed int
	First     string
}

// PreviewFile scans a JSONL file the way Import does and reports how many
// entry lines it holds, how many would be skipped and the first headword.
func PreviewFile(path string) (FilePreview, error) {
	var p FilePreview

	file, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("opening dictionary file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p.Lines++

		var raw rawEntry
		if err := json.Unmarshal([]byte(line), &raw); err != nil || strings.TrimSpace(raw.Headword) == "" {
			p.Malformed++
			continue
		}
		if p.First == "" {
			p.First = strings.TrimSpace(raw.Headword)
		}
	}
	if err := scanner.Err(); err != nil {
		return p, fmt.Errorf("reading dictionary file: %w", err)
	}
	return p, nil
}

func (imp *Importer) toEntry(d Dictionary, raw rawEntry) Entry {
	headword := strings.TrimSpace(raw.Headword)
	reading := strings.TrimSpace(raw.Reading)

	definitions := raw.Definitions
	if raw.Definition != "" {
		definitions = append([]string{raw.Definition}, definitions...)
	}

	e := Entry{
		DictID:     d.ID,
		Headword:   headword,
		Reading:    reading,
		Definition: strings.Join(definitions, "; "),
		Tags:       strings.Join(raw.Tags, ","),
	}

	if d.Romanize && imp.romanizer != nil && e.Reading == "" {
		e.Reading = imp.romanizer.Reading(headword)
	}
	if e.Reading != "" {
		e.ReadingPlain = imp.normalize.Plain(e.Reading)
	} else {
		e.ReadingPlain = imp.normalize.Plain(headword)
	}
	return e
}
