package dict

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DefaultLimit caps results when a query sets no limit.
const DefaultLimit = 50

// candidateFactor widens the SQL fetch so ranking sees more than the final page.
const candidateFactor = 10

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	dict_id       TEXT NOT NULL,
	headword      TEXT NOT NULL,
	reading       TEXT NOT NULL DEFAULT '',
	reading_plain TEXT NOT NULL DEFAULT '',
	definition    TEXT NOT NULL DEFAULT '',
	tags          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_entries_dict_headword ON entries(dict_id, headword);
CREATE INDEX IF NOT EXISTS idx_entries_dict_reading ON entries(dict_id, reading_plain);
`

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Normalizer turns query text into the plain reading form stored in reading_plain.
type Normalizer interface {
	Plain(text string) string
}

type lowerNormalizer struct{}

func (lowerNormalizer) Plain(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), "")
}

// Store is a SQLite-backed entry store.
type Store struct {
	db         *sqlx.DB
	normalizer Normalizer
}

// Open opens (and creates if needed) the store at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows a single writer; one connection keeps transactions simple.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, normalizer: lowerNormalizer{}}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// SetNormalizer replaces the query normalizer used by Search.
func (s *Store) SetNormalizer(n Normalizer) {
	if n == nil {
		n = lowerNormalizer{}
	}
	s.normalizer = n
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Insert adds entries in a single transaction.
func (s *Store) Insert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return insertEntries(ctx, tx, entries)
	})
}

// Replace swaps all entries of a dictionary for entries in one transaction,
// so a failure leaves the previous entries in place. It returns the number
// of entries removed.
func (s *Store) Replace(ctx context.Context, dictID string, entries []Entry) (int64, error) {
	var cleared int64
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE dict_id = ?`, dictID)
		if err != nil {
			return fmt.Errorf("clearing %s: %w", dictID, err)
		}
		cleared, _ = res.RowsAffected()
		return insertEntries(ctx, tx, entries)
	})
	if err != nil {
		return 0, err
	}
	return cleared, nil
}

// Clear removes all entries of a dictionary.
func (s *Store) Clear(ctx context.Context, dictID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE dict_id = ?`, dictID)
	if err != nil {
		return 0, fmt.Errorf("clearing %s: %w", dictID, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entries: %w", err)
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sqlx.Tx, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO entries (dict_id, headword, reading, reading_plain, definition, tags)
		VALUES (:dict_id, :headword, :reading, :reading_plain, :definition, :tags)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e); err != nil {
			return fmt.Errorf("inserting %q: %w", e.Headword, err)
		}
	}

	slog.Default().Debug("inserted entries", "count", len(entries))
	return nil
}

// Counts returns the number of entries per dictionary ID.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		DictID string `db:"dict_id"`
		N      int    `db:"n"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT dict_id, COUNT(*) AS n FROM entries GROUP BY dict_id`); err != nil {
		return nil, fmt.Errorf("counting entries: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.DictID] = r.N
	}
	return counts, nil
}

// Search finds entries whose headword, plain reading or definition contains the
// query text, ranked by Rank.
func (s *Store) Search(ctx context.Context, q Query) ([]Result, error) {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if len(q.DictIDs) == 0 {
		return nil, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	plain := s.normalizer.Plain(text)

	like := "%" + escapeLike(text) + "%"
	plainLike := like
	if plain != "" {
		plainLike = "%" + escapeLike(plain) + "%"
	}

	query, args, err := sqlx.In(`
		SELECT id, dict_id, headword, reading, reading_plain, definition, tags
		FROM entries
		WHERE dict_id IN (?)
		  AND (lower(headword) LIKE ? ESCAPE '\'
		       OR reading_plain LIKE ? ESCAPE '\'
		       OR lower(definition) LIKE ? ESCAPE '\')
		LIMIT ?`,
		q.DictIDs, like, plainLike, like, limit*candidateFactor)
	if err != nil {
		return nil, fmt.Errorf("building search query: %w", err)
	}

	var entries []Entry
	if err := s.db.SelectContext(ctx, &entries, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("searching entries: %w", err)
	}

	results := make([]Result, len(entries))
	for i, e := range entries {
		results[i] = Result{Entry: e, Score: Rank(text, plain, e)}
	}
	SortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}

	slog.Default().Debug("search",
		"query", text,
		"dicts", strings.Join(q.DictIDs, ","),
		"candidates", len(entries),
		"results", len(results))
	return results, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
