// Package lookup holds the DOI to bibcode table used to keep bibcodes stable
// across reprocessing, and the record overrides applied before translation.
package lookup

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a DOI has no bibcode in the table.
var ErrNotFound = errors.New("doi not in lookup table")

// DefaultCacheSize is the number of DOIs kept in memory.
const DefaultCacheSize = 4096

// Table is a SQLite-backed DOI to bibcode map with an LRU read cache.
type Table struct {
	db    *sql.DB
	cache *lru.Cache[string, string]
}

// Open opens or creates the lookup table at path.
func Open(path string) (*Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening lookup database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	cache, err := lru.New[string, string](DefaultCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating lookup cache: %w", err)
	}

	return &Table{db: db, cache: cache}, nil
}

// Close closes the database connection.
func (t *Table) Close() error {
	return t.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS doi_bibcode (
			doi TEXT PRIMARY KEY,
			bibcode TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_doi_bibcode_bibcode ON doi_bibcode(bibcode);
	`
	_, err := db.Exec(schema)
	return err
}

// NormalizeDOI lower-cases a DOI and strips resolver prefixes.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if len(doi) >= len(prefix) && strings.EqualFold(doi[:len(prefix)], prefix) {
			doi = doi[len(prefix):]
			break
		}
	}
	return strings.ToLower(doi)
}

// Get returns the bibcode recorded for doi.
func (t *Table) Get(doi string) (string, error) {
	key := NormalizeDOI(doi)
	if key == "" {
		return "", ErrNotFound
	}
	if bibcode, ok := t.cache.Get(key); ok {
		return bibcode, nil
	}

	var bibcode string
	err := t.db.QueryRow("SELECT bibcode FROM doi_bibcode WHERE doi = ?", key).Scan(&bibcode)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%s: %w", doi, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("querying lookup table: %w", err)
	}

	t.cache.Add(key, bibcode)
	return bibcode, nil
}

// Put records or replaces the bibcode for doi.
func (t *Table) Put(doi, bibcode string) error {
	key := NormalizeDOI(doi)
	if key == "" || bibcode == "" {
		return fmt.Errorf("doi and bibcode are both required")
	}
	_, err := t.db.Exec(`
		INSERT INTO doi_bibcode (doi, bibcode) VALUES (?, ?)
		ON CONFLICT(doi) DO UPDATE SET bibcode = excluded.bibcode
	`, key, bibcode)
	if err != nil {
		return fmt.Errorf("storing %s: %w", doi, err)
	}
	t.cache.Add(key, bibcode)
	return nil
}

// Count returns the number of DOIs in the table.
func (t *Table) Count() (int, error) {
	var n int
	if err := t.db.QueryRow("SELECT COUNT(*) FROM doi_bibcode").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting lookup rows: %w", err)
	}
	return n, nil
}

// ImportTSV loads "bibcode<TAB>doi" lines, the layout of the classic
// bibcode-to-DOI maps. Blank lines and lines starting with '#' are ignored.
// Returns the number of rows stored.
func (t *Table) ImportTSV(r io.Reader) (int, error) {
	tx, err := t.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO doi_bibcode (doi, bibcode) VALUES (?, ?)
		ON CONFLICT(doi) DO UPDATE SET bibcode = excluded.bibcode
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing import insert: %w", err)
	}
	defer stmt.Close()

	scanner := bufio.NewScanner(r)
	lineNum := 0
	count := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return 0, fmt.Errorf("line %d: expected bibcode and doi separated by a tab", lineNum)
		}
		bibcode := strings.TrimSpace(fields[0])
		doi := NormalizeDOI(fields[1])
		if bibcode == "" || doi == "" {
			return 0, fmt.Errorf("line %d: empty bibcode or doi", lineNum)
		}

		if _, err := stmt.Exec(doi, bibcode); err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNum, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	t.cache.Purge()
	return count, nil
}
