// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache is the local paper store: raw PDFs on disk, YAML metadata
// sidecars, and a SQLite index for lookups. A cached paper is never
// re-downloaded.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/agustif/llm-arxiv/pkg/types"
)

const (
	rawDir      = "raw"
	metadataDir = "metadata"
	indexDir    = "index"
	dbFile      = "papers.db"
)

// ErrMiss reports that a paper is not in the store.
var ErrMiss = errors.New("paper not in local store")

// Store manages the on-disk paper cache.
type Store struct {
	db        *sql.DB
	papersDir string
}

// Open opens or creates the store under papersDir, creating the directory
// layout and SQLite schema as needed.
func Open(papersDir string) (*Store, error) {
	for _, dir := range []string{
		filepath.Join(papersDir, rawDir),
		filepath.Join(papersDir, metadataDir),
		filepath.Join(papersDir, indexDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	dbPath := filepath.Join(papersDir, indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, papersDir: papersDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	const stmt = `CREATE TABLE IF NOT EXISTS papers (
		id TEXT PRIMARY KEY,
		title TEXT,
		authors TEXT,
		abstract TEXT,
		categories TEXT,
		published TEXT,
		updated TEXT,
		source_url TEXT,
		pdf_url TEXT,
		pdf_path TEXT,
		fetched_at TEXT
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// slug returns a filesystem-safe filename stem for an arXiv ID. Legacy IDs
// contain a slash ("hep-th/0101001").
func slug(id string) string {
	return strings.ReplaceAll(id, "/", "-")
}

// Get returns the cached metadata and PDF bytes for id, or ErrMiss.
func (s *Store) Get(id string) (*types.Paper, []byte, error) {
	row := s.db.QueryRow(
		`SELECT title, authors, abstract, categories, published, updated,
		        source_url, pdf_url, pdf_path, fetched_at
		 FROM papers WHERE id = ?`, id)

	var p types.Paper
	var authors, categories, published, updated, pdfPath, fetchedAt string
	err := row.Scan(&p.Title, &authors, &p.Abstract, &categories,
		&published, &updated, &p.SourceURL, &p.PDFURL, &pdfPath, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrMiss
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying paper %s: %w", id, err)
	}

	p.ID = id
	p.Authors = splitList(authors)
	p.Categories = splitList(categories)
	p.Published = parseTime(published)
	p.Updated = parseTime(updated)
	p.FetchedAt = parseTime(fetchedAt)

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		// Index row without its PDF: treat as a miss so the caller refetches.
		return nil, nil, ErrMiss
	}
	return &p, pdf, nil
}

// Put stores the PDF, writes the YAML metadata sidecar, and indexes the
// paper. An existing entry for the same ID is replaced.
func (s *Store) Put(p *types.Paper, pdf []byte) error {
	stem := slug(p.ID)
	pdfPath := filepath.Join(s.papersDir, rawDir, stem+".pdf")
	metaPath := filepath.Join(s.papersDir, metadataDir, stem+".yaml")

	if err := writeFileAtomic(pdfPath, pdf); err != nil {
		return fmt.Errorf("writing PDF for %s: %w", p.ID, err)
	}

	stored := *p
	if stored.FetchedAt.IsZero() {
		stored.FetchedAt = time.Now().UTC()
	}

	meta, err := yaml.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, meta, 0o644); err != nil {
		return fmt.Errorf("writing metadata for %s: %w", p.ID, err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO papers
		 (id, title, authors, abstract, categories, published, updated,
		  source_url, pdf_url, pdf_path, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.Title, joinList(stored.Authors), stored.Abstract,
		joinList(stored.Categories), formatTime(stored.Published),
		formatTime(stored.Updated), stored.SourceURL, stored.PDFURL,
		pdfPath, formatTime(stored.FetchedAt))
	if err != nil {
		return fmt.Errorf("indexing paper %s: %w", stored.ID, err)
	}
	return nil
}

// writeFileAtomic writes via a temp file and rename so a crash never
// leaves a truncated PDF behind.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fetch-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return closeErr
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func joinList(items []string) string {
	return strings.Join(items, "\x1f")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\x1f")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
