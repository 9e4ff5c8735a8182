package pnmview

import (
	"bufio"
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bodgit/pnmview/pnm"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is a single cataloged image.
type Entry struct {
	SHA1       string
	Path       string
	Header     pnm.Header
	Channels   int
	SampleSize int
}

func newEntry(sha, path string, h pnm.Header) *Entry {
	return &Entry{
		SHA1:       sha,
		Path:       path,
		Header:     h,
		Channels:   h.Magic.Channels(),
		SampleSize: h.SampleSize(),
	}
}

// Catalog is an SQLite database of decodable images keyed by the SHA-1 of
// their contents.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens or creates the catalog stored in file.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// SQLite only allows a single writer
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, path TEXT NOT NULL, magic TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, maxval INTEGER NOT NULL, channels INTEGER NOT NULL, sample_size INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add reads the header of the image at path, checks the file holds all of
// the samples and records it. A file that isn't a valid image returns an
// error matching one of the pnm errors.
func (c *Catalog) Add(path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New()
	br := bufio.NewReader(io.TeeReader(f, h))

	header, err := pnm.ReadHeader(br)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// Drain the rest through the hash, counting what's left for samples
	n, err := io.Copy(io.Discard, br)
	if err != nil {
		return nil, err
	}
	if need := int64(header.Samples() * header.SampleSize()); n < need {
		return nil, fmt.Errorf("%s: %w: need %d bytes, have %d", path, pnm.ErrTruncatedData, need, n)
	}

	e := newEntry(fmt.Sprintf("%X", h.Sum(nil)), path, header)

	var id int64
	switch err := c.db.QueryRow("SELECT id FROM image WHERE sha1 = ?", e.SHA1).Scan(&id); err {
	case sql.ErrNoRows:
		if _, err := c.db.Exec("INSERT OR IGNORE INTO image (sha1, path, magic, width, height, maxval, channels, sample_size) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", e.SHA1, e.Path, e.Header.Magic.String(), e.Header.Width, e.Header.Height, e.Header.MaxVal, e.Channels, e.SampleSize); err != nil {
			return nil, err
		}
	case nil:
		if _, err := c.db.Exec("UPDATE image SET path = ? WHERE id = ?", e.Path, id); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return e, nil
}

func scanEntry(row interface{ Scan(...interface{}) error }) (*Entry, error) {
	var (
		e     Entry
		magic string
	)
	if err := row.Scan(&e.SHA1, &e.Path, &magic, &e.Header.Width, &e.Header.Height, &e.Header.MaxVal, &e.Channels, &e.SampleSize); err != nil {
		return nil, err
	}

	switch magic {
	case pnm.Gray.String():
		e.Header.Magic = pnm.Gray
	case pnm.RGB.String():
		e.Header.Magic = pnm.RGB
	default:
		return nil, fmt.Errorf("catalog: bad magic %q for %s", magic, e.SHA1)
	}

	return &e, nil
}

// Find returns the entry with the given SHA-1, or nil if there isn't one.
func (c *Catalog) Find(sha string) (*Entry, error) {
	e, err := scanEntry(c.db.QueryRow("SELECT sha1, path, magic, width, height, maxval, channels, sample_size FROM image WHERE sha1 = ?", sha))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// List returns every entry ordered by path.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query("SELECT sha1, path, magic, width, height, maxval, channels, sample_size FROM image ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

// Count returns the number of entries.
func (c *Catalog) Count() (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM image").Scan(&n)
	return n, err
}
