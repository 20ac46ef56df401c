/*
Package catalog maintains a sqlite database of decoded TGA images.

Each image is stored once, keyed by a digest of the file contents, with its
pixels compressed using zstd. Any number of file paths can refer to the same
image.
*/
package catalog

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/tga"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by Lookup for paths not in the catalog.
var ErrNotFound = errors.New("catalog: not found")

var errCorrupt = errors.New("catalog: corrupt pixel data")

// Catalog is a database of decoded images.
type Catalog struct {
	db     *sql.DB
	logger *log.Logger

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New opens or creates the catalog database in file.
func New(file string, logger *log.Logger) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Writers are serialised through a single connection
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, digest TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, layout INTEGER NOT NULL, pixels BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS file (path TEXT NOT NULL UNIQUE, image_id INTEGER NOT NULL, FOREIGN KEY(image_id) REFERENCES image(id))"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &Catalog{
		db:     db,
		logger: logger,
		enc:    enc,
		dec:    dec,
	}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	c.dec.Close()
	if err := c.enc.Close(); err != nil {
		c.db.Close()
		return err
	}
	return c.db.Close()
}

func (c *Catalog) findImage(digest string) (int64, error) {
	var id int64
	if err := c.db.QueryRow("SELECT id FROM image WHERE digest = ?", digest).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Catalog) addImage(digest string, b []byte) (int64, error) {
	switch id, err := c.findImage(digest); err {
	case sql.ErrNoRows:
	case nil:
		return id, nil
	default:
		return 0, err
	}

	rd, err := tga.NewReader(bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	m, err := rd.Image(nil)
	if err != nil {
		return 0, err
	}

	// Another worker may have added the same image in the meantime
	if _, err := c.db.Exec("INSERT OR IGNORE INTO image (digest, width, height, layout, pixels) VALUES (?, ?, ?, ?, ?)", digest, m.Width, m.Height, int(m.Layout), c.enc.EncodeAll(m.Pix, nil)); err != nil {
		return 0, err
	}

	return c.findImage(digest)
}

// Add decodes the TGA image in file and records it under its absolute path.
// Files with identical contents share one stored image.
func (c *Catalog) Add(file string) (int64, error) {
	path, err := filepath.Abs(file)
	if err != nil {
		return 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return 0, err
	}

	id, err := c.addImage(fmt.Sprintf("%016X", xxhash.Sum64(b)), b)
	if err != nil {
		return 0, err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO file (path, image_id) VALUES (?, ?)", path, id); err != nil {
		return 0, err
	}

	return id, nil
}

// Lookup returns the image previously added for file.
func (c *Catalog) Lookup(file string) (*tga.Raster, error) {
	path, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}

	var width, height, layout int
	var pixels []byte
	switch err := c.db.QueryRow("SELECT i.width, i.height, i.layout, i.pixels FROM file AS f JOIN image AS i ON f.image_id = i.id WHERE f.path = ?", path).Scan(&width, &height, &layout, &pixels); err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
	default:
		return nil, err
	}

	m := tga.NewRaster(width, height, tga.Layout(layout))
	b, err := c.dec.DecodeAll(pixels, m.Pix[:0])
	if err != nil {
		return nil, err
	}
	if len(b) != len(m.Pix) {
		return nil, errCorrupt
	}

	return m, nil
}

// Stats returns the number of files and distinct images in the catalog.
func (c *Catalog) Stats() (files, images int, err error) {
	if err = c.db.QueryRow("SELECT COUNT(*) FROM file").Scan(&files); err != nil {
		return
	}
	err = c.db.QueryRow("SELECT COUNT(*) FROM image").Scan(&images)
	return
}
