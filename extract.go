package trimarea

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/trimarea/internal/sink"
)

// Output names relative to the extractor's destination directory.
const (
	BootlogDir   = "bootlogs"
	DatabaseName = "sqlite.db"
)

// BootlogName returns the output name of boot log slot i (1-based).
func BootlogName(i int) string {
	return fmt.Sprintf("%s/bootlog%d.txt", BootlogDir, i)
}

// Result describes one file written by an Extractor.
type Result struct {
	// Field is the image range that was written.
	Field Field

	// Path is the final path of the output file.
	Path string

	// Digest covers the field bytes before any compression.
	Digest digest.Digest

	// Compression is the encoding of the file at Path.
	Compression Compression
}

// Extractor writes image fields to files below a destination directory.
//
// Every file is written atomically and then re-opened to verify that it holds
// exactly the field's length. A file that fails verification is removed.
type Extractor struct {
	img    *Image
	sink   *sink.FileSink
	verify func(path string, want int64, c Compression) error
}

// NewExtractor creates an Extractor that writes below destDir.
func NewExtractor(img *Image, destDir string, opts ...ExtractOption) *Extractor {
	cfg := extractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Extractor{
		img:    img,
		verify: sink.Verify,
		sink: sink.NewFileSink(destDir,
			sink.WithOverwrite(cfg.overwrite),
			sink.WithCompression(cfg.compression),
		),
	}
}

// DumpBootlogs writes every boot log slot of the family to bootlogs/bootlog<N>.txt,
// N counting from 1.
//
// Unknown layouts, out-of-range slots and existing outputs are all detected
// before the first file is written.
func (x *Extractor) DumpBootlogs(p Platform) ([]Result, error) {
	fields, err := p.Bootlogs()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = BootlogName(i + 1)
		if err := x.preflight(f, names[i]); err != nil {
			return nil, err
		}
	}

	results := make([]Result, 0, len(fields))
	for i, f := range fields {
		res, err := x.write(f, names[i])
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// DumpDatabase writes the embedded database to sqlite.db.
func (x *Extractor) DumpDatabase() (Result, error) {
	f, err := x.img.DatabaseField()
	if err != nil {
		return Result{}, err
	}
	return x.Dump(f, DatabaseName)
}

// Dump writes a single field to name.
func (x *Extractor) Dump(f Field, name string) (Result, error) {
	if err := x.preflight(f, name); err != nil {
		return Result{}, err
	}
	return x.write(f, name)
}

func (x *Extractor) preflight(f Field, name string) error {
	if err := x.img.check(f); err != nil {
		return err
	}
	return x.sink.Check(name)
}

func (x *Extractor) write(f Field, name string) (Result, error) {
	data, err := x.img.Slice(f)
	if err != nil {
		return Result{}, err
	}

	c, err := x.sink.WriteFile(name, data)
	if err != nil {
		return Result{}, wrapIO(err)
	}

	if err := x.verify(c.Path(), f.Length, x.sink.Compression()); err != nil {
		if errors.Is(err, ErrWriteVerification) {
			if rmErr := os.Remove(c.Path()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				return Result{}, errors.Join(err, wrapIO(rmErr))
			}
		}
		return Result{}, wrapIO(err)
	}

	return Result{
		Field:       f,
		Path:        c.Path(),
		Digest:      c.Digest(),
		Compression: x.sink.Compression(),
	}, nil
}

// wrapIO marks filesystem failures with ErrIO, leaving sink sentinels intact.
func wrapIO(err error) error {
	if errors.Is(err, ErrExists) || errors.Is(err, ErrWriteVerification) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}
