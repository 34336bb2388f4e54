// Package testutil builds synthetic TA images for tests.
//
// The layout constants are repeated here rather than imported so that tests
// check the library against an independent description of the format.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Layout of a TA image as seen on tama devices.
const (
	ImageSize       = 2097152
	BuildIDOffset   = 0x7B4
	BuildIDSize     = 32
	SerialOffset    = 0x600B4
	SerialSize      = 10
	DatabaseOffset  = 0x20044
	ExponentOffset  = DatabaseOffset + 16
	BootlogSize     = 14309
	DefaultBuildID  = "52.1.A.0.532"
	DefaultSerial   = "CB512ABCDE"
	DefaultExponent = 12
)

// TamaBootlogOffsets are the boot log slots of the tama family.
var TamaBootlogOffsets = []int64{
	0x2A22E, 0x2DA22, 0x31CEE, 0x3542A, 0x38C46,
	0x3C7A2, 0x65412, 0x68C2E, 0x6C78A, 0x70A2E,
}

type imageConfig struct {
	size     int
	magic    []byte
	buildID  []byte
	serial   []byte
	exponent uint16
	database []byte
}

// ImageOption adjusts a synthetic image.
type ImageOption func(*imageConfig)

// WithSize overrides the image length.
func WithSize(n int) ImageOption {
	return func(c *imageConfig) { c.size = n }
}

// WithMagic overrides the leading header bytes.
func WithMagic(b ...byte) ImageOption {
	return func(c *imageConfig) { c.magic = b }
}

// WithBuildID stores raw bytes in the build id field, NUL padded.
func WithBuildID(b []byte) ImageOption {
	return func(c *imageConfig) { c.buildID = b }
}

// WithSerial stores raw bytes in the serial field, NUL padded.
func WithSerial(b []byte) ImageOption {
	return func(c *imageConfig) { c.serial = b }
}

// WithDatabaseExponent stores n in the database size field.
func WithDatabaseExponent(n uint16) ImageOption {
	return func(c *imageConfig) { c.exponent = n }
}

// WithDatabase copies db to the database offset. The copy is written last, so
// its own bytes at offset 16 become the size exponent.
func WithDatabase(db []byte) ImageOption {
	return func(c *imageConfig) { c.database = db }
}

// Image returns a well-formed TA image, adjusted by opts.
//
// Every byte not covered by a field holds a position-dependent pattern, so
// slices taken at the wrong offset are detected.
func Image(opts ...ImageOption) []byte {
	cfg := imageConfig{
		size:     ImageSize,
		magic:    []byte{0xC1, 0xE9},
		buildID:  []byte(DefaultBuildID),
		serial:   []byte(DefaultSerial),
		exponent: DefaultExponent,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	data := make([]byte, cfg.size)
	for i := range data {
		data[i] = byte(i*31 + i>>8)
	}
	put := func(off int, b []byte, size int) {
		if off+size > len(data) {
			return
		}
		field := data[off : off+size]
		clear(field)
		copy(field, b)
	}

	put(0, cfg.magic, min(len(cfg.magic), len(data)))
	put(BuildIDOffset, cfg.buildID, BuildIDSize)
	put(SerialOffset, cfg.serial, SerialSize)
	if ExponentOffset+2 <= len(data) {
		binary.LittleEndian.PutUint16(data[ExponentOffset:], cfg.exponent)
	}
	if cfg.database != nil {
		put(DatabaseOffset, cfg.database, len(cfg.database))
	}
	return data
}

// WriteImage writes a synthetic image into a temp dir and returns its path.
func WriteImage(tb testing.TB, opts ...ImageOption) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "ta.img")
	if err := os.WriteFile(path, Image(opts...), 0o600); err != nil {
		tb.Fatalf("write image: %v", err)
	}
	return path
}

// Region returns data[off:off+n].
func Region(data []byte, off int64, n int) []byte {
	return data[off : off+int64(n)]
}
