package trimarea

import (
	"fmt"
	"io"
	"os"

	"github.com/meigma/trimarea/internal/sizing"
)

// Image is a validated, read-only TA image.
type Image struct {
	data []byte
}

// Open reads and validates the image at path.
func Open(path string) (*Image, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w: read image: %w", ErrIO, err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return &Image{data: data}, nil
}

// New validates data and returns an Image holding a private copy of it.
func New(data []byte) (*Image, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	return &Image{data: append([]byte(nil), data...)}, nil
}

// Validate checks the image size and then its magic header.
func Validate(data []byte) error {
	if len(data) != ImageSize {
		return fmt.Errorf("%w: got %d bytes, expected %d", ErrSizeMismatch, len(data), ImageSize)
	}
	if data[0] != Magic[0] || data[1] != Magic[1] {
		return fmt.Errorf("%w: got % X, expected % X", ErrMagicMismatch, data[:2], Magic[:])
	}
	return nil
}

// Size returns the image size in bytes.
func (img *Image) Size() int64 {
	return int64(len(img.data))
}

// ReadAt implements io.ReaderAt.
func (img *Image) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrFieldOutOfRange, off)
	}
	if off >= int64(len(img.data)) {
		return 0, io.EOF
	}
	n := copy(p, img.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Slice returns a copy of the bytes covered by f.
func (img *Image) Slice(f Field) ([]byte, error) {
	if err := img.check(f); err != nil {
		return nil, err
	}
	out := make([]byte, f.Length)
	copy(out, img.data[f.Offset:f.End()])
	return out, nil
}

// check reports ErrFieldOutOfRange if f does not lie inside the image.
func (img *Image) check(f Field) error {
	if !sizing.InRange(f.Offset, f.Length, img.Size()) {
		return fmt.Errorf("%w: %s exceeds image size %d", ErrFieldOutOfRange, f, img.Size())
	}
	return nil
}

// BuildID returns the firmware build identifier.
func (img *Image) BuildID() (string, error) {
	return img.Text(BuildIDField)
}

// Serial returns the device serial number.
func (img *Image) Serial() (string, error) {
	return img.Text(SerialField)
}

var _ io.ReaderAt = (*Image)(nil)
