package trimarea

import (
	"errors"

	"github.com/meigma/trimarea/internal/sink"
)

// Sentinel errors for image validation and extraction.
var (
	// ErrSizeMismatch is returned when an image is not exactly ImageSize bytes.
	ErrSizeMismatch = errors.New("trimarea: image size mismatch")

	// ErrMagicMismatch is returned when an image does not start with Magic.
	ErrMagicMismatch = errors.New("trimarea: image header mismatch")

	// ErrNotImplemented is returned for platforms whose boot log offsets are unknown.
	ErrNotImplemented = errors.New("trimarea: not implemented")

	// ErrUnknownPlatform is returned when a platform name is not recognized.
	ErrUnknownPlatform = errors.New("trimarea: unknown platform")

	// ErrDecode is returned when a text field is not valid UTF-8.
	ErrDecode = errors.New("trimarea: text decode failed")

	// ErrIO is returned when reading the image or writing an output fails.
	ErrIO = errors.New("trimarea: i/o error")

	// ErrFieldOutOfRange is returned when a field extends past the end of the image.
	ErrFieldOutOfRange = errors.New("trimarea: field out of range")

	// ErrSizeOverflow is returned when a computed size does not fit in an int64.
	ErrSizeOverflow = errors.New("trimarea: size overflow")
)

// Errors re-exported from the file sink.
var (
	// ErrWriteVerification is returned when a written file does not hold the expected number of bytes.
	ErrWriteVerification = sink.ErrVerification

	// ErrExists is returned when an output already exists and overwrite is disabled.
	ErrExists = sink.ErrExists
)
