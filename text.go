package trimarea

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Text returns the field as a string after checking that it is valid UTF-8.
// The whole field is returned, including any NUL padding.
func (img *Image) Text(f Field) (string, error) {
	raw, err := img.Slice(f)
	if err != nil {
		return "", err
	}
	return decodeText(f, raw)
}

func decodeText(f Field, raw []byte) (string, error) {
	out, n, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: invalid UTF-8 at offset 0x%X: %w", ErrDecode, f.Name, f.Offset+int64(n), err)
	}
	return string(out), nil
}
