package trimarea

import (
	"encoding/binary"
	"fmt"

	"github.com/meigma/trimarea/internal/sizing"
)

// DatabaseSize returns the size in bytes of a database whose exponent field is n.
func DatabaseSize(n uint16) (int64, error) {
	size, err := sizing.Pow2(n, ErrSizeOverflow)
	if err != nil {
		return 0, fmt.Errorf("%w: 2^%d", err, n)
	}
	return size, nil
}

// DatabaseExponent returns n, the little-endian size exponent stored in the database header.
func (img *Image) DatabaseExponent() (uint16, error) {
	raw, err := img.Slice(DatabaseExponentField)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(raw), nil
}

// DatabaseField returns the field covering the embedded database.
func (img *Image) DatabaseField() (Field, error) {
	n, err := img.DatabaseExponent()
	if err != nil {
		return Field{}, err
	}
	size, err := DatabaseSize(n)
	if err != nil {
		return Field{}, err
	}
	f := Field{Name: "sqlitedb", Offset: DatabaseOffset, Length: size, Kind: KindRaw}
	if err := img.check(f); err != nil {
		return Field{}, err
	}
	return f, nil
}

// Database returns a copy of the embedded database.
func (img *Image) Database() ([]byte, error) {
	f, err := img.DatabaseField()
	if err != nil {
		return nil, err
	}
	return img.Slice(f)
}
