package trimarea

import "fmt"

// Kind describes how a field's bytes are interpreted.
type Kind uint8

const (
	// KindRaw fields are copied out unchanged.
	KindRaw Kind = iota
	// KindText fields hold UTF-8 text.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Field locates a named byte range inside an image.
type Field struct {
	Name   string
	Offset int64
	Length int64
	Kind   Kind
}

func (f Field) String() string {
	return fmt.Sprintf("%s@0x%X+%d", f.Name, f.Offset, f.Length)
}

// End returns the offset one past the last byte of the field.
func (f Field) End() int64 {
	return f.Offset + f.Length
}

// Layout constants.
const (
	// ImageSize is the exact size of a TA image in bytes.
	ImageSize = 2097152

	// BootlogSize is the size of one boot log slot.
	BootlogSize = 14309

	// DatabaseOffset is the start of the embedded SQLite database.
	DatabaseOffset = 0x20044

	// databaseExponentOffset is the position of the size exponent relative to DatabaseOffset.
	databaseExponentOffset = 16
)

// Magic is the two-byte header every TA image starts with.
var Magic = [2]byte{0xC1, 0xE9}

// Fixed fields.
var (
	// BuildIDField holds the firmware build identifier. 32 bytes covers every
	// known device; shorter ids are NUL padded.
	BuildIDField = Field{Name: "buildid", Offset: 0x7B4, Length: 32, Kind: KindText}

	// SerialField holds the device serial number.
	SerialField = Field{Name: "serial", Offset: 0x600B4, Length: 10, Kind: KindText}

	// DatabaseExponentField holds n, where the database is 2^n bytes long.
	DatabaseExponentField = Field{Name: "sqlitedb-size", Offset: DatabaseOffset + databaseExponentOffset, Length: 2, Kind: KindRaw}
)
