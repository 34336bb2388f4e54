package sink

// Compression identifies the encoding applied to a file written by a FileSink.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Ext returns the file name suffix used for the compression.
func (c Compression) Ext() string {
	if c == CompressionZstd {
		return ".zst"
	}
	return ""
}
