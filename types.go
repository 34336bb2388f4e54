package trimarea

import "github.com/meigma/trimarea/internal/sink"

// Compression identifies the encoding applied to dumped files.
type Compression = sink.Compression

// Compression constants.
const (
	CompressionNone = sink.CompressionNone
	CompressionZstd = sink.CompressionZstd
)

// ParseCompression converts a compression name as printed by Compression.String.
func ParseCompression(name string) (Compression, bool) {
	switch name {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	default:
		return CompressionNone, false
	}
}
