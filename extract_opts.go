package trimarea

// ExtractOption configures an Extractor.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	overwrite   bool
	compression Compression
}

// WithOverwrite allows replacing existing output files.
// By default, an existing output fails the dump with ErrExists before anything is written.
func WithOverwrite(overwrite bool) ExtractOption {
	return func(c *extractConfig) {
		c.overwrite = overwrite
	}
}

// WithCompression encodes dumped files. CompressionZstd appends ".zst" to every output name.
func WithCompression(compression Compression) ExtractOption {
	return func(c *extractConfig) {
		c.compression = compression
	}
}
