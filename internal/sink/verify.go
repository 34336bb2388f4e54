package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Verify re-opens path and checks that it holds exactly want bytes of content.
//
// For CompressionNone the on-disk size is compared. For CompressionZstd the file is
// decoded and the decoded bytes are counted.
func Verify(path string, want int64, c Compression) error {
	got, err := contentSize(path, c)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: %s: expected %d bytes, got %d", ErrVerification, path, want, got)
	}
	return nil
}

func contentSize(path string, c Compression) (int64, error) {
	switch c {
	case CompressionNone:
		info, err := os.Stat(path)
		if err != nil {
			return 0, fmt.Errorf("stat %s: %w", path, err)
		}
		return info.Size(), nil
	case CompressionZstd:
		f, err := os.Open(path) //nolint:gosec // path was produced by the sink
		if err != nil {
			return 0, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return 0, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()

		n, err := io.Copy(io.Discard, dec)
		if err != nil {
			return n, fmt.Errorf("decode %s: %w", path, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported compression %s", c)
	}
}
