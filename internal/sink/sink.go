// Package sink writes extracted regions to the filesystem.
//
// Files are written to a temporary file in the destination directory and renamed
// into place on Commit, so a partially written region is never visible at its final
// path. Content can optionally be zstd-encoded; the digest always covers the
// unencoded bytes.
package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/opencontainers/go-digest"
)

// FileSink writes named regions below a destination directory.
type FileSink struct {
	destDir     string
	overwrite   bool
	compression Compression
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithOverwrite allows replacing existing files.
// By default, Writer fails with ErrExists when the destination exists.
func WithOverwrite(overwrite bool) FileSinkOption {
	return func(s *FileSink) {
		s.overwrite = overwrite
	}
}

// WithCompression sets the encoding applied to written files.
func WithCompression(c Compression) FileSinkOption {
	return func(s *FileSink) {
		s.compression = c
	}
}

// NewFileSink creates a FileSink that writes to destDir.
// Parent directories are created automatically as needed.
func NewFileSink(destDir string, opts ...FileSinkOption) *FileSink {
	s := &FileSink{
		destDir: destDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compression returns the encoding applied to written files.
func (s *FileSink) Compression() Compression {
	return s.compression
}

// Path returns the final path for name, including any compression suffix.
func (s *FileSink) Path(name string) string {
	return filepath.Join(s.destDir, filepath.FromSlash(name)) + s.compression.Ext()
}

// Check returns ErrExists if name would replace an existing file and overwrite is disabled.
func (s *FileSink) Check(name string) error {
	if s.overwrite {
		return nil
	}
	path := s.Path(name)
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	return nil
}

// Writer returns a Committer that writes to a temp file and renames on Commit.
func (s *FileSink) Writer(name string) (*Committer, error) {
	if err := s.Check(name); err != nil {
		return nil, err
	}
	destPath := s.Path(name)

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tempFile, err := os.CreateTemp(dir, ".untamed-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	c := &Committer{
		destPath: destPath,
		tempFile: tempFile,
		digester: digest.Canonical.Digester(),
		out:      tempFile,
	}
	if s.compression == CompressionZstd {
		enc, err := zstd.NewWriter(tempFile, zstd.WithEncoderConcurrency(1))
		if err != nil {
			_ = tempFile.Close()
			_ = os.Remove(tempFile.Name()) //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		c.enc = enc
		c.out = enc
	}
	return c, nil
}

// Committer writes one file. Exactly one of Commit or Discard must be called.
type Committer struct {
	destPath string
	tempFile *os.File
	enc      *zstd.Encoder
	out      io.Writer
	digester digest.Digester
	written  int64
}

// Write implements io.Writer.
func (c *Committer) Write(p []byte) (int, error) {
	n, err := c.out.Write(p)
	if n > 0 {
		_, _ = c.digester.Hash().Write(p[:n]) //nolint:errcheck // hash writes never fail
		c.written += int64(n)
	}
	return n, err
}

// Path returns the final destination path.
func (c *Committer) Path() string {
	return c.destPath
}

// Written returns the number of unencoded bytes written so far.
func (c *Committer) Written() int64 {
	return c.written
}

// Digest returns the digest of the unencoded bytes written so far.
func (c *Committer) Digest() digest.Digest {
	return c.digester.Digest()
}

// Commit flushes the encoder, closes the temp file and renames it to the final path.
func (c *Committer) Commit() error {
	tempPath := c.tempFile.Name()

	if c.enc != nil {
		if err := c.enc.Close(); err != nil {
			_ = c.tempFile.Close()
			_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
			return fmt.Errorf("flush zstd encoder: %w", err)
		}
	}

	if err := c.tempFile.Sync(); err != nil {
		_ = c.tempFile.Close()
		_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := c.tempFile.Close(); err != nil {
		_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close temp file: %w", err)
	}

	// CreateTemp uses 0600; outputs are regular user files.
	if err := os.Chmod(tempPath, 0o644); err != nil { //nolint:gosec // dumps are meant to be readable
		_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("chmod: %w", err)
	}

	if err := os.Rename(tempPath, c.destPath); err != nil {
		_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("rename to %s: %w", c.destPath, err)
	}

	return nil
}

// Discard closes and removes the temp file.
func (c *Committer) Discard() error {
	tempPath := c.tempFile.Name()
	if c.enc != nil {
		_ = c.enc.Close() //nolint:errcheck // we're cleaning up
	}
	_ = c.tempFile.Close() //nolint:errcheck // we're cleaning up
	return os.Remove(tempPath)
}

// WriteFile writes data to name and commits it.
func (s *FileSink) WriteFile(name string, data []byte) (*Committer, error) {
	c, err := s.Writer(name)
	if err != nil {
		return nil, err
	}
	if _, err := c.Write(data); err != nil {
		_ = c.Discard() //nolint:errcheck // write error takes precedence
		return nil, fmt.Errorf("write %s: %w", c.Path(), err)
	}
	if err := c.Commit(); err != nil {
		return nil, err
	}
	return c, nil
}
