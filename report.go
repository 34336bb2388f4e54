package trimarea

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Media types used in extraction reports.
const (
	// MediaTypeBootlog identifies a dumped boot log slot.
	MediaTypeBootlog = "application/vnd.trimarea.bootlog.v1"

	// MediaTypeDatabase identifies a dumped SQLite database.
	MediaTypeDatabase = "application/vnd.trimarea.sqlite.v1"

	// MediaTypeRaw identifies any other dumped field.
	MediaTypeRaw = "application/vnd.trimarea.field.v1"
)

// Annotation keys used in extraction reports.
const (
	AnnotationField  = "org.trimarea.field"
	AnnotationOffset = "org.trimarea.offset"
	AnnotationPath   = "org.trimarea.path"
)

// Descriptor returns an OCI descriptor for the dumped content.
// Size and digest describe the field bytes, not the possibly compressed file.
func (r Result) Descriptor() ocispec.Descriptor {
	return ocispec.Descriptor{
		MediaType: mediaType(r.Field, r.Compression),
		Digest:    r.Digest,
		Size:      r.Field.Length,
		Annotations: map[string]string{
			AnnotationField:  r.Field.Name,
			AnnotationOffset: fmt.Sprintf("0x%X", r.Field.Offset),
			AnnotationPath:   r.Path,
		},
	}
}

func mediaType(f Field, c Compression) string {
	var mt string
	switch {
	case strings.HasPrefix(f.Name, "bootlog"):
		mt = MediaTypeBootlog
	case f.Name == "sqlitedb":
		mt = MediaTypeDatabase
	default:
		mt = MediaTypeRaw
	}
	if c == CompressionZstd {
		mt += "+zstd"
	}
	return mt
}

// WriteReport writes results to w as an indented JSON array of OCI descriptors.
func WriteReport(w io.Writer, results []Result) error {
	descs := make([]ocispec.Descriptor, len(results))
	for i, r := range results {
		descs[i] = r.Descriptor()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(descs); err != nil {
		return fmt.Errorf("%w: encode report: %w", ErrIO, err)
	}
	return nil
}
