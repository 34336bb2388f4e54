// Package trimarea reads Trim Area (TA) images and extracts their fixed-offset fields.
//
// A TA image is a 2 MiB partition dump holding device configuration, boot logs
// and an embedded SQLite database. Nothing in the image describes its own layout;
// every field lives at an offset that was found by inspecting real dumps.
//
// # Image Layout
//
//	0x000000  magic        2 bytes      C1 E9
//	0x0007B4  build id     32 bytes     UTF-8 text, NUL padded
//	0x020044  database     2^n bytes    SQLite file, n read from base+16 (uint16 LE)
//	0x0600B4  serial       10 bytes     UTF-8 text
//	platform  boot logs    10 x 14309   raw text, offsets depend on the device family
//
// Only the "tama" family's boot log offsets are known. Other families return
// [ErrNotImplemented] instead of guessing.
//
// # Usage
//
// Load an image and print its identifiers:
//
//	img, err := trimarea.Open("ta.img")
//	if err != nil {
//	    return err
//	}
//	id, err := img.BuildID()
//
// Dump the boot logs and the database:
//
//	x := trimarea.NewExtractor(img, "out", trimarea.WithOverwrite(true))
//	logs, err := x.DumpBootlogs(trimarea.PlatformTama)
//	db, err := x.DumpDatabase()
//
// # Error Handling
//
// All failures are reported with sentinel errors that can be matched with
// [errors.Is]: [ErrSizeMismatch], [ErrMagicMismatch], [ErrNotImplemented],
// [ErrUnknownPlatform], [ErrDecode], [ErrIO], [ErrFieldOutOfRange],
// [ErrSizeOverflow], [ErrWriteVerification] and [ErrExists].
package trimarea
