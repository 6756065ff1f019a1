// Package rom loads cartridge and boot ROM images from disk,
// transparently extracting the single-file archive formats ROMs are
// routinely distributed in.
package rom

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// Load reads filename and returns its decompressed contents. Plain
// images (.gb, .gbc, .bin) and anything with an unrecognized extension
// are returned as-is; .gz, .zip, and .7z archives are unwrapped,
// returning the first file they contain.
func Load(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("rom: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("rom: reading %s: %w", filename, err)
	}

	switch filepath.Ext(filename) {
	case ".gz":
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("rom: %s: %w", filename, err)
		}
		defer gz.Close()
		return io.ReadAll(gz)

	case ".zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("rom: %s: %w", filename, err)
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("rom: %s: archive is empty", filename)
		}
		rc, err := zr.File[0].Open()
		if err != nil {
			return nil, fmt.Errorf("rom: %s: %w", filename, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)

	case ".7z":
		zr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("rom: %s: %w", filename, err)
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("rom: %s: archive is empty", filename)
		}
		rc, err := zr.File[0].Open()
		if err != nil {
			return nil, fmt.Errorf("rom: %s: %w", filename, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)

	default:
		return data, nil
	}
}
