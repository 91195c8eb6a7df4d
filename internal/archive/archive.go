// Package archive unpacks downloaded subtitle archives. The catalog serves
// both zip and rar containers; format detection is by magic bytes, never by
// file name.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/nwaples/rardecode/v2"

	"github.com/legendastv/ltv/internal/common"
)

// File is one extracted archive entry.
type File struct {
	Name string
	Data []byte
}

var (
	zipMagic = []byte("PK\x03\x04")
	rarMagic = []byte("Rar!")
)

// Extractor implements archive extraction for the batch engine.
type Extractor struct{}

// NewExtractor returns the default zip/rar extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks the archive, keeping only entries whose extension is in
// extensions (all entries when none given). Unsupported and corrupt input
// surfaces as extraction errors, distinct from search/network failures.
func (e *Extractor) Extract(data []byte, extensions ...string) ([]File, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return extractZip(data, extensions)
	case bytes.HasPrefix(data, rarMagic):
		return extractRar(data, extensions)
	default:
		return nil, fmt.Errorf("%w: unrecognized archive header", common.ErrUnsupportedFormat)
	}
}

func extractZip(data []byte, extensions []string) ([]File, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrExtraction, err)
	}

	var files []File
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() || !wantExtension(entry.Name, extensions) {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", common.ErrExtraction, entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", common.ErrExtraction, entry.Name, err)
		}
		files = append(files, File{Name: path.Base(entry.Name), Data: content})
	}
	return files, nil
}

func extractRar(data []byte, extensions []string) ([]File, error) {
	reader, err := rardecode.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrExtraction, err)
	}

	var files []File
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrExtraction, err)
		}
		if header.IsDir || !wantExtension(header.Name, extensions) {
			continue
		}
		content, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", common.ErrExtraction, header.Name, err)
		}
		files = append(files, File{Name: path.Base(header.Name), Data: content})
	}
	return files, nil
}

func wantExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
