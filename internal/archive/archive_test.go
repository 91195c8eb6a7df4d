package archive

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendastv/ltv/internal/common"
)

func zipArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractZip(t *testing.T) {
	data := zipArchive(t, map[string]string{
		"Breaking.Bad.S02E01.srt": "1\n00:00:01,000 --> 00:00:02,000\nhello\n",
		"release-notes.nfo":       "scene notes",
		"sample/readme.txt":       "ignore me",
	})

	files, err := NewExtractor().Extract(data, "srt", "ssa", "ass")
	require.NoError(t, err)
	require.Len(t, files, 1, "only subtitle extensions survive the filter")
	assert.Equal(t, "Breaking.Bad.S02E01.srt", files[0].Name)
	assert.Contains(t, string(files[0].Data), "hello")
}

func TestExtractZipFlattensDirectories(t *testing.T) {
	data := zipArchive(t, map[string]string{
		"Season 2/Breaking.Bad.S02E01.srt": "one",
		"Season 2/Breaking.Bad.S02E02.srt": "two",
	})

	files, err := NewExtractor().Extract(data, "srt")
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.NotContains(t, f.Name, "/", "entry names are flattened to basenames")
	}
}

func TestExtractZipNoFilter(t *testing.T) {
	data := zipArchive(t, map[string]string{
		"a.srt": "a",
		"b.nfo": "b",
	})

	files, err := NewExtractor().Extract(data)
	require.NoError(t, err)
	assert.Len(t, files, 2, "no filter keeps every entry")
}

func TestExtractUnsupportedFormat(t *testing.T) {
	_, err := NewExtractor().Extract([]byte("this is not an archive"), "srt")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestExtractCorruptZip(t *testing.T) {
	// Valid magic, truncated body.
	_, err := NewExtractor().Extract([]byte("PK\x03\x04garbage"), "srt")
	assert.ErrorIs(t, err, common.ErrExtraction)
}

func TestExtractCaseInsensitiveExtensions(t *testing.T) {
	data := zipArchive(t, map[string]string{"UPPER.SRT": "x"})

	files, err := NewExtractor().Extract(data, "srt")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
