// Package media enumerates local video files for the batch driver.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/legendastv/ltv/internal/guess"
	"github.com/legendastv/ltv/internal/model"
)

// Common video file extensions, per the OpenSubtitles developer list. Not
// exhaustive; extension matching avoids content sniffing on large files.
var videoExtensions = map[string]struct{}{
	"3g2": {}, "3gp": {}, "asf": {}, "avi": {}, "divx": {}, "flv": {},
	"m2ts": {}, "m4v": {}, "mkv": {}, "mov": {}, "mp4": {}, "mpeg": {},
	"mpg": {}, "ogm": {}, "ogv": {}, "rm": {}, "rmvb": {}, "ts": {},
	"vob": {}, "webm": {}, "wmv": {},
}

// IsVideo reports whether the path looks like a video file by extension.
func IsVideo(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := videoExtensions[ext]
	return ok
}

// NewVideoFile builds a VideoFile with hints derived from its name.
func NewVideoFile(path string) model.VideoFile {
	return model.VideoFile{Path: path, Hints: guess.Extract(path)}
}

// ListVideos returns the video files directly under dir, in name order.
// Passing a video file path yields a single-element batch.
func ListVideos(dir string) ([]model.VideoFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		if !IsVideo(dir) {
			return nil, fmt.Errorf("%s does not look like a video file", dir)
		}
		return []model.VideoFile{NewVideoFile(dir)}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []model.VideoFile
	for _, entry := range entries {
		if entry.IsDir() || !IsVideo(entry.Name()) {
			continue
		}
		files = append(files, NewVideoFile(filepath.Join(dir, entry.Name())))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
