package tool

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// DetectFileType guesses the media type of a file from its extension.
// Returns the empty string when the extension is unknown, letting the
// server decide.
func DetectFileType(fileName string) string {
	fileType := mime.TypeByExtension(filepath.Ext(fileName))
	// Strip charset and other parameters
	if sep := strings.Index(fileType, ";"); sep != -1 {
		fileType = strings.TrimSpace(fileType[:sep])
	}
	return fileType
}

// NextAvailablePath returns path if nothing exists there, otherwise the
// first base-2.ext, base-3.ext, ... variant that is free.
func NextAvailablePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	for n := 2; ; n++ {
		try := filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, n, ext))
		if _, err := os.Stat(try); os.IsNotExist(err) {
			return try
		}
	}
}
