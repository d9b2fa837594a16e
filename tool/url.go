package tool

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Download modes accepted by the service.
const (
	ModeFile    = "file"
	ModeStream  = "stream"
	ModeArchive = "archive"
)

// BuildFileURL builds {domain}/{mode}/{uploadID}[/{fileID}][/{fileName}],
// percent-encoded, with the forced-download marker when requested.
// domain is the API origin or the server-advertised download domain.
func BuildFileURL(domain, mode, uploadID, fileID, fileName string, forceDownload bool) (string, error) {
	if mode != ModeFile && mode != ModeStream && mode != ModeArchive {
		return "", fmt.Errorf("invalid download mode : %s", mode)
	}
	if uploadID == "" {
		return "", fmt.Errorf("missing upload id")
	}
	u, err := url.Parse(strings.TrimSuffix(domain, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid download domain %s : %v", domain, err)
	}
	segments := []string{mode, uploadID}
	if fileID != "" {
		segments = append(segments, fileID)
	}
	if fileName != "" {
		segments = append(segments, fileName)
	}
	u.Path += "/" + strings.Join(segments, "/")
	if forceDownload {
		// Forces the browser to download instead of displaying inline
		u.RawQuery = "dl=1"
	}
	return u.String(), nil
}

// BuildArchiveURL builds the zip archive download URL for an upload.
func BuildArchiveURL(domain, uploadID string, forceDownload bool) (string, error) {
	return BuildFileURL(domain, ModeArchive, uploadID, "", "archive.zip", forceDownload)
}

// BuildQRCodeURL builds the server-side QR rendering URL for any target
// URL at the given pixel size.
func BuildQRCodeURL(base, target string, size int) (string, error) {
	if target == "" {
		return "", fmt.Errorf("missing qrcode target url")
	}
	u, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid base url %s : %v", base, err)
	}
	u.Path += "/qrcode"
	query := url.Values{}
	query.Set("url", target)
	query.Set("size", strconv.Itoa(size))
	u.RawQuery = query.Encode()
	return u.String(), nil
}
