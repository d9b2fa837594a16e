package session

import (
	"fmt"
	"net/url"

	"github.com/quickdrop/quickdrop-go/tool"
	"github.com/quickdrop/quickdrop-go/types"
)

// Read-only projections served to the presentation layer.

// FileView is a snapshot of one file with its derived predicates.
type FileView struct {
	types.File

	Ok           bool
	Downloadable bool
}

// Upload returns a snapshot of the session aggregate.
func (c *Controller) Upload() types.Upload {
	c.mu.Lock()
	defer c.mu.Unlock()
	upload := *c.upload
	upload.Files = nil
	return upload
}

// Mode returns "upload" while assembling a draft, "download" once the
// session exists server-side.
func (c *Controller) Mode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Files returns the ordered file list as a read-only projection.
func (c *Controller) Files() []FileView {
	c.mu.Lock()
	defer c.mu.Unlock()
	views := make([]FileView, 0, len(c.order))
	for _, ref := range c.order {
		entry := c.entries[ref]
		views = append(views, FileView{
			File:         *entry.file,
			Ok:           c.isOkLocked(entry.file),
			Downloadable: c.isDownloadableLocked(entry.file),
		})
	}
	return views
}

// SomethingToUpload reports whether at least one file is ready to be
// transferred.
func (c *Controller) SomethingToUpload() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.entries {
		if entry.file.Status == types.FileToUpload {
			return true
		}
	}
	return false
}

// SomethingToDownload reports whether at least one file is downloadable.
func (c *Controller) SomethingToDownload() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.entries {
		if c.isDownloadableLocked(entry.file) {
			return true
		}
	}
	return false
}

// SomethingOk reports whether at least one file is not in error.
func (c *Controller) SomethingOk() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.somethingOkLocked()
}

// ExpirationString renders the session expiry for display.
func (c *Controller) ExpirationString() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.upload.TTL == types.TTLUnlimited {
		return "never expire"
	}
	if c.upload.ExpireAt == nil {
		return ""
	}
	return fmt.Sprintf("expire on %s", c.upload.ExpireAt.Format("2006-01-02 at 15:04:05"))
}

// downloadDomainLocked prefers the server-advertised download domain
// over the API origin.
func (c *Controller) downloadDomainLocked() string {
	if c.cfg != nil && c.cfg.DownloadDomain != "" {
		return c.cfg.DownloadDomain
	}
	return c.service.Origin()
}

// FileURL returns the canonical download URL for a file.
func (c *Controller) FileURL(ref string, forceDownload bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, exists := c.entries[ref]
	if !exists {
		return "", types.NewClientError("Unknown file reference %s", ref)
	}
	if entry.file.ID == "" {
		return "", types.NewClientError("File %s is not registered yet", entry.file.FileName)
	}
	return tool.BuildFileURL(c.downloadDomainLocked(), c.upload.Mode(),
		c.upload.ID, entry.file.ID, entry.file.FileName, forceDownload)
}

// ArchiveURL returns the zip archive download URL for the session.
func (c *Controller) ArchiveURL(forceDownload bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.upload.Materialized() {
		return "", types.NewClientError("Upload is not created yet")
	}
	return tool.BuildArchiveURL(c.downloadDomainLocked(), c.upload.ID, forceDownload)
}

// PageURL returns the share link of the session. withToken adds the
// upload token so the recipient can add and remove files later.
func (c *Controller) PageURL(withToken bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.upload.Materialized() {
		return "", types.NewClientError("Upload is not created yet")
	}
	query := url.Values{}
	query.Set("id", c.upload.ID)
	if withToken && c.upload.UploadToken != "" {
		query.Set("uploadToken", c.upload.UploadToken)
	}
	return c.service.Origin() + "/?" + query.Encode(), nil
}

// QRCodeURL returns the server-side QR rendering URL for any target URL.
func (c *Controller) QRCodeURL(target string, size int) (string, error) {
	return tool.BuildQRCodeURL(c.service.Origin(), target, size)
}
