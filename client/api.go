package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/quickdrop/quickdrop-go/tool"
	"github.com/quickdrop/quickdrop-go/types"
)

// Client talks to the remote upload service. All errors coming back from
// the wire are normalized to *types.HTTPError.
type Client struct {
	// BaseURL is the API origin, without trailing slash.
	BaseURL string

	httpClient     *http.Client
	transferClient *http.Client
	cache          *Cache
}

// New creates a client for the given server URL.
func New(serverURL string, insecureTLS bool) *Client {
	return &Client{
		BaseURL:        strings.TrimSuffix(serverURL, "/"),
		httpClient:     tool.NewHTTPClient(insecureTLS),
		transferClient: tool.NewTransferHTTPClient(insecureTLS),
		cache:          NewCache(),
	}
}

// call performs a JSON round trip and decodes the response into out.
func (c *Client) call(ctx context.Context, method, urlStr string, body any, uploadToken string, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to serialize request: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %v", urlStr, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCommonHeaders(req, uploadToken, "")

	tool.DefaultLogger.Debugf("api: %s %s", method, urlStr)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.NewHTTPError(0, fmt.Sprintf("failed to reach server : %v", err))
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.NewHTTPError(resp.StatusCode, fmt.Sprintf("failed to read response : %v", err))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return types.NewHTTPError(resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out != nil && len(data) > 0 {
		if err := sonic.Unmarshal(data, out); err != nil {
			return types.NewHTTPError(resp.StatusCode, fmt.Sprintf("failed to parse response : %v", err))
		}
	}
	return nil
}

func (c *Client) setCommonHeaders(req *http.Request, uploadToken, basicAuth string) {
	req.Header.Set("X-Request-ID", tool.GenerateRequestID())
	if uploadToken != "" {
		req.Header.Set("X-UploadToken", uploadToken)
	}
	if basicAuth != "" {
		req.Header.Set("Authorization", "Basic "+basicAuth)
	}
}

// CreateUpload registers a new upload session. The draft carries the TTL,
// mode flags, optional credentials and the metadata of every pending file.
func (c *Client) CreateUpload(ctx context.Context, draft *types.Upload) (*types.Upload, error) {
	upload := &types.Upload{}
	err := c.call(ctx, http.MethodPost, c.BaseURL+"/upload", draft, "", upload)
	if err != nil {
		return nil, err
	}
	return upload, nil
}

// GetUpload fetches an existing upload session by id.
func (c *Client) GetUpload(ctx context.Context, id, uploadToken string) (*types.Upload, error) {
	upload := &types.Upload{}
	err := c.call(ctx, http.MethodGet, c.BaseURL+"/upload/"+url.PathEscape(id), nil, uploadToken, upload)
	if err != nil {
		return nil, err
	}
	return upload, nil
}

// RemoveUpload deletes an upload and all its files from the server.
func (c *Client) RemoveUpload(ctx context.Context, upload *types.Upload) error {
	return c.call(ctx, http.MethodDelete, c.BaseURL+"/upload/"+url.PathEscape(upload.ID), nil, upload.UploadToken, nil)
}

// fileURL builds the per-file endpoint. Without a file id the service
// registers the file on the fly (adding to an existing upload).
func (c *Client) fileURL(upload *types.Upload, file *types.File) string {
	if file.ID == "" {
		return fmt.Sprintf("%s/%s/%s", c.BaseURL, upload.Mode(), url.PathEscape(upload.ID))
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s", c.BaseURL, upload.Mode(),
		url.PathEscape(upload.ID), url.PathEscape(file.ID), url.PathEscape(file.FileName))
}

// UploadFile transfers file content as a multipart POST. progress is
// invoked with (loadedBytes, totalBytes) zero or more times before the
// call resolves. basicAuth is the token derived from session credentials.
func (c *Client) UploadFile(ctx context.Context, upload *types.Upload, file *types.File, content io.Reader, progress ProgressFunc, basicAuth string) (*types.File, error) {
	pipeReader, pipeWriter := io.Pipe()
	writer := multipart.NewWriter(pipeWriter)

	go func() {
		part, err := writer.CreateFormFile("file", file.FileName)
		if err != nil {
			_ = pipeWriter.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, newProgressReader(content, file.FileSize, progress)); err != nil {
			_ = pipeWriter.CloseWithError(err)
			return
		}
		_ = pipeWriter.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.fileURL(upload, file), pipeReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setCommonHeaders(req, upload.UploadToken, basicAuth)

	tool.DefaultLogger.Debugf("api: transferring %s (%s)", file.FileName, tool.HumanReadableSize(file.FileSize, 2))
	resp, err := c.transferClient.Do(req)
	if err != nil {
		return nil, types.NewHTTPError(0, fmt.Sprintf("failed to transfer %s : %v", file.FileName, err))
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewHTTPError(resp.StatusCode, fmt.Sprintf("failed to read response : %v", err))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, types.NewHTTPError(resp.StatusCode, strings.TrimSpace(string(data)))
	}
	result := &types.File{}
	if err := sonic.Unmarshal(data, result); err != nil {
		return nil, types.NewHTTPError(resp.StatusCode, fmt.Sprintf("failed to parse response : %v", err))
	}
	return result, nil
}

// Origin returns the API origin, used as the default download domain.
func (c *Client) Origin() string {
	return c.BaseURL
}

// RemoveFile deletes a single file from an upload.
func (c *Client) RemoveFile(ctx context.Context, upload *types.Upload, file *types.File) error {
	return c.call(ctx, http.MethodDelete, c.fileURL(upload, file), nil, upload.UploadToken, nil)
}

// GetVersion fetches the server version.
func (c *Client) GetVersion(ctx context.Context) (*types.ServerVersion, error) {
	if v := c.cache.Version(c.BaseURL); v != nil {
		return v, nil
	}
	version := &types.ServerVersion{}
	if err := c.call(ctx, http.MethodGet, c.BaseURL+"/version", nil, "", version); err != nil {
		return nil, err
	}
	c.cache.SetVersion(c.BaseURL, version)
	return version, nil
}
