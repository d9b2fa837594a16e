package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/quickdrop/quickdrop-go/types"
)

// fakeServer is an in-process upload service covering the endpoints the
// client talks to.
type fakeServer struct {
	mu sync.Mutex

	configCalls  int
	versionCalls int

	lastUploadToken string
	lastBasicAuth   string
	lastRequestID   string
	lastContent     []byte
}

func (s *fakeServer) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/upload", s.createUpload)
	router.GET("/upload/:uploadID", s.getUpload)
	router.DELETE("/upload/:uploadID", s.removeUpload)
	router.POST("/file/:uploadID", s.uploadFile)
	router.POST("/file/:uploadID/:fileID/:fileName", s.uploadFile)
	router.DELETE("/file/:uploadID/:fileID/:fileName", s.removeFile)
	router.GET("/config", s.getConfig)
	router.GET("/version", s.getVersion)
	router.GET("/me", func(c *gin.Context) {
		c.String(http.StatusUnauthorized, "Please login first")
	})

	return router
}

func (s *fakeServer) record(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUploadToken = c.GetHeader("X-UploadToken")
	s.lastBasicAuth = c.GetHeader("Authorization")
	s.lastRequestID = c.GetHeader("X-Request-ID")
}

func (s *fakeServer) createUpload(c *gin.Context) {
	s.record(c)
	draft := &types.Upload{}
	if err := c.ShouldBindJSON(draft); err != nil {
		c.String(http.StatusBadRequest, "Unable to deserialize request body")
		return
	}
	created := *draft
	created.ID = "upload-1"
	created.UploadToken = "token-1"
	created.Removable = true
	// Credentials are write-only
	created.Login = ""
	created.Password = ""
	for i, file := range created.Files {
		registered := *file
		registered.ID = "file-" + registered.Reference
		registered.Status = types.FileToUpload
		created.Files[i] = &registered
	}
	c.JSON(http.StatusOK, &created)
}

func (s *fakeServer) getUpload(c *gin.Context) {
	s.record(c)
	id := c.Param("uploadID")
	if id != "upload-1" {
		c.String(http.StatusNotFound, "Upload upload-1 not found")
		return
	}
	c.JSON(http.StatusOK, &types.Upload{
		ID:  id,
		TTL: 86400,
		Files: []*types.File{
			{ID: "file-0", FileName: "a.txt", FileSize: 3, Status: types.FileUploaded},
		},
	})
}

func (s *fakeServer) removeUpload(c *gin.Context) {
	s.record(c)
	c.Status(http.StatusOK)
}

func (s *fakeServer) uploadFile(c *gin.Context) {
	s.record(c)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, "Missing file part")
		return
	}
	part, err := fileHeader.Open()
	if err != nil {
		c.String(http.StatusInternalServerError, "Unable to open file part")
		return
	}
	defer part.Close()
	content, err := io.ReadAll(part)
	if err != nil {
		c.String(http.StatusInternalServerError, "Unable to read file part")
		return
	}
	s.mu.Lock()
	s.lastContent = content
	s.mu.Unlock()

	fileID := c.Param("fileID")
	if fileID == "" {
		// Registered on the fly when adding to an existing upload
		fileID = "file-new"
	}
	c.JSON(http.StatusOK, &types.File{
		ID:       fileID,
		FileName: fileHeader.Filename,
		FileSize: int64(len(content)),
		Status:   types.FileUploaded,
	})
}

func (s *fakeServer) removeFile(c *gin.Context) {
	s.record(c)
	c.Status(http.StatusOK)
}

func (s *fakeServer) getConfig(c *gin.Context) {
	s.mu.Lock()
	s.configCalls++
	s.mu.Unlock()
	c.JSON(http.StatusOK, &types.ServerConfig{
		MaxFileSize: 1 << 30,
		DefaultTTL:  30 * 86400,
		MaxTTL:      365 * 86400,
	})
}

func (s *fakeServer) getVersion(c *gin.Context) {
	s.mu.Lock()
	s.versionCalls++
	s.mu.Unlock()
	c.JSON(http.StatusOK, &types.ServerVersion{Version: "1.3.8"})
}

func newTestClient(t *testing.T) (*Client, *fakeServer) {
	t.Helper()
	server := &fakeServer{}
	ts := httptest.NewServer(server.router())
	t.Cleanup(ts.Close)
	return New(ts.URL, false), server
}

func TestCreateUpload(t *testing.T) {
	api, server := newTestClient(t)

	draft := &types.Upload{
		TTL:   86400,
		Login: "alice",
		Files: []*types.File{
			{Reference: "0", FileName: "a.txt", FileSize: 3},
		},
	}
	created, err := api.CreateUpload(context.Background(), draft)
	if err != nil {
		t.Fatalf("CreateUpload failed: %v", err)
	}
	if created.ID != "upload-1" || created.UploadToken != "token-1" {
		t.Errorf("unexpected upload: %+v", created)
	}
	if len(created.Files) != 1 || created.Files[0].Reference != "0" || created.Files[0].ID != "file-0" {
		t.Errorf("unexpected files: %+v", created.Files)
	}
	if created.Login != "" {
		t.Error("credentials must not be echoed back")
	}
	if server.lastRequestID == "" {
		t.Error("expected a request id header")
	}
}

func TestGetUploadSendsToken(t *testing.T) {
	api, server := newTestClient(t)

	upload, err := api.GetUpload(context.Background(), "upload-1", "token-1")
	if err != nil {
		t.Fatalf("GetUpload failed: %v", err)
	}
	if upload.ID != "upload-1" || len(upload.Files) != 1 {
		t.Errorf("unexpected upload: %+v", upload)
	}
	if server.lastUploadToken != "token-1" {
		t.Errorf("expected token header, got %q", server.lastUploadToken)
	}
}

func TestGetUploadNotFound(t *testing.T) {
	api, _ := newTestClient(t)

	_, err := api.GetUpload(context.Background(), "gone", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !types.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("server message must survive normalization, got %v", err)
	}
}

func TestUploadFileMultipart(t *testing.T) {
	api, server := newTestClient(t)

	upload := &types.Upload{ID: "upload-1", UploadToken: "token-1"}
	file := &types.File{ID: "file-0", FileName: "a.txt", FileSize: 13}
	content := bytes.NewReader([]byte("Hello, World!"))

	var progressMu sync.Mutex
	var loaded, total int64
	progress := func(l, t int64) {
		progressMu.Lock()
		loaded, total = l, t
		progressMu.Unlock()
	}

	result, err := api.UploadFile(context.Background(), upload, file, content, progress, "YWxpY2U6c2VjcmV0")
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if result.Status != types.FileUploaded || result.ID != "file-0" {
		t.Errorf("unexpected result: %+v", result)
	}
	if string(server.lastContent) != "Hello, World!" {
		t.Errorf("content corrupted in transit: %q", server.lastContent)
	}
	if server.lastUploadToken != "token-1" {
		t.Errorf("expected token header, got %q", server.lastUploadToken)
	}
	if server.lastBasicAuth != "Basic YWxpY2U6c2VjcmV0" {
		t.Errorf("expected basic auth header, got %q", server.lastBasicAuth)
	}
	progressMu.Lock()
	defer progressMu.Unlock()
	if loaded != 13 || total != 13 {
		t.Errorf("expected final progress report (13, 13), got (%d, %d)", loaded, total)
	}
}

func TestUploadFileWithoutIDRegistersOnTheFly(t *testing.T) {
	api, _ := newTestClient(t)

	upload := &types.Upload{ID: "upload-1", UploadToken: "token-1"}
	file := &types.File{FileName: "late.txt", FileSize: 4}

	result, err := api.UploadFile(context.Background(), upload, file, strings.NewReader("late"), nil, "")
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if result.ID != "file-new" {
		t.Errorf("expected a server-assigned id, got %q", result.ID)
	}
}

func TestRemoveUploadAndFile(t *testing.T) {
	api, server := newTestClient(t)

	upload := &types.Upload{ID: "upload-1", UploadToken: "token-1"}
	if err := api.RemoveUpload(context.Background(), upload); err != nil {
		t.Fatalf("RemoveUpload failed: %v", err)
	}
	if server.lastUploadToken != "token-1" {
		t.Errorf("expected token header, got %q", server.lastUploadToken)
	}

	file := &types.File{ID: "file-0", FileName: "a.txt"}
	if err := api.RemoveFile(context.Background(), upload, file); err != nil {
		t.Fatalf("RemoveFile failed: %v", err)
	}
}

func TestGetConfigCached(t *testing.T) {
	api, server := newTestClient(t)

	first, err := api.GetConfig(context.Background())
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if first.DefaultTTL != 30*86400 {
		t.Errorf("unexpected config: %+v", first)
	}
	if _, err := api.GetConfig(context.Background()); err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if server.configCalls != 1 {
		t.Errorf("expected a single backend hit, got %d", server.configCalls)
	}

	api.InvalidateCache()
	if _, err := api.GetConfig(context.Background()); err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if server.configCalls != 2 {
		t.Errorf("expected a fresh fetch after invalidation, got %d", server.configCalls)
	}
}

func TestGetUserAnonymous(t *testing.T) {
	api, _ := newTestClient(t)

	user, err := api.GetUser(context.Background())
	if err != nil {
		t.Fatalf("anonymous access must not be an error, got %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func TestGetVersionCached(t *testing.T) {
	api, server := newTestClient(t)

	version, err := api.GetVersion(context.Background())
	if err != nil {
		t.Fatalf("GetVersion failed: %v", err)
	}
	if version.Version != "1.3.8" {
		t.Errorf("unexpected version: %+v", version)
	}
	if _, err := api.GetVersion(context.Background()); err != nil {
		t.Fatalf("GetVersion failed: %v", err)
	}
	if server.versionCalls != 1 {
		t.Errorf("expected a single backend hit, got %d", server.versionCalls)
	}
}

func TestCallUnreachableServer(t *testing.T) {
	api := New("http://127.0.0.1:1", false)

	_, err := api.GetConfig(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !types.IsClientSide(err) {
		t.Errorf("a transport failure carries no status code, got %v", err)
	}
}
