package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/quickdrop/quickdrop-go/client"
	"github.com/quickdrop/quickdrop-go/tool"
	"github.com/quickdrop/quickdrop-go/types"
)

// File name checks, enforced before anything reaches the network.
const fileNameMaxLength = 1024

var invalidFileNameChars = []string{"/", "#", "?", "%", "\""}

// Service is the remote upload service consumed by the controller.
// Implemented by client.Client.
type Service interface {
	CreateUpload(ctx context.Context, draft *types.Upload) (*types.Upload, error)
	GetUpload(ctx context.Context, id, uploadToken string) (*types.Upload, error)
	RemoveUpload(ctx context.Context, upload *types.Upload) error
	UploadFile(ctx context.Context, upload *types.Upload, file *types.File, content io.Reader, progress client.ProgressFunc, basicAuth string) (*types.File, error)
	RemoveFile(ctx context.Context, upload *types.Upload, file *types.File) error
	GetConfig(ctx context.Context) (*types.ServerConfig, error)
	GetUser(ctx context.Context) (*types.User, error)
	Origin() string
}

// Alerter surfaces recoverable errors to the user.
type Alerter interface {
	Alert(err *types.HTTPError)
}

// FileSource is a locally-selected file handed to the session: advisory
// metadata plus a way to open its content when the transfer starts.
type FileSource struct {
	Name string
	Size int64
	Type string
	Open func() (io.ReadCloser, error)
}

// fileEntry binds the session-local file state to its content source.
type fileEntry struct {
	file *types.File
	open func() (io.ReadCloser, error)
}

// Controller owns one upload session: the draft-to-materialized life
// cycle, the ordered file collection keyed by reference, reconciliation
// of server responses, and per-file transfer dispatch.
//
// Every mutation goes through the controller mutex; transfers run in
// their own goroutines and re-enter the lock to publish results, so a
// file removed while its response is still in flight is detected by a
// key check and the stale response discarded.
type Controller struct {
	mu sync.Mutex

	service Service
	alerter Alerter
	gate    CredentialGate

	// onHome is invoked after the session is torn down and the view
	// should return to its initial empty-draft state.
	onHome func()

	cfg  *types.ServerConfig
	user *types.User

	renameOnCollision bool

	upload  *types.Upload
	refs    *ReferenceAllocator
	entries map[string]*fileEntry
	order   []string

	ttlValue int
	ttlUnit  string

	basicAuth string

	// mode is "upload" while assembling a draft, "download" once the
	// session is materialized or loaded.
	mode string

	transfers sync.WaitGroup
}

// New wires a controller with its collaborators. Call Start before
// anything else to fetch the server policy.
func New(service Service, prompt PromptService, alerter Alerter, onHome func(), clientCfg types.ClientConfig) *Controller {
	c := &Controller{
		service:           service,
		alerter:           alerter,
		onHome:            onHome,
		renameOnCollision: clientCfg.RenameOnCollision,
		upload:            &types.Upload{},
		refs:              NewReferenceAllocator(),
		entries:           make(map[string]*fileEntry),
		mode:              "upload",
	}
	c.gate = CredentialGate{Prompt: prompt}
	if clientCfg.OneShot {
		c.upload.OneShot = true
	}
	if clientCfg.Stream {
		c.upload.Stream = true
	}
	return c
}

// Start fetches the server config and the acting principal, then applies
// the default expiry policy.
func (c *Controller) Start(ctx context.Context) error {
	cfg, err := c.service.GetConfig(ctx)
	if err != nil {
		c.alert(err)
		return err
	}
	user, err := c.service.GetUser(ctx)
	if err != nil {
		c.alert(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.user = user
	c.gate.PasswordRequired = cfg.ProtectedByPassword
	c.gate.TokenRequired = cfg.OneTimeToken
	c.setDefaultTTLLocked()
	return nil
}

// Load fetches an existing session by id and replaces the local state
// with it. A not-found or expired session redirects home.
func (c *Controller) Load(ctx context.Context, id, uploadToken string) error {
	upload, err := c.service.GetUpload(ctx, id, uploadToken)
	if err != nil {
		c.alert(err)
		c.goHome()
		return err
	}
	if uploadToken != "" {
		upload.UploadToken = uploadToken
	}

	c.mu.Lock()
	c.mode = "download"
	c.upload = upload
	c.entries = make(map[string]*fileEntry)
	c.order = nil
	for _, file := range upload.Files {
		ref := c.refs.Next()
		file.Reference = ref
		c.entries[ref] = &fileEntry{file: file}
		c.order = append(c.order, ref)
	}
	ok := c.somethingOkLocked()
	c.mu.Unlock()

	// Nothing left to download (e.g. every stream file drained)
	if !ok {
		c.goHome()
	}
	return nil
}

// SelectFiles adds locally-picked files to the session. Oversize files
// are rejected with an alert, duplicate names are dropped unless the
// rename-on-collision capability is enabled.
func (c *Controller) SelectFiles(sources ...FileSource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, source := range sources {
		if c.cfg != nil && c.cfg.MaxFileSize > 0 && source.Size > c.cfg.MaxFileSize {
			c.alertLocked(types.NewClientError("File is too big : %s, maximum allowed size is : %s",
				tool.HumanReadableSize(source.Size, 2), tool.HumanReadableSize(c.cfg.MaxFileSize, 2)))
			continue
		}
		if c.cfg != nil && c.cfg.MaxFilePerUpload > 0 && len(c.entries) >= c.cfg.MaxFilePerUpload {
			c.alertLocked(types.NewClientError("Maximum %d files per upload", c.cfg.MaxFilePerUpload))
			continue
		}

		name := source.Name
		if c.hasFileNamedLocked(name) {
			if !c.renameOnCollision {
				// later duplicates are dropped
				continue
			}
			ref := c.refs.Next()
			name = renameWithReference(name, ref)
			if c.hasFileNamedLocked(name) {
				continue
			}
			c.addEntryLocked(ref, name, source)
			continue
		}
		c.addEntryLocked(c.refs.Next(), name, source)
	}
}

func (c *Controller) addEntryLocked(ref, name string, source FileSource) {
	c.entries[ref] = &fileEntry{
		file: &types.File{
			Reference: ref,
			FileName:  name,
			FileSize:  source.Size,
			FileType:  source.Type,
			Status:    types.FileToUpload,
		},
		open: source.Open,
	}
	c.order = append(c.order, ref)
}

func (c *Controller) hasFileNamedLocked(name string) bool {
	for _, entry := range c.entries {
		if entry.file.FileName == name {
			return true
		}
	}
	return false
}

// renameWithReference inserts the reference before the extension, so a
// colliding "image.jpg" becomes "image.3.jpg".
func renameWithReference(name, ref string) string {
	sep := strings.LastIndex(name, ".")
	if sep <= 0 {
		return name + "." + ref
	}
	return name[:sep] + "." + ref + name[sep:]
}

// validateFileName enforces the advisory local checks: non-empty, at
// most 1024 characters, none of the reserved characters.
func validateFileName(name string) error {
	if name == "" {
		return types.NewClientError("Missing file name")
	}
	if len(name) > fileNameMaxLength {
		return types.NewClientError("File name max length is %d characters", fileNameMaxLength)
	}
	for _, char := range invalidFileNameChars {
		if strings.Contains(name, char) {
			return types.NewClientError("Invalid file name %s, forbidden characters are : %s",
				name, strings.Join(invalidFileNameChars, " "))
		}
	}
	return nil
}

// SetTTL sets the requested expiry. Validation happens on submit.
func (c *Controller) SetTTL(value int, unit string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttlValue = value
	c.ttlUnit = unit
}

// TTL returns the current expiry selection.
func (c *Controller) TTL() (value int, unit string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttlValue, c.ttlUnit
}

// TTLUnits returns the units offered for the acting principal.
func (c *Controller) TTLUnits() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TTLUnits(EffectiveMaxTTL(c.user, c.cfg))
}

func (c *Controller) setDefaultTTLLocked() {
	maxTTL := EffectiveMaxTTL(c.user, c.cfg)
	serverDefault := 0
	if c.cfg != nil {
		serverDefault = c.cfg.DefaultTTL
	}
	c.ttlValue, c.ttlUnit = tool.HumanReadableTTL(DefaultTTL(maxTTL, serverDefault))
}

// SetComments attaches a free-form comment shown alongside the files.
func (c *Controller) SetComments(comments string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upload.Comments = comments
}

// SetCredentials attaches basic-auth credentials to the session and
// derives the transport-level token. Set once, before creation.
func (c *Controller) SetCredentials(login, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upload.Login = login
	c.upload.Password = password
	c.upload.ProtectedByPassword = true
	c.basicAuth = tool.EncodeBasicAuth(login, password)
}

// Submit drives the session through creation. Preconditions are checked
// in order and short-circuit before any network call: file selection
// (unless emptyAllowed), TTL policy, then the credential gate. On a
// materialized session it only dispatches the pending transfers.
func (c *Controller) Submit(ctx context.Context, emptyAllowed bool) error {
	c.mu.Lock()

	if c.upload.Materialized() {
		// Adding files to an existing upload
		c.mu.Unlock()
		c.transferPending(ctx)
		return nil
	}

	if len(c.entries) == 0 && !emptyAllowed {
		c.mu.Unlock()
		return nil
	}

	ttl, err := tool.TTLToSeconds(c.ttlValue, c.ttlUnit)
	if err == nil {
		err = ValidateTTL(ttl, EffectiveMaxTTL(c.user, c.cfg))
	}
	if err != nil {
		c.setDefaultTTLLocked()
		c.mu.Unlock()
		c.alert(err)
		return err
	}
	c.upload.TTL = ttl

	// Build the submission payload, aborting the whole submission on
	// the first invalid file name.
	var metas []*types.File
	for _, ref := range c.order {
		entry := c.entries[ref]
		if err := validateFileName(entry.file.FileName); err != nil {
			c.mu.Unlock()
			c.alert(err)
			return err
		}
		metas = append(metas, &types.File{
			FileName:  entry.file.FileName,
			FileSize:  entry.file.FileSize,
			FileType:  entry.file.FileType,
			Reference: ref,
		})
	}

	draft := *c.upload
	draft.Files = metas
	gate := c.gate
	c.mu.Unlock()

	basicAuth, err := gate.Collect(ctx, &draft)
	if err != nil {
		// Prompt cancelled: the draft survives for a later retry
		return err
	}

	created, err := c.service.CreateUpload(ctx, &draft)
	if err != nil {
		c.alert(err)
		return err
	}

	c.mu.Lock()
	c.upload.Login = draft.Login
	c.upload.Password = draft.Password
	c.upload.OneTimeToken = draft.OneTimeToken
	if basicAuth != "" {
		c.basicAuth = basicAuth
	}
	c.reconcileLocked(created)
	c.mode = "download"
	c.mu.Unlock()

	tool.DefaultLogger.Infof("session: created upload %s (%d files)", created.ID, len(metas))
	c.transferPending(ctx)
	return nil
}

// reconcileLocked merges the created upload into the local state. Each
// returned file is matched to the local entry sharing its reference and
// forced back to toUpload, ready to transfer. Responses for references
// removed in the meantime are silently discarded. Idempotent.
func (c *Controller) reconcileLocked(created *types.Upload) {
	files := created.Files
	merged := *created
	merged.Files = nil

	// Session credentials are never echoed back, keep the local ones
	merged.Login = c.upload.Login
	merged.Password = c.upload.Password
	merged.OneTimeToken = c.upload.OneTimeToken
	c.upload = &merged

	for _, file := range files {
		entry, exists := c.entries[file.Reference]
		if !exists {
			tool.DefaultLogger.Debugf("session: discarding response for removed reference %s", file.Reference)
			continue
		}
		entry.file.ID = file.ID
		if file.FileName != "" {
			entry.file.FileName = file.FileName
		}
		if file.FileType != "" {
			entry.file.FileType = file.FileType
		}
		entry.file.Status = types.FileToUpload
	}
}

// transferPending dispatches one independent transfer per file still in
// toUpload. No ordering is guaranteed between files.
func (c *Controller) transferPending(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.upload.Materialized() {
		return
	}
	for _, ref := range c.order {
		entry := c.entries[ref]
		if entry.file.Status != types.FileToUpload {
			continue
		}
		entry.file.Status = types.FileUploading
		entry.file.Progress = 0
		c.transfers.Add(1)
		go c.transferOne(ctx, ref)
	}
}

func (c *Controller) transferOne(ctx context.Context, ref string) {
	defer c.transfers.Done()

	c.mu.Lock()
	entry, exists := c.entries[ref]
	if !exists {
		c.mu.Unlock()
		return
	}
	upload := *c.upload
	file := *entry.file
	open := entry.open
	basicAuth := c.basicAuth
	c.mu.Unlock()

	fail := func(err error) {
		c.mu.Lock()
		if entry, exists := c.entries[ref]; exists {
			// Manual retry only: revert so the user can resubmit
			entry.file.Status = types.FileToUpload
			entry.file.Progress = 0
		}
		c.mu.Unlock()
		c.alert(err)
	}

	if open == nil {
		fail(types.NewClientError("No content for file %s", file.FileName))
		return
	}
	content, err := open()
	if err != nil {
		fail(types.NewClientError("Failed to open %s : %v", file.FileName, err))
		return
	}
	defer func() {
		if err := content.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close %s: %v", file.FileName, err)
		}
	}()

	progress := func(loaded, total int64) {
		c.mu.Lock()
		defer c.mu.Unlock()
		entry, exists := c.entries[ref]
		if !exists || entry.file.Status != types.FileUploading || total <= 0 {
			return
		}
		entry.file.Progress = int(100 * loaded / total)
	}

	result, err := c.service.UploadFile(ctx, &upload, &file, content, progress, basicAuth)
	if err != nil {
		fail(err)
		return
	}

	c.mu.Lock()
	entry, exists = c.entries[ref]
	if !exists {
		// Removed while the transfer was in flight, do not re-insert
		c.mu.Unlock()
		tool.DefaultLogger.Debugf("session: discarding transfer result for removed reference %s", ref)
		return
	}
	entry.file.ID = result.ID
	entry.file.Status = result.Status
	entry.file.UploadDate = result.UploadDate
	entry.file.Progress = 100
	ok := c.somethingOkLocked()
	c.mu.Unlock()

	tool.DefaultLogger.Infof("session: transferred %s (%s)", file.FileName, result.Status)

	// Every stream file drained: the session is over
	if !ok {
		c.goHome()
	}
}

// WaitTransfers blocks until every in-flight transfer has resolved.
func (c *Controller) WaitTransfers() {
	c.transfers.Wait()
}

// RemoveFile removes a file, locally while the session is a draft,
// with a remote delete once materialized. Removal is rejected while a
// transfer for the same file is in flight.
func (c *Controller) RemoveFile(ctx context.Context, ref string) error {
	c.mu.Lock()
	entry, exists := c.entries[ref]
	if !exists {
		c.mu.Unlock()
		return types.NewClientError("Unknown file reference %s", ref)
	}
	if entry.file.Status == types.FileUploading {
		c.mu.Unlock()
		return types.NewClientError("Cannot remove %s while its transfer is in flight", entry.file.FileName)
	}

	if !c.upload.Materialized() || entry.file.ID == "" {
		c.removeEntryLocked(ref)
		c.mu.Unlock()
		return nil
	}

	if !c.upload.CanRemove() {
		c.mu.Unlock()
		return types.NewClientError("You are not allowed to remove files from this upload")
	}
	upload := *c.upload
	file := *entry.file
	c.mu.Unlock()

	if err := c.service.RemoveFile(ctx, &upload, &file); err != nil {
		c.alert(err)
		return err
	}

	c.mu.Lock()
	c.removeEntryLocked(ref)
	empty := len(c.entries) == 0
	c.mu.Unlock()

	// Removing the last file tears the session down
	if empty {
		c.goHome()
	}
	return nil
}

func (c *Controller) removeEntryLocked(ref string) {
	delete(c.entries, ref)
	for i, r := range c.order {
		if r == ref {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// RemoveSession deletes the whole upload from the server and returns to
// the initial state.
func (c *Controller) RemoveSession(ctx context.Context) error {
	c.mu.Lock()
	if !c.upload.Materialized() {
		c.mu.Unlock()
		return types.NewClientError("No upload to remove")
	}
	if !c.upload.CanRemove() {
		c.mu.Unlock()
		return types.NewClientError("You are not allowed to remove this upload")
	}
	upload := *c.upload
	c.mu.Unlock()

	if err := c.service.RemoveUpload(ctx, &upload); err != nil {
		c.alert(err)
		return err
	}
	c.goHome()
	return nil
}

// goHome discards the session and returns the view to its empty-draft
// state.
func (c *Controller) goHome() {
	c.mu.Lock()
	c.upload = &types.Upload{}
	c.entries = make(map[string]*fileEntry)
	c.order = nil
	c.basicAuth = ""
	c.mode = "upload"
	c.setDefaultTTLLocked()
	onHome := c.onHome
	c.mu.Unlock()

	if onHome != nil {
		onHome()
	}
}

func (c *Controller) alert(err error) {
	if c.alerter == nil {
		return
	}
	var httpErr *types.HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = types.NewClientError("%v", err)
	}
	c.alerter.Alert(httpErr)
}

// alertLocked is alert for call sites already holding the mutex. The
// alerter must not call back into the controller.
func (c *Controller) alertLocked(err *types.HTTPError) {
	if c.alerter != nil {
		c.alerter.Alert(err)
	}
}

func (c *Controller) somethingOkLocked() bool {
	for _, entry := range c.entries {
		if c.isOkLocked(entry.file) {
			return true
		}
	}
	return false
}

func (c *Controller) isOkLocked(file *types.File) bool {
	switch file.Status {
	case types.FileToUpload, types.FileUploading, types.FileUploaded:
		return true
	case types.FileMissing:
		return c.upload.Stream
	}
	return false
}

func (c *Controller) isDownloadableLocked(file *types.File) bool {
	if c.upload.Stream {
		// A stream file is downloadable while the upload side feeds it
		return file.Status == types.FileUploading
	}
	return file.Status == types.FileUploaded
}
