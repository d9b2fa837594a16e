package types

// FileStatus tracks a file through the transfer state machine.
type FileStatus string

const (
	// FileToUpload means the file is selected (and possibly registered
	// server-side) but its content has not been transferred yet.
	FileToUpload FileStatus = "toUpload"
	// FileUploading means a transfer is in flight.
	FileUploading FileStatus = "uploading"
	// FileUploaded is the terminal success state in file mode.
	FileUploaded FileStatus = "uploaded"
	// FileMissing means a stream-mode file has been fully consumed by a
	// downloader and its content is gone.
	FileMissing FileStatus = "missing"
	// FileRemoved means the file has been deleted from the server.
	FileRemoved FileStatus = "removed"
)

// File is a single entry of an upload session.
type File struct {
	// ID is assigned by the server once the file metadata has been
	// registered. Empty until then.
	ID string `json:"id,omitempty"`

	// Reference is the client-local identifier assigned on selection,
	// used to match this entry against the server response.
	Reference string `json:"reference,omitempty"`

	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType,omitempty"`

	Status FileStatus `json:"status,omitempty"`

	UploadDate int64 `json:"fileUploadDate,omitempty"`

	// Progress is the transfer percentage, meaningful only while
	// Status is FileUploading. Client-side only.
	Progress int `json:"-"`
}

// FileMeta is the submission payload sent per pending file when creating
// a session. Only advisory metadata plus the reconciliation reference.
type FileMeta struct {
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	FileType  string `json:"fileType,omitempty"`
	Reference string `json:"reference"`
}
