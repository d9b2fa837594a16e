package tool

import "flag"

// Flags holds runtime overrides from CLI flags.
type Flags struct {
	Log            string
	UseConfigPath  string
	UseServerURL   string
	UseTTL         string
	UseOneShot     bool
	UseStream      bool
	UseComments    string
	UseEmptyUpload bool
	UseInsecureTLS bool

	ShowUpload   string
	RemoveUpload string
	UploadToken  string

	QRCodeOutput string
}

// SetFlags parses CLI flags and returns the override config.
func SetFlags() Flags {
	var f Flags
	flag.StringVar(&f.Log, "log", "", "log mode: debug|info")
	flag.StringVar(&f.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&f.UseServerURL, "server", "", "override upload server URL")
	flag.StringVar(&f.UseTTL, "ttl", "", "expiration delay, e.g. '30 days', '12 hours' or 'unlimited'")
	flag.BoolVar(&f.UseOneShot, "oneshot", false, "files are downloadable only once")
	flag.BoolVar(&f.UseStream, "stream", false, "stream files to a single downloader instead of storing them")
	flag.StringVar(&f.UseComments, "comments", "", "attach a comment to the upload")
	flag.BoolVar(&f.UseEmptyUpload, "empty", false, "create an empty upload to add files to later")
	flag.BoolVar(&f.UseInsecureTLS, "insecure", false, "skip TLS certificate verification")
	flag.StringVar(&f.ShowUpload, "get", "", "show an existing upload by id instead of uploading")
	flag.StringVar(&f.RemoveUpload, "remove", "", "remove an existing upload by id")
	flag.StringVar(&f.UploadToken, "uploadToken", "", "upload token granting write access to an existing upload")
	flag.StringVar(&f.QRCodeOutput, "qr", "", "write a QR code PNG of the upload URL to this path")
	flag.Parse()
	return f
}
