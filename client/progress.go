package client

import (
	"io"

	"golang.org/x/time/rate"
)

// ProgressFunc receives transfer progress as (loadedBytes, totalBytes).
type ProgressFunc func(loaded, total int64)

// progressCallbackRate bounds progress notifications per transfer so a
// fast local upload does not flood the caller.
var progressCallbackRate = rate.Limit(10)

// progressReader counts bytes flowing through a transfer and reports
// them, rate limited. The final read always reports so the caller sees
// 100%.
type progressReader struct {
	reader  io.Reader
	total   int64
	loaded  int64
	cb      ProgressFunc
	limiter *rate.Limiter
}

func newProgressReader(reader io.Reader, total int64, cb ProgressFunc) *progressReader {
	return &progressReader{
		reader:  reader,
		total:   total,
		cb:      cb,
		limiter: rate.NewLimiter(progressCallbackRate, 1),
	}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.loaded += int64(n)
	if pr.cb != nil && (err == io.EOF || pr.loaded >= pr.total || pr.limiter.Allow()) {
		pr.cb(pr.loaded, pr.total)
	}
	return n, err
}
