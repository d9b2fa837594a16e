package tool

import (
	"crypto/tls"
	"net/http"
	"time"
)

var DefaultTimeout = 30 * time.Second

// NewHTTPClient creates the HTTP client used for API calls. Self-hosted
// instances often run with self-signed certificates, so verification can
// be skipped explicitly.
func NewHTTPClient(insecure bool) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}

// NewTransferHTTPClient creates the client used for file content transfers.
// No global timeout: a large upload legitimately outlives DefaultTimeout,
// cancellation is handled through the request context.
func NewTransferHTTPClient(insecure bool) *http.Client {
	c := NewHTTPClient(insecure)
	c.Timeout = 0
	return c
}
