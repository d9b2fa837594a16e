package tool

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// GenerateRequestID returns a unique id attached to every API call for
// server-side correlation.
func GenerateRequestID() string {
	return uuid.New().String()
}

// EncodeBasicAuth derives the transport-level basic-auth token from
// session credentials.
func EncodeBasicAuth(login, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(login + ":" + password))
}
