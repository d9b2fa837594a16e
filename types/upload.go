package types

import "time"

// Upload is the server-side session aggregate grouping files under one
// expiry/access policy. Field names follow the upload service wire format.
type Upload struct {
	ID          string `json:"id,omitempty"`
	UploadToken string `json:"uploadToken,omitempty"`

	TTL      int        `json:"ttl"`
	ExpireAt *time.Time `json:"expireAt,omitempty"`

	Removable bool `json:"removable"`
	Admin     bool `json:"admin"`
	OneShot   bool `json:"oneShot"`
	Stream    bool `json:"stream"`

	Comments string `json:"comments,omitempty"`

	ProtectedByPassword bool   `json:"protectedByPassword"`
	Login               string `json:"login,omitempty"`
	Password            string `json:"password,omitempty"`

	// OneTimeToken is a single-use token required by some instances
	// before a session may be created. Never echoed back by the server.
	OneTimeToken string `json:"oneTimeToken,omitempty"`

	Files []*File `json:"files,omitempty"`
}

// TTLUnlimited is the TTL encoding for a never-expiring upload.
const TTLUnlimited = -1

// Materialized reports whether the upload exists on the server.
func (u *Upload) Materialized() bool {
	return u.ID != ""
}

// Mode returns the transfer mode segment used in download URLs.
func (u *Upload) Mode() string {
	if u.Stream {
		return "stream"
	}
	return "file"
}

// CanRemove reports whether removal operations are permitted client-side.
// The flags are fixed at creation, the server stays authoritative.
func (u *Upload) CanRemove() bool {
	return u.Removable || u.Admin
}
