package types

// ServerConfig is the subset of the server configuration advertised to
// clients on GET /config.
type ServerConfig struct {
	MaxFileSize      int64 `json:"maxFileSize"`
	MaxFilePerUpload int   `json:"maxFilePerUpload"`

	// DefaultTTL and MaxTTL are in seconds. A negative MaxTTL means
	// never-expiring uploads are allowed.
	DefaultTTL int `json:"defaultTTL"`
	MaxTTL     int `json:"maxTTL"`

	// DownloadDomain, when set, overrides the API origin in every
	// download URL handed to users.
	DownloadDomain string `json:"downloadDomain,omitempty"`

	Authentication bool `json:"authentication"`
	OneShot        bool `json:"oneShot"`
	StreamMode     bool `json:"streamMode"`

	// ProtectedByPassword instances require basic-auth credentials on
	// every new session, OneTimeToken instances a single-use token.
	ProtectedByPassword bool `json:"protectedByPassword"`
	OneTimeToken        bool `json:"oneTimeToken"`
}

// User is the authenticated principal returned by GET /me.
type User struct {
	ID    string `json:"id,omitempty"`
	Login string `json:"login,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin"`

	// MaxTTL overrides the server-wide cap for this principal.
	// 0 defers to the server cap, negative means unlimited.
	MaxTTL int `json:"maxTTL"`
}

// ServerVersion is returned by GET /version.
type ServerVersion struct {
	Version string `json:"version"`
}

// ClientConfig is the local configuration loaded from the YAML config file,
// overridable by CLI flags.
type ClientConfig struct {
	ServerURL string `yaml:"serverURL"`

	Login    string `yaml:"login,omitempty"`
	Password string `yaml:"password,omitempty"`

	TTLValue int    `yaml:"ttlValue,omitempty"`
	TTLUnit  string `yaml:"ttlUnit,omitempty"`

	OneShot bool `yaml:"oneShot,omitempty"`
	Stream  bool `yaml:"stream,omitempty"`

	// RenameOnCollision enables automatic disambiguation of duplicate
	// file names instead of dropping the later selection.
	RenameOnCollision bool `yaml:"renameOnCollision,omitempty"`

	InsecureTLS bool `yaml:"insecureTLS,omitempty"`
}
