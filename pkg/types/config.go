package types

// DefaultBaseURL is the backend API endpoint used when Config.BaseURL
// is left empty.
const DefaultBaseURL = "https://www.notion.so/api/v3"

// Config holds credentials and client options for notional.New.
type Config struct {
	// Token is the token_v2 session cookie value used to authenticate
	// every API request.
	Token string `json:"token" yaml:"token"`

	// UserID is the id stamped into created_by_id / last_edited_by_id
	// on every write.
	UserID string `json:"user_id" yaml:"user_id"`

	// BaseURL overrides the backend endpoint. Empty means DefaultBaseURL.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url"`

	// Cache enables the persistent table-key cache under DataDir.
	Cache bool `json:"cache" yaml:"cache"`

	// DataDir is where the persistent key cache lives. Ignored unless
	// Cache is true.
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir"`
}

// Validate checks that the Config carries the required credentials.
// It returns a sentinel error from this package on failure.
func (c Config) Validate() error {
	if c.Token == "" {
		return ErrTokenEmpty
	}
	if c.UserID == "" {
		return ErrUserIDEmpty
	}
	return nil
}
