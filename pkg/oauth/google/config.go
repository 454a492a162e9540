package google

import "errors"

const (
	tokenURL    = "https://oauth2.googleapis.com/token"
	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	authURL     = "https://accounts.google.com/o/oauth2/v2/auth"
)

// Config holds Google OAuth client configuration
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Validate checks whether the configuration is usable
func (c Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("google oauth: client id is required")
	}
	if c.ClientSecret == "" {
		return errors.New("google oauth: client secret is required")
	}
	if c.RedirectURL == "" {
		return errors.New("google oauth: redirect url is required")
	}
	return nil
}
