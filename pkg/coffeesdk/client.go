package coffeesdk

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Permissions understood by the drinks API.
const (
	PermissionGetDrinksDetail = "get:drinks-detail"
	PermissionPostDrinks      = "post:drinks"
	PermissionPatchDrinks     = "patch:drinks"
	PermissionDeleteDrinks    = "delete:drinks"
)

// SDKClient talks to the public side of the drinks API and creates Sessions
// for the guarded side.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// CheckPermissions makes Sessions refuse calls their token cannot make
	// before anything is sent. Disable it in tests that exercise the
	// server's own checks. Default: true
	CheckPermissions bool
}

// NewSDKClient creates a client with permission checking enabled.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		CheckPermissions: true,
	}
}

// Session makes requests with a bearer token.
type Session struct {
	client      *SDKClient
	accessToken string
	permissions []string
}

// NewSession wraps an access token. The token is decoded but not verified;
// the server is the only party that can do that. A token that is not a JWT
// is rejected only when CheckPermissions is on.
func (c *SDKClient) NewSession(accessToken string) (*Session, error) {
	s := &Session{client: c, accessToken: accessToken}

	perms, err := unverifiedPermissions(accessToken)
	if err != nil && c.CheckPermissions {
		return nil, fmt.Errorf("coffeesdk: decode access token: %w", err)
	}
	s.permissions = perms
	return s, nil
}

// Permissions returns the permissions the token claims to grant.
func (s *Session) Permissions() []string {
	return slices.Clone(s.permissions)
}

func (s *Session) checkPermission(permission string) error {
	if !s.client.CheckPermissions || slices.Contains(s.permissions, permission) {
		return nil
	}
	return &MissingPermissionError{Permission: permission}
}

func unverifiedPermissions(token string) ([]string, error) {
	var claims struct {
		jwt.RegisteredClaims
		Permissions []string `json:"permissions"`
	}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, err
	}
	return claims.Permissions, nil
}
