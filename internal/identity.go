package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultIdentityBaseURL = "https://identitytoolkit.googleapis.com/v1"
	defaultTokenBaseURL    = "https://securetoken.googleapis.com/v1"
)

// IdentityClient talks to the hosted identity provider's REST API.
type IdentityClient struct {
	apiKey       string
	identityBase string
	tokenBase    string
	httpClient   *http.Client
}

// UserSession is the provider-issued session for a signed-in user.
type UserSession struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name,omitempty"`
	IDToken      string    `json:"id_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the ID token needs refreshing.
func (s *UserSession) Expired() bool {
	return time.Now().After(s.ExpiresAt.Add(-time.Minute))
}

// NewIdentityClient creates a client for the given project API key.
func NewIdentityClient(apiKey string) *IdentityClient {
	return &IdentityClient{
		apiKey:       apiKey,
		identityBase: defaultIdentityBaseURL,
		tokenBase:    defaultTokenBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURLs overrides the provider endpoints. Used in tests.
func (c *IdentityClient) SetBaseURLs(identityBase, tokenBase string) {
	c.identityBase = identityBase
	c.tokenBase = tokenBase
}

type identityError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type identityTokenResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

func (c *IdentityClient) post(ctx context.Context, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AuthError{Code: "NETWORK_ERROR", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var ie identityError
		if err := json.NewDecoder(resp.Body).Decode(&ie); err != nil || ie.Error.Message == "" {
			return &AuthError{Code: "UNKNOWN", Err: fmt.Errorf("status %d", resp.StatusCode)}
		}
		return &AuthError{Code: ie.Error.Message, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func sessionFromToken(tr *identityTokenResponse) (*UserSession, error) {
	seconds, err := strconv.Atoi(tr.ExpiresIn)
	if err != nil {
		seconds = 3600
	}
	return &UserSession{
		UID:          tr.LocalID,
		Email:        tr.Email,
		DisplayName:  tr.DisplayName,
		IDToken:      tr.IDToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(seconds) * time.Second),
	}, nil
}

// SignIn exchanges an email/password credential for a session.
func (c *IdentityClient) SignIn(ctx context.Context, email, password string) (*UserSession, error) {
	url := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", c.identityBase, c.apiKey)
	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var tr identityTokenResponse
	if err := c.post(ctx, url, payload, &tr); err != nil {
		return nil, err
	}
	return sessionFromToken(&tr)
}

// SignUp creates a new account for the given credential.
func (c *IdentityClient) SignUp(ctx context.Context, email, password string) (*UserSession, error) {
	url := fmt.Sprintf("%s/accounts:signUp?key=%s", c.identityBase, c.apiKey)
	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var tr identityTokenResponse
	if err := c.post(ctx, url, payload, &tr); err != nil {
		return nil, err
	}
	return sessionFromToken(&tr)
}

// UpdateDisplayName sets the profile display name on the account behind the
// session token.
func (c *IdentityClient) UpdateDisplayName(ctx context.Context, session *UserSession, name string) error {
	url := fmt.Sprintf("%s/accounts:update?key=%s", c.identityBase, c.apiKey)
	payload := map[string]interface{}{
		"idToken":           session.IDToken,
		"displayName":       name,
		"returnSecureToken": false,
	}
	var out struct {
		DisplayName string `json:"displayName"`
	}
	if err := c.post(ctx, url, payload, &out); err != nil {
		return err
	}
	session.DisplayName = out.DisplayName
	return nil
}

// Refresh exchanges the refresh token for a fresh ID token.
func (c *IdentityClient) Refresh(ctx context.Context, session *UserSession) (*UserSession, error) {
	url := fmt.Sprintf("%s/token?key=%s", c.tokenBase, c.apiKey)
	payload := map[string]interface{}{
		"grant_type":    "refresh_token",
		"refresh_token": session.RefreshToken,
	}
	var out struct {
		UserID       string `json:"user_id"`
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	if err := c.post(ctx, url, payload, &out); err != nil {
		return nil, err
	}

	seconds, err := strconv.Atoi(out.ExpiresIn)
	if err != nil {
		seconds = 3600
	}
	refreshed := *session
	refreshed.UID = out.UserID
	refreshed.IDToken = out.IDToken
	refreshed.RefreshToken = out.RefreshToken
	refreshed.ExpiresAt = time.Now().Add(time.Duration(seconds) * time.Second)
	return &refreshed, nil
}

// IsValidEmail performs the same shape check the register screen applies
// before calling the provider.
func IsValidEmail(email string) bool {
	at := -1
	dot := -1
	for i, r := range email {
		switch r {
		case '@':
			if at >= 0 {
				return false
			}
			at = i
		case '.':
			if at >= 0 {
				dot = i
			}
		case ' ', '\t', '\n':
			return false
		}
	}
	return at > 0 && dot > at+1 && dot < len(email)-1
}
