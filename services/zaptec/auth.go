package zaptec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// AuthError reports a failed token exchange. Status is the HTTP status
// code, or 0 when the request never completed.
type AuthError struct {
	Status int
	Err    error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("authentication failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// AuthHandler performs the password-grant token exchange against the
// Zaptec API. Tokens are held in memory for a single run; there is no
// refresh.
type AuthHandler struct {
	client     *http.Client
	apiBaseURL string
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(client *http.Client, apiBaseURL string) *AuthHandler {
	return &AuthHandler{
		client:     client,
		apiBaseURL: apiBaseURL,
	}
}

// Authenticate exchanges the credentials for a bearer access token.
// Any transport error or non-2xx status is returned as *AuthError.
func (ah *AuthHandler) Authenticate(username, password string) (string, error) {
	authURL := fmt.Sprintf("%s/oauth/token", ah.apiBaseURL)

	formData := url.Values{}
	formData.Set("grant_type", "password")
	formData.Set("username", username)
	formData.Set("password", password)

	req, err := http.NewRequest("POST", authURL, bytes.NewBufferString(formData.Encode()))
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("failed to create auth request: %v", err)}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := ah.client.Do(req)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", &AuthError{Status: resp.StatusCode, Err: fmt.Errorf("%s", string(body))}
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", &AuthError{Status: resp.StatusCode, Err: fmt.Errorf("failed to decode auth response: %v", err)}
	}

	return authResp.AccessToken, nil
}
