package photoprism

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

// doGetJSON performs a GET request and unmarshals the JSON response into the result type.
// The endpoint should be the path after the base API URL (e.g., "albums/123").
func doGetJSON[T any](ctx context.Context, pp *PhotoPrism, endpoint string) (*T, error) {
	return doRequestJSON[T](ctx, pp, http.MethodGet, endpoint, nil, http.StatusOK)
}

// doPostJSON performs a POST request with a JSON body and unmarshals the JSON response.
func doPostJSON[T any](ctx context.Context, pp *PhotoPrism, endpoint string, requestBody any) (*T, error) {
	return doRequestJSON[T](ctx, pp, http.MethodPost, endpoint, requestBody, http.StatusOK)
}

// doPostJSONCreated performs a POST request that accepts either 200 OK or 201 Created.
func doPostJSONCreated[T any](ctx context.Context, pp *PhotoPrism, endpoint string, requestBody any) (*T, error) {
	return doRequestJSON[T](ctx, pp, http.MethodPost, endpoint, requestBody, http.StatusOK, http.StatusCreated)
}

// newJSONRequest builds an authorized request with an optional JSON body.
func newJSONRequest(ctx context.Context, pp *PhotoPrism, method, endpoint string, requestBody any) (*http.Request, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		jsonBody, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, pp.resolveURL(endpoint), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+pp.token)
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// doRequestJSON is the internal helper that performs HTTP requests with JSON body and response.
// It accepts one or more valid status codes. If the response status doesn't match any, an error is returned.
func doRequestJSON[T any](ctx context.Context, pp *PhotoPrism, method, endpoint string, requestBody any, expectedStatuses ...int) (*T, error) {
	req, err := newJSONRequest(ctx, pp, method, endpoint, requestBody)
	if err != nil {
		return nil, err
	}

	resp, err := pp.httpClient.Do(req) //nolint:gosec // URL constructed from validated parsedURL via resolveURL
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if !isExpectedStatus(resp.StatusCode, expectedStatuses) {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	pp.captureResponse(endpoint, body)

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}

	return &result, nil
}

// doRequestRaw performs an HTTP request without JSON unmarshaling the response.
func doRequestRaw(ctx context.Context, pp *PhotoPrism, method, endpoint string, requestBody any) error {
	req, err := newJSONRequest(ctx, pp, method, endpoint, requestBody)
	if err != nil {
		return err
	}

	resp, err := pp.httpClient.Do(req) //nolint:gosec // URL constructed from validated parsedURL via resolveURL
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	return nil
}

// doDownload performs an unauthenticated GET (token in URL) and returns the body and content type.
func doDownload(ctx context.Context, pp *PhotoPrism, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("could not create request: %w", err)
	}

	resp, err := pp.httpClient.Do(req) //nolint:gosec // URL built from the configured API base
	if err != nil {
		return nil, "", fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("could not read response body: %w", err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// isExpectedStatus checks if a status code is in the list of expected statuses.
func isExpectedStatus(code int, expected []int) bool {
	return slices.Contains(expected, code)
}

// IsNotFoundError returns true if the error indicates a 404 Not Found response.
func IsNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "status 404")
}

// IsUnauthorizedError returns true if the error indicates a 401 Unauthorized response.
func IsUnauthorizedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "status 401")
}

// IsForbiddenError returns true if the error indicates a 403 Forbidden response.
func IsForbiddenError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "status 403")
}
