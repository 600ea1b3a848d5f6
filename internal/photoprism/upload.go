package photoprism

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// UploadFile uploads a single file to the user's upload folder
// Returns the upload token used for processing
func (pp *PhotoPrism) UploadFile(ctx context.Context, filePath string) (string, error) {
	if pp.userUID == "" {
		return "", errors.New("user UID not available")
	}

	// Generate upload token (use current timestamp)
	uploadToken := strconv.FormatInt(time.Now().UnixNano(), 10)

	// Create multipart form
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := addFileToMultipart(writer, filePath); err != nil {
		return "", err
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("could not close writer: %w", err)
	}

	// Send request
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pp.resolveURL("users", pp.userUID, "upload", uploadToken), &body)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+pp.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := pp.httpClient.Do(req) //nolint:gosec // URL constructed from validated parsedURL via resolveURL
	if err != nil {
		return "", fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	return uploadToken, nil
}

// addFileToMultipart opens a file and writes it to the multipart writer.
func addFileToMultipart(writer *multipart.Writer, filePath string) error {
	file, err := os.Open(filePath) //nolint:gosec // path of a collage written by this process
	if err != nil {
		return fmt.Errorf("could not open file %s: %w", filePath, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("files", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("could not create form file: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("could not copy file data: %w", err)
	}
	return nil
}

// ProcessUpload processes previously uploaded files and optionally adds them to albums
func (pp *PhotoPrism) ProcessUpload(ctx context.Context, uploadToken string, albumUIDs []string) error {
	if pp.userUID == "" {
		return errors.New("user UID not available")
	}

	options := struct {
		Albums []string `json:"albums,omitempty"`
	}{
		Albums: albumUIDs,
	}

	return doRequestRaw(ctx, pp, http.MethodPut, fmt.Sprintf("users/%s/upload/%s", pp.userUID, uploadToken), options)
}
