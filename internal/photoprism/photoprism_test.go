package photoprism

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func loadTestData(t *testing.T, filename string) []byte {
	t.Helper()
	path := filepath.Join("testdata", filename)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load test data %s: %v", filename, err)
	}
	return data
}

// mockServer records what the handlers received.
type mockServer struct {
	*httptest.Server
	mu          sync.Mutex
	photosQuery string
	uploaded    string
	processed   string
	created     string
}

func setupMockServer(t *testing.T) *mockServer {
	t.Helper()

	sessionData := loadTestData(t, "sessions.json")
	albumsData := loadTestData(t, "albums.json")
	albumData := loadTestData(t, "album.json")
	photosData := loadTestData(t, "photos_march.json")

	ms := &mockServer{}
	mux := http.NewServeMux()

	// Mock auth endpoint
	mux.HandleFunc("/api/v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(sessionData)
	})

	// Mock session check and logout endpoint
	mux.HandleFunc("/api/v1/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer accesstoken123" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/api/v1/albums", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			ms.mu.Lock()
			ms.created = string(body)
			ms.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"UID":"at9lxuqxpogaaba9","Title":"New Album","Type":"album"}`))
			return
		}
		w.Write(albumsData)
	})

	mux.HandleFunc("/api/v1/albums/at9lxuqxpogaaba8", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(albumData)
	})

	mux.HandleFunc("/api/v1/photos", func(w http.ResponseWriter, r *http.Request) {
		ms.mu.Lock()
		ms.photosQuery = r.URL.RawQuery
		ms.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write(photosData)
	})

	mux.HandleFunc("/api/v1/t/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/downloadtoken123/") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("thumbnail:" + filepath.Base(r.URL.Path)))
	})

	mux.HandleFunc("/api/v1/users/us7c1f0a2b3c4d5e/upload/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			file, header, err := r.FormFile("files")
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			defer file.Close()
			ms.mu.Lock()
			ms.uploaded = header.Filename
			ms.mu.Unlock()
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			ms.mu.Lock()
			ms.processed = string(body)
			ms.mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200}`))
	})

	ms.Server = httptest.NewServer(mux)
	return ms
}

func (ms *mockServer) recorded() (photosQuery, uploaded, processed, created string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.photosQuery, ms.uploaded, ms.processed, ms.created
}

func newTestClient(t *testing.T, url string) *PhotoPrism {
	t.Helper()
	pp, err := NewPhotoPrism(context.Background(), url, "test", "test")
	if err != nil {
		t.Fatalf("NewPhotoPrism failed: %v", err)
	}
	return pp
}

func TestAuth(t *testing.T) {
	server := setupMockServer(t)
	defer server.Close()

	pp := newTestClient(t, server.URL)

	if pp.token != "accesstoken123" {
		t.Errorf("expected access token 'accesstoken123', got '%s'", pp.token)
	}
	if pp.downloadToken != "downloadtoken123" {
		t.Errorf("expected downloadToken 'downloadtoken123', got '%s'", pp.downloadToken)
	}
	if pp.userUID != "us7c1f0a2b3c4d5e" {
		t.Errorf("expected user UID 'us7c1f0a2b3c4d5e', got '%s'", pp.userUID)
	}
	if !pp.HasToken() {
		t.Error("expected HasToken to be true")
	}
}

func TestCheckSession(t *testing.T) {
	server := setupMockServer(t)
	defer server.Close()

	pp := newTestClient(t, server.URL)
	if err := pp.CheckSession(context.Background()); err != nil {
		t.Fatalf("CheckSession failed: %v", err)
	}

	stale, err := NewPhotoPrismFromToken(server.URL, "expired", "")
	if err != nil {
		t.Fatalf("NewPhotoPrismFromToken failed: %v", err)
	}
	err = stale.CheckSession(context.Background())
	if !IsUnauthorizedError(err) {
		t.Errorf("expected unauthorized error, got: %v", err)
	}
}

func TestLogout(t *testing.T) {
	server := setupMockServer(t)
	defer server.Close()

	pp := newTestClient(t, server.URL)

	if err := pp.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if pp.token != "" {
		t.Errorf("expected token to be empty after logout, got '%s'", pp.token)
	}
	if pp.downloadToken != "" {
		t.Errorf("expected downloadToken to be empty after logout, got '%s'", pp.downloadToken)
	}

	// Logout again should be no-op
	if err := pp.Logout(context.Background()); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
}

func TestGetPhotos(t *testing.T) {
	server := setupMockServer(t)
	defer server.Close()

	pp := newTestClient(t, server.URL)

	photos, err := pp.GetPhotos(context.Background(), PhotoQuery{
		Count:  100,
		Offset: 200,
		Order:  "oldest",
		After:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		Before: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("GetPhotos failed: %v", err)
	}

	if len(photos) != 3 {
		t.Fatalf("expected 3 photos, got %d", len(photos))
	}
	if photos[0].UID != "ps9lxuqxpogaaaa1" {
		t.Errorf("expected first photo UID 'ps9lxuqxpogaaaa1', got '%s'", photos[0].UID)
	}
	if photos[1].Width != 3024 || photos[1].Height != 4032 {
		t.Errorf("expected 3024x4032, got %dx%d", photos[1].Width, photos[1].Height)
	}

	photosQuery, _, _, _ := server.recorded()
	for _, want := range []string{"count=100", "offset=200", "order=oldest", "after=2024-02-29", "before=2024-04-02"} {
		if !strings.Contains(photosQuery, want) {
			t.Errorf("expected query to contain %q, got %q", want, photosQuery)
		}
	}
	if strings.Contains(photosQuery, "quality=") {
		t.Errorf("expected no quality filter, got %q", photosQuery)
	}
}

func TestPhotoQueryValues(t *testing.T) {
	v := PhotoQuery{Count: 10, Query: "year:2024", Quality: 3, Album: "at1"}.values()

	tests := map[string]string{
		"count":   "10",
		"offset":  "0",
		"q":       "year:2024",
		"quality": "3",
		"s":       "at1",
		"order":   "",
		"after":   "",
	}
	for key, want := range tests {
		if got := v.Get(key); got != want {
			t.Errorf("%s: expected %q, got %q", key, want, got)
		}
	}
}

func TestPhotoTakenIn(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}

	tests := []struct {
		name  string
		photo Photo
		want  time.Time
		ok    bool
	}{
		{
			name:  "local wall clock wins",
			photo: Photo{TakenAt: "2024-02-29T23:30:00Z", TakenAtLocal: "2024-03-01T00:30:00Z"},
			want:  time.Date(2024, 3, 1, 0, 30, 0, 0, prague),
			ok:    true,
		},
		{
			name:  "fallback to utc",
			photo: Photo{TakenAt: "2024-02-29T23:30:00Z"},
			want:  time.Date(2024, 3, 1, 0, 30, 0, 0, prague),
			ok:    true,
		},
		{
			name:  "no date",
			photo: Photo{UID: "x"},
			ok:    false,
		},
		{
			name:  "garbage",
			photo: Photo{TakenAtLocal: "yesterday", TakenAt: "soon"},
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.photo.TakenIn(prague)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPhotoDisplayName(t *testing.T) {
	tests := []struct {
		photo Photo
		want  string
	}{
		{Photo{UID: "p1", OriginalName: "IMG_1.jpg", FileName: "a/b.jpg"}, "IMG_1.jpg"},
		{Photo{UID: "p2", FileName: "a/b.jpg", Title: "Title"}, "a/b.jpg"},
		{Photo{UID: "p3", Title: "Title"}, "Title"},
		{Photo{UID: "p4"}, "p4"},
	}
	for _, tt := range tests {
		if got := tt.photo.DisplayName(); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.photo.UID, tt.want, got)
		}
	}
}

func TestGetPhotoThumbnail(t *testing.T) {
	server := setupMockServer(t)
	defer server.Close()

	pp := newTestClient(t, server.URL)

	data, contentType, err := pp.GetPhotoThumbnail(context.Background(), "a1b2c3", "tile_500")
	if err != nil {
		t.Fatalf("GetPhotoThumbnail failed: %v", err)
	}
	if contentType != "image/jpeg" {
		t.Errorf("expected content type image/jpeg, got %q", contentType)
	}
	if string(data) != "thumbnail:tile_500" {
		t.Errorf("unexpected body %q", data)
	}

	noToken, _ := NewPhotoPrismFromToken(server.URL, "accesstoken123", "wrong")
	_, _, err = noToken.GetPhotoThumbnail(context.Background(), "a1b2c3", "tile_500")
	if !IsForbiddenError(err) {
		t.Errorf("expected forbidden error, got: %v", err)
	}
}

func TestGetAlbums(t *testing.T) {
	server := setupMockServer(t)
	defer server.Close()

	pp := newTestClient(t, server.URL)

	albums, err := pp.GetAlbums(context.Background(), 100, 0, "", "album")
	if err != nil {
		t.Fatalf("GetAlbums failed: %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(albums))
	}
	if albums[1].Title != "Six Picks" {
		t.Errorf("expected 'Six Picks', got %q", albums[1].Title)
	}

	album, err := pp.GetAlbum(context.Background(), "at9lxuqxpogaaba8")
	if err != nil {
		t.Fatalf("GetAlbum failed: %v", err)
	}
	if album.PhotoCount != 3 {
		t.Errorf("expected PhotoCount 3, got %d", album.PhotoCount)
	}
}

func TestCreateAlbum(t *testing.T) {
	server := setupMockServer(t)
	defer server.Close()

	pp := newTestClient(t, server.URL)

	album, err := pp.CreateAlbum(context.Background(), "New Album")
	if err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}
	if album.UID != "at9lxuqxpogaaba9" {
		t.Errorf("expected UID 'at9lxuqxpogaaba9', got %q", album.UID)
	}
	if _, _, _, created := server.recorded(); created != `{"Title":"New Album"}` {
		t.Errorf("unexpected create body %q", created)
	}
}

func TestUploadAndProcess(t *testing.T) {
	server := setupMockServer(t)
	defer server.Close()

	pp := newTestClient(t, server.URL)

	path := filepath.Join(t.TempDir(), "collage.jpg")
	if err := os.WriteFile(path, []byte("jpeg"), 0600); err != nil {
		t.Fatal(err)
	}

	token, err := pp.UploadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected upload token")
	}
	if _, uploaded, _, _ := server.recorded(); uploaded != "collage.jpg" {
		t.Errorf("expected uploaded file 'collage.jpg', got %q", uploaded)
	}

	if err := pp.ProcessUpload(context.Background(), token, []string{"at9lxuqxpogaaba8"}); err != nil {
		t.Fatalf("ProcessUpload failed: %v", err)
	}
	if _, _, processed, _ := server.recorded(); processed != `{"albums":["at9lxuqxpogaaba8"]}` {
		t.Errorf("unexpected process body %q", processed)
	}
}

func TestUploadFile_NoUser(t *testing.T) {
	pp, err := NewPhotoPrismFromToken("http://localhost", "token", "dl")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pp.UploadFile(context.Background(), "missing.jpg"); err == nil {
		t.Fatal("expected error without user UID")
	}
}

func TestCaptureResponse(t *testing.T) {
	server := setupMockServer(t)
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "capture")
	pp, err := NewPhotoPrismWithCapture(context.Background(), server.URL, "test", "test", dir)
	if err != nil {
		t.Fatalf("NewPhotoPrismWithCapture failed: %v", err)
	}

	if _, err := pp.GetAlbums(context.Background(), 10, 0, "", ""); err != nil {
		t.Fatalf("GetAlbums failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "sessions_") || !strings.Contains(joined, "albums_") {
		t.Errorf("expected captured sessions and albums, got %v", names)
	}
}

func TestResolveURL(t *testing.T) {
	pp, err := NewPhotoPrismFromToken("http://example.com/pp/", "t", "d")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		segments []string
		want     string
	}{
		{nil, "http://example.com/pp/api/v1"},
		{[]string{"albums"}, "http://example.com/pp/api/v1/albums"},
		{[]string{"photos?count=1&offset=0"}, "http://example.com/pp/api/v1/photos?count=1&offset=0"},
		{[]string{"users", "u1", "upload", "42"}, "http://example.com/pp/api/v1/users/u1/upload/42"},
	}
	for _, tt := range tests {
		if got := pp.resolveURL(tt.segments...); got != tt.want {
			t.Errorf("resolveURL(%v) = %q, want %q", tt.segments, got, tt.want)
		}
	}
}

func setupErrorServer(statusCode int, body string) *httptest.Server {
	mux := http.NewServeMux()

	// Auth always succeeds
	mux.HandleFunc("/api/v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":           "test-session-id",
			"access_token": "test-token",
			"config": map[string]string{
				"downloadToken": "test-download-token",
				"previewToken":  "test-preview-token",
			},
		})
	})

	// All other endpoints return the error
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		w.Write([]byte(body))
	})

	return httptest.NewServer(mux)
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, "404", IsNotFoundError},
		{"unauthorized", http.StatusUnauthorized, "401", IsUnauthorizedError},
		{"forbidden", http.StatusForbidden, "403", IsForbiddenError},
		{"server error", http.StatusInternalServerError, "500", nil},
		{"unavailable", http.StatusServiceUnavailable, "503", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupErrorServer(tt.status, `{"error": "`+tt.name+`"}`)
			defer server.Close()

			pp := newTestClient(t, server.URL)

			_, err := pp.GetAlbum(context.Background(), "at9lxuqxpogaaba8")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error to contain %q, got: %v", tt.want, err)
			}
			if tt.check != nil && !tt.check(err) {
				t.Errorf("status helper did not match: %v", err)
			}

			_, err = pp.GetPhotos(context.Background(), PhotoQuery{Count: 1})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected photos error with %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestNewPhotoPrism_AuthFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`not valid json`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := NewPhotoPrism(context.Background(), server.URL, "bad", "credentials")
	if err == nil {
		t.Fatal("expected error for auth failure")
	}
	if !strings.Contains(err.Error(), "authenticate") {
		t.Errorf("expected error to mention authentication, got: %v", err)
	}
	if !IsUnauthorizedError(err) {
		t.Errorf("expected unauthorized status in error, got: %v", err)
	}
}

func TestNewPhotoPrism_AuthFailure_ConnectionRefused(t *testing.T) {
	// Use a port that's unlikely to be in use
	_, err := NewPhotoPrism(context.Background(), "http://localhost:59999", "test", "test")
	if err == nil {
		t.Fatal("expected error for connection refused")
	}
	if !strings.Contains(err.Error(), "authenticate") {
		t.Errorf("expected error to mention authentication, got: %v", err)
	}
}
