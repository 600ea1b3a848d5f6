package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/sixpicks/internal/collage"
	"github.com/kozaktomas/sixpicks/internal/library/mock"
)

func testCollage(t *testing.T) *collage.Collage {
	t.Helper()
	c, err := collage.Compose([]image.Image{mock.Solid(400, 300, mock.ColorFor("a"))})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestExport(t *testing.T) {
	lib := mock.NewMockLibrary()
	dir := t.TempDir()
	fixed := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

	e := New(lib, dir)
	e.Now = func() time.Time { return fixed }

	result, err := e.Export(context.Background(), testCollage(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if filepath.Dir(result.Path) != dir {
		t.Errorf("expected file in %s, got %s", dir, result.Path)
	}
	name := strings.TrimSuffix(filepath.Base(result.Path), ".jpg")
	if _, err := uuid.Parse(name); err != nil || !strings.HasSuffix(result.Path, ".jpg") {
		t.Errorf("expected <uuid>.jpg, got %s", filepath.Base(result.Path))
	}
	if result.AssetID != "asset-1" || !result.CreatedAt.Equal(fixed) {
		t.Errorf("unexpected result %+v", result)
	}

	// Temp file is kept and decodes to the full canvas.
	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("temp file missing: %v", err)
	}
	if len(data) != result.Size {
		t.Errorf("expected size %d, got %d", len(data), result.Size)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not a JPEG: %v", err)
	}
	if cfg.Width != 600 || cfg.Height != 900 {
		t.Errorf("expected 600x900, got %dx%d", cfg.Width, cfg.Height)
	}

	assets := lib.Assets()
	if len(assets) != 1 || !assets[0].CreatedAt.Equal(fixed) || !bytes.Equal(assets[0].Data, data) {
		t.Errorf("library did not receive the collage: %+v", assets)
	}
}

func TestExport_UniqueNames(t *testing.T) {
	e := New(mock.NewMockLibrary(), t.TempDir())
	c := testCollage(t)

	first, err := e.Export(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Export(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if first.Path == second.Path {
		t.Errorf("expected distinct temp files, both %s", first.Path)
	}
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(e *Exporter, lib *mock.MockLibrary)
		collage func(t *testing.T) *collage.Collage
		want    error
	}{
		{
			name:    "encode failure",
			setup:   func(e *Exporter, _ *mock.MockLibrary) { e.Quality = 0 },
			collage: testCollage,
			want:    collage.ErrEncodeFailed,
		},
		{
			name:    "nil collage",
			setup:   func(*Exporter, *mock.MockLibrary) {},
			collage: func(*testing.T) *collage.Collage { return nil },
			want:    collage.ErrEncodeFailed,
		},
		{
			name: "write failure",
			setup: func(e *Exporter, _ *mock.MockLibrary) {
				e.TempDir = filepath.Join(e.TempDir, "does", "not", "exist")
			},
			collage: testCollage,
			want:    ErrWriteFailed,
		},
		{
			name: "save failure",
			setup: func(_ *Exporter, lib *mock.MockLibrary) {
				lib.CreateError = errors.New("library is read only")
			},
			collage: testCollage,
			want:    ErrSaveFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := mock.NewMockLibrary()
			e := New(lib, t.TempDir())
			tt.setup(e, lib)

			result, err := e.Export(context.Background(), tt.collage(t))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if result != nil {
				t.Errorf("expected no result, got %+v", result)
			}
			if tt.want != ErrSaveFailed && len(lib.Assets()) != 0 {
				t.Errorf("nothing must reach the library on %s", tt.name)
			}
		})
	}
}
