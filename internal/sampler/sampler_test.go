package sampler

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/kozaktomas/sixpicks/internal/library"
	"github.com/kozaktomas/sixpicks/internal/library/mock"
	"github.com/kozaktomas/sixpicks/internal/monthrange"
)

var march = monthrange.ForDate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

func newLibrary(days int) *mock.MockLibrary {
	lib := mock.NewMockLibrary()
	lib.AddDaily("mar", march.Start, days)
	lib.AddDaily("feb", march.Prev().Start, 29)
	lib.AddDaily("apr", march.Next().Start, 30)
	return lib
}

func ids(picks []Pick) []string {
	out := make([]string, len(picks))
	for i, p := range picks {
		out[i] = p.Photo.ID
	}
	return out
}

func TestSelectMonthlyPhotos_PermissionDenied(t *testing.T) {
	for _, status := range []library.AuthorizationStatus{library.NotDetermined, library.Restricted, library.Denied} {
		t.Run(status.String(), func(t *testing.T) {
			lib := newLibrary(10)
			lib.Status = status

			picks, err := New(lib).SelectMonthlyPhotos(context.Background(), march)
			if !errors.Is(err, library.ErrPermissionDenied) {
				t.Fatalf("expected ErrPermissionDenied, got %v", err)
			}
			if picks != nil {
				t.Errorf("expected no picks, got %v", picks)
			}
			if lib.ListCalls() != 0 {
				t.Errorf("library must not be queried without permission, got %d calls", lib.ListCalls())
			}
		})
	}
}

func TestSelectMonthlyPhotos_LimitedAccess(t *testing.T) {
	lib := newLibrary(3)
	lib.Status = library.Limited

	picks, err := New(lib).SelectMonthlyPhotos(context.Background(), march)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(picks) != 3 {
		t.Errorf("expected 3 picks, got %d", len(picks))
	}
}

func TestSelectMonthlyPhotos_NoPhotos(t *testing.T) {
	lib := newLibrary(0)

	picks, err := New(lib).SelectMonthlyPhotos(context.Background(), march)
	if err != nil {
		t.Fatalf("empty month is not an error, got %v", err)
	}
	if len(picks) != 0 {
		t.Errorf("expected no picks, got %v", ids(picks))
	}
	if lib.LoadCalls() != 0 {
		t.Errorf("expected no loads, got %d", lib.LoadCalls())
	}
}

func TestSelectMonthlyPhotos_Count(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{1, 1},
		{5, 5},
		{6, 6},
		{7, 6},
		{31, 6},
	}

	for _, tt := range tests {
		lib := newLibrary(tt.days)
		picks, err := New(lib).SelectMonthlyPhotos(context.Background(), march)
		if err != nil {
			t.Fatalf("days=%d: unexpected error: %v", tt.days, err)
		}
		if len(picks) != tt.want {
			t.Errorf("days=%d: expected %d picks, got %d", tt.days, tt.want, len(picks))
		}

		seen := make(map[string]bool)
		for i, p := range picks {
			if seen[p.Photo.ID] {
				t.Errorf("days=%d: duplicate photo %s", tt.days, p.Photo.ID)
			}
			seen[p.Photo.ID] = true
			if !march.Contains(p.Photo.CreatedAt) {
				t.Errorf("days=%d: photo %s outside month", tt.days, p.Photo.ID)
			}
			if p.Slot != i {
				t.Errorf("days=%d: pick %d has slot %d", tt.days, i, p.Slot)
			}
			if p.Image == nil {
				t.Errorf("days=%d: pick %d has no image", tt.days, i)
			}
		}
	}
}

func TestSelectMonthlyPhotos_SeedIsReproducible(t *testing.T) {
	lib := newLibrary(31)

	first, err := New(lib).WithSeed(42).SelectMonthlyPhotos(context.Background(), march)
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(lib).WithSeed(42).SelectMonthlyPhotos(context.Background(), march)
	if err != nil {
		t.Fatal(err)
	}

	a, b := ids(first), ids(second)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave different picks: %v vs %v", a, b)
		}
	}
}

func TestSelectMonthlyPhotos_EveryPhotoReachable(t *testing.T) {
	lib := newLibrary(10)
	s := New(lib)

	seen := make(map[string]bool)
	for range 200 {
		picks, err := s.SelectMonthlyPhotos(context.Background(), march)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range picks {
			seen[p.Photo.ID] = true
		}
	}
	if len(seen) != 10 {
		t.Errorf("expected all 10 photos to be picked at some point, saw %d", len(seen))
	}
}

func TestSelectMonthlyPhotos_FailedLoadsExcluded(t *testing.T) {
	lib := newLibrary(6)
	lib.FailLoad("mar-02")
	lib.FailLoad("mar-05")

	ordered, err := New(lib).WithSeed(7).SelectMonthlyPhotos(context.Background(), march)
	if err != nil {
		t.Fatalf("load failures must not fail the selection: %v", err)
	}
	if len(ordered) != 4 {
		t.Fatalf("expected 4 picks, got %v", ids(ordered))
	}
	for _, p := range ordered {
		if p.Photo.ID == "mar-02" || p.Photo.ID == "mar-05" {
			t.Errorf("failed photo %s must be excluded", p.Photo.ID)
		}
	}

	// Remaining picks keep the order of the random selection.
	all, err := New(newLibrary(6)).WithSeed(7).SelectMonthlyPhotos(context.Background(), march)
	if err != nil {
		t.Fatal(err)
	}
	var expected []string
	for _, id := range ids(all) {
		if id != "mar-02" && id != "mar-05" {
			expected = append(expected, id)
		}
	}
	for i, id := range ids(ordered) {
		if expected[i] != id {
			t.Fatalf("expected order %v, got %v", expected, ids(ordered))
		}
	}
}

func TestSelectMonthlyPhotos_AllLoadsFail(t *testing.T) {
	lib := newLibrary(3)
	for _, id := range []string{"mar-01", "mar-02", "mar-03"} {
		lib.FailLoad(id)
	}

	picks, err := New(lib).SelectMonthlyPhotos(context.Background(), march)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(picks) != 0 {
		t.Errorf("expected no picks, got %v", ids(picks))
	}
	if lib.LoadCalls() != 3 {
		t.Errorf("every chosen photo must be loaded once, got %d loads", lib.LoadCalls())
	}
}

func TestSelectMonthlyPhotos_ListError(t *testing.T) {
	lib := newLibrary(3)
	lib.ListError = errors.New("disk gone")

	if _, err := New(lib).SelectMonthlyPhotos(context.Background(), march); err == nil {
		t.Fatal("expected error")
	}
}

func TestSelectMonthlyPhotos_ConcurrentLoads(t *testing.T) {
	lib := newLibrary(31)
	lib.LoadDelay = 20 * time.Millisecond

	var mu sync.Mutex
	var calls []int
	s := New(lib)
	s.Concurrency = 3
	s.Progress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total != 6 {
			t.Errorf("expected total 6, got %d", total)
		}
		calls = append(calls, done)
	}

	picks, err := s.SelectMonthlyPhotos(context.Background(), march)
	if err != nil {
		t.Fatal(err)
	}
	if len(picks) != 6 {
		t.Fatalf("expected 6 picks, got %d", len(picks))
	}
	if got := lib.MaxInFlight(); got > 3 {
		t.Errorf("expected at most 3 concurrent loads, saw %d", got)
	}
	if got := lib.MaxInFlight(); got < 2 {
		t.Errorf("expected loads to overlap, saw %d", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 6 {
		t.Errorf("expected 6 progress calls, got %d", len(calls))
	}
}

func TestSelectMonthlyPhotos_Cancelled(t *testing.T) {
	lib := newLibrary(10)
	lib.LoadDelay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := New(lib).SelectMonthlyPhotos(ctx, march); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestSelectMonthlyPhotos_UsesLoadSize(t *testing.T) {
	lib := mock.NewMockLibrary()
	lib.AddPhoto(library.Photo{ID: "unknown-size", CreatedAt: march.Start})

	picks, err := New(lib).SelectMonthlyPhotos(context.Background(), march)
	if err != nil {
		t.Fatal(err)
	}
	if got := picks[0].Image.Bounds().Size(); got != image.Pt(300, 300) {
		t.Errorf("expected requested size 300x300, got %v", got)
	}
}

func TestSelectMonthlyPhotos_ContextProgress(t *testing.T) {
	lib := newLibrary(3)
	s := New(lib)
	s.Progress = func(int, int) { t.Error("sampler progress must not be used when the context carries one") }

	var mu sync.Mutex
	last := 0
	ctx := WithProgress(context.Background(), func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		last = max(last, done)
	})

	if _, err := s.SelectMonthlyPhotos(ctx, march); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	if last != 3 {
		t.Errorf("expected progress to reach 3, got %d", last)
	}
}
