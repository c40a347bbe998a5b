package rasterize

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"testing"

	"github.com/rs/zerolog"
)

// fakeDocument renders blank pages and fails on the indexes in failAt.
type fakeDocument struct {
	pages  int
	failAt map[int]bool
}

func (d *fakeDocument) PageCount() int { return d.pages }

func (d *fakeDocument) RenderPage(_ context.Context, index int, scale float64) (image.Image, error) {
	if d.failAt[index] {
		return nil, errors.New("render failure")
	}
	size := int(100 * scale)
	return image.NewRGBA(image.Rect(0, 0, size, size)), nil
}

func TestRenderAllPages(t *testing.T) {
	r := New(0, zerolog.Nop())
	doc := &fakeDocument{pages: 3}

	result, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(result.Pages))
	}
	if result.Truncated {
		t.Error("3-page document must not be truncated")
	}

	for i, p := range result.Pages {
		if p.Index != i {
			t.Errorf("page %d has index %d", i, p.Index)
		}
		if p.Width != 200 || p.Height != 200 {
			t.Errorf("page %d is %dx%d, want 200x200 at 2x scale", i, p.Width, p.Height)
		}
		if _, err := base64.StdEncoding.DecodeString(p.PNG); err != nil {
			t.Errorf("page %d PNG is not valid base64: %v", i, err)
		}
	}
}

func TestRenderSkipsFailedPages(t *testing.T) {
	r := New(0, zerolog.Nop())
	doc := &fakeDocument{pages: 4, failAt: map[int]bool{1: true, 3: true}}

	result, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("partial failure must not be an error: %v", err)
	}
	if len(result.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(result.Pages))
	}
	if len(result.Failed) != 2 || result.Failed[0] != 1 || result.Failed[1] != 3 {
		t.Errorf("failed = %v, want [1 3]", result.Failed)
	}
	if result.Pages[0].Index != 0 || result.Pages[1].Index != 2 {
		t.Errorf("surviving indexes = %d, %d, want 0, 2", result.Pages[0].Index, result.Pages[1].Index)
	}
}

func TestRenderTruncatesAtMaxPages(t *testing.T) {
	r := New(2, zerolog.Nop())
	doc := &fakeDocument{pages: 5}

	result, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Pages) != 2 {
		t.Errorf("got %d pages, want 2", len(result.Pages))
	}
	if !result.Truncated {
		t.Error("expected Truncated for a document over the cap")
	}
	if result.TotalPages != 5 {
		t.Errorf("TotalPages = %d, want 5", result.TotalPages)
	}
}

func TestRenderFailsWhenEveryPageFails(t *testing.T) {
	r := New(0, zerolog.Nop())
	doc := &fakeDocument{pages: 2, failAt: map[int]bool{0: true, 1: true}}

	if _, err := r.Render(context.Background(), doc); err == nil {
		t.Fatal("expected error when no page renders")
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	r := New(0, zerolog.Nop())

	result, err := r.Render(context.Background(), &fakeDocument{pages: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Pages) != 0 {
		t.Errorf("got %d pages, want 0", len(result.Pages))
	}
}

func TestRenderHonorsCancelledContext(t *testing.T) {
	r := New(0, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Render(ctx, &fakeDocument{pages: 2}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
