// Package rasterize converts documents into base64-encoded PNG page images
// for clients that cannot render the source format natively.
package rasterize

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/rs/zerolog"
)

const (
	// DefaultMaxPages bounds the work done per document. Pages beyond the
	// cap are reported as skipped, not errors.
	DefaultMaxPages = 10

	// renderScale is fixed: clients expect pages at 2x for crisp display on
	// high-density screens.
	renderScale = 2.0
)

// Document is a paginated source that can render individual pages. Page
// indexes are zero-based.
type Document interface {
	PageCount() int
	RenderPage(ctx context.Context, index int, scale float64) (image.Image, error)
}

// Page is one successfully rendered page.
type Page struct {
	Index  int    `json:"index"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	PNG    string `json:"png"` // base64-encoded
}

// Result is the outcome of rasterizing a document. Rendering is best-effort:
// a page that fails to render is recorded in Failed and the rest continue.
type Result struct {
	Pages      []Page `json:"pages"`
	Failed     []int  `json:"failed,omitempty"`
	TotalPages int    `json:"total_pages"`
	Truncated  bool   `json:"truncated"`
}

// Rasterizer renders documents page by page.
type Rasterizer struct {
	maxPages int
	log      zerolog.Logger
}

// New creates a Rasterizer. maxPages <= 0 selects DefaultMaxPages.
func New(maxPages int, log zerolog.Logger) *Rasterizer {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Rasterizer{
		maxPages: maxPages,
		log:      log.With().Str("component", "rasterizer").Logger(),
	}
}

// Render rasterizes up to maxPages pages of the document. It fails outright
// only when every attempted page fails or the context is cancelled; partial
// output is a success.
func (r *Rasterizer) Render(ctx context.Context, doc Document) (*Result, error) {
	total := doc.PageCount()
	if total == 0 {
		return &Result{Pages: []Page{}, TotalPages: 0}, nil
	}

	limit := total
	if limit > r.maxPages {
		limit = r.maxPages
	}

	result := &Result{
		Pages:      make([]Page, 0, limit),
		TotalPages: total,
		Truncated:  total > r.maxPages,
	}

	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := r.renderOne(ctx, doc, i)
		if err != nil {
			r.log.Warn().Err(err).Int("page", i).Msg("Page render failed, skipping")
			result.Failed = append(result.Failed, i)
			continue
		}
		result.Pages = append(result.Pages, *page)
	}

	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("all %d attempted pages failed", limit)
	}
	return result, nil
}

func (r *Rasterizer) renderOne(ctx context.Context, doc Document, index int) (*Page, error) {
	img, err := doc.RenderPage(ctx, index, renderScale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", index, err)
	}

	bounds := img.Bounds()
	return &Page{
		Index:  index,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		PNG:    base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}
