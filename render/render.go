// Package render rasterizes glyph outlines into grayscale coverage
// masks.
//
// The mask is the shape renderer's contribution to the extraction
// pipeline: coverage is used directly as the alpha channel of the
// extracted glyph image, so pixels outside the glyph stay fully
// transparent.
package render

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Renderer rasterizes glyphs of a single font.
//
// It reuses an internal sfnt.Buffer between calls and is therefore NOT
// safe for concurrent use.
type Renderer struct {
	font *sfnt.Font
	buf  sfnt.Buffer
}

// New parses font data (TTF or OTF) into a Renderer.
func New(data []byte) (*Renderer, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("render: parsing font: %w", err)
	}
	return &Renderer{font: f}, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (r *Renderer) NumGlyphs() int {
	return r.font.NumGlyphs()
}

// Glyph renders the glyph with the given ID at ppem pixels per em and
// returns a tightly-bounded coverage mask with its origin at (0, 0).
//
// A glyph with no visible outline (space, or an empty stub) returns a
// nil mask and nil error: "no image" is not a failure. Load errors,
// including color glyphs the outline loader rejects, are returned to
// the caller, which is expected to treat them as a per-glyph skip.
func (r *Renderer) Glyph(glyphID uint16, ppem int) (*image.Alpha, error) {
	segments, err := r.font.LoadGlyph(&r.buf, sfnt.GlyphIndex(glyphID), fixed.I(ppem), nil)
	if err != nil {
		return nil, fmt.Errorf("render: glyph %d: %w", glyphID, err)
	}
	if len(segments) == 0 {
		return nil, nil
	}

	minX, minY, maxX, maxY := segmentBounds(segments)

	// Device space is y-down with the origin on the baseline; shift the
	// outline so the tight bounding box starts at pixel (0, 0).
	x0, y0 := minX.Floor(), minY.Floor()
	w := maxX.Ceil() - x0
	h := maxY.Ceil() - y0
	if w <= 0 || h <= 0 {
		return nil, nil
	}

	dx := float32(-x0)
	dy := float32(-y0)
	at := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 + dx, float32(p.Y)/64 + dy
	}

	ras := vector.NewRasterizer(w, h)
	ras.DrawOp = draw.Src
	started := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				ras.ClosePath()
			}
			x, y := at(seg.Args[0])
			ras.MoveTo(x, y)
			started = true
		case sfnt.SegmentOpLineTo:
			x, y := at(seg.Args[0])
			ras.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			bx, by := at(seg.Args[0])
			cx, cy := at(seg.Args[1])
			ras.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := at(seg.Args[0])
			cx, cy := at(seg.Args[1])
			dx2, dy2 := at(seg.Args[2])
			ras.CubeTo(bx, by, cx, cy, dx2, dy2)
		}
	}
	if started {
		ras.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask, nil
}

// segmentBounds returns the bounding box of all points used by the
// segments, in fixed-point device units. Control points are included,
// which can only overestimate the box, never clip the glyph.
func segmentBounds(segments []sfnt.Segment) (minX, minY, maxX, maxY fixed.Int26_6) {
	const big = fixed.Int26_6(1 << 30)
	minX, minY = big, big
	maxX, maxY = -big, -big

	for _, seg := range segments {
		n := 1
		switch seg.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for i := 0; i < n; i++ {
			p := seg.Args[i]
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
	}
	return minX, minY, maxX, maxY
}
