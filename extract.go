package emojifont

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gogpu/emojifont/fontfile"
	"github.com/gogpu/emojifont/render"
	"github.com/gogpu/emojifont/strike"
	"github.com/gogpu/emojifont/table"
)

// GlyphImageSet maps glyph names to extracted images, straight
// (non-premultiplied) RGBA. Glyphs with no reusable bitmap and no
// renderable outline are absent; the map never holds nil entries.
type GlyphImageSet map[string]*image.NRGBA

// imageSource is one strategy for producing a glyph image. Sources are
// tried in priority order; the first non-nil image wins and the rest
// are not consulted. A nil result means "this source has nothing for
// the glyph", whatever the reason; every failure is per-glyph.
type imageSource interface {
	// Name identifies the source in logs.
	Name() string

	// GlyphImage returns the image for a glyph, or nil.
	GlyphImage(glyphID uint16) *image.NRGBA
}

// sbixSource reuses PNG bitmaps from a chosen sbix strike.
type sbixSource struct {
	sbix        *strike.SBIX
	strikeIndex int
}

func (s *sbixSource) Name() string { return "sbix" }

func (s *sbixSource) GlyphImage(glyphID uint16) *image.NRGBA {
	data, graphicType, err := s.sbix.GlyphData(int(glyphID), s.strikeIndex)
	if err != nil || len(data) == 0 {
		return nil
	}
	if graphicType != strike.GraphicTypePNG {
		return nil
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		Logger().Debug("sbix bitmap decode failed", "glyph", glyphID, "error", err)
		return nil
	}
	return toNRGBA(img)
}

// cbdtSource reuses PNG bitmaps from a chosen CBDT strike.
type cbdtSource struct {
	cbdt        *strike.CBDT
	strikeIndex int
}

func (s *cbdtSource) Name() string { return "CBDT" }

func (s *cbdtSource) GlyphImage(glyphID uint16) *image.NRGBA {
	record, err := s.cbdt.RecordData(glyphID, s.strikeIndex)
	if err != nil || len(record) == 0 {
		return nil
	}
	data, err := strike.DecodeRecord(record)
	if err != nil {
		Logger().Debug("CBDT record decode failed", "glyph", glyphID, "error", err)
		return nil
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		Logger().Debug("CBDT bitmap decode failed", "glyph", glyphID, "error", err)
		return nil
	}
	return toNRGBA(img)
}

// renderSource rasterizes glyph outlines as the last resort.
type renderSource struct {
	renderer *render.Renderer
	ppem     int
}

func (s *renderSource) Name() string { return "render" }

func (s *renderSource) GlyphImage(glyphID uint16) *image.NRGBA {
	mask, err := s.renderer.Glyph(glyphID, s.ppem)
	if err != nil {
		Logger().Debug("glyph render failed", "glyph", glyphID, "error", err)
		return nil
	}
	if mask == nil {
		return nil
	}
	return maskToNRGBA(mask)
}

// ExtractImages walks the font's glyph order and produces one image per
// glyph, preferring bitmap reuse over rendering: the chosen sbix strike
// first, then the chosen CBDT strike, then the outline renderer at
// opts.Size pixels per em. Each extracted image is written to
// outDir/<glyphName>.png and recorded in the returned set.
//
// Per-glyph failures only skip that glyph. Errors opening the font or
// writing output files are fatal.
func ExtractImages(fontPath, outDir string, opts Options) (GlyphImageSet, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("emojifont: %w", err)
	}
	fnt, err := fontfile.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("emojifont: %w", err)
	}

	sources := buildSources(fnt, data, opts)
	log := Logger()

	images := make(GlyphImageSet)
	for gid, name := range fnt.GlyphOrder() {
		var img *image.NRGBA
		source := "none"
		for _, src := range sources {
			//#nosec G115 -- glyph order length is bounded by uint16
			if img = src.GlyphImage(uint16(gid)); img != nil {
				source = src.Name()
				break
			}
		}
		if img == nil {
			log.Debug("no image for glyph", "glyph", name)
			continue
		}
		if err := writePNG(filepath.Join(outDir, name+".png"), img); err != nil {
			return nil, err
		}
		images[name] = img
		log.Debug("extracted glyph", "glyph", name, "source", source)
	}

	log.Info("extracted glyph images", "count", len(images), "dir", outDir)
	return images, nil
}

// buildSources assembles the per-glyph strategy chain for a font:
// sbix reuse, CBDT reuse, render fallback, in that order.
func buildSources(fnt *fontfile.Font, fontData []byte, opts Options) []imageSource {
	var sources []imageSource

	sbixData, _ := fnt.Table("sbix")
	cbdtData, _ := fnt.Table("CBDT")
	cblcData, _ := fnt.Table("CBLC")

	sel := strike.Select(sbixData, cbdtData, cblcData, fnt.NumGlyphs())
	if sel.SBIX != nil {
		sources = append(sources, &sbixSource{sbix: sel.SBIX, strikeIndex: sel.SBIXStrike})
		Logger().Debug("reusing sbix strike", "ppem", sel.SBIX.PPEM(sel.SBIXStrike))
	}
	if sel.CBDT != nil {
		sources = append(sources, &cbdtSource{cbdt: sel.CBDT, strikeIndex: sel.CBDTStrike})
		Logger().Debug("reusing CBDT strike", "ppem", sel.CBDT.PPEM(sel.CBDTStrike))
	}

	if r, err := render.New(fontData); err == nil {
		sources = append(sources, &renderSource{renderer: r, ppem: opts.Size})
	} else {
		Logger().Debug("outline renderer unavailable", "error", err)
	}

	return sources
}

// EmbedSBIX builds a fresh single-strike sbix table from the image set
// and installs it in the font, replacing any existing sbix table.
func EmbedSBIX(fnt *fontfile.Font, images GlyphImageSet, opts Options) error {
	byName := make(map[string]image.Image, len(images))
	for name, img := range images {
		byName[name] = img
	}
	data, err := table.BuildSBIX(fnt.GlyphOrder(), byName, opts.Size, opts.Resolution)
	if err != nil {
		return err
	}
	fnt.SetTable("sbix", data)
	return nil
}

// ExtractAndEmbed runs the full first pipeline: extract one PNG per
// glyph into outDir, then write a copy of the input font with the
// extracted set embedded as a single sbix strike.
func ExtractAndEmbed(inputFont, outDir, outputFont string, opts Options) error {
	images, err := ExtractImages(inputFont, outDir, opts)
	if err != nil {
		return err
	}

	fnt, err := fontfile.Load(inputFont)
	if err != nil {
		return err
	}
	if err := EmbedSBIX(fnt, images, opts); err != nil {
		return err
	}
	if err := fnt.Save(outputFont); err != nil {
		return err
	}

	Logger().Info("wrote sbix font", "path", outputFont, "glyphs", len(images), "ppem", opts.Size)
	return nil
}

// toNRGBA converts a decoded image to straight-alpha RGBA.
func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// maskToNRGBA turns a coverage mask into an image with black RGB and
// coverage as the alpha channel, so the shape is preserved and pixels
// outside the glyph stay fully transparent.
func maskToNRGBA(mask *image.Alpha) *image.NRGBA {
	b := mask.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := mask.AlphaAt(b.Min.X+x, b.Min.Y+y).A
			img.Pix[y*img.Stride+x*4+3] = a
		}
	}
	return img
}

// writePNG encodes img to path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("emojifont: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("emojifont: encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("emojifont: %w", err)
	}
	return nil
}
