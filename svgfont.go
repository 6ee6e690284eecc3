package emojifont

import (
	"fmt"
	"os"

	"github.com/gogpu/emojifont/fontfile"
	"github.com/gogpu/emojifont/table"
)

// CompressionError reports a failure of the optional WOFF2 export. When
// it is returned, the uncompressed font has already been written and is
// valid; only the compressed variant is missing.
type CompressionError struct {
	Err error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("emojifont: woff2 export: %v", e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }

// BuildSVGFont runs the second pipeline: load the input font, give
// every glyph an outline entry (empty stubs where needed), wrap each
// <glyphName>.png found in pngDir into an SVG document covering exactly
// that glyph ID, install the assembled SVG table, strip the legacy
// bitmap tables, and save the result to outputFont.
//
// When woff2Path is non-empty a compressed web-font variant is written
// there as well; its failure is reported as *CompressionError and does
// not invalidate the already-saved uncompressed font.
func BuildSVGFont(inputFont, pngDir, outputFont, woff2Path string) error {
	fnt, err := fontfile.Load(inputFont)
	if err != nil {
		return err
	}
	order := fnt.GlyphOrder()

	if err := table.EnsureEmptyOutlines(fnt); err != nil {
		return err
	}

	docs, err := table.BuildDocuments(order, pngDir)
	if err != nil {
		return err
	}
	fnt.SetTable("SVG ", table.BuildSVG(docs))

	removed := table.StripBitmapTables(fnt)

	if err := fnt.Save(outputFont); err != nil {
		return err
	}
	Logger().Info("wrote svg font",
		"path", outputFont, "documents", len(docs), "stripped", removed)

	if woff2Path == "" {
		return nil
	}
	data, err := fnt.WriteWOFF2()
	if err == nil {
		err = os.WriteFile(woff2Path, data, 0o644)
	}
	if err != nil {
		Logger().Warn("woff2 export failed", "path", woff2Path, "error", err)
		return &CompressionError{Err: err}
	}
	Logger().Info("wrote woff2 font", "path", woff2Path)
	return nil
}
