package table

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Document is one SVG document and the glyph-ID range it applies to.
// This module only ever emits singleton ranges.
type Document struct {
	// StartGlyphID and EndGlyphID bound the range, inclusive.
	StartGlyphID uint16
	EndGlyphID   uint16

	// Body is the UTF-8 SVG document text.
	Body []byte
}

// svgImageDoc wraps a base64 PNG as a minimal SVG document sized to the
// image's native pixel dimensions.
const svgImageDoc = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d"><image width="%d" height="%d" href="data:image/png;base64,%s" /></svg>`

// BuildDocuments scans pngDir for one <glyphName>.png per glyph in
// glyphOrder and wraps each file found into a Document covering exactly
// that glyph's ID.
//
// A missing file means the glyph gets no document (renderers fall back
// to its empty outline); a file that is not a decodable PNG is skipped
// the same way. Any other read error is fatal.
func BuildDocuments(glyphOrder []string, pngDir string) ([]Document, error) {
	var docs []Document
	for gid, name := range glyphOrder {
		path := filepath.Join(pngDir, name+".png")
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("table: reading %s: %w", path, err)
		}

		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			continue
		}

		body := fmt.Sprintf(svgImageDoc,
			cfg.Width, cfg.Height,
			cfg.Width, cfg.Height,
			cfg.Width, cfg.Height,
			base64.StdEncoding.EncodeToString(data))

		//#nosec G115 -- gid ranges over a glyph order bounded by uint16
		docs = append(docs, Document{
			StartGlyphID: uint16(gid),
			EndGlyphID:   uint16(gid),
			Body:         []byte(body),
		})
	}
	return docs, nil
}

// BuildSVG assembles the SVG table from the given documents. The
// document index is sorted ascending by start glyph ID, as the table
// format requires, regardless of input order.
func BuildSVG(docs []Document) []byte {
	sorted := make([]Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartGlyphID < sorted[j].StartGlyphID
	})

	// Header: version, offset to document list, reserved.
	const headerSize = 2 + 4 + 4
	// Document list: numEntries, then 12-byte index entries with
	// offsets relative to the start of the document list.
	listHeaderSize := 2 + 12*len(sorted)

	total := headerSize + listHeaderSize
	for _, doc := range sorted {
		total += len(doc.Body)
	}

	out := make([]byte, 0, total)
	out = appendUint16(out, 0)          // version
	out = appendUint32(out, headerSize) // svgDocumentListOffset
	out = appendUint32(out, 0)          // reserved

	//#nosec G115 -- the glyph order bounds the document count to uint16
	out = appendUint16(out, uint16(len(sorted)))

	docOffset := uint32(listHeaderSize)
	for _, doc := range sorted {
		out = appendUint16(out, doc.StartGlyphID)
		out = appendUint16(out, doc.EndGlyphID)
		out = appendUint32(out, docOffset)
		out = appendUint32(out, uint32(len(doc.Body)))
		docOffset += uint32(len(doc.Body))
	}

	for _, doc := range sorted {
		out = append(out, doc.Body...)
	}

	return out
}
