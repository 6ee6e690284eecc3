// Package table builds and removes the binary font tables this module
// writes: the sbix bitmap-strike table, the SVG document table, empty
// glyph outline stubs, and the legacy bitmap-table strip.
//
// All multi-byte values are big-endian, as everywhere in OpenType.
package table

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
)

// sbix constants for the single strike this module writes.
const (
	sbixVersion = 1

	// sbixFlags has only the always-set bit 0; bit 1 ("draw outlines on
	// top of the bitmap") stays clear. The bitmap strike is an addition
	// to the outlines, not a replacement.
	sbixFlags = 1
)

// BuildSBIX assembles a complete sbix table holding exactly one strike
// at the given ppem and resolution (DPI).
//
// glyphOrder gives the glyph ID for each name; every glyph gets an
// entry in the strike's offset array, but only glyphs present in images
// get a glyph record (re-encoded as PNG, graphic type "png ", origin
// offsets zero). The result replaces any existing sbix table wholesale.
func BuildSBIX(glyphOrder []string, images map[string]image.Image, ppem, resolution int) ([]byte, error) {
	numGlyphs := len(glyphOrder)

	records := make([][]byte, numGlyphs)
	for gid, name := range glyphOrder {
		img, ok := images[name]
		if !ok {
			continue
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("table: encoding %s: %w", name, err)
		}
		records[gid] = buf.Bytes()
	}

	// Header: version, flags, numStrikes, one strike offset.
	const headerSize = 8 + 4
	// Strike: ppem, ppi, numGlyphs+1 glyph data offsets, then records.
	strikeHeaderSize := 4 + 4*(numGlyphs+1)

	total := headerSize + strikeHeaderSize
	for _, rec := range records {
		if rec != nil {
			total += 8 + len(rec) // origin offsets + graphic type + data
		}
	}

	out := make([]byte, 0, total)
	out = appendUint16(out, sbixVersion)
	out = appendUint16(out, sbixFlags)
	out = appendUint32(out, 1)          // numStrikes
	out = appendUint32(out, headerSize) // offset to the only strike

	//#nosec G115 -- glyph counts and ppem fit in uint16 by construction
	out = appendUint16(out, uint16(ppem))
	//#nosec G115
	out = appendUint16(out, uint16(resolution))

	// Glyph data offsets, relative to the start of the strike. Glyphs
	// without an image get equal consecutive offsets (zero-length).
	offset := uint32(strikeHeaderSize)
	for _, rec := range records {
		out = appendUint32(out, offset)
		if rec != nil {
			offset += uint32(8 + len(rec))
		}
	}
	out = appendUint32(out, offset) // final offset, for length calculation

	for _, rec := range records {
		if rec == nil {
			continue
		}
		out = appendUint16(out, 0) // originOffsetX
		out = appendUint16(out, 0) // originOffsetY
		out = append(out, "png "...)
		out = append(out, rec...)
	}

	return out, nil
}

func appendUint16(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}

func appendUint32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}
