// Package strike reads the color bitmap tables of an OpenType font.
//
// It covers the read side of two formats: sbix (Apple's Standard Bitmap
// Graphics table) and CBDT/CBLC (Google's Color Bitmap Data/Location
// pair). A strike is one resolution tier of such a table, holding one
// image per glyph at that size. The package also decides which strike of
// which table to reuse (Select) and extracts the raw image bytes per
// glyph, including the defensive CBDT record decoding (DecodeRecord).
package strike

import (
	"encoding/binary"
	"errors"
)

// Bitmap table format errors.
var (
	// ErrInvalidSBIX indicates the sbix table data is malformed.
	ErrInvalidSBIX = errors.New("strike: invalid sbix table data")

	// ErrInvalidCBLC indicates the CBLC table data is malformed.
	ErrInvalidCBLC = errors.New("strike: invalid CBLC table data")

	// ErrInvalidCBDT indicates the CBDT table data is malformed.
	ErrInvalidCBDT = errors.New("strike: invalid CBDT table data")

	// ErrUnsupportedIndexFormat indicates an unsupported CBLC index
	// subtable format.
	ErrUnsupportedIndexFormat = errors.New("strike: unsupported index subtable format")

	// ErrGlyphNotFound indicates the glyph has no bitmap data in the
	// queried strike.
	ErrGlyphNotFound = errors.New("strike: glyph not found in bitmap table")
)

// GraphicTypePNG is the sbix graphic type tag for PNG image data.
const GraphicTypePNG = "png "

// SBIX is a parsed sbix table.
type SBIX struct {
	data      []byte
	numGlyphs int
	strikes   []sbixStrike
}

// sbixStrike is one bitmap strike (size tier) in sbix.
type sbixStrike struct {
	ppem         uint16
	ppi          uint16
	offset       uint32
	glyphOffsets []uint32 // numGlyphs+1 offsets relative to the strike
}

// ParseSBIX parses an sbix table. numGlyphs must come from the font's
// maxp table; the per-strike offset arrays are sized by it.
func ParseSBIX(data []byte, numGlyphs int) (*SBIX, error) {
	if len(data) < 8 {
		return nil, ErrInvalidSBIX
	}

	s := &SBIX{data: data, numGlyphs: numGlyphs}

	version := binary.BigEndian.Uint16(data[0:2])
	if version != 1 {
		return nil, ErrInvalidSBIX
	}
	// flags at data[2:4] are not needed for reading.
	numStrikes := binary.BigEndian.Uint32(data[4:8])

	// The strike offset array must fit in the remaining bytes. Compare
	// against the data length before multiplying so a huge declared
	// count cannot wrap the arithmetic or drive the allocation below.
	if uint64(numStrikes) > uint64(len(data)-8)/4 {
		return nil, ErrInvalidSBIX
	}

	s.strikes = make([]sbixStrike, numStrikes)
	for i := uint32(0); i < numStrikes; i++ {
		offset := binary.BigEndian.Uint32(data[8+i*4 : 12+i*4])
		if err := s.parseStrike(i, offset); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// parseStrike parses a single strike header and its glyph offset array.
func (s *SBIX) parseStrike(index, offset uint32) error {
	data := s.data
	if int(offset)+4 > len(data) {
		return ErrInvalidSBIX
	}

	strike := &s.strikes[index]
	strike.offset = offset
	strike.ppem = binary.BigEndian.Uint16(data[offset : offset+2])
	strike.ppi = binary.BigEndian.Uint16(data[offset+2 : offset+4])

	numOffsets := s.numGlyphs + 1 // one extra for length calculation
	offsetStart := int(offset) + 4
	if offsetStart+numOffsets*4 > len(data) {
		return ErrInvalidSBIX
	}

	strike.glyphOffsets = make([]uint32, numOffsets)
	for i := 0; i < numOffsets; i++ {
		pos := offsetStart + i*4
		strike.glyphOffsets[i] = binary.BigEndian.Uint32(data[pos : pos+4])
	}

	return nil
}

// NumStrikes returns the number of bitmap strikes (sizes).
func (s *SBIX) NumStrikes() int {
	return len(s.strikes)
}

// PPEM returns the pixels-per-em for a strike index, or 0 when out of
// range.
func (s *SBIX) PPEM(strikeIndex int) uint16 {
	if strikeIndex < 0 || strikeIndex >= len(s.strikes) {
		return 0
	}
	return s.strikes[strikeIndex].ppem
}

// Resolution returns the DPI recorded for a strike index, or 0 when out
// of range.
func (s *SBIX) Resolution(strikeIndex int) uint16 {
	if strikeIndex < 0 || strikeIndex >= len(s.strikes) {
		return 0
	}
	return s.strikes[strikeIndex].ppi
}

// Best returns the index of the highest-ppem strike, the first one in
// table order among equals. Returns -1 when the table has no strikes.
func (s *SBIX) Best() int {
	if len(s.strikes) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(s.strikes); i++ {
		if s.strikes[i].ppem > s.strikes[best].ppem {
			best = i
		}
	}
	return best
}

// HasGlyph reports whether the glyph has non-empty bitmap data at the
// given strike.
func (s *SBIX) HasGlyph(glyphID, strikeIndex int) bool {
	if strikeIndex < 0 || strikeIndex >= len(s.strikes) {
		return false
	}
	if glyphID < 0 || glyphID >= s.numGlyphs {
		return false
	}
	strike := &s.strikes[strikeIndex]
	return strike.glyphOffsets[glyphID+1] > strike.glyphOffsets[glyphID]
}

// GlyphData returns the raw image bytes and graphic type tag (for
// example "png ") for a glyph at the given strike. Returns
// ErrGlyphNotFound when the glyph has no data in the strike.
func (s *SBIX) GlyphData(glyphID, strikeIndex int) ([]byte, string, error) {
	if !s.HasGlyph(glyphID, strikeIndex) {
		return nil, "", ErrGlyphNotFound
	}

	strike := &s.strikes[strikeIndex]
	glyphStart := strike.glyphOffsets[glyphID]
	glyphEnd := strike.glyphOffsets[glyphID+1]

	// Glyph data record:
	//   originOffsetX int16, originOffsetY int16,
	//   graphicType 4-byte tag, data.
	dataOffset := strike.offset + glyphStart
	dataEnd := strike.offset + glyphEnd
	if int(dataOffset)+8 > len(s.data) || int(dataEnd) > len(s.data) || dataEnd < dataOffset+8 {
		return nil, "", ErrInvalidSBIX
	}

	graphicType := string(s.data[dataOffset+4 : dataOffset+8])
	return s.data[dataOffset+8 : dataEnd], graphicType, nil
}
