package strike

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// CBLC/CBDT table versions.
const (
	cblcMajorVersion = 3
	cbdtMajorVersion = 3
)

// CBLC index subtable formats.
const (
	indexFormat1 = 1 // variable metrics, 32-bit offsets
	indexFormat2 = 2 // constant metrics, no offset array
	indexFormat3 = 3 // variable metrics, 16-bit offsets
	indexFormat4 = 4 // variable metrics, sparse glyph IDs
	indexFormat5 = 5 // constant metrics, sparse glyph IDs
)

// CBDT gives access to the per-glyph records of a CBDT table, located
// through its companion CBLC table.
type CBDT struct {
	cbdtData []byte
	cblcData []byte

	strikes []cbdtStrike
}

// cbdtStrike is one BitmapSize record from CBLC.
type cbdtStrike struct {
	indexSubtableListOffset uint32
	indexSubtableListSize   uint32
	numberOfIndexSubtables  uint32

	startGlyphIndex uint16
	endGlyphIndex   uint16

	ppemX    uint8
	ppemY    uint8
	bitDepth uint8
	flags    int8

	// Parsed index subtables (lazily populated).
	indexSubtables []indexSubtable
}

// indexSubtable is one parsed CBLC index subtable.
type indexSubtable struct {
	firstGlyphIndex uint16
	lastGlyphIndex  uint16
	indexFormat     uint16
	imageFormat     uint16
	imageDataOffset uint32

	// Format-specific data.
	offsets32  []uint32            // format 1
	offsets16  []uint16            // format 3
	imageSize  uint32              // formats 2, 5
	glyphPairs []glyphIDOffsetPair // format 4
	glyphIDs   []uint16            // format 5
}

// glyphIDOffsetPair for format 4.
type glyphIDOffsetPair struct {
	glyphID    uint16
	sbitOffset uint16
}

// ParseCBDT parses the CBLC header and BitmapSize records so that
// per-glyph records can be located in the CBDT data.
func ParseCBDT(cbdtData, cblcData []byte) (*CBDT, error) {
	if len(cbdtData) < 4 {
		return nil, ErrInvalidCBDT
	}
	if binary.BigEndian.Uint16(cbdtData[0:2]) != cbdtMajorVersion {
		return nil, fmt.Errorf("strike: unsupported CBDT version %d", binary.BigEndian.Uint16(cbdtData[0:2]))
	}
	if len(cblcData) < 8 {
		return nil, ErrInvalidCBLC
	}

	c := &CBDT{cbdtData: cbdtData, cblcData: cblcData}

	major := binary.BigEndian.Uint16(cblcData[0:2])
	minor := binary.BigEndian.Uint16(cblcData[2:4])
	if major != cblcMajorVersion {
		return nil, fmt.Errorf("strike: unsupported CBLC version %d.%d", major, minor)
	}

	numSizes := binary.BigEndian.Uint32(cblcData[4:8])

	// Each BitmapSize record is 48 bytes.
	const bitmapSizeRecordSize = 48
	recordsOffset := 8
	if recordsOffset+int(numSizes)*bitmapSizeRecordSize > len(cblcData) {
		return nil, ErrInvalidCBLC
	}

	c.strikes = make([]cbdtStrike, numSizes)
	for i := uint32(0); i < numSizes; i++ {
		offset := recordsOffset + int(i)*bitmapSizeRecordSize
		parseBitmapSizeRecord(cblcData[offset:offset+bitmapSizeRecordSize], &c.strikes[i])
	}

	return c, nil
}

// parseBitmapSizeRecord parses a single 48-byte BitmapSize record.
// The sbit line metrics at offsets 16..40 are not needed for locating
// glyph records and are skipped.
func parseBitmapSizeRecord(data []byte, strike *cbdtStrike) {
	strike.indexSubtableListOffset = binary.BigEndian.Uint32(data[0:4])
	strike.indexSubtableListSize = binary.BigEndian.Uint32(data[4:8])
	strike.numberOfIndexSubtables = binary.BigEndian.Uint32(data[8:12])
	// colorRef at 12:16 is unused.
	strike.startGlyphIndex = binary.BigEndian.Uint16(data[40:42])
	strike.endGlyphIndex = binary.BigEndian.Uint16(data[42:44])
	strike.ppemX = data[44]
	strike.ppemY = data[45]
	strike.bitDepth = data[46]
	strike.flags = int8(data[47])
}

// NumStrikes returns the number of strikes in the CBLC table.
func (c *CBDT) NumStrikes() int {
	return len(c.strikes)
}

// PPEM returns the pixels-per-em of a strike index, or 0 when out of
// range.
func (c *CBDT) PPEM(strikeIndex int) uint16 {
	if strikeIndex < 0 || strikeIndex >= len(c.strikes) {
		return 0
	}
	return uint16(c.strikes[strikeIndex].ppemX)
}

// Last returns the index of the last strike in table order. Source fonts
// list strikes ascending by size, so the last one is the largest.
// Returns -1 when the table has no strikes.
func (c *CBDT) Last() int {
	return len(c.strikes) - 1
}

// HasGlyph reports whether the glyph has a record at the given strike.
func (c *CBDT) HasGlyph(glyphID uint16, strikeIndex int) bool {
	data, err := c.RecordData(glyphID, strikeIndex)
	return err == nil && len(data) > 0
}

// RecordData returns the raw glyph record blob from CBDT for a glyph at
// the given strike. The blob still carries its per-record metrics
// header; use DecodeRecord to extract the image bytes.
func (c *CBDT) RecordData(glyphID uint16, strikeIndex int) ([]byte, error) {
	if strikeIndex < 0 || strikeIndex >= len(c.strikes) {
		return nil, ErrGlyphNotFound
	}
	strike := &c.strikes[strikeIndex]

	if glyphID < strike.startGlyphIndex || glyphID > strike.endGlyphIndex {
		return nil, ErrGlyphNotFound
	}

	if err := c.parseIndexSubtables(strikeIndex); err != nil {
		return nil, err
	}

	for i := range strike.indexSubtables {
		ist := &strike.indexSubtables[i]
		if glyphID < ist.firstGlyphIndex || glyphID > ist.lastGlyphIndex {
			continue
		}
		offset, size, err := glyphLocation(glyphID, ist)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return nil, ErrGlyphNotFound
		}
		if int(offset)+int(size) > len(c.cbdtData) {
			return nil, ErrInvalidCBDT
		}
		return c.cbdtData[offset : offset+size], nil
	}

	return nil, ErrGlyphNotFound
}

// parseIndexSubtables parses the index subtables for a strike (lazily).
func (c *CBDT) parseIndexSubtables(strikeIndex int) error {
	strike := &c.strikes[strikeIndex]
	if strike.indexSubtables != nil {
		return nil
	}

	data := c.cblcData
	listOffset := int(strike.indexSubtableListOffset)
	if listOffset+int(strike.numberOfIndexSubtables)*8 > len(data) {
		return ErrInvalidCBLC
	}

	strike.indexSubtables = make([]indexSubtable, strike.numberOfIndexSubtables)

	// IndexSubtableArray: records pointing to the actual subtables.
	for i := uint32(0); i < strike.numberOfIndexSubtables; i++ {
		recordOffset := listOffset + int(i)*8

		ist := &strike.indexSubtables[i]
		ist.firstGlyphIndex = binary.BigEndian.Uint16(data[recordOffset : recordOffset+2])
		ist.lastGlyphIndex = binary.BigEndian.Uint16(data[recordOffset+2 : recordOffset+4])
		additionalOffset := binary.BigEndian.Uint32(data[recordOffset+4 : recordOffset+8])

		if err := c.parseIndexSubtable(listOffset+int(additionalOffset), ist); err != nil {
			return err
		}
	}

	return nil
}

// parseIndexSubtable parses a single index subtable.
func (c *CBDT) parseIndexSubtable(offset int, ist *indexSubtable) error {
	data := c.cblcData
	if offset+8 > len(data) {
		return ErrInvalidCBLC
	}

	// IndexSubHeader, common to all formats.
	ist.indexFormat = binary.BigEndian.Uint16(data[offset : offset+2])
	ist.imageFormat = binary.BigEndian.Uint16(data[offset+2 : offset+4])
	ist.imageDataOffset = binary.BigEndian.Uint32(data[offset+4 : offset+8])

	headerEnd := offset + 8
	numGlyphs := int(ist.lastGlyphIndex) - int(ist.firstGlyphIndex) + 1

	switch ist.indexFormat {
	case indexFormat1:
		numOffsets := numGlyphs + 1
		if headerEnd+numOffsets*4 > len(data) {
			return ErrInvalidCBLC
		}
		ist.offsets32 = make([]uint32, numOffsets)
		for i := 0; i < numOffsets; i++ {
			pos := headerEnd + i*4
			ist.offsets32[i] = binary.BigEndian.Uint32(data[pos : pos+4])
		}

	case indexFormat2:
		// Constant metrics: imageSize, then shared BigGlyphMetrics.
		if headerEnd+4+8 > len(data) {
			return ErrInvalidCBLC
		}
		ist.imageSize = binary.BigEndian.Uint32(data[headerEnd : headerEnd+4])

	case indexFormat3:
		numOffsets := numGlyphs + 1
		if headerEnd+numOffsets*2 > len(data) {
			return ErrInvalidCBLC
		}
		ist.offsets16 = make([]uint16, numOffsets)
		for i := 0; i < numOffsets; i++ {
			pos := headerEnd + i*2
			ist.offsets16[i] = binary.BigEndian.Uint16(data[pos : pos+2])
		}

	case indexFormat4:
		if headerEnd+4 > len(data) {
			return ErrInvalidCBLC
		}
		numGlyphsInTable := binary.BigEndian.Uint32(data[headerEnd : headerEnd+4])
		numPairs := int(numGlyphsInTable) + 1 // extra pair is the end marker

		pairsOffset := headerEnd + 4
		if pairsOffset+numPairs*4 > len(data) {
			return ErrInvalidCBLC
		}

		ist.glyphPairs = make([]glyphIDOffsetPair, numPairs)
		for i := 0; i < numPairs; i++ {
			pos := pairsOffset + i*4
			ist.glyphPairs[i].glyphID = binary.BigEndian.Uint16(data[pos : pos+2])
			ist.glyphPairs[i].sbitOffset = binary.BigEndian.Uint16(data[pos+2 : pos+4])
		}

	case indexFormat5:
		// imageSize, shared BigGlyphMetrics (8 bytes), then glyph IDs.
		if headerEnd+4+8+4 > len(data) {
			return ErrInvalidCBLC
		}
		ist.imageSize = binary.BigEndian.Uint32(data[headerEnd : headerEnd+4])

		numGlyphsInTable := binary.BigEndian.Uint32(data[headerEnd+12 : headerEnd+16])
		glyphIDsOffset := headerEnd + 16
		if glyphIDsOffset+int(numGlyphsInTable)*2 > len(data) {
			return ErrInvalidCBLC
		}

		ist.glyphIDs = make([]uint16, numGlyphsInTable)
		for i := uint32(0); i < numGlyphsInTable; i++ {
			pos := glyphIDsOffset + int(i)*2
			ist.glyphIDs[i] = binary.BigEndian.Uint16(data[pos : pos+2])
		}

	default:
		return ErrUnsupportedIndexFormat
	}

	return nil
}

// glyphLocation computes the offset and size of a glyph's record inside
// the CBDT data.
func glyphLocation(glyphID uint16, ist *indexSubtable) (offset, size uint32, err error) {
	glyphIndex := int(glyphID) - int(ist.firstGlyphIndex)

	switch ist.indexFormat {
	case indexFormat1:
		if glyphIndex < 0 || glyphIndex >= len(ist.offsets32)-1 {
			return 0, 0, ErrGlyphNotFound
		}
		offset = ist.imageDataOffset + ist.offsets32[glyphIndex]
		size = ist.offsets32[glyphIndex+1] - ist.offsets32[glyphIndex]

	case indexFormat2:
		if glyphIndex < 0 || glyphIndex > int(ist.lastGlyphIndex)-int(ist.firstGlyphIndex) {
			return 0, 0, ErrGlyphNotFound
		}
		//#nosec G115 -- glyphIndex bounds checked above
		offset = ist.imageDataOffset + uint32(glyphIndex)*ist.imageSize
		size = ist.imageSize

	case indexFormat3:
		if glyphIndex < 0 || glyphIndex >= len(ist.offsets16)-1 {
			return 0, 0, ErrGlyphNotFound
		}
		offset = ist.imageDataOffset + uint32(ist.offsets16[glyphIndex])
		size = uint32(ist.offsets16[glyphIndex+1] - ist.offsets16[glyphIndex])

	case indexFormat4:
		for i := 0; i < len(ist.glyphPairs)-1; i++ {
			if ist.glyphPairs[i].glyphID != glyphID {
				continue
			}
			offset = ist.imageDataOffset + uint32(ist.glyphPairs[i].sbitOffset)
			size = uint32(ist.glyphPairs[i+1].sbitOffset - ist.glyphPairs[i].sbitOffset)
			return offset, size, nil
		}
		return 0, 0, ErrGlyphNotFound

	case indexFormat5:
		for i, gid := range ist.glyphIDs {
			if gid != glyphID {
				continue
			}
			//#nosec G115 -- i indexes a small array
			offset = ist.imageDataOffset + uint32(i)*ist.imageSize
			size = ist.imageSize
			return offset, size, nil
		}
		return 0, 0, ErrGlyphNotFound

	default:
		return 0, 0, ErrUnsupportedIndexFormat
	}

	return offset, size, nil
}

// pngSignature is the start of every PNG stream.
var pngSignature = []byte("\x89PNG")

// DecodeRecord extracts the embedded image bytes from a raw CBDT glyph
// record. Records are assumed to use the format-17 layout: five bytes of
// small glyph metrics, a big-endian uint32 image length at offset 5,
// then the image bytes at offset 9.
//
// Source fonts have been observed with length fields that disagree with
// the actual payload, so a PNG signature found anywhere in the record
// takes precedence over the declared length.
func DecodeRecord(record []byte) ([]byte, error) {
	if i := bytes.Index(record, pngSignature); i >= 0 {
		return record[i:], nil
	}
	if len(record) < 9 {
		return nil, ErrInvalidCBDT
	}
	n := binary.BigEndian.Uint32(record[5:9])
	if uint32(len(record)-9) < n {
		return nil, ErrInvalidCBDT
	}
	return record[9 : 9+n], nil
}
