// Package fontfile wraps a parsed OpenType font in an explicit, owned
// table container.
//
// The builders in this module never share a raw table map: they receive
// a *Font and go through Table, SetTable and RemoveTable, so ownership
// of the table set stays with the caller that loaded the font.
package fontfile

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/tdewolff/font"
)

// Font is a table-indexed in-memory representation of a single OpenType
// font file. It is not safe for concurrent mutation.
type Font struct {
	sfnt *font.SFNT
}

// Load reads and parses the font file at path.
func Load(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fontfile: %w", err)
	}
	return Parse(data)
}

// Parse parses TTF or OTF font data.
func Parse(data []byte) (*Font, error) {
	s, err := font.ParseSFNT(data, 0)
	if err != nil {
		return nil, fmt.Errorf("fontfile: parsing font: %w", err)
	}
	return &Font{sfnt: s}, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return int(f.sfnt.NumGlyphs())
}

// GlyphName returns the post-table name for a glyph. Glyphs without a
// name are addressed as "glyph%05d" so every glyph has a stable,
// filesystem-safe identifier.
func (f *Font) GlyphName(glyphID uint16) string {
	if name := f.sfnt.GlyphName(glyphID); name != "" {
		return name
	}
	return fmt.Sprintf("glyph%05d", glyphID)
}

// GlyphOrder returns the font's canonical glyph name sequence. The slice
// index of a name is its glyph ID.
func (f *Font) GlyphOrder() []string {
	order := make([]string, f.NumGlyphs())
	for i := range order {
		order[i] = f.GlyphName(uint16(i)) //#nosec G115 -- NumGlyphs is uint16 in the container
	}
	return order
}

// Table returns the raw bytes for a table by its 4-character tag.
func (f *Font) Table(tag string) ([]byte, bool) {
	data, ok := f.sfnt.Tables[tag]
	return data, ok
}

// HasTable reports whether a table with the given tag is present.
func (f *Font) HasTable(tag string) bool {
	_, ok := f.sfnt.Tables[tag]
	return ok
}

// SetTable installs data under tag, replacing any prior table wholesale.
func (f *Font) SetTable(tag string, data []byte) {
	f.sfnt.Tables[tag] = data
}

// RemoveTable deletes the table with the given tag. No-op when absent.
func (f *Font) RemoveTable(tag string) {
	delete(f.sfnt.Tables, tag)
}

// IsCFF reports whether glyph outlines live in a CFF table rather than
// glyf/loca.
func (f *Font) IsCFF() bool {
	return f.sfnt.IsCFF
}

// IndexToLocFormat returns the loca offset format from the head table:
// 0 for short (uint16 halved) offsets, 1 for long (uint32) offsets.
func (f *Font) IndexToLocFormat() int {
	return int(f.sfnt.Head.IndexToLocFormat)
}

// SetIndexToLocFormat rewrites the loca offset format, in both the
// parsed head table and its raw bytes so Bytes() serializes the new
// value.
func (f *Font) SetIndexToLocFormat(format int) {
	f.sfnt.Head.IndexToLocFormat = int16(format) //#nosec G115 -- format is 0 or 1

	const fieldOffset = 50
	head, ok := f.sfnt.Tables["head"]
	if !ok || len(head) < fieldOffset+2 {
		return
	}
	updated := make([]byte, len(head))
	copy(updated, head)
	binary.BigEndian.PutUint16(updated[fieldOffset:], uint16(format)) //#nosec G115
	f.sfnt.Tables["head"] = updated
}

// Bytes serializes the font, including any table mutations, with a
// rebuilt table directory and checksums.
func (f *Font) Bytes() []byte {
	return f.sfnt.Write()
}

// Save writes the serialized font to path.
func (f *Font) Save(path string) error {
	if err := os.WriteFile(path, f.Bytes(), 0o644); err != nil {
		return fmt.Errorf("fontfile: %w", err)
	}
	return nil
}

// WriteWOFF2 emits the font as WOFF2. The glyph set is carried over
// unchanged, so glyph IDs keep their numbering.
//
// The font is serialized and re-parsed first so that table mutations
// made through SetTable and RemoveTable are reflected in the compressed
// output.
func (f *Font) WriteWOFF2() ([]byte, error) {
	fresh, err := font.ParseSFNT(f.Bytes(), 0)
	if err != nil {
		return nil, fmt.Errorf("fontfile: reparsing for woff2: %w", err)
	}
	b, err := fresh.WriteWOFF2()
	if err != nil {
		return nil, fmt.Errorf("fontfile: woff2: %w", err)
	}
	return b, nil
}
