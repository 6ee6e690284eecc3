package table

import (
	"github.com/gogpu/emojifont/fontfile"
)

// EnsureEmptyOutlines guarantees that every glyph in the font has an
// outline entry, inserting zero-contour stubs where outlines are
// missing. Many consumers (browser font sanitizers in particular)
// reject glyphs that have neither outline data nor a valid SVG
// document, so this must run over the full glyph order, not just the
// glyphs that have bitmap art.
//
// In glyf/loca terms an empty outline is a pair of equal consecutive
// loca offsets, so the work is: synthesize empty glyf/loca when the
// font has no outline tables at all, and extend a short loca so every
// glyph has an entry. CFF fonts carry a charstring per glyph by
// construction and are left alone.
func EnsureEmptyOutlines(f *fontfile.Font) error {
	if f.IsCFF() {
		return nil
	}

	numGlyphs := f.NumGlyphs()
	entries := numGlyphs + 1

	if !f.HasTable("glyf") {
		// No outlines at all: an empty glyf plus an all-zero short loca
		// makes every glyph an empty stub.
		f.SetTable("glyf", []byte{})
		f.SetTable("loca", make([]byte, entries*2))
		f.SetIndexToLocFormat(0)
		return nil
	}

	loca, ok := f.Table("loca")
	entrySize := 2
	if f.IndexToLocFormat() == 1 {
		entrySize = 4
	}
	if ok && len(loca)/entrySize >= entries {
		return nil // every glyph already has an entry
	}

	// Extend loca with its last offset repeated: the added glyphs
	// become empty stubs without touching glyf.
	extended := make([]byte, entries*entrySize)
	copy(extended, loca)
	var last []byte
	if n := len(loca) / entrySize; n > 0 {
		last = loca[(n-1)*entrySize : n*entrySize]
	} else {
		last = make([]byte, entrySize)
	}
	for pos := len(loca) / entrySize; pos < entries; pos++ {
		copy(extended[pos*entrySize:], last)
	}
	f.SetTable("loca", extended)
	return nil
}

// HasOutlineEntry reports whether the glyph has a (possibly empty)
// outline entry.
func HasOutlineEntry(f *fontfile.Font, glyphID int) bool {
	if glyphID < 0 || glyphID >= f.NumGlyphs() {
		return false
	}
	if f.IsCFF() {
		return true
	}
	loca, ok := f.Table("loca")
	if !ok {
		return false
	}
	entrySize := 2
	if f.IndexToLocFormat() == 1 {
		entrySize = 4
	}
	return len(loca)/entrySize > glyphID+1
}
