package table

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/emojifont/fontfile"
)

func loadGoRegular(t *testing.T) *fontfile.Font {
	t.Helper()
	f, err := fontfile.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("parsing Go Regular: %v", err)
	}
	return f
}

func TestEnsureEmptyOutlines_CompleteFont(t *testing.T) {
	f := loadGoRegular(t)

	before, _ := f.Table("loca")
	if err := EnsureEmptyOutlines(f); err != nil {
		t.Fatalf("EnsureEmptyOutlines() error = %v", err)
	}
	after, _ := f.Table("loca")

	// A font whose loca already covers every glyph is left untouched.
	if len(before) != len(after) {
		t.Errorf("loca length changed from %d to %d for a complete font", len(before), len(after))
	}

	for gid := range f.NumGlyphs() {
		if !HasOutlineEntry(f, gid) {
			t.Fatalf("HasOutlineEntry(%d) = false after EnsureEmptyOutlines", gid)
		}
	}
}

func TestEnsureEmptyOutlines_ShortLoca(t *testing.T) {
	f := loadGoRegular(t)

	loca, ok := f.Table("loca")
	if !ok {
		t.Fatal("Go Regular has no loca table")
	}
	entrySize := 2
	if f.IndexToLocFormat() == 1 {
		entrySize = 4
	}

	// Drop the entries for the last three glyphs.
	truncated := make([]byte, len(loca)-3*entrySize)
	copy(truncated, loca)
	f.SetTable("loca", truncated)

	lastGlyph := f.NumGlyphs() - 1
	if HasOutlineEntry(f, lastGlyph) {
		t.Fatal("truncated loca still reports an entry for the last glyph")
	}

	if err := EnsureEmptyOutlines(f); err != nil {
		t.Fatalf("EnsureEmptyOutlines() error = %v", err)
	}

	extended, _ := f.Table("loca")
	if want := (f.NumGlyphs() + 1) * entrySize; len(extended) != want {
		t.Errorf("len(loca) = %d after extension, want %d", len(extended), want)
	}
	for gid := range f.NumGlyphs() {
		if !HasOutlineEntry(f, gid) {
			t.Fatalf("HasOutlineEntry(%d) = false after extension", gid)
		}
	}

	// The surviving prefix is untouched and the added entries repeat
	// the last offset, so the appended glyphs are all empty stubs.
	for i := range truncated {
		if extended[i] != truncated[i] {
			t.Fatalf("loca byte %d changed during extension", i)
		}
	}
	lastEntry := extended[len(truncated)-entrySize : len(truncated)]
	for pos := len(truncated); pos < len(extended); pos += entrySize {
		for i := range entrySize {
			if extended[pos+i] != lastEntry[i] {
				t.Fatalf("appended loca entry at %d is not a repeat of the last offset", pos)
			}
		}
	}
}

func TestEnsureEmptyOutlines_NoGlyf(t *testing.T) {
	f := loadGoRegular(t)
	f.RemoveTable("glyf")
	f.RemoveTable("loca")

	if err := EnsureEmptyOutlines(f); err != nil {
		t.Fatalf("EnsureEmptyOutlines() error = %v", err)
	}

	glyf, ok := f.Table("glyf")
	if !ok {
		t.Fatal("no glyf table after EnsureEmptyOutlines")
	}
	if len(glyf) != 0 {
		t.Errorf("len(glyf) = %d, want 0 (all glyphs empty)", len(glyf))
	}

	loca, ok := f.Table("loca")
	if !ok {
		t.Fatal("no loca table after EnsureEmptyOutlines")
	}
	if want := (f.NumGlyphs() + 1) * 2; len(loca) != want {
		t.Errorf("len(loca) = %d, want %d (short format)", len(loca), want)
	}
	for _, b := range loca {
		if b != 0 {
			t.Fatal("synthesized loca has a nonzero offset")
		}
	}

	if f.IndexToLocFormat() != 0 {
		t.Errorf("IndexToLocFormat() = %d, want 0 after synthesizing short loca", f.IndexToLocFormat())
	}

	for gid := range f.NumGlyphs() {
		if !HasOutlineEntry(f, gid) {
			t.Fatalf("HasOutlineEntry(%d) = false after synthesis", gid)
		}
	}
}

func TestHasOutlineEntry_OutOfRange(t *testing.T) {
	f := loadGoRegular(t)
	if HasOutlineEntry(f, -1) {
		t.Error("HasOutlineEntry(-1) = true")
	}
	if HasOutlineEntry(f, f.NumGlyphs()) {
		t.Error("HasOutlineEntry(NumGlyphs) = true")
	}
}
