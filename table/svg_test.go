package table

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h, color.NRGBA{G: 200, A: 255})); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildDocuments(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "smile", 40, 40)
	writeTestPNG(t, dir, "frown", 20, 30)

	glyphOrder := []string{".notdef", "a", "frown", "b", "c", "d", "e", "smile"}

	docs, err := BuildDocuments(glyphOrder, dir)
	if err != nil {
		t.Fatalf("BuildDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}

	// Documents come back in glyph order, each covering one glyph ID.
	if docs[0].StartGlyphID != 2 || docs[0].EndGlyphID != 2 {
		t.Errorf("docs[0] range = (%d, %d), want (2, 2)", docs[0].StartGlyphID, docs[0].EndGlyphID)
	}
	if docs[1].StartGlyphID != 7 || docs[1].EndGlyphID != 7 {
		t.Errorf("docs[1] range = (%d, %d), want (7, 7)", docs[1].StartGlyphID, docs[1].EndGlyphID)
	}

	// The SVG wrapper reflects the image's native pixel dimensions.
	for _, want := range []string{
		`width="40"`,
		`height="40"`,
		`viewBox="0 0 40 40"`,
		`data:image/png;base64,`,
		`xmlns="http://www.w3.org/2000/svg"`,
	} {
		if !bytes.Contains(docs[1].Body, []byte(want)) {
			t.Errorf("document body missing %s:\n%s", want, docs[1].Body)
		}
	}
}

func TestBuildDocuments_SkipsNonPNG(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "good", 10, 10)
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := BuildDocuments([]string{"bad", "good"}, dir)
	if err != nil {
		t.Fatalf("BuildDocuments() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1 (undecodable file skipped)", len(docs))
	}
	if docs[0].StartGlyphID != 1 {
		t.Errorf("docs[0].StartGlyphID = %d, want 1", docs[0].StartGlyphID)
	}
}

func TestBuildDocuments_EmptyDir(t *testing.T) {
	docs, err := BuildDocuments([]string{"a", "b", "c"}, t.TempDir())
	if err != nil {
		t.Fatalf("BuildDocuments() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("len(docs) = %d, want 0", len(docs))
	}
}

func TestBuildSVG_Layout(t *testing.T) {
	docs := []Document{
		{StartGlyphID: 5, EndGlyphID: 5, Body: []byte("<svg>five</svg>")},
		{StartGlyphID: 2, EndGlyphID: 2, Body: []byte("<svg>two</svg>")},
	}

	data := BuildSVG(docs)

	if got := binary.BigEndian.Uint16(data[0:2]); got != 0 {
		t.Errorf("version = %d, want 0", got)
	}
	listOffset := binary.BigEndian.Uint32(data[2:6])
	if listOffset != 10 {
		t.Errorf("svgDocumentListOffset = %d, want 10", listOffset)
	}
	if got := binary.BigEndian.Uint32(data[6:10]); got != 0 {
		t.Errorf("reserved = %d, want 0", got)
	}

	list := data[listOffset:]
	numEntries := int(binary.BigEndian.Uint16(list[0:2]))
	if numEntries != 2 {
		t.Fatalf("numEntries = %d, want 2", numEntries)
	}

	// Entries must come out sorted by start glyph ID regardless of the
	// input order, with offsets relative to the document list.
	type entry struct {
		start, end uint16
		off, size  uint32
	}
	entries := make([]entry, numEntries)
	for i := range entries {
		e := list[2+12*i:]
		entries[i] = entry{
			start: binary.BigEndian.Uint16(e[0:2]),
			end:   binary.BigEndian.Uint16(e[2:4]),
			off:   binary.BigEndian.Uint32(e[4:8]),
			size:  binary.BigEndian.Uint32(e[8:12]),
		}
	}

	if entries[0].start != 2 || entries[1].start != 5 {
		t.Errorf("entry order = (%d, %d), want (2, 5)", entries[0].start, entries[1].start)
	}
	for i, e := range entries {
		if e.start != e.end {
			t.Errorf("entry %d range = (%d, %d), want singleton", i, e.start, e.end)
		}
		body := list[e.off : e.off+e.size]
		var want []byte
		if e.start == 2 {
			want = []byte("<svg>two</svg>")
		} else {
			want = []byte("<svg>five</svg>")
		}
		if !bytes.Equal(body, want) {
			t.Errorf("entry %d body = %q, want %q", i, body, want)
		}
	}
}

func TestBuildSVG_Empty(t *testing.T) {
	data := BuildSVG(nil)
	if len(data) != 12 {
		t.Fatalf("len(BuildSVG(nil)) = %d, want 12", len(data))
	}
	if got := binary.BigEndian.Uint16(data[10:12]); got != 0 {
		t.Errorf("numEntries = %d, want 0", got)
	}
}

func TestBuildSVG_ManyDocumentsSorted(t *testing.T) {
	// Insertion order descending; the table index must ascend.
	var docs []Document
	for i := 9; i >= 0; i-- {
		gid := uint16(i)
		docs = append(docs, Document{
			StartGlyphID: gid,
			EndGlyphID:   gid,
			Body:         fmt.Appendf(nil, "<svg>%d</svg>", gid),
		})
	}

	data := BuildSVG(docs)
	list := data[10:]
	numEntries := int(binary.BigEndian.Uint16(list[0:2]))
	if numEntries != 10 {
		t.Fatalf("numEntries = %d, want 10", numEntries)
	}
	for i := 0; i < numEntries; i++ {
		start := binary.BigEndian.Uint16(list[2+12*i:])
		if int(start) != i {
			t.Errorf("entry %d start = %d, want %d", i, start, i)
		}
	}
}
