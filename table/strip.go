package table

import "github.com/gogpu/emojifont/fontfile"

// bitmapTableTags are the legacy bitmap tables removed after SVG
// embedding, so exactly one bitmap-representation mechanism remains in
// the output font.
var bitmapTableTags = [...]string{"sbix", "CBDT", "CBLC", "EBDT", "EBLC"}

// StripBitmapTables removes all legacy bitmap tables from the font and
// returns the tags that were actually present. No-op for fonts without
// them.
func StripBitmapTables(f *fontfile.Font) []string {
	var removed []string
	for _, tag := range bitmapTableTags {
		if f.HasTable(tag) {
			f.RemoveTable(tag)
			removed = append(removed, tag)
		}
	}
	return removed
}
