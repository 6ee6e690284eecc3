// Package emojifont converts between per-glyph bitmap images and the
// color bitmap tables of an OpenType font.
//
// # Overview
//
// Two independent pipelines share one data model, a mapping from glyph
// name to RGBA image:
//
//   - Extraction reads a font, reuses the best existing bitmap strike
//     (sbix preferred over CBDT/CBLC) for every glyph that has one, and
//     renders the glyph outline as a fallback. Each extracted glyph is
//     written to disk as <glyphName>.png and collected in a
//     GlyphImageSet. EmbedSBIX then packs the set into a fresh
//     single-strike sbix table.
//
//   - SVG font building takes a font plus a directory of glyph-named
//     PNGs, inserts empty outline stubs so every glyph has an outline
//     entry, wraps each PNG in a minimal SVG document embedded as a
//     base64 data URI, assembles the SVG table, strips the legacy bitmap
//     tables, and optionally emits a WOFF2 variant for web use.
//
// # Quick Start
//
//	opts := emojifont.DefaultOptions()
//
//	// Pipeline 1: extract PNGs and write an sbix-augmented font.
//	err := emojifont.ExtractAndEmbed("emoji.ttf", "glyphs/", "out.ttf", opts)
//
//	// Pipeline 2: build a browser-friendly SVG-in-OT font.
//	err = emojifont.BuildSVGFont("emoji.ttf", "glyphs/", "svg.ttf", "svg.woff2")
//
// The two pipelines never share an in-memory font; each run loads its
// own copy and releases it when the call returns.
//
// # Architecture
//
// The module is organized into:
//   - Public API: ExtractImages, EmbedSBIX, ExtractAndEmbed, BuildSVGFont
//   - fontfile: the owned font container (table directory, glyph order)
//   - strike: read side of sbix and CBDT/CBLC, strike selection
//   - render: outline rasterization into coverage masks
//   - table: write side (sbix builder, SVG builder, outline stubs, strip)
//
// Per-glyph failures (render errors, corrupt embedded bitmaps, missing
// PNG files) are never fatal: the glyph is skipped and the run continues.
// Only I/O and container-level errors propagate to the caller.
package emojifont
