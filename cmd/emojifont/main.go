// Command emojifont converts between per-glyph bitmap images and the
// color bitmap tables of an OpenType font.
//
// Usage:
//
//	emojifont extract_and_embed <input_font> <output_dir> [output_font]
//	emojifont make_svg_font <input_font> <png_dir> <output_font> [output_woff2]
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/gogpu/emojifont"
)

type extractAndEmbedCmd struct {
	InputFont  string `arg:"" type:"existingfile" help:"Source font file."`
	OutputDir  string `arg:"" help:"Directory for extracted glyph PNGs."`
	OutputFont string `arg:"" optional:"" default:"out.ttf" help:"Destination font with the embedded sbix strike."`
}

func (c *extractAndEmbedCmd) Run(opts *emojifont.Options) error {
	return emojifont.ExtractAndEmbed(c.InputFont, c.OutputDir, c.OutputFont, *opts)
}

type makeSVGFontCmd struct {
	InputFont   string `arg:"" type:"existingfile" help:"Source font file."`
	PNGDir      string `arg:"" type:"existingdir" help:"Directory of glyph-named PNG files."`
	OutputFont  string `arg:"" help:"Destination SVG-table font."`
	OutputWOFF2 string `arg:"" optional:"" help:"Optional compressed web-font variant."`
}

func (c *makeSVGFontCmd) Run(opts *emojifont.Options) error {
	return emojifont.BuildSVGFont(c.InputFont, c.PNGDir, c.OutputFont, c.OutputWOFF2)
}

var cli struct {
	Size    int  `default:"128" help:"Strike size in pixels per em."`
	Verbose bool `short:"v" help:"Enable debug logging."`

	ExtractAndEmbed extractAndEmbedCmd `cmd:"" name:"extract_and_embed" help:"Extract glyph PNGs and write an sbix-augmented font."`
	MakeSVGFont     makeSVGFontCmd     `cmd:"" name:"make_svg_font" help:"Build an SVG-table font from glyph PNGs."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("emojifont"),
		kong.Description("Convert between bitmap glyph images and color font tables."))

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	emojifont.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	opts := emojifont.DefaultOptions().WithSize(cli.Size)
	ctx.FatalIfErrorf(ctx.Run(&opts))
}
