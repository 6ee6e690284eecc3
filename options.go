package emojifont

// DefaultSize is the strike size, in pixels per em, used for rendered
// glyphs and for newly embedded sbix strikes.
const DefaultSize = 128

// DefaultResolution is the resolution, in DPI, recorded in newly
// embedded sbix strikes.
const DefaultResolution = 72

// Options configure the conversion pipelines.
type Options struct {
	// Size is the target pixels-per-em, used both as the render size for
	// the outline fallback and as the ppem of the embedded sbix strike.
	Size int

	// Resolution is the DPI recorded in the embedded sbix strike.
	Resolution int
}

// DefaultOptions returns the default pipeline options.
func DefaultOptions() Options {
	return Options{
		Size:       DefaultSize,
		Resolution: DefaultResolution,
	}
}

// WithSize returns a copy of the options with the given strike size.
func (o Options) WithSize(size int) Options {
	o.Size = size
	return o
}
