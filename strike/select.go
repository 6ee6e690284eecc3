package strike

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Source identifies which bitmap table a reusable strike comes from.
type Source int

const (
	// SourceNone means no reusable bitmap strike is available.
	SourceNone Source = iota

	// SourceSBIX is a strike from the sbix table.
	SourceSBIX

	// SourceCBDT is a strike from the CBDT/CBLC tables.
	SourceCBDT
)

// String returns the string name of the source.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceSBIX:
		return "sbix"
	case SourceCBDT:
		return "CBDT"
	default:
		return unknownStr
	}
}

// Selection is the outcome of choosing reusable bitmap strikes for a
// font. At most one strike per table is chosen: the highest-ppem sbix
// strike and the last (largest) CBDT strike. Either table may be absent.
type Selection struct {
	// SBIX is the parsed sbix table, nil when absent or unusable.
	SBIX *SBIX

	// SBIXStrike is the chosen strike index within SBIX.
	SBIXStrike int

	// CBDT is the parsed CBDT/CBLC pair, nil when absent or unusable.
	CBDT *CBDT

	// CBDTStrike is the chosen strike index within CBDT.
	CBDTStrike int
}

// Source returns the preferred source: sbix when usable, else CBDT,
// else none. sbix is preferred because it is the richer, typically
// higher-fidelity table.
func (sel Selection) Source() Source {
	switch {
	case sel.SBIX != nil:
		return SourceSBIX
	case sel.CBDT != nil:
		return SourceCBDT
	default:
		return SourceNone
	}
}

// Select inspects the raw bitmap tables of a font and picks the strike
// to reuse from each. Pass nil for tables the font does not have.
//
// A table that is present but empty or malformed falls through to
// "absent": selection never fails, it only narrows.
func Select(sbixData, cbdtData, cblcData []byte, numGlyphs int) Selection {
	var sel Selection

	if len(sbixData) > 0 {
		if s, err := ParseSBIX(sbixData, numGlyphs); err == nil {
			if best := s.Best(); best >= 0 {
				sel.SBIX = s
				sel.SBIXStrike = best
			}
		}
	}

	if len(cbdtData) > 0 && len(cblcData) > 0 {
		if c, err := ParseCBDT(cbdtData, cblcData); err == nil {
			if last := c.Last(); last >= 0 {
				sel.CBDT = c
				sel.CBDTStrike = last
			}
		}
	}

	return sel
}
