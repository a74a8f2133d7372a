package chess

// PGN tag names read when building a Game from a PGN header.
const (
	EventTag       = "Event"
	SiteTag        = "Site"
	DateTag        = "Date"
	UTCDateTag     = "UTCDate"
	RoundTag       = "Round"
	WhiteTag       = "White"
	BlackTag       = "Black"
	ResultTag      = "Result"
	WhiteEloTag    = "WhiteElo"
	BlackEloTag    = "BlackElo"
	ECOTag         = "ECO"
	OpeningTag     = "Opening"
	TimeControlTag = "TimeControl"
	TerminationTag = "Termination"
	VariantTag     = "Variant"
	FENTag         = "FEN"
	LinkTag        = "Link"
)

// SpeedFromTimeControl derives a speed category from a PGN TimeControl
// value such as "300+3". Estimated duration is base + 40*increment seconds.
func SpeedFromTimeControl(tc string) string {
	if tc == "" || tc == "-" || tc == "?" {
		return ""
	}
	base, inc := 0, 0
	seenPlus := false
	for i := 0; i < len(tc); i++ {
		c := tc[i]
		switch {
		case c == '+':
			seenPlus = true
		case c >= '0' && c <= '9':
			if seenPlus {
				inc = inc*10 + int(c-'0')
			} else {
				base = base*10 + int(c-'0')
			}
		default:
			return ""
		}
	}
	total := base + 40*inc
	switch {
	case total < 30:
		return "ultrabullet"
	case total < 180:
		return "bullet"
	case total < 480:
		return "blitz"
	case total < 1500:
		return "rapid"
	}
	return "classical"
}
