package tier

// StampsPerPage is the number of stamps printed on one page of the
// passport booklet. Voucher cycles use the same length.
const StampsPerPage = 8

// Level describes one loyalty tier of the passport program.
type Level struct {
	Index int
	Min   int
	Max   int // inclusive; -1 means unbounded
	Label string
	Color string
}

var levels = []Level{
	{Index: 0, Min: 0, Max: 16, Label: "Casual", Color: "#8B9D83"},
	{Index: 1, Min: 17, Max: 50, Label: "Explorer", Color: "#C0623D"},
	{Index: 2, Min: 51, Max: 100, Label: "Guide", Color: "#4A6FA5"},
	{Index: 3, Min: 101, Max: -1, Label: "Legend", Color: "#B8860B"},
}

// Levels returns the ordered tier table.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// ForCount returns the level whose range contains the completion count.
// Counts outside every range fall back to the first level.
func ForCount(completionCount int) Level {
	for _, l := range levels {
		if completionCount >= l.Min && (l.Max < 0 || completionCount <= l.Max) {
			return l
		}
	}
	return levels[0]
}

// Progress captures the derived display state for a completion count.
type Progress struct {
	Level                  Level
	CompletionCount        int
	TotalPages             int
	VouchersEarned         int
	ProgressInCycle        int
	RemainingToNextVoucher int
}

// Compute derives level, pagination and voucher progress from the
// completion count. A ProgressInCycle of 0 means a cycle was just
// finished, not that a full cycle remains.
func Compute(completionCount int) Progress {
	if completionCount < 0 {
		completionCount = 0
	}
	pages := (completionCount + StampsPerPage - 1) / StampsPerPage
	if pages < 1 {
		pages = 1
	}
	inCycle := completionCount % StampsPerPage
	return Progress{
		Level:                  ForCount(completionCount),
		CompletionCount:        completionCount,
		TotalPages:             pages,
		VouchersEarned:         completionCount / StampsPerPage,
		ProgressInCycle:        inCycle,
		RemainingToNextVoucher: StampsPerPage - inCycle,
	}
}

// PageForLatest returns the zero-based booklet page holding the most
// recent stamp, or page 0 for an empty passport.
func PageForLatest(completionCount int) int {
	if completionCount <= 0 {
		return 0
	}
	return (completionCount - 1) / StampsPerPage
}
