package types

// DefaultActiveColumns is the browser column set used when the sync config
// has no "activeCols" value.
var DefaultActiveColumns = []string{"noteFld", "template", "cardDue", "deck"}

// SyncConfig is the session state stored in the col.conf column.
type SyncConfig struct {
	CurrentDeck    int64
	ActiveDecks    []int64
	NewSpread      NewSpread
	CollapseTime   int64
	TimeLimit      int64
	EstimatedTimes bool
	DueCounts      bool
	CurrentModel   int64
	NextPos        int64
	SortType       *string
	SortBackwards  bool
	AddToCurrent   bool
	DayLearnFirst  bool
	NewBury        *bool
	LastUnburied   *int64
	ActiveColumns  []string
	Extra          Extra
}
