package types

// DefaultExtendLimit is used for a deck's extended new/review limits when
// the document omits them.
const DefaultExtendLimit = 10

// DayCount is a (day, count) pair tracking activity for the current day.
type DayCount struct {
	Day   int64
	Count int64
}

// Deck is a named group of cards, keyed in Collection.Decks by creation
// epoch.
type Deck struct {
	ID                  int64
	Name                string
	Description         string
	Modified            int64
	USN                 int64
	Collapsed           bool
	BrowserCollapsed    bool
	Dynamic             int64 // non-zero for filtered decks
	ConfigID            int64 // deck options id; zero and unused on filtered decks
	ExtendedNewLimit    int64
	ExtendedReviewLimit int64
	NewToday            DayCount
	LearnToday          DayCount
	ReviewToday         DayCount
	Extra               Extra
}

// IsFiltered reports whether d is a filtered (dynamic) deck.
func (d *Deck) IsFiltered() bool { return d.Dynamic != 0 }

// DeckConfig is a set of study options shared by any number of decks,
// keyed in Collection.DeckConfigs by id.
type DeckConfig struct {
	ID          int64
	Name        string
	Modified    int64
	USN         int64
	Autoplay    bool
	Dynamic     bool
	MaxTaken    int64
	ReplayAudio bool
	Timer       int64
	New         *NewConfig
	Review      *ReviewConfig
	Lapse       *LapseConfig
	Extra       Extra
}

// NewConfig holds the options for cards that have never been studied.
type NewConfig struct {
	Bury          bool
	Delays        []float64 // learning steps in minutes
	InitialFactor int64     // starting ease, permille
	Intervals     []int64   // graduating intervals in days
	Order         NewOrder
	PerDay        int64
	Extra         Extra
}

// ReviewConfig holds the options for cards in the review phase.
type ReviewConfig struct {
	Bury           bool
	Ease4          float64
	Fuzz           *float64
	IntervalFactor float64
	MaxInterval    float64
	PerDay         int64
	Extra          Extra
}

// LapseConfig holds the options for cards that were forgotten.
type LapseConfig struct {
	Delays      []float64
	LeechAction LeechAction
	LeechFails  int64
	MinInterval int64
	Multiplier  float64
	Extra       Extra
}
