package types

import (
	"errors"
	"fmt"
)

// Collection is the whole object graph of one collection database: the
// single col row with its four JSON documents, plus every relational record.
type Collection struct {
	ID             int64
	Created        int64 // crt, seconds
	Modified       int64 // milliseconds
	SchemaModified int64 // scm, milliseconds
	Version        int64
	Dirty          int64
	USN            int64
	LastSync       int64

	Config      SyncConfig
	Models      Keyed[Model]
	Decks       Keyed[Deck]
	DeckConfigs Keyed[DeckConfig]
	Tags        string // tag cache

	Notes      []Note
	Cards      []Card
	ReviewLogs []ReviewLog
	Graves     []Grave
}

// Note holds the field values of one note.
type Note struct {
	ID        int64
	GUID      string
	ModelID   int64
	Modified  int64
	USN       int64
	Tags      []string // space-joined on disk; empty entries are kept
	Fields    []string // joined by FieldSeparator on disk
	SortField string // sfld has integer affinity: numeric text reads back canonical ("007" as "7")
	Checksum  int64
	Flags     int64
	Data      string
}

// FieldSeparator joins note field values in the notes.flds column.
const FieldSeparator = "\x1f"

// Card is one reviewable prompt generated from a note and template.
type Card struct {
	ID             int64
	NoteID         int64
	DeckID         int64
	Ordinal        int64
	Modified       int64
	USN            int64
	Type           CardType
	Queue          CardQueue
	Due            int64 // note id or position for new cards, day for reviews, epoch seconds for learning
	Interval       int64 // negative seconds, positive days
	Factor         int64 // ease, permille
	Reps           int64
	Lapses         int64
	Left           int64
	OriginalDue    int64
	OriginalDeckID int64
	Flags          int64
	Data           string
}

// ReviewLog records one answer given during a review.
type ReviewLog struct {
	ID           int64 // epoch milliseconds
	CardID       int64
	USN          int64
	Answer       ReviewAnswer
	Interval     int64
	LastInterval int64
	Factor       int64
	Time         int64 // milliseconds spent
	Type         CardType
}

// WasReview reports whether the answer was given in the review phase, which
// selects the answer coding.
func (r *ReviewLog) WasReview() bool { return r.Type == CardTypeReview }

// Grave marks a deleted card, note or deck for synchronization.
type Grave struct {
	USN      int64
	ObjectID int64
	Type     GraveType
}

// Media is one entry of the package media index.
type Media struct {
	File string // condensed name inside the archive
	Name string // original display name
}

// Validate checks the references the format relies on but does not
// enforce: every card points at an existing note and deck, every note at an
// existing model. Models and decks match either by key or by id. All
// violations are reported together.
func (c *Collection) Validate() error {
	modelIDs := make(map[int64]bool)
	for key, m := range c.Models.All() {
		modelIDs[key] = true
		modelIDs[m.ID] = true
	}
	deckIDs := make(map[int64]bool)
	for key, d := range c.Decks.All() {
		deckIDs[key] = true
		deckIDs[d.ID] = true
	}
	noteIDs := make(map[int64]bool, len(c.Notes))
	for _, n := range c.Notes {
		noteIDs[n.ID] = true
	}

	var errs []error
	for _, n := range c.Notes {
		if !modelIDs[n.ModelID] {
			errs = append(errs, fmt.Errorf("%w: note %d model %d", ErrDanglingReference, n.ID, n.ModelID))
		}
	}
	for _, card := range c.Cards {
		if !noteIDs[card.NoteID] {
			errs = append(errs, fmt.Errorf("%w: card %d note %d", ErrDanglingReference, card.ID, card.NoteID))
		}
		if !deckIDs[card.DeckID] {
			errs = append(errs, fmt.Errorf("%w: card %d deck %d", ErrDanglingReference, card.ID, card.DeckID))
		}
	}
	return errors.Join(errs...)
}
