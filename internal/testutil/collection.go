// Package testutil builds fixture collections and packages for tests.
package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/acp/pkg/types"
)

// Fixture ids.
const (
	ModelID      int64 = 1342697561419
	DeckID       int64 = 1
	DeckConfigID int64 = 1
	NoteID       int64 = 1700000000001
	CardID       int64 = 1700000000002
)

// Collection returns a small but complete collection: one basic model, the
// default deck and options, one note with one reviewed card.
func Collection() *types.Collection {
	col := &types.Collection{
		ID:             1,
		Created:        1342656000,
		Modified:       1700000000000,
		SchemaModified: 1700000000000,
		Version:        11,
		USN:            0,
		LastSync:       0,
		Tags:           "{}",
		Config: types.SyncConfig{
			CurrentDeck:    DeckID,
			ActiveDecks:    []int64{DeckID},
			CollapseTime:   1200,
			EstimatedTimes: true,
			DueCounts:      true,
			CurrentModel:   ModelID,
			NextPos:        2,
			AddToCurrent:   true,
			ActiveColumns:  slices.Clone(types.DefaultActiveColumns),
		},
	}

	did := DeckID
	col.Models.Set(ModelID, types.Model{
		ID:        ModelID,
		Name:      "Basic",
		Type:      types.ModelStandard,
		Modified:  1700000000,
		USN:       -1,
		DeckID:    &did,
		CSS:       ".card { font-family: arial; }",
		LatexPre:  `\documentclass[12pt]{article}`,
		LatexPost: `\end{document}`,
		Fields: []types.Field{
			{Name: "Front", Ordinal: 0, Font: "Arial", FontSize: 20},
			{Name: "Back", Ordinal: 1, Font: "Arial", FontSize: 20},
		},
		Templates: []types.Template{{
			Name:           "Card 1",
			Ordinal:        0,
			QuestionFormat: "{{Front}}",
			AnswerFormat:   "{{FrontSide}}<hr id=answer>{{Back}}",
		}},
		Requirements: []types.Requirement{{Ordinal: 0, Mode: "all", Fields: []int64{0}}},
	})
	col.Decks.Set(DeckID, types.Deck{
		ID:                  DeckID,
		Name:                "Default",
		Modified:            1700000000,
		ConfigID:            DeckConfigID,
		ExtendedNewLimit:    types.DefaultExtendLimit,
		ExtendedReviewLimit: types.DefaultExtendLimit,
	})
	col.DeckConfigs.Set(DeckConfigID, types.DeckConfig{
		ID:          DeckConfigID,
		Name:        "Default",
		Autoplay:    true,
		MaxTaken:    60,
		ReplayAudio: true,
		New: &types.NewConfig{
			Bury:          true,
			Delays:        []float64{1, 10},
			InitialFactor: 2500,
			Intervals:     []int64{1, 4, 7},
			Order:         types.NewOrderDue,
			PerDay:        20,
		},
		Review: &types.ReviewConfig{
			Bury:           true,
			Ease4:          1.3,
			IntervalFactor: 1,
			MaxInterval:    36500,
			PerDay:         100,
		},
		Lapse: &types.LapseConfig{
			Delays:      []float64{10},
			LeechAction: types.LeechSuspend,
			LeechFails:  8,
			MinInterval: 1,
		},
	})

	col.Notes = []types.Note{{
		ID:        NoteID,
		GUID:      "f}Zq;ap1@X",
		ModelID:   ModelID,
		Modified:  1700000000,
		USN:       -1,
		Tags:      []string{"", "french", "verbs", ""},
		Fields:    []string{"bonjour", "hello"},
		SortField: "bonjour",
		Checksum:  types.FieldChecksum("bonjour"),
	}}
	col.Cards = []types.Card{{
		ID:       CardID,
		NoteID:   NoteID,
		DeckID:   DeckID,
		Modified: 1700000000,
		USN:      -1,
		Type:     types.CardTypeReview,
		Queue:    types.QueueReview,
		Due:      120,
		Interval: 4,
		Factor:   2500,
		Reps:     3,
		Data:     "{}",
	}}
	col.ReviewLogs = []types.ReviewLog{
		{ID: 1700000000100, CardID: CardID, USN: -1, Answer: types.AnswerOK, Interval: -600, Factor: 0, Time: 4200, Type: types.CardTypeLearning},
		{ID: 1700000000200, CardID: CardID, USN: -1, Answer: types.AnswerHard, Interval: 4, LastInterval: 1, Factor: 2350, Time: 3100, Type: types.CardTypeReview},
	}
	col.Graves = []types.Grave{{USN: -1, ObjectID: 1600000000000, Type: types.GraveNote}}
	return col
}

// Entry is one file to place in a fixture archive.
type Entry struct {
	Name string
	Data []byte
}

// WriteZip writes entries into a new archive at path using the Store
// method.
func WriteZip(t *testing.T, path string, entries ...Entry) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Store})
		require.NoError(t, err)
		_, err = w.Write(e.Data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

// ReadFile returns the contents of path, failing the test on error.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Clean(path))
	require.NoError(t, err)
	return b
}
