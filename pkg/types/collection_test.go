package types

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicCollection() *Collection {
	c := &Collection{}
	c.Models.Set(1000, Model{
		ID:        1000,
		Name:      "Basic",
		SortField: 0,
		Fields: []Field{
			{Name: "Front", Ordinal: 0, Font: "Arial", FontSize: 20},
			{Name: "Back", Ordinal: 1, Font: "Arial", FontSize: 20},
		},
	})
	c.Decks.Set(1, Deck{ID: 1, Name: "Default", ConfigID: 1})
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Collection)
		wantErrs int
	}{
		{
			name:     "empty collection is valid",
			mutate:   func(c *Collection) {},
			wantErrs: 0,
		},
		{
			name: "note and card with valid references",
			mutate: func(c *Collection) {
				c.Notes = []Note{{ID: 5, ModelID: 1000}}
				c.Cards = []Card{{ID: 6, NoteID: 5, DeckID: 1}}
			},
			wantErrs: 0,
		},
		{
			name: "note with unknown model",
			mutate: func(c *Collection) {
				c.Notes = []Note{{ID: 5, ModelID: 42}}
			},
			wantErrs: 1,
		},
		{
			name: "card with unknown note and deck",
			mutate: func(c *Collection) {
				c.Cards = []Card{{ID: 6, NoteID: 7, DeckID: 8}}
			},
			wantErrs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := basicCollection()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErrs == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDanglingReference)
			assert.ErrorIs(t, err, ErrMalformedDocument)
			assert.Equal(t, tt.wantErrs, strings.Count(err.Error(), "dangling reference"))
		})
	}
}

func TestAddNote(t *testing.T) {
	c := basicCollection()

	note, err := c.AddNote(1000, []string{"<b>bonjour</b>", "hello"}, []string{"french"})
	require.NoError(t, err)

	assert.Len(t, c.Notes, 1)
	assert.Equal(t, int64(1000), note.ModelID)
	assert.Equal(t, "bonjour", note.SortField)
	assert.Equal(t, FieldChecksum("bonjour"), note.Checksum)
	assert.Equal(t, int64(-1), note.USN)
	assert.NotEmpty(t, note.GUID)
	assert.Equal(t, []string{"french"}, note.Tags)
	require.NoError(t, c.Validate())

	second, err := c.AddNote(1000, []string{"a", "b"}, nil)
	require.NoError(t, err)
	assert.Greater(t, second.ID, note.ID)
	assert.Equal(t, []string{""}, second.Tags)
}

func TestAddNoteErrors(t *testing.T) {
	c := basicCollection()

	_, err := c.AddNote(2000, []string{"a", "b"}, nil)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.AddNote(1000, []string{"only one"}, nil)
	assert.ErrorIs(t, err, ErrFieldCount)
	assert.Empty(t, c.Notes)
}

func TestFieldChecksum(t *testing.T) {
	// sha1("hello") starts with aaf4c61d.
	assert.Equal(t, int64(0xaaf4c61d), FieldChecksum("hello"))
	assert.Equal(t, FieldChecksum("hello"), FieldChecksum("<div>hello</div>"))
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"<b>bold</b> text", "bold text"},
		{`<img src="cat.jpg">`, "cat.jpg"},
		{"a &amp; b", "a & b"},
		{"<!-- note -->kept", "kept"},
		{"<style>.x{}</style>body", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestNewGUID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		g := NewGUID()
		require.NotEmpty(t, g)
		assert.LessOrEqual(t, len(g), 10)
		for _, r := range g {
			assert.True(t, strings.ContainsRune(guidAlphabet, r), "unexpected rune %q", r)
		}
		assert.False(t, seen[g], "duplicate guid %s", g)
		seen[g] = true
	}
}

func TestReviewLogWasReview(t *testing.T) {
	r := ReviewLog{Type: CardTypeReview}
	assert.True(t, r.WasReview())
	r.Type = CardTypeRelearning
	assert.False(t, r.WasReview())
}

func TestModelFieldIndex(t *testing.T) {
	c := basicCollection()
	m, ok := c.Models.Get(1000)
	require.True(t, ok)
	assert.Equal(t, 1, m.FieldIndex("Back"))
	assert.Equal(t, -1, m.FieldIndex("Extra"))
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrMissingEntry, "NotFound"},
		{ErrUnsafePath, "MalformedArchive"},
		{&DocumentError{Structure: "model", Field: "css", Reason: "missing"}, "MalformedDocument"},
		{ErrStorage, "StorageError"},
		{ErrClosed, "IoError"},
		{errors.New("other"), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err))
	}
}

func TestDocumentErrorMessage(t *testing.T) {
	err := &DocumentError{Structure: "model", Field: "css", Reason: "missing or not a string"}
	assert.Equal(t, "malformed document: model css: missing or not a string", err.Error())
	assert.ErrorIs(t, err, ErrMalformedDocument)
}
