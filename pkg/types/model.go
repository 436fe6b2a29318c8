package types

import "encoding/json"

// Extra holds JSON members that have no dedicated field. Values are kept
// compacted and written back unchanged so a parse/serialize cycle keeps the
// document's key set.
type Extra map[string]json.RawMessage

// Model is a note type: the fields a note carries and the templates that
// render cards from it. Models are stored in Collection.Models keyed by
// their creation epoch, which is kept apart from ID even though the two
// usually hold the same value.
type Model struct {
	ID           int64
	Name         string
	Type         ModelType
	Modified     int64 // seconds
	USN          int64
	SortField    int64 // index into Fields used for the browser sort column
	DeckID       *int64
	CSS          string
	LatexPre     string
	LatexPost    string
	Fields       []Field
	Templates    []Template
	Requirements []Requirement // nil when the document has no "req" key
	Extra        Extra
}

// Field is one named field of a model. Its position in Model.Fields and
// Ordinal agree.
type Field struct {
	Name     string
	Ordinal  int64
	Font     string
	FontSize int64
	RTL      bool
	Sticky   bool
	Extra    Extra
}

// Template renders one card per note. Its position in Model.Templates and
// Ordinal agree.
type Template struct {
	Name                  string
	Ordinal               int64
	QuestionFormat        string
	AnswerFormat          string
	BrowserQuestionFormat string
	BrowserAnswerFormat   string
	DeckOverride          *int64
	Extra                 Extra
}

// Requirement decides whether the template at Ordinal generates a card:
// Mode is "any", "all" or "none" over the listed field indices.
type Requirement struct {
	Ordinal int64
	Mode    string
	Fields  []int64
}

// FieldIndex returns the position of the field called name, or -1.
func (m *Model) FieldIndex(name string) int {
	for i, f := range m.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
