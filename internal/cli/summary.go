package cli

import (
	"os"

	"github.com/mesh-intelligence/acp/pkg/apkg"
)

// summary is the report printed by dump and logged by the root command.
type summary struct {
	Path        string         `json:"path" yaml:"path"`
	Version     int64          `json:"version" yaml:"version"`
	Created     int64          `json:"created" yaml:"created"`
	Modified    int64          `json:"modified" yaml:"modified"`
	Models      []modelSummary `json:"models" yaml:"models"`
	Decks       []deckSummary  `json:"decks" yaml:"decks"`
	DeckConfigs int            `json:"deck_configs" yaml:"deck_configs"`
	Notes       int            `json:"notes" yaml:"notes"`
	Cards       int            `json:"cards" yaml:"cards"`
	ReviewLogs  int            `json:"review_logs" yaml:"review_logs"`
	Graves      int            `json:"graves" yaml:"graves"`
	Media       int            `json:"media" yaml:"media"`
	MediaFiles  []mediaSummary `json:"media_files" yaml:"media_files"`
	Problems    []string       `json:"problems,omitempty" yaml:"problems,omitempty"`
}

type modelSummary struct {
	ID        int64    `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type"`
	Fields    []string `json:"fields" yaml:"fields"`
	Templates []string `json:"templates" yaml:"templates"`
	Notes     int      `json:"notes" yaml:"notes"`
}

type deckSummary struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Filtered bool   `json:"filtered" yaml:"filtered"`
	Cards    int    `json:"cards" yaml:"cards"`
}

type mediaSummary struct {
	File    string `json:"file" yaml:"file"`
	Name    string `json:"name" yaml:"name"`
	Size    int64  `json:"size" yaml:"size"`
	Missing bool   `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// summarize collects counts and names from an open package.
func summarize(path string, p *apkg.Package) summary {
	col := p.Collection()

	notesByModel := make(map[int64]int)
	for _, n := range col.Notes {
		notesByModel[n.ModelID]++
	}
	cardsByDeck := make(map[int64]int)
	for _, c := range col.Cards {
		cardsByDeck[c.DeckID]++
	}

	s := summary{
		Path:        path,
		Version:     col.Version,
		Created:     col.Created,
		Modified:    col.Modified,
		Models:      []modelSummary{},
		Decks:       []deckSummary{},
		DeckConfigs: col.DeckConfigs.Len(),
		Notes:       len(col.Notes),
		Cards:       len(col.Cards),
		ReviewLogs:  len(col.ReviewLogs),
		Graves:      len(col.Graves),
		MediaFiles:  []mediaSummary{},
	}

	for key, m := range col.Models.All() {
		ms := modelSummary{
			ID:        key,
			Name:      m.Name,
			Type:      m.Type.String(),
			Fields:    make([]string, 0, len(m.Fields)),
			Templates: make([]string, 0, len(m.Templates)),
			Notes:     notesByModel[key],
		}
		for _, f := range m.Fields {
			ms.Fields = append(ms.Fields, f.Name)
		}
		for _, t := range m.Templates {
			ms.Templates = append(ms.Templates, t.Name)
		}
		s.Models = append(s.Models, ms)
	}

	for key, d := range col.Decks.All() {
		s.Decks = append(s.Decks, deckSummary{
			ID:       key,
			Name:     d.Name,
			Filtered: d.IsFiltered(),
			Cards:    cardsByDeck[key],
		})
	}

	for _, m := range p.Media() {
		ms := mediaSummary{File: m.File, Name: m.Name}
		if info, err := os.Stat(p.MediaPath(m)); err == nil {
			ms.Size = info.Size()
		} else {
			ms.Missing = true
		}
		s.MediaFiles = append(s.MediaFiles, ms)
	}
	s.Media = len(s.MediaFiles)

	if err := col.Validate(); err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				s.Problems = append(s.Problems, e.Error())
			}
		} else {
			s.Problems = append(s.Problems, err.Error())
		}
	}
	return s
}
