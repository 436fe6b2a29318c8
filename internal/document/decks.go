package document

import (
	"fmt"

	"github.com/mesh-intelligence/acp/pkg/types"
)

// ParseDecks decodes the col.decks column.
func ParseDecks(data string) (types.Keyed[types.Deck], error) {
	var out types.Keyed[types.Deck]
	members, err := readKeyed([]byte(data), "decks")
	if err != nil {
		return out, err
	}
	for _, m := range members {
		deck, err := parseDeck(fmt.Sprintf("deck %d", m.key), m.value)
		if err != nil {
			return types.Keyed[types.Deck]{}, err
		}
		out.Set(m.key, deck)
	}
	return out, nil
}

// ParseDeck decodes a single deck object.
func ParseDeck(data []byte) (types.Deck, error) {
	return parseDeck("deck", data)
}

func parseDeck(structure string, data []byte) (types.Deck, error) {
	r, err := newReader(structure, data)
	if err != nil {
		return types.Deck{}, err
	}
	d := types.Deck{
		Name:             r.str("name"),
		USN:              r.int("usn"),
		Collapsed:        r.bool("collapsed"),
		BrowserCollapsed: r.bool("browserCollapsed"),
		Dynamic:          r.int("dyn"),
		ID:               r.int("id"),
		Modified:         r.int("mod"),
		Description:      r.str("desc"),
		NewToday:         r.pair("newToday"),
		LearnToday:       r.pair("lrnToday"),
		ReviewToday:      r.pair("revToday"),
		ExtendedNewLimit: r.intOr("extendNew", types.DefaultExtendLimit),
	}
	d.ExtendedReviewLimit = r.intOr("extendRev", types.DefaultExtendLimit)
	if legacy := r.optInt("extended_rev"); legacy != nil && !r.has("extendRev") {
		d.ExtendedReviewLimit = *legacy
	}

	// Filtered decks have no options group; keep a stray conf if present.
	if d.Dynamic == 0 {
		d.ConfigID = r.int("conf")
	} else {
		d.ConfigID = r.intOr("conf", 0)
	}
	if r.err != nil {
		return types.Deck{}, r.err
	}
	d.Extra = r.extra()
	return d, nil
}

// MarshalDecks encodes decks for the col.decks column.
func MarshalDecks(decks *types.Keyed[types.Deck]) (string, error) {
	return encodeString(keyedObject(decks, func(_ int64, d types.Deck) object {
		return deckObject(d)
	}))
}

// MarshalDeck encodes a single deck object.
func MarshalDeck(d types.Deck) (string, error) {
	return encodeString(deckObject(d))
}

func deckObject(d types.Deck) object {
	o := object{
		{"id", d.ID},
		{"name", d.Name},
		{"desc", d.Description},
		{"mod", d.Modified},
		{"usn", d.USN},
		{"dyn", d.Dynamic},
		{"collapsed", d.Collapsed},
		{"browserCollapsed", d.BrowserCollapsed},
		{"extendNew", d.ExtendedNewLimit},
		{"extendRev", d.ExtendedReviewLimit},
		{"newToday", dayCount(d.NewToday)},
		{"lrnToday", dayCount(d.LearnToday)},
		{"revToday", dayCount(d.ReviewToday)},
	}
	if !d.IsFiltered() || d.ConfigID != 0 {
		o = append(o, member{"conf", d.ConfigID})
	}
	return withExtra(o, d.Extra)
}

func dayCount(c types.DayCount) [2]int64 {
	return [2]int64{c.Day, c.Count}
}
