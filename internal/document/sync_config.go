package document

import (
	"slices"

	"github.com/mesh-intelligence/acp/pkg/types"
)

// ParseSyncConfig decodes the col.conf column.
func ParseSyncConfig(data string) (types.SyncConfig, error) {
	r, err := newReader("sync config", []byte(data))
	if err != nil {
		return types.SyncConfig{}, err
	}
	c := types.SyncConfig{
		CurrentDeck:    r.int("curDeck"),
		ActiveDecks:    r.ints("activeDecks"),
		NewSpread:      types.NewSpreadFromCode(r.int("newSpread")),
		CollapseTime:   r.int("collapseTime"),
		TimeLimit:      r.int("timeLim"),
		EstimatedTimes: r.bool("estTimes"),
		DueCounts:      r.bool("dueCounts"),
		CurrentModel:   r.intOrString("curModel"),
		NextPos:        r.int("nextPos"),
		SortType:       r.optStr("sortType"),
		SortBackwards:  r.bool("sortBackwards"),
		AddToCurrent:   r.bool("addToCur"),
		DayLearnFirst:  r.bool("dayLearnFirst"),
		NewBury:        r.optBool("newBury"),
		LastUnburied:   r.optInt("lastUnburied"),
	}
	if cols, ok := r.optArray("activeCols"); ok {
		c.ActiveColumns = make([]string, 0, len(cols))
		for _, raw := range cols {
			s, ok := asString(raw)
			if !ok {
				r.fail("activeCols", "contains a non-string")
				break
			}
			c.ActiveColumns = append(c.ActiveColumns, s)
		}
	} else {
		c.ActiveColumns = slices.Clone(types.DefaultActiveColumns)
	}
	if r.err != nil {
		return types.SyncConfig{}, r.err
	}
	c.Extra = r.extra()
	return c, nil
}

// MarshalSyncConfig encodes c for the col.conf column.
func MarshalSyncConfig(c types.SyncConfig) (string, error) {
	return encodeString(syncConfigObject(c))
}

func syncConfigObject(c types.SyncConfig) object {
	cols := c.ActiveColumns
	if cols == nil {
		cols = types.DefaultActiveColumns
	}
	o := object{
		{"activeCols", cols},
		{"activeDecks", orEmpty(c.ActiveDecks)},
		{"addToCur", c.AddToCurrent},
		{"collapseTime", c.CollapseTime},
		{"curDeck", c.CurrentDeck},
		{"curModel", c.CurrentModel},
		{"dayLearnFirst", c.DayLearnFirst},
		{"dueCounts", c.DueCounts},
		{"estTimes", c.EstimatedTimes},
	}
	if c.LastUnburied != nil {
		o = append(o, member{"lastUnburied", *c.LastUnburied})
	}
	if c.NewBury != nil {
		o = append(o, member{"newBury", *c.NewBury})
	}
	o = append(o,
		member{"newSpread", c.NewSpread.Code()},
		member{"nextPos", c.NextPos},
		member{"sortBackwards", c.SortBackwards},
	)
	if c.SortType != nil {
		o = append(o, member{"sortType", *c.SortType})
	}
	o = append(o, member{"timeLim", c.TimeLimit})
	return withExtra(o, c.Extra)
}
