package document

import (
	"fmt"

	"github.com/mesh-intelligence/acp/pkg/types"
)

// ParseDeckConfigs decodes the col.dconf column. A config without an "id"
// takes its key.
func ParseDeckConfigs(data string) (types.Keyed[types.DeckConfig], error) {
	var out types.Keyed[types.DeckConfig]
	members, err := readKeyed([]byte(data), "deck configs")
	if err != nil {
		return out, err
	}
	for _, m := range members {
		conf, err := parseDeckConfig(fmt.Sprintf("deck config %d", m.key), m.value, m.key)
		if err != nil {
			return types.Keyed[types.DeckConfig]{}, err
		}
		out.Set(m.key, conf)
	}
	return out, nil
}

func parseDeckConfig(structure string, data []byte, key int64) (types.DeckConfig, error) {
	r, err := newReader(structure, data)
	if err != nil {
		return types.DeckConfig{}, err
	}
	c := types.DeckConfig{
		ID:          r.intOr("id", key),
		Autoplay:    r.bool("autoplay"),
		Dynamic:     r.bool("dyn"),
		MaxTaken:    r.int("maxTaken"),
		Modified:    r.int("mod"),
		Name:        r.str("name"),
		ReplayAudio: r.bool("replayq"),
		Timer:       r.int("timer"),
		USN:         r.int("usn"),
	}
	if sub := r.child("new", structure+" new"); sub != nil {
		c.New = parseNewConfig(sub)
		r.setErr(sub.err)
	}
	if sub := r.child("rev", structure+" rev"); sub != nil {
		c.Review = parseReviewConfig(sub)
		r.setErr(sub.err)
	}
	if sub := r.child("lapse", structure+" lapse"); sub != nil {
		c.Lapse = parseLapseConfig(sub)
		r.setErr(sub.err)
	}
	if r.err != nil {
		return types.DeckConfig{}, r.err
	}
	c.Extra = r.extra()
	return c, nil
}

func parseNewConfig(r *reader) *types.NewConfig {
	n := &types.NewConfig{
		Bury:          r.bool("bury"),
		Delays:        r.floats("delays"),
		InitialFactor: r.int("initialFactor"),
		Intervals:     r.ints("ints"),
		Order:         types.NewOrderFromCode(r.int("order")),
		PerDay:        r.int("perDay"),
	}
	n.Extra = r.extra()
	return n
}

func parseReviewConfig(r *reader) *types.ReviewConfig {
	v := &types.ReviewConfig{
		Bury:           r.bool("bury"),
		Ease4:          r.float("ease4"),
		Fuzz:           r.optFloat("fuzz"),
		IntervalFactor: r.float("ivlFct"),
		MaxInterval:    r.float("maxIvl"),
		PerDay:         r.int("perDay"),
	}
	v.Extra = r.extra()
	return v
}

func parseLapseConfig(r *reader) *types.LapseConfig {
	l := &types.LapseConfig{
		Delays:      r.floats("delays"),
		LeechAction: types.LeechActionFromCode(r.int("leechAction")),
		LeechFails:  r.int("leechFails"),
		MinInterval: r.int("minInt"),
		Multiplier:  r.float("mult"),
	}
	l.Extra = r.extra()
	return l
}

// MarshalDeckConfigs encodes deck options for the col.dconf column.
func MarshalDeckConfigs(confs *types.Keyed[types.DeckConfig]) (string, error) {
	return encodeString(keyedObject(confs, func(_ int64, c types.DeckConfig) object {
		return deckConfigObject(c)
	}))
}

func deckConfigObject(c types.DeckConfig) object {
	o := object{
		{"id", c.ID},
		{"name", c.Name},
		{"mod", c.Modified},
		{"usn", c.USN},
		{"maxTaken", c.MaxTaken},
		{"autoplay", c.Autoplay},
		{"timer", c.Timer},
		{"replayq", c.ReplayAudio},
		{"dyn", c.Dynamic},
	}
	if n := c.New; n != nil {
		o = append(o, member{"new", withExtra(object{
			{"bury", n.Bury},
			{"delays", orEmpty(n.Delays)},
			{"initialFactor", n.InitialFactor},
			{"ints", orEmpty(n.Intervals)},
			{"order", n.Order.Code()},
			{"perDay", n.PerDay},
		}, n.Extra)})
	}
	if v := c.Review; v != nil {
		rev := object{
			{"bury", v.Bury},
			{"ease4", v.Ease4},
		}
		if v.Fuzz != nil {
			rev = append(rev, member{"fuzz", *v.Fuzz})
		}
		rev = append(rev,
			member{"ivlFct", v.IntervalFactor},
			member{"maxIvl", v.MaxInterval},
			member{"perDay", v.PerDay},
		)
		o = append(o, member{"rev", withExtra(rev, v.Extra)})
	}
	if l := c.Lapse; l != nil {
		o = append(o, member{"lapse", withExtra(object{
			{"delays", orEmpty(l.Delays)},
			{"leechAction", l.LeechAction.Code()},
			{"leechFails", l.LeechFails},
			{"minInt", l.MinInterval},
			{"mult", l.Multiplier},
		}, l.Extra)})
	}
	return withExtra(o, c.Extra)
}
