package document

import (
	"fmt"

	"github.com/mesh-intelligence/acp/pkg/types"
)

// ParseModels decodes the col.models column.
func ParseModels(data string) (types.Keyed[types.Model], error) {
	var out types.Keyed[types.Model]
	members, err := readKeyed([]byte(data), "models")
	if err != nil {
		return out, err
	}
	for _, m := range members {
		model, err := parseModel(fmt.Sprintf("model %d", m.key), m.value)
		if err != nil {
			return types.Keyed[types.Model]{}, err
		}
		out.Set(m.key, model)
	}
	return out, nil
}

// ParseModel decodes a single note type object.
func ParseModel(data []byte) (types.Model, error) {
	return parseModel("model", data)
}

func parseModel(structure string, data []byte) (types.Model, error) {
	r, err := newReader(structure, data)
	if err != nil {
		return types.Model{}, err
	}
	m := types.Model{
		CSS:       r.str("css"),
		DeckID:    r.optIntOrString("did"),
		ID:        r.int("id"),
		LatexPre:  r.str("latexPre"),
		LatexPost: r.str("latexPost"),
		Modified:  r.int("mod"),
		Name:      r.str("name"),
		SortField: r.int("sortf"),
		Type:      types.ModelTypeFromCode(r.int("type")),
		USN:       r.int("usn"),
	}
	if r.err != nil {
		return types.Model{}, r.err
	}

	for i, raw := range r.array("flds") {
		f, err := parseField(fmt.Sprintf("%s field %d", structure, i), raw)
		if err != nil {
			return types.Model{}, err
		}
		m.Fields = append(m.Fields, f)
	}
	for i, raw := range r.array("tmpls") {
		t, err := parseTemplate(fmt.Sprintf("%s template %d", structure, i), raw)
		if err != nil {
			return types.Model{}, err
		}
		m.Templates = append(m.Templates, t)
	}
	if reqs, ok := r.optArray("req"); ok {
		m.Requirements = make([]types.Requirement, 0, len(reqs))
		for i, raw := range reqs {
			req, err := parseRequirement(fmt.Sprintf("%s req %d", structure, i), raw)
			if err != nil {
				return types.Model{}, err
			}
			m.Requirements = append(m.Requirements, req)
		}
	}
	if r.err != nil {
		return types.Model{}, r.err
	}
	m.Extra = r.extra()
	return m, nil
}

func parseField(structure string, data []byte) (types.Field, error) {
	r, err := newReader(structure, data)
	if err != nil {
		return types.Field{}, err
	}
	f := types.Field{
		Font:     r.str("font"),
		Name:     r.str("name"),
		Ordinal:  r.int("ord"),
		RTL:      r.bool("rtl"),
		FontSize: r.int("size"),
		Sticky:   r.bool("sticky"),
	}
	if r.err != nil {
		return types.Field{}, r.err
	}
	f.Extra = r.extra()
	return f, nil
}

func parseTemplate(structure string, data []byte) (types.Template, error) {
	r, err := newReader(structure, data)
	if err != nil {
		return types.Template{}, err
	}
	t := types.Template{
		AnswerFormat:          r.str("afmt"),
		BrowserAnswerFormat:   r.str("bafmt"),
		BrowserQuestionFormat: r.str("bqfmt"),
		DeckOverride:          r.optIntOrString("did"),
		Name:                  r.str("name"),
		Ordinal:               r.int("ord"),
		QuestionFormat:        r.str("qfmt"),
	}
	if r.err != nil {
		return types.Template{}, r.err
	}
	t.Extra = r.extra()
	return t, nil
}

// parseRequirement decodes one [ordinal, mode, [field, ...]] tuple.
func parseRequirement(structure string, data []byte) (types.Requirement, error) {
	fail := func(pos, reason string) error {
		return &types.DocumentError{Structure: structure, Field: pos, Reason: reason}
	}
	if !isArray(data) {
		return types.Requirement{}, fail("", "not an array")
	}
	items := mustItems(data)
	if len(items) < 3 {
		return types.Requirement{}, fail(fmt.Sprintf("position %d", len(items)), "missing")
	}
	ord, ok := asInt(items[0])
	if !ok {
		return types.Requirement{}, fail("position 0", "ordinal is not an integer")
	}
	mode, ok := asString(items[1])
	if !ok {
		return types.Requirement{}, fail("position 1", "mode is not a string")
	}
	if !isArray(items[2]) {
		return types.Requirement{}, fail("position 2", "field list is not an array")
	}
	fields := []int64{}
	for j, raw := range mustItems(items[2]) {
		n, ok := asInt(raw)
		if !ok {
			return types.Requirement{}, fail(fmt.Sprintf("position 2 element %d", j), "not an integer")
		}
		fields = append(fields, n)
	}
	return types.Requirement{Ordinal: ord, Mode: mode, Fields: fields}, nil
}

// MarshalModels encodes models for the col.models column.
func MarshalModels(models *types.Keyed[types.Model]) (string, error) {
	return encodeString(keyedObject(models, func(_ int64, m types.Model) object {
		return modelObject(m)
	}))
}

// MarshalModel encodes a single note type object.
func MarshalModel(m types.Model) (string, error) {
	return encodeString(modelObject(m))
}

func modelObject(m types.Model) object {
	flds := make([]object, 0, len(m.Fields))
	for _, f := range m.Fields {
		flds = append(flds, fieldObject(f))
	}
	tmpls := make([]object, 0, len(m.Templates))
	for _, t := range m.Templates {
		tmpls = append(tmpls, templateObject(t))
	}
	o := object{
		{"id", m.ID},
		{"name", m.Name},
		{"type", m.Type.Code()},
		{"mod", m.Modified},
		{"usn", m.USN},
		{"sortf", m.SortField},
	}
	if m.DeckID != nil {
		o = append(o, member{"did", *m.DeckID})
	}
	o = append(o,
		member{"tmpls", tmpls},
		member{"flds", flds},
		member{"css", m.CSS},
		member{"latexPre", m.LatexPre},
		member{"latexPost", m.LatexPost},
	)
	if m.Requirements != nil {
		reqs := make([][]any, 0, len(m.Requirements))
		for _, r := range m.Requirements {
			reqs = append(reqs, []any{r.Ordinal, r.Mode, orEmpty(r.Fields)})
		}
		o = append(o, member{"req", reqs})
	}
	return withExtra(o, m.Extra)
}

func fieldObject(f types.Field) object {
	return withExtra(object{
		{"name", f.Name},
		{"ord", f.Ordinal},
		{"sticky", f.Sticky},
		{"rtl", f.RTL},
		{"font", f.Font},
		{"size", f.FontSize},
	}, f.Extra)
}

func templateObject(t types.Template) object {
	o := object{
		{"name", t.Name},
		{"ord", t.Ordinal},
		{"qfmt", t.QuestionFormat},
		{"afmt", t.AnswerFormat},
		{"bqfmt", t.BrowserQuestionFormat},
		{"bafmt", t.BrowserAnswerFormat},
	}
	if t.DeckOverride != nil {
		o = append(o, member{"did", *t.DeckOverride})
	}
	return withExtra(o, t.Extra)
}
