package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/mesh-intelligence/acp/pkg/types"
)

type member struct {
	key   string
	value any
}

// object is a JSON object whose members are written in slice order.
type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := encode(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := encode(m.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", m.key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// withExtra appends the preserved unknown keys in sorted order, skipping any
// that would shadow a known key.
func withExtra(o object, extra types.Extra) object {
	if len(extra) == 0 {
		return o
	}
	known := make(map[string]bool, len(o))
	for _, m := range o {
		known[m.key] = true
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if !known[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		o = append(o, member{k, extra[k]})
	}
	return o
}

// keyedObject writes a Keyed map as an object with decimal string keys.
func keyedObject[V any](k *types.Keyed[V], build func(key int64, v V) object) object {
	o := make(object, 0, k.Len())
	for key, v := range k.All() {
		o = append(o, member{strconv.FormatInt(key, 10), build(key, v)})
	}
	return o
}

// encode marshals v compactly without escaping <, > and &, which appear
// throughout card templates.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func encodeString(v any) (string, error) {
	b, err := encode(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrMalformedDocument, err)
	}
	return string(b), nil
}

// orEmpty keeps nil slices from being written as null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

