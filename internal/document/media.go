package document

import (
	"encoding/json"

	"github.com/mesh-intelligence/acp/pkg/types"
)

// ParseMedia decodes the "media" index entry. A top level that is not an
// object yields no entries; members whose value is not a string are
// skipped. Only a JSON syntax error fails.
func ParseMedia(data []byte) ([]types.Media, error) {
	if !json.Valid(data) {
		return nil, &types.DocumentError{Structure: "media", Reason: "invalid JSON"}
	}
	if !isObject(data) {
		return nil, nil
	}
	members, err := readMembers(data, "media")
	if err != nil {
		return nil, err
	}
	var out []types.Media
	for _, m := range members {
		name, ok := asString(m.value)
		if !ok {
			continue
		}
		out = append(out, types.Media{File: m.key, Name: name})
	}
	return out, nil
}

// MarshalMedia encodes the media index in entry order.
func MarshalMedia(entries []types.Media) ([]byte, error) {
	o := make(object, 0, len(entries))
	for _, e := range entries {
		o = append(o, member{e.File, e.Name})
	}
	return encode(o)
}
