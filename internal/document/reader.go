// Package document parses and serializes the JSON documents embedded in the
// col table (note types, decks, deck options, sync config) and the package
// media index.
//
// Parsing is driven by the legacy key names: each entity is read through a
// reader that looks every key up explicitly, records the first schema
// violation as a *types.DocumentError, and hands unknown keys back as Extra
// so they survive serialization. Serialization is the reverse: each entity
// becomes an ordered member list built by a pure constructor, composed into
// its parent and encoded once.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/mesh-intelligence/acp/pkg/types"
)

// reader pulls typed values out of one JSON object. The first failure is
// kept in err; later calls return zero values so callers can read a whole
// struct and check err once.
type reader struct {
	structure string
	raw       map[string]json.RawMessage
	used      map[string]bool
	err       error
}

func newReader(structure string, data json.RawMessage) (*reader, error) {
	if !isObject(data) {
		return nil, &types.DocumentError{Structure: structure, Reason: "not an object"}
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &types.DocumentError{Structure: structure, Reason: "invalid JSON: " + err.Error()}
	}
	return &reader{structure: structure, raw: raw, used: make(map[string]bool, len(raw))}, nil
}

func (r *reader) fail(key, reason string) {
	if r.err == nil {
		r.err = &types.DocumentError{Structure: r.structure, Field: key, Reason: reason}
	}
}

// lookup returns the raw value for key, or nil when it is absent or null.
func (r *reader) lookup(key string) json.RawMessage {
	v, ok := r.raw[key]
	r.used[key] = true
	if !ok || isNull(v) {
		return nil
	}
	return v
}

func (r *reader) has(key string) bool {
	return r.lookup(key) != nil
}

func (r *reader) int(key string) int64 {
	v := r.lookup(key)
	n, ok := asInt(v)
	if !ok {
		r.fail(key, "missing or not an integer")
	}
	return n
}

func (r *reader) optInt(key string) *int64 {
	v := r.lookup(key)
	if v == nil {
		return nil
	}
	n, ok := asInt(v)
	if !ok {
		r.fail(key, "not an integer")
		return nil
	}
	return &n
}

func (r *reader) intOr(key string, def int64) int64 {
	if p := r.optInt(key); p != nil {
		return *p
	}
	return def
}

// intOrString accepts an integer or a string holding a decimal integer, as
// older clients wrote some ids as strings.
func (r *reader) intOrString(key string) int64 {
	p := r.optIntOrString(key)
	if p == nil {
		r.fail(key, "missing or not an integer")
		return 0
	}
	return *p
}

func (r *reader) optIntOrString(key string) *int64 {
	v := r.lookup(key)
	if v == nil {
		return nil
	}
	if n, ok := asInt(v); ok {
		return &n
	}
	if s, ok := asString(v); ok {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &n
		}
	}
	r.fail(key, "not an integer")
	return nil
}

func (r *reader) float(key string) float64 {
	v := r.lookup(key)
	f, ok := asFloat(v)
	if !ok {
		r.fail(key, "missing or not a number")
	}
	return f
}

func (r *reader) optFloat(key string) *float64 {
	v := r.lookup(key)
	if v == nil {
		return nil
	}
	f, ok := asFloat(v)
	if !ok {
		r.fail(key, "not a number")
		return nil
	}
	return &f
}

func (r *reader) str(key string) string {
	v := r.lookup(key)
	s, ok := asString(v)
	if !ok {
		r.fail(key, "missing or not a string")
	}
	return s
}

func (r *reader) optStr(key string) *string {
	v := r.lookup(key)
	if v == nil {
		return nil
	}
	s, ok := asString(v)
	if !ok {
		r.fail(key, "not a string")
		return nil
	}
	return &s
}

func (r *reader) bool(key string) bool {
	v := r.lookup(key)
	b, ok := asBool(v)
	if !ok {
		r.fail(key, "missing or not a boolean")
	}
	return b
}

func (r *reader) optBool(key string) *bool {
	v := r.lookup(key)
	if v == nil {
		return nil
	}
	b, ok := asBool(v)
	if !ok {
		r.fail(key, "not a boolean")
		return nil
	}
	return &b
}

// array returns the elements of a required array.
func (r *reader) array(key string) []json.RawMessage {
	v := r.lookup(key)
	var items []json.RawMessage
	if v == nil || !isArray(v) || json.Unmarshal(v, &items) != nil {
		r.fail(key, "missing or not an array")
		return nil
	}
	return items
}

func (r *reader) optArray(key string) ([]json.RawMessage, bool) {
	if r.lookup(key) == nil {
		return nil, false
	}
	return r.array(key), true
}

func (r *reader) ints(key string) []int64 {
	items := r.array(key)
	out := make([]int64, 0, len(items))
	for _, item := range items {
		n, ok := asInt(item)
		if !ok {
			r.fail(key, "contains a non-integer")
			return nil
		}
		out = append(out, n)
	}
	return out
}

func (r *reader) floats(key string) []float64 {
	items := r.array(key)
	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, ok := asFloat(item)
		if !ok {
			r.fail(key, "contains a non-number")
			return nil
		}
		out = append(out, f)
	}
	return out
}

// pair reads a two-integer array such as a deck's newToday.
func (r *reader) pair(key string) types.DayCount {
	items := r.array(key)
	if items == nil {
		return types.DayCount{}
	}
	if len(items) != 2 {
		r.fail(key, fmt.Sprintf("has %d elements, want 2", len(items)))
		return types.DayCount{}
	}
	day, ok0 := asInt(items[0])
	count, ok1 := asInt(items[1])
	switch {
	case !ok0:
		r.fail(key, "element 0 is not an integer")
	case !ok1:
		r.fail(key, "element 1 is not an integer")
	}
	return types.DayCount{Day: day, Count: count}
}

// child opens the object under key, or returns nil when it is absent.
func (r *reader) child(key, structure string) *reader {
	v := r.lookup(key)
	if v == nil {
		return nil
	}
	c, err := newReader(structure, v)
	if err != nil {
		r.setErr(err)
		return nil
	}
	return c
}

func (r *reader) setErr(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// extra returns every key no getter asked for, compacted.
func (r *reader) extra() types.Extra {
	var out types.Extra
	for key, v := range r.raw {
		if r.used[key] {
			continue
		}
		if out == nil {
			out = make(types.Extra)
		}
		out[key] = compact(v)
	}
	return out
}

// keyedMember is one entry of a JSON object whose keys are decimal ids.
type keyedMember struct {
	key   int64
	value json.RawMessage
}

// readKeyed decodes a top-level object of id → entity in document order.
func readKeyed(data []byte, structure string) ([]keyedMember, error) {
	members, err := readMembers(data, structure)
	if err != nil {
		return nil, err
	}
	out := make([]keyedMember, 0, len(members))
	seen := make(map[int64]bool, len(members))
	for _, m := range members {
		key, err := strconv.ParseInt(m.key, 10, 64)
		if err != nil {
			return nil, &types.DocumentError{Structure: structure, Field: strconv.Quote(m.key), Reason: "key is not a decimal id"}
		}
		if seen[key] {
			return nil, &types.DocumentError{Structure: structure, Field: m.key, Reason: "duplicate key"}
		}
		seen[key] = true
		out = append(out, keyedMember{key: key, value: m.value})
	}
	return out, nil
}

type rawMember struct {
	key   string
	value json.RawMessage
}

// readMembers walks a JSON object token by token so key order is kept.
func readMembers(data []byte, structure string) ([]rawMember, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, syntaxError(structure, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &types.DocumentError{Structure: structure, Reason: "not an object"}
	}
	var members []rawMember
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(structure, err)
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, syntaxError(structure, err)
		}
		members = append(members, rawMember{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(structure, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &types.DocumentError{Structure: structure, Reason: "trailing data after object"}
	}
	return members, nil
}

// mustItems splits a JSON array already known to be well formed.
func mustItems(data []byte) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

func syntaxError(structure string, err error) error {
	return &types.DocumentError{Structure: structure, Reason: "invalid JSON: " + err.Error()}
}

func firstByte(v []byte) byte {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

func isNull(v []byte) bool   { return bytes.Equal(bytes.TrimSpace(v), []byte("null")) }
func isObject(v []byte) bool { return firstByte(v) == '{' }
func isArray(v []byte) bool  { return firstByte(v) == '[' }

func asNumber(v []byte) (json.Number, bool) {
	if v == nil {
		return "", false
	}
	b := firstByte(v)
	if b != '-' && (b < '0' || b > '9') {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return "", false
	}
	return n, true
}

// asInt accepts any JSON number without a fractional part.
func asInt(v []byte) (int64, bool) {
	n, ok := asNumber(v)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func asFloat(v []byte) (float64, bool) {
	n, ok := asNumber(v)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	return f, err == nil
}

func asString(v []byte) (string, bool) {
	if firstByte(v) != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

func asBool(v []byte) (bool, bool) {
	switch string(bytes.TrimSpace(v)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func compact(v json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return append(json.RawMessage(nil), v...)
	}
	return json.RawMessage(buf.Bytes())
}
