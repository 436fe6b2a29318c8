package types

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrFieldCount is returned when a note's values do not match its model.
var ErrFieldCount = fmt.Errorf("%w: field count does not match model", ErrMalformedDocument)

// guidAlphabet is the base91 alphabet used for note GUIDs.
const guidAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&()*+,-./:;<=>?@[]^_`{|}~"

var (
	htmlTagRe  = regexp.MustCompile(`(?s)<[^>]*>`)
	htmlImgRe  = regexp.MustCompile(`(?i)<img[^>]*src=["']?([^"'>]+)["']?[^>]*>`)
	htmlSkipRe = regexp.MustCompile(`(?is)<!--.*?-->|<style.*?>.*?</style>|<script.*?>.*?</script>`)
)

// NewGUID returns a fresh note GUID: 64 random bits taken from a UUID v4,
// written in base91.
func NewGUID() string {
	id := uuid.New()
	n := binary.BigEndian.Uint64(id[:8])
	if n == 0 {
		return string(guidAlphabet[0])
	}
	base := uint64(len(guidAlphabet))
	var buf []byte
	for n > 0 {
		buf = append(buf, guidAlphabet[n%base])
		n /= base
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// StripHTML removes markup from a field value, keeping image file names.
func StripHTML(s string) string {
	s = htmlSkipRe.ReplaceAllString(s, "")
	s = htmlImgRe.ReplaceAllString(s, " $1 ")
	s = htmlTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// FieldChecksum returns the duplicate-detection checksum stored in
// notes.csum: the first 32 bits of the SHA-1 of the stripped field.
func FieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(StripHTML(field)))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return v
}

// AddNote appends a note of the model stored under modelKey and returns it.
// The note gets a fresh id and GUID, its sort field and checksum are derived
// from the values, and its USN is -1 (modified locally). No cards are
// generated.
func (c *Collection) AddNote(modelKey int64, fields, tags []string) (Note, error) {
	m, ok := c.Models.Get(modelKey)
	if !ok {
		return Note{}, fmt.Errorf("%w: model %d", ErrNotFound, modelKey)
	}
	if len(fields) != len(m.Fields) || len(fields) == 0 {
		return Note{}, fmt.Errorf("%w: model %q has %d fields, got %d", ErrFieldCount, m.Name, len(m.Fields), len(fields))
	}

	now := time.Now()
	id := now.UnixMilli()
	for _, n := range c.Notes {
		if n.ID >= id {
			id = n.ID + 1
		}
	}

	sortIdx := m.SortField
	if sortIdx < 0 || int(sortIdx) >= len(fields) {
		sortIdx = 0
	}

	note := Note{
		ID:        id,
		GUID:      NewGUID(),
		ModelID:   m.ID,
		Modified:  now.Unix(),
		USN:       -1,
		Tags:      append([]string(nil), tags...),
		Fields:    append([]string(nil), fields...),
		SortField: StripHTML(fields[sortIdx]),
		Checksum:  FieldChecksum(fields[0]),
	}
	if len(note.Tags) == 0 {
		note.Tags = []string{""}
	}
	c.Notes = append(c.Notes, note)
	return note, nil
}
