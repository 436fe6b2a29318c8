package sqlite

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/acp/pkg/types"
)

// Column lists, in the order both the scanners and the argument builders
// below use.
var (
	colColumns    = []string{"id", "crt", "mod", "scm", "ver", "dty", "usn", "ls", "conf", "models", "decks", "dconf", "tags"}
	noteColumns   = []string{"id", "guid", "mid", "mod", "usn", "tags", "flds", "sfld", "csum", "flags", "data"}
	cardColumns   = []string{"id", "nid", "did", "ord", "mod", "usn", "type", "queue", "due", "ivl", "factor", "reps", "lapses", "left", "odue", "odid", "flags", "data"}
	revlogColumns = []string{"id", "cid", "usn", "ease", "ivl", "lastIvl", "factor", "time", "type"}
	graveColumns  = []string{"usn", "oid", "type"}
)

const tagSeparator = " "

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func splitTags(s string) []string     { return strings.Split(s, tagSeparator) }
func joinTags(tags []string) string   { return strings.Join(tags, tagSeparator) }
func splitFields(s string) []string   { return strings.Split(s, types.FieldSeparator) }
func joinFields(flds []string) string { return strings.Join(flds, types.FieldSeparator) }

func scanNote(row rowScanner) (types.Note, error) {
	var (
		n          types.Note
		tags, flds string
	)
	err := row.Scan(&n.ID, &n.GUID, &n.ModelID, &n.Modified, &n.USN,
		&tags, &flds, &n.SortField, &n.Checksum, &n.Flags, &n.Data)
	if err != nil {
		return types.Note{}, err
	}
	n.Tags = splitTags(tags)
	n.Fields = splitFields(flds)
	return n, nil
}

func noteArgs(n types.Note) []any {
	return []any{n.ID, n.GUID, n.ModelID, n.Modified, n.USN,
		joinTags(n.Tags), joinFields(n.Fields), n.SortField, n.Checksum, n.Flags, n.Data}
}

func scanCard(row rowScanner) (types.Card, error) {
	var (
		c           types.Card
		ctype, queue int64
	)
	err := row.Scan(&c.ID, &c.NoteID, &c.DeckID, &c.Ordinal, &c.Modified, &c.USN,
		&ctype, &queue, &c.Due, &c.Interval, &c.Factor, &c.Reps, &c.Lapses,
		&c.Left, &c.OriginalDue, &c.OriginalDeckID, &c.Flags, &c.Data)
	if err != nil {
		return types.Card{}, err
	}
	c.Type = types.CardTypeFromCode(ctype)
	c.Queue = types.CardQueueFromCode(queue)
	return c, nil
}

func cardArgs(c types.Card) []any {
	return []any{c.ID, c.NoteID, c.DeckID, c.Ordinal, c.Modified, c.USN,
		c.Type.Code(), c.Queue.Code(), c.Due, c.Interval, c.Factor, c.Reps, c.Lapses,
		c.Left, c.OriginalDue, c.OriginalDeckID, c.Flags, c.Data}
}

func scanReviewLog(row rowScanner) (types.ReviewLog, error) {
	var (
		r           types.ReviewLog
		ease, ctype int64
	)
	err := row.Scan(&r.ID, &r.CardID, &r.USN, &ease, &r.Interval, &r.LastInterval,
		&r.Factor, &r.Time, &ctype)
	if err != nil {
		return types.ReviewLog{}, err
	}
	r.Type = types.CardTypeFromCode(ctype)
	r.Answer = types.AnswerFromCode(ease, r.WasReview())
	return r, nil
}

// reviewLogArgs fails when the answer has no code in the entry's phase.
func reviewLogArgs(r types.ReviewLog) ([]any, error) {
	ease, err := r.Answer.Code(r.WasReview())
	if err != nil {
		return nil, fmt.Errorf("revlog %d: %w", r.ID, err)
	}
	return []any{r.ID, r.CardID, r.USN, ease, r.Interval, r.LastInterval,
		r.Factor, r.Time, r.Type.Code()}, nil
}

func scanGrave(row rowScanner) (types.Grave, error) {
	var (
		g     types.Grave
		gtype int64
	)
	if err := row.Scan(&g.USN, &g.ObjectID, &gtype); err != nil {
		return types.Grave{}, err
	}
	g.Type = types.GraveTypeFromCode(gtype)
	return g, nil
}

func graveArgs(g types.Grave) []any {
	return []any{g.USN, g.ObjectID, g.Type.Code()}
}

// selectColumns builds a SELECT that maps NULL text and integer columns to
// their zero values, so loosely written databases still scan.
func selectColumns(table string, columns []string) string {
	exprs := make([]string, len(columns))
	for i, c := range columns {
		switch c {
		case "data", "tags", "guid", "flds":
			exprs[i] = fmt.Sprintf("coalesce(%s, '')", c)
		case "flags", "dty":
			exprs[i] = fmt.Sprintf("coalesce(%s, 0)", c)
		default:
			exprs[i] = c
		}
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), table)
}
