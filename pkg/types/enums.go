package types

// Integer-coded enumerations of the legacy collection format. Decoding is
// permissive: a code with no variant decodes to the type's default (its
// first variant). Only ReviewAnswer can fail, and only on encode.

// CardType is the learning phase of a card.
type CardType int

const (
	CardTypeNew CardType = iota
	CardTypeLearning
	CardTypeReview
	CardTypeRelearning
)

var cardTypeNames = [...]string{"new", "learning", "review", "relearning"}

// CardTypeFromCode decodes the cards.type column.
func CardTypeFromCode(code int64) CardType {
	switch code {
	case 1:
		return CardTypeLearning
	case 2:
		return CardTypeReview
	case 3:
		return CardTypeRelearning
	default:
		return CardTypeNew
	}
}

// Code returns the stored integer for t.
func (t CardType) Code() int64 {
	switch t {
	case CardTypeLearning:
		return 1
	case CardTypeReview:
		return 2
	case CardTypeRelearning:
		return 3
	default:
		return 0
	}
}

func (t CardType) String() string { return enumName(cardTypeNames[:], int(t)) }

// CardQueue is the scheduling queue a card sits in.
type CardQueue int

const (
	QueueNew CardQueue = iota
	QueueUserBuried
	QueueBuried
	QueueSuspended
	QueueLearning
	QueueReview
	QueueInLearning
	QueuePreview
)

var cardQueueNames = [...]string{"new", "user-buried", "buried", "suspended", "learning", "review", "in-learning", "preview"}

var queueCodes = map[CardQueue]int64{
	QueueUserBuried: -3,
	QueueBuried:     -2,
	QueueSuspended:  -1,
	QueueNew:        0,
	QueueLearning:   1,
	QueueReview:     2,
	QueueInLearning: 3,
	QueuePreview:    4,
}

// CardQueueFromCode decodes the cards.queue column.
func CardQueueFromCode(code int64) CardQueue {
	for q, c := range queueCodes {
		if c == code {
			return q
		}
	}
	return QueueNew
}

// Code returns the stored integer for q.
func (q CardQueue) Code() int64 { return queueCodes[q] }

func (q CardQueue) String() string { return enumName(cardQueueNames[:], int(q)) }

// ModelType distinguishes standard note types from cloze note types.
type ModelType int

const (
	ModelStandard ModelType = iota
	ModelCloze
)

// ModelTypeFromCode decodes the model "type" key.
func ModelTypeFromCode(code int64) ModelType {
	if code == 1 {
		return ModelCloze
	}
	return ModelStandard
}

// Code returns the stored integer for t.
func (t ModelType) Code() int64 {
	if t == ModelCloze {
		return 1
	}
	return 0
}

func (t ModelType) String() string { return enumName([]string{"standard", "cloze"}, int(t)) }

// LeechAction is what happens to a card once it becomes a leech.
type LeechAction int

const (
	LeechSuspend LeechAction = iota
	LeechMark
)

// LeechActionFromCode decodes the lapse "leechAction" key.
func LeechActionFromCode(code int64) LeechAction {
	if code == 1 {
		return LeechMark
	}
	return LeechSuspend
}

// Code returns the stored integer for a.
func (a LeechAction) Code() int64 {
	if a == LeechMark {
		return 1
	}
	return 0
}

func (a LeechAction) String() string { return enumName([]string{"suspend", "mark"}, int(a)) }

// NewOrder is the order new cards are introduced in.
type NewOrder int

const (
	NewOrderRandom NewOrder = iota
	NewOrderDue
)

// NewOrderFromCode decodes the new-card "order" key.
func NewOrderFromCode(code int64) NewOrder {
	if code == 1 {
		return NewOrderDue
	}
	return NewOrderRandom
}

// Code returns the stored integer for o.
func (o NewOrder) Code() int64 {
	if o == NewOrderDue {
		return 1
	}
	return 0
}

func (o NewOrder) String() string { return enumName([]string{"random", "due"}, int(o)) }

// NewSpread controls how new cards are mixed with reviews.
type NewSpread int

const (
	SpreadDistribute NewSpread = iota
	SpreadLast
	SpreadFirst
)

// NewSpreadFromCode decodes the sync config "newSpread" key.
func NewSpreadFromCode(code int64) NewSpread {
	switch code {
	case 1:
		return SpreadLast
	case 2:
		return SpreadFirst
	default:
		return SpreadDistribute
	}
}

// Code returns the stored integer for s.
func (s NewSpread) Code() int64 {
	switch s {
	case SpreadLast:
		return 1
	case SpreadFirst:
		return 2
	default:
		return 0
	}
}

func (s NewSpread) String() string {
	return enumName([]string{"distribute", "last", "first"}, int(s))
}

// GraveType says what kind of object a grave marks as deleted.
type GraveType int

const (
	GraveCard GraveType = iota
	GraveNote
	GraveDeck
)

// GraveTypeFromCode decodes the graves.type column.
func GraveTypeFromCode(code int64) GraveType {
	switch code {
	case 1:
		return GraveNote
	case 2:
		return GraveDeck
	default:
		return GraveCard
	}
}

// Code returns the stored integer for g.
func (g GraveType) Code() int64 {
	switch g {
	case GraveNote:
		return 1
	case GraveDeck:
		return 2
	default:
		return 0
	}
}

func (g GraveType) String() string { return enumName([]string{"card", "note", "deck"}, int(g)) }

// ReviewAnswer is the button pressed during a review. Its stored code
// depends on whether the card was in the review phase: review cards have
// four buttons (1..4), learning cards have three (1..3) and no Hard.
type ReviewAnswer int

const (
	AnswerWrong ReviewAnswer = iota
	AnswerHard
	AnswerOK
	AnswerEasy
)

// AnswerFromCode decodes the revlog.ease column. Unknown codes decode to
// AnswerWrong.
func AnswerFromCode(code int64, wasReview bool) ReviewAnswer {
	if wasReview {
		switch code {
		case 2:
			return AnswerHard
		case 3:
			return AnswerOK
		case 4:
			return AnswerEasy
		default:
			return AnswerWrong
		}
	}
	switch code {
	case 2:
		return AnswerOK
	case 3:
		return AnswerEasy
	default:
		return AnswerWrong
	}
}

// Code encodes a for the given phase. Hard has no code outside the review
// phase and yields ErrInvalidAnswer.
func (a ReviewAnswer) Code(wasReview bool) (int64, error) {
	if wasReview {
		switch a {
		case AnswerHard:
			return 2, nil
		case AnswerOK:
			return 3, nil
		case AnswerEasy:
			return 4, nil
		default:
			return 1, nil
		}
	}
	switch a {
	case AnswerHard:
		return 0, ErrInvalidAnswer
	case AnswerOK:
		return 2, nil
	case AnswerEasy:
		return 3, nil
	default:
		return 1, nil
	}
}

func (a ReviewAnswer) String() string {
	return enumName([]string{"wrong", "hard", "ok", "easy"}, int(a))
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}
