// Package classify labels notification text as credit or debit and infers
// a best-effort source label from a fixed platform/bank dictionary.
package classify

import (
	"regexp"
	"strings"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
)

// Cue lists are English and India-specific, fixed at compile time.
// Multi-word cues must precede their single-word substrings so the regexp
// alternation prefers the longer match.
var (
	creditCues = []string{"payment received", "credited", "received", "salary", "payout", "refund"}
	debitCues  = []string{"debited", "sent", "paid", "emi"}
)

var (
	creditRe = cueRegexp(creditCues)
	debitRe  = cueRegexp(debitCues)
)

func cueRegexp(cues []string) *regexp.Regexp {
	quoted := make([]string, len(cues))
	for i, c := range cues {
		quoted[i] = regexp.QuoteMeta(c)
	}
	// Word boundaries keep "emi" from firing inside "semi" or "reminder".
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Cue is one credit/debit keyword occurrence in a message body.
type Cue struct {
	Span      domain.Span
	Direction domain.Direction
}

// CueSpans returns every credit and debit cue occurrence in text, ordered
// by start offset. The amount extractor uses these to pick the candidate
// nearest a transaction keyword.
func CueSpans(text string) []Cue {
	var cues []Cue
	for _, m := range creditRe.FindAllStringIndex(text, -1) {
		cues = append(cues, Cue{Span: domain.Span{Start: m[0], End: m[1]}, Direction: domain.DirectionCredit})
	}
	for _, m := range debitRe.FindAllStringIndex(text, -1) {
		cues = append(cues, Cue{Span: domain.Span{Start: m[0], End: m[1]}, Direction: domain.DirectionDebit})
	}
	// Insertion sort; cue counts per message are tiny.
	for i := 1; i < len(cues); i++ {
		for j := i; j > 0 && cues[j].Span.Start < cues[j-1].Span.Start; j-- {
			cues[j], cues[j-1] = cues[j-1], cues[j]
		}
	}
	return cues
}

// Classify decides direction from keyword presence alone. When both credit
// and debit cues appear there is no amount span to arbitrate with, so the
// message is left unknown.
func Classify(text string) domain.Classification {
	return classify(text, nil)
}

// ClassifyNear decides direction the same way but resolves compound text
// ("debited for EMI... credited to merchant") by preferring the cue
// lexically closest to the extracted amount's span. Equidistant cues of
// opposite direction stay unknown.
func ClassifyNear(text string, amountSpan domain.Span) domain.Classification {
	return classify(text, &amountSpan)
}

func classify(text string, amountSpan *domain.Span) domain.Classification {
	cues := CueSpans(text)

	var hasCredit, hasDebit bool
	for _, c := range cues {
		switch c.Direction {
		case domain.DirectionCredit:
			hasCredit = true
		case domain.DirectionDebit:
			hasDebit = true
		}
	}

	cls := domain.Classification{
		Direction:   domain.DirectionUnknown,
		SourceLabel: SourceLabel(text),
	}

	switch {
	case hasCredit && !hasDebit:
		cls.Direction = domain.DirectionCredit
	case hasDebit && !hasCredit:
		cls.Direction = domain.DirectionDebit
	case hasCredit && hasDebit && amountSpan != nil:
		cls.Direction = nearestCue(cues, *amountSpan)
	}
	return cls
}

// nearestCue picks the direction of the cue closest to the amount span.
func nearestCue(cues []Cue, amountSpan domain.Span) domain.Direction {
	best := -1
	dir := domain.DirectionUnknown
	tied := false
	for _, c := range cues {
		d := c.Span.Mid() - amountSpan.Mid()
		if d < 0 {
			d = -d
		}
		switch {
		case best == -1 || d < best:
			best, dir, tied = d, c.Direction, false
		case d == best && c.Direction != dir:
			tied = true
		}
	}
	if tied {
		return domain.DirectionUnknown
	}
	return dir
}
