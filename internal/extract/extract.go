// Package extract pulls a candidate monetary value out of free-text
// financial notifications. Absence of an amount is a valid outcome, not an
// error: messages without one simply never become transactions.
package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/classify"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
)

// A currency marker may sit immediately before or after the number.
// Numbers may carry thousands separators (Western or Indian grouping) and
// up to two decimal places. Every comma must be followed by digits so a
// sentence comma right after the amount is never consumed into the token.
const (
	markerPat = `(?:₹|INR|Rs\.?)`
	numberPat = `([0-9]+(?:,[0-9]+)*(?:\.[0-9]{1,2})?)`
)

var (
	prefixRe = regexp.MustCompile(`(?i)` + markerPat + `\s*` + numberPat)
	suffixRe = regexp.MustCompile(`(?i)` + numberPat + `\s*` + markerPat)
)

type candidate struct {
	span  domain.Span // full match including the marker
	token string      // raw numeric token
}

// Extract returns the single confident monetary value in text, or ok=false
// when none is found. With multiple currency-marked numbers in one message
// (amount followed by available balance is the common shape), the match
// nearest a credit/debit cue wins, leftmost on ties.
func Extract(text string) (domain.ExtractedAmount, bool) {
	cands := findCandidates(text)

	best := domain.ExtractedAmount{}
	found := false
	bestDist := -1
	cues := classify.CueSpans(text)

	for _, c := range cands {
		value, ok := parseAmount(c.token)
		if !ok {
			// Malformed separators are treated as no amount for this
			// candidate, never as an error for the message.
			continue
		}
		d := cueDistance(cues, c.span)
		if !found || d < bestDist {
			best = domain.ExtractedAmount{
				Value:    value,
				Currency: domain.CurrencyINR,
				Span:     c.span,
			}
			bestDist = d
			found = true
		}
	}
	return best, found
}

// findCandidates collects prefix- and suffix-marked matches in lexical
// order, dropping suffix matches whose numeric token already belongs to a
// prefix match ("INR 200" must not also count as "200 INR"-style).
func findCandidates(text string) []candidate {
	var cands []candidate
	for _, m := range prefixRe.FindAllStringSubmatchIndex(text, -1) {
		cands = append(cands, candidate{
			span:  domain.Span{Start: m[0], End: m[1]},
			token: text[m[2]:m[3]],
		})
	}
	for _, m := range suffixRe.FindAllStringSubmatchIndex(text, -1) {
		overlaps := false
		for _, p := range cands {
			if m[2] < p.span.End && m[3] > p.span.Start {
				overlaps = true
				break
			}
		}
		if !overlaps {
			cands = append(cands, candidate{
				span:  domain.Span{Start: m[0], End: m[1]},
				token: text[m[2]:m[3]],
			})
		}
	}
	// Keep lexical order so equal distances resolve leftmost.
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && cands[j].span.Start < cands[j-1].span.Start; j-- {
			cands[j], cands[j-1] = cands[j-1], cands[j]
		}
	}
	return cands
}

// cueDistance is the distance from the candidate to the nearest
// credit/debit cue, or 0 when the message has no cues at all (every
// candidate ties and leftmost wins).
func cueDistance(cues []classify.Cue, span domain.Span) int {
	if len(cues) == 0 {
		return 0
	}
	best := -1
	for _, c := range cues {
		d := c.Span.Mid() - span.Mid()
		if d < 0 {
			d = -d
		}
		if best == -1 || d < best {
			best = d
		}
	}
	return best
}

// parseAmount normalizes a numeric token into a fixed-point decimal.
// Tokens with misplaced thousands separators fail to parse and report
// ok=false.
func parseAmount(token string) (decimal.Decimal, bool) {
	intPart := token
	if i := strings.IndexByte(token, '.'); i >= 0 {
		intPart = token[:i]
	}
	if !validGrouping(intPart) {
		return decimal.Decimal{}, false
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(token, ",", ""))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}

// validGrouping accepts ungrouped digits, Western grouping (1,234,567) and
// Indian grouping (12,34,567): the leading group is 1-3 digits, interior
// groups 2 or 3 digits, and the final group exactly 3.
func validGrouping(intPart string) bool {
	if !strings.Contains(intPart, ",") {
		return true
	}
	groups := strings.Split(intPart, ",")
	for i, g := range groups {
		switch {
		case i == 0:
			if len(g) < 1 || len(g) > 3 {
				return false
			}
		case i == len(groups)-1:
			if len(g) != 3 {
				return false
			}
		default:
			if len(g) != 2 && len(g) != 3 {
				return false
			}
		}
	}
	return true
}
