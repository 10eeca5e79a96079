package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
)

func TestClassifyDirection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Direction
	}{
		{"credited", "A/c XX1234 Credited with INR 25000.00", domain.DirectionCredit},
		{"received", "Payment of INR 540.00 received for Order #8842.", domain.DirectionCredit},
		{"salary", "SALARY for March processed", domain.DirectionCredit},
		{"payout", "Weekly payout of Rs.3200 initiated", domain.DirectionCredit},
		{"refund", "Refund of Rs.120 initiated to your account", domain.DirectionCredit},
		{"debited", "Debited INR 200.00 for UPI Ref 8492.", domain.DirectionDebit},
		{"sent", "You sent Rs.50 to Suresh", domain.DirectionDebit},
		{"paid", "Rs.99 paid at the store", domain.DirectionDebit},
		{"emi", "EMI of Rs.4500 due on 05-APR", domain.DirectionDebit},
		{"no cues", "Your OTP is 4521, do not share.", domain.DirectionUnknown},
		{"emi needs word boundary", "Semi-annual statement is ready", domain.DirectionUnknown},
		{"sent needs word boundary", "You were absent from the meeting", domain.DirectionUnknown},
		{"both cues without span", "Rs.2000 debited and credited back", domain.DirectionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			assert.Equal(t, tt.want, got.Direction)
		})
	}
}

func TestClassifyNearResolvesCompoundText(t *testing.T) {
	// Both cue kinds present: the cue nearest the amount span decides.
	text := "INR 2000 debited from your A/c and credited to merchant XYZ"
	amountSpan := domain.Span{Start: 0, End: 8} // "INR 2000"

	got := ClassifyNear(text, amountSpan)
	assert.Equal(t, domain.DirectionDebit, got.Direction)
}

func TestClassifyNearSingleCueUnchanged(t *testing.T) {
	text := "Debited INR 200.00 for UPI Ref 8492."

	got := ClassifyNear(text, domain.Span{Start: 8, End: 18})
	assert.Equal(t, domain.DirectionDebit, got.Direction)
}

func TestCueSpansOrdered(t *testing.T) {
	text := "credited then debited then received"

	cues := CueSpans(text)
	assert.Len(t, cues, 3)
	for i := 1; i < len(cues); i++ {
		assert.LessOrEqual(t, cues[i-1].Span.Start, cues[i].Span.Start)
	}
	assert.Equal(t, domain.DirectionCredit, cues[0].Direction)
	assert.Equal(t, domain.DirectionDebit, cues[1].Direction)
}

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  string
	}{
		{"body mention", []string{"Payment received from Swiggy for order"}, "Swiggy"},
		{"sender id", []string{"AD-SWIGGY"}, "Swiggy"},
		{"case insensitive", []string{"payout from ZOMATO"}, "Zomato"},
		{"bank sender", []string{"VM-HDFCBK"}, "HDFC Bank"},
		{"gpay alias", []string{"Received via GPay"}, "Google Pay"},
		{"body and sender", []string{"Payment received", "AX-PAYTM"}, "Paytm"},
		{"no match", []string{"A/c XX1234 Credited with INR 25000.00. Info: SALARY."}, ""},
		{"empty", []string{""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceLabel(tt.texts...))
		})
	}
}
