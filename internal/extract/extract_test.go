package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // expected value, "" means no amount
	}{
		{
			name: "salary credit with INR prefix",
			text: "A/c XX1234 Credited with INR 25000.00 on 12-MAR-24. Info: SALARY.",
			want: "25000",
		},
		{
			name: "payment received",
			text: "Payment of INR 540.00 received for Order #8842.",
			want: "540",
		},
		{
			name: "upi debit",
			text: "Debited INR 200.00 for UPI Ref 8492.",
			want: "200",
		},
		{
			name: "otp message has no amount",
			text: "Your OTP is 4521, do not share.",
			want: "",
		},
		{
			name: "rupee symbol",
			text: "₹1,250 credited to your wallet",
			want: "1250",
		},
		{
			name: "rs dot marker",
			text: "Rs.99.50 paid to merchant",
			want: "99.5",
		},
		{
			name: "marker after number",
			text: "You received 500 INR from Ramesh",
			want: "500",
		},
		{
			name: "indian grouping",
			text: "Credited Rs. 1,23,456.78 to your account",
			want: "123456.78",
		},
		{
			name: "western grouping",
			text: "INR 1,234,567 credited",
			want: "1234567",
		},
		{
			name: "malformed separators drop the candidate",
			text: "Rs 1,23.45 debited",
			want: "",
		},
		{
			name: "sentence comma after the amount",
			text: "Rs.500, has been debited from your A/c XX99",
			want: "500",
		},
		{
			name: "sentence comma after grouped amount",
			text: "INR 1,250, has been credited to your account",
			want: "1250",
		},
		{
			name: "bare number without marker",
			text: "Balance is 9000 as of today",
			want: "",
		},
		{
			name: "empty string",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := Extract(tt.text)
			if tt.want == "" {
				assert.False(t, ok, "expected no amount")
				return
			}
			require.True(t, ok, "expected an amount")
			assert.Equal(t, tt.want, amount.Value.String())
			assert.Equal(t, "INR", string(amount.Currency))
		})
	}
}

func TestExtractPrefersCandidateNearCue(t *testing.T) {
	// The transaction amount precedes the balance figure in typical bank
	// SMS; the candidate nearest the debit cue must win.
	text := "Rs.500.00 debited from A/c XX99. Avl Bal Rs.10,250.50"

	amount, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "500", amount.Value.String())
}

func TestExtractPrefersCueOverPosition(t *testing.T) {
	// Balance stated first: the later amount still wins because it sits
	// next to the cue.
	text := "Avl Bal Rs.10,000. INR 300 debited via UPI"

	amount, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "300", amount.Value.String())
}

func TestExtractTieBreaksLeftmost(t *testing.T) {
	// No cues at all: every candidate ties and the leftmost wins.
	text := "INR 100 and INR 900 mentioned"

	amount, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "100", amount.Value.String())
}

func TestExtractSpanCoversMatch(t *testing.T) {
	text := "Debited INR 200.00 for UPI Ref 8492."

	amount, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "INR 200.00", text[amount.Span.Start:amount.Span.End])
}

func TestValidGrouping(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"25000", true},
		{"1,234", true},
		{"1,234,567", true},
		{"1,23,456", true},
		{"12,34,567", true},
		{"1,23", false},
		{"1,2345", false},
		{"1234,567", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, validGrouping(tt.in))
		})
	}
}
