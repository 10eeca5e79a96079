package classify

import (
	"strings"
)

// sourceEntry maps a lowercase needle to its canonical display label.
// Ordered so longer, more specific needles win ("google pay" before "pay"
// would matter if "pay" were ever listed; it is not).
type sourceEntry struct {
	needle string
	label  string
}

// Gig platforms first, then wallets/UPI apps, then banks. Substring match
// against both body and sender ids (senders look like "AD-SWIGGY" or
// "VM-HDFCBK").
var sourceDictionary = []sourceEntry{
	{"swiggy", "Swiggy"},
	{"zomato", "Zomato"},
	{"uber", "Uber"},
	{"ola", "Ola"},
	{"rapido", "Rapido"},
	{"zepto", "Zepto"},
	{"blinkit", "Blinkit"},
	{"dunzo", "Dunzo"},
	{"urban company", "Urban Company"},
	{"amazon", "Amazon"},
	{"flipkart", "Flipkart"},
	{"google pay", "Google Pay"},
	{"gpay", "Google Pay"},
	{"phonepe", "PhonePe"},
	{"paytm", "Paytm"},
	{"hdfc", "HDFC Bank"},
	{"icici", "ICICI Bank"},
	{"sbi", "SBI"},
	{"axis", "Axis Bank"},
	{"kotak", "Kotak"},
}

// SourceLabel returns the canonical platform/bank label for the first
// dictionary needle found in any of the given texts, or "" when none
// match. Lookup is case-insensitive substring matching, best effort.
func SourceLabel(texts ...string) string {
	for _, e := range sourceDictionary {
		for _, t := range texts {
			if strings.Contains(strings.ToLower(t), e.needle) {
				return e.label
			}
		}
	}
	return ""
}
