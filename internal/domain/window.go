package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnspecifiedSource is the reserved BySource key for transactions whose
// classifier found no platform or bank label.
const UnspecifiedSource = "unspecified"

// Window is the summarized result for one reporting period. It is a pure
// function of its input transaction list and bounds, recomputed from
// scratch on every call, never incrementally updated.
type Window struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit"`

	// BySource sums extracted amounts per source label, all directions
	// included, for audit display.
	BySource map[string]decimal.Decimal `json:"by_source"`

	TransactionCount int `json:"transaction_count"`
}
