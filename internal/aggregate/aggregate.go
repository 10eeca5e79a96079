// Package aggregate computes reporting windows from transaction lists.
// Aggregation is a pure function of its inputs: totals are recomputed from
// the full list on every call, never kept as running state, so re-scanning
// the same inbox can never double count.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
)

// Aggregate filters transactions to the half-open window [start, end) and
// sums credits and debits separately. Transactions with unknown direction
// count toward TransactionCount and BySource but never toward the signed
// totals. An empty input or a zero-width window yields a zero-valued
// window, not an error.
func Aggregate(txs []domain.Transaction, start, end time.Time) domain.Window {
	w := domain.Window{
		PeriodStart: start,
		PeriodEnd:   end,
		TotalCredit: decimal.Zero,
		TotalDebit:  decimal.Zero,
		BySource:    make(map[string]decimal.Decimal),
	}

	for _, tx := range txs {
		if tx.Timestamp.Before(start) || !tx.Timestamp.Before(end) {
			continue
		}

		switch tx.Direction {
		case domain.DirectionCredit:
			w.TotalCredit = w.TotalCredit.Add(tx.Amount.Value)
		case domain.DirectionDebit:
			w.TotalDebit = w.TotalDebit.Add(tx.Amount.Value)
		}

		label := tx.SourceLabel
		if label == "" {
			label = domain.UnspecifiedSource
		}
		w.BySource[label] = sourceSum(w.BySource, label).Add(tx.Amount.Value)

		w.TransactionCount++
	}
	return w
}

// Merge combines two windows computed over disjoint transaction subsets.
// It is commutative and associative, so partial sums from parallel workers
// may be merged in any order and match a single-threaded run. The merged
// bounds cover both inputs.
func Merge(a, b domain.Window) domain.Window {
	m := domain.Window{
		PeriodStart:      earlier(a.PeriodStart, b.PeriodStart),
		PeriodEnd:        later(a.PeriodEnd, b.PeriodEnd),
		TotalCredit:      a.TotalCredit.Add(b.TotalCredit),
		TotalDebit:       a.TotalDebit.Add(b.TotalDebit),
		BySource:         make(map[string]decimal.Decimal, len(a.BySource)+len(b.BySource)),
		TransactionCount: a.TransactionCount + b.TransactionCount,
	}
	for label, sum := range a.BySource {
		m.BySource[label] = sum
	}
	for label, sum := range b.BySource {
		m.BySource[label] = sourceSum(m.BySource, label).Add(sum)
	}
	return m
}

func sourceSum(m map[string]decimal.Decimal, label string) decimal.Decimal {
	if v, ok := m[label]; ok {
		return v
	}
	return decimal.Zero
}

func earlier(a, b time.Time) time.Time {
	if a.IsZero() {
		return b
	}
	if b.IsZero() || a.Before(b) {
		return a
	}
	return b
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
