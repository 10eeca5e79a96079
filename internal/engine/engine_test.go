package engine_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/engine"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/enrich"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/logger"
)

var (
	windowStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
)

func msg(id, body, sender string, ts time.Time) domain.RawMessage {
	return domain.RawMessage{
		ID:        id,
		Body:      body,
		Sender:    sender,
		Timestamp: ts,
		Origin:    domain.OriginInbox,
	}
}

func marchBatch() []domain.RawMessage {
	day := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
	return []domain.RawMessage{
		msg("m1", "A/c XX1234 Credited with INR 25000.00 on 12-MAR-24. Info: SALARY.", "AD-BNKSMS", day),
		msg("m2", "Payment of INR 540.00 received for Order #8842.", "AD-SWIGGY", day.Add(time.Hour)),
		msg("m3", "Debited INR 200.00 for UPI Ref 8492.", "AD-UPIBNK", day.Add(2*time.Hour)),
		msg("m4", "Your OTP is 4521, do not share.", "AD-BNKSMS", day.Add(3*time.Hour)),
	}
}

// stubEnricher lets each test script the enrichment service.
type stubEnricher struct {
	fn func(ctx context.Context, body string) (*enrich.Result, error)
}

func (s *stubEnricher) Enrich(ctx context.Context, body string) (*enrich.Result, error) {
	return s.fn(ctx, body)
}

func TestBuildSalaryCredit(t *testing.T) {
	tx, ok := engine.Build(marchBatch()[0])
	require.True(t, ok)

	assert.True(t, tx.Amount.Value.Equal(decimal.RequireFromString("25000.00")))
	assert.Equal(t, domain.DirectionCredit, tx.Direction)
	assert.Empty(t, tx.SourceLabel)
	assert.Equal(t, domain.ConfidenceRule, tx.Confidence)
	assert.Equal(t, "m1", tx.MessageID)
	assert.NotEmpty(t, tx.ID)
}

func TestBuildSourceFromSender(t *testing.T) {
	tx, ok := engine.Build(marchBatch()[1])
	require.True(t, ok)

	assert.True(t, tx.Amount.Value.Equal(decimal.RequireFromString("540.00")))
	assert.Equal(t, domain.DirectionCredit, tx.Direction)
	assert.Equal(t, "Swiggy", tx.SourceLabel)
}

func TestBuildDebit(t *testing.T) {
	tx, ok := engine.Build(marchBatch()[2])
	require.True(t, ok)

	assert.True(t, tx.Amount.Value.Equal(decimal.RequireFromString("200.00")))
	assert.Equal(t, domain.DirectionDebit, tx.Direction)
}

func TestBuildNoAmountProducesNoTransaction(t *testing.T) {
	_, ok := engine.Build(marchBatch()[3])
	assert.False(t, ok)
}

func TestScanMarchWindow(t *testing.T) {
	scanner := engine.NewScanner()

	result, err := scanner.Scan(context.Background(), marchBatch(), windowStart, windowEnd)
	require.NoError(t, err)

	w := result.Window
	assert.True(t, w.TotalCredit.Equal(decimal.RequireFromString("25540.00")), "credit = %s", w.TotalCredit)
	assert.True(t, w.TotalDebit.Equal(decimal.RequireFromString("200.00")), "debit = %s", w.TotalDebit)
	assert.Equal(t, 3, w.TransactionCount)
	assert.Equal(t, 4, result.MessageCount)
	assert.Len(t, result.Transactions, 3)
}

func TestScanParallelMatchesSequential(t *testing.T) {
	var msgs []domain.RawMessage
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		body := fmt.Sprintf("Credited with INR %d.00 via UPI", 100+i)
		if i%3 == 0 {
			body = fmt.Sprintf("Debited INR %d.00 for bill", 10+i)
		}
		if i%7 == 0 {
			body = "Reminder: update your app"
		}
		msgs = append(msgs, msg(fmt.Sprintf("m%d", i), body, "AD-BNKSMS", day.Add(time.Duration(i)*time.Hour)))
	}

	sequential := engine.NewScanner(engine.WithWorkers(1))
	parallel := engine.NewScanner(engine.WithWorkers(8))

	a, err := sequential.Scan(context.Background(), msgs, windowStart, windowEnd)
	require.NoError(t, err)
	b, err := parallel.Scan(context.Background(), msgs, windowStart, windowEnd)
	require.NoError(t, err)

	assert.True(t, a.Window.TotalCredit.Equal(b.Window.TotalCredit))
	assert.True(t, a.Window.TotalDebit.Equal(b.Window.TotalDebit))
	assert.Equal(t, a.Window.TransactionCount, b.Window.TransactionCount)
	assert.Equal(t, len(a.Transactions), len(b.Transactions))
}

func TestScanEnrichmentFallbackRecoversUnparsed(t *testing.T) {
	// "Salary credited" phrased without a currency marker: rules find no
	// amount, the service does.
	day := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	msgs := []domain.RawMessage{
		msg("m1", "Aapke account mein 1500 rupaye aaye from Zomato payout", "ZOMATO", day),
	}

	enricher := &stubEnricher{fn: func(ctx context.Context, body string) (*enrich.Result, error) {
		return &enrich.Result{
			Amount:      decimal.NewFromInt(1500),
			Currency:    domain.CurrencyINR,
			Direction:   domain.DirectionCredit,
			SourceLabel: "Zomato",
		}, nil
	}}

	scanner := engine.NewScanner(engine.WithEnricher(enricher, engine.EnrichFallback))

	result, err := scanner.Scan(context.Background(), msgs, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)

	tx := result.Transactions[0]
	assert.Equal(t, domain.ConfidenceEnriched, tx.Confidence)
	assert.Equal(t, "Zomato", tx.SourceLabel)
	assert.True(t, result.Window.TotalCredit.Equal(decimal.NewFromInt(1500)))
}

func TestScanEnrichmentNotCalledWhenRulesSucceed(t *testing.T) {
	called := false
	enricher := &stubEnricher{fn: func(ctx context.Context, body string) (*enrich.Result, error) {
		called = true
		return nil, enrich.ErrUnparsed
	}}

	scanner := engine.NewScanner(engine.WithEnricher(enricher, engine.EnrichFallback))

	result, err := scanner.Scan(context.Background(), marchBatch()[:3], windowStart, windowEnd)
	require.NoError(t, err)
	assert.False(t, called, "fallback mode must not enrich parseable messages")
	assert.Len(t, result.Transactions, 3)
}

func TestScanEnrichedOverridesRuleBased(t *testing.T) {
	enricher := &stubEnricher{fn: func(ctx context.Context, body string) (*enrich.Result, error) {
		return &enrich.Result{
			Amount:    decimal.NewFromInt(999),
			Currency:  domain.CurrencyINR,
			Direction: domain.DirectionCredit,
		}, nil
	}}

	scanner := engine.NewScanner(engine.WithEnricher(enricher, engine.EnrichAlways))

	result, err := scanner.Scan(context.Background(), marchBatch()[:1], windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, domain.ConfidenceEnriched, result.Transactions[0].Confidence)
	assert.True(t, result.Transactions[0].Amount.Value.Equal(decimal.NewFromInt(999)))
}

func TestScanEnrichmentFailureFallsBack(t *testing.T) {
	enricher := &stubEnricher{fn: func(ctx context.Context, body string) (*enrich.Result, error) {
		return nil, fmt.Errorf("service unavailable")
	}}

	scanner := engine.NewScanner(engine.WithEnricher(enricher, engine.EnrichAlways))

	result, err := scanner.Scan(context.Background(), marchBatch(), windowStart, windowEnd)
	require.NoError(t, err, "enrichment failure must never fail the batch")

	// All rule-based results survive; the OTP message stays dropped.
	assert.Len(t, result.Transactions, 3)
	for _, tx := range result.Transactions {
		assert.Equal(t, domain.ConfidenceRule, tx.Confidence)
	}
}

func TestScanEnrichmentFailureIsLogged(t *testing.T) {
	buf := &bytes.Buffer{}

	enricher := &stubEnricher{fn: func(ctx context.Context, body string) (*enrich.Result, error) {
		return nil, fmt.Errorf("service unavailable")
	}}

	scanner := engine.NewScanner(
		engine.WithEnricher(enricher, engine.EnrichAlways),
		engine.WithLogger(logger.NewWithWriter(buf)),
		engine.WithWorkers(1),
	)

	_, err := scanner.Scan(context.Background(), marchBatch()[:1], windowStart, windowEnd)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "enrichment failed", "failures must reach the attached logger")
}

func TestScanEnrichmentTimeoutFallsBack(t *testing.T) {
	enricher := &stubEnricher{fn: func(ctx context.Context, body string) (*enrich.Result, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return &enrich.Result{Amount: decimal.NewFromInt(1), Direction: domain.DirectionCredit}, nil
		}
	}}

	scanner := engine.NewScanner(
		engine.WithEnricher(enricher, engine.EnrichFallback),
		engine.WithEnrichTimeout(20*time.Millisecond),
	)

	start := time.Now()
	result, err := scanner.Scan(context.Background(), marchBatch(), windowStart, windowEnd)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "timeout must bound the enrichment call")

	// The OTP message had no rule-based result to fall back to: dropped.
	assert.Len(t, result.Transactions, 3)
}

func TestScanCancellationDiscardsPartials(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := engine.NewScanner()

	result, err := scanner.Scan(ctx, marchBatch(), windowStart, windowEnd)
	assert.Error(t, err)
	assert.Nil(t, result, "cancelled scans must not expose partial results")
}

func TestScanEmptyBatch(t *testing.T) {
	scanner := engine.NewScanner()

	result, err := scanner.Scan(context.Background(), nil, windowStart, windowEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Window.TransactionCount)
	assert.True(t, result.Window.TotalCredit.Equal(decimal.Zero))
}
