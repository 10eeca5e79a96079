package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/aggregate"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/enrich"
)

// EnrichMode controls when the scanner consults the enrichment service.
type EnrichMode string

const (
	// EnrichOff never calls the service.
	EnrichOff EnrichMode = "off"
	// EnrichFallback calls the service only for messages the rules could
	// not parse.
	EnrichFallback EnrichMode = "fallback"
	// EnrichAlways calls the service for every message; enriched results
	// override rule-based ones for the same message.
	EnrichAlways EnrichMode = "always"
)

const (
	defaultWorkers       = 4
	defaultEnrichTimeout = 10 * time.Second
)

// Scanner runs batches of raw messages through build + optional
// enrichment + aggregation. It carries no cross-call state; every Scan is
// an independent, reproducible computation.
type Scanner struct {
	enricher enrich.Enricher
	mode     EnrichMode
	timeout  time.Duration
	workers  int
	log      zerolog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithEnricher enables enrichment in the given mode.
func WithEnricher(e enrich.Enricher, mode EnrichMode) Option {
	return func(s *Scanner) {
		s.enricher = e
		s.mode = mode
	}
}

// WithEnrichTimeout bounds each enrichment call.
func WithEnrichTimeout(d time.Duration) Option {
	return func(s *Scanner) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithWorkers sets the per-message parallelism for large batches.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Scanner) { s.log = log }
}

// NewScanner builds a Scanner. Without options it runs rule-based only.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		mode:    EnrichOff,
		timeout: defaultEnrichTimeout,
		workers: defaultWorkers,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.enricher == nil {
		s.mode = EnrichOff
	}
	return s
}

// Mode reports the configured enrichment mode.
func (s *Scanner) Mode() EnrichMode {
	return s.mode
}

// Result is what a scan hands to the consumer: the aggregated window plus
// the transactions that contributed, for display and audit.
type Result struct {
	Window       domain.Window        `json:"window"`
	Transactions []domain.Transaction `json:"transactions"`
	// MessageCount is the input size; the gap to TransactionCount is the
	// number of messages with no parseable amount.
	MessageCount int `json:"message_count"`
}

// Scan processes the batch with the configured enrichment mode.
func (s *Scanner) Scan(ctx context.Context, msgs []domain.RawMessage, windowStart, windowEnd time.Time) (*Result, error) {
	return s.ScanWithMode(ctx, msgs, windowStart, windowEnd, s.mode)
}

// ScanWithMode processes the batch and aggregates the survivors into
// [windowStart, windowEnd). Enrichment is selectable per batch; a mode
// above the configured one degrades to it (a scanner without an enricher
// always runs rule-based). Messages are independent, so per-message work
// fans out across workers; ordering does not matter because the final
// merge is commutative. Cancellation discards partial results: the caller
// never sees a half-merged total.
func (s *Scanner) ScanWithMode(ctx context.Context, msgs []domain.RawMessage, windowStart, windowEnd time.Time, mode EnrichMode) (*Result, error) {
	if s.enricher == nil {
		mode = EnrichOff
	}
	slots := make([]*domain.Transaction, len(msgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, msg := range msgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tx, ok := s.scanOne(gctx, msg, mode)
			if ok {
				slots[i] = &tx
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Scan: batch cancelled: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(msgs))
	for _, tx := range slots {
		if tx != nil {
			txs = append(txs, *tx)
		}
	}

	return &Result{
		Window:       aggregate.Aggregate(txs, windowStart, windowEnd),
		Transactions: txs,
		MessageCount: len(msgs),
	}, nil
}

// scanOne produces at most one transaction for a message. Enrichment
// failures and timeouts fall back to the rule-based result (or drop the
// message if the rules already produced nothing).
func (s *Scanner) scanOne(ctx context.Context, msg domain.RawMessage, mode EnrichMode) (domain.Transaction, bool) {
	ruleTx, ruleOK := Build(msg)

	wantEnrich := mode == EnrichAlways || (mode == EnrichFallback && !ruleOK)
	if !wantEnrich {
		return ruleTx, ruleOK
	}

	res, err := s.enrichOne(ctx, msg.Body)
	if err != nil {
		if !errors.Is(err, enrich.ErrUnparsed) && !errors.Is(err, context.Canceled) {
			s.log.Warn().Err(err).Str("message_id", msg.ID).Msg("enrichment failed, using rule-based result")
		}
		return ruleTx, ruleOK
	}

	// Enriched overrides rule-based for the same message.
	return fromEnrichment(msg, res), true
}

func (s *Scanner) enrichOne(ctx context.Context, body string) (*enrich.Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.enricher.Enrich(callCtx, body)
}
