// Command scan runs the extraction pipeline over pasted notifications and
// prints the monthly summary. Input is blank-line separated message text
// from a file or stdin, the CLI version of the app's bulk paste-box.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/config"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/engine"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/enrich"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/ingest"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/logger"
)

func main() {
	var (
		file   = flag.String("file", "", "file with pasted messages (default: stdin)")
		month  = flag.String("month", time.Now().Format("2006-01"), "reporting month, YYYY-MM")
		useEnr = flag.Bool("enrich", false, "send unparsed messages to the enrichment service")
	)
	flag.Parse()

	log := logger.New("scan-cli")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	start, err := time.Parse("2006-01", *month)
	if err != nil {
		log.Fatal().Err(err).Str("month", *month).Msg("Invalid month, want YYYY-MM")
	}
	end := start.AddDate(0, 1, 0)

	text, err := readInput(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	// Pasted text carries no timestamps; stamp everything mid-window so
	// the batch lands inside the requested month.
	msgs := ingest.SplitBulk(text, start.AddDate(0, 0, 14))
	if len(msgs) == 0 {
		log.Fatal().Msg("No messages found in input")
	}

	opts := []engine.Option{
		engine.WithWorkers(cfg.Workers),
		engine.WithEnrichTimeout(cfg.EnrichTimeout),
		engine.WithLogger(log),
	}
	if *useEnr {
		opts = append(opts, engine.WithEnricher(enrich.NewGemini(cfg.EnrichModel), engine.EnrichFallback))
	}
	scanner := engine.NewScanner(opts...)

	result, err := scanner.Scan(context.Background(), msgs, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("Scan failed")
	}

	w := result.Window
	fmt.Printf("Window:        %s to %s\n", w.PeriodStart.Format("2006-01-02"), w.PeriodEnd.Format("2006-01-02"))
	fmt.Printf("Messages:      %d\n", result.MessageCount)
	fmt.Printf("Transactions:  %d\n", w.TransactionCount)
	fmt.Printf("Total credit:  INR %s\n", w.TotalCredit.StringFixed(2))
	fmt.Printf("Total debit:   INR %s\n", w.TotalDebit.StringFixed(2))

	if len(w.BySource) > 0 {
		fmt.Println("\nBy source:")
		labels := make([]string, 0, len(w.BySource))
		for label := range w.BySource {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Printf("  %-16s INR %s\n", label, w.BySource[label].StringFixed(2))
		}
	}
}

func readInput(file string) (string, error) {
	if file == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("readInput: stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("readInput: %w", err)
	}
	return string(data), nil
}
