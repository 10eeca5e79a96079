package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

const enrichPrompt = "You are a parser for Indian bank, wallet and gig-platform notification SMS.\n\n" +
	"Task:\n" +
	"- Extract the single transaction described by the message below.\n" +
	"- Output STRICT JSON only (no comments, no extra text).\n" +
	"- Output exactly one JSON object with these fields:\n" +
	"  - \"amount\": number (the transaction amount, never the balance)\n" +
	"  - \"currency\": string (ISO code, e.g. \"INR\")\n" +
	"  - \"direction\": one of \"credit\", \"debit\", \"unknown\"\n" +
	"  - \"source_label\": string, the platform or bank name, or \"\"\n" +
	"- If the message describes no monetary transaction at all, output\n" +
	"  {\"unparsed\": true} instead.\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n" +
	"Output must begin with \"{\" and end with \"}\".\n\nMessage:\n"

// Gemini is the genai-backed Enricher.
type Gemini struct {
	model string
}

// NewGemini returns a Gemini enricher for the given model name.
// Credentials come from the environment, same as every other genai caller.
func NewGemini(model string) *Gemini {
	if model == "" {
		model = DefaultModelName
	}
	return &Gemini{model: model}
}

// Enrich sends the message body to the model and decodes the structured
// result. An explicit {"unparsed": true} answer maps to ErrUnparsed.
func (g *Gemini) Enrich(ctx context.Context, body string) (*Result, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("Enrich: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: enrichPrompt + body},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("Enrich: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("Enrich: empty response from model")
	}

	return decodeModelJSON(rawText)
}

// decodeModelJSON parses the model answer, tolerating Markdown fences the
// model was told not to emit.
func decodeModelJSON(raw string) (*Result, error) {
	clean := cleanModelJSON(raw)

	var payload struct {
		Unparsed    bool     `json:"unparsed"`
		Amount      *float64 `json:"amount"`
		Currency    string   `json:"currency"`
		Direction   string   `json:"direction"`
		SourceLabel string   `json:"source_label"`
	}
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("decodeModelJSON: unmarshal: %w\nraw response: %s", err, raw)
	}

	if payload.Unparsed {
		return nil, ErrUnparsed
	}
	if payload.Amount == nil || *payload.Amount <= 0 {
		return nil, ErrUnparsed
	}

	direction := domain.Direction(payload.Direction)
	switch direction {
	case domain.DirectionCredit, domain.DirectionDebit:
	default:
		direction = domain.DirectionUnknown
	}

	currency := domain.Currency(strings.ToUpper(strings.TrimSpace(payload.Currency)))
	if currency == "" {
		currency = domain.CurrencyINR
	}

	return &Result{
		Amount:      decimal.NewFromFloat(*payload.Amount),
		Currency:    currency,
		Direction:   direction,
		SourceLabel: strings.TrimSpace(payload.SourceLabel),
	}, nil
}

// cleanModelJSON strips ``` fences and surrounding junk, keeping only the
// first '{' through the last '}'.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
