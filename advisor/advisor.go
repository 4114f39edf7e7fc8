// Package advisor asks a Gemini model for a structured opinion on the
// portfolio. The call is best-effort: any transport or parse failure is
// logged and replaced by a fixed neutral fallback, never surfaced to the
// caller, and it is never invoked on the market tick path.
package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/lfmartins/cryptofolio"
)

// Model is the Gemini model used for portfolio analysis.
const Model = "gemini-2.5-flash"

// generator abstracts the text-generation call so failure paths are testable.
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// geminiGenerator is the production generator backed by the Gemini API.
type geminiGenerator struct {
	client *genai.Client
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, Model, genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from %s", Model)
	}
	return text, nil
}

// Advisor produces structured opinions about a portfolio.
type Advisor struct {
	gen generator
}

// New creates an advisor backed by a Gemini client. The client reads its API
// key from the GEMINI_API_KEY environment variable, see genai.NewClient.
func New(client *genai.Client) *Advisor {
	return &Advisor{gen: &geminiGenerator{client: client}}
}

// Summary renders the read-only portfolio view shared with the advisory
// service: one line per held asset with name, quantity, current value and
// profit percent.
func Summary(positions []cryptofolio.Position, reg cryptofolio.Registry) string {
	var b strings.Builder
	for _, p := range positions {
		name := p.CoinID
		if coin, ok := reg.Coin(p.CoinID); ok {
			name = coin.Name
		}
		fmt.Fprintf(&b, "%s: %.4f units. Current value: %s. Profit/Loss: %s\n",
			name, p.TotalAmount.AsFloat(), p.CurrentValue, p.ProfitPercent.SignedString())
	}
	return b.String()
}

const promptTemplate = `Act as a senior cryptocurrency specialist. Analyze the following investment portfolio:

%s

Provide a concise analysis as JSON with exactly this structure:
{
  "sentiment": "Bullish" | "Bearish" | "Neutral",
  "riskLevel": "Low" | "Medium" | "High",
  "mainInsight": "One impactful sentence about the current state.",
  "tips": ["Tip 1", "Tip 2", "Tip 3"]
}

If the portfolio is empty, give general tips for beginners.
Answer with clean JSON only, no markdown.`

// Analyze sends the portfolio summary to the advisory service and returns its
// structured opinion. It never fails: on any error the fixed neutral fallback
// is returned and the cause is logged for diagnostics only.
func (a *Advisor) Analyze(ctx context.Context, positions []cryptofolio.Position, reg cryptofolio.Registry) Opinion {
	prompt := fmt.Sprintf(promptTemplate, Summary(positions, reg))

	raw, err := a.gen.generate(ctx, prompt)
	if err != nil {
		log.Printf("advisor: generation failed: %v", err)
		return Fallback()
	}

	opinion, err := parseOpinion(raw)
	if err != nil {
		log.Printf("advisor: unusable response: %v", err)
		return Fallback()
	}
	return opinion
}
