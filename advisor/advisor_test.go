package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfmartins/cryptofolio"
)

// stubGenerator scripts the collaborator's answer.
type stubGenerator struct {
	answer string
	err    error
}

func (g *stubGenerator) generate(_ context.Context, prompt string) (string, error) {
	return g.answer, g.err
}

func heldPortfolio(t *testing.T) ([]cryptofolio.Position, cryptofolio.Registry) {
	t.Helper()
	reg := cryptofolio.DefaultRegistry()
	ledger := cryptofolio.NewLedger()
	_, err := ledger.Submit(cryptofolio.TransactionInput{
		CoinID:       "bitcoin",
		Type:         cryptofolio.Buy,
		Amount:       cryptofolio.Q(1.5),
		PricePerCoin: cryptofolio.BRL(100000),
		Fee:          cryptofolio.BRL(10),
	})
	require.NoError(t, err)
	return cryptofolio.Valuate(ledger, reg), reg
}

func TestAnalyze_UnreachableServiceYieldsFallback(t *testing.T) {
	positions, reg := heldPortfolio(t)
	a := &Advisor{gen: &stubGenerator{err: errors.New("connection refused")}}

	opinion := a.Analyze(context.Background(), positions, reg)

	// The caller gets exactly the defined fallback shape, never an error.
	assert.Equal(t, Fallback(), opinion)
}

func TestAnalyze_MalformedResponseYieldsFallback(t *testing.T) {
	positions, reg := heldPortfolio(t)

	for name, answer := range map[string]string{
		"not json":          "the market looks great!",
		"missing sentiment": `{"riskLevel":"Low","mainInsight":"x","tips":["a"]}`,
		"bad sentiment":     `{"sentiment":"Mooning","riskLevel":"Low","mainInsight":"x","tips":["a"]}`,
		"empty tips":        `{"sentiment":"Bullish","riskLevel":"Low","mainInsight":"x","tips":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			a := &Advisor{gen: &stubGenerator{answer: answer}}
			assert.Equal(t, Fallback(), a.Analyze(context.Background(), positions, reg))
		})
	}
}

func TestAnalyze_ParsesStructuredOpinion(t *testing.T) {
	positions, reg := heldPortfolio(t)
	a := &Advisor{gen: &stubGenerator{answer: `{
		"sentiment": "Bullish",
		"riskLevel": "Medium",
		"mainInsight": "Concentration in a single asset.",
		"tips": ["Diversify", "Mind the fees", "Review weekly"]
	}`}}

	opinion := a.Analyze(context.Background(), positions, reg)

	assert.Equal(t, Bullish, opinion.Sentiment)
	assert.Equal(t, "Medium", opinion.RiskLevel)
	assert.Equal(t, "Concentration in a single asset.", opinion.MainInsight)
	assert.Equal(t, []string{"Diversify", "Mind the fees", "Review weekly"}, opinion.Tips)
}

func TestAnalyze_ToleratesMarkdownFences(t *testing.T) {
	positions, reg := heldPortfolio(t)
	a := &Advisor{gen: &stubGenerator{answer: "```json\n" +
		`{"sentiment":"Neutral","riskLevel":"Low","mainInsight":"Steady.","tips":["Hold"]}` +
		"\n```"}}

	opinion := a.Analyze(context.Background(), positions, reg)

	require.NotEqual(t, Fallback(), opinion)
	assert.Equal(t, Neutral, opinion.Sentiment)
}

func TestAnalyze_ToleratesExtraFields(t *testing.T) {
	positions, reg := heldPortfolio(t)
	a := &Advisor{gen: &stubGenerator{answer: `{
		"sentiment": "Bearish",
		"riskLevel": "High",
		"mainInsight": "Heavy drawdown.",
		"tips": ["Reduce exposure"],
		"confidence": 0.7,
		"disclaimer": "not financial advice"
	}`}}

	opinion := a.Analyze(context.Background(), positions, reg)

	assert.Equal(t, Bearish, opinion.Sentiment)
	assert.Equal(t, []string{"Reduce exposure"}, opinion.Tips)
}

func TestSummary(t *testing.T) {
	positions, reg := heldPortfolio(t)

	summary := Summary(positions, reg)

	lines := strings.Split(strings.TrimRight(summary, "\n"), "\n")
	require.Len(t, lines, 1, "one line per held asset")
	assert.Contains(t, lines[0], "Bitcoin")
	assert.Contains(t, lines[0], "1.5000 units")
	assert.Contains(t, lines[0], "Profit/Loss:")
}

func TestSummary_EmptyPortfolio(t *testing.T) {
	assert.Empty(t, Summary(nil, cryptofolio.DefaultRegistry()))
}
