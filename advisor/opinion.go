package advisor

// Sentiment is the advisor's overall market stance.
type Sentiment string

const (
	Bullish Sentiment = "Bullish"
	Bearish Sentiment = "Bearish"
	Neutral Sentiment = "Neutral"
)

// Opinion is the structured advisory returned for a portfolio summary.
type Opinion struct {
	Sentiment   Sentiment `json:"sentiment"`
	RiskLevel   string    `json:"riskLevel"`
	MainInsight string    `json:"mainInsight"`
	Tips        []string  `json:"tips"`
}

// Fallback is the fixed neutral opinion substituted whenever the advisory
// service is unreachable or returns something unparseable. The caller never
// sees the underlying failure.
func Fallback() Opinion {
	return Opinion{
		Sentiment:   Neutral,
		RiskLevel:   "Unknown",
		MainInsight: "The advisory service could not be reached right now.",
		Tips:        []string{"Check your connection", "Try again later"},
	}
}
