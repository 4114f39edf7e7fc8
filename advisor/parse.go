package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// parseOpinion extracts an Opinion from the model's raw answer. Models
// occasionally wrap JSON in markdown fences or add extra fields, so the
// answer is decoded generically and the expected fields are plucked out.
func parseOpinion(raw string) (Opinion, error) {
	raw = stripFences(raw)

	var jobj any
	if err := json.Unmarshal([]byte(raw), &jobj); err != nil {
		return Opinion{}, fmt.Errorf("response is not JSON: %w", err)
	}

	sentiment, err := stringAt(jobj, "$.sentiment")
	if err != nil {
		return Opinion{}, err
	}
	switch Sentiment(sentiment) {
	case Bullish, Bearish, Neutral:
	default:
		return Opinion{}, fmt.Errorf("unknown sentiment %q", sentiment)
	}

	riskLevel, err := stringAt(jobj, "$.riskLevel")
	if err != nil {
		return Opinion{}, err
	}
	mainInsight, err := stringAt(jobj, "$.mainInsight")
	if err != nil {
		return Opinion{}, err
	}

	jtips, err := jsonpath.Get("$.tips[*]", jobj)
	if err != nil {
		return Opinion{}, fmt.Errorf("error reading %q: %w", "$.tips", err)
	}
	var tips []string
	if jlist, ok := jtips.([]any); ok {
		for _, jtip := range jlist {
			if tip, ok := jtip.(string); ok {
				tips = append(tips, tip)
			}
		}
	}
	if len(tips) == 0 {
		return Opinion{}, fmt.Errorf("response has no tips")
	}

	return Opinion{
		Sentiment:   Sentiment(sentiment),
		RiskLevel:   riskLevel,
		MainInsight: mainInsight,
		Tips:        tips,
	}, nil
}

func stringAt(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error reading %q: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of 1 answer,
	// or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("value at %q is not a string: %v", path, jval)
	}
	return s, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
