package monitoring

// modelPricing holds USD prices per million tokens.
type modelPricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// pricing covers the models the pipeline offers. Unknown models cost zero
// rather than guessing.
var pricing = map[string]modelPricing{
	"claude-3-5-haiku-20241022":  {InputPerMTok: 0.80, OutputPerMTok: 4.00},
	"claude-3-5-sonnet-20241022": {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	"claude-3-opus-20240229":     {InputPerMTok: 15.00, OutputPerMTok: 75.00},
	"gpt-4o-mini":                {InputPerMTok: 0.15, OutputPerMTok: 0.60},
	"gpt-4o":                     {InputPerMTok: 2.50, OutputPerMTok: 10.00},
}

// EstimateCost returns the estimated USD cost for one request.
func EstimateCost(model string, inputTokens, outputTokens int64) float64 {
	p, ok := pricing[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000*p.InputPerMTok +
		float64(outputTokens)/1_000_000*p.OutputPerMTok
}
