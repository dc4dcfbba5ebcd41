package scoring

import (
	"fmt"
	"math"

	"premarket-scan/internal/model"
)

const (
	HighThreshold   = 75.0
	MediumThreshold = 55.0
)

// ConvictionFor bands a 0..100 confidence.
func ConvictionFor(confidence float64) model.Conviction {
	switch {
	case confidence >= HighThreshold:
		return model.ConvictionHigh
	case confidence >= MediumThreshold:
		return model.ConvictionMedium
	default:
		return model.ConvictionLow
	}
}

// Inputs carries everything a confidence policy may read. Each policy reads
// only the fields it needs.
type Inputs struct {
	Base      float64 // 0..1, watchlist score_10/10
	News      float64
	Flow      float64
	Liquidity float64
	Market    float64

	ChangePct float64
	RelVolume float64
}

// ConfidencePolicy is a named confidence formula with its own scale.
type ConfidencePolicy interface {
	Name() string
	Confidence(in Inputs) float64
	Conviction(confidence float64) model.Conviction
}

// Weights of the composite policy. They sum to 1.
type Weights struct {
	Base      float64
	News      float64
	Flow      float64
	Liquidity float64
	Market    float64
}

// DefaultWeights are 0.35 base, 0.25 news, 0.20 flow, 0.10 liquidity, 0.10 market.
var DefaultWeights = Weights{Base: 0.35, News: 0.25, Flow: 0.20, Liquidity: 0.10, Market: 0.10}

// Composite is the watchlist policy: a weighted sum of clamped sub-scores on 0..100.
type Composite struct {
	Weights Weights
}

func NewComposite() Composite { return Composite{Weights: DefaultWeights} }

func (Composite) Name() string { return "composite" }

func (c Composite) Confidence(in Inputs) float64 {
	w := c.Weights
	return 100 * (w.Base*Clamp01(in.Base) +
		w.News*Clamp01(in.News) +
		w.Flow*Clamp01(in.Flow) +
		w.Liquidity*Clamp01(in.Liquidity) +
		w.Market*Clamp01(in.Market))
}

func (Composite) Conviction(confidence float64) model.Conviction {
	return ConvictionFor(confidence)
}

// Gainer is the gainer-scan policy: an integer rating on 1..10 from the
// day's change and relative volume.
type Gainer struct{}

func (Gainer) Name() string { return "gainer" }

func (Gainer) Confidence(in Inputs) float64 {
	raw := math.Round(5 + (in.ChangePct-10)/10 + (in.RelVolume-3)*0.5)
	return math.Max(1, math.Min(10, raw))
}

// Conviction rescales the 1..10 rating onto 0..100 before banding.
func (Gainer) Conviction(confidence float64) model.Conviction {
	return ConvictionFor(confidence * 10)
}

// PolicyByName returns the confidence policy registered under name.
func PolicyByName(name string) (ConfidencePolicy, error) {
	switch name {
	case "composite":
		return NewComposite(), nil
	case "gainer":
		return Gainer{}, nil
	default:
		return nil, fmt.Errorf("unknown confidence policy %q (use: composite, gainer)", name)
	}
}
