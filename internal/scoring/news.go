// Package scoring turns fetched records into normalized sub-scores and
// confidence ratings.
package scoring

import "strings"

// KeywordTier gives every headline matching one of Words the tier Weight.
type KeywordTier struct {
	Weight float64  `yaml:"weight"`
	Words  []string `yaml:"words"`
}

// DefaultTiers are the catalyst keyword tiers used when no config overrides them.
func DefaultTiers() []KeywordTier {
	return []KeywordTier{
		{Weight: 1.0, Words: []string{"fda", "approval", "phase 3", "merger", "acquisition", "buyout"}},
		{Weight: 0.6, Words: []string{"earnings", "guidance", "contract", "partnership"}},
		{Weight: 0.5, Words: []string{"upgrade", "initiation"}},
	}
}

// NewsScore sums, per headline, the weight of each tier with a keyword match
// and clamps the total to [0,1].
func NewsScore(titles []string, tiers []KeywordTier) float64 {
	var score float64
	for _, title := range titles {
		lower := strings.ToLower(title)
		for _, tier := range tiers {
			if matchesAny(lower, tier.Words) {
				score += tier.Weight
			}
		}
	}
	return Clamp01(score)
}

func matchesAny(title string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(title, strings.ToLower(w)) {
			return true
		}
	}
	return false
}
