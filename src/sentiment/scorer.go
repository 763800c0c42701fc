package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

// -----------------------------------------------------------------------------

// VaderScorer scores headline polarity with the VADER lexicon. The compound
// score is already normalized to [-1, 1].
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// -----------------------------------------------------------------------------

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// -----------------------------------------------------------------------------

// Score returns the headline's polarity. Blank input scores neutral.
func (s *VaderScorer) Score(headline string) float64 {
	if strings.TrimSpace(headline) == "" {
		return 0.0
	}

	compound := s.analyzer.PolarityScores(headline).Compound

	// Guard the contract bound against lexicon edge cases.
	if compound > 1.0 {
		return 1.0
	}
	if compound < -1.0 {
		return -1.0
	}
	return compound
}
