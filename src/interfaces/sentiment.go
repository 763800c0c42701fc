package interfaces

// -----------------------------------------------------------------------------
// ISentimentScorer is the pluggable polarity scoring function. Any
// implementation returning a bounded float in [-1, 1] for a headline string
// satisfies the contract.
// -----------------------------------------------------------------------------

type ISentimentScorer interface {

	// Score returns the headline's polarity in [-1, 1]. Empty or otherwise
	// unusable input scores 0.0 (neutral) rather than failing.
	Score(headline string) float64
}
