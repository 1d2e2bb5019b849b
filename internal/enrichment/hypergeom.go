// Package enrichment tests whether a model's most similar word pairs are
// enriched for each relation type.
package enrichment

import "math"

// HypergeomSF is the survival function P(X > k) of a hypergeometric variable
// X counting successes in N draws without replacement from a population of M
// items of which n are successes. Invalid parameters give NaN.
//
// Terms are summed from the largest attainable x downwards, so for fixed
// M, n, N the result never increases with k.
func HypergeomSF(k, M, n, N int) float64 {
	if M < 0 || n < 0 || N < 0 || n > M || N > M {
		return math.NaN()
	}
	lo := max(0, N-(M-n))
	hi := min(n, N)
	if k < lo {
		return 1
	}
	if k >= hi {
		return 0
	}

	logTotal := logChoose(M, N)
	sum := 0.0
	for x := hi; x > k; x-- {
		sum += math.Exp(logChoose(n, x) + logChoose(M-n, N-x) - logTotal)
	}
	return math.Min(sum, 1)
}

// EnrichmentPValue is the probability of at least foreground successes among
// numTop draws: HypergeomSF(foreground-1, numPairs, background, numTop).
func EnrichmentPValue(foreground, numPairs, background, numTop int) float64 {
	return HypergeomSF(foreground-1, numPairs, background, numTop)
}

func logChoose(a, b int) float64 {
	return lgamma(a+1) - lgamma(b+1) - lgamma(a-b+1)
}

func lgamma(x int) float64 {
	v, _ := math.Lgamma(float64(x))
	return v
}
