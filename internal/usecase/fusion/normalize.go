package fusion

// Normalize rescales scores to [0,1] via min-max.
// Empty input returns an empty slice. When all scores are equal the spread
// is zero and every score maps to 1.0 (equally ranked, not equally worthless).
// Order and length are preserved; the input is not mutated.
func Normalize(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	minScore, maxScore := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}

	spread := maxScore - minScore
	if spread == 0 {
		for i := range out {
			out[i] = 1.0
		}
		return out
	}

	for i, s := range scores {
		out[i] = (s - minScore) / spread
	}
	return out
}
