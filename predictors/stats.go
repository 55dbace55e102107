package predictors

// Stats holds statistics for a branch predictor.
type Stats struct {
	// Predictions is the number of Predict calls that succeeded.
	Predictions uint64
	// Updates is the number of Update calls that succeeded.
	Updates uint64
	// Correct is the number of updates whose outcome matched the counter's
	// prediction.
	Correct uint64
	// Mispredictions is the number of updates whose outcome did not match.
	Mispredictions uint64
}

// Accuracy returns the prediction accuracy as a percentage.
func (s Stats) Accuracy() float64 {
	if s.Updates == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Updates) * 100
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s Stats) MispredictionRate() float64 {
	if s.Updates == 0 {
		return 0
	}
	return float64(s.Mispredictions) / float64(s.Updates) * 100
}
