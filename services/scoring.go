package services

// Scoring for a live game. Incorrect answers are always worth zero. For
// correct answers two rules exist, chosen at startup via SCORING_MODE:
//
//   - speed (canonical): 1000 * (0.5 + 0.5 * remainingFraction), where
//     remainingFraction is the unspent share of the question's time limit.
//     A correct answer lands between 500 (out of time) and 1000 (instant).
//   - flat: a fixed award regardless of response time.
const (
	ScoringModeSpeed = "speed"
	ScoringModeFlat  = "flat"

	speedBasePoints = 1000
	flatPoints      = 200
)

type Scorer struct {
	mode string
}

func NewScorer(mode string) *Scorer {
	if mode != ScoringModeFlat {
		mode = ScoringModeSpeed
	}
	return &Scorer{mode: mode}
}

// Score turns correctness and response latency into awarded points.
func (s *Scorer) Score(correct bool, responseTime, timeLimit float64) int {
	if !correct {
		return 0
	}
	if s.mode == ScoringModeFlat {
		return flatPoints
	}
	if timeLimit <= 0 {
		return speedBasePoints
	}
	remaining := (timeLimit - responseTime) / timeLimit
	if remaining < 0 {
		remaining = 0
	}
	if remaining > 1 {
		remaining = 1
	}
	return int(speedBasePoints * (0.5 + 0.5*remaining))
}
