package services

import "testing"

func TestSpeedScoring(t *testing.T) {
	scorer := NewScorer(ScoringModeSpeed)

	cases := []struct {
		name         string
		correct      bool
		responseTime float64
		timeLimit    float64
		want         int
	}{
		{"instant correct answer", true, 0, 20, 1000},
		{"correct at the limit", true, 20, 20, 500},
		{"correct at half time", true, 10, 20, 750},
		{"correct at five of twenty", true, 5, 20, 875},
		{"late correct answer clamps to floor", true, 35, 20, 500},
		{"negative latency clamps to ceiling", true, -3, 20, 1000},
		{"incorrect scores zero", false, 0, 20, 0},
		{"incorrect late scores zero", false, 50, 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scorer.Score(tc.correct, tc.responseTime, tc.timeLimit)
			if got != tc.want {
				t.Fatalf("Score(%v, %v, %v) = %d, want %d",
					tc.correct, tc.responseTime, tc.timeLimit, got, tc.want)
			}
		})
	}
}

func TestFlatScoring(t *testing.T) {
	scorer := NewScorer(ScoringModeFlat)

	if got := scorer.Score(true, 0, 20); got != 200 {
		t.Fatalf("flat correct = %d, want 200", got)
	}
	if got := scorer.Score(true, 19, 20); got != 200 {
		t.Fatalf("flat correct ignores latency, got %d", got)
	}
	if got := scorer.Score(false, 0, 20); got != 0 {
		t.Fatalf("flat incorrect = %d, want 0", got)
	}
}

func TestUnknownModeDefaultsToSpeed(t *testing.T) {
	scorer := NewScorer("bogus")
	if got := scorer.Score(true, 0, 20); got != 1000 {
		t.Fatalf("expected speed scoring, got %d", got)
	}
}
