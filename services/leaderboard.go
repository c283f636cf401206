package services

import (
	"math"

	"quizlive/models"

	"gorm.io/gorm"
)

// PodiumEntry is one of the top-three slots shown on the final screen.
type PodiumEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type Podium struct {
	First  *PodiumEntry `json:"first"`
	Second *PodiumEntry `json:"second"`
	Third  *PodiumEntry `json:"third"`
}

// OptionCount is the per-option slice of a question's answer distribution.
type OptionCount struct {
	Text      string `json:"text"`
	Count     int    `json:"count"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionStats struct {
	Total           int                  `json:"total"`
	Correct         int                  `json:"correct"`
	Incorrect       int                  `json:"incorrect"`
	AccuracyPercent float64              `json:"accuracy_percent"`
	PerOption       map[uint]OptionCount `json:"per_option"`
}

// Rank reads the game's players from durable storage ordered by score.
// Ties keep join order: the secondary sort on id preserves the order
// rows were created in, with no separate tiebreak field.
func Rank(db *gorm.DB, gameID uint) ([]models.Player, error) {
	var players []models.Player
	err := db.Where("game_id = ?", gameID).
		Order("score DESC, id ASC").
		Find(&players).Error
	return players, err
}

// BuildPodium picks the top three of an already ranked player list.
// Slots beyond the player count stay nil.
func BuildPodium(ranked []models.Player) Podium {
	podium := Podium{}
	slots := []**PodiumEntry{&podium.First, &podium.Second, &podium.Third}
	for i, slot := range slots {
		if i >= len(ranked) {
			break
		}
		*slot = &PodiumEntry{Name: ranked[i].Name, Score: ranked[i].Score}
	}
	return podium
}

// QuestionStatistics aggregates a question's answers for the reveal
// screen: totals, accuracy, and the per-option distribution.
func QuestionStatistics(answers []models.Answer, options []models.Option) QuestionStats {
	stats := QuestionStats{
		Total:     len(answers),
		PerOption: make(map[uint]OptionCount, len(options)),
	}

	for _, option := range options {
		stats.PerOption[option.ID] = OptionCount{
			Text:      option.Text,
			IsCorrect: option.IsCorrect,
		}
	}

	for _, answer := range answers {
		if answer.IsCorrect {
			stats.Correct++
		}
		if entry, ok := stats.PerOption[answer.OptionID]; ok {
			entry.Count++
			stats.PerOption[answer.OptionID] = entry
		}
	}
	stats.Incorrect = stats.Total - stats.Correct

	if stats.Total > 0 {
		ratio := float64(stats.Correct) / float64(stats.Total) * 100
		stats.AccuracyPercent = math.Round(ratio*10) / 10
	}
	return stats
}
