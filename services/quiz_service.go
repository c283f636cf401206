package services

import (
	"errors"

	"quizlive/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type CreateQuizRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"required,min=1"`
}

type CreateQuestionRequest struct {
	Text      string                `json:"text" binding:"required"`
	Type      string                `json:"type"`
	ImageURL  string                `json:"image_url"`
	TimeLimit int                   `json:"time_limit" binding:"omitempty,min=5,max=300"`
	Options   []CreateOptionRequest `json:"options" binding:"omitempty,max=6"`
}

type CreateOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuizSummary is the lightweight listing used by the host's
// quiz-selection dropdown.
type QuizSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func (s *QuizService) CreateQuiz(userID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	quiz := models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}

		for i, qReq := range req.Questions {
			qType := qReq.Type
			if qType == "" {
				qType = models.QuestionTypeChoice
			}
			timeLimit := qReq.TimeLimit
			if timeLimit == 0 {
				timeLimit = 20
			}

			question := models.Question{
				QuizID:    quiz.ID,
				Text:      qReq.Text,
				Type:      qType,
				ImageURL:  qReq.ImageURL,
				TimeLimit: timeLimit,
				Order:     i + 1,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}

			// Open questions carry no options and are never auto-scored.
			if qType == models.QuestionTypeOpen {
				continue
			}

			correctCount := 0
			for _, optReq := range qReq.Options {
				if optReq.IsCorrect {
					correctCount++
				}
			}
			if qType == models.QuestionTypeChoice && correctCount != 1 {
				return errors.New("choice questions must have exactly one correct option")
			}
			if len(qReq.Options) < 2 {
				return errors.New("questions must have at least two options")
			}

			for j, optReq := range qReq.Options {
				option := models.Option{
					QuestionID: question.ID,
					Text:       optReq.Text,
					IsCorrect:  optReq.IsCorrect,
					Order:      j + 1,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetQuizByID(quiz.ID, userID)
}

func (s *QuizService) GetUserQuizzes(userID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("user_id = ?", userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) GetQuizByID(quizID uint, userID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND user_id = ?", quizID, userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	return &quiz, err
}

// ListAll returns every quiz as id+title, newest first, for the host's
// change-quiz selection.
func (s *QuizService) ListAll() ([]QuizSummary, error) {
	var summaries []QuizSummary
	err := s.db.Model(&models.Quiz{}).
		Select("id, title").
		Order("id DESC").
		Scan(&summaries).Error
	return summaries, err
}

// LoadQuestions implements QuestionLoader for the session store: the
// ordered, option-loaded question snapshot a live session plays from.
func (s *QuizService) LoadQuestions(quizID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Where("quiz_id = ?", quizID).
		Order("questions.position ASC").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		Find(&questions).Error
	return questions, err
}

func (s *QuizService) DeleteQuiz(quizID uint, userID uint) error {
	if _, err := s.GetQuizByID(quizID, userID); err != nil {
		return err
	}
	return s.db.Delete(&models.Quiz{}, quizID).Error
}
