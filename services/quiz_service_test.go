package services

import (
	"errors"
	"testing"

	"quizlive/models"
)

func seedUser(t *testing.T, env *testEnv) *models.User {
	t.Helper()
	user := models.User{Username: "host", Email: "host@example.com", PasswordHash: "x"}
	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return &user
}

func TestCreateQuizAssignsOrderAndDefaults(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env)

	quiz, err := env.quizzes.CreateQuiz(user.ID, &CreateQuizRequest{
		Title: "Mixed",
		Questions: []CreateQuestionRequest{
			{
				Text: "Pick one",
				Options: []CreateOptionRequest{
					{Text: "a", IsCorrect: true},
					{Text: "b"},
				},
			},
			{
				Text: "Explain yourself",
				Type: models.QuestionTypeOpen,
			},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(quiz.Questions) != 2 {
		t.Fatalf("%d questions, want 2", len(quiz.Questions))
	}
	first := quiz.Questions[0]
	if first.Order != 1 || first.TimeLimit != 20 || first.Type != models.QuestionTypeChoice {
		t.Fatalf("unexpected defaults: %+v", first)
	}
	second := quiz.Questions[1]
	if second.Order != 2 || len(second.Options) != 0 {
		t.Fatalf("open question must carry no options: %+v", second)
	}
}

func TestCreateQuizValidatesOptions(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env)

	_, err := env.quizzes.CreateQuiz(user.ID, &CreateQuizRequest{
		Title: "Broken",
		Questions: []CreateQuestionRequest{
			{
				Text: "Two right answers",
				Options: []CreateOptionRequest{
					{Text: "a", IsCorrect: true},
					{Text: "b", IsCorrect: true},
				},
			},
		},
	})
	if err == nil {
		t.Fatal("choice question with two correct options must fail")
	}

	_, err = env.quizzes.CreateQuiz(user.ID, &CreateQuizRequest{
		Title: "Broken",
		Questions: []CreateQuestionRequest{
			{
				Text:    "Lonely option",
				Options: []CreateOptionRequest{{Text: "a", IsCorrect: true}},
			},
		},
	})
	if err == nil {
		t.Fatal("question with a single option must fail")
	}

	// A failed create leaves nothing behind.
	var count int64
	if err := env.db.Model(&models.Quiz{}).Count(&count).Error; err != nil {
		t.Fatalf("counting quizzes: %v", err)
	}
	if count != 0 {
		t.Fatalf("%d quiz rows after failed creates, want 0", count)
	}
}

func TestLoadQuestionsKeepsOrder(t *testing.T) {
	env := newTestEnv(t)
	_, quiz := env.seedGame(t, "42777")

	questions, err := env.quizzes.LoadQuestions(quiz.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("%d questions, want 2", len(questions))
	}
	for i, q := range questions {
		if q.Order != i+1 {
			t.Fatalf("question %d has order %d", i, q.Order)
		}
		if len(q.Options) != 2 {
			t.Fatalf("question %d has %d options, want 2", i, len(q.Options))
		}
	}
}

func TestQuizOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, quiz := env.seedGame(t, "42777")

	if _, err := env.quizzes.GetQuizByID(quiz.ID, 99); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("foreign read = %v, want ErrQuizNotFound", err)
	}
	if err := env.quizzes.DeleteQuiz(quiz.ID, 99); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("foreign delete = %v, want ErrQuizNotFound", err)
	}
	if err := env.quizzes.DeleteQuiz(quiz.ID, 1); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := env.quizzes.GetQuizByID(quiz.ID, 1); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("deleted quiz still readable: %v", err)
	}
}
