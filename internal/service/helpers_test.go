package service

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.Attempt{},
		&model.QuizRole{},
		&model.QuizAccessRequest{},
		&model.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{BaseURL: "http://localhost:8080"},
	}
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, Password: "hashed"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustOptions(t *testing.T, opts []model.Option) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(opts)
	if err != nil {
		t.Fatalf("marshal options: %v", err)
	}
	return raw
}

// createQuiz inserts a quiz with two questions: question 0 worth 1 point
// (option 1 correct) and question 1 worth 3 points (option 0 correct).
func createQuiz(t *testing.T, db *gorm.DB, creatorID uint, mutate func(*model.Quiz)) *model.Quiz {
	t.Helper()

	quiz := &model.Quiz{
		Title:       "Capitals",
		Description: "Geography basics",
		CreatedBy:   creatorID,
		TotalPoints: 4,
		IsPublished: true,
		ShowScore:   true,
		AccessType:  model.AccessPublic,
		PublicURL:   "/q/" + model.GenerateUUID()[:10],
	}
	if mutate != nil {
		mutate(quiz)
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	questions := []model.Question{
		{
			QuizID:       quiz.ID,
			QuestionType: "multiple-choice",
			QuestionText: "Capital of France?",
			Options: mustOptions(t, []model.Option{
				{Text: "Lyon"},
				{Text: "Paris", IsCorrect: true},
			}),
			Points:   1,
			Category: "Europe",
			Position: 0,
		},
		{
			QuizID:       quiz.ID,
			QuestionType: "multiple-choice",
			QuestionText: "Capital of Japan?",
			Options: mustOptions(t, []model.Option{
				{Text: "Tokyo", IsCorrect: true},
				{Text: "Osaka"},
			}),
			Points:   3,
			Category: "Asia",
			Position: 1,
		},
	}
	if err := db.Create(&questions).Error; err != nil {
		t.Fatalf("create questions: %v", err)
	}
	quiz.Questions = questions
	return quiz
}

func newAttemptService(db *gorm.DB) *AttemptService {
	return NewAttemptService(
		repository.NewAttemptRepository(db),
		repository.NewQuizRepository(db),
		NewAccessService(repository.NewQuizRoleRepository(db)),
	)
}
