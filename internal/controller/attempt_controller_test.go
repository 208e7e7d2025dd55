package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newAttemptRouter(t *testing.T) (*gin.Engine, *service.QuizService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	for _, u := range []model.User{
		{Name: "Creator", Email: "creator@example.com", Password: "x"},
		{Name: "Taker", Email: "taker@example.com", Password: "x"},
	} {
		u := u
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	cfg := &config.Config{App: config.AppConfig{BaseURL: "http://localhost:8080"}}
	quizRepo := repository.NewQuizRepository(db)
	roleRepo := repository.NewQuizRoleRepository(db)
	access := service.NewAccessService(roleRepo)
	quizService := service.NewQuizService(quizRepo, roleRepo, cfg, nil)
	attemptService := service.NewAttemptService(repository.NewAttemptRepository(db), quizRepo, access)
	controller := NewAttemptController(attemptService)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: 2, Name: "Taker", Email: "taker@example.com"})
	})
	router.POST("/api/attempts", controller.Submit)
	return router, quizService
}

func submitAttempt(t *testing.T, router *gin.Engine, quizID string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(gin.H{
		"quizId":  quizID,
		"answers": []model.Answer{{QuestionIndex: 0, SelectedOptionIndex: 1}},
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/attempts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitAttemptLimitReturns403(t *testing.T) {
	router, quizService := newAttemptRouter(t)

	quiz, err := quizService.Create(1, service.CreateQuizReq{
		Title:       "Capitals",
		Description: "Geography basics",
		MaxAttempts: 1,
		Questions: []service.QuestionReq{
			{
				QuestionText: "Capital of France?",
				Options: []model.Option{
					{Text: "Lyon"},
					{Text: "Paris", IsCorrect: true},
				},
				Points: 1,
			},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rec := submitAttempt(t, router, quiz.ID); rec.Code != http.StatusCreated {
		t.Fatalf("first submit status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec := submitAttempt(t, router, quiz.ID)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("second submit status = %d, want 403: %s", rec.Code, rec.Body.String())
	}
	var resp util.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Code != http.StatusForbidden || resp.Message != "Maximum attempts reached for this quiz" {
		t.Errorf("response = %d %q, want 403 with the limit message", resp.Code, resp.Message)
	}
}
