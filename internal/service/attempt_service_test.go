package service

import (
	"errors"
	"testing"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
)

func testQuestions(t *testing.T) []model.Question {
	t.Helper()
	return []model.Question{
		{
			Options: mustOptions(t, []model.Option{
				{Text: "Lyon"},
				{Text: "Paris", IsCorrect: true},
			}),
			Points:   1,
			Category: "Europe",
			Position: 0,
		},
		{
			Options: mustOptions(t, []model.Option{
				{Text: "Tokyo", IsCorrect: true},
				{Text: "Osaka"},
			}),
			Points:   3,
			Category: "Asia",
			Position: 1,
		},
	}
}

func TestScoreAnswers(t *testing.T) {
	tests := []struct {
		name           string
		answers        []model.Answer
		wantScore      int
		wantPercentage float64
		wantCategories map[string]int
	}{
		{
			name: "first question right second wrong",
			answers: []model.Answer{
				{QuestionIndex: 0, SelectedOptionIndex: 1},
				{QuestionIndex: 1, SelectedOptionIndex: 1},
			},
			wantScore:      1,
			wantPercentage: 25.0,
			wantCategories: map[string]int{"Europe": 1, "Asia": 0},
		},
		{
			name: "all correct",
			answers: []model.Answer{
				{QuestionIndex: 0, SelectedOptionIndex: 1},
				{QuestionIndex: 1, SelectedOptionIndex: 0},
			},
			wantScore:      4,
			wantPercentage: 100.0,
			wantCategories: map[string]int{"Europe": 1, "Asia": 3},
		},
		{
			name:           "no answers still seeds every category",
			answers:        nil,
			wantScore:      0,
			wantPercentage: 0,
			wantCategories: map[string]int{"Europe": 0, "Asia": 0},
		},
		{
			name: "answer order does not matter",
			answers: []model.Answer{
				{QuestionIndex: 1, SelectedOptionIndex: 0},
				{QuestionIndex: 0, SelectedOptionIndex: 1},
			},
			wantScore:      4,
			wantPercentage: 100.0,
			wantCategories: map[string]int{"Europe": 1, "Asia": 3},
		},
		{
			name: "duplicate answers first match wins",
			answers: []model.Answer{
				{QuestionIndex: 0, SelectedOptionIndex: 0},
				{QuestionIndex: 0, SelectedOptionIndex: 1},
			},
			wantScore:      0,
			wantPercentage: 0,
			wantCategories: map[string]int{"Europe": 0, "Asia": 0},
		},
		{
			name: "out of range selection ignored",
			answers: []model.Answer{
				{QuestionIndex: 0, SelectedOptionIndex: 9},
				{QuestionIndex: 1, SelectedOptionIndex: -1},
			},
			wantScore:      0,
			wantPercentage: 0,
			wantCategories: map[string]int{"Europe": 0, "Asia": 0},
		},
		{
			name: "unknown question index ignored",
			answers: []model.Answer{
				{QuestionIndex: 7, SelectedOptionIndex: 0},
			},
			wantScore:      0,
			wantPercentage: 0,
			wantCategories: map[string]int{"Europe": 0, "Asia": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScoreAnswers(testQuestions(t), 4, tt.answers)
			if err != nil {
				t.Fatalf("ScoreAnswers: %v", err)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Percentage != tt.wantPercentage {
				t.Errorf("Percentage = %v, want %v", got.Percentage, tt.wantPercentage)
			}
			if len(got.CategoryScores) != len(tt.wantCategories) {
				t.Fatalf("CategoryScores = %v, want %v", got.CategoryScores, tt.wantCategories)
			}
			for category, want := range tt.wantCategories {
				if got.CategoryScores[category] != want {
					t.Errorf("CategoryScores[%q] = %d, want %d", category, got.CategoryScores[category], want)
				}
			}
		})
	}
}

func TestScoreAnswersZeroTotalPoints(t *testing.T) {
	result, err := ScoreAnswers(nil, 0, nil)
	if err != nil {
		t.Fatalf("ScoreAnswers: %v", err)
	}
	if result.Percentage != 0 {
		t.Errorf("Percentage = %v, want 0", result.Percentage)
	}
}

func TestSubmitRecordsCompletedAttempt(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "Creator", "creator@example.com")
	taker := createUser(t, db, "Taker", "taker@example.com")
	quiz := createQuiz(t, db, creator.ID, nil)

	svc := newAttemptService(db)
	attempt, got, err := svc.Submit(taker.ID, SubmitAttemptReq{
		QuizID: quiz.ID,
		Answers: []model.Answer{
			{QuestionIndex: 0, SelectedOptionIndex: 1},
			{QuestionIndex: 1, SelectedOptionIndex: 1},
		},
		TimeTaken: 42,
	}, "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.ID != quiz.ID {
		t.Errorf("returned quiz %q, want %q", got.ID, quiz.ID)
	}
	if attempt.Score != 1 || attempt.TotalPoints != 4 || attempt.Percentage != 25.0 {
		t.Errorf("scored %d/%d (%.1f%%), want 1/4 (25.0%%)", attempt.Score, attempt.TotalPoints, attempt.Percentage)
	}
	if attempt.Status != model.AttemptCompleted || attempt.CompletedAt == nil {
		t.Error("attempt not marked completed")
	}
	if attempt.AttemptNumber != 1 {
		t.Errorf("AttemptNumber = %d, want 1", attempt.AttemptNumber)
	}

	scores, err := attempt.DecodeCategoryScores()
	if err != nil {
		t.Fatalf("decode category scores: %v", err)
	}
	if scores["Europe"] != 1 || scores["Asia"] != 0 {
		t.Errorf("CategoryScores = %v, want Europe:1 Asia:0", scores)
	}
}

func TestSubmitAttemptNumberIncrements(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "Creator", "creator@example.com")
	taker := createUser(t, db, "Taker", "taker@example.com")
	quiz := createQuiz(t, db, creator.ID, nil)

	svc := newAttemptService(db)
	for want := 1; want <= 3; want++ {
		attempt, _, err := svc.Submit(taker.ID, SubmitAttemptReq{QuizID: quiz.ID, Answers: []model.Answer{}}, "")
		if err != nil {
			t.Fatalf("Submit #%d: %v", want, err)
		}
		if attempt.AttemptNumber != want {
			t.Errorf("AttemptNumber = %d, want %d", attempt.AttemptNumber, want)
		}
	}
}

func TestSubmitEnforcesAttemptLimit(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "Creator", "creator@example.com")
	taker := createUser(t, db, "Taker", "taker@example.com")
	quiz := createQuiz(t, db, creator.ID, func(q *model.Quiz) {
		q.MaxAttempts = 1
	})

	svc := newAttemptService(db)
	if _, _, err := svc.Submit(taker.ID, SubmitAttemptReq{QuizID: quiz.ID, Answers: []model.Answer{}}, ""); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, _, err := svc.Submit(taker.ID, SubmitAttemptReq{QuizID: quiz.ID, Answers: []model.Answer{}}, "")
	if !errors.Is(err, util.ErrMaxAttemptsReached) {
		t.Errorf("second Submit err = %v, want ErrMaxAttemptsReached", err)
	}
}

func TestSubmitGateDenials(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "Creator", "creator@example.com")
	taker := createUser(t, db, "Taker", "taker@example.com")

	hashed, err := HashPasscode("sesame")
	if err != nil {
		t.Fatalf("hash passcode: %v", err)
	}
	passworded := createQuiz(t, db, creator.ID, func(q *model.Quiz) {
		q.AccessType = model.AccessPassword
		q.Password = hashed
	})
	approval := createQuiz(t, db, creator.ID, func(q *model.Quiz) {
		q.AccessType = model.AccessApproval
	})

	svc := newAttemptService(db)

	_, _, err = svc.Submit(taker.ID, SubmitAttemptReq{QuizID: passworded.ID, Answers: []model.Answer{}}, "wrong")
	if !errors.Is(err, util.ErrPasswordRequired) {
		t.Errorf("passworded Submit err = %v, want ErrPasswordRequired", err)
	}

	if _, _, err = svc.Submit(taker.ID, SubmitAttemptReq{QuizID: passworded.ID, Answers: []model.Answer{}}, "sesame"); err != nil {
		t.Errorf("passworded Submit with passcode err = %v", err)
	}

	_, _, err = svc.Submit(taker.ID, SubmitAttemptReq{QuizID: approval.ID, Answers: []model.Answer{}}, "")
	if !errors.Is(err, util.ErrApprovalRequired) {
		t.Errorf("approval Submit err = %v, want ErrApprovalRequired", err)
	}

	_, _, err = svc.Submit(taker.ID, SubmitAttemptReq{QuizID: "no-such-quiz", Answers: []model.Answer{}}, "")
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("missing quiz Submit err = %v, want ErrQuizNotFound", err)
	}
}

func TestSaveProgressUpsertsSingleActiveAttempt(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "Creator", "creator@example.com")
	taker := createUser(t, db, "Taker", "taker@example.com")
	quiz := createQuiz(t, db, creator.ID, nil)

	svc := newAttemptService(db)

	first, err := svc.SaveProgress(taker.ID, SaveProgressReq{
		QuizID:  quiz.ID,
		Answers: []model.Answer{{QuestionIndex: 0, SelectedOptionIndex: 1}},
	}, "")
	if err != nil {
		t.Fatalf("first SaveProgress: %v", err)
	}

	second, err := svc.SaveProgress(taker.ID, SaveProgressReq{
		QuizID: quiz.ID,
		Answers: []model.Answer{
			{QuestionIndex: 0, SelectedOptionIndex: 1},
			{QuestionIndex: 1, SelectedOptionIndex: 0},
		},
		TimeTaken: 30,
	}, "")
	if err != nil {
		t.Fatalf("second SaveProgress: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("progress created a second active attempt: %q then %q", first.ID, second.ID)
	}

	var count int64
	db.Model(&model.Attempt{}).Where("quiz_id = ? AND user_id = ? AND status = ?", quiz.ID, taker.ID, model.AttemptActive).Count(&count)
	if count != 1 {
		t.Errorf("active attempt count = %d, want 1", count)
	}

	answers, err := second.DecodeAnswers()
	if err != nil {
		t.Fatalf("decode answers: %v", err)
	}
	if len(answers) != 2 {
		t.Errorf("stored %d answers, want 2", len(answers))
	}
}

func TestSaveProgressDoesNotCountTowardLimit(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "Creator", "creator@example.com")
	taker := createUser(t, db, "Taker", "taker@example.com")
	quiz := createQuiz(t, db, creator.ID, func(q *model.Quiz) {
		q.MaxAttempts = 1
	})

	svc := newAttemptService(db)
	for i := 0; i < 3; i++ {
		if _, err := svc.SaveProgress(taker.ID, SaveProgressReq{QuizID: quiz.ID}, ""); err != nil {
			t.Fatalf("SaveProgress #%d: %v", i+1, err)
		}
	}
	if _, _, err := svc.Submit(taker.ID, SubmitAttemptReq{QuizID: quiz.ID, Answers: []model.Answer{}}, ""); err != nil {
		t.Errorf("Submit after saves err = %v, want nil", err)
	}
}

func TestGetAttemptVisibility(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "Creator", "creator@example.com")
	taker := createUser(t, db, "Taker", "taker@example.com")
	stranger := createUser(t, db, "Stranger", "stranger@example.com")
	quiz := createQuiz(t, db, creator.ID, nil)

	svc := newAttemptService(db)
	attempt, _, err := svc.Submit(taker.ID, SubmitAttemptReq{QuizID: quiz.ID, Answers: []model.Answer{}}, "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, _, err := svc.Get(attempt.ID, taker.ID); err != nil {
		t.Errorf("owner Get err = %v", err)
	}
	if _, _, err := svc.Get(attempt.ID, creator.ID); err != nil {
		t.Errorf("creator Get err = %v", err)
	}
	if _, _, err := svc.Get(attempt.ID, stranger.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("stranger Get err = %v, want ErrPermissionDenied", err)
	}
	if _, _, err := svc.Get("missing", taker.ID); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Errorf("missing Get err = %v, want ErrAttemptNotFound", err)
	}
}
