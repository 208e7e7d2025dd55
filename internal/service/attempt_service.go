package service

import (
	"encoding/json"
	"time"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"gorm.io/gorm"
)

type AttemptService struct {
	Repo     *repository.AttemptRepository
	QuizRepo *repository.QuizRepository
	Access   *AccessService
}

func NewAttemptService(repo *repository.AttemptRepository, quizRepo *repository.QuizRepository, access *AccessService) *AttemptService {
	return &AttemptService{Repo: repo, QuizRepo: quizRepo, Access: access}
}

type SubmitAttemptReq struct {
	QuizID           string            `json:"quizId" binding:"required"`
	Answers          []model.Answer    `json:"answers" binding:"required"`
	TimeTaken        int               `json:"timeTaken"`
	RegistrationData map[string]string `json:"registrationData"`
}

type SaveProgressReq struct {
	QuizID           string            `json:"quizId" binding:"required"`
	Answers          []model.Answer    `json:"answers"`
	TimeTaken        int               `json:"timeTaken"`
	RegistrationData map[string]string `json:"registrationData"`
}

// ScoreResult is the outcome of grading one answer set against a quiz.
type ScoreResult struct {
	Score          int
	TotalPoints    int
	Percentage     float64
	CategoryScores map[string]int
}

// ScoreAnswers grades the submitted answers against the quiz's questions
// at their canonical indices. Every category present in the quiz gets an
// entry, answered or not. An answer counts when its selected option
// exists and is marked correct; for duplicate answers to one index the
// first match wins.
func ScoreAnswers(questions []model.Question, totalPoints int, answers []model.Answer) (ScoreResult, error) {
	result := ScoreResult{
		TotalPoints:    totalPoints,
		CategoryScores: map[string]int{},
	}

	for index, question := range questions {
		category := question.Category
		if category == "" {
			category = "General"
		}
		if _, ok := result.CategoryScores[category]; !ok {
			result.CategoryScores[category] = 0
		}

		var answer *model.Answer
		for i := range answers {
			if answers[i].QuestionIndex == index {
				answer = &answers[i]
				break
			}
		}
		if answer == nil {
			continue
		}

		opts, err := question.DecodeOptions()
		if err != nil {
			return ScoreResult{}, err
		}
		if answer.SelectedOptionIndex < 0 || answer.SelectedOptionIndex >= len(opts) {
			continue
		}
		if opts[answer.SelectedOptionIndex].IsCorrect {
			points := question.Points
			if points < 1 {
				points = 1
			}
			result.Score += points
			result.CategoryScores[category] += points
		}
	}

	if totalPoints > 0 {
		result.Percentage = float64(result.Score) * 100 / float64(totalPoints)
	}
	return result, nil
}

// Submit grades the answers and persists a completed attempt. The access
// gate is re-validated here regardless of what the client already
// checked, so a direct POST cannot bypass quiz gating, and the attempt
// limit is enforced against prior completed attempts.
func (s *AttemptService) Submit(userID uint, req SubmitAttemptReq, passcode string) (*model.Attempt, *model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(req.QuizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, util.ErrQuizNotFound
		}
		return nil, nil, err
	}

	decision, err := s.Access.Evaluate(userID, quiz, passcode)
	if err != nil {
		return nil, nil, err
	}
	if !decision.CanTake {
		return nil, nil, denyError(decision.Reason)
	}

	completed, err := s.Repo.CountCompleted(quiz.ID, userID)
	if err != nil {
		return nil, nil, err
	}
	if quiz.MaxAttempts > 0 && completed >= int64(quiz.MaxAttempts) {
		return nil, nil, util.ErrMaxAttemptsReached
	}

	result, err := ScoreAnswers(quiz.Questions, quiz.TotalPoints, req.Answers)
	if err != nil {
		return nil, nil, err
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, nil, err
	}
	categoryJSON, err := json.Marshal(result.CategoryScores)
	if err != nil {
		return nil, nil, err
	}
	var regJSON json.RawMessage
	if len(req.RegistrationData) > 0 {
		regJSON, err = json.Marshal(req.RegistrationData)
		if err != nil {
			return nil, nil, err
		}
	}

	now := time.Now()
	attempt := &model.Attempt{
		QuizID:           quiz.ID,
		UserID:           userID,
		Answers:          answersJSON,
		Score:            result.Score,
		TotalPoints:      result.TotalPoints,
		Percentage:       result.Percentage,
		CategoryScores:   categoryJSON,
		TimeTaken:        req.TimeTaken,
		Status:           model.AttemptCompleted,
		CompletedAt:      &now,
		AttemptNumber:    int(completed) + 1,
		RegistrationData: regJSON,
	}

	if err := s.Repo.Create(attempt); err != nil {
		return nil, nil, err
	}
	return attempt, quiz, nil
}

// SaveProgress upserts the user's single in-progress attempt. It does
// not count toward the attempt limit, but runs the same access gate as
// Submit.
func (s *AttemptService) SaveProgress(userID uint, req SaveProgressReq, passcode string) (*model.Attempt, error) {
	quiz, err := s.QuizRepo.FindByID(req.QuizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	decision, err := s.Access.Evaluate(userID, quiz, passcode)
	if err != nil {
		return nil, err
	}
	if !decision.CanTake {
		return nil, denyError(decision.Reason)
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}
	var regJSON json.RawMessage
	if len(req.RegistrationData) > 0 {
		regJSON, err = json.Marshal(req.RegistrationData)
		if err != nil {
			return nil, err
		}
	}

	attempt := &model.Attempt{
		QuizID:           quiz.ID,
		UserID:           userID,
		Answers:          answersJSON,
		TimeTaken:        req.TimeTaken,
		Status:           model.AttemptActive,
		RegistrationData: regJSON,
	}
	if err := s.Repo.UpsertActive(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func denyError(reason DenyReason) error {
	switch reason {
	case DenyPasswordRequired:
		return util.ErrPasswordRequired
	case DenyApprovalRequired:
		return util.ErrApprovalRequired
	default:
		return util.ErrPermissionDenied
	}
}

func (s *AttemptService) ListMine(userID uint) ([]model.Attempt, error) {
	return s.Repo.ListByUser(userID)
}

// Get returns the attempt with its quiz, restricted to the attempt's
// owner or the quiz's creator.
func (s *AttemptService) Get(attemptID string, userID uint) (*model.Attempt, *model.Quiz, error) {
	attempt, err := s.Repo.FindByID(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, util.ErrAttemptNotFound
		}
		return nil, nil, err
	}

	quiz, err := s.QuizRepo.FindByID(attempt.QuizID)
	if err != nil {
		return nil, nil, err
	}

	if attempt.UserID != userID && quiz.CreatedBy != userID {
		return nil, nil, util.ErrPermissionDenied
	}
	return attempt, quiz, nil
}

// ListForQuiz returns every attempt on the quiz, creator only.
func (s *AttemptService) ListForQuiz(quizID string, userID uint) ([]model.Attempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.CreatedBy != userID {
		return nil, util.ErrPermissionDenied
	}
	return s.Repo.ListByQuiz(quizID)
}
