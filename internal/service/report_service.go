package service

import (
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"gorm.io/gorm"
)

type ReportService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
}

func NewReportService(quizRepo *repository.QuizRepository, attemptRepo *repository.AttemptRepository) *ReportService {
	return &ReportService{QuizRepo: quizRepo, AttemptRepo: attemptRepo}
}

// CategoryPerformance aggregates one category across all attempts.
// Total is the maximum attainable score for the category, computed from
// the quiz's current question set rather than attempt snapshots.
type CategoryPerformance struct {
	Total int `json:"total"`
	Score int `json:"score"`
	Count int `json:"count"`
}

type QuizReport struct {
	Quiz                *model.Quiz                    `json:"quiz"`
	Attempts            []model.Attempt                `json:"attempts"`
	TotalAttempts       int                            `json:"totalAttempts"`
	CompletedAttempts   int                            `json:"completedAttempts"`
	ActiveAttempts      int                            `json:"activeAttempts"`
	AveragePercentage   float64                        `json:"averagePercentage"`
	CategoryPerformance map[string]CategoryPerformance `json:"categoryPerformance"`
}

// Build assembles the creator-only aggregate view for a quiz.
func (s *ReportService) Build(quizID string, userID uint) (*QuizReport, error) {
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

	attempts, err := s.AttemptRepo.ListByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	report := &QuizReport{
		Quiz:                quiz,
		Attempts:            attempts,
		TotalAttempts:       len(attempts),
		CategoryPerformance: map[string]CategoryPerformance{},
	}

	// Max attainable points per category, from the current question set.
	categoryTotals := map[string]int{}
	for _, q := range quiz.Questions {
		category := q.Category
		if category == "" {
			category = "General"
		}
		points := q.Points
		if points < 1 {
			points = 1
		}
		categoryTotals[category] += points
	}
	for category, total := range categoryTotals {
		report.CategoryPerformance[category] = CategoryPerformance{Total: total}
	}

	percentageSum := 0.0
	for i := range attempts {
		attempt := &attempts[i]
		switch attempt.Status {
		case model.AttemptCompleted:
			report.CompletedAttempts++
			percentageSum += attempt.Percentage
		case model.AttemptActive:
			report.ActiveAttempts++
		}

		scores, err := attempt.DecodeCategoryScores()
		if err != nil {
			continue // malformed snapshot, skip rather than fail the report
		}
		for category, score := range scores {
			perf := report.CategoryPerformance[category]
			perf.Score += score
			perf.Count++
			report.CategoryPerformance[category] = perf
		}
	}

	if report.CompletedAttempts > 0 {
		report.AveragePercentage = percentageSum / float64(report.CompletedAttempts)
	}

	return report, nil
}

// Leaderboard returns the platform-wide top takers, ranked by total
// score over completed attempts.
func (s *ReportService) Leaderboard(limit int) ([]repository.LeaderboardRow, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.AttemptRepo.Leaderboard(limit)
}
