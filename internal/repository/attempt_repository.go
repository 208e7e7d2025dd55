package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.First(&attempt, "id = ?", id).Error
	return &attempt, err
}

// CountCompleted counts the user's completed attempts on the quiz; this
// feeds both the attempt-limit check and the attempt numbering.
func (r *AttemptRepository) CountCompleted(quizID string, userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("quiz_id = ? AND user_id = ? AND status = ?", quizID, userID, model.AttemptCompleted).
		Count(&count).Error
	return count, err
}

// UpsertActive overwrites the user's single in-progress attempt on the
// quiz, creating it when absent. Last write wins; partial answer sets
// are not merged.
func (r *AttemptRepository) UpsertActive(attempt *model.Attempt) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Attempt
		err := tx.Where("quiz_id = ? AND user_id = ? AND status = ?",
			attempt.QuizID, attempt.UserID, model.AttemptActive).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(attempt).Error
		}
		if err != nil {
			return err
		}
		existing.Answers = attempt.Answers
		existing.TimeTaken = attempt.TimeTaken
		existing.RegistrationData = attempt.RegistrationData
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*attempt = existing
		return nil
	})
}

// ListByUser returns the caller's attempts, newest first.
func (r *AttemptRepository) ListByUser(userID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&attempts).Error
	return attempts, err
}

// LeaderboardRow is one user's aggregate standing across all quizzes.
type LeaderboardRow struct {
	UserID        uint    `json:"userId"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	TotalScore    int     `json:"totalScore"`
	AvgPercentage float64 `json:"avgPercentage"`
	AttemptCount  int     `json:"attemptCount"`
}

// Leaderboard ranks users by total score over completed attempts.
func (r *AttemptRepository) Leaderboard(limit int) ([]LeaderboardRow, error) {
	rows := []LeaderboardRow{}
	err := r.DB.Model(&model.Attempt{}).
		Select("attempts.user_id AS user_id, users.name AS name, users.email AS email, " +
			"SUM(attempts.score) AS total_score, AVG(attempts.percentage) AS avg_percentage, " +
			"COUNT(*) AS attempt_count").
		Joins("JOIN users ON users.id = attempts.user_id").
		Where("attempts.status = ?", model.AttemptCompleted).
		Group("attempts.user_id, users.name, users.email").
		Order("total_score DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ListByQuiz returns every attempt on the quiz with the taker joined in,
// newest first.
func (r *AttemptRepository) ListByQuiz(quizID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Preload("User").
		Where("quiz_id = ?", quizID).Order("created_at desc").Find(&attempts).Error
	return attempts, err
}
