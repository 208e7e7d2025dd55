package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// Create inserts the quiz together with its questions in one transaction.
func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&quiz, "id = ?", id).Error
	return &quiz, err
}

func (r *QuizRepository) FindByPublicURL(publicURL string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("public_url = ?", publicURL).First(&quiz).Error
	return &quiz, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Omit("Questions").Save(quiz).Error
}

// ReplaceQuestions swaps the quiz's question set for the given one,
// renumbering positions from 0 in the order supplied.
func (r *QuizRepository) ReplaceQuestions(quizID string, questions []model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ID = ""
			questions[i].QuizID = quizID
			questions[i].Position = i
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the quiz and everything hanging off it.
func (r *QuizRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizAccessRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, "id = ?", id).Error
	})
}

// ListPublished returns published quizzes, newest first, without questions.
func (r *QuizRepository) ListPublished() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("is_published = ?", true).Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

// ListForUser returns quizzes the user created or holds a role on,
// newest first, without questions.
func (r *QuizRepository) ListForUser(userID uint) ([]model.Quiz, error) {
	var quizIDs []string
	if err := r.DB.Model(&model.QuizRole{}).
		Where("user_id = ?", userID).
		Pluck("quiz_id", &quizIDs).Error; err != nil {
		return nil, err
	}

	var quizzes []model.Quiz
	err := r.DB.Where("created_by = ? OR id IN ?", userID, quizIDs).
		Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}
