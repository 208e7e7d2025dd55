package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRoleRepository struct {
	DB *gorm.DB
}

func NewQuizRoleRepository(db *gorm.DB) *QuizRoleRepository {
	return &QuizRoleRepository{DB: db}
}

// Find returns the user's role on the quiz, or gorm.ErrRecordNotFound.
func (r *QuizRoleRepository) Find(quizID string, userID uint) (*model.QuizRole, error) {
	var role model.QuizRole
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&role).Error
	return &role, err
}

// FindOrNil is Find with the not-found case flattened to nil, for
// callers that treat "no role" as a normal state rather than an error.
func (r *QuizRoleRepository) FindOrNil(quizID string, userID uint) (*model.QuizRole, error) {
	role, err := r.Find(quizID, userID)
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

// Upsert assigns the role, overwriting any existing assignment for the
// same (quiz, user) pair.
func (r *QuizRoleRepository) Upsert(role *model.QuizRole) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.QuizRole
		err := tx.Where("quiz_id = ? AND user_id = ?", role.QuizID, role.UserID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(role).Error
		}
		if err != nil {
			return err
		}
		existing.Role = role.Role
		existing.AssignedBy = role.AssignedBy
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*role = existing
		return nil
	})
}

// grantRoleIfAbsent inserts the role only when the user has no role on
// the quiz yet. An existing assignment, whatever its tier, is left alone.
func grantRoleIfAbsent(tx *gorm.DB, role *model.QuizRole) error {
	var existing model.QuizRole
	err := tx.Where("quiz_id = ? AND user_id = ?", role.QuizID, role.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(role).Error
	}
	return err
}

// revokeStudentRole removes only a student grant, preserving teacher and
// creator assignments for the same user.
func revokeStudentRole(tx *gorm.DB, quizID string, userID uint) error {
	return tx.Where("quiz_id = ? AND user_id = ? AND role = ?",
		quizID, userID, model.RoleStudent).Delete(&model.QuizRole{}).Error
}

func (r *QuizRoleRepository) Delete(quizID string, userID uint) error {
	return r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).Delete(&model.QuizRole{}).Error
}

// ListByQuiz returns the quiz's role assignments with users joined in.
func (r *QuizRoleRepository) ListByQuiz(quizID string) ([]model.QuizRole, error) {
	var roles []model.QuizRole
	err := r.DB.Preload("User").Where("quiz_id = ?", quizID).Order("created_at asc").Find(&roles).Error
	return roles, err
}
