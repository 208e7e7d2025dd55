package repository

import (
	"time"

	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type AccessRequestRepository struct {
	DB *gorm.DB
}

func NewAccessRequestRepository(db *gorm.DB) *AccessRequestRepository {
	return &AccessRequestRepository{DB: db}
}

func (r *AccessRequestRepository) FindByID(id string) (*model.QuizAccessRequest, error) {
	var req model.QuizAccessRequest
	err := r.DB.First(&req, "id = ?", id).Error
	return &req, err
}

// FindOrNil returns the user's request on the quiz, or nil when none exists.
func (r *AccessRequestRepository) FindOrNil(quizID string, userID uint) (*model.QuizAccessRequest, error) {
	var req model.QuizAccessRequest
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&req).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpsertPending creates the request or resets an existing one (including
// a prior denial) back to pending, clearing the decision metadata.
func (r *AccessRequestRepository) UpsertPending(quizID string, userID uint, name string) (*model.QuizAccessRequest, error) {
	var req model.QuizAccessRequest
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&req).Error
		if err == gorm.ErrRecordNotFound {
			req = model.QuizAccessRequest{
				QuizID: quizID,
				UserID: userID,
				Name:   name,
				Status: model.RequestPending,
			}
			return tx.Create(&req).Error
		}
		if err != nil {
			return err
		}
		req.Name = name
		req.Status = model.RequestPending
		req.DecidedBy = nil
		req.DecidedAt = nil
		return tx.Save(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Decide records the approve/deny outcome and applies the student-role
// side effect in the same transaction, so the persisted status and the
// role state cannot drift apart.
func (r *AccessRequestRepository) Decide(req *model.QuizAccessRequest, approve bool, decidedBy uint) error {
	now := time.Now()
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if approve {
			req.Status = model.RequestApproved
		} else {
			req.Status = model.RequestDenied
		}
		req.DecidedBy = &decidedBy
		req.DecidedAt = &now
		if err := tx.Save(req).Error; err != nil {
			return err
		}

		if approve {
			// Grant take access via a student role, but never downgrade
			// an existing higher role.
			return grantRoleIfAbsent(tx, &model.QuizRole{
				QuizID:     req.QuizID,
				UserID:     req.UserID,
				Role:       model.RoleStudent,
				AssignedBy: decidedBy,
			})
		}

		return revokeStudentRole(tx, req.QuizID, req.UserID)
	})
}

// ListPending returns the quiz's pending requests with requester details,
// newest first.
func (r *AccessRequestRepository) ListPending(quizID string) ([]model.QuizAccessRequest, error) {
	var requests []model.QuizAccessRequest
	err := r.DB.Preload("User").
		Where("quiz_id = ? AND status = ?", quizID, model.RequestPending).
		Order("created_at desc").Find(&requests).Error
	return requests, err
}
