package service

import (
	"fmt"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
)

type AccessRequestService struct {
	Repo             *repository.AccessRequestRepository
	RoleRepo         *repository.QuizRoleRepository
	NotificationRepo *repository.NotificationRepository
}

func NewAccessRequestService(repo *repository.AccessRequestRepository, roleRepo *repository.QuizRoleRepository, notificationRepo *repository.NotificationRepository) *AccessRequestService {
	return &AccessRequestService{Repo: repo, RoleRepo: roleRepo, NotificationRepo: notificationRepo}
}

// Request upserts the caller's access request back to pending (a prior
// denial is overwritten, not duplicated) and notifies the quiz creator.
// Only published, approval-gated quizzes accept requests.
func (s *AccessRequestService) Request(quiz *model.Quiz, userID uint, name string) (*model.QuizAccessRequest, error) {
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}
	if quiz.AccessType != model.AccessApproval {
		return nil, util.ErrApprovalNotRequired
	}
	if name == "" {
		name = "Participant"
	}

	req, err := s.Repo.UpsertPending(quiz.ID, userID, name)
	if err != nil {
		return nil, err
	}

	if quiz.CreatedBy != userID {
		_ = s.NotificationRepo.Create(&model.Notification{
			Recipient: quiz.CreatedBy,
			Type:      model.NotificationAccessRequest,
			Title:     "New Access Request",
			Message:   fmt.Sprintf("%s has requested access to %q", name, quiz.Title),
			Link:      fmt.Sprintf("/quizzes/%s/access", quiz.ID),
		})
	}

	return req, nil
}

// ListPending returns the quiz's pending requests, newest first.
func (s *AccessRequestService) ListPending(quizID string) ([]model.QuizAccessRequest, error) {
	return s.Repo.ListPending(quizID)
}

// Decide applies an approve/deny decision. Approval grants a student
// role without downgrading a higher one; denial removes only a student
// role. Status update and role side-effect commit atomically.
func (s *AccessRequestService) Decide(quiz *model.Quiz, requestID string, approve bool, decidedBy uint) (*model.QuizAccessRequest, error) {
	req, err := s.Repo.FindByID(requestID)
	if err != nil {
		return nil, util.ErrRequestNotFound
	}
	if req.QuizID != quiz.ID {
		return nil, util.ErrRequestQuizMismatch
	}

	if err := s.Repo.Decide(req, approve, decidedBy); err != nil {
		return nil, err
	}
	return req, nil
}

// MyStatus reports the caller's request status, request name and role on
// the quiz, defaulting to "none" and empty values when nothing exists.
type MyRequestStatus struct {
	RequestStatus string  `json:"requestStatus"`
	RequestName   *string `json:"requestName"`
	Role          *string `json:"role"`
}

func (s *AccessRequestService) MyStatus(quizID string, userID uint) (*MyRequestStatus, error) {
	status := &MyRequestStatus{RequestStatus: "none"}

	req, err := s.Repo.FindOrNil(quizID, userID)
	if err != nil {
		return nil, err
	}
	if req != nil {
		status.RequestStatus = req.Status
		status.RequestName = &req.Name
	}

	role, err := s.RoleRepo.FindOrNil(quizID, userID)
	if err != nil {
		return nil, err
	}
	if role != nil {
		roleName := string(role.Role)
		status.Role = &roleName
	}

	return status, nil
}
