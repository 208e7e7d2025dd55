package model

import "time"

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestDenied   = "denied"
)

// QuizAccessRequest tracks one user's request to take an approval-gated
// quiz. Unique per (quiz, user); re-requesting resets the status back to
// pending instead of creating a second row.
// swagger:model QuizAccessRequest
type QuizAccessRequest struct {
	UUIDBase
	QuizID string `gorm:"uniqueIndex:idx_request_quiz_user;size:36;not null" json:"quizId"`
	UserID uint   `gorm:"uniqueIndex:idx_request_quiz_user;not null" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	// Name is the requester-supplied display name shown to the approver.
	Name      string     `gorm:"size:100;not null" json:"name"`
	Status    string     `gorm:"size:20;default:'pending'" json:"status"`
	DecidedBy *uint      `json:"decidedBy,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
}

func (QuizAccessRequest) TableName() string {
	return "quiz_access_requests"
}
