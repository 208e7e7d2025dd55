package service

import (
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
)

// DenyReason classifies why take-access was refused, so the caller can
// prompt for a passcode or offer a request-access action instead of a
// blanket denial.
type DenyReason string

const (
	DenyNone             DenyReason = ""
	DenyForbidden        DenyReason = "forbidden"
	DenyPasswordRequired DenyReason = "password_required"
	DenyApprovalRequired DenyReason = "approval_required"
)

// AccessDecision is the admission verdict for one user on one quiz. The
// same decision is consumed by the quiz fetch, save-progress and submit
// paths, so all three entry points admit identically.
type AccessDecision struct {
	IsCreator bool

	// Raw capabilities.
	CanViewResults      bool // creator/teacher/monitor: sees answer keys and results
	HasRoleToTake       bool // explicit role granting take access
	CanTakeByAccessType bool // admitted by the quiz's access mode alone

	// Final admissions.
	CanView bool
	CanTake bool

	Reason DenyReason // why CanTake is false; DenyNone when it is true
}

// EvaluateAccess decides what the user may do with the quiz. role may be
// nil (no explicit assignment); passcode is the raw header value, if any.
//
// Access-mode admission requires the quiz to be published and never
// applies to approval-gated quizzes, which admit only through an
// explicit role.
func EvaluateAccess(userID uint, quiz *model.Quiz, role *model.QuizRole, passcode string) AccessDecision {
	d := AccessDecision{}
	d.IsCreator = quiz.CreatedBy == userID

	var roleName model.QuizRoleName
	if role != nil {
		roleName = role.Role
	}

	d.CanViewResults = d.IsCreator || roleName.HasPermission(model.PermViewResults)
	d.HasRoleToTake = d.IsCreator || roleName.HasPermission(model.PermTakeQuiz)

	passcodeOK := true
	if quiz.AccessType == model.AccessPassword {
		passcodeOK = ParseStoredPasscode(quiz.Password).Verify(passcode)
	}
	d.CanTakeByAccessType = quiz.IsPublished &&
		quiz.AccessType != model.AccessApproval &&
		passcodeOK

	d.CanTake = d.HasRoleToTake || d.CanTakeByAccessType
	d.CanView = d.CanViewResults || d.CanTake

	if !d.CanTake {
		switch {
		case quiz.AccessType == model.AccessPassword && quiz.IsPublished && !passcodeOK:
			d.Reason = DenyPasswordRequired
		case quiz.AccessType == model.AccessApproval && quiz.IsPublished:
			d.Reason = DenyApprovalRequired
		default:
			d.Reason = DenyForbidden
		}
	}

	return d
}

// AccessService resolves a user's role and evaluates quiz access.
type AccessService struct {
	RoleRepo *repository.QuizRoleRepository
}

func NewAccessService(roleRepo *repository.QuizRoleRepository) *AccessService {
	return &AccessService{RoleRepo: roleRepo}
}

// Evaluate looks up the user's role on the quiz and runs EvaluateAccess.
func (s *AccessService) Evaluate(userID uint, quiz *model.Quiz, passcode string) (AccessDecision, error) {
	role, err := s.RoleRepo.FindOrNil(quiz.ID, userID)
	if err != nil {
		return AccessDecision{}, err
	}
	return EvaluateAccess(userID, quiz, role, passcode), nil
}

// HasPermission reports whether the user holds a role granting the
// permission on the quiz. The creator implicitly holds everything.
func (s *AccessService) HasPermission(userID uint, quiz *model.Quiz, perm model.Permission) (bool, error) {
	if quiz.CreatedBy == userID {
		return true, nil
	}
	role, err := s.RoleRepo.FindOrNil(quiz.ID, userID)
	if err != nil {
		return false, err
	}
	if role == nil {
		return false, nil
	}
	return role.Role.HasPermission(perm), nil
}
