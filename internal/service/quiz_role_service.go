package service

import (
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"gorm.io/gorm"
)

type QuizRoleService struct {
	Repo     *repository.QuizRoleRepository
	UserRepo *repository.UserRepository
}

func NewQuizRoleService(repo *repository.QuizRoleRepository, userRepo *repository.UserRepository) *QuizRoleService {
	return &QuizRoleService{Repo: repo, UserRepo: userRepo}
}

// List returns the quiz's role assignments. When no explicit creator row
// exists, one is synthesized from quiz.CreatedBy for display; it is
// never written back, so listing stays free of side effects.
func (s *QuizRoleService) List(quiz *model.Quiz) ([]model.QuizRole, error) {
	roles, err := s.Repo.ListByQuiz(quiz.ID)
	if err != nil {
		return nil, err
	}

	hasCreator := false
	for _, r := range roles {
		if r.UserID == quiz.CreatedBy || r.Role == model.RoleCreator {
			hasCreator = true
			break
		}
	}
	if !hasCreator {
		creator, err := s.UserRepo.FindByID(quiz.CreatedBy)
		if err == nil {
			synthesized := model.QuizRole{
				QuizID:     quiz.ID,
				UserID:     creator.ID,
				User:       creator,
				Role:       model.RoleCreator,
				AssignedBy: creator.ID,
			}
			synthesized.ID = "creator-" + quiz.ID
			synthesized.CreatedAt = quiz.CreatedAt
			roles = append([]model.QuizRole{synthesized}, roles...)
		}
	}

	return roles, nil
}

// Assign grants a role to the user with the given email, overwriting any
// existing assignment for the pair.
func (s *QuizRoleService) Assign(quiz *model.Quiz, email string, roleName model.QuizRoleName, assignedBy uint) (*model.QuizRole, error) {
	user, err := s.UserRepo.FindByEmailFold(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	role := &model.QuizRole{
		QuizID:     quiz.ID,
		UserID:     user.ID,
		Role:       roleName,
		AssignedBy: assignedBy,
	}
	if err := s.Repo.Upsert(role); err != nil {
		return nil, err
	}
	role.User = user
	return role, nil
}

// Remove drops the user's role on the quiz. The creator cannot be removed.
func (s *QuizRoleService) Remove(quiz *model.Quiz, userID uint) error {
	role, err := s.Repo.FindOrNil(quiz.ID, userID)
	if err != nil {
		return err
	}
	if role != nil && role.Role == model.RoleCreator {
		return util.ErrCannotRemoveCreator
	}
	return s.Repo.Delete(quiz.ID, userID)
}
