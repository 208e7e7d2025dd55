package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

type QuizService struct {
	Repo     *repository.QuizRepository
	RoleRepo *repository.QuizRoleRepository
	Cfg      *config.Config
	Redis    *redis.Client
}

func NewQuizService(repo *repository.QuizRepository, roleRepo *repository.QuizRoleRepository, cfg *config.Config, rdb *redis.Client) *QuizService {
	return &QuizService{Repo: repo, RoleRepo: roleRepo, Cfg: cfg, Redis: rdb}
}

type QuestionReq struct {
	QuestionType string         `json:"type"`
	QuestionText string         `json:"questionText" binding:"required"`
	Options      []model.Option `json:"options" binding:"required,min=2,max=6"`
	Points       int            `json:"points"`
	Required     bool           `json:"required"`
	TimeLimit    int            `json:"timeLimit"`
	Category     string         `json:"category"`
}

type CreateQuizReq struct {
	Title              string        `json:"title" binding:"required"`
	Description        string        `json:"description" binding:"required"`
	Questions          []QuestionReq `json:"questions" binding:"required,min=1"`
	TimeLimit          int           `json:"timeLimit"`
	IsPublished        *bool         `json:"isPublished"`
	ShowScore          *bool         `json:"showScore"`
	ShuffleQuestions   bool          `json:"shuffleQuestions"`
	ShuffleOptions     bool          `json:"shuffleOptions"`
	MaxAttempts        int           `json:"maxAttempts"`
	EmailResults       bool          `json:"emailResults"`
	AccessType         string        `json:"accessType"`
	Password           string        `json:"password"`
	RegistrationFields []string      `json:"registrationFields"`
}

type UpdateQuizReq struct {
	Title              *string        `json:"title"`
	Description        *string        `json:"description"`
	Questions          *[]QuestionReq `json:"questions"`
	TimeLimit          *int           `json:"timeLimit"`
	IsPublished        *bool         `json:"isPublished"`
	ShowScore          *bool         `json:"showScore"`
	ShuffleQuestions   *bool         `json:"shuffleQuestions"`
	ShuffleOptions     *bool         `json:"shuffleOptions"`
	MaxAttempts        *int          `json:"maxAttempts"`
	EmailResults       *bool         `json:"emailResults"`
	AccessType         *string       `json:"accessType"`
	Password           *string       `json:"password"`
	RegistrationFields *[]string     `json:"registrationFields"`
}

func buildQuestions(reqs []QuestionReq) ([]model.Question, int, error) {
	questions := make([]model.Question, 0, len(reqs))
	totalPoints := 0
	for i, qr := range reqs {
		points := qr.Points
		if points < 1 {
			points = 1
		}
		category := qr.Category
		if category == "" {
			category = "General"
		}
		questionType := qr.QuestionType
		if questionType == "" {
			questionType = "multiple-choice"
		}
		opts, err := json.Marshal(qr.Options)
		if err != nil {
			return nil, 0, err
		}
		questions = append(questions, model.Question{
			QuestionType: questionType,
			QuestionText: qr.QuestionText,
			Options:      opts,
			Points:       points,
			Required:     qr.Required,
			TimeLimit:    qr.TimeLimit,
			Category:     category,
			Position:     i,
		})
		totalPoints += points
	}
	return questions, totalPoints, nil
}

// Create inserts the quiz, mints its public link, hashes the passcode
// when password-gated and assigns the creator role.
func (s *QuizService) Create(creatorID uint, req CreateQuizReq) (*model.Quiz, error) {
	questions, totalPoints, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	accessType := model.AccessType(req.AccessType)
	if accessType == "" {
		accessType = model.AccessPublic
	}

	password := ""
	if accessType == model.AccessPassword && req.Password != "" {
		password, err = HashPasscode(req.Password)
		if err != nil {
			return nil, err
		}
	}

	isPublished := true
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}
	showScore := true
	if req.ShowScore != nil {
		showScore = *req.ShowScore
	}

	regFields, err := json.Marshal(req.RegistrationFields)
	if err != nil {
		return nil, err
	}

	publicURL := "/q/" + util.NewPublicID(10)
	quiz := &model.Quiz{
		Title:              req.Title,
		Description:        req.Description,
		CreatedBy:          creatorID,
		TotalPoints:        totalPoints,
		TimeLimit:          req.TimeLimit,
		IsPublished:        isPublished,
		ShowScore:          showScore,
		ShuffleQuestions:   req.ShuffleQuestions,
		ShuffleOptions:     req.ShuffleOptions,
		MaxAttempts:        req.MaxAttempts,
		EmailResults:       req.EmailResults,
		AccessType:         accessType,
		Password:           password,
		RegistrationFields: regFields,
		PublicURL:          publicURL,
		EmbedCode: fmt.Sprintf(
			`<iframe src="%s%s" width="100%%" height="600px" frameborder="0"></iframe>`,
			s.Cfg.App.BaseURL, publicURL),
		Questions: questions,
	}

	if err := s.Repo.Create(quiz); err != nil {
		return nil, err
	}

	role := &model.QuizRole{
		QuizID:     quiz.ID,
		UserID:     creatorID,
		Role:       model.RoleCreator,
		AssignedBy: creatorID,
	}
	if err := s.RoleRepo.Upsert(role); err != nil {
		return nil, err
	}

	return quiz, nil
}

func (s *QuizService) Get(id string) (*model.Quiz, error) {
	return s.Repo.FindByID(id)
}

// Update applies the patch. Replacing the question set recomputes
// totalPoints; the passcode lifecycle follows the access type:
// switching away from password clears it, a new non-empty passcode is
// re-hashed, an empty submission preserves the stored hash.
func (s *QuizService) Update(id string, req UpdateQuizReq) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}
	if req.ShowScore != nil {
		quiz.ShowScore = *req.ShowScore
	}
	if req.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.ShuffleOptions != nil {
		quiz.ShuffleOptions = *req.ShuffleOptions
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.EmailResults != nil {
		quiz.EmailResults = *req.EmailResults
	}
	if req.RegistrationFields != nil {
		regFields, err := json.Marshal(*req.RegistrationFields)
		if err != nil {
			return nil, err
		}
		quiz.RegistrationFields = regFields
	}

	if req.AccessType != nil {
		quiz.AccessType = model.AccessType(*req.AccessType)
	}
	if quiz.AccessType != model.AccessPassword {
		quiz.Password = ""
	} else if req.Password != nil && *req.Password != "" {
		hashed, err := HashPasscode(*req.Password)
		if err != nil {
			return nil, err
		}
		quiz.Password = hashed
	}

	if req.Questions != nil {
		questions, totalPoints, err := buildQuestions(*req.Questions)
		if err != nil {
			return nil, err
		}
		if err := s.Repo.ReplaceQuestions(quiz.ID, questions); err != nil {
			return nil, err
		}
		quiz.TotalPoints = totalPoints
		quiz.Questions = questions
	}

	if err := s.Repo.Update(quiz); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(quiz.PublicURL)
	return quiz, nil
}

func (s *QuizService) Delete(id string) error {
	quiz, err := s.Repo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidatePublicCache(quiz.PublicURL)
	return nil
}

func (s *QuizService) ListPublished() ([]model.Quiz, error) {
	return s.Repo.ListPublished()
}

func (s *QuizService) ListForUser(userID uint) ([]model.Quiz, error) {
	return s.Repo.ListForUser(userID)
}

type OptionView struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
	// IsCorrect is present only for viewers holding results access.
	IsCorrect *bool `json:"isCorrect,omitempty"`
}

type QuestionView struct {
	QuestionType string       `json:"type"`
	QuestionText string       `json:"questionText"`
	Options      []OptionView `json:"options"`
	Points       int          `json:"points"`
	Required     bool         `json:"required"`
	TimeLimit    int          `json:"timeLimit"`
	Category     string       `json:"category"`
	// OriginalIndex is the canonical index of the question in the quiz.
	// Submitted answers must reference it, never the display position,
	// so scoring stays correct under shuffled presentation.
	OriginalIndex int `json:"originalIndex"`
}

type QuizView struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	CreatedBy          uint            `json:"createdBy"`
	TotalPoints        int             `json:"totalPoints"`
	TimeLimit          int             `json:"timeLimit"`
	IsPublished        bool            `json:"isPublished"`
	ShowScore          bool            `json:"showScore"`
	ShuffleQuestions   bool            `json:"shuffleQuestions"`
	ShuffleOptions     bool            `json:"shuffleOptions"`
	MaxAttempts        int             `json:"maxAttempts"`
	AccessType         model.AccessType `json:"accessType"`
	RegistrationFields json.RawMessage `json:"registrationFields,omitempty"`
	PublicURL          string          `json:"publicUrl"`
	EmbedCode          string          `json:"embedCode"`
	Questions          []QuestionView  `json:"questions"`
}

// BuildView renders the quiz for one viewer. Answer keys are stripped
// unless the viewer holds results access. When shuffle is enabled and
// the viewer is taking (not reviewing), questions are presented in
// randomized order with OriginalIndex preserved. Options are always
// returned in canonical order: selectedOptionIndex is graded against
// that order, so any option shuffling is left to the client, which
// has the shuffleOptions flag.
func (s *QuizService) BuildView(quiz *model.Quiz, includeKeys bool, shuffled bool) (*QuizView, error) {
	questions := make([]QuestionView, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		opts, err := q.DecodeOptions()
		if err != nil {
			return nil, err
		}
		optViews := make([]OptionView, 0, len(opts))
		for _, opt := range opts {
			ov := OptionView{Text: opt.Text, Image: opt.Image}
			if includeKeys {
				isCorrect := opt.IsCorrect
				ov.IsCorrect = &isCorrect
			}
			optViews = append(optViews, ov)
		}
		questions = append(questions, QuestionView{
			QuestionType:  q.QuestionType,
			QuestionText:  q.QuestionText,
			Options:       optViews,
			Points:        q.Points,
			Required:      q.Required,
			TimeLimit:     q.TimeLimit,
			Category:      q.Category,
			OriginalIndex: i,
		})
	}

	if shuffled && quiz.ShuffleQuestions {
		shuffleQuestionViews(questions)
	}

	return &QuizView{
		ID:                 quiz.ID,
		Title:              quiz.Title,
		Description:        quiz.Description,
		CreatedBy:          quiz.CreatedBy,
		TotalPoints:        quiz.TotalPoints,
		TimeLimit:          quiz.TimeLimit,
		IsPublished:        quiz.IsPublished,
		ShowScore:          quiz.ShowScore,
		ShuffleQuestions:   quiz.ShuffleQuestions,
		ShuffleOptions:     quiz.ShuffleOptions,
		MaxAttempts:        quiz.MaxAttempts,
		AccessType:         quiz.AccessType,
		RegistrationFields: quiz.RegistrationFields,
		PublicURL:          quiz.PublicURL,
		EmbedCode:          quiz.EmbedCode,
		Questions:          questions,
	}, nil
}

func shuffleQuestionViews(questions []QuestionView) {
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

// PublicQuizView is the unauthenticated landing projection: no answer
// keys, no passcode material, just what the gate page needs.
type PublicQuizView struct {
	ID                 string           `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	AccessType         model.AccessType `json:"accessType"`
	RegistrationFields json.RawMessage  `json:"registrationFields,omitempty"`
	TimeLimit          int              `json:"timeLimit"`
	QuestionsCount     int              `json:"questionsCount"`
}

const publicQuizCacheTTL = 5 * time.Minute

// GetPublic resolves the landing projection by nanoid slug, serving
// from redis when warm.
func (s *QuizService) GetPublic(ctx context.Context, nanoid string) (*PublicQuizView, error) {
	cacheKey := "quiz:public:" + nanoid

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var view PublicQuizView
			if err := json.Unmarshal([]byte(cached), &view); err == nil {
				return &view, nil
			}
		}
	}

	quiz, err := s.Repo.FindByPublicURL("/q/" + nanoid)
	if err != nil {
		return nil, err
	}

	view := &PublicQuizView{
		ID:                 quiz.ID,
		Title:              quiz.Title,
		Description:        quiz.Description,
		AccessType:         quiz.AccessType,
		RegistrationFields: quiz.RegistrationFields,
		TimeLimit:          quiz.TimeLimit,
		QuestionsCount:     len(quiz.Questions),
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(view); err == nil {
			s.Redis.Set(ctx, cacheKey, payload, publicQuizCacheTTL)
		}
	}

	return view, nil
}

func (s *QuizService) invalidatePublicCache(publicURL string) {
	if s.Redis == nil || len(publicURL) <= len("/q/") {
		return
	}
	s.Redis.Del(context.Background(), "quiz:public:"+publicURL[len("/q/"):])
}
