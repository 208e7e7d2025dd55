package model

import "encoding/json"

type AccessType string

const (
	AccessPublic       AccessType = "public"
	AccessPassword     AccessType = "password"
	AccessRegistration AccessType = "registration"
	AccessApproval     AccessType = "approval"
)

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CreatedBy   uint   `gorm:"index;not null" json:"createdBy"`

	TotalPoints int  `gorm:"default:0" json:"totalPoints"`
	TimeLimit   int  `gorm:"default:0" json:"timeLimit"` // minutes, 0 = unlimited
	IsPublished bool `gorm:"default:false" json:"isPublished"`

	ShowScore        bool `gorm:"default:true" json:"showScore"`
	ShuffleQuestions bool `gorm:"default:false" json:"shuffleQuestions"`
	ShuffleOptions   bool `gorm:"default:false" json:"shuffleOptions"`
	MaxAttempts      int  `gorm:"default:0" json:"maxAttempts"` // 0 = unlimited
	EmailResults     bool `gorm:"default:false" json:"emailResults"`

	AccessType AccessType `gorm:"size:20;default:'public'" json:"accessType"`
	// Password is a bcrypt hash for quizzes created through this server,
	// or legacy plaintext for records imported from the old platform.
	Password           string          `gorm:"size:100" json:"-"`
	RegistrationFields json.RawMessage `gorm:"type:json" json:"registrationFields,omitempty"` // []string, e.g. ["studentId","class"]

	PublicURL string `gorm:"size:64;uniqueIndex" json:"publicUrl"`
	EmbedCode string `gorm:"type:text" json:"embedCode"`

	Questions []Question `gorm:"foreignKey:QuizID;references:ID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	UUIDBase
	QuizID       string          `gorm:"index;size:36;not null" json:"quizId"`
	QuestionType string          `gorm:"size:50;default:'multiple-choice'" json:"type"` // multiple-choice, picture-choice
	QuestionText string          `gorm:"type:text;not null" json:"questionText"`
	Options      json.RawMessage `gorm:"type:json" json:"options"` // []Option
	Points       int             `gorm:"default:1" json:"points"`
	Required     bool            `gorm:"default:false" json:"required"`
	TimeLimit    int             `gorm:"default:0" json:"timeLimit"` // seconds, 0 = unlimited
	Category     string          `gorm:"size:100;default:'General'" json:"category"`
	// Position is the canonical index of the question within the quiz.
	// Attempts are always scored against it, never against display order.
	Position int `gorm:"default:0" json:"position"`
}

func (Question) TableName() string {
	return "quiz_questions"
}

type Option struct {
	Text      string `json:"text"`
	Image     string `json:"image,omitempty"`
	IsCorrect bool   `json:"isCorrect"`
}

// DecodeOptions unmarshals the stored option list. A question with
// no stored options decodes to an empty slice, not an error.
func (q *Question) DecodeOptions() ([]Option, error) {
	if len(q.Options) == 0 {
		return []Option{}, nil
	}
	var opts []Option
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}
