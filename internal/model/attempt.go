package model

import (
	"encoding/json"
	"time"
)

const (
	AttemptActive    = "active"
	AttemptCompleted = "completed"
)

// Answer references the canonical question index of the quiz, regardless
// of any shuffled presentation order the learner actually saw.
type Answer struct {
	QuestionIndex       int `json:"questionIndex"`
	SelectedOptionIndex int `json:"selectedOptionIndex"`
}

// swagger:model Attempt
type Attempt struct {
	UUIDBase
	QuizID string `gorm:"index:idx_attempt_quiz_user,priority:1;size:36;not null" json:"quizId"`
	UserID uint   `gorm:"index:idx_attempt_quiz_user,priority:2;not null" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Answers json.RawMessage `gorm:"type:json" json:"answers"` // []Answer

	Score       int     `gorm:"default:0" json:"score"`
	TotalPoints int     `gorm:"default:0" json:"totalPoints"` // snapshot at submission time
	Percentage  float64 `gorm:"default:0" json:"percentage"`
	// CategoryScores maps a question category to the points earned in it.
	CategoryScores json.RawMessage `gorm:"type:json" json:"categoryScores"` // map[string]int

	TimeTaken   int        `gorm:"default:0" json:"timeTaken"` // seconds
	Status      string     `gorm:"size:20;default:'active'" json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	// AttemptNumber is 1 + the number of completed attempts the user had
	// on this quiz when the attempt was submitted. Together with the
	// quiz/user pair it gives a natural uniqueness key.
	AttemptNumber int `gorm:"index:idx_attempt_quiz_user,priority:3;default:1" json:"attemptNumber"`

	RegistrationData json.RawMessage `gorm:"type:json" json:"registrationData,omitempty"` // map[string]string
}

func (Attempt) TableName() string {
	return "attempts"
}

// DecodeAnswers unmarshals the stored answer list.
func (a *Attempt) DecodeAnswers() ([]Answer, error) {
	if len(a.Answers) == 0 {
		return []Answer{}, nil
	}
	var answers []Answer
	if err := json.Unmarshal(a.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// DecodeCategoryScores unmarshals the stored per-category subtotals.
func (a *Attempt) DecodeCategoryScores() (map[string]int, error) {
	scores := map[string]int{}
	if len(a.CategoryScores) == 0 {
		return scores, nil
	}
	if err := json.Unmarshal(a.CategoryScores, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}
