package model

import "time"

// QuestionType enumerates the four supported question kinds. Correctness
// resolution dispatches on this value, so the set is closed.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	SelectOrgan    QuestionType = "select-organ"
	ShortAnswer    QuestionType = "short-answer"
)

// IsChoice reports whether the question carries a predefined answer list.
func (t QuestionType) IsChoice() bool {
	return t == MultipleChoice || t == TrueFalse
}

// Valid reports whether t is one of the four known kinds.
func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, TrueFalse, SelectOrgan, ShortAnswer:
		return true
	}
	return false
}

// TargetType says what a select-organ question's TargetID points at.
type TargetType string

const (
	TargetMesh  TargetType = "mesh"
	TargetGroup TargetType = "group"
)

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	StudyYear   int        `gorm:"index;not null" json:"studyYear"`
	ScheduledAt *time.Time `gorm:"index" json:"scheduledAt,omitempty"`
	Questions   []Question `gorm:"foreignKey:QuizID" json:"questions"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	UUIDBase
	QuizID   string       `gorm:"index;type:varchar(36)" json:"quizId"`
	Type     QuestionType `gorm:"size:32;not null" json:"type"`
	Text     string       `gorm:"type:text;not null" json:"text"`
	Position int          `gorm:"default:0" json:"position"`

	// Select-organ only: the catalog entity the student must click.
	TargetType TargetType `gorm:"size:16" json:"targetType,omitempty"`
	TargetID   string     `gorm:"type:varchar(36)" json:"targetId,omitempty"`

	// Choice types only; order carries the index submissions refer to.
	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Answer
type Answer struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36)" json:"questionId"`
	Text       string `gorm:"size:512;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Position   int    `gorm:"default:0" json:"position"`
}

func (Answer) TableName() string {
	return "answers"
}
