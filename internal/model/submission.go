package model

import "time"

// Submission is one completed quiz attempt sent by the 3D client. Rows are
// append-only: there are no update or delete endpoints, so every aggregation
// is a deterministic function of the stored records.
// swagger:model Submission
type Submission struct {
	UUIDBase
	QuizID      string             `gorm:"index;type:varchar(36);not null" json:"quizId"`
	StudentID   *string            `gorm:"size:64" json:"studentId,omitempty"`
	StudyYear   int                `gorm:"not null" json:"studyYearAtSubmission"`
	SubmittedAt time.Time          `json:"submittedAt"`
	Answers     []SubmissionAnswer `gorm:"foreignKey:SubmissionID" json:"answers"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SubmissionAnswer carries exactly one of the three payload fields, matching
// the type of the question it correlates to. Ingestion validates the shape;
// the aggregator tolerates anything and treats a missing payload as
// "no answer".
// swagger:model SubmissionAnswer
type SubmissionAnswer struct {
	UUIDBase
	SubmissionID string `gorm:"index;type:varchar(36)" json:"submissionId"`
	QuestionID   string `gorm:"index;type:varchar(36);not null" json:"questionId"`

	SelectedIndex *int    `json:"selectedIndex,omitempty"` // choice questions
	ClickedMeshID *string `gorm:"type:varchar(36)" json:"clickedMeshId,omitempty"` // select-organ
	TextAnswer    *string `gorm:"type:text" json:"textAnswer,omitempty"` // short-answer
}

func (SubmissionAnswer) TableName() string {
	return "submission_answers"
}
