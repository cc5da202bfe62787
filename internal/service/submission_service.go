package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/model"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/repository"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/util"
)

type SubmissionService struct {
	Repo     *repository.SubmissionRepository
	QuizRepo *repository.QuizRepository
	Results  *ResultsService
}

func NewSubmissionService(repo *repository.SubmissionRepository, quizRepo *repository.QuizRepository, results *ResultsService) *SubmissionService {
	return &SubmissionService{Repo: repo, QuizRepo: quizRepo, Results: results}
}

type SubmissionAnswerReq struct {
	QuestionID    string  `json:"questionId"`
	SelectedIndex *int    `json:"selectedIndex"`
	ClickedMeshID *string `json:"clickedMeshId"`
	TextAnswer    *string `json:"textAnswer"`
}

type SubmissionReq struct {
	QuizID    string                `json:"quizId"`
	StudentID *string               `json:"studentId"`
	StudyYear int                   `json:"studyYearAtSubmission"`
	Answers   []SubmissionAnswerReq `json:"answers"`
}

// validateAnswerShape enforces the ingestion contract: an answer correlates
// to a known question and carries exactly the payload field that question's
// type expects. A student may skip questions, so fewer answers than
// questions is fine.
func validateAnswerShape(pos int, ar SubmissionAnswerReq, questionsByID map[string]model.Question) error {
	if ar.QuestionID == "" {
		return fmt.Errorf("%w: answer %d: questionId is required", util.ErrValidation, pos+1)
	}
	q, ok := questionsByID[ar.QuestionID]
	if !ok {
		return fmt.Errorf("%w: answer %d: references unknown question %s", util.ErrValidation, pos+1, ar.QuestionID)
	}

	set := 0
	if ar.SelectedIndex != nil {
		set++
	}
	if ar.ClickedMeshID != nil {
		set++
	}
	if ar.TextAnswer != nil {
		set++
	}
	if set > 1 {
		return fmt.Errorf("%w: answer %d: carries more than one answer payload", util.ErrValidation, pos+1)
	}

	// A payload of the wrong kind is rejected; no payload at all is a valid
	// "no answer" and the aggregator tallies it as such.
	switch {
	case ar.SelectedIndex != nil && !q.Type.IsChoice():
		return fmt.Errorf("%w: answer %d: selectedIndex is only valid for choice questions", util.ErrValidation, pos+1)
	case ar.ClickedMeshID != nil && q.Type != model.SelectOrgan:
		return fmt.Errorf("%w: answer %d: clickedMeshId is only valid for select-organ questions", util.ErrValidation, pos+1)
	case ar.TextAnswer != nil && q.Type != model.ShortAnswer:
		return fmt.Errorf("%w: answer %d: textAnswer is only valid for short-answer questions", util.ErrValidation, pos+1)
	}
	return nil
}

// Ingest stores one attempt. Submissions are append-only: once created they
// are never mutated, which keeps result aggregation deterministic.
func (s *SubmissionService) Ingest(ctx context.Context, req SubmissionReq) (*model.Submission, error) {
	quiz, err := s.QuizRepo.FindByID(req.QuizID)
	if err != nil {
		return nil, wrapQuizLookup(err)
	}

	questionsByID := make(map[string]model.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questionsByID[q.ID] = q
	}

	answers := make([]model.SubmissionAnswer, 0, len(req.Answers))
	for i, ar := range req.Answers {
		if err := validateAnswerShape(i, ar, questionsByID); err != nil {
			return nil, err
		}
		answers = append(answers, model.SubmissionAnswer{
			QuestionID:    ar.QuestionID,
			SelectedIndex: ar.SelectedIndex,
			ClickedMeshID: ar.ClickedMeshID,
			TextAnswer:    ar.TextAnswer,
		})
	}

	submission := &model.Submission{
		QuizID:      quiz.ID,
		StudentID:   req.StudentID,
		StudyYear:   req.StudyYear,
		SubmittedAt: time.Now(),
		Answers:     answers,
	}

	if err := s.Repo.Create(submission); err != nil {
		return nil, err
	}

	s.Results.InvalidateCache(ctx, quiz.ID)
	return submission, nil
}

func (s *SubmissionService) ListForQuiz(quizID string) ([]model.Submission, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		return nil, wrapQuizLookup(err)
	}
	return s.Repo.FindByQuiz(quizID)
}
