package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/model"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/repository"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/util"
)

type QuizService struct {
	Repo    *repository.QuizRepository
	Results *ResultsService
}

func NewQuizService(repo *repository.QuizRepository, results *ResultsService) *QuizService {
	return &QuizService{Repo: repo, Results: results}
}

type AnswerReq struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionReq struct {
	Type       model.QuestionType `json:"type"`
	Text       string             `json:"text"`
	TargetType model.TargetType   `json:"targetType"`
	TargetID   string             `json:"targetId"`
	Answers    []AnswerReq        `json:"answers"`
}

type QuizReq struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	StudyYear   *int           `json:"studyYear"`
	ScheduledAt *time.Time     `json:"scheduledAt"`
	Questions   *[]QuestionReq `json:"questions"`
}

// ValidateQuestion checks the type-specific fields each question kind
// requires. The aggregator tolerates broken data defensively, but authoring
// refuses to store it in the first place.
func ValidateQuestion(pos int, q QuestionReq) error {
	if !q.Type.Valid() {
		return fmt.Errorf("%w: question %d: unknown type %q", util.ErrValidation, pos+1, q.Type)
	}
	if q.Text == "" {
		return fmt.Errorf("%w: question %d: text is required", util.ErrValidation, pos+1)
	}
	switch {
	case q.Type.IsChoice():
		if len(q.Answers) == 0 {
			return fmt.Errorf("%w: question %d: %s questions need at least one answer option", util.ErrValidation, pos+1, q.Type)
		}
	case q.Type == model.SelectOrgan:
		if q.TargetType != model.TargetMesh && q.TargetType != model.TargetGroup {
			return fmt.Errorf("%w: question %d: targetType must be %q or %q", util.ErrValidation, pos+1, model.TargetMesh, model.TargetGroup)
		}
		if !util.IsWellFormedID(q.TargetID) {
			return fmt.Errorf("%w: question %d: targetId is not a well-formed id", util.ErrValidation, pos+1)
		}
	}
	return nil
}

func (s *QuizService) buildQuestions(quizID string, reqs []QuestionReq) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(reqs))
	for i, qr := range reqs {
		if err := ValidateQuestion(i, qr); err != nil {
			return nil, err
		}
		q := model.Question{
			QuizID:   quizID,
			Type:     qr.Type,
			Text:     qr.Text,
			Position: i,
		}
		if qr.Type == model.SelectOrgan {
			q.TargetType = qr.TargetType
			q.TargetID = qr.TargetID
		}
		if qr.Type.IsChoice() {
			answers := make([]model.Answer, 0, len(qr.Answers))
			for j, ar := range qr.Answers {
				if ar.Text == "" {
					return nil, fmt.Errorf("%w: question %d: answer %d has no text", util.ErrValidation, i+1, j+1)
				}
				answers = append(answers, model.Answer{
					Text:      ar.Text,
					IsCorrect: ar.IsCorrect,
					Position:  j,
				})
			}
			q.Answers = answers
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (s *QuizService) CreateQuiz(req QuizReq) (*model.Quiz, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	if req.StudyYear == nil {
		return nil, fmt.Errorf("%w: studyYear is required", util.ErrValidation)
	}
	if req.Questions == nil || len(*req.Questions) == 0 {
		return nil, fmt.Errorf("%w: a quiz needs at least one question", util.ErrValidation)
	}

	quiz := &model.Quiz{
		Title:     *req.Title,
		StudyYear: *req.StudyYear,
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	quiz.ScheduledAt = req.ScheduledAt

	questions, err := s.buildQuestions("", *req.Questions)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions

	if err := s.Repo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// wrapQuizLookup maps the gorm not-found sentinel onto the service-level
// one so controllers never import gorm.
func wrapQuizLookup(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQuizNotFound
	}
	return err
}

func (s *QuizService) GetQuiz(id string) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, wrapQuizLookup(err)
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzes(studyYear *int) ([]model.Quiz, error) {
	return s.Repo.List(studyYear)
}

// ListSchedule returns the quizzes scheduled within one calendar month, for
// the teacher's planning view.
func (s *QuizService) ListSchedule(year int, month time.Month) ([]model.Quiz, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	return s.Repo.ListScheduledBetween(from, to)
}

// UpdateQuiz patches scalar fields and, when a question list is supplied,
// replaces the whole list after re-validating it. Cached results for the
// quiz are invalidated because question identity may have changed.
func (s *QuizService) UpdateQuiz(ctx context.Context, id string, req QuizReq) (*model.Quiz, error) {
	quiz, err := s.GetQuiz(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", util.ErrValidation)
		}
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.StudyYear != nil {
		quiz.StudyYear = *req.StudyYear
	}
	if req.ScheduledAt != nil {
		quiz.ScheduledAt = req.ScheduledAt
	}
	if req.Questions != nil {
		if len(*req.Questions) == 0 {
			return nil, fmt.Errorf("%w: a quiz needs at least one question", util.ErrValidation)
		}
		questions, err := s.buildQuestions(quiz.ID, *req.Questions)
		if err != nil {
			return nil, err
		}
		quiz.Questions = questions
	}

	if err := s.Repo.Update(quiz); err != nil {
		return nil, err
	}
	s.Results.InvalidateCache(ctx, quiz.ID)
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, id string) error {
	if _, err := s.GetQuiz(id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Results.InvalidateCache(ctx, id)
	return nil
}
