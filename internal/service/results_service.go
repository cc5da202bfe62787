package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/model"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/repository"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/util"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/logger"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/monitoring"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/tracing"
)

// NoAnswerLabel is the placeholder tallied or collected when a submission
// answered a question without the payload its type requires.
const NoAnswerLabel = "No Answer"

const resultsCacheKeyPrefix = "quiz_results:"

// AnswerBreakdown is one chartable row of a question's result.
type AnswerBreakdown struct {
	AnswerText      string `json:"answerText"`
	StudentCount    int    `json:"studentCount"`
	IsCorrectOption bool   `json:"isCorrectOption"`
}

// QuestionResult is the per-question statistical view returned to the
// results client. It is rebuilt from source records on every request and
// never persisted.
type QuestionResult struct {
	QuestionID               string             `json:"questionId"`
	QuestionText             string             `json:"questionText"`
	QuestionType             model.QuestionType `json:"questionType"`
	TotalSubmissions         int                `json:"totalSubmissionsForQuestion"`
	TotalCorrect             int                `json:"totalCorrect"`
	AnswersBreakdown         []AnswerBreakdown  `json:"answersBreakdown"`
	SubmittedTextAnswers     []string           `json:"submittedTextAnswers,omitempty"`
	CorrectTargetDisplayName string             `json:"correctTargetDisplayName,omitempty"`
}

type ResultsService struct {
	QuizRepo       *repository.QuizRepository
	SubmissionRepo *repository.SubmissionRepository
	MeshRepo       *repository.MeshRepository
	GroupRepo      *repository.OrganGroupRepository
	Redis          *redis.Client
	CacheTTL       time.Duration
}

func NewResultsService(
	quizRepo *repository.QuizRepository,
	submissionRepo *repository.SubmissionRepository,
	meshRepo *repository.MeshRepository,
	groupRepo *repository.OrganGroupRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *ResultsService {
	return &ResultsService{
		QuizRepo:       quizRepo,
		SubmissionRepo: submissionRepo,
		MeshRepo:       meshRepo,
		GroupRepo:      groupRepo,
		Redis:          rdb,
		CacheTTL:       cacheTTL,
	}
}

// GetQuizResults loads the quiz and its submissions, batch-fetches every
// referenced catalog entity once, and aggregates. Submissions are immutable,
// so the computed slice is cached per quiz until the next submission or quiz
// mutation invalidates it.
func (s *ResultsService) GetQuizResults(ctx context.Context, quizID string) ([]QuestionResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "results.aggregate")
	defer span.End()

	cacheKey := resultsCacheKeyPrefix + quizID
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var results []QuestionResult
			if err := json.Unmarshal([]byte(cached), &results); err == nil {
				monitoring.ResultAggregations.WithLabelValues("hit").Inc()
				return results, nil
			}
		}
	}

	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, wrapQuizLookup(err)
	}

	submissions, err := s.SubmissionRepo.FindByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	meshIDs, groupIDs := CollectCatalogRefs(quiz, submissions)

	meshes, err := s.MeshRepo.FindByIDs(meshIDs)
	if err != nil {
		return nil, err
	}
	groups, err := s.GroupRepo.FindByIDs(groupIDs)
	if err != nil {
		return nil, err
	}

	meshByID := make(map[string]model.Mesh, len(meshes))
	for _, m := range meshes {
		meshByID[m.ID] = m
	}
	groupByID := make(map[string]model.OrganGroup, len(groups))
	for _, g := range groups {
		groupByID[g.ID] = g
	}

	results := AggregateResults(quiz, submissions, meshByID, groupByID)
	monitoring.ResultAggregations.WithLabelValues("miss").Inc()

	if s.Redis != nil {
		if payload, err := json.Marshal(results); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, payload, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache quiz results", zap.String("quizId", quizID), zap.Error(err))
			}
		}
	}

	return results, nil
}

// InvalidateCache drops the cached result slice for a quiz. Called after
// submission ingestion and quiz mutation.
func (s *ResultsService) InvalidateCache(ctx context.Context, quizID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, resultsCacheKeyPrefix+quizID).Err(); err != nil {
		logger.Log.Warn("failed to invalidate results cache", zap.String("quizId", quizID), zap.Error(err))
	}
}

// CollectCatalogRefs gathers every mesh and group id the aggregation will
// need: select-organ targets from the quiz and clicked meshes from the
// submissions. The sets are deduplicated and filtered to well-formed ids so
// the catalog is hit with exactly one batched read per entity kind,
// independent of submission volume. Malformed ids are dropped here and
// surface later as placeholder rows, never as errors.
func CollectCatalogRefs(quiz *model.Quiz, submissions []model.Submission) (meshIDs, groupIDs []string) {
	meshSet := make(map[string]struct{})
	groupSet := make(map[string]struct{})

	for _, q := range quiz.Questions {
		if q.Type != model.SelectOrgan || !util.IsWellFormedID(q.TargetID) {
			continue
		}
		switch q.TargetType {
		case model.TargetMesh:
			meshSet[q.TargetID] = struct{}{}
		case model.TargetGroup:
			groupSet[q.TargetID] = struct{}{}
		}
	}

	for _, sub := range submissions {
		for _, a := range sub.Answers {
			if a.ClickedMeshID != nil && util.IsWellFormedID(*a.ClickedMeshID) {
				meshSet[*a.ClickedMeshID] = struct{}{}
			}
		}
	}

	meshIDs = make([]string, 0, len(meshSet))
	for id := range meshSet {
		meshIDs = append(meshIDs, id)
	}
	groupIDs = make([]string, 0, len(groupSet))
	for id := range groupSet {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(meshIDs)
	sort.Strings(groupIDs)
	return meshIDs, groupIDs
}

// AggregateResults computes one QuestionResult per quiz question, in
// question order. Pure: inputs are never mutated and no I/O happens here.
// Unresolvable references degrade to placeholder rows and malformed answers
// are excluded from tallies but still counted toward the question total, so
// the output is always complete and chartable.
func AggregateResults(
	quiz *model.Quiz,
	submissions []model.Submission,
	meshByID map[string]model.Mesh,
	groupByID map[string]model.OrganGroup,
) []QuestionResult {
	results := make([]QuestionResult, 0, len(quiz.Questions))

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.ID == "" {
			logger.Log.Warn("skipping question without id",
				zap.String("quizId", quiz.ID),
				zap.Int("position", i))
			continue
		}

		entries := answersForQuestion(q.ID, submissions)

		result := QuestionResult{
			QuestionID:       q.ID,
			QuestionText:     q.Text,
			QuestionType:     q.Type,
			TotalSubmissions: len(entries),
			AnswersBreakdown: make([]AnswerBreakdown, 0),
		}

		switch q.Type {
		case model.MultipleChoice, model.TrueFalse:
			result.TotalCorrect, result.AnswersBreakdown = resolveChoice(q, entries)
		case model.SelectOrgan:
			result.TotalCorrect, result.AnswersBreakdown = resolveSelectOrgan(q, entries, meshByID)
			result.CorrectTargetDisplayName = resolveTargetDisplayName(q, meshByID, groupByID)
		case model.ShortAnswer:
			// Free text is never scored; TotalCorrect stays zero.
			result.SubmittedTextAnswers = collectTextAnswers(entries)
		}

		results = append(results, result)
	}

	return results
}

// answersForQuestion returns every answer entry correlated to the question,
// across all submissions. Duplicate entries from one submission are all
// kept and each counts independently, matching the ingestion contract that
// does not deduplicate them.
func answersForQuestion(questionID string, submissions []model.Submission) []model.SubmissionAnswer {
	var entries []model.SubmissionAnswer
	for _, sub := range submissions {
		for _, a := range sub.Answers {
			if a.QuestionID == questionID {
				entries = append(entries, a)
			}
		}
	}
	return entries
}

// resolveChoice tallies selected option indices against the question's
// answer list. Out-of-range or missing indices are ignored: they count
// toward the question total but appear in no row. Every predefined option
// gets a row, zero tally included, in its original order.
func resolveChoice(q *model.Question, entries []model.SubmissionAnswer) (int, []AnswerBreakdown) {
	counts := make([]int, len(q.Answers))
	correct := 0

	for _, e := range entries {
		if e.SelectedIndex == nil {
			continue
		}
		idx := *e.SelectedIndex
		if idx < 0 || idx >= len(q.Answers) {
			continue
		}
		counts[idx]++
		if q.Answers[idx].IsCorrect {
			correct++
		}
	}

	breakdown := make([]AnswerBreakdown, len(q.Answers))
	for i, a := range q.Answers {
		breakdown[i] = AnswerBreakdown{
			AnswerText:      a.Text,
			StudentCount:    counts[i],
			IsCorrectOption: a.IsCorrect,
		}
	}
	return correct, breakdown
}

// resolveSelectOrgan tallies clicked meshes in first-observed order. For a
// mesh target the target mesh is injected with a zero tally when nobody
// clicked it, so the correct answer is always listed; a group target is not
// a mesh and gets no synthetic row. Clicks on meshes missing from the
// catalog keep their tally under a placeholder name.
func resolveSelectOrgan(q *model.Question, entries []model.SubmissionAnswer, meshByID map[string]model.Mesh) (int, []AnswerBreakdown) {
	tally := make(map[string]int)
	var order []string
	noAnswer := 0
	correct := 0

	for _, e := range entries {
		if e.ClickedMeshID == nil || *e.ClickedMeshID == "" {
			noAnswer++
			continue
		}
		id := *e.ClickedMeshID
		if _, seen := tally[id]; !seen {
			order = append(order, id)
		}
		tally[id]++
		if isCorrectClick(q, id, meshByID) {
			correct++
		}
	}

	if q.TargetType == model.TargetMesh && q.TargetID != "" {
		if _, seen := tally[q.TargetID]; !seen {
			order = append(order, q.TargetID)
			tally[q.TargetID] = 0
		}
	}

	breakdown := make([]AnswerBreakdown, 0, len(order)+1)
	for _, id := range order {
		breakdown = append(breakdown, AnswerBreakdown{
			AnswerText:      meshDisplayName(id, meshByID),
			StudentCount:    tally[id],
			IsCorrectOption: isCorrectClick(q, id, meshByID),
		})
	}

	if noAnswer > 0 {
		breakdown = append(breakdown, AnswerBreakdown{
			AnswerText:   NoAnswerLabel,
			StudentCount: noAnswer,
		})
	}

	return correct, breakdown
}

// isCorrectClick resolves correctness for one clicked mesh: direct id
// equality for a mesh target, transitive group membership for a group
// target. A mesh absent from the catalog can never be correct for a group
// target because its membership is unknown.
func isCorrectClick(q *model.Question, meshID string, meshByID map[string]model.Mesh) bool {
	switch q.TargetType {
	case model.TargetMesh:
		return meshID == q.TargetID
	case model.TargetGroup:
		mesh, ok := meshByID[meshID]
		if !ok {
			return false
		}
		return mesh.InGroup(q.TargetID)
	}
	return false
}

func meshDisplayName(meshID string, meshByID map[string]model.Mesh) string {
	if mesh, ok := meshByID[meshID]; ok {
		return mesh.DisplayName
	}
	return fmt.Sprintf("Unknown Mesh (%s)", util.ShortID(meshID))
}

// resolveTargetDisplayName names the correct target for a select-organ
// question, falling back to a labeled placeholder when the catalog entry is
// gone so the results view always has something to show.
func resolveTargetDisplayName(q *model.Question, meshByID map[string]model.Mesh, groupByID map[string]model.OrganGroup) string {
	switch q.TargetType {
	case model.TargetMesh:
		if mesh, ok := meshByID[q.TargetID]; ok {
			return mesh.DisplayName
		}
		return "Unknown Target Mesh"
	case model.TargetGroup:
		if group, ok := groupByID[q.TargetID]; ok {
			return group.GroupName
		}
		return "Unknown Target Group"
	}
	return ""
}

// collectTextAnswers gathers every free-text response in submission order,
// substituting the no-answer placeholder for blank or missing text.
func collectTextAnswers(entries []model.SubmissionAnswer) []string {
	texts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.TextAnswer != nil && strings.TrimSpace(*e.TextAnswer) != "" {
			texts = append(texts, *e.TextAnswer)
		} else {
			texts = append(texts, NoAnswerLabel)
		}
	}
	return texts
}
