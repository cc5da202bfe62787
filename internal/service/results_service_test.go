package service

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/model"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}

const (
	quizID    = "00000000-0000-0000-0000-00000000aaaa"
	heartID   = "11111111-1111-1111-1111-111111111111"
	lungID    = "22222222-2222-2222-2222-222222222222"
	armID     = "33333333-3333-3333-3333-333333333333"
	gone1ID   = "44444444-4444-4444-4444-444444444444"
	upperLimb = "55555555-5555-5555-5555-555555555555"
	thoraxID  = "66666666-6666-6666-6666-666666666666"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func choiceQuestion(id, text string, options []string, correctIdx int) model.Question {
	q := model.Question{
		UUIDBase: model.UUIDBase{ID: id},
		Type:     model.MultipleChoice,
		Text:     text,
	}
	for i, opt := range options {
		q.Answers = append(q.Answers, model.Answer{
			Text:      opt,
			IsCorrect: i == correctIdx,
			Position:  i,
		})
	}
	return q
}

func selectOrganQuestion(id string, targetType model.TargetType, targetID string) model.Question {
	return model.Question{
		UUIDBase:   model.UUIDBase{ID: id},
		Type:       model.SelectOrgan,
		Text:       "Click the target",
		TargetType: targetType,
		TargetID:   targetID,
	}
}

func choiceSubmission(questionID string, idx int) model.Submission {
	return model.Submission{
		QuizID: quizID,
		Answers: []model.SubmissionAnswer{
			{QuestionID: questionID, SelectedIndex: intPtr(idx)},
		},
	}
}

func clickSubmission(questionID, meshID string) model.Submission {
	return model.Submission{
		QuizID: quizID,
		Answers: []model.SubmissionAnswer{
			{QuestionID: questionID, ClickedMeshID: strPtr(meshID)},
		},
	}
}

func textSubmission(questionID, text string) model.Submission {
	return model.Submission{
		QuizID: quizID,
		Answers: []model.SubmissionAnswer{
			{QuestionID: questionID, TextAnswer: strPtr(text)},
		},
	}
}

func testCatalog() (map[string]model.Mesh, map[string]model.OrganGroup) {
	limb := model.OrganGroup{UUIDBase: model.UUIDBase{ID: upperLimb}, GroupName: "Upper Limb"}
	thorax := model.OrganGroup{UUIDBase: model.UUIDBase{ID: thoraxID}, GroupName: "Thorax"}

	meshes := map[string]model.Mesh{
		// Heart belongs to one group, lung to two, arm to none.
		heartID: {UUIDBase: model.UUIDBase{ID: heartID}, MeshName: "heart", DisplayName: "Heart", Groups: []model.OrganGroup{thorax}},
		lungID:  {UUIDBase: model.UUIDBase{ID: lungID}, MeshName: "lung_l", DisplayName: "Left Lung", Groups: []model.OrganGroup{thorax, limb}},
		armID:   {UUIDBase: model.UUIDBase{ID: armID}, MeshName: "arm_r", DisplayName: "Right Arm", Groups: []model.OrganGroup{limb}},
	}
	groups := map[string]model.OrganGroup{
		upperLimb: limb,
		thoraxID:  thorax,
	}
	return meshes, groups
}

func aggregateOne(t *testing.T, q model.Question, subs []model.Submission) QuestionResult {
	t.Helper()
	meshes, groups := testCatalog()
	quiz := &model.Quiz{UUIDBase: model.UUIDBase{ID: quizID}, Questions: []model.Question{q}}
	results := AggregateResults(quiz, subs, meshes, groups)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	return results[0]
}

func TestAggregatePreservesQuestionOrder(t *testing.T) {
	quiz := &model.Quiz{
		UUIDBase: model.UUIDBase{ID: quizID},
		Questions: []model.Question{
			choiceQuestion("q1", "first", []string{"a", "b"}, 0),
			selectOrganQuestion("q2", model.TargetMesh, heartID),
			{UUIDBase: model.UUIDBase{ID: "q3"}, Type: model.ShortAnswer, Text: "third"},
			selectOrganQuestion("q4", model.TargetGroup, upperLimb),
		},
	}
	meshes, groups := testCatalog()

	results := AggregateResults(quiz, nil, meshes, groups)

	if len(results) != len(quiz.Questions) {
		t.Fatalf("expected %d results, got %d", len(quiz.Questions), len(results))
	}
	for i, r := range results {
		if r.QuestionID != quiz.Questions[i].ID {
			t.Errorf("result %d: got question %s, want %s", i, r.QuestionID, quiz.Questions[i].ID)
		}
	}
}

func TestAggregateZeroSubmissionsRendersEveryQuestion(t *testing.T) {
	quiz := &model.Quiz{
		UUIDBase: model.UUIDBase{ID: quizID},
		Questions: []model.Question{
			choiceQuestion("q1", "mcq", []string{"3", "4", "5"}, 1),
			selectOrganQuestion("q2", model.TargetMesh, heartID),
			{UUIDBase: model.UUIDBase{ID: "q3"}, Type: model.ShortAnswer, Text: "free"},
		},
	}
	meshes, groups := testCatalog()

	results := AggregateResults(quiz, nil, meshes, groups)

	mcq := results[0]
	if mcq.TotalSubmissions != 0 || mcq.TotalCorrect != 0 {
		t.Errorf("mcq counts: got %d/%d, want 0/0", mcq.TotalSubmissions, mcq.TotalCorrect)
	}
	if len(mcq.AnswersBreakdown) != 3 {
		t.Fatalf("mcq breakdown: got %d rows, want all 3 options", len(mcq.AnswersBreakdown))
	}
	for _, row := range mcq.AnswersBreakdown {
		if row.StudentCount != 0 {
			t.Errorf("option %q: count %d, want 0", row.AnswerText, row.StudentCount)
		}
	}

	organ := results[1]
	if len(organ.AnswersBreakdown) != 1 {
		t.Fatalf("organ breakdown: got %d rows, want the injected target", len(organ.AnswersBreakdown))
	}
	if organ.AnswersBreakdown[0].AnswerText != "Heart" || !organ.AnswersBreakdown[0].IsCorrectOption {
		t.Errorf("organ breakdown: got %+v, want correct Heart row", organ.AnswersBreakdown[0])
	}

	short := results[2]
	if len(short.AnswersBreakdown) != 0 {
		t.Errorf("short-answer breakdown should be empty, got %d rows", len(short.AnswersBreakdown))
	}
}

func TestMultipleChoiceScenario(t *testing.T) {
	q := choiceQuestion("q1", "What is 2+2?", []string{"3", "4", "5"}, 1)
	subs := []model.Submission{
		choiceSubmission("q1", 1),
		choiceSubmission("q1", 0),
		choiceSubmission("q1", 1),
	}

	r := aggregateOne(t, q, subs)

	if r.TotalCorrect != 2 {
		t.Errorf("totalCorrect: got %d, want 2", r.TotalCorrect)
	}
	if r.TotalSubmissions != 3 {
		t.Errorf("totalSubmissions: got %d, want 3", r.TotalSubmissions)
	}
	want := []AnswerBreakdown{
		{AnswerText: "3", StudentCount: 1},
		{AnswerText: "4", StudentCount: 2, IsCorrectOption: true},
		{AnswerText: "5", StudentCount: 0},
	}
	if !reflect.DeepEqual(r.AnswersBreakdown, want) {
		t.Errorf("breakdown: got %+v, want %+v", r.AnswersBreakdown, want)
	}
}

func TestChoiceInvalidIndicesExcludedFromTallies(t *testing.T) {
	q := choiceQuestion("q1", "pick", []string{"a", "b"}, 0)
	subs := []model.Submission{
		choiceSubmission("q1", 0),
		choiceSubmission("q1", 7),  // out of range
		choiceSubmission("q1", -1), // negative
		{QuizID: quizID, Answers: []model.SubmissionAnswer{{QuestionID: "q1"}}}, // no payload
	}

	r := aggregateOne(t, q, subs)

	if r.TotalSubmissions != 4 {
		t.Errorf("totalSubmissions: got %d, want 4 (invalid answers still counted)", r.TotalSubmissions)
	}
	tallySum := 0
	for _, row := range r.AnswersBreakdown {
		tallySum += row.StudentCount
	}
	if tallySum != 1 {
		t.Errorf("tally sum: got %d, want 1 (only the valid index)", tallySum)
	}
	if r.TotalCorrect != 1 {
		t.Errorf("totalCorrect: got %d, want 1", r.TotalCorrect)
	}
}

func TestChoiceCorrectnessConsistency(t *testing.T) {
	q := choiceQuestion("q1", "pick", []string{"a", "b", "c"}, 2)
	subs := []model.Submission{
		choiceSubmission("q1", 2),
		choiceSubmission("q1", 2),
		choiceSubmission("q1", 0),
	}

	r := aggregateOne(t, q, subs)

	correctFromBreakdown := 0
	for _, row := range r.AnswersBreakdown {
		if row.IsCorrectOption {
			correctFromBreakdown += row.StudentCount
		}
	}
	if r.TotalCorrect != correctFromBreakdown {
		t.Errorf("totalCorrect %d does not match breakdown sum %d", r.TotalCorrect, correctFromBreakdown)
	}
}

func TestMeshSelectOrganScenario(t *testing.T) {
	q := selectOrganQuestion("q1", model.TargetMesh, heartID)
	subs := []model.Submission{
		clickSubmission("q1", heartID),
		clickSubmission("q1", lungID),
		clickSubmission("q1", heartID),
	}

	r := aggregateOne(t, q, subs)

	if r.TotalCorrect != 2 {
		t.Errorf("totalCorrect: got %d, want 2", r.TotalCorrect)
	}
	want := []AnswerBreakdown{
		{AnswerText: "Heart", StudentCount: 2, IsCorrectOption: true},
		{AnswerText: "Left Lung", StudentCount: 1},
	}
	if !reflect.DeepEqual(r.AnswersBreakdown, want) {
		t.Errorf("breakdown: got %+v, want %+v", r.AnswersBreakdown, want)
	}
	if r.CorrectTargetDisplayName != "Heart" {
		t.Errorf("correctTargetDisplayName: got %q, want Heart", r.CorrectTargetDisplayName)
	}
}

func TestGroupSelectOrganScenario(t *testing.T) {
	// Arm is in Upper Limb, heart is not.
	q := selectOrganQuestion("q1", model.TargetGroup, upperLimb)
	subs := []model.Submission{
		clickSubmission("q1", armID),
		clickSubmission("q1", heartID),
	}

	r := aggregateOne(t, q, subs)

	if r.TotalCorrect != 1 {
		t.Errorf("totalCorrect: got %d, want 1", r.TotalCorrect)
	}
	want := []AnswerBreakdown{
		{AnswerText: "Right Arm", StudentCount: 1, IsCorrectOption: true},
		{AnswerText: "Heart", StudentCount: 1},
	}
	if !reflect.DeepEqual(r.AnswersBreakdown, want) {
		t.Errorf("breakdown: got %+v, want %+v", r.AnswersBreakdown, want)
	}
	if r.CorrectTargetDisplayName != "Upper Limb" {
		t.Errorf("correctTargetDisplayName: got %q, want Upper Limb", r.CorrectTargetDisplayName)
	}
}

func TestGroupMembershipTransitivity(t *testing.T) {
	// Membership in zero, one, and multiple groups.
	cases := []struct {
		name    string
		meshID  string
		correct bool
	}{
		{"mesh in zero groups", armID, false},
		{"mesh in one group", heartID, true},
		{"mesh in multiple groups", lungID, true},
	}
	q := selectOrganQuestion("q1", model.TargetGroup, thoraxID)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := aggregateOne(t, q, []model.Submission{clickSubmission("q1", tc.meshID)})
			got := r.TotalCorrect == 1
			if got != tc.correct {
				t.Errorf("correct: got %v, want %v", got, tc.correct)
			}
		})
	}
}

func TestGroupTargetNotInjectedIntoBreakdown(t *testing.T) {
	q := selectOrganQuestion("q1", model.TargetGroup, upperLimb)

	r := aggregateOne(t, q, nil)

	if len(r.AnswersBreakdown) != 0 {
		t.Errorf("group target must not appear as a synthetic mesh row, got %+v", r.AnswersBreakdown)
	}
}

func TestDanglingMeshReferenceDegradesToPlaceholder(t *testing.T) {
	q := selectOrganQuestion("q1", model.TargetMesh, heartID)
	subs := []model.Submission{clickSubmission("q1", gone1ID)}

	r := aggregateOne(t, q, subs)

	if r.TotalSubmissions != 1 {
		t.Errorf("totalSubmissions: got %d, want 1", r.TotalSubmissions)
	}
	want := []AnswerBreakdown{
		{AnswerText: "Unknown Mesh (44444444)", StudentCount: 1},
		{AnswerText: "Heart", StudentCount: 0, IsCorrectOption: true},
	}
	if !reflect.DeepEqual(r.AnswersBreakdown, want) {
		t.Errorf("breakdown: got %+v, want %+v", r.AnswersBreakdown, want)
	}
}

func TestDanglingTargetReferences(t *testing.T) {
	meshQ := selectOrganQuestion("q1", model.TargetMesh, gone1ID)
	if r := aggregateOne(t, meshQ, nil); r.CorrectTargetDisplayName != "Unknown Target Mesh" {
		t.Errorf("mesh target: got %q, want Unknown Target Mesh", r.CorrectTargetDisplayName)
	}

	groupQ := selectOrganQuestion("q1", model.TargetGroup, gone1ID)
	if r := aggregateOne(t, groupQ, nil); r.CorrectTargetDisplayName != "Unknown Target Group" {
		t.Errorf("group target: got %q, want Unknown Target Group", r.CorrectTargetDisplayName)
	}
}

func TestSelectOrganNoAnswerRow(t *testing.T) {
	q := selectOrganQuestion("q1", model.TargetMesh, heartID)
	subs := []model.Submission{
		clickSubmission("q1", heartID),
		{QuizID: quizID, Answers: []model.SubmissionAnswer{{QuestionID: "q1"}}},
		{QuizID: quizID, Answers: []model.SubmissionAnswer{{QuestionID: "q1", ClickedMeshID: strPtr("")}}},
	}

	r := aggregateOne(t, q, subs)

	last := r.AnswersBreakdown[len(r.AnswersBreakdown)-1]
	if last.AnswerText != NoAnswerLabel || last.StudentCount != 2 {
		t.Errorf("no-answer row: got %+v, want {%s 2}", last, NoAnswerLabel)
	}

	// And no row at all when everyone answered.
	r = aggregateOne(t, q, []model.Submission{clickSubmission("q1", heartID)})
	for _, row := range r.AnswersBreakdown {
		if row.AnswerText == NoAnswerLabel {
			t.Errorf("unexpected no-answer row: %+v", row)
		}
	}
}

func TestShortAnswerScenario(t *testing.T) {
	q := model.Question{UUIDBase: model.UUIDBase{ID: "q1"}, Type: model.ShortAnswer, Text: "What does the lung do?"}
	subs := []model.Submission{
		textSubmission("q1", "Breathing"),
		textSubmission("q1", "Gas exchange"),
	}

	r := aggregateOne(t, q, subs)

	if r.TotalCorrect != 0 {
		t.Errorf("totalCorrect must stay 0 for short answers, got %d", r.TotalCorrect)
	}
	if len(r.AnswersBreakdown) != 0 {
		t.Errorf("short-answer breakdown must be empty, got %+v", r.AnswersBreakdown)
	}
	want := []string{"Breathing", "Gas exchange"}
	if !reflect.DeepEqual(r.SubmittedTextAnswers, want) {
		t.Errorf("submittedTextAnswers: got %v, want %v", r.SubmittedTextAnswers, want)
	}
}

func TestShortAnswerBlankBecomesPlaceholder(t *testing.T) {
	q := model.Question{UUIDBase: model.UUIDBase{ID: "q1"}, Type: model.ShortAnswer, Text: "free"}
	subs := []model.Submission{
		textSubmission("q1", "   "),
		{QuizID: quizID, Answers: []model.SubmissionAnswer{{QuestionID: "q1"}}},
		textSubmission("q1", "Circulation"),
	}

	r := aggregateOne(t, q, subs)

	want := []string{NoAnswerLabel, NoAnswerLabel, "Circulation"}
	if !reflect.DeepEqual(r.SubmittedTextAnswers, want) {
		t.Errorf("submittedTextAnswers: got %v, want %v", r.SubmittedTextAnswers, want)
	}
}

func TestDuplicateAnswersEachCounted(t *testing.T) {
	// One submission carrying two entries for the same question: the
	// ingestion contract does not deduplicate, so both count.
	q := choiceQuestion("q1", "pick", []string{"a", "b"}, 0)
	subs := []model.Submission{
		{QuizID: quizID, Answers: []model.SubmissionAnswer{
			{QuestionID: "q1", SelectedIndex: intPtr(0)},
			{QuestionID: "q1", SelectedIndex: intPtr(1)},
		}},
	}

	r := aggregateOne(t, q, subs)

	if r.TotalSubmissions != 2 {
		t.Errorf("totalSubmissions: got %d, want 2", r.TotalSubmissions)
	}
	if r.AnswersBreakdown[0].StudentCount != 1 || r.AnswersBreakdown[1].StudentCount != 1 {
		t.Errorf("breakdown: got %+v, want one tally per entry", r.AnswersBreakdown)
	}
}

func TestQuestionWithoutIDIsSkipped(t *testing.T) {
	quiz := &model.Quiz{
		UUIDBase: model.UUIDBase{ID: quizID},
		Questions: []model.Question{
			choiceQuestion("q1", "kept", []string{"a"}, 0),
			{Type: model.ShortAnswer, Text: "no id"},
			choiceQuestion("q3", "also kept", []string{"a"}, 0),
		},
	}

	results := AggregateResults(quiz, nil, nil, nil)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].QuestionID != "q1" || results[1].QuestionID != "q3" {
		t.Errorf("unexpected result order: %s, %s", results[0].QuestionID, results[1].QuestionID)
	}
}

func TestAnswersForOtherQuestionsIgnored(t *testing.T) {
	q := choiceQuestion("q1", "pick", []string{"a", "b"}, 0)
	subs := []model.Submission{
		{QuizID: quizID, Answers: []model.SubmissionAnswer{
			{QuestionID: "q1", SelectedIndex: intPtr(0)},
			{QuestionID: "other", SelectedIndex: intPtr(1)},
		}},
	}

	r := aggregateOne(t, q, subs)

	if r.TotalSubmissions != 1 {
		t.Errorf("totalSubmissions: got %d, want 1", r.TotalSubmissions)
	}
}

func TestCollectCatalogRefs(t *testing.T) {
	quiz := &model.Quiz{
		UUIDBase: model.UUIDBase{ID: quizID},
		Questions: []model.Question{
			selectOrganQuestion("q1", model.TargetMesh, heartID),
			selectOrganQuestion("q2", model.TargetGroup, upperLimb),
			selectOrganQuestion("q3", model.TargetMesh, "not-a-uuid"),
			choiceQuestion("q4", "ignored", []string{"a"}, 0),
		},
	}
	subs := []model.Submission{
		clickSubmission("q1", lungID),
		clickSubmission("q1", heartID), // duplicate of the target
		clickSubmission("q1", "garbage-id"),
		textSubmission("q5", "not a click"),
	}

	meshIDs, groupIDs := CollectCatalogRefs(quiz, subs)

	wantMeshes := []string{heartID, lungID}
	if !reflect.DeepEqual(meshIDs, wantMeshes) {
		t.Errorf("meshIDs: got %v, want %v", meshIDs, wantMeshes)
	}
	wantGroups := []string{upperLimb}
	if !reflect.DeepEqual(groupIDs, wantGroups) {
		t.Errorf("groupIDs: got %v, want %v", groupIDs, wantGroups)
	}
}

func TestCollectCatalogRefsEmptyInputs(t *testing.T) {
	quiz := &model.Quiz{UUIDBase: model.UUIDBase{ID: quizID}}
	meshIDs, groupIDs := CollectCatalogRefs(quiz, nil)
	if len(meshIDs) != 0 || len(groupIDs) != 0 {
		t.Errorf("expected empty ref sets, got %v / %v", meshIDs, groupIDs)
	}
}
