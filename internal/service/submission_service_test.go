package service

import (
	"errors"
	"testing"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/model"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/util"
)

func TestValidateAnswerShape(t *testing.T) {
	questions := map[string]model.Question{
		"mcq":   {UUIDBase: model.UUIDBase{ID: "mcq"}, Type: model.MultipleChoice},
		"tf":    {UUIDBase: model.UUIDBase{ID: "tf"}, Type: model.TrueFalse},
		"organ": {UUIDBase: model.UUIDBase{ID: "organ"}, Type: model.SelectOrgan},
		"free":  {UUIDBase: model.UUIDBase{ID: "free"}, Type: model.ShortAnswer},
	}

	cases := []struct {
		name    string
		ar      SubmissionAnswerReq
		wantErr bool
	}{
		{
			name: "index on multiple choice",
			ar:   SubmissionAnswerReq{QuestionID: "mcq", SelectedIndex: intPtr(1)},
		},
		{
			name: "index on true-false",
			ar:   SubmissionAnswerReq{QuestionID: "tf", SelectedIndex: intPtr(0)},
		},
		{
			name: "click on select-organ",
			ar:   SubmissionAnswerReq{QuestionID: "organ", ClickedMeshID: strPtr(heartID)},
		},
		{
			name: "text on short answer",
			ar:   SubmissionAnswerReq{QuestionID: "free", TextAnswer: strPtr("Breathing")},
		},
		{
			name: "no payload is a valid skip",
			ar:   SubmissionAnswerReq{QuestionID: "mcq"},
		},
		{
			name:    "missing question id",
			ar:      SubmissionAnswerReq{SelectedIndex: intPtr(0)},
			wantErr: true,
		},
		{
			name:    "unknown question",
			ar:      SubmissionAnswerReq{QuestionID: "ghost", SelectedIndex: intPtr(0)},
			wantErr: true,
		},
		{
			name: "two payloads at once",
			ar: SubmissionAnswerReq{
				QuestionID:    "mcq",
				SelectedIndex: intPtr(0),
				TextAnswer:    strPtr("also this"),
			},
			wantErr: true,
		},
		{
			name:    "index on select-organ",
			ar:      SubmissionAnswerReq{QuestionID: "organ", SelectedIndex: intPtr(0)},
			wantErr: true,
		},
		{
			name:    "click on multiple choice",
			ar:      SubmissionAnswerReq{QuestionID: "mcq", ClickedMeshID: strPtr(heartID)},
			wantErr: true,
		},
		{
			name:    "text on select-organ",
			ar:      SubmissionAnswerReq{QuestionID: "organ", TextAnswer: strPtr("the heart")},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateAnswerShape(0, tc.ar, questions)
			if tc.wantErr {
				if !errors.Is(err, util.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
