package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/service"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/util"
)

type SubmissionController struct {
	Service *service.SubmissionService
}

func NewSubmissionController(svc *service.SubmissionService) *SubmissionController {
	return &SubmissionController{Service: svc}
}

// @Summary Ingest a completed quiz attempt
// @Description Called by the 3D client. Each answer must correlate to a
// @Description question of the quiz and carry the payload field matching
// @Description that question's type.
// @Tags submissions
// @Accept json
// @Produce json
// @Param body body service.SubmissionReq true "Attempt"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/submissions [post]
func (c *SubmissionController) CreateSubmission(ctx *gin.Context) {
	var req service.SubmissionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !util.IsWellFormedID(req.QuizID) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	submission, err := c.Service.Ingest(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, submission)
}

// @Summary List raw submissions for a quiz
// @Tags submissions
// @Produce json
// @Param id path string true "Quiz id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/submissions [get]
func (c *SubmissionController) ListForQuiz(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	submissions, err := c.Service.ListForQuiz(id)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, submissions)
}
