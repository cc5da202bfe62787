package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/service"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/util"
)

type ResultsController struct {
	Service *service.ResultsService
}

func NewResultsController(svc *service.ResultsService) *ResultsController {
	return &ResultsController{Service: svc}
}

// @Summary Aggregated per-question results for a quiz
// @Description One entry per question, in quiz order, with answer tallies
// @Description and correctness counts. Questions with zero submissions still
// @Description appear with empty breakdowns.
// @Tags results
// @Produce json
// @Param id path string true "Quiz id"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/results [get]
func (c *ResultsController) GetQuizResults(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	results, err := c.Service.GetQuizResults(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}
