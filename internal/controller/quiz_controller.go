package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/service"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/util"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// @Summary Create a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param body body service.QuizReq true "Quiz definition"
// @Success 201 {object} util.Response
// @Router /api/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.CreateQuiz(req)
	if err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

// @Summary List quizzes
// @Tags quizzes
// @Produce json
// @Param studyYear query int false "Filter by study year"
// @Success 200 {object} util.Response
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	var studyYear *int
	if raw := ctx.Query("studyYear"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "studyYear must be a number")
			return
		}
		studyYear = &year
	}

	quizzes, err := c.Service.ListQuizzes(studyYear)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// @Summary Get one quiz with its questions
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	quiz, err := c.Service.GetQuiz(id)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary List scheduled quizzes for a calendar month
// @Tags quizzes
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} util.Response
// @Router /api/quizzes/schedule [get]
func (c *QuizController) GetSchedule(ctx *gin.Context) {
	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil {
		util.BadRequest(ctx, "year must be a number")
		return
	}
	month, err := strconv.Atoi(ctx.Query("month"))
	if err != nil || month < 1 || month > 12 {
		util.BadRequest(ctx, "month must be a number between 1 and 12")
		return
	}

	quizzes, err := c.Service.ListSchedule(year, time.Month(month))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// @Summary Update a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz id"
// @Param body body service.QuizReq true "Quiz definition"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.UpdateQuiz(ctx.Request.Context(), id, req)
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

	util.Success(ctx, quiz)
}

// @Summary Delete a quiz
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	id := ctx.Param("id")
	if !util.IsWellFormedID(id) {
		util.BadRequest(ctx, util.ErrInvalidID.Error())
		return
	}

	if err := c.Service.DeleteQuiz(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}
