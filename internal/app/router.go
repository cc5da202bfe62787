package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/docs"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// Quiz authoring and results. The schedule route must come before
		// the :id routes so "schedule" is not taken for a quiz id.
		api.GET("/quizzes/schedule", c.quiz.GetSchedule)
		api.POST("/quizzes", c.quiz.CreateQuiz)
		api.GET("/quizzes", c.quiz.ListQuizzes)
		api.GET("/quizzes/:id", c.quiz.GetQuiz)
		api.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		api.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		api.GET("/quizzes/:id/results", c.results.GetQuizResults)
		api.GET("/quizzes/:id/submissions", c.submission.ListForQuiz)

		// Attempt ingestion from the 3D client.
		api.POST("/submissions", c.submission.CreateSubmission)

		// Catalog reference data.
		api.POST("/meshes", c.catalog.CreateMesh)
		api.GET("/meshes", c.catalog.ListMeshes)
		api.GET("/meshes/:id", c.catalog.GetMesh)
		api.PUT("/meshes/:id", c.catalog.UpdateMesh)
		api.DELETE("/meshes/:id", c.catalog.DeleteMesh)
		api.POST("/meshes/:id/model", c.catalog.UploadModelFile)

		api.POST("/organ-groups", c.catalog.CreateGroup)
		api.GET("/organ-groups", c.catalog.ListGroups)
		api.GET("/organ-groups/:id", c.catalog.GetGroup)
		api.PUT("/organ-groups/:id", c.catalog.UpdateGroup)
		api.DELETE("/organ-groups/:id", c.catalog.DeleteGroup)
	}
}
