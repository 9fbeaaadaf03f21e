package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/controllers"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Enrollment *controllers.EnrollmentController
	Academic   *controllers.AcademicController
	Documents  *controllers.DocumentController
	Financing  *controllers.FinancingController
	Risk       *controllers.RiskController
	Payments   *controllers.PaymentController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "healthy"})
	})

	v1 := router.Group("/api/v1")

	// Netcash calls the webhook without a user token; the body signature authenticates it
	v1.POST("/payment/webhook", c.Payments.Webhook)

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	enrollment := authenticated.Group("/enrollment")
	{
		enrollment.POST("/auto-save", c.Enrollment.AutoSave)
		enrollment.POST("/submit", c.Enrollment.Submit)
		enrollment.POST("/submit-application", c.Enrollment.SubmitApplication)
		enrollment.GET("/get-application/:application_id", c.Enrollment.GetApplication)
		enrollment.GET("/:application_id/upload-summary", c.Enrollment.UploadSummary)
		enrollment.POST("/declaration", c.Enrollment.SaveDeclaration)

		academic := enrollment.Group("/academic-history")
		{
			academic.POST("", c.Academic.SaveAcademicHistory)
			academic.GET("/:application_id", c.Academic.GetAcademicHistory)
			academic.PUT("/:application_id", c.Academic.UpdateAcademicHistory)
			academic.DELETE("/:application_id", c.Academic.DeleteAcademicHistory)
		}
	}

	documents := authenticated.Group("/documents")
	{
		documents.POST("/upload", c.Documents.Upload)
		documents.POST("/complete", c.Documents.Complete)
		documents.GET("/:application_id", c.Documents.Status)
		documents.GET("/:application_id/files", c.Documents.ListFiles)
		documents.DELETE("/:application_id/files/:file_id", c.Documents.DeleteFile)
		documents.GET("/:application_id/upload-summary", c.Documents.Summary)
		documents.POST("/:application_id/mark-complete/:doc_type", c.Documents.MarkComplete)
	}

	financing := authenticated.Group("/financing")
	{
		financing.POST("/select-plan", c.Financing.SelectPlan)
		financing.GET("/selection/:application_id", c.Financing.GetSelection)
	}

	authenticated.POST("/risk-check", c.Risk.Check)

	payments := authenticated.Group("/payment")
	{
		payments.POST("/create-payment", c.Payments.CreatePayment)
		payments.GET("/payment-status/:reference", c.Payments.Status)
	}
}
