package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"madrasti/elearning-app/internal/domain"
	"madrasti/elearning-app/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	catalogService service.CatalogService,
	studentService service.StudentService,
	subscriptionService service.SubscriptionService,
	professorService service.ProfessorService,
) {
	authHandler := NewAuthHandler(authService)
	catalogHandler := NewCatalogHandler(catalogService, studentService)
	studentHandler := NewStudentHandler(studentService)
	subscriptionHandler := NewSubscriptionHandler(subscriptionService)
	professorHandler := NewProfessorHandler(professorService)

	authMiddleware := AuthMiddleware(jwtSecret)
	optionalAuth := OptionalAuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Browsing and gated navigation run under optional auth: anonymous
		// viewers browse freely, and the access gate (not the transport)
		// answers with login/subscription prompts for protected content.
		browse := apiV1.Group("")
		browse.Use(optionalAuth)
		{
			browse.GET("/categories", catalogHandler.Categories)
			browse.GET("/courses", catalogHandler.ListCourses)
			browse.GET("/courses/:id", catalogHandler.GetCourse)

			browse.POST("/courses/:id/subscribe", studentHandler.StartSubscription)
			browse.POST("/seances/:id/open", studentHandler.OpenSession)
			browse.POST("/supports/:id/open", studentHandler.OpenDocument)
		}
	}

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// Replay happens after login, so it always has a real user.
		protected.POST("/intents/resume", studentHandler.ResumeIntent)

		// --- Checkout Routes (students) ---
		subscriptionGroup := protected.Group("/subscriptions")
		subscriptionGroup.Use(RoleMiddleware(domain.RoleStudent))
		{
			subscriptionGroup.POST("/checkout/:courseId", subscriptionHandler.Checkout)
			subscriptionGroup.POST("/:id/confirm", subscriptionHandler.Confirm)
			subscriptionGroup.DELETE("/:id", subscriptionHandler.CancelCheckout)
			subscriptionGroup.GET("/status/:courseId", subscriptionHandler.Status)
		}

		// --- Professor Specific Routes ---
		professorGroup := protected.Group("/professor")
		professorGroup.Use(RoleMiddleware(domain.RoleProfessor))
		{
			professorGroup.GET("/dashboard", professorHandler.GetDashboard)

			professorGroup.POST("/formations", professorHandler.CreateFormation)
			professorGroup.GET("/formations", professorHandler.GetMyFormations)
			professorGroup.PUT("/formations/:id", professorHandler.UpdateFormation)
			professorGroup.DELETE("/formations/:id", professorHandler.DeleteFormation)

			professorGroup.POST("/formations/:id/seances", professorHandler.AddSession)
			professorGroup.POST("/seances/:id/supports", professorHandler.AddDocument)

			professorGroup.POST("/uploads/url", professorHandler.RequestUploadURL)
			professorGroup.POST("/uploads/confirm", professorHandler.ConfirmUpload)
		}
	}
}
