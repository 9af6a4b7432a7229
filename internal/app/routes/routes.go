package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/controllers"
	"github.com/yigit/studentrecords/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	dashboardController *controllers.DashboardController,
	studentController *controllers.StudentController,
	courseController *controllers.CourseController,
	gradeController *controllers.GradeController,
	adminController *controllers.AdminController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.NoRoute(middleware.NotFound())
	router.GET("/healthz", healthController.Health)

	// Every page knows who is signed in
	site := router.Group("")
	site.Use(authMiddleware.LoadUser())

	// --- Public routes ---
	{
		site.GET("/register/", authController.RegisterForm)
		site.POST("/register/", authController.Register)
		site.GET("/login/", authController.LoginForm)
		site.POST("/login/", authController.Login)
		site.POST("/logout/", authController.Logout)
	}

	// --- Authenticated routes ---
	authenticated := site.Group("")
	authenticated.Use(authMiddleware.LoginRequired())
	{
		authenticated.GET("/", dashboardController.Index)

		students := authenticated.Group("/students")
		{
			students.GET("/", studentController.List)
			students.GET("/add/", studentController.CreateForm)
			students.POST("/add/", studentController.Create)
			students.GET("/:id/", studentController.Detail)
			students.GET("/:id/edit/", studentController.EditForm)
			students.POST("/:id/edit/", studentController.Update)
			students.GET("/:id/delete/", studentController.DeleteConfirm)
			students.POST("/:id/delete/", studentController.Delete)
		}

		courses := authenticated.Group("/courses")
		{
			courses.GET("/", courseController.List)
			courses.GET("/add/", courseController.CreateForm)
			courses.POST("/add/", courseController.Create)
		}

		grades := authenticated.Group("/grades")
		{
			grades.GET("/add/", gradeController.CreateForm)
			grades.POST("/add/", gradeController.Create)
		}

		admin := authenticated.Group("/admin")
		{
			admin.GET("/", adminController.Index)
			admin.GET("/:entity/", adminController.List)
			admin.GET("/:entity/export/", adminController.Export)
		}
	}
}
