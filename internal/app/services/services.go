package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/repositories"
)

// Services holds every use-case service
type Services struct {
	StudentService   StudentService
	CourseService    CourseService
	GradeService     GradeService
	AuthService      AuthService
	DashboardService DashboardService
	AdminService     AdminService
}

// NewServices builds the services on top of one repository set
func NewServices(repos *repositories.Repositories, bcryptCost int, logger zerolog.Logger) *Services {
	return &Services{
		StudentService: NewStudentService(
			repos.StudentRepository,
			repos.CourseRepository,
			repos.GradeRepository,
			logger,
		),
		CourseService: NewCourseService(repos.CourseRepository, logger),
		GradeService: NewGradeService(
			repos.GradeRepository,
			repos.StudentRepository,
			repos.CourseRepository,
			logger,
		),
		AuthService:      NewAuthService(repos.UserRepository, bcryptCost, logger),
		DashboardService: NewDashboardService(repos),
		AdminService:     NewAdminService(repos, logger),
	}
}
