package services

import (
	"context"
	"fmt"

	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
)

// RecentStudentsLimit is how many new students the dashboard shows
const RecentStudentsLimit = 5

// DashboardService defines the interface for the home page figures
type DashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
}

type dashboardServiceImpl struct {
	repos *repositories.Repositories
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repos *repositories.Repositories) DashboardService {
	return &dashboardServiceImpl{repos: repos}
}

// Stats counts every record type and loads the newest students
func (s *dashboardServiceImpl) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	students, err := s.repos.StudentRepository.Count(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}
	courses, err := s.repos.CourseRepository.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting courses: %w", err)
	}
	grades, err := s.repos.GradeRepository.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting grades: %w", err)
	}
	recent, err := s.repos.StudentRepository.Recent(ctx, RecentStudentsLimit)
	if err != nil {
		return nil, fmt.Errorf("error loading recent students: %w", err)
	}

	return &dto.DashboardStats{
		TotalStudents:  students,
		TotalCourses:   courses,
		TotalGrades:    grades,
		RecentStudents: recent,
	}, nil
}
