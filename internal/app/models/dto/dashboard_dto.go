package dto

import "github.com/yigit/studentrecords/internal/app/models"

// DashboardStats holds the figures shown on the home page
type DashboardStats struct {
	TotalStudents  int64
	TotalCourses   int64
	TotalGrades    int64
	RecentStudents []*models.Student
}
