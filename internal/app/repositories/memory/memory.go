// Package memory implements the repository interfaces on mutex-guarded maps.
// It enforces the same unique constraints and the same delete cascade as the
// PostgreSQL schema and is used for local runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

type enrollment struct {
	studentID int64
	courseID  int64
}

// Store is the shared state of all in-memory repositories
type Store struct {
	mu sync.RWMutex

	courses     map[int64]models.Course
	students    map[int64]models.Student
	grades      map[int64]models.Grade
	users       map[int64]models.User
	enrollments map[enrollment]struct{}

	nextCourseID  int64
	nextStudentID int64
	nextGradeID   int64
	nextUserID    int64

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		courses:     map[int64]models.Course{},
		students:    map[int64]models.Student{},
		grades:      map[int64]models.Grade{},
		users:       map[int64]models.User{},
		enrollments: map[enrollment]struct{}{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source used for timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// NewRepositories wires every in-memory repository to one store
func NewRepositories(store *Store) *repositories.Repositories {
	return &repositories.Repositories{
		CourseRepository:  &CourseRepository{store: store},
		StudentRepository: &StudentRepository{store: store},
		GradeRepository:   &GradeRepository{store: store},
		UserRepository:    &UserRepository{store: store},
	}
}

// CourseRepository is the in-memory course repository
type CourseRepository struct {
	store *Store
}

var _ repositories.ICourseRepository = (*CourseRepository)(nil)

// Create inserts a course
func (r *CourseRepository) Create(_ context.Context, course *models.Course) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.courses {
		if c.Code == course.Code {
			return apperrors.ErrCourseCodeAlreadyExists
		}
	}
	s.nextCourseID++
	course.ID = s.nextCourseID
	s.courses[course.ID] = *course
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &c, nil
}

// GetByIDs retrieves the existing courses among ids, ordered by name
func (r *CourseRepository) GetByIDs(_ context.Context, ids []int64) ([]*models.Course, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Course{}
	seen := map[int64]bool{}
	for _, id := range ids {
		if c, ok := s.courses[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, &c)
		}
	}
	sortCourses(out)
	return out, nil
}

// GetAll retrieves every course ordered by name
func (r *CourseRepository) GetAll(_ context.Context) ([]*models.Course, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		c := c
		out = append(out, &c)
	}
	sortCourses(out)
	return out, nil
}

func sortCourses(courses []*models.Course) {
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].Name != courses[j].Name {
			return courses[i].Name < courses[j].Name
		}
		return courses[i].ID < courses[j].ID
	})
}

// CodeExists checks if a course code is taken
func (r *CourseRepository) CodeExists(_ context.Context, code string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.courses {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of courses
func (r *CourseRepository) Count(_ context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.courses)), nil
}

// StudentRepository is the in-memory student repository
type StudentRepository struct {
	store *Store
}

var _ repositories.IStudentRepository = (*StudentRepository)(nil)

// checkStudentUnique must be called with the lock held
func (s *Store) checkStudentUnique(student *models.Student) error {
	for id, existing := range s.students {
		if id == student.ID {
			continue
		}
		if existing.StudentID == student.StudentID {
			return apperrors.ErrStudentIDAlreadyExists
		}
		if existing.Email == student.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	for _, courseID := range student.CourseIDs {
		if _, ok := s.courses[courseID]; !ok {
			return apperrors.ErrCourseNotFound
		}
	}
	return nil
}

// setEnrollments must be called with the lock held
func (s *Store) setEnrollments(studentID int64, courseIDs []int64) {
	for e := range s.enrollments {
		if e.studentID == studentID {
			delete(s.enrollments, e)
		}
	}
	for _, courseID := range courseIDs {
		s.enrollments[enrollment{studentID: studentID, courseID: courseID}] = struct{}{}
	}
}

// Create inserts a student with its enrollments
func (r *StudentRepository) Create(_ context.Context, student *models.Student) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	student.ID = 0
	if err := s.checkStudentUnique(student); err != nil {
		return err
	}

	s.nextStudentID++
	now := s.now()
	student.ID = s.nextStudentID
	student.CreatedAt = now
	student.UpdatedAt = now

	stored := *student
	stored.CourseIDs = nil
	stored.Courses = nil
	s.students[student.ID] = stored
	s.setEnrollments(student.ID, student.CourseIDs)
	return nil
}

// Update overwrites a student and replaces its enrollments
func (r *StudentRepository) Update(_ context.Context, student *models.Student) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.students[student.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if err := s.checkStudentUnique(student); err != nil {
		return err
	}

	student.CreatedAt = existing.CreatedAt
	student.UpdatedAt = s.now()

	stored := *student
	stored.CourseIDs = nil
	stored.Courses = nil
	s.students[student.ID] = stored
	s.setEnrollments(student.ID, student.CourseIDs)
	return nil
}

// GetByID retrieves a student with its enrolled courses
func (r *StudentRepository) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	student, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}

	courses := []*models.Course{}
	for e := range s.enrollments {
		if e.studentID != id {
			continue
		}
		if c, ok := s.courses[e.courseID]; ok {
			courses = append(courses, &c)
		}
	}
	sortCourses(courses)

	student.Courses = courses
	student.CourseIDs = make([]int64, 0, len(courses))
	for _, c := range courses {
		student.CourseIDs = append(student.CourseIDs, c.ID)
	}
	return &student, nil
}

// Delete removes the student together with its grades and enrollments
func (r *StudentRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	for gradeID, g := range s.grades {
		if g.StudentID == id {
			delete(s.grades, gradeID)
		}
	}
	s.setEnrollments(id, nil)
	delete(s.students, id)
	return nil
}

func matchesSearch(student models.Student, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(student.FirstName), needle) ||
		strings.Contains(strings.ToLower(student.LastName), needle) ||
		strings.Contains(strings.ToLower(student.StudentID), needle)
}

// filtered must be called with the read lock held
func (s *Store) filtered(search string) []*models.Student {
	out := []*models.Student{}
	for _, student := range s.students {
		if matchesSearch(student, search) {
			student := student
			out = append(out, &student)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentID != out[j].StudentID {
			return out[i].StudentID < out[j].StudentID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// List returns one window of students ordered by student_id
func (r *StudentRepository) List(_ context.Context, filter repositories.StudentFilter) ([]*models.Student, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.filtered(filter.Search)
	if filter.Limit == 0 {
		return all, nil
	}

	start := filter.Offset
	if start > uint64(len(all)) {
		start = uint64(len(all))
	}
	end := start + filter.Limit
	if end > uint64(len(all)) {
		end = uint64(len(all))
	}
	return all[start:end], nil
}

// Count returns the number of students matching search
func (r *StudentRepository) Count(_ context.Context, search string) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filtered(search))), nil
}

// Recent returns the most recently created students, newest first
func (r *StudentRepository) Recent(_ context.Context, limit uint64) ([]*models.Student, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.filtered("")
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetAll returns every student ordered by student_id
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	return r.List(ctx, repositories.StudentFilter{})
}

// StudentIDExists checks if a student number is used by a student other than excludeID
func (r *StudentRepository) StudentIDExists(_ context.Context, studentID string, excludeID int64) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, student := range s.students {
		if id != excludeID && student.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

// EmailExists checks if an email is used by a student other than excludeID
func (r *StudentRepository) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, student := range s.students {
		if id != excludeID && student.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// GradeRepository is the in-memory grade repository
type GradeRepository struct {
	store *Store
}

var _ repositories.IGradeRepository = (*GradeRepository)(nil)

// Create inserts a grade
func (r *GradeRepository) Create(_ context.Context, grade *models.Grade) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[grade.StudentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := s.courses[grade.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, g := range s.grades {
		if g.StudentID == grade.StudentID && g.CourseID == grade.CourseID {
			return apperrors.ErrGradeAlreadyExists
		}
	}

	s.nextGradeID++
	grade.ID = s.nextGradeID
	stored := *grade
	stored.Student = nil
	stored.Course = nil
	s.grades[grade.ID] = stored
	return nil
}

// Exists checks if the student already has a grade for the course
func (r *GradeRepository) Exists(_ context.Context, studentID, courseID int64) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.grades {
		if g.StudentID == studentID && g.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

// withRelations must be called with the read lock held
func (s *Store) withRelations(g models.Grade) *models.Grade {
	if student, ok := s.students[g.StudentID]; ok {
		g.Student = &student
	}
	if course, ok := s.courses[g.CourseID]; ok {
		g.Course = &course
	}
	return &g
}

// GetByStudentID returns the student's grades ordered by course name
func (r *GradeRepository) GetByStudentID(_ context.Context, studentID int64) ([]*models.Grade, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Grade{}
	for _, g := range s.grades {
		if g.StudentID == studentID {
			out = append(out, s.withRelations(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Course.Name != out[j].Course.Name {
			return out[i].Course.Name < out[j].Course.Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetAll returns every grade ordered by id
func (r *GradeRepository) GetAll(_ context.Context) ([]*models.Grade, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Grade, 0, len(s.grades))
	for _, g := range s.grades {
		out = append(out, s.withRelations(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Count returns the number of grades
func (r *GradeRepository) Count(_ context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.grades)), nil
}

// UserRepository is the in-memory user repository
type UserRepository struct {
	store *Store
}

var _ repositories.IUserRepository = (*UserRepository)(nil)

// Create inserts a user
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return apperrors.ErrUsernameAlreadyExists
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = s.now()
	s.users[user.ID] = *user
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// UsernameExists checks if a username is taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == apperrors.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

// UpdateLastLogin stamps the user's last successful login
func (r *UserRepository) UpdateLastLogin(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := s.now()
	u.LastLoginAt = &now
	s.users[id] = u
	return nil
}
