package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/app/repositories/memory"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
	"golang.org/x/crypto/bcrypt"
)

func newTestServices(t *testing.T) (*Services, *repositories.Repositories) {
	t.Helper()
	repos := memory.NewRepositories(memory.NewStore())
	return NewServices(repos, bcrypt.MinCost, zerolog.Nop()), repos
}

func requireFieldErrors(t *testing.T, err error) apperrors.FieldErrors {
	t.Helper()
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	fe, ok := apperrors.AsFieldErrors(err)
	require.True(t, ok)
	return fe
}

func createCourse(t *testing.T, svc *Services, name, code string) *models.Course {
	t.Helper()
	c, err := svc.CourseService.CreateCourse(context.Background(), &dto.CourseForm{Name: name, Code: code})
	require.NoError(t, err)
	return c
}

func studentForm(id, first, last string, courses ...string) *dto.StudentForm {
	return &dto.StudentForm{
		StudentID: id,
		FirstName: first,
		LastName:  last,
		Email:     id + "@example.com",
		Year:      "1",
		Courses:   courses,
	}
}

func TestCreateCourse(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	c, err := svc.CourseService.CreateCourse(ctx, &dto.CourseForm{Name: " Intro to CS ", Code: "CS101"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCredits, c.Credits)
	assert.Equal(t, "Intro to CS", c.Name)

	_, err = svc.CourseService.CreateCourse(ctx, &dto.CourseForm{Name: "Again", Code: "CS101", Credits: "4"})
	fe := requireFieldErrors(t, err)
	assert.Equal(t, []string{MsgCourseCodeExists}, fe.Get("code"))

	_, err = svc.CourseService.CreateCourse(ctx, &dto.CourseForm{Name: "", Code: "MA1", Credits: "abc"})
	fe = requireFieldErrors(t, err)
	assert.Equal(t, []string{validation.MsgRequired}, fe.Get("name"))
	assert.Equal(t, []string{"Enter a whole number."}, fe.Get("credits"))

	courses, err := svc.CourseService.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

func TestCreateStudentWithCourses(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	c1 := createCourse(t, svc, "Algebra", "MA101")
	c2 := createCourse(t, svc, "Biology", "BI101")

	created, err := svc.StudentService.CreateStudent(ctx, studentForm("STU001", "Ana", "Lee",
		fmt.Sprint(c1.ID), fmt.Sprint(c2.ID)))
	require.NoError(t, err)

	got, err := svc.StudentService.GetStudent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c1.ID, c2.ID}, got.CourseIDs)
	assert.Equal(t, "STU001 - Ana Lee", got.String())
}

func TestCreateStudentValidation(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestServices(t)
	_, err := svc.StudentService.CreateStudent(ctx, studentForm("STU001", "Ana", "Lee"))
	require.NoError(t, err)

	dup := studentForm("STU001", "Bo", "Kim", "999")
	dup.Email = "STU001@example.com"
	dup.Year = "5"
	_, err = svc.StudentService.CreateStudent(ctx, dup)
	fe := requireFieldErrors(t, err)
	assert.Equal(t, []string{MsgStudentIDExists}, fe.Get("student_id"))
	assert.Equal(t, []string{MsgStudentEmailExists}, fe.Get("email"))
	assert.Equal(t, []string{validation.InvalidChoice("999")}, fe.Get("courses"))
	assert.True(t, fe.Has("year"))

	count, err := repos.StudentRepository.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateStudentKeepsOwnUniqueValues(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	course := createCourse(t, svc, "Algebra", "MA101")

	s, err := svc.StudentService.CreateStudent(ctx, studentForm("STU001", "Ana", "Lee", fmt.Sprint(course.ID)))
	require.NoError(t, err)
	_, err = svc.StudentService.CreateStudent(ctx, studentForm("STU002", "Bo", "Kim"))
	require.NoError(t, err)

	edit := studentForm("STU001", "Anna", "Lee")
	updated, err := svc.StudentService.UpdateStudent(ctx, s.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.FirstName)

	got, err := svc.StudentService.GetStudent(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CourseIDs)

	clash := studentForm("STU002", "Anna", "Lee")
	_, err = svc.StudentService.UpdateStudent(ctx, s.ID, clash)
	fe := requireFieldErrors(t, err)
	assert.Equal(t, []string{MsgStudentIDExists}, fe.Get("student_id"))

	_, err = svc.StudentService.UpdateStudent(ctx, 404, edit)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestListStudentsPagination(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	for i := 1; i <= 25; i++ {
		_, err := svc.StudentService.CreateStudent(ctx, studentForm(fmt.Sprintf("STU%03d", i), "First", fmt.Sprintf("Last%d", i)))
		require.NoError(t, err)
	}

	tests := []struct {
		page     string
		wantPage int
		wantLen  int
		wantHead string
	}{
		{"", 1, 10, "STU001"},
		{"2", 2, 10, "STU011"},
		{"3", 3, 5, "STU021"},
		{"abc", 1, 10, "STU001"},
		{"99", 3, 5, "STU021"},
		{"0", 3, 5, "STU021"},
		{"-1", 3, 5, "STU021"},
	}
	for _, tt := range tests {
		t.Run("page="+tt.page, func(t *testing.T) {
			page, err := svc.StudentService.ListStudents(ctx, "", tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Pagination.CurrentPage)
			assert.Equal(t, 3, page.Pagination.TotalPages)
			require.Len(t, page.Students, tt.wantLen)
			assert.Equal(t, tt.wantHead, page.Students[0].StudentID)
		})
	}
}

func TestListStudentsSearchIsUnion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	for _, f := range []*dto.StudentForm{
		studentForm("STU001", "Ana", "Lee"),
		studentForm("STU002", "Bo", "Kim"),
		studentForm("STU003", "Leeroy", "Jenkins"),
	} {
		_, err := svc.StudentService.CreateStudent(ctx, f)
		require.NoError(t, err)
	}

	page, err := svc.StudentService.ListStudents(ctx, "lee", "")
	require.NoError(t, err)
	require.Len(t, page.Students, 2)
	assert.Equal(t, "STU001", page.Students[0].StudentID)
	assert.Equal(t, "STU003", page.Students[1].StudentID)

	page, err = svc.StudentService.ListStudents(ctx, "nobody", "")
	require.NoError(t, err)
	assert.Empty(t, page.Students)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestCreateGrade(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	course := createCourse(t, svc, "Algebra", "MA101")
	student, err := svc.StudentService.CreateStudent(ctx, studentForm("STU001", "Ana", "Lee"))
	require.NoError(t, err)

	form := func(letter, marks string) *dto.GradeForm {
		return &dto.GradeForm{
			Student: fmt.Sprint(student.ID),
			Course:  fmt.Sprint(course.ID),
			Grade:   letter,
			Marks:   marks,
		}
	}

	_, err = svc.GradeService.CreateGrade(ctx, form("A", "101"))
	fe := requireFieldErrors(t, err)
	assert.Equal(t, []string{"Ensure this value is less than or equal to 100."}, fe.Get("marks"))

	g, err := svc.GradeService.CreateGrade(ctx, form("A", "95"))
	require.NoError(t, err)
	assert.Equal(t, 95, g.Marks)

	_, err = svc.GradeService.CreateGrade(ctx, form("B", "85"))
	fe = requireFieldErrors(t, err)
	assert.Equal(t, []string{MsgGradeExists}, fe.NonField())

	_, err = svc.GradeService.CreateGrade(ctx, &dto.GradeForm{Student: "404", Course: fmt.Sprint(course.ID), Grade: "Z", Marks: "50"})
	fe = requireFieldErrors(t, err)
	assert.Equal(t, []string{validation.MsgInvalidChoice}, fe.Get("student"))
	assert.True(t, fe.Has("grade"))

	detail, err := svc.StudentService.GetStudentDetail(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, detail.Grades, 1)
	assert.Equal(t, models.LetterA, detail.Grades[0].Letter)
}

func TestDeleteStudentRemovesGrades(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestServices(t)
	course := createCourse(t, svc, "Algebra", "MA101")
	student, err := svc.StudentService.CreateStudent(ctx, studentForm("STU001", "Ana", "Lee", fmt.Sprint(course.ID)))
	require.NoError(t, err)
	_, err = svc.GradeService.CreateGrade(ctx, &dto.GradeForm{
		Student: fmt.Sprint(student.ID), Course: fmt.Sprint(course.ID), Grade: "C", Marks: "72",
	})
	require.NoError(t, err)

	require.NoError(t, svc.StudentService.DeleteStudent(ctx, student.ID))

	grades, err := repos.GradeRepository.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, grades)
	assert.ErrorIs(t, svc.StudentService.DeleteStudent(ctx, student.ID), apperrors.ErrResourceNotFound)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestServices(t)

	_, err := svc.AuthService.Register(ctx, &dto.RegisterForm{
		Username: "staff", Email: "staff@example.com", Password1: "Tr1cky-Horse", Password2: "Tr1cky-Hors",
	})
	fe := requireFieldErrors(t, err)
	assert.Equal(t, []string{validation.MsgPasswordsMismatch}, fe.Get("password2"))

	_, err = svc.AuthService.Register(ctx, &dto.RegisterForm{
		Username: "bad name!", Email: "staff@example.com", Password1: "12345678", Password2: "12345678",
	})
	fe = requireFieldErrors(t, err)
	assert.Equal(t, []string{validation.MsgUsernameInvalid}, fe.Get("username"))
	assert.Contains(t, fe.Get("password2"), validation.MsgPasswordNumeric)
	assert.Contains(t, fe.Get("password2"), validation.MsgPasswordCommon)

	user, err := svc.AuthService.Register(ctx, &dto.RegisterForm{
		Username: "staff", Email: "staff@example.com", Password1: "Tr1cky-Horse", Password2: "Tr1cky-Horse",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "Tr1cky-Horse", user.Password)

	_, err = svc.AuthService.Register(ctx, &dto.RegisterForm{
		Username: "staff", Email: "x@example.com", Password1: "Tr1cky-Horse", Password2: "Tr1cky-Horse",
	})
	fe = requireFieldErrors(t, err)
	assert.Equal(t, []string{MsgUsernameExists}, fe.Get("username"))

	_, err = svc.AuthService.Authenticate(ctx, &dto.LoginForm{Username: "staff", Password: "wrong"})
	fe = requireFieldErrors(t, err)
	assert.Equal(t, []string{MsgInvalidLogin}, fe.NonField())

	got, err := svc.AuthService.Authenticate(ctx, &dto.LoginForm{Username: " staff ", Password: "Tr1cky-Horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got, err = repos.UserRepository.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	first, created, err := svc.AuthService.EnsureUser(ctx, "admin", "admin@example.com", "Adm1n-Secret")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.AuthService.EnsureUser(ctx, "admin", "admin@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	createCourse(t, svc, "Algebra", "MA101")
	for i := 1; i <= 6; i++ {
		_, err := svc.StudentService.CreateStudent(ctx, studentForm(fmt.Sprintf("STU%03d", i), "F", "L"))
		require.NoError(t, err)
	}

	stats, err := svc.DashboardService.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.TotalStudents)
	assert.Equal(t, int64(1), stats.TotalCourses)
	assert.Zero(t, stats.TotalGrades)
	assert.Len(t, stats.RecentStudents, RecentStudentsLimit)
}

func TestAdminBrowseAndExport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)
	for _, f := range []*dto.StudentForm{
		studentForm("STU002", "Bo", "Kim"),
		studentForm("STU001", "Ana", "Lee"),
	} {
		_, err := svc.StudentService.CreateStudent(ctx, f)
		require.NoError(t, err)
	}

	result, err := svc.AdminService.Browse(ctx, "students", dto.BrowseQuery{})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "STU001", result.Rows[0][0])
	assert.True(t, result.Searchable)
	require.Len(t, result.Filters, 2)
	assert.Equal(t, []string{"1"}, result.Filters[0].Choices)

	result, err = svc.AdminService.Browse(ctx, "students", dto.BrowseQuery{Search: "kim"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	var buf bytes.Buffer
	require.NoError(t, svc.AdminService.Export(ctx, "students", dto.BrowseQuery{}, &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Students")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Student id", "First name", "Last name", "Email", "Year"}, rows[0])
	assert.Equal(t, "STU001", rows[1][0])

	_, err = svc.AdminService.Browse(ctx, "users", dto.BrowseQuery{})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
