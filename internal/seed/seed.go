package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// Options selects what to create at startup
type Options struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	DemoCourses   bool
}

// DemoCourses are created when Options.DemoCourses is set
var DemoCourses = []dto.CourseForm{
	{Code: "CS101", Name: "Introduction to Computer Science", Credits: "4"},
	{Code: "MATH201", Name: "Linear Algebra", Credits: "3"},
	{Code: "PHYS110", Name: "General Physics", Credits: "4"},
	{Code: "ENG105", Name: "Academic Writing", Credits: "2"},
}

// CreateDefaultData creates the admin account and demo courses if they don't exist.
// Failures are collected so one bad record does not stop the rest.
func CreateDefaultData(ctx context.Context, svc *services.Services, opts Options, lgr zerolog.Logger) error {
	var finalErr error

	if opts.AdminUsername != "" && opts.AdminPassword != "" {
		user, created, err := svc.AuthService.EnsureUser(ctx, opts.AdminUsername, opts.AdminEmail, opts.AdminPassword)
		switch {
		case err != nil:
			lgr.Error().Err(err).Str("username", opts.AdminUsername).Msg("Error creating admin account")
			finalErr = errors.Join(finalErr, err)
		case created:
			lgr.Info().Int64("userId", user.ID).Str("username", user.Username).Msg("Admin account created")
		default:
			lgr.Debug().Str("username", user.Username).Msg("Admin account already exists")
		}
	}

	if !opts.DemoCourses {
		return finalErr
	}

	lgr.Info().Msg("Checking/Creating demo courses...")
	for _, c := range DemoCourses {
		form := c
		course, err := svc.CourseService.CreateCourse(ctx, &form)
		if err != nil {
			if errs, ok := apperrors.AsFieldErrors(err); ok && errs.Has("code") {
				continue // already there
			}
			lgr.Error().Err(err).Str("code", c.Code).Msg("Error creating demo course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("code", course.Code).Int("credits", course.Credits).Msg("Demo course created")
	}

	return finalErr
}
