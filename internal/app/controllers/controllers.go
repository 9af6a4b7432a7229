package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// parseIDParam reads a numeric path parameter. Anything else is a missing page.
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NewResourceNotFoundError("invalid " + paramName)
	}
	return id, nil
}

// bindForm binds a urlencoded or multipart POST body into form
func bindForm(ctx *gin.Context, form any) error {
	if err := ctx.ShouldBind(form); err != nil {
		return apperrors.NewBadRequestError("Invalid form submission")
	}
	return nil
}

// formErrors returns err as field errors, or an empty set when err carries none
func formErrors(err error) (apperrors.FieldErrors, bool) {
	if errs, ok := apperrors.AsFieldErrors(err); ok {
		return errs, true
	}
	return apperrors.FieldErrors{}, false
}
