package dto

import "strings"

// RegisterForm is the payload of the account registration form
type RegisterForm struct {
	Username  string `form:"username" validate:"required,max=150"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required"`
}

// Normalize trims the identity fields; passwords are taken verbatim
func (f *RegisterForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

// LoginForm is the payload of the sign-in form
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Normalize trims the username
func (f *LoginForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
}
