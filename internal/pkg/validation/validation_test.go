package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleForm struct {
	Code  string `form:"code" validate:"required,max=4"`
	Email string `form:"email" validate:"required,email"`
	Year  string `form:"year" validate:"required,year"`
}

type letterForm struct {
	Grade string `form:"grade" validate:"required,letter"`
}

func TestStructReportsFormFieldNames(t *testing.T) {
	errs := Struct(&sampleForm{Code: "TOOLONG", Email: "nope", Year: "7"})

	assert.Equal(t, []string{"Ensure this value has at most 4 characters (it has 7)."}, errs.Get("code"))
	assert.Equal(t, []string{"Enter a valid email address."}, errs.Get("email"))
	assert.Equal(t, []string{"Select a valid choice. 7 is not one of the available choices."}, errs.Get("year"))
}

func TestStructRequired(t *testing.T) {
	errs := Struct(&sampleForm{})

	assert.Equal(t, []string{MsgRequired}, errs.Get("code"))
	assert.Equal(t, []string{MsgRequired}, errs.Get("email"))
	assert.Equal(t, []string{MsgRequired}, errs.Get("year"))
}

func TestStructValid(t *testing.T) {
	errs := Struct(&sampleForm{Code: "CS1", Email: "ana@x.com", Year: "2"})
	assert.True(t, errs.Empty())
}

func TestStructLetterChoice(t *testing.T) {
	assert.True(t, Struct(&letterForm{Grade: "B"}).Empty())
	assert.Equal(t, []string{"Select a valid choice. E is not one of the available choices."},
		Struct(&letterForm{Grade: "E"}).Get("grade"))
}

func TestParseWholeNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantMsg string
	}{
		{"95", 95, ""},
		{" 0 ", 0, ""},
		{"100", 100, ""},
		{"101", 101, "Ensure this value is less than or equal to 100."},
		{"-1", -1, "Ensure this value is greater than or equal to 0."},
		{"9.5", 0, "Enter a whole number."},
		{"abc", 0, "Enter a whole number."},
		{"", 0, "Enter a whole number."},
	}

	for _, tt := range tests {
		got, msg := ParseWholeNumber(tt.raw, 0, 100)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.wantMsg, msg, tt.raw)
	}
}

func TestPasswordProblems(t *testing.T) {
	assert.Empty(t, PasswordProblems("Tr1cky-Horse", "ana"))
	assert.Contains(t, PasswordProblems("short1", "ana"), MsgPasswordTooShort)
	assert.Contains(t, PasswordProblems("1234567890", "ana"), MsgPasswordNumeric)
	assert.Contains(t, PasswordProblems("password123", "ana"), MsgPasswordCommon)
	assert.Contains(t, PasswordProblems("marklee2024", "marklee"), MsgPasswordSimilar)
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("ana.lee+staff@x_1"))
	assert.False(t, IsValidUsername("ana lee"))
	assert.False(t, IsValidUsername("ana!"))
}
