package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Validation rule patterns
var (
	// Username may contain letters, digits and @/./+/-/_ only
	UsernamePattern = `^[\w.@+\-]+$`

	// PasswordMinLength is the shortest accepted password
	PasswordMinLength = 8

	// Whole numbers, optionally signed
	IntegerPattern = `^[+-]?\d+$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Username *regexp.Regexp
	Integer  *regexp.Regexp
}{
	Username: regexp.MustCompile(UsernamePattern),
	Integer:  regexp.MustCompile(IntegerPattern),
}

// commonPasswords is a short deny-list of passwords seen at the top of leaked password dumps.
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwertyuiop": {}, "qwerty123": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "abc12345": {},
	"letmein1": {}, "trustno1": {}, "superman": {}, "11111111": {}, "00000000": {},
	"passw0rd": {}, "dragon123": {}, "monkey123": {}, "starwars": {}, "whatever": {},
}

// Password strength messages
const (
	MsgPasswordTooShort  = "This password is too short. It must contain at least 8 characters."
	MsgPasswordNumeric   = "This password is entirely numeric."
	MsgPasswordCommon    = "This password is too common."
	MsgPasswordSimilar   = "The password is too similar to the username."
	MsgUsernameInvalid   = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgPasswordsMismatch = "The two password fields didn’t match."
)

// PasswordProblems returns every strength rule the password breaks.
func PasswordProblems(password, username string) []string {
	var problems []string

	if len([]rune(password)) < PasswordMinLength {
		problems = append(problems, MsgPasswordTooShort)
	}

	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, MsgPasswordNumeric)
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, MsgPasswordCommon)
	}

	if isSimilar(password, username) {
		problems = append(problems, MsgPasswordSimilar)
	}

	return problems
}

// isSimilar flags passwords that contain the username or are contained in it.
func isSimilar(password, username string) bool {
	p := strings.ToLower(password)
	u := strings.ToLower(strings.TrimSpace(username))
	if len(u) < 3 || p == "" {
		return false
	}
	return strings.Contains(p, u) || strings.Contains(u, p)
}

// IsValidUsername checks the username character set.
func IsValidUsername(username string) bool {
	return CompiledPatterns.Username.MatchString(username)
}
