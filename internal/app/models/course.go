package models

import "strconv"

// DefaultCredits is used when a course is created without credits
const DefaultCredits = 3

// Course represents an academic course
type Course struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Code    string `json:"code" db:"code"`
	Credits int    `json:"credits" db:"credits"`
}

// String renders the course as "CS101 - Intro to CS"
func (c *Course) String() string {
	return c.Code + " - " + c.Name
}

// FieldValue returns the display value of a named column
func (c *Course) FieldValue(field string) string {
	switch field {
	case "id":
		return strconv.FormatInt(c.ID, 10)
	case "name":
		return c.Name
	case "code":
		return c.Code
	case "credits":
		return strconv.Itoa(c.Credits)
	default:
		return ""
	}
}
