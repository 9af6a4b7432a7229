// Package admin holds the static listing configuration for every record type:
// which columns are shown, which fields can be filtered and searched, and the
// default ordering. The table is fixed at build time and read-only afterwards.
package admin

import "sort"

// Column is a displayed field and its heading
type Column struct {
	Field string
	Label string
}

// EntityConfig is the listing configuration for one record type
type EntityConfig struct {
	Name         string
	Title        string
	ListDisplay  []Column
	ListFilter   []Column
	SearchFields []string
	// Ordering holds field names; a leading "-" sorts descending
	Ordering []string
}

// Record is implemented by models that can be listed
type Record interface {
	FieldValue(field string) string
}

// Entity names
const (
	EntityStudents = "students"
	EntityCourses  = "courses"
	EntityGrades   = "grades"
)

var registry = map[string]EntityConfig{
	EntityStudents: {
		Name:  EntityStudents,
		Title: "Students",
		ListDisplay: []Column{
			{Field: "student_id", Label: "Student id"},
			{Field: "first_name", Label: "First name"},
			{Field: "last_name", Label: "Last name"},
			{Field: "email", Label: "Email"},
			{Field: "year", Label: "Year"},
		},
		ListFilter: []Column{
			{Field: "year", Label: "Year"},
			{Field: "created_at", Label: "Created at"},
		},
		SearchFields: []string{"student_id", "first_name", "last_name", "email"},
		Ordering:     []string{"student_id"},
	},
	EntityCourses: {
		Name:  EntityCourses,
		Title: "Courses",
		ListDisplay: []Column{
			{Field: "code", Label: "Code"},
			{Field: "name", Label: "Name"},
			{Field: "credits", Label: "Credits"},
		},
		SearchFields: []string{"code", "name"},
		Ordering:     []string{"name"},
	},
	EntityGrades: {
		Name:  EntityGrades,
		Title: "Grades",
		ListDisplay: []Column{
			{Field: "student", Label: "Student"},
			{Field: "course", Label: "Course"},
			{Field: "grade", Label: "Grade"},
			{Field: "marks", Label: "Marks"},
		},
		ListFilter: []Column{
			{Field: "grade", Label: "Grade"},
		},
	},
}

// Lookup returns the configuration registered under name
func Lookup(name string) (EntityConfig, bool) {
	cfg, ok := registry[name]
	return cfg, ok
}

// Entities returns every configuration sorted by title
func Entities() []EntityConfig {
	out := make([]EntityConfig, 0, len(registry))
	for _, cfg := range registry {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// IsFilterable reports whether field appears in ListFilter
func (c EntityConfig) IsFilterable(field string) bool {
	for _, f := range c.ListFilter {
		if f.Field == field {
			return true
		}
	}
	return false
}
