package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecord map[string]string

func (f fakeRecord) FieldValue(field string) string { return f[field] }

func TestLookup(t *testing.T) {
	cfg, ok := Lookup(EntityStudents)
	require.True(t, ok)
	assert.Equal(t, []string{"student_id"}, cfg.Ordering)
	assert.True(t, cfg.IsFilterable("year"))
	assert.False(t, cfg.IsFilterable("email"))

	_, ok = Lookup("users")
	assert.False(t, ok)
}

func TestEntitiesSortedByTitle(t *testing.T) {
	var titles []string
	for _, e := range Entities() {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"Courses", "Grades", "Students"}, titles)
}

func TestApplySearchFilterOrder(t *testing.T) {
	cfg, _ := Lookup(EntityStudents)
	records := []Record{
		fakeRecord{"student_id": "STU003", "first_name": "Cem", "last_name": "Lee", "year": "2"},
		fakeRecord{"student_id": "STU001", "first_name": "Ana", "last_name": "Lee", "year": "1"},
		fakeRecord{"student_id": "STU002", "first_name": "Bo", "last_name": "Kim", "year": "1"},
	}

	got := cfg.Apply(records, "LEE", nil)
	require.Len(t, got, 2)
	assert.Equal(t, "STU001", got[0].FieldValue("student_id"))
	assert.Equal(t, "STU003", got[1].FieldValue("student_id"))

	got = cfg.Apply(records, "", map[string]string{"year": "1"})
	require.Len(t, got, 2)
	assert.Equal(t, "STU001", got[0].FieldValue("student_id"))

	// email is not a list filter, so it is ignored
	got = cfg.Apply(records, "", map[string]string{"email": "nobody"})
	assert.Len(t, got, 3)
}

func TestOrderingNumeric(t *testing.T) {
	cfg := EntityConfig{Ordering: []string{"-marks"}}
	records := []Record{
		fakeRecord{"marks": "9"},
		fakeRecord{"marks": "100"},
		fakeRecord{"marks": "55"},
	}

	got := cfg.Apply(records, "", nil)
	assert.Equal(t, "100", got[0].FieldValue("marks"))
	assert.Equal(t, "55", got[1].FieldValue("marks"))
	assert.Equal(t, "9", got[2].FieldValue("marks"))
}

func TestRowAndFilterChoices(t *testing.T) {
	cfg, _ := Lookup(EntityCourses)
	rec := fakeRecord{"code": "CS101", "name": "Intro to CS", "credits": "3"}
	assert.Equal(t, []string{"CS101", "Intro to CS", "3"}, cfg.Row(rec))

	choices := cfg.FilterChoices([]Record{
		fakeRecord{"grade": "B"}, fakeRecord{"grade": "A"}, fakeRecord{"grade": "B"},
	}, "grade")
	assert.Equal(t, []string{"A", "B"}, choices)
}
