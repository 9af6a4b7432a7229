package admin

import (
	"sort"
	"strconv"
	"strings"
)

// Apply filters, searches and orders records according to the configuration.
// Search is a case-insensitive substring match against any search field;
// filters are exact matches and only honored for fields listed in ListFilter.
func (c EntityConfig) Apply(records []Record, search string, filters map[string]string) []Record {
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if !c.matchesFilters(r, filters) {
			continue
		}
		if search != "" && !c.matchesSearch(r, search) {
			continue
		}
		out = append(out, r)
	}

	if len(c.Ordering) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return c.less(out[i], out[j])
		})
	}
	return out
}

func (c EntityConfig) matchesFilters(r Record, filters map[string]string) bool {
	for field, want := range filters {
		if want == "" || !c.IsFilterable(field) {
			continue
		}
		if r.FieldValue(field) != want {
			return false
		}
	}
	return true
}

func (c EntityConfig) matchesSearch(r Record, needle string) bool {
	for _, field := range c.SearchFields {
		if strings.Contains(strings.ToLower(r.FieldValue(field)), needle) {
			return true
		}
	}
	return false
}

func (c EntityConfig) less(a, b Record) bool {
	for _, key := range c.Ordering {
		desc := strings.HasPrefix(key, "-")
		field := strings.TrimPrefix(key, "-")

		cmp := compareValues(a.FieldValue(field), b.FieldValue(field))
		if cmp == 0 {
			continue
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

// compareValues compares numerically when both values are integers
func compareValues(a, b string) int {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// Row renders the displayed columns of a record
func (c EntityConfig) Row(r Record) []string {
	row := make([]string, len(c.ListDisplay))
	for i, col := range c.ListDisplay {
		row[i] = r.FieldValue(col.Field)
	}
	return row
}

// FilterChoices collects the distinct values of a filter field, sorted
func (c EntityConfig) FilterChoices(records []Record, field string) []string {
	seen := map[string]struct{}{}
	var choices []string
	for _, r := range records {
		v := r.FieldValue(field)
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		choices = append(choices, v)
	}
	sort.Strings(choices)
	return choices
}
