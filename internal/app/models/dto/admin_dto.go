package dto

// BrowseQuery narrows an admin listing
type BrowseQuery struct {
	Search  string
	Filters map[string]string
}

// BrowseColumn is one displayed column of an admin listing
type BrowseColumn struct {
	Field string
	Label string
}

// BrowseFilter is one list filter with the values present in the data
type BrowseFilter struct {
	Field    string
	Label    string
	Selected string
	Choices  []string
}

// BrowseResult is the rendered content of an admin listing
type BrowseResult struct {
	Entity       string
	Title        string
	Columns      []BrowseColumn
	Rows         [][]string
	Filters      []BrowseFilter
	Searchable   bool
	Search       string
	TotalRecords int
}
