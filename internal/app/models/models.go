package models

// Year is a student's current academic year
type Year string

const (
	YearFirst  Year = "1"
	YearSecond Year = "2"
	YearThird  Year = "3"
	YearFourth Year = "4"
)

// Years lists the academic years in display order
var Years = []Year{YearFirst, YearSecond, YearThird, YearFourth}

var yearLabels = map[Year]string{
	YearFirst:  "First Year",
	YearSecond: "Second Year",
	YearThird:  "Third Year",
	YearFourth: "Fourth Year",
}

// Label returns the display name of the year
func (y Year) Label() string {
	if label, ok := yearLabels[y]; ok {
		return label
	}
	return string(y)
}

// Valid reports whether y is one of the known years
func (y Year) Valid() bool {
	_, ok := yearLabels[y]
	return ok
}

// Letter is a letter grade
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterF Letter = "F"
)

// Letters lists the letter grades in display order
var Letters = []Letter{LetterA, LetterB, LetterC, LetterD, LetterF}

var letterLabels = map[Letter]string{
	LetterA: "A (90-100)",
	LetterB: "B (80-89)",
	LetterC: "C (70-79)",
	LetterD: "D (60-69)",
	LetterF: "F (Below 60)",
}

// Label returns the letter with its score band
func (l Letter) Label() string {
	if label, ok := letterLabels[l]; ok {
		return label
	}
	return string(l)
}

// Valid reports whether l is one of the known letters
func (l Letter) Valid() bool {
	_, ok := letterLabels[l]
	return ok
}
