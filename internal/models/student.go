package models

// Admission is one admission-notice screenshot attached to a student.
type Admission struct {
	Image       string `json:"image"`
	Watermarked bool   `json:"watermarked"`
	Note        string `json:"note"`
}

// Student represents one admitted student in students.json.
// Year is a pointer because older records legitimately carry null.
type Student struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	School     string      `json:"school"`
	Major      string      `json:"major"`
	Year       *int        `json:"year"`
	Photo      string      `json:"photo"`
	Admissions []Admission `json:"admissions"`
}
