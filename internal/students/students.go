// Package students maintains the admitted-students list: field
// normalization, batch validation and the default display sort.
package students

import (
	"fmt"
	"sort"
	"strings"

	"runde/internal/models"
	"runde/internal/roster"
)

// Normalize cleans every student record in place-style (returning the new
// slice), applies the default sort (year descending, name ascending) and
// returns any validation problems found afterwards.
func Normalize(students []models.Student) ([]models.Student, []string) {
	out := make([]models.Student, 0, len(students))

	for _, s := range students {
		s.ID = roster.NormLine(s.ID)
		s.Name = strings.ReplaceAll(roster.NormLine(s.Name), " ", "")
		s.School = roster.NormLine(s.School)
		s.Major = roster.NormLine(s.Major)
		s.Photo = roster.NormLine(s.Photo)

		cleaned := make([]models.Admission, 0, len(s.Admissions))

		for _, a := range s.Admissions {
			img := roster.NormLine(a.Image)
			if img == "" {
				continue
			}

			cleaned = append(cleaned, models.Admission{
				Image:       img,
				Watermarked: a.Watermarked,
				Note:        roster.NormLine(a.Note),
			})
		}

		s.Admissions = cleaned
		out = append(out, s)
	}

	Sort(out)

	return out, Validate(out)
}

// Sort orders students by year descending, then name ascending. Records
// without a year sort last.
func Sort(students []models.Student) {
	sort.SliceStable(students, func(i, j int) bool {
		yi, yj := 0, 0
		if students[i].Year != nil {
			yi = *students[i].Year
		}

		if students[j].Year != nil {
			yj = *students[j].Year
		}

		if yi != yj {
			return yi > yj
		}

		return students[i].Name < students[j].Name
	})
}

// Validate runs batch validation and returns every problem found as a
// human-readable message; it never stops at the first violation.
func Validate(students []models.Student) []string {
	var problems []string

	ids := make(map[string]bool)

	for i, s := range students {
		if s.ID == "" {
			problems = append(problems, fmt.Sprintf("项 %d 缺少 id", i))
		} else if ids[s.ID] {
			problems = append(problems, fmt.Sprintf("重复 id: %s", s.ID))
		} else {
			ids[s.ID] = true
		}

		for _, field := range []struct{ name, value string }{
			{"name", s.Name},
			{"school", s.School},
			{"major", s.Major},
		} {
			if roster.NormLine(field.value) == "" {
				problems = append(problems, fmt.Sprintf("项 %d (%s) 缺少 %s", i, s.ID, field.name))
			}
		}

		for ai, a := range s.Admissions {
			if roster.NormLine(a.Image) == "" {
				problems = append(problems, fmt.Sprintf("项 %d (%s) admissions[%d] 缺少 image", i, s.Name, ai))
			}
		}
	}

	return problems
}

// CanonicalID derives a stable student id from name, school and year.
func CanonicalID(name, school string, year *int) string {
	base := name
	if school != "" {
		base += "_" + school
	}

	if year != nil {
		base += fmt.Sprintf("_%d", *year)
	}

	id := roster.CanonicalID(base)
	if id == "" {
		return "student"
	}

	return id
}

// UniqueID suffixes a counter on collision with an existing student id.
func UniqueID(base string, students []models.Student) string {
	existing := make(map[string]bool, len(students))
	for i := range students {
		existing[students[i].ID] = true
	}

	id := base
	for n := 1; existing[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}

	return id
}

// Find locates a student by id or, failing that, by exact name.
func Find(students []models.Student, id, name string) *models.Student {
	for i := range students {
		if id != "" && students[i].ID == id {
			return &students[i]
		}

		if name != "" && students[i].Name == name {
			return &students[i]
		}
	}

	return nil
}
