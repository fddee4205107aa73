// Package models defines data structures for the roster, admissions and portal tools.
package models

// PlaceholderPhoto is the default photo path assigned to persons without one.
const PlaceholderPhoto = "photos/placeholder.jpg"

// Role is one job function a person holds: a department, a display title and
// a rank used for display sorting.
type Role struct {
	Department string `json:"department"`
	Position   string `json:"position"`
	Order      int    `json:"order"`
}

// Person represents one teacher record in teachers.json (v2 schema).
// A person may hold several roles across departments.
type Person struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Photo        string   `json:"photo"`
	ShortSummary string   `json:"shortSummary"`
	Bio          string   `json:"bio"`
	Achievements []string `json:"achievements"`
	Roles        []Role   `json:"roles"`
}

// MinRoleOrder returns the smallest role order, or Unranked when the person
// has no roles. Used for sorting the roster.
func (p *Person) MinRoleOrder() int {
	minOrder := Unranked
	for _, r := range p.Roles {
		if o := OrderOrUnranked(r.Order); o < minOrder {
			minOrder = o
		}
	}

	return minOrder
}

// Unranked is the sort rank assigned to roles that carry no explicit order.
const Unranked = 1_000_000_000

// OrderOrUnranked maps a missing (zero) order to the Unranked sentinel so
// unordered roles sort last.
func OrderOrUnranked(order int) int {
	if order <= 0 {
		return Unranked
	}

	return order
}
