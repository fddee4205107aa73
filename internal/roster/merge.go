package roster

import (
	"sort"
	"strings"

	"runde/internal/models"
)

// MergePeopleByName merges person records that normalize to the same
// canonical name into one. The first record seen for a name becomes the
// base (with its roles normalized); later duplicates fill gaps: photo wins
// over an empty or placeholder value, bio/shortSummary/achievements are
// first-non-empty (achievements taken whole, never concatenated), and roles
// are merged via EnsureRole after normalization. Input order of first
// appearance is preserved.
func (n *Normalizer) MergePeopleByName(people []models.Person) []models.Person {
	out := make([]models.Person, 0, len(people))
	index := make(map[string]int)

	for _, p := range people {
		name := n.NormalizeName(p.Name)
		if name == "" {
			continue
		}

		p.Name = name
		p.Roles = n.NormalizeRoles(p.Roles)

		i, seen := index[name]
		if !seen {
			index[name] = len(out)
			out = append(out, p)

			continue
		}

		base := &out[i]

		if (base.Photo == "" || strings.Contains(base.Photo, "placeholder")) && p.Photo != "" {
			base.Photo = p.Photo
		}

		if base.Bio == "" && p.Bio != "" {
			base.Bio = p.Bio
		}

		if base.ShortSummary == "" && p.ShortSummary != "" {
			base.ShortSummary = p.ShortSummary
		}

		if len(base.Achievements) == 0 && len(p.Achievements) > 0 {
			base.Achievements = p.Achievements
		}

		for _, r := range p.Roles {
			pos := n.NormalizePosition(r.Position)
			if pos == "" {
				continue
			}

			dept := n.NormalizeDepartment(r.Department, pos)
			base.Roles = EnsureRole(base.Roles, models.Role{
				Department: dept,
				Position:   pos,
				Order:      models.OrderOrUnranked(r.Order),
			})
		}
	}

	return out
}

// ApplyMgmtOverride forces the order of management-department roles for the
// fixed list of named role-holders, leaving all other roles untouched.
// Applied after all merging.
func (n *Normalizer) ApplyMgmtOverride(people []models.Person) {
	for i := range people {
		rank, ok := n.mgmtRank[n.NormalizeName(people[i].Name)]
		if !ok {
			continue
		}

		for j := range people[i].Roles {
			if n.CleanDept(people[i].Roles[j].Department) == n.rules.MgmtDept {
				people[i].Roles[j].Order = rank
			}
		}
	}
}

// SortPeople orders the roster by (earliest role order, canonical name).
func SortPeople(people []models.Person) {
	sort.SliceStable(people, func(i, j int) bool {
		oi, oj := people[i].MinRoleOrder(), people[j].MinRoleOrder()
		if oi != oj {
			return oi < oj
		}

		return people[i].Name < people[j].Name
	})
}

// NormalizeAll runs the full cleanup used after bulk edits and imports:
// merge duplicate names, normalize and sort every role set, apply the
// management override and re-sort the roster.
func (n *Normalizer) NormalizeAll(people []models.Person) []models.Person {
	people = n.MergePeopleByName(people)

	for i := range people {
		people[i].Roles = n.NormalizeRoles(people[i].Roles)
		SortRoles(people[i].Roles)
	}

	n.ApplyMgmtOverride(people)

	for i := range people {
		SortRoles(people[i].Roles)
	}

	SortPeople(people)

	return people
}
