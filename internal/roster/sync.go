package roster

import (
	"fmt"

	"runde/internal/logger"
	"runde/internal/models"
)

// SyncStats summarizes one sync run.
type SyncStats struct {
	RolesParsed int
	People      int
	Dropped     []DroppedLine
}

// Syncer drives the end-to-end reconciliation of the persisted roster
// against a freshly parsed source text.
type Syncer struct {
	norm   *Normalizer
	parser *Parser
	log    *logger.Logger
}

// NewSyncer creates a syncer over the given normalizer.
func NewSyncer(norm *Normalizer, log *logger.Logger) *Syncer {
	return &Syncer{
		norm:   norm,
		parser: NewParser(norm),
		log:    log,
	}
}

// Sync merges the existing roster by name, parses the raw text and
// integrates every parsed role, creating persons as needed. Re-running sync
// never raises a previously assigned order (the earliest observation wins),
// the management-order override is applied last, and the returned roster is
// sorted by (earliest role order, name). The caller decides whether to
// persist the result.
func (s *Syncer) Sync(existing []models.Person, rawText string) ([]models.Person, SyncStats) {
	people := s.norm.MergePeopleByName(existing)

	// Full cleanup pass after the merge so no stale role survives.
	for i := range people {
		people[i].Roles = s.norm.NormalizeRoles(people[i].Roles)
	}

	// Known titles per person and department, used to resolve roles the
	// parser emitted without a position (the inline name+department form).
	fallback := make(map[string]map[string]string)

	for i := range people {
		name := s.norm.NormalizeName(people[i].Name)
		if name == "" {
			continue
		}

		titles, ok := fallback[name]
		if !ok {
			titles = make(map[string]string)
			fallback[name] = titles
		}

		for _, r := range people[i].Roles {
			pos := s.norm.NormalizePosition(r.Position)
			if r.Department != "" && pos != "" {
				titles[s.norm.CleanDept(r.Department)] = pos
			}
		}
	}

	res := s.parser.Parse(rawText)

	for _, d := range res.Dropped {
		s.log.Debug("roster line dropped", "line", d.Line, "text", d.Text, "reason", d.Reason)
	}

	byName := make(map[string]int)
	for i := range people {
		if people[i].Name != "" {
			byName[s.norm.NormalizeName(people[i].Name)] = i
		}
	}

	for _, rr := range res.Roles {
		name := s.norm.NormalizeName(rr.Name)

		pos := s.norm.NormalizePosition(rr.Position)
		if pos == "" {
			pos = fallback[name][s.norm.CleanDept(rr.Department)]
		}

		if pos == "" {
			// Last resort so the site never shows an empty title.
			pos = s.norm.rules.DefaultTitle
		}

		if np := s.norm.NormalizePosition(pos); np != "" {
			pos = np
		}

		dept := s.norm.NormalizeDepartment(rr.Department, pos)

		i, ok := byName[name]
		if !ok {
			people = append(people, models.Person{
				ID:           uniqueID(name, people),
				Name:         name,
				Photo:        models.PlaceholderPhoto,
				Achievements: []string{},
				Roles:        []models.Role{},
			})
			i = len(people) - 1
			byName[name] = i
		}

		people[i].Roles = EnsureRole(people[i].Roles, models.Role{
			Department: dept,
			Position:   pos,
			Order:      rr.Order,
		})
	}

	for i := range people {
		SortRoles(people[i].Roles)
	}

	s.norm.ApplyMgmtOverride(people)

	for i := range people {
		SortRoles(people[i].Roles)
	}

	SortPeople(people)

	return people, SyncStats{
		RolesParsed: len(res.Roles),
		People:      len(people),
		Dropped:     res.Dropped,
	}
}

// uniqueID derives a slug id from the name, suffixing a counter on
// collision with any existing person id.
func uniqueID(name string, people []models.Person) string {
	existing := make(map[string]bool, len(people))
	for i := range people {
		existing[people[i].ID] = true
	}

	base := CanonicalID(name)

	id := base
	for n := 1; existing[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}

	return id
}
