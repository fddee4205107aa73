package roster

import (
	"fmt"

	"runde/internal/models"
)

// Validate runs batch validation over the roster and returns every problem
// found as a human-readable message. It never stops at the first violation;
// duplicate ids are reported, not auto-resolved.
func Validate(people []models.Person) []string {
	var problems []string

	ids := make(map[string]bool)

	for i, p := range people {
		if p.Name == "" {
			problems = append(problems, fmt.Sprintf("项 %d 缺少 name", i))
		}

		if p.ID == "" {
			problems = append(problems, fmt.Sprintf("项 %d (%s) 缺少 id", i, p.Name))
		} else {
			if ids[p.ID] {
				problems = append(problems, fmt.Sprintf("重复 id: %s", p.ID))
			}

			ids[p.ID] = true
		}

		if len(p.Roles) == 0 {
			problems = append(problems, fmt.Sprintf("项 %d (%s) roles 为空", i, p.Name))

			continue
		}

		for ri, r := range p.Roles {
			if r.Department == "" {
				problems = append(problems, fmt.Sprintf("项 %d (%s) roles[%d] 缺少 department", i, p.Name, ri))
			}

			if r.Position == "" {
				problems = append(problems, fmt.Sprintf("项 %d (%s) roles[%d] 缺少 position", i, p.Name, ri))
			}

			if r.Order == 0 {
				problems = append(problems, fmt.Sprintf("项 %d (%s) roles[%d] 缺少 order", i, p.Name, ri))
			}
		}
	}

	return problems
}
