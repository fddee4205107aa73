package roster

import (
	"sort"
	"strings"

	"runde/internal/models"
)

type roleKey struct {
	dept string
	pos  string
}

// NormalizeRoles canonicalizes each role's department and position and
// collapses duplicates sharing the same (department, dedup-key) pair. Within
// a group the earliest order wins and a 名师-suffixed title is preferred as
// the display string. Roles with an empty position or department after
// normalization are dropped. Idempotent: applying it to its own output
// yields the same roles.
func (n *Normalizer) NormalizeRoles(raw []models.Role) []models.Role {
	merged := make(map[roleKey]*models.Role)

	var keys []roleKey

	for _, r := range raw {
		pos := n.NormalizePosition(r.Position)
		if pos == "" {
			continue
		}

		dept := n.NormalizeDepartment(r.Department, pos)
		if dept == "" {
			continue
		}

		key := roleKey{dept: dept, pos: n.PositionDedupeKey(pos)}
		order := models.OrderOrUnranked(r.Order)

		cur, ok := merged[key]
		if !ok {
			merged[key] = &models.Role{Department: dept, Position: pos, Order: order}
			keys = append(keys, key)

			continue
		}

		if order < cur.Order {
			cur.Order = order
		}

		// Same specialty: prefer the 名师 display title.
		if !strings.HasSuffix(cur.Position, "名师") && strings.HasSuffix(pos, "名师") {
			cur.Position = pos
		}
	}

	out := make([]models.Role, 0, len(keys))
	for _, key := range keys {
		out = append(out, *merged[key])
	}

	return out
}

// EnsureRole merges one incoming role into a role set and returns the new
// set. An existing role with the exact same (department, position) pair only
// has its order lowered to the minimum of the two; otherwise the role is
// appended. This exact-match variant serves incremental merges; bulk cleanup
// goes through NormalizeRoles.
func EnsureRole(roles []models.Role, role models.Role) []models.Role {
	out := make([]models.Role, len(roles))
	copy(out, roles)

	for i := range out {
		if out[i].Department == role.Department && out[i].Position == role.Position {
			existing := out[i].Order
			if existing <= 0 {
				existing = role.Order
			}

			if role.Order < existing {
				existing = role.Order
			}

			out[i].Order = existing

			return out
		}
	}

	return append(out, role)
}

// SortRoles orders roles by ascending rank, unranked roles last.
func SortRoles(roles []models.Role) {
	sort.SliceStable(roles, func(i, j int) bool {
		return models.OrderOrUnranked(roles[i].Order) < models.OrderOrUnranked(roles[j].Order)
	})
}
