// Package roster implements the teacher-roster pipeline: heuristic parsing of
// the loosely structured plain-text roster into ordered role records, role
// normalization and deduplication, person merging by canonical name, and the
// sync that reconciles the persisted roster against a fresh parse.
package roster

// Rules carries the business tables driving normalization: canonical
// departments, name aliases, role-title keywords, organization-name prefixes,
// theory-subject markers and the forced management ranking. Callers inject a
// Rules value (usually DefaultRules, optionally overridden from config) so
// tests can substitute fixtures.
type Rules struct {
	// DeptCanon maps raw department spellings to their canonical name.
	DeptCanon map[string]string
	// Departments lists the canonical department names in display order.
	Departments []string
	// MgmtOrder forces the management-department rank of the named persons,
	// applied after all merging. Position in the slice is the rank (1-based).
	MgmtOrder []string
	// NameAliases maps known misspellings to the canonical person name.
	NameAliases map[string]string
	// RoleHints are substrings that mark a line as a position/title line.
	RoleHints []string
	// OrgPrefixes are organization-name prefixes stripped from positions.
	OrgPrefixes []string
	// TheoryMarkers force-reclassify a role into TheoryDept when the
	// position contains any of them.
	TheoryMarkers []string
	// TheoryDept is the department theory-subject roles are moved to.
	TheoryDept string
	// MgmtDept is the management department name targeted by MgmtOrder.
	MgmtDept string
	// DefaultTitle fills roles the parser emitted without a position when no
	// fallback title is known for the person and department.
	DefaultTitle string
}

// DefaultRules returns the production rule tables for the school roster.
func DefaultRules() Rules {
	return Rules{
		DeptCanon: map[string]string{
			"管理部":   "管理部",
			"舞蹈部":   "舞蹈部",
			"声乐组":   "声乐组",
			"器乐组":   "器乐组",
			"理论组教师": "理论组",
			"理论组":   "理论组",
		},
		Departments: []string{"管理部", "舞蹈部", "声乐组", "器乐组", "理论组"},
		MgmtOrder: []string{
			"陈涛", "苏海鹏", "王玉", "韩刚", "李甜", "秦淼娜", "祁军霞", "景想东", "苏海震",
		},
		NameAliases: map[string]string{
			"陈璞东": "陈璞",
		},
		RoleHints: []string{
			"教师", "校长", "总监", "主管", "顾问", "名师", "创始人", "团长", "执行校长",
			"主任", "副主任", "副教授", "教授", "讲师", "外聘", "特聘",
		},
		OrgPrefixes: []string{
			"兰州润德艺考", "兰州润德艺术学校", "兰州润德艺校",
		},
		TheoryMarkers: []string{"乐理", "视唱", "练耳", "视唱练耳", "音乐理论"},
		TheoryDept:    "理论组",
		MgmtDept:      "管理部",
		DefaultTitle:  "教师",
	}
}

// MgmtRank maps each name in MgmtOrder to its 1-based rank.
func (r Rules) MgmtRank() map[string]int {
	rank := make(map[string]int, len(r.MgmtOrder))
	for i, n := range r.MgmtOrder {
		rank[n] = i + 1
	}

	return rank
}
