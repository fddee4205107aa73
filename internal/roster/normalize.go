package roster

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nameRe       = regexp.MustCompile(`^[\x{4e00}-\x{9fff}·]{2,5}$`)
	idStripRe    = regexp.MustCompile(`[^0-9A-Za-z_\x{4e00}-\x{9fff}-]`)
)

// NormLine canonicalizes whitespace: full-width spaces become ASCII spaces,
// runs of whitespace collapse to one space, and the line is trimmed.
func NormLine(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// Normalizer canonicalizes names, departments and positions according to a
// set of Rules.
type Normalizer struct {
	rules    Rules
	deptSet  map[string]bool
	mgmtRank map[string]int
}

// NewNormalizer creates a normalizer for the given rules.
func NewNormalizer(rules Rules) *Normalizer {
	deptSet := make(map[string]bool, len(rules.Departments))
	for _, d := range rules.Departments {
		deptSet[d] = true
	}

	return &Normalizer{
		rules:    rules,
		deptSet:  deptSet,
		mgmtRank: rules.MgmtRank(),
	}
}

// Rules returns the rule tables this normalizer was built with.
func (n *Normalizer) Rules() Rules {
	return n.rules
}

// CleanDept strips whitespace and a trailing/leading colon, then maps the
// department through the canonical table. Unrecognized departments pass
// through unchanged.
func (n *Normalizer) CleanDept(s string) string {
	s = strings.Trim(NormLine(s), "：:")
	if canon, ok := n.rules.DeptCanon[s]; ok {
		return canon
	}

	return s
}

// IsDeptLine reports whether the line is exactly a canonical department name.
func (n *Normalizer) IsDeptLine(s string) bool {
	return n.deptSet[n.CleanDept(s)]
}

// CleanName strips whitespace and colons and removes embedded spaces.
func (n *Normalizer) CleanName(s string) string {
	s = strings.Trim(NormLine(s), "：:")

	return strings.ReplaceAll(s, " ", "")
}

// NormalizeName cleans the raw name and resolves known aliases/misspellings
// to the canonical form.
func (n *Normalizer) NormalizeName(s string) string {
	name := n.CleanName(s)
	if canon, ok := n.rules.NameAliases[name]; ok {
		return canon
	}

	return name
}

// NormalizeDepartment canonicalizes the department, reclassifying to the
// theory department when the position text contains a theory marker. The
// source roster lists theory-subject teachers under an instrumental
// department; they are grouped separately for display.
func (n *Normalizer) NormalizeDepartment(dept, position string) string {
	if dept == "" {
		return dept
	}

	d := n.CleanDept(dept)

	p := NormLine(position)
	if p == "" {
		return d
	}

	for _, marker := range n.rules.TheoryMarkers {
		if strings.Contains(p, marker) {
			return n.rules.TheoryDept
		}
	}

	return d
}

// NormalizePosition strips whitespace and any leading organization-name
// prefix. Returns the empty string for empty input.
//
// 名师 (distinguished-teacher) titles are deliberately NOT rewritten to 教师
// here; that equivalence lives only in PositionDedupeKey so the original
// display string survives when chosen as canonical.
func (n *Normalizer) NormalizePosition(position string) string {
	p := NormLine(position)
	if p == "" {
		return ""
	}

	for _, prefix := range n.rules.OrgPrefixes {
		if strings.HasPrefix(p, prefix) {
			p = strings.TrimSpace(strings.TrimPrefix(p, prefix))
		}
	}

	return p
}

// PositionDedupeKey rewrites a position ending in 名师 to the equivalent
// 教师 suffix so 声乐名师 and 声乐教师 collide as one role.
func (n *Normalizer) PositionDedupeKey(position string) string {
	p := n.NormalizePosition(position)
	if strings.HasSuffix(p, "名师") {
		return strings.TrimSuffix(p, "名师") + "教师"
	}

	return p
}

// LooksLikeName reports whether the cleaned string is name-shaped: 2-5 CJK
// ideographs (middle dot allowed) containing no role-title keyword.
func (n *Normalizer) LooksLikeName(s string) bool {
	s = n.CleanName(s)
	if s == "" {
		return false
	}

	for _, hint := range n.rules.RoleHints {
		if strings.Contains(s, hint) {
			return false
		}
	}

	return nameRe.MatchString(s)
}

// CanonicalID derives a stable id slug from a name: spaces become
// underscores, anything outside letters/digits/CJK/underscore/hyphen is
// dropped, and the result is lowercased.
func CanonicalID(name string) string {
	s := strings.ReplaceAll(name, " ", "_")
	s = idStripRe.ReplaceAllString(s, "")

	return strings.ToLower(s)
}
