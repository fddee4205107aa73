package roster

import (
	"regexp"
	"strings"
)

// ParsedRole is one role record extracted from the raw roster text, in
// order of appearance. Position is empty for the inline name+department
// form; the sync step resolves it from the fallback title map.
type ParsedRole struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Order      int    `json:"order"`
}

// DroppedLine records a name-shaped line the parser discarded because no
// valid position line or department context was found. The parser favors
// precision over recall; these diagnostics make the silent drops auditable.
type DroppedLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// ParseResult holds the ordered roles extracted from the roster text plus
// diagnostics for discarded name candidates.
type ParseResult struct {
	Roles   []ParsedRole
	Dropped []DroppedLine
}

// Parser scans the raw roster text line by line, emitting a role whenever a
// name-shaped line and a title-shaped follow-on line co-occur under a known
// department context.
type Parser struct {
	norm       *Normalizer
	singleHan  *regexp.Regexp
	shortName  *regexp.Regexp
	spliceName *regexp.Regexp
}

// NewParser creates a parser using the given normalizer's rules.
func NewParser(norm *Normalizer) *Parser {
	return &Parser{
		norm:      norm,
		singleHan: regexp.MustCompile(`^[\x{4e00}-\x{9fff}]$`),
		shortName: regexp.MustCompile(`^[\x{4e00}-\x{9fff}]{2,4}$`),
		// Sentence ending in punctuation followed by a fused 2-4 char name.
		spliceName: regexp.MustCompile(`^(.*?)([。.!?；;，,、])([\x{4e00}-\x{9fff}·]{2,4})\s*$`),
	}
}

// splitEmbeddedNameSuffixes repairs lines where a name got fused onto the end
// of a biography sentence (e.g. "…。肖雪"): the sentence keeps its line and
// the name becomes a standalone line. Only applies when the prefix is long
// enough to be body text and the trailing chunk is name-shaped.
func (p *Parser) splitEmbeddedNameSuffixes(lines []string) []string {
	out := make([]string, 0, len(lines))

	for _, raw := range lines {
		line := NormLine(raw)
		if line == "" {
			out = append(out, "")

			continue
		}

		if m := p.spliceName.FindStringSubmatch(line); m != nil {
			prefix, punct, name := m[1], m[2], m[3]
			if len([]rune(prefix)) >= 12 && p.norm.LooksLikeName(name) {
				out = append(out, NormLine(prefix+punct), name)

				continue
			}
		}

		out = append(out, line)
	}

	return out
}

// stitchLines repairs a name wrapped across a line break: a single-CJK-char
// line following a 2-4 char name-shaped line is concatenated onto it.
func (p *Parser) stitchLines(lines []string) []string {
	stitched := make([]string, 0, len(lines))

	for _, raw := range lines {
		cur := NormLine(raw)
		if cur != "" && p.singleHan.MatchString(cur) && len(stitched) > 0 {
			prev := stitched[len(stitched)-1]
			if p.shortName.MatchString(strings.ReplaceAll(prev, " ", "")) {
				stitched[len(stitched)-1] = strings.ReplaceAll(prev, " ", "") + cur

				continue
			}
		}

		stitched = append(stitched, cur)
	}

	return stitched
}

// splitNameDeptInline handles lines carrying "name + department" together
// (e.g. "管民 器乐组"). Returns empty strings when the line is not of that
// shape.
func (p *Parser) splitNameDeptInline(line string) (name, dept string) {
	s := NormLine(line)
	if s == "" {
		return "", ""
	}

	for _, d := range p.norm.rules.Departments {
		if strings.Contains(s, d) && strings.Trim(s, "：:") != d {
			left, _, _ := strings.Cut(s, d)

			n := p.norm.CleanName(left)
			if p.norm.LooksLikeName(n) {
				return n, d
			}
		}
	}

	return "", ""
}

// Parse extracts the ordered role list from the raw roster text. Order is a
// strictly increasing 1-based counter over emitted roles.
func (p *Parser) Parse(text string) *ParseResult {
	lines := p.splitEmbeddedNameSuffixes(strings.Split(text, "\n"))
	lines = p.stitchLines(lines)

	res := &ParseResult{}

	dept := ""
	order := 0

	for idx, line := range lines {
		if p.norm.IsDeptLine(line) {
			dept = p.norm.CleanDept(line)

			continue
		}

		if line == "" {
			continue
		}

		if inlineName, inlineDept := p.splitNameDeptInline(line); inlineName != "" {
			dept = inlineDept
			order++
			res.Roles = append(res.Roles, ParsedRole{
				Name:       inlineName,
				Department: dept,
				Order:      order,
			})

			continue
		}

		if !p.norm.LooksLikeName(line) {
			continue
		}

		// Candidate position: the next non-blank line.
		j := idx + 1
		for j < len(lines) && lines[j] == "" {
			j++
		}

		next := ""
		if j < len(lines) {
			next = NormLine(lines[j])
		}

		// Some entries restate the department between name and position
		// (e.g. 童倩影 -> 声乐组 -> 兰州润德艺考声乐教师).
		if next != "" && p.norm.IsDeptLine(next) {
			dept = p.norm.CleanDept(next)

			j++
			for j < len(lines) && lines[j] == "" {
				j++
			}

			next = ""
			if j < len(lines) {
				next = NormLine(lines[j])
			}
		}

		position := ""
		if next != "" && !p.norm.IsDeptLine(next) && len([]rune(next)) <= 20 {
			if containsAny(next, p.norm.rules.RoleHints) {
				position = next
			} else {
				// Name-shaped line shadowed by unrelated prose; skip the
				// candidate without consuming the following line.
				res.Dropped = append(res.Dropped, DroppedLine{
					Line:   idx + 1,
					Text:   line,
					Reason: "下一行不含岗位关键词",
				})

				continue
			}
		}

		if position == "" {
			res.Dropped = append(res.Dropped, DroppedLine{
				Line:   idx + 1,
				Text:   line,
				Reason: "缺少岗位行",
			})

			continue
		}

		if dept == "" {
			res.Dropped = append(res.Dropped, DroppedLine{
				Line:   idx + 1,
				Text:   line,
				Reason: "缺少部门上下文",
			})

			continue
		}

		position = p.norm.NormalizePosition(position)
		dept = p.norm.NormalizeDepartment(dept, position)

		order++
		res.Roles = append(res.Roles, ParsedRole{
			Name:       p.norm.NormalizeName(line),
			Department: dept,
			Position:   position,
			Order:      order,
		})
	}

	return res
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
