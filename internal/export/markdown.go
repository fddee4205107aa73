// Package export renders the roster as a signed markdown document for
// hand-off to the website repository.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"runde/internal/models"
	"runde/internal/roster"
	"runde/pkg/metadata"
)

// RenderRoster produces a markdown document with one table per department,
// departments in display order, rows by role rank. Roles in departments
// outside the canonical list are collected under a trailing section.
func RenderRoster(people []models.Person, rules roster.Rules) string {
	type row struct {
		order    int
		name     string
		position string
	}

	byDept := make(map[string][]row)

	norm := roster.NewNormalizer(rules)

	for _, p := range people {
		for _, r := range p.Roles {
			dept := norm.CleanDept(r.Department)
			byDept[dept] = append(byDept[dept], row{
				order:    models.OrderOrUnranked(r.Order),
				name:     p.Name,
				position: r.Position,
			})
		}
	}

	var b strings.Builder

	b.WriteString("# 教师名单\n")

	known := make(map[string]bool, len(rules.Departments))

	sections := make([]string, 0, len(rules.Departments)+1)
	for _, d := range rules.Departments {
		known[d] = true

		sections = append(sections, d)
	}

	var extra []string

	for dept := range byDept {
		if !known[dept] {
			extra = append(extra, dept)
		}
	}

	sort.Strings(extra)

	if len(extra) > 0 {
		sections = append(sections, "其他")
	}

	for _, section := range sections {
		rows := byDept[section]
		if section == "其他" {
			for _, dept := range extra {
				rows = append(rows, byDept[dept]...)
			}
		}

		if len(rows) == 0 {
			continue
		}

		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].order != rows[j].order {
				return rows[i].order < rows[j].order
			}

			return rows[i].name < rows[j].name
		})

		b.WriteString(fmt.Sprintf("\n## %s\n\n", section))

		table := [][]string{{"排序", "姓名", "岗位"}}
		for _, r := range rows {
			order := "-"
			if r.order != models.Unranked {
				order = fmt.Sprintf("%d", r.order)
			}

			table = append(table, []string{order, r.name, r.position})
		}

		for _, line := range renderTable(table) {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// ExportRoster renders the roster and signs it, tagging the stamp with the
// producing tool's name.
func ExportRoster(people []models.Person, rules roster.Rules, tool string) string {
	return metadata.Sign(RenderRoster(people, rules), tool)
}

// renderTable lays the rows out as a markdown table with a separator line
// after the header, cells padded to display width so CJK columns line up.
func renderTable(table [][]string) []string {
	colCount := 0
	for _, row := range table {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	widths := make([]int, colCount)

	for _, row := range table {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// Separator cells need room for at least three dashes.
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	writeRow := func(cells []string) string {
		var sb strings.Builder

		sb.WriteString("|")

		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}

			sb.WriteString(" ")
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			sb.WriteString(" |")
		}

		return sb.String()
	}

	out := make([]string, 0, len(table)+1)
	out = append(out, writeRow(table[0]))

	var sep strings.Builder

	sep.WriteString("|")

	for i := 0; i < colCount; i++ {
		sep.WriteString(" ")
		sep.WriteString(strings.Repeat("-", widths[i]))
		sep.WriteString(" |")
	}

	out = append(out, sep.String())

	for _, row := range table[1:] {
		out = append(out, writeRow(row))
	}

	return out
}
