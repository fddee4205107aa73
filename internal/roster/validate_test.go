package roster

import (
	"reflect"
	"testing"

	"runde/internal/models"
)

func TestValidate_CleanRoster(t *testing.T) {
	people := []models.Person{
		{
			ID:   "chentao",
			Name: "陈涛",
			Roles: []models.Role{
				{Department: "管理部", Position: "校长", Order: 1},
			},
		},
	}

	if problems := Validate(people); len(problems) != 0 {
		t.Errorf("unexpected problems: %v", problems)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	people := []models.Person{
		{ID: "a", Name: "", Roles: []models.Role{{Department: "声乐组", Position: "声乐教师", Order: 1}}},
		{ID: "", Name: "王玉"},
		{ID: "a", Name: "李甜", Roles: []models.Role{{Department: "", Position: "", Order: 0}}},
	}

	got := Validate(people)

	want := []string{
		"项 0 缺少 name",
		"项 1 (王玉) 缺少 id",
		"项 1 (王玉) roles 为空",
		"重复 id: a",
		"项 2 (李甜) roles[0] 缺少 department",
		"项 2 (李甜) roles[0] 缺少 position",
		"项 2 (李甜) roles[0] 缺少 order",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("problems = %v, want %v", got, want)
	}
}

func TestValidate_DuplicateIDReportedNotFixed(t *testing.T) {
	people := []models.Person{
		{ID: "x", Name: "甲", Roles: []models.Role{{Department: "声乐组", Position: "声乐教师", Order: 1}}},
		{ID: "x", Name: "乙", Roles: []models.Role{{Department: "声乐组", Position: "声乐教师", Order: 2}}},
		{ID: "x", Name: "丙", Roles: []models.Role{{Department: "声乐组", Position: "声乐教师", Order: 3}}},
	}

	got := Validate(people)

	want := []string{"重复 id: x", "重复 id: x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("problems = %v, want %v", got, want)
	}

	if people[1].ID != "x" || people[2].ID != "x" {
		t.Errorf("validation must not rewrite ids: %+v", people)
	}
}
