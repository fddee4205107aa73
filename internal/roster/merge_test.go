package roster

import (
	"reflect"
	"testing"

	"runde/internal/models"
)

func TestNormalizer_MergePeopleByName_AliasCollapses(t *testing.T) {
	n := newTestNormalizer()

	people := n.MergePeopleByName([]models.Person{
		{
			ID:   "chenpu",
			Name: "陈璞",
			Bio:  "原有简介",
			Roles: []models.Role{
				{Department: "声乐组", Position: "声乐教师", Order: 3},
			},
		},
		{
			ID:    "chenpudong",
			Name:  "陈璞东",
			Photo: "photos/chenpu.jpg",
			Roles: []models.Role{
				{Department: "管理部", Position: "校长", Order: 1},
			},
		},
	})

	if len(people) != 1 {
		t.Fatalf("alias should merge into one person, got %d", len(people))
	}

	p := people[0]
	if p.Name != "陈璞" {
		t.Errorf("name = %q, want 陈璞", p.Name)
	}

	if p.ID != "chenpu" {
		t.Errorf("first-seen id should win, got %q", p.ID)
	}

	if p.Bio != "原有简介" {
		t.Errorf("bio = %q, want 原有简介", p.Bio)
	}

	if p.Photo != "photos/chenpu.jpg" {
		t.Errorf("empty photo should be filled, got %q", p.Photo)
	}

	if len(p.Roles) != 2 {
		t.Fatalf("roles from both records should survive: %+v", p.Roles)
	}
}

func TestNormalizer_MergePeopleByName_PlaceholderPhotoLoses(t *testing.T) {
	n := newTestNormalizer()

	people := n.MergePeopleByName([]models.Person{
		{Name: "王玉", Photo: models.PlaceholderPhoto},
		{Name: "王玉", Photo: "photos/wangyu.jpg"},
	})

	if len(people) != 1 || people[0].Photo != "photos/wangyu.jpg" {
		t.Errorf("placeholder photo should be replaced: %+v", people)
	}
}

func TestNormalizer_MergePeopleByName_ScalarPrecedence(t *testing.T) {
	n := newTestNormalizer()

	people := n.MergePeopleByName([]models.Person{
		{Name: "李甜", Bio: "第一份简介", Achievements: []string{"奖项一"}},
		{Name: "李甜", Bio: "第二份简介", ShortSummary: "补充概要", Achievements: []string{"奖项二", "奖项三"}},
	})

	if len(people) != 1 {
		t.Fatalf("expected one merged record, got %d", len(people))
	}

	p := people[0]
	if p.Bio != "第一份简介" {
		t.Errorf("first non-empty bio must win, got %q", p.Bio)
	}

	if p.ShortSummary != "补充概要" {
		t.Errorf("empty shortSummary should be filled, got %q", p.ShortSummary)
	}

	// Achievements are taken as a whole list, never concatenated.
	if !reflect.DeepEqual(p.Achievements, []string{"奖项一"}) {
		t.Errorf("achievements = %v, want [奖项一]", p.Achievements)
	}
}

func TestNormalizer_MergePeopleByName_RoleOrderFloor(t *testing.T) {
	n := newTestNormalizer()

	people := n.MergePeopleByName([]models.Person{
		{Name: "韩刚", Roles: []models.Role{{Department: "器乐组", Position: "器乐教师", Order: 6}}},
		{Name: "韩刚", Roles: []models.Role{{Department: "器乐组", Position: "器乐教师", Order: 2}}},
		{Name: "韩刚", Roles: []models.Role{{Department: "器乐组", Position: "器乐教师", Order: 9}}},
	})

	if len(people) != 1 || len(people[0].Roles) != 1 {
		t.Fatalf("expected one merged role, got %+v", people)
	}

	if people[0].Roles[0].Order != 2 {
		t.Errorf("order = %d, want floor 2", people[0].Roles[0].Order)
	}
}

func TestNormalizer_MergePeopleByName_PreservesFirstSeenOrder(t *testing.T) {
	n := newTestNormalizer()

	people := n.MergePeopleByName([]models.Person{
		{Name: "苏海鹏"},
		{Name: "秦淼娜"},
		{Name: "苏海鹏"},
		{Name: "祁军霞"},
	})

	got := make([]string, 0, len(people))
	for _, p := range people {
		got = append(got, p.Name)
	}

	want := []string{"苏海鹏", "秦淼娜", "祁军霞"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestNormalizer_ApplyMgmtOverride(t *testing.T) {
	n := newTestNormalizer()

	people := []models.Person{
		{
			Name: "陈涛",
			Roles: []models.Role{
				{Department: "管理部", Position: "校长", Order: 50},
				{Department: "声乐组", Position: "声乐教师", Order: 50},
			},
		},
		{
			Name: "无名氏",
			Roles: []models.Role{
				{Department: "管理部", Position: "主管", Order: 50},
			},
		},
	}

	n.ApplyMgmtOverride(people)

	if people[0].Roles[0].Order != 1 {
		t.Errorf("陈涛 management order = %d, want 1", people[0].Roles[0].Order)
	}

	if people[0].Roles[1].Order != 50 {
		t.Errorf("non-management role must be untouched, got %d", people[0].Roles[1].Order)
	}

	if people[1].Roles[0].Order != 50 {
		t.Errorf("unlisted name must be untouched, got %d", people[1].Roles[0].Order)
	}
}

func TestSortPeople(t *testing.T) {
	people := []models.Person{
		{Name: "乙", Roles: []models.Role{{Department: "声乐组", Position: "声乐教师", Order: 3}}},
		{Name: "甲", Roles: []models.Role{{Department: "声乐组", Position: "声乐教师", Order: 3}}},
		{Name: "丙", Roles: []models.Role{{Department: "管理部", Position: "校长", Order: 1}}},
		{Name: "丁"},
	}

	SortPeople(people)

	got := []string{people[0].Name, people[1].Name, people[2].Name, people[3].Name}
	want := []string{"丙", "乙", "甲", "丁"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sorted names = %v, want %v", got, want)
	}
}

func TestNormalizer_NormalizeAll_RoundTrip(t *testing.T) {
	n := newTestNormalizer()

	people := n.NormalizeAll([]models.Person{
		{
			Name: "陈涛",
			Roles: []models.Role{
				{Department: "管理部", Position: "执行校长", Order: 30},
			},
		},
		{
			Name: "陈璞东",
			Roles: []models.Role{
				{Department: "理论组教师", Position: "乐理名师", Order: 8},
			},
		},
		{
			Name: "陈璞",
			Roles: []models.Role{
				{Department: "理论组", Position: "乐理教师", Order: 4},
			},
		},
	})

	if len(people) != 2 {
		t.Fatalf("expected 2 people after merging, got %+v", people)
	}

	// 陈涛 holds management rank 1 and sorts first.
	if people[0].Name != "陈涛" || people[0].Roles[0].Order != 1 {
		t.Errorf("unexpected first person: %+v", people[0])
	}

	p := people[1]
	if p.Name != "陈璞" {
		t.Fatalf("alias not collapsed: %+v", p)
	}

	if len(p.Roles) != 1 {
		t.Fatalf("名师/教师 variants should dedup: %+v", p.Roles)
	}

	r := p.Roles[0]
	if r.Department != "理论组" || r.Position != "乐理名师" || r.Order != 4 {
		t.Errorf("got %+v, want {理论组 乐理名师 4}", r)
	}
}
