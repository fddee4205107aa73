package integration

import (
	"os"
	"path/filepath"
	"testing"

	"runde/internal/export"
	"runde/internal/logger"
	"runde/internal/models"
	"runde/internal/roster"
	"runde/internal/store"
	"runde/pkg/metadata"
)

const rosterFixture = `管理部
陈涛
兰州润德艺考校长
声乐组
李一楠
声乐教师
赵子琪
声乐名师
理论组
孙文博
视唱练耳教师
`

func TestSyncFlow_FreshRoster(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "teacher-liest")
	dataPath := filepath.Join(dir, "teachers.json")

	if err := os.WriteFile(sourcePath, []byte(rosterFixture), 0644); err != nil {
		t.Fatal(err)
	}

	st := store.New(true)

	// 1. Load (no data file yet) and read the raw source.
	people, err := st.LoadPeople(dataPath)
	if err != nil {
		t.Fatalf("LoadPeople failed: %v", err)
	}

	text, err := st.ReadSource(sourcePath)
	if err != nil {
		t.Fatalf("ReadSource failed: %v", err)
	}

	// 2. Sync.
	norm := roster.NewNormalizer(roster.DefaultRules())
	syncer := roster.NewSyncer(norm, logger.Discard())

	people, stats := syncer.Sync(people, text)

	if stats.RolesParsed != 4 {
		t.Fatalf("RolesParsed = %d, want 4", stats.RolesParsed)
	}

	if len(stats.Dropped) != 0 {
		t.Fatalf("unexpected drops: %+v", stats.Dropped)
	}

	if len(people) != 4 {
		t.Fatalf("expected 4 people, got %+v", people)
	}

	// Management override pins 陈涛 first.
	if people[0].Name != "陈涛" || people[0].Roles[0].Order != 1 {
		t.Errorf("unexpected head of roster: %+v", people[0])
	}

	// The org prefix is stripped from the position.
	if people[0].Roles[0].Position != "校长" {
		t.Errorf("position = %q, want 校长", people[0].Roles[0].Position)
	}

	// Theory-subject roles are reclassified.
	for _, p := range people {
		if p.Name == "孙文博" && p.Roles[0].Department != "理论组" {
			t.Errorf("孙文博 department = %q, want 理论组", p.Roles[0].Department)
		}
	}

	// 3. Persist and validate the stored file.
	if err := st.SavePeople(dataPath, people); err != nil {
		t.Fatalf("SavePeople failed: %v", err)
	}

	if problems := roster.Validate(people); len(problems) != 0 {
		t.Errorf("validation problems: %v", problems)
	}

	// 4. Reload and re-sync: a second run must not change anything.
	reloaded, err := st.LoadPeople(dataPath)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	again, _ := syncer.Sync(reloaded, text)
	if len(again) != len(people) {
		t.Fatalf("re-sync changed the people count: %d -> %d", len(people), len(again))
	}

	for i := range again {
		if again[i].Name != people[i].Name {
			t.Errorf("re-sync changed order at %d: %q vs %q", i, again[i].Name, people[i].Name)
		}

		if len(again[i].Roles) != len(people[i].Roles) {
			t.Errorf("re-sync changed roles of %s", again[i].Name)

			continue
		}

		for j := range again[i].Roles {
			if again[i].Roles[j] != people[i].Roles[j] {
				t.Errorf("re-sync changed role %d of %s: %+v vs %+v",
					j, again[i].Name, again[i].Roles[j], people[i].Roles[j])
			}
		}
	}

	// 5. Export the final roster and check the signature.
	doc := export.ExportRoster(again, norm.Rules(), "teachers-cli")
	if err := metadata.Verify(doc); err != nil {
		t.Errorf("export stamp invalid: %v", err)
	}
}

func TestSyncFlow_LegacyDataUpgrade(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "teachers.json")

	legacy := `[
  {"name": "陈涛", "department": "管理部", "position": "校长"},
  {"name": "李一楠", "department": "声乐组", "position": "声乐教师"}
]`
	if err := os.WriteFile(dataPath, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	st := store.New(false)

	people, err := st.LoadPeople(dataPath)
	if err != nil {
		t.Fatalf("LoadPeople failed: %v", err)
	}

	norm := roster.NewNormalizer(roster.DefaultRules())
	syncer := roster.NewSyncer(norm, logger.Discard())

	// Sync against a source that only restates 李一楠.
	people, _ = syncer.Sync(people, "声乐组\n李一楠\n声乐教师\n")

	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %+v", people)
	}

	// The upgraded legacy role survives with its file-position rank.
	var li models.Person

	for _, p := range people {
		if p.Name == "李一楠" {
			li = p
		}
	}

	if len(li.Roles) != 1 {
		t.Fatalf("roles = %+v", li.Roles)
	}

	if li.Roles[0].Order != 1 {
		t.Errorf("order = %d, want the source rank 1", li.Roles[0].Order)
	}
}
