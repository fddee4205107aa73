package roster

import (
	"reflect"
	"testing"

	"runde/internal/models"
)

func TestNormalizer_NormalizeRoles_DedupeCollision(t *testing.T) {
	n := newTestNormalizer()

	roles := n.NormalizeRoles([]models.Role{
		{Department: "声乐组", Position: "声乐名师", Order: 5},
		{Department: "声乐组", Position: "声乐教师", Order: 2},
	})

	if len(roles) != 1 {
		t.Fatalf("expected 1 role after dedup, got %+v", roles)
	}

	got := roles[0]
	if got.Department != "声乐组" || got.Position != "声乐名师" || got.Order != 2 {
		t.Errorf("got %+v, want {声乐组 声乐名师 2}", got)
	}
}

func TestNormalizer_NormalizeRoles_Idempotent(t *testing.T) {
	n := newTestNormalizer()

	raw := []models.Role{
		{Department: "声乐组", Position: "声乐名师", Order: 5},
		{Department: "声乐组", Position: "声乐教师", Order: 2},
		{Department: "器乐组", Position: "乐理教师", Order: 7},
		{Department: "管理部", Position: "兰州润德艺考创始人", Order: 1},
	}

	once := n.NormalizeRoles(raw)

	twice := n.NormalizeRoles(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("NormalizeRoles not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestNormalizer_NormalizeRoles_DropsInvalid(t *testing.T) {
	n := newTestNormalizer()

	roles := n.NormalizeRoles([]models.Role{
		{Department: "声乐组", Position: "  ", Order: 1},
		{Department: "", Position: "声乐教师", Order: 2},
		{Department: "声乐组", Position: "声乐教师", Order: 3},
	})

	if len(roles) != 1 {
		t.Fatalf("expected only the valid role to survive, got %+v", roles)
	}

	if roles[0].Position != "声乐教师" || roles[0].Order != 3 {
		t.Errorf("unexpected surviving role: %+v", roles[0])
	}
}

func TestNormalizer_NormalizeRoles_ZeroOrderMeansUnranked(t *testing.T) {
	n := newTestNormalizer()

	roles := n.NormalizeRoles([]models.Role{
		{Department: "声乐组", Position: "声乐教师", Order: 0},
		{Department: "声乐组", Position: "声乐教师", Order: 4},
	})

	if len(roles) != 1 || roles[0].Order != 4 {
		t.Errorf("zero order should lose to an explicit rank: %+v", roles)
	}
}

func TestEnsureRole_ExactMatchKeepsEarliestOrder(t *testing.T) {
	existing := []models.Role{
		{Department: "声乐组", Position: "声乐教师", Order: 7},
	}

	got := EnsureRole(existing, models.Role{Department: "声乐组", Position: "声乐教师", Order: 3})
	if len(got) != 1 || got[0].Order != 3 {
		t.Errorf("expected order lowered to 3, got %+v", got)
	}

	// Re-observing with a later order must not raise it back.
	got = EnsureRole(got, models.Role{Department: "声乐组", Position: "声乐教师", Order: 9})
	if len(got) != 1 || got[0].Order != 3 {
		t.Errorf("order floor violated: %+v", got)
	}

	// Input slice stays untouched.
	if existing[0].Order != 7 {
		t.Errorf("EnsureRole mutated its input: %+v", existing)
	}
}

func TestEnsureRole_AppendsNewRole(t *testing.T) {
	existing := []models.Role{
		{Department: "声乐组", Position: "声乐教师", Order: 1},
	}

	got := EnsureRole(existing, models.Role{Department: "管理部", Position: "校长", Order: 2})
	if len(got) != 2 {
		t.Fatalf("expected append, got %+v", got)
	}

	// 名师 variants are distinct here: the exact-match rule is narrower
	// than the dedup-key based bulk normalizer.
	got = EnsureRole(got, models.Role{Department: "声乐组", Position: "声乐名师", Order: 5})
	if len(got) != 3 {
		t.Errorf("exact-match variant should append, got %+v", got)
	}
}

func TestSortRoles(t *testing.T) {
	roles := []models.Role{
		{Department: "a", Position: "x", Order: 0},
		{Department: "b", Position: "y", Order: 2},
		{Department: "c", Position: "z", Order: 1},
	}

	SortRoles(roles)

	if roles[0].Order != 1 || roles[1].Order != 2 || roles[2].Order != 0 {
		t.Errorf("unexpected sort result: %+v", roles)
	}
}
