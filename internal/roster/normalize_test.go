package roster

import (
	"testing"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(DefaultRules())
}

func TestNormLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "张三", "张三"},
		{"full-width space", "张　三", "张 三"},
		{"collapse runs", "  张   三  ", "张 三"},
		{"tabs", "张\t三", "张 三"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormLine(tt.in); got != tt.want {
				t.Errorf("NormLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizer_CleanDept(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		in   string
		want string
	}{
		{"管理部：", "管理部"},
		{"理论组教师", "理论组"},
		{" 声乐组 ", "声乐组"},
		{"未知部门", "未知部门"},
	}

	for _, tt := range tests {
		if got := n.CleanDept(tt.in); got != tt.want {
			t.Errorf("CleanDept(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizer_NormalizeName_Alias(t *testing.T) {
	n := newTestNormalizer()

	if got := n.NormalizeName("陈璞东"); got != "陈璞" {
		t.Errorf("alias not applied: got %q, want 陈璞", got)
	}

	if got := n.NormalizeName(" 张 三："); got != "张三" {
		t.Errorf("cleanup failed: got %q, want 张三", got)
	}
}

func TestNormalizer_NormalizeDepartment_TheoryReclassification(t *testing.T) {
	n := newTestNormalizer()

	// Theory-subject teachers are listed under the instrumental department
	// in the source text but belong to the theory department.
	if got := n.NormalizeDepartment("器乐组", "乐理教师"); got != "理论组" {
		t.Errorf("NormalizeDepartment(器乐组, 乐理教师) = %q, want 理论组", got)
	}

	if got := n.NormalizeDepartment("器乐组", "视唱练耳教师"); got != "理论组" {
		t.Errorf("NormalizeDepartment(器乐组, 视唱练耳教师) = %q, want 理论组", got)
	}

	if got := n.NormalizeDepartment("器乐组", "钢琴教师"); got != "器乐组" {
		t.Errorf("NormalizeDepartment(器乐组, 钢琴教师) = %q, want 器乐组", got)
	}

	if got := n.NormalizeDepartment("", "乐理教师"); got != "" {
		t.Errorf("empty department must pass through, got %q", got)
	}
}

func TestNormalizer_NormalizePosition(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		in   string
		want string
	}{
		{"兰州润德艺考声乐教师", "声乐教师"},
		{"兰州润德艺术学校 校长", "校长"},
		{"声乐名师", "声乐名师"},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := n.NormalizePosition(tt.in); got != tt.want {
			t.Errorf("NormalizePosition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizer_PositionDedupeKey(t *testing.T) {
	n := newTestNormalizer()

	// 名师 and 教师 titles of the same specialty must collide.
	if n.PositionDedupeKey("声乐名师") != n.PositionDedupeKey("声乐教师") {
		t.Error("声乐名师 and 声乐教师 should share a dedup key")
	}

	if got := n.PositionDedupeKey("创始人"); got != "创始人" {
		t.Errorf("PositionDedupeKey(创始人) = %q, want 创始人", got)
	}
}

func TestNormalizer_LooksLikeName(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		in   string
		want bool
	}{
		{"张三", true},
		{"欧阳娜娜", true},
		{"买买提·艾力", true},
		{"张", false},            // too short
		{"张三李四王五赵", false},      // too long
		{"声乐教师", false},         // role keyword
		{"Zhang San", false},   // not CJK
		{"张三2", false},          // digit
		{"", false},
	}

	for _, tt := range tests {
		if got := n.LooksLikeName(tt.in); got != tt.want {
			t.Errorf("LooksLikeName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chen Tao", "chen_tao"},
		{"陈涛", "陈涛"},
		{"A.B!C", "abc"},
	}

	for _, tt := range tests {
		if got := CanonicalID(tt.in); got != tt.want {
			t.Errorf("CanonicalID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
