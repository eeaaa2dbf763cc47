package parser

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		kind   Kind
		object string
		target string
	}{
		{"对 敌人 使用 火球术", KindUseSkill, "火球术", "敌人"},
		{"使用 小血瓶", KindUseItem, "小血瓶", ""},
		{"调查 石碑", KindObserve, "石碑", ""},
		{"观察 老者", KindObserve, "老者", ""},
		{"查看 地图", KindObserve, "地图", ""},
		{"检查 木箱", KindObserve, "木箱", ""},
		{"与 老者 交谈", KindTalk, "", "老者"},
		{"和 商人 交谈", KindTalk, "", "商人"},
		{"攻击 山贼", KindAttack, "", "山贼"},
		{"防御", KindDefend, "", ""},
		{"格挡", KindDefend, "", ""},
		{"给予 老者 小血瓶", KindGiveItem, "小血瓶", "老者"},
		{"给 商人 铁剑", KindGiveItem, "铁剑", "商人"},
		{"购买 小血瓶", KindBuyItem, "小血瓶", ""},
		{"售卖 铁剑", KindSellItem, "铁剑", ""},
		{"向北走", KindNone, "", ""},
		{"我想飞上天空", KindNone, "", ""},
		{"", KindNone, "", ""},
		{"   ", KindNone, "", ""},
	}
	for _, tt := range tests {
		cmd := Parse(tt.in)
		if cmd.Kind != tt.kind || cmd.Object != tt.object || cmd.Target != tt.target {
			t.Errorf("Parse(%q) = %+v, want kind=%v object=%q target=%q",
				tt.in, cmd, tt.kind, tt.object, tt.target)
		}
	}
}

// The skill shape must win over the item shape: both could match text
// starting with 使用 if the order were wrong.
func TestParse_SkillBeforeItem(t *testing.T) {
	cmd := Parse("对 巨狼 使用 净化之光")
	if cmd.Kind != KindUseSkill {
		t.Fatalf("kind = %v, want KindUseSkill", cmd.Kind)
	}
	if cmd.Object != "净化之光" || cmd.Target != "巨狼" {
		t.Errorf("object/target = %q/%q", cmd.Object, cmd.Target)
	}
}

func TestParse_LeadingWhitespace(t *testing.T) {
	cmd := Parse("  使用 小血瓶")
	if cmd.Kind != KindUseItem || cmd.Object != "小血瓶" {
		t.Errorf("Parse with leading space = %+v", cmd)
	}
}
