package effects

import (
	"testing"

	"github.com/nathoo/wordsoul/types"
)

func testState() *types.GameState {
	return &types.GameState{
		Attributes: map[string]float64{"气血": 100, "法力": 50},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
		attr   string
		op     string
		value  float64
	}{
		{"气血 + 20", true, "气血", "+", 20},
		{"法力 - 10", true, "法力", "-", 10},
		{"气血*2", true, "气血", "*", 2},
		{" 气血 / 4 ", true, "气血", "/", 4},
		{"气血 + 1.5", true, "气血", "+", 1.5},
		{"气血 +", false, "", "", 0},
		{"气血 20", false, "", "", 0},
		{"+ 20", false, "", "", 0},
		{"", false, "", "", 0},
	}
	for _, tt := range tests {
		expr, ok := Parse(tt.in)
		if ok != tt.wantOK {
			t.Errorf("Parse(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if expr.Attribute != tt.attr || expr.Op != tt.op || expr.Value != tt.value {
			t.Errorf("Parse(%q) = %+v, want {%s %s %v}", tt.in, expr, tt.attr, tt.op, tt.value)
		}
	}
}

func TestParseCost(t *testing.T) {
	if _, ok := ParseCost("法力 - 10"); !ok {
		t.Error("ParseCost should accept a minus cost")
	}
	if _, ok := ParseCost("法力 + 10"); ok {
		t.Error("ParseCost should reject non-minus operators")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		effect string
		attr   string
		want   float64
	}{
		{"气血 + 20", "气血", 120},
		{"气血 - 30", "气血", 70},
		{"气血 * 2", "气血", 200},
		{"气血 / 4", "气血", 25},
		{"气血 / 3", "气血", 33.33},
	}
	for _, tt := range tests {
		s := testState()
		Apply(s, tt.effect)
		if got := s.Attributes[tt.attr]; got != tt.want {
			t.Errorf("Apply(%q): %s = %v, want %v", tt.effect, tt.attr, got, tt.want)
		}
	}
}

func TestApply_OnlyTargetAttributeChanges(t *testing.T) {
	s := testState()
	Apply(s, "气血 + 20")
	if s.Attributes["法力"] != 50 {
		t.Errorf("法力 changed to %v, want 50", s.Attributes["法力"])
	}
}

func TestApply_UnknownAttributeIsNoop(t *testing.T) {
	s := testState()
	Apply(s, "内力 + 20")
	if len(s.Attributes) != 2 {
		t.Errorf("unknown attribute was created: %v", s.Attributes)
	}
}

func TestApply_DivisionByZeroIsNoop(t *testing.T) {
	s := testState()
	Apply(s, "气血 / 0")
	if s.Attributes["气血"] != 100 {
		t.Errorf("气血 = %v, want 100", s.Attributes["气血"])
	}
}

func TestApply_Rounding(t *testing.T) {
	s := &types.GameState{Attributes: map[string]float64{"气血": 10}}
	Apply(s, "气血 / 3")
	if s.Attributes["气血"] != 3.33 {
		t.Errorf("气血 = %v, want 3.33", s.Attributes["气血"])
	}
}

func TestAffordable(t *testing.T) {
	s := testState()
	if !Affordable(s, "法力 - 50") {
		t.Error("exact balance should be affordable")
	}
	if Affordable(s, "法力 - 51") {
		t.Error("insufficient balance should not be affordable")
	}
	if !Affordable(s, "不存在 - 10") {
		t.Error("unknown attribute costs are trivially affordable")
	}
	if !Affordable(s, "not a cost") {
		t.Error("unparseable costs are trivially affordable")
	}
}

func TestApplyAll(t *testing.T) {
	s := testState()
	ApplyAll(s, []string{"气血 + 20", "法力 - 10"})
	if s.Attributes["气血"] != 120 || s.Attributes["法力"] != 40 {
		t.Errorf("attributes = %v, want 气血=120 法力=40", s.Attributes)
	}
}
