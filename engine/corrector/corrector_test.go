package corrector

import (
	"errors"
	"testing"

	"github.com/nathoo/wordsoul/types"
)

func testPack() *types.SettingPack {
	return &types.SettingPack{
		Dimensions: map[string]types.Dimension{
			types.DimSurvival: {Name: "气血", InitialValue: 100},
			types.DimOutput:   {Name: "力量", InitialValue: 10},
			types.DimResource: {Name: "法力", InitialValue: 50},
		},
		Items:  []types.ItemDef{{Name: "小血瓶", Type: types.ItemTypeConsumable, Effects: []string{"气血 + 20"}}},
		Skills: []types.SkillDef{{Name: "火球术", Cost: "法力 - 10", Effects: []string{"气血 - 30"}}},
		NPCs: []types.NPCDef{
			{Name: "老者", Location: "荒废的神庙"},
			{Name: "商人", Location: "集市"},
		},
		Tasks: []types.TaskDef{{Name: "寻找圣物", Status: "进行中", Objective: "找到圣物"}},
		NarrativeRules: &types.NarrativeRules{
			ForbiddenWords: []types.ForbiddenWordRule{{Word: "枪械"}},
			LocationRules:  []types.LocationRule{{RequiredLocation: "森林"}},
		},
	}
}

func testState() *types.GameState {
	return &types.GameState{
		Attributes:      map[string]float64{"气血": 100, "法力": 50},
		Inventory:       []string{"小血瓶"},
		CurrentLocation: "荒废的神庙",
	}
}

func TestCleanResponsePasses(t *testing.T) {
	resp := &types.StructuredResponse{
		Description: "老者向你点了点头。",
		RemoveItem:  "小血瓶",
		Suggestions: []types.Suggestion{
			{ActionCommand: "使用 火球术"},
			{ActionCommand: "与 老者 交谈"},
		},
	}
	fixed, errs := ValidateAndCorrect(testPack(), testState(), resp, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected findings: %v", errs)
	}
	if fixed.RemoveItem != "小血瓶" {
		t.Errorf("RemoveItem = %q, should be untouched", fixed.RemoveItem)
	}
	if len(fixed.Suggestions) != 2 {
		t.Errorf("suggestions filtered: %+v", fixed.Suggestions)
	}
}

func TestRemoveUnheldItemStripped(t *testing.T) {
	draft := &types.StructuredResponse{Description: "你交出了钥匙。", RemoveItem: "铜钥匙"}
	fixed, errs := ValidateAndCorrect(testPack(), testState(), draft, nil)
	if len(errs) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(errs), errs)
	}
	if fixed.RemoveItem != "" {
		t.Errorf("RemoveItem = %q, want stripped", fixed.RemoveItem)
	}
	if draft.RemoveItem != "铜钥匙" {
		t.Errorf("input draft mutated: %q", draft.RemoveItem)
	}
}

func TestForbiddenWordFlagged(t *testing.T) {
	resp := &types.StructuredResponse{Description: "你捡起了一把枪械。"}
	_, errs := ValidateAndCorrect(testPack(), testState(), resp, nil)
	if len(errs) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(errs), errs)
	}
}

func TestLocationRuleFlagged(t *testing.T) {
	// Narrative mentions a required location the player is not at.
	resp := &types.StructuredResponse{Description: "你穿过森林，来到了空地。"}
	_, errs := ValidateAndCorrect(testPack(), testState(), resp, nil)
	if len(errs) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(errs), errs)
	}

	// At a location containing the required name, the mention is fine.
	state := testState()
	state.CurrentLocation = "迷雾森林"
	_, errs = ValidateAndCorrect(testPack(), state, resp, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected findings: %v", errs)
	}
}

func TestImplausibleSuggestionFiltered(t *testing.T) {
	resp := &types.StructuredResponse{
		Description: "前方一片寂静。",
		Suggestions: []types.Suggestion{
			{ActionCommand: "使用 时空跳跃引擎"},
			{ActionCommand: "使用 治疗药水"},
			{ActionCommand: "与 商人 交谈"},
			{ActionCommand: "调查 石碑"},
		},
	}
	fixed, errs := ValidateAndCorrect(testPack(), testState(), resp, nil)
	if len(errs) != 2 {
		t.Fatalf("got %d findings, want 2: %v", len(errs), errs)
	}
	if len(fixed.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2: %+v", len(fixed.Suggestions), fixed.Suggestions)
	}
	// The healing-named dynamic item is plausible and survives; the
	// off-scene NPC and the nonsense ability are dropped.
	if fixed.Suggestions[0].ActionCommand != "使用 治疗药水" {
		t.Errorf("kept wrong suggestion: %+v", fixed.Suggestions)
	}
	if fixed.Suggestions[1].ActionCommand != "调查 石碑" {
		t.Errorf("kept wrong suggestion: %+v", fixed.Suggestions)
	}
}

func TestDuplicateNewQuestStripped(t *testing.T) {
	resp := &types.StructuredResponse{
		Description: "新的任务出现了。",
		NewQuest:    &types.TaskDef{Name: "寻找圣物", Objective: "再找一次"},
	}
	fixed, errs := ValidateAndCorrect(testPack(), testState(), resp, nil)
	if len(errs) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(errs), errs)
	}
	if fixed.NewQuest != nil {
		t.Errorf("NewQuest = %+v, want stripped", fixed.NewQuest)
	}
}

func TestMalformedQuestUpdateStripped(t *testing.T) {
	resp := &types.StructuredResponse{Description: "进展顺利。", QuestUpdate: "没有冒号的更新"}
	fixed, errs := ValidateAndCorrect(testPack(), testState(), resp, nil)
	if len(errs) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(errs), errs)
	}
	if fixed.QuestUpdate != "" {
		t.Errorf("QuestUpdate = %q, want stripped", fixed.QuestUpdate)
	}
}

func TestCriticalFindingTriggersRegeneration(t *testing.T) {
	resp := &types.StructuredResponse{Description: "你捡起了一把枪械。"}

	var gotAvoid []string
	regen := func(avoid []string) (*types.StructuredResponse, error) {
		gotAvoid = avoid
		return &types.StructuredResponse{Description: "你捡起了一把生锈的铁剑。"}, nil
	}

	fixed, errs := ValidateAndCorrect(testPack(), testState(), resp, regen)
	if len(gotAvoid) != 1 {
		t.Fatalf("regeneration context = %v, want the forbidden-word finding", gotAvoid)
	}
	if fixed.Description != "你捡起了一把生锈的铁剑。" {
		t.Errorf("Description = %q, want the regenerated narrative", fixed.Description)
	}
	if len(errs) != 0 {
		t.Errorf("regenerated response should be clean, got %v", errs)
	}
}

func TestThreeFindingsTriggerRegeneration(t *testing.T) {
	resp := &types.StructuredResponse{
		Description: "前方一片寂静。",
		RemoveItem:  "铜钥匙",
		QuestUpdate: "坏格式",
		Suggestions: []types.Suggestion{{ActionCommand: "使用 时空跳跃引擎"}},
	}

	called := false
	regen := func(avoid []string) (*types.StructuredResponse, error) {
		called = true
		if len(avoid) < severityThreshold {
			t.Errorf("avoid = %v, want at least %d findings", avoid, severityThreshold)
		}
		return &types.StructuredResponse{Description: "干净的叙事。"}, nil
	}

	fixed, _ := ValidateAndCorrect(testPack(), testState(), resp, regen)
	if !called {
		t.Fatal("regeneration not triggered")
	}
	if fixed.Description != "干净的叙事。" {
		t.Errorf("Description = %q", fixed.Description)
	}
}

func TestFailedRegenerationFallsBack(t *testing.T) {
	resp := &types.StructuredResponse{Description: "你捡起了一把枪械。", RemoveItem: "铜钥匙"}
	regen := func([]string) (*types.StructuredResponse, error) {
		return nil, errors.New("backend down")
	}

	fixed, errs := ValidateAndCorrect(testPack(), testState(), resp, regen)
	if len(errs) != 2 {
		t.Fatalf("got %d findings, want 2: %v", len(errs), errs)
	}
	if fixed.Description != "你捡起了一把枪械。" {
		t.Errorf("Description = %q, want the auto-fixed original", fixed.Description)
	}
	if fixed.RemoveItem != "" {
		t.Errorf("RemoveItem = %q, want stripped", fixed.RemoveItem)
	}
}

func TestMildFindingsDoNotRegenerate(t *testing.T) {
	resp := &types.StructuredResponse{Description: "平静的一天。", RemoveItem: "铜钥匙"}
	regen := func([]string) (*types.StructuredResponse, error) {
		t.Fatal("regeneration should not run for a single mild finding")
		return nil, nil
	}
	fixed, errs := ValidateAndCorrect(testPack(), testState(), resp, regen)
	if len(errs) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(errs), errs)
	}
	if fixed.RemoveItem != "" {
		t.Errorf("RemoveItem = %q, want stripped", fixed.RemoveItem)
	}
}
