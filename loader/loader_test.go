package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/wordsoul/types"
)

const validWorld = `
World {
    start_location = "荒废的神庙",
    principles = "黑暗奇幻，危机四伏。",
}

Dimension "生存" { name = "气血", initial_value = 100 }
Dimension "输出" { name = "力量", initial_value = 10 }
Dimension "资源" { name = "法力", initial_value = 50 }
Dimension "防御" { name = "护甲", initial_value = 0 }
`

const validContent = `
Item "小血瓶" {
    type = "恢复类",
    effects = { "气血 + 20" },
    acquisition = "商店购买",
    price = 5,
}

Skill "火球术" {
    type = "攻击",
    cost = "法力 - 10",
    effects = { "气血 - 30" },
    cooldown = 2,
}

NPC "老者" {
    description = "一位须发皆白的老人。",
    location = "荒废的神庙",
    dialogue = "年轻人，此地不宜久留。",
    attributes = { ["气血"] = 50 },
    sells = { "小血瓶" },
}

NPC "妖狼" {
    description = "双眼泛着绿光的野兽。",
    location = "荒废的神庙",
    hostile = true,
    attributes = { ["气血"] = 30, ["力量"] = 8 },
}

Task "寻找圣物" {
    status = "未开始",
    objective = "在神庙深处找到圣物。",
    reward = "未知",
}

NarrativeRules {
    forbidden_words = {
        { word = "枪械", message = "这个世界没有火器。" },
    },
    location_rules = {
        { required_location = "森林" },
    },
}
`

func writeWorld(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadLuaWorld(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"world.lua":   validWorld,
		"content.lua": validContent,
	})

	w, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w.StartLocation != "荒废的神庙" {
		t.Errorf("start location = %q", w.StartLocation)
	}

	pack := w.Pack
	if pack.SurvivalName() != "气血" || pack.ResourceName() != "法力" {
		t.Errorf("dimensions = %+v", pack.Dimensions)
	}
	item := pack.Item("小血瓶")
	if item == nil || item.Type != types.ItemTypeConsumable || item.Price == nil || *item.Price != 5 {
		t.Errorf("item = %+v", item)
	}
	skill := pack.Skill("火球术")
	if skill == nil || skill.Cost != "法力 - 10" || skill.Cooldown != 2 {
		t.Errorf("skill = %+v", skill)
	}
	wolf := pack.NPC("妖狼")
	if wolf == nil || !wolf.IsHostile || wolf.Attributes["力量"] != 8 {
		t.Errorf("npc = %+v", wolf)
	}
	elder := pack.NPC("老者")
	if elder == nil || len(elder.Sells) != 1 || elder.Sells[0] != "小血瓶" {
		t.Errorf("npc = %+v", elder)
	}
	if pack.Task("寻找圣物") == nil {
		t.Error("task missing")
	}
	if pack.NarrativeRules == nil || len(pack.NarrativeRules.ForbiddenWords) != 1 || len(pack.NarrativeRules.LocationRules) != 1 {
		t.Errorf("narrative rules = %+v", pack.NarrativeRules)
	}
	if pack.Principles == "" {
		t.Error("principles missing")
	}
}

func TestLoadRejectsInvalidPack(t *testing.T) {
	// Missing the required resource dimension.
	dir := writeWorld(t, map[string]string{
		"world.lua": `
World { start_location = "神庙" }
Dimension "生存" { name = "气血", initial_value = 100 }
Dimension "输出" { name = "力量", initial_value = 10 }
` + validContent,
	})

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid setting pack") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadRejectsUndefinedEffectAttribute(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"world.lua": validWorld + `
Item "谜之药剂" { type = "恢复类", effects = { "幽能 + 5" } }
Skill "火球术" { type = "攻击", cost = "法力 - 10", effects = { "气血 - 30" } }
NPC "老者" { location = "神庙", attributes = {} }
Task "寻找圣物" { status = "未开始", objective = "找到它", reward = "未知" }
`,
	})

	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "幽能") {
		t.Fatalf("err = %v, want undefined-attribute error", err)
	}
}

func TestLoadRequiresStartLocation(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"world.lua": strings.Replace(validWorld, `start_location = "荒废的神庙",`, "", 1) + validContent,
	})

	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "start location") {
		t.Fatalf("err = %v, want start-location error", err)
	}
}

func TestLoadRejectsDuplicateDimensionKind(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"world.lua": validWorld + `Dimension "生存" { name = "体力", initial_value = 80 }` + validContent,
	})

	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "declared twice") {
		t.Fatalf("err = %v, want duplicate-dimension error", err)
	}
}

func TestSandboxBlocksFileAccess(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"world.lua": `dofile("/etc/hostname")` + validWorld + validContent,
	})

	if _, err := Load(dir); err == nil {
		t.Fatal("sandboxed VM executed dofile")
	}
}

func TestLoadJSONWorld(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"world.json": `{
  "start_location": "荒废的神庙",
  "attribute_dimensions": {
    "生存": {"name": "气血", "initial_value": 100},
    "输出": {"name": "力量", "initial_value": 10},
    "资源": {"name": "法力", "initial_value": 50}
  },
  "items": [{"名称": "小血瓶", "类型": "恢复类", "效果": ["气血 + 20"], "获取": "商店"}],
  "skills": [{"名称": "火球术", "类型": "攻击", "消耗": "法力 - 10", "效果": ["气血 - 30"]}],
  "npcs": [{"名称": "老者", "描述": "老人", "位置": "神庙", "attributes": {}}],
  "tasks": [{"名称": "寻找圣物", "状态": "未开始", "目标": "找到它", "奖励": "未知"}]
}`,
	})

	w, err := Load(filepath.Join(dir, "world.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w.Pack.Item("小血瓶") == nil || w.StartLocation != "荒废的神庙" {
		t.Errorf("world = %+v", w)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	dir := writeWorld(t, map[string]string{"world.yaml": "a: 1"})
	if _, err := Load(filepath.Join(dir, "world.yaml")); err == nil {
		t.Fatal("expected format error")
	}
}
