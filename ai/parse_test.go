package ai

import (
	"testing"

	"github.com/nathoo/wordsoul/types"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"yaml fence", "```yaml\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n```json\n{}\n```\n  ", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseObjectLowercasesKeys(t *testing.T) {
	obj := ParseObject("```json\n" + `{"PLAYER_MESSAGE": "hi", "Update_Location": "森林"}` + "\n```")
	if got := getString(obj, "player_message"); got != "hi" {
		t.Errorf("player_message = %q, want %q", got, "hi")
	}
	if got := getString(obj, "update_location"); got != "森林" {
		t.Errorf("update_location = %q, want %q", got, "森林")
	}
}

func TestParseObjectMalformed(t *testing.T) {
	for _, in := range []string{"", "not json", "[1, 2, 3]", "```json\n{broken\n```"} {
		obj := ParseObject(in)
		if obj == nil || len(obj) != 0 {
			t.Errorf("ParseObject(%q) = %v, want empty map", in, obj)
		}
	}
}

func TestParseChanges(t *testing.T) {
	obj := ParseObject(`{
		"PLAYER_MESSAGE": "获得了钥匙",
		"ADD_ITEM_TO_INVENTORY": "铜钥匙",
		"REMOVE_ITEM_FROM_INVENTORY": "",
		"UPDATE_QUEST_STATUS": "寻找圣物: 已完成",
		"UPDATE_LOCATION": "地下室",
		"CREATE_NEW_QUEST": {"名称": "打开铜门", "目标": "找到铜门并用钥匙打开", "奖励": "未知"}
	}`)
	var resp types.StructuredResponse
	parseChanges(&resp, obj)

	if resp.PlayerMessage != "获得了钥匙" {
		t.Errorf("PlayerMessage = %q", resp.PlayerMessage)
	}
	if resp.AddItem != "铜钥匙" {
		t.Errorf("AddItem = %q", resp.AddItem)
	}
	if resp.RemoveItem != "" {
		t.Errorf("RemoveItem = %q, want empty", resp.RemoveItem)
	}
	if resp.QuestUpdate != "寻找圣物: 已完成" {
		t.Errorf("QuestUpdate = %q", resp.QuestUpdate)
	}
	if resp.Location != "地下室" {
		t.Errorf("Location = %q", resp.Location)
	}
	if resp.NewQuest == nil {
		t.Fatal("NewQuest is nil")
	}
	if resp.NewQuest.Name != "打开铜门" || resp.NewQuest.Objective != "找到铜门并用钥匙打开" {
		t.Errorf("NewQuest = %+v", resp.NewQuest)
	}
}

func TestParseChangesIncompleteQuestDropped(t *testing.T) {
	obj := ParseObject(`{"CREATE_NEW_QUEST": {"名称": "无目标任务"}}`)
	var resp types.StructuredResponse
	parseChanges(&resp, obj)
	if resp.NewQuest != nil {
		t.Errorf("NewQuest = %+v, want nil for quest without objective", resp.NewQuest)
	}
}

func TestParseSuggestions(t *testing.T) {
	obj := ParseObject(`{"SUGGESTED_CHOICES": [
		"调查 石碑",
		{"action_command": "使用 火球术", "details": ["法力 -10"]},
		{"details": ["no command"]},
		""
	]}`)
	var resp types.StructuredResponse
	parseSuggestions(&resp, obj)

	if len(resp.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2: %+v", len(resp.Suggestions), resp.Suggestions)
	}
	if resp.Suggestions[0].ActionCommand != "调查 石碑" {
		t.Errorf("first suggestion = %q", resp.Suggestions[0].ActionCommand)
	}
	if resp.Suggestions[1].ActionCommand != "使用 火球术" {
		t.Errorf("second suggestion = %q", resp.Suggestions[1].ActionCommand)
	}
	if len(resp.Suggestions[1].Details) != 1 || resp.Suggestions[1].Details[0] != "法力 -10" {
		t.Errorf("second suggestion details = %v", resp.Suggestions[1].Details)
	}
}
