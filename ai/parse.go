package ai

import (
	"encoding/json"
	"strings"

	"github.com/nathoo/wordsoul/types"
)

// StripFences removes a surrounding markdown code fence, with or without
// a language tag, from model output.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```yaml")
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// ParseObject decodes a JSON object from model output, tolerating code
// fences and lowercasing top-level keys. Unparseable text yields an
// empty map, never an error: a malformed stage response degrades to
// "no structured changes".
func ParseObject(text string) map[string]any {
	cleaned := StripFences(text)
	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return map[string]any{}
	}
	obj := make(map[string]any, len(raw))
	for k, v := range raw {
		obj[strings.ToLower(k)] = v
	}
	return obj
}

// parseChanges maps a stage-2 object onto the response's state-change
// fields.
func parseChanges(resp *types.StructuredResponse, obj map[string]any) {
	resp.PlayerMessage = getString(obj, "player_message")
	resp.AddItem = getString(obj, "add_item_to_inventory")
	resp.RemoveItem = getString(obj, "remove_item_from_inventory")
	resp.QuestUpdate = getString(obj, "update_quest_status")
	resp.Location = getString(obj, "update_location")

	if v, ok := obj["create_new_quest"]; ok {
		if m, ok := v.(map[string]any); ok {
			quest := types.TaskDef{
				Name:      getString(m, "名称"),
				Status:    getString(m, "状态"),
				Objective: getString(m, "目标"),
				Reward:    getString(m, "奖励"),
			}
			if quest.Name != "" && quest.Objective != "" {
				resp.NewQuest = &quest
			}
		}
	}
}

// parseSuggestions maps a stage-3 object onto the suggestion list.
// Entries may be bare strings or objects with an action_command.
func parseSuggestions(resp *types.StructuredResponse, obj map[string]any) {
	v, ok := obj["suggested_choices"]
	if !ok {
		return
	}
	list, ok := v.([]any)
	if !ok {
		return
	}
	for _, entry := range list {
		switch e := entry.(type) {
		case string:
			if s := strings.TrimSpace(e); s != "" {
				resp.Suggestions = append(resp.Suggestions, types.Suggestion{ActionCommand: s})
			}
		case map[string]any:
			cmd := getString(e, "action_command")
			if cmd == "" {
				continue
			}
			sug := types.Suggestion{ActionCommand: cmd}
			if details, ok := e["details"].([]any); ok {
				for _, d := range details {
					if s, ok := d.(string); ok {
						sug.Details = append(sug.Details, s)
					}
				}
			}
			resp.Suggestions = append(resp.Suggestions, sug)
		}
	}
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
