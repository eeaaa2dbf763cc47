// Package corrector post-processes the narrative collaborator's
// structured response before it reaches game state. It fact-checks the
// draft against the pack's narrative rules and the current state,
// applies targeted fixes, and escalates severe inconsistencies to a
// single regeneration attempt.
package corrector

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/nathoo/wordsoul/engine/promote"
	"github.com/nathoo/wordsoul/types"
)

// RegenerateFunc re-invokes the narrative collaborator with the prior
// findings as negative context. nil disables escalation.
type RegenerateFunc func(avoid []string) (*types.StructuredResponse, error)

const severityThreshold = 3

// criticalKeywords mark findings that escalate on their own. They match
// the default narrative- and location-rule messages.
var criticalKeywords = []string{"禁用词", "当前位置", "不在场"}

var (
	suggestUseRe  = regexp.MustCompile(`使用\s+(.+)`)
	suggestTalkRe = regexp.MustCompile(`(与|和)\s+(.+?)\s+交谈`)
)

// ValidateAndCorrect checks a draft response for narrative, suggestion
// and state-change inconsistencies, fixing what it can in place on a
// copy. When the findings cross the severity threshold and regen is
// available, one regeneration attempt replaces the draft wholesale; a
// failed regeneration falls back to the fixed draft.
func ValidateAndCorrect(pack *types.SettingPack, state *types.GameState, draft *types.StructuredResponse, regen RegenerateFunc) (*types.StructuredResponse, []string) {
	fixed, errs := correctOnce(pack, state, draft)
	if regen == nil || !severe(errs) {
		return fixed, errs
	}

	fresh, err := regen(errs)
	if err != nil || fresh == nil {
		fmt.Fprintf(os.Stderr, "corrector: regeneration failed, keeping corrected draft: %v\n", err)
		return fixed, errs
	}
	// The regenerated response still gets checked and fixed, but never
	// triggers a second regeneration.
	return correctOnce(pack, state, fresh)
}

func correctOnce(pack *types.SettingPack, state *types.GameState, draft *types.StructuredResponse) (*types.StructuredResponse, []string) {
	resp := *draft
	resp.Suggestions = append([]types.Suggestion(nil), draft.Suggestions...)

	var errs []string
	errs = append(errs, checkNarrative(pack, state, resp.Description)...)
	errs = append(errs, fixSuggestions(pack, state, &resp)...)
	errs = append(errs, fixStateChanges(pack, state, &resp)...)

	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "corrector: %d finding(s): %s\n", len(errs), strings.Join(errs, "; "))
	}
	return &resp, errs
}

func severe(errs []string) bool {
	if len(errs) >= severityThreshold {
		return true
	}
	for _, e := range errs {
		for _, kw := range criticalKeywords {
			if strings.Contains(e, kw) {
				return true
			}
		}
	}
	return false
}

// checkNarrative applies the pack's forbidden-word and location rules to
// the narrative text. These findings have no auto-fix.
func checkNarrative(pack *types.SettingPack, state *types.GameState, narrative string) []string {
	if pack.NarrativeRules == nil || narrative == "" {
		return nil
	}
	var errs []string
	lower := strings.ToLower(narrative)
	location := state.CurrentLocation
	locationLower := strings.ToLower(location)

	for _, rule := range pack.NarrativeRules.ForbiddenWords {
		if rule.Word == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(rule.Word)) {
			msg := rule.Message
			if msg == "" {
				msg = fmt.Sprintf("叙事中出现了禁用词: '%s'", rule.Word)
			}
			errs = append(errs, msg)
		}
	}

	for _, rule := range pack.NarrativeRules.LocationRules {
		if req := rule.RequiredLocation; req != "" {
			reqLower := strings.ToLower(req)
			if !strings.Contains(locationLower, reqLower) && strings.Contains(lower, reqLower) {
				msg := rule.Message
				if msg == "" {
					msg = fmt.Sprintf("叙事提到了'%s'，但玩家当前位置'%s'不包含该地点。", req, location)
				}
				errs = append(errs, msg)
			}
		}
		if forb := rule.ForbiddenLocation; forb != "" {
			forbLower := strings.ToLower(forb)
			if strings.Contains(locationLower, forbLower) && strings.Contains(lower, forbLower) {
				msg := rule.Message
				if msg == "" {
					msg = fmt.Sprintf("叙事提到了'%s'，但玩家当前位置'%s'包含该禁用地点。", forb, location)
				}
				errs = append(errs, msg)
			}
		}
	}
	return errs
}

// fixSuggestions drops suggested actions that reference abilities the
// player cannot plausibly use or NPCs not present at the location.
func fixSuggestions(pack *types.SettingPack, state *types.GameState, resp *types.StructuredResponse) []string {
	var errs []string
	kept := resp.Suggestions[:0]
	for _, sug := range resp.Suggestions {
		cmd := sug.ActionCommand
		if cmd == "" {
			continue
		}
		ok := true

		if m := suggestUseRe.FindStringSubmatch(cmd); m != nil {
			name := strings.TrimSpace(m[1])
			if !usable(pack, state, name) {
				errs = append(errs, fmt.Sprintf("AI建议了不存在的技能或物品: '%s'", name))
				ok = false
			}
		}
		if m := suggestTalkRe.FindStringSubmatch(cmd); m != nil {
			name := strings.TrimSpace(m[2])
			if !npcPresent(pack, state, name) {
				errs = append(errs, fmt.Sprintf("AI建议与不在场的NPC '%s' 交谈。", name))
				ok = false
			}
		}
		if ok {
			kept = append(kept, sug)
		}
	}
	resp.Suggestions = kept
	return errs
}

// usable reports whether name resolves to a defined skill or item, an
// inventory entry, or a plausibly promotable ability.
func usable(pack *types.SettingPack, state *types.GameState, name string) bool {
	lower := strings.ToLower(name)
	for i := range pack.Skills {
		if strings.ToLower(pack.Skills[i].Name) == lower {
			return true
		}
	}
	for i := range pack.Items {
		if strings.ToLower(pack.Items[i].Name) == lower {
			return true
		}
	}
	for _, item := range state.Inventory {
		if strings.ToLower(item) == lower {
			return true
		}
	}
	return promote.Plausible(name)
}

func npcPresent(pack *types.SettingPack, state *types.GameState, name string) bool {
	lower := strings.ToLower(name)
	for i := range pack.NPCs {
		npc := &pack.NPCs[i]
		if npc.Location == state.CurrentLocation && strings.ToLower(npc.Name) == lower {
			return true
		}
	}
	return false
}

// fixStateChanges sanity-checks proposed state mutations. New items and
// quests are allowed (promotion handles them later); nonsensical values
// are reported and stripped.
func fixStateChanges(pack *types.SettingPack, state *types.GameState, resp *types.StructuredResponse) []string {
	var errs []string

	if resp.RemoveItem != "" && !holds(state, resp.RemoveItem) {
		errs = append(errs, fmt.Sprintf("AI试图移除玩家并不拥有的物品: '%s'", resp.RemoveItem))
		resp.RemoveItem = ""
	}

	if resp.QuestUpdate != "" {
		name, _, found := strings.Cut(resp.QuestUpdate, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			errs = append(errs, fmt.Sprintf("AI的任务状态更新格式无效: '%s'", resp.QuestUpdate))
			resp.QuestUpdate = ""
		}
	}

	if q := resp.NewQuest; q != nil {
		if q.Name == "" || q.Objective == "" {
			errs = append(errs, "AI试图创建任务，但缺少任务名或目标")
			resp.NewQuest = nil
		} else if pack.Task(q.Name) != nil {
			errs = append(errs, fmt.Sprintf("AI试图创建一个已经存在的任务: '%s'", q.Name))
			resp.NewQuest = nil
		}
	}

	return errs
}

func holds(state *types.GameState, item string) bool {
	lower := strings.ToLower(item)
	for _, held := range state.Inventory {
		if strings.ToLower(held) == lower {
			return true
		}
	}
	return false
}
