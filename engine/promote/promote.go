// Package promote synthesizes definitions for items, skills, tasks and
// attributes that gameplay references but the setting pack never defined.
// Generation-time validation stays strict; this package is the play-time
// escape hatch that lets emergent, model-driven content become first-class
// pack content.
//
// Extend* return an extended copy of the pack and never mutate their
// input. The category/effect guessing lives in swappable strategy
// functions so a lookup table or model call can replace the keyword
// heuristics without touching the orchestrator.
package promote

import (
	"strings"

	"github.com/nathoo/wordsoul/types"
)

// Keyword groups driving the default heuristics.
var (
	healingWords = []string{"血", "药", "丹", "恢复", "治疗", "疗伤", "回春"}
	attackWords  = []string{"火", "雷", "冰", "斩", "击", "刺", "剑", "刀", "拳", "爆", "咒", "术"}
	weaponWords  = []string{"剑", "刀", "枪", "斧", "弓", "匕首"}
)

func containsAny(name string, words []string) bool {
	for _, w := range words {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}

// InferItem guesses a plausible item definition from its name. Swappable.
var InferItem = func(pack *types.SettingPack, name string) types.ItemDef {
	item := types.ItemDef{
		Name:        name,
		Type:        "特殊类",
		Effects:     []string{},
		Acquisition: "冒险所得",
	}
	survival := pack.SurvivalName()
	output := outputName(pack)
	switch {
	case containsAny(name, healingWords) && survival != "":
		item.Type = types.ItemTypeConsumable
		item.Effects = []string{survival + " + 20"}
	case containsAny(name, weaponWords) && output != "":
		item.Type = "装备类"
		item.Effects = []string{output + " + 5"}
	}
	return item
}

// InferSkill guesses a plausible skill definition from its name. Swappable.
var InferSkill = func(pack *types.SettingPack, name string) types.SkillDef {
	skill := types.SkillDef{
		Name:    name,
		Type:    "特殊",
		Effects: []string{},
	}
	if resource := pack.ResourceName(); resource != "" {
		skill.Cost = resource + " - 10"
	}
	if survival := pack.SurvivalName(); survival != "" && containsAny(name, attackWords) {
		skill.Type = "攻击"
		skill.Effects = []string{survival + " - 15"}
		skill.Cooldown = 2
	}
	return skill
}

// InferTask builds a placeholder task so a model-invented quest is
// trackable. Swappable.
var InferTask = func(pack *types.SettingPack, name string) types.TaskDef {
	return types.TaskDef{
		Name:      name,
		Status:    "未开始",
		Objective: name,
		Reward:    "未知",
	}
}

// Plausible reports whether a name even looks like something the
// heuristics could give mechanics to. The corrector uses this to decide
// whether a suggested unknown ability is acceptable emergent content.
func Plausible(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return containsAny(name, healingWords) ||
		containsAny(name, attackWords) ||
		containsAny(name, weaponWords)
}

// ExtendItem returns a pack copy with a synthesized definition for name
// appended. The input pack is untouched; the new definition is returned
// alongside.
func ExtendItem(pack *types.SettingPack, name string) (*types.SettingPack, types.ItemDef) {
	def := InferItem(pack, name)
	next := clone(pack)
	next.Items = append(next.Items, def)
	return next, def
}

// ExtendSkill returns a pack copy with a synthesized skill appended.
func ExtendSkill(pack *types.SettingPack, name string) (*types.SettingPack, types.SkillDef) {
	def := InferSkill(pack, name)
	next := clone(pack)
	next.Skills = append(next.Skills, def)
	return next, def
}

// ExtendTask returns a pack copy with a synthesized task appended.
func ExtendTask(pack *types.SettingPack, name string) (*types.SettingPack, types.TaskDef) {
	def := InferTask(pack, name)
	next := clone(pack)
	next.Tasks = append(next.Tasks, def)
	return next, def
}

// ExtendTaskDef returns a pack copy with the given (model-provided) task
// appended, its status reset to 未开始.
func ExtendTaskDef(pack *types.SettingPack, def types.TaskDef) *types.SettingPack {
	def.Status = "未开始"
	if def.Reward == "" {
		def.Reward = "未知"
	}
	next := clone(pack)
	next.Tasks = append(next.Tasks, def)
	return next
}

// ExtendAttribute returns a pack copy with a new dimension registered
// under its own kind key, so the name becomes a defined attribute for
// validation purposes.
func ExtendAttribute(pack *types.SettingPack, name string, initial float64) *types.SettingPack {
	next := clone(pack)
	next.Dimensions[name] = types.Dimension{Name: name, InitialValue: initial}
	return next
}

// clone makes a shallow-plus-containers copy: the slices and the
// dimension map are fresh, the element values are copied as-is.
func clone(pack *types.SettingPack) *types.SettingPack {
	next := *pack
	next.Dimensions = make(map[string]types.Dimension, len(pack.Dimensions)+1)
	for k, v := range pack.Dimensions {
		next.Dimensions[k] = v
	}
	next.Items = append([]types.ItemDef(nil), pack.Items...)
	next.Skills = append([]types.SkillDef(nil), pack.Skills...)
	next.NPCs = append([]types.NPCDef(nil), pack.NPCs...)
	next.Tasks = append([]types.TaskDef(nil), pack.Tasks...)
	return &next
}

func outputName(pack *types.SettingPack) string {
	if d, ok := pack.Dimensions[types.DimOutput]; ok {
		return d.Name
	}
	return ""
}
