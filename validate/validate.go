// Package validate checks setting packs and game states against the world
// rules. Findings are advisory strings, not errors: the caller decides
// whether to retry generation, reject, or abort a turn.
//
// Two policies share this vocabulary: Pack is the strict generation-time
// validator, State is the play-time gate that stays permissive about
// dynamically promoted content but strict about nonsensical values.
package validate

import (
	"fmt"
	"strings"

	"github.com/nathoo/wordsoul/engine/effects"
	"github.com/nathoo/wordsoul/types"
)

// requiredDimensions are the dimension kinds every pack must define.
var requiredDimensions = []string{types.DimSurvival, types.DimOutput, types.DimResource}

// Pack validates a setting pack structurally and semantically. It stops
// after the module-presence check when required top-level modules are
// missing — further checks are meaningless without them.
func Pack(pack *types.SettingPack) (bool, []string) {
	var errs []string

	if pack.Dimensions == nil {
		errs = append(errs, "missing required module: attribute_dimensions")
	}
	if pack.Items == nil {
		errs = append(errs, "missing required module: items")
	}
	if pack.Skills == nil {
		errs = append(errs, "missing required module: skills")
	}
	if pack.Tasks == nil {
		errs = append(errs, "missing required module: tasks")
	}
	if pack.NPCs == nil {
		errs = append(errs, "missing required module: npcs")
	}
	if len(errs) > 0 {
		return false, errs
	}

	errs = append(errs, packDimensions(pack)...)
	errs = append(errs, packItems(pack)...)
	errs = append(errs, packSkills(pack)...)
	errs = append(errs, packTasks(pack)...)
	errs = append(errs, packNPCs(pack)...)

	return len(errs) == 0, errs
}

func packDimensions(pack *types.SettingPack) []string {
	var errs []string
	for _, kind := range requiredDimensions {
		dim, ok := pack.Dimensions[kind]
		if !ok {
			errs = append(errs, fmt.Sprintf("missing required dimension type: %s", kind))
			continue
		}
		if strings.TrimSpace(dim.Name) == "" {
			errs = append(errs, fmt.Sprintf("dimension %q must define a non-empty name", kind))
		}
	}
	return errs
}

func packItems(pack *types.SettingPack) []string {
	var errs []string
	for _, item := range pack.Items {
		name := entityName(item.Name)
		if strings.TrimSpace(item.Name) == "" {
			errs = append(errs, fmt.Sprintf("item %q missing required key: 名称", name))
		}
		if strings.TrimSpace(item.Type) == "" {
			errs = append(errs, fmt.Sprintf("item %q missing required key: 类型", name))
		}
		if item.Effects == nil {
			errs = append(errs, fmt.Sprintf("item %q missing required key: 效果", name))
		}
		if strings.TrimSpace(item.Acquisition) == "" {
			errs = append(errs, fmt.Sprintf("item %q missing required key: 获取", name))
		}
		for _, effect := range item.Effects {
			errs = append(errs, checkEffect(pack, effect, name)...)
		}
	}
	return errs
}

func packSkills(pack *types.SettingPack) []string {
	var errs []string
	for _, skill := range pack.Skills {
		name := entityName(skill.Name)
		if strings.TrimSpace(skill.Name) == "" {
			errs = append(errs, fmt.Sprintf("skill %q missing required key: 名称", name))
		}
		if strings.TrimSpace(skill.Type) == "" {
			errs = append(errs, fmt.Sprintf("skill %q missing required key: 类型", name))
		}
		if strings.TrimSpace(skill.Cost) == "" {
			errs = append(errs, fmt.Sprintf("skill %q missing required key: 消耗", name))
		} else {
			errs = append(errs, checkCost(pack, skill.Cost, name)...)
		}
		if skill.Effects == nil {
			errs = append(errs, fmt.Sprintf("skill %q missing required key: 效果", name))
		}
		for _, effect := range skill.Effects {
			errs = append(errs, checkEffect(pack, effect, name)...)
		}
		if skill.Cooldown < 0 {
			errs = append(errs, fmt.Sprintf("skill %q 冷却时间 must be a non-negative integer", name))
		}
	}
	return errs
}

func packTasks(pack *types.SettingPack) []string {
	var errs []string
	for _, task := range pack.Tasks {
		name := task.Name
		if name == "" {
			name = entityName(task.Objective)
		}
		if strings.TrimSpace(task.Name) == "" {
			errs = append(errs, fmt.Sprintf("task %q 名称 must be a non-empty string", name))
		}
		if strings.TrimSpace(task.Status) == "" {
			errs = append(errs, fmt.Sprintf("task %q missing required key: 状态", name))
		}
		if strings.TrimSpace(task.Objective) == "" {
			errs = append(errs, fmt.Sprintf("task %q missing required key: 目标", name))
		}
		if strings.TrimSpace(task.Reward) == "" {
			errs = append(errs, fmt.Sprintf("task %q missing required key: 奖励", name))
		}
	}
	return errs
}

func packNPCs(pack *types.SettingPack) []string {
	var errs []string
	defined := definedSet(pack)
	for _, npc := range pack.NPCs {
		name := entityName(npc.Name)
		if strings.TrimSpace(npc.Name) == "" {
			errs = append(errs, fmt.Sprintf("npc %q missing required key: 名称", name))
		}
		if strings.TrimSpace(npc.Description) == "" {
			errs = append(errs, fmt.Sprintf("npc %q missing required key: 描述", name))
		}
		if strings.TrimSpace(npc.Location) == "" {
			errs = append(errs, fmt.Sprintf("npc %q missing required key: 位置", name))
		}
		if npc.Attributes == nil {
			errs = append(errs, fmt.Sprintf("npc %q missing required key: attributes", name))
			continue
		}
		for attr := range npc.Attributes {
			if !defined[attr] {
				errs = append(errs, fmt.Sprintf(
					"npc %q has an undefined attribute %q; valid attributes are: %s",
					name, attr, strings.Join(pack.DimensionNames(), ", ")))
			}
		}
	}
	return errs
}

// checkEffect validates one effect expression against the grammar and the
// defined dimension names.
func checkEffect(pack *types.SettingPack, effect, owner string) []string {
	expr, ok := effects.Parse(effect)
	if !ok {
		return []string{fmt.Sprintf(
			"in %q, 效果 %q is not of the form '属性名 +/-/*// 数值' (e.g. '气血 + 10')", owner, effect)}
	}
	if !definedSet(pack)[expr.Attribute] {
		return []string{fmt.Sprintf(
			"in %q, 效果 uses undefined attribute %q; valid names are: %s",
			owner, expr.Attribute, strings.Join(pack.DimensionNames(), ", "))}
	}
	return nil
}

// checkCost validates one cost expression: minus-only grammar, and the
// attribute must be exactly the resource dimension's name — costs can
// only drain the resource dimension.
func checkCost(pack *types.SettingPack, cost, owner string) []string {
	expr, ok := effects.ParseCost(cost)
	if !ok {
		return []string{fmt.Sprintf(
			"in %q, 消耗 %q is not of the form '资源名 - 数值' (e.g. '法力 - 10')", owner, cost)}
	}
	resource := pack.ResourceName()
	if resource == "" {
		return []string{fmt.Sprintf(
			"in %q, 消耗 cannot be validated: the pack defines no 资源 dimension name", owner)}
	}
	if expr.Attribute != resource {
		return []string{fmt.Sprintf(
			"in %q, 消耗 uses invalid resource %q; the defined resource is %q",
			owner, expr.Attribute, resource)}
	}
	return nil
}

// State validates a game state against the (possibly extended) pack. This
// is the final per-turn gate: attribute names must be defined dimensions,
// values numeric-sane, and the container fields well-formed. Items, skills
// and quests are deliberately not cross-checked against the pack's lists —
// dynamic content keeps those open.
func State(s *types.GameState, pack *types.SettingPack) (bool, []string) {
	var errs []string

	if s.Attributes == nil {
		return false, []string{"current_state is missing the attributes map"}
	}

	defined := definedSet(pack)
	for attr := range s.Attributes {
		if !defined[attr] {
			errs = append(errs, fmt.Sprintf("game state contains undefined attribute %q", attr))
		}
	}

	for _, item := range s.Inventory {
		if strings.TrimSpace(item) == "" {
			errs = append(errs, fmt.Sprintf("inventory contains an invalid item name %q", item))
		}
	}

	for skill, cooldown := range s.Cooldowns {
		if strings.TrimSpace(skill) == "" {
			errs = append(errs, fmt.Sprintf("cooldowns contain an invalid skill name %q", skill))
		}
		if cooldown < 0 {
			errs = append(errs, fmt.Sprintf("cooldown for skill %q must be a non-negative integer", skill))
		}
	}

	if s.InCombat && len(s.Combatants) == 0 {
		errs = append(errs, "in_combat is set but no combatants are present")
	}

	return len(errs) == 0, errs
}

func definedSet(pack *types.SettingPack) map[string]bool {
	set := make(map[string]bool, len(pack.Dimensions))
	for _, d := range pack.Dimensions {
		set[d.Name] = true
	}
	return set
}

func entityName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Unknown"
	}
	return name
}
