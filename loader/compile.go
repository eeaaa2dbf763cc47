package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/wordsoul/types"
)

// compile turns the collected raw Lua tables into a World. Semantic
// validation is not done here; checkPack runs the validator afterwards.
func compile(coll *collector) (*World, error) {
	if coll.world == nil {
		return nil, fmt.Errorf("no World {} declaration found")
	}

	pack := &types.SettingPack{
		Dimensions: make(map[string]types.Dimension, len(coll.dimensions)),
		Principles: getString(coll.world, "principles"),
	}

	for _, d := range coll.dimensions {
		if _, dup := pack.Dimensions[d.kind]; dup {
			return nil, fmt.Errorf("dimension kind %q declared twice", d.kind)
		}
		pack.Dimensions[d.kind] = types.Dimension{
			Name:         getString(d.table, "name"),
			InitialValue: getFloat(d.table, "initial_value"),
		}
	}

	for _, raw := range coll.items {
		item := types.ItemDef{
			Name:        raw.name,
			Type:        getString(raw.table, "type"),
			Effects:     getStringList(raw.table, "effects"),
			Acquisition: getString(raw.table, "acquisition"),
		}
		if v := raw.table.RawGetString("price"); v != lua.LNil {
			if n, ok := v.(lua.LNumber); ok {
				price := float64(n)
				item.Price = &price
			}
		}
		pack.Items = append(pack.Items, item)
	}

	for _, raw := range coll.skills {
		pack.Skills = append(pack.Skills, types.SkillDef{
			Name:     raw.name,
			Type:     getString(raw.table, "type"),
			Cost:     getString(raw.table, "cost"),
			Effects:  getStringList(raw.table, "effects"),
			Cooldown: getInt(raw.table, "cooldown"),
		})
	}

	for _, raw := range coll.npcs {
		pack.NPCs = append(pack.NPCs, types.NPCDef{
			Name:           raw.name,
			Description:    getString(raw.table, "description"),
			Location:       getString(raw.table, "location"),
			DialogueSample: getString(raw.table, "dialogue"),
			Attributes:     getFloatMap(raw.table, "attributes"),
			IsHostile:      getBool(raw.table, "hostile"),
			Sells:          getStringList(raw.table, "sells"),
		})
	}

	for _, raw := range coll.tasks {
		pack.Tasks = append(pack.Tasks, types.TaskDef{
			Name:      raw.name,
			Status:    getString(raw.table, "status"),
			Objective: getString(raw.table, "objective"),
			Reward:    getString(raw.table, "reward"),
		})
	}

	if coll.rules != nil {
		pack.NarrativeRules = compileRules(coll.rules)
	}

	return &World{
		Pack:          pack,
		StartLocation: getString(coll.world, "start_location"),
	}, nil
}

func compileRules(tbl *lua.LTable) *types.NarrativeRules {
	rules := &types.NarrativeRules{}

	if words, ok := tbl.RawGetString("forbidden_words").(*lua.LTable); ok {
		words.ForEach(func(_, v lua.LValue) {
			if entry, ok := v.(*lua.LTable); ok {
				rules.ForbiddenWords = append(rules.ForbiddenWords, types.ForbiddenWordRule{
					Word:    getString(entry, "word"),
					Message: getString(entry, "message"),
				})
			}
		})
	}

	if locs, ok := tbl.RawGetString("location_rules").(*lua.LTable); ok {
		locs.ForEach(func(_, v lua.LValue) {
			if entry, ok := v.(*lua.LTable); ok {
				rules.LocationRules = append(rules.LocationRules, types.LocationRule{
					RequiredLocation:  getString(entry, "required_location"),
					ForbiddenLocation: getString(entry, "forbidden_location"),
					Message:           getString(entry, "message"),
				})
			}
		})
	}

	return rules
}

func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func getFloat(tbl *lua.LTable, key string) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getInt(tbl *lua.LTable, key string) int {
	return int(getFloat(tbl, key))
}

func getBool(tbl *lua.LTable, key string) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return false
}

func getStringList(tbl *lua.LTable, key string) []string {
	list, ok := tbl.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	list.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

func getFloatMap(tbl *lua.LTable, key string) map[string]float64 {
	src, ok := tbl.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}
	out := make(map[string]float64)
	src.ForEach(func(k, v lua.LValue) {
		name, kok := k.(lua.LString)
		val, vok := v.(lua.LNumber)
		if kok && vok {
			out[string(name)] = float64(val)
		}
	})
	return out
}
