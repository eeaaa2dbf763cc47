package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates raw Lua definitions during file execution.
// Compilation into a SettingPack happens afterwards, outside the VM.
type collector struct {
	world      *lua.LTable
	dimensions []rawDimension
	items      []rawNamed
	skills     []rawNamed
	npcs       []rawNamed
	tasks      []rawNamed
	rules      *lua.LTable
}

type rawDimension struct {
	kind  string
	table *lua.LTable
}

type rawNamed struct {
	name  string
	table *lua.LTable
}

// registerAPI registers the pack constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// World { start_location = "...", principles = "..." }
	L.SetGlobal("World", L.NewFunction(func(L *lua.LState) int {
		coll.world = L.CheckTable(1)
		return 0
	}))

	// Dimension "生存" { name = "气血", initial_value = 100 } — curried:
	// Dimension(kind) returns a function that takes the table.
	L.SetGlobal("Dimension", L.NewFunction(func(L *lua.LState) int {
		kind := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.dimensions = append(coll.dimensions, rawDimension{kind: kind, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Item "小血瓶" { type = "恢复类", effects = {...}, ... } — curried.
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.items = append(coll.items, rawNamed{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Skill "火球术" { cost = "法力 - 10", effects = {...}, cooldown = 2 }
	L.SetGlobal("Skill", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.skills = append(coll.skills, rawNamed{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// NPC "老者" { location = "...", hostile = false, sells = {...}, ... }
	L.SetGlobal("NPC", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.npcs = append(coll.npcs, rawNamed{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Task "寻找圣物" { status = "未开始", objective = "...", reward = "..." }
	L.SetGlobal("Task", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.tasks = append(coll.tasks, rawNamed{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// NarrativeRules { forbidden_words = {...}, location_rules = {...} }
	L.SetGlobal("NarrativeRules", L.NewFunction(func(L *lua.LState) int {
		coll.rules = L.CheckTable(1)
		return 0
	}))
}
