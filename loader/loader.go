// Package loader reads setting packs authored as Lua files or plain
// JSON documents. Lua packs run in a sandboxed VM that only exposes the
// pack constructors; the VM is discarded after loading.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/wordsoul/types"
	"github.com/nathoo/wordsoul/validate"
)

// World is a loaded, validated setting pack plus its session defaults.
type World struct {
	Pack          *types.SettingPack
	StartLocation string
}

// Load reads a world from path. A directory is treated as a Lua pack
// (all .lua files, world.lua first); a .json file as a serialized pack.
func Load(path string) (*World, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading world %s: %w", path, err)
	}
	if info.IsDir() {
		return loadLuaDir(path)
	}
	if strings.HasSuffix(path, ".json") {
		return loadJSON(path)
	}
	return nil, fmt.Errorf("unsupported world format %s: want a directory of .lua files or a .json file", path)
}

func loadJSON(path string) (*World, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc struct {
		types.SettingPack
		StartLocation string `json:"start_location"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	w := &World{Pack: &doc.SettingPack, StartLocation: doc.StartLocation}
	return w, checkPack(w)
}

func loadLuaDir(dir string) (*World, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading world directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	sortLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	w, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling world data: %w", err)
	}
	return w, checkPack(w)
}

// checkPack runs the generation-time validator and folds its advisory
// string list into one load error.
func checkPack(w *World) error {
	if ok, errs := validate.Pack(w.Pack); !ok {
		return fmt.Errorf("invalid setting pack:\n  - %s", strings.Join(errs, "\n  - "))
	}
	if w.StartLocation == "" {
		return fmt.Errorf("invalid setting pack: no start location defined")
	}
	return nil
}

// sortLuaFiles orders world.lua first, the rest alphabetical.
func sortLuaFiles(files []string) {
	sort.Slice(files, func(i, j int) bool {
		if files[i] == "world.lua" {
			return files[j] != "world.lua"
		}
		if files[j] == "world.lua" {
			return false
		}
		return files[i] < files[j]
	})
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the pack.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
}
