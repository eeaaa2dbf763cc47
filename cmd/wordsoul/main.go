// Word Soul is an AI-narrated text adventure driven by setting packs.
// Usage: wordsoul [--version] [--plain] [--script <file>] <world_path>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nathoo/wordsoul/ai"
	"github.com/nathoo/wordsoul/cli"
	"github.com/nathoo/wordsoul/engine"
	"github.com/nathoo/wordsoul/loader"
	"github.com/nathoo/wordsoul/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	var worldPath string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("wordsoul %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if worldPath == "" {
				worldPath = args[i]
			}
		}
	}

	if worldPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: wordsoul [--version] [--plain] [--script <file>] <world_path>\n")
		os.Exit(1)
	}

	// API keys live in .env during development; a missing file is fine.
	_ = godotenv.Load()

	ctx := context.Background()

	// Load and validate the setting pack (Lua directory or JSON file).
	world, err := loader.Load(worldPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading world: %v\n", err)
		os.Exit(1)
	}

	cfg := ai.ResolveConfig(nil)
	provider, err := ai.NewProvider(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring AI backend: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(world.Pack, world.StartLocation, ai.NewClient(provider))

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Run(ctx)
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(eng)
		c.Run(ctx)
		return
	}

	if err := tui.Run(ctx, eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
