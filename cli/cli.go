// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Word Soul game loop.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/wordsoul/engine"
	"github.com/nathoo/wordsoul/engine/save"
	"github.com/nathoo/wordsoul/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool // echo each input line after the prompt (for script playback)
	sessionID string
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".wordsoul", "saves"),
	}
}

// Run starts the game loop: prompt → input → turn → output.
func (c *CLI) Run(ctx context.Context) {
	if p := c.Engine.Pack.Principles; p != "" {
		c.printLine(p)
		c.printLine("")
	}
	c.printSystem(fmt.Sprintf("你身处：%s", c.Engine.State.CurrentLocation))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// A bare number picks from the last response's suggestions.
		if cmd := c.pickSuggestion(input); cmd != "" {
			c.printLine(cmd)
			input = cmd
		}

		result, err := c.Engine.ProcessTurn(ctx, input)
		if err != nil {
			c.printSystem(fmt.Sprintf("回合失败: %v", err))
			continue
		}
		c.printResult(result)
	}
}

// pickSuggestion maps a bare number to the matching suggestion of the
// last AI response, replaying it as the player's command.
func (c *CLI) pickSuggestion(input string) string {
	n, err := strconv.Atoi(input)
	if err != nil {
		return ""
	}
	last := c.Engine.State.LastAIResponse
	if last == nil || n < 1 || n > len(last.Suggestions) {
		return ""
	}
	return last.Suggestions[n-1].ActionCommand
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("再会。")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/state":
		c.cmdState()

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("未知命令: %s，输入 /help 查看可用命令。", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(c.Engine, c.sessionID)
	if err != nil {
		c.printSystem(fmt.Sprintf("存档失败: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("存档失败: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("存档失败: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("已保存到 %s。", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("读档失败: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("读档失败: %v", err))
		return
	}

	save.ApplySave(c.Engine, sd)
	c.sessionID = sd.SessionID
	c.printSystem(fmt.Sprintf("已从 %s 读取。", name))
	c.printSystem(fmt.Sprintf("你身处：%s", c.Engine.State.CurrentLocation))
}

func (c *CLI) cmdState() {
	s := c.Engine.State
	c.printSystem(fmt.Sprintf("位置: %s", s.CurrentLocation))

	names := make([]string, 0, len(s.Attributes))
	for name := range s.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	attrs := make([]string, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, fmt.Sprintf("%s %g", name, s.Attributes[name]))
	}
	c.printSystem("属性: " + strings.Join(attrs, ", "))
	c.printSystem(fmt.Sprintf("背包: %v", s.Inventory))
	if len(s.ActiveQuests) > 0 {
		c.printSystem(fmt.Sprintf("任务: %v", s.ActiveQuests))
	}
	if s.InCombat {
		var enemies []string
		for _, cb := range s.Combatants {
			enemies = append(enemies, cb.Name)
		}
		c.printSystem("战斗中: " + strings.Join(enemies, ", "))
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
		"系统命令:",
		"  /save [名称]  — 保存游戏（默认 quicksave）",
		"  /load [名称]  — 读取存档（默认 quicksave）",
		"  /state        — 查看当前状态",
		"  /quit         — 退出游戏",
		"",
		"行动指令（示例）:",
		"  使用 小血瓶           — 使用物品",
		"  对 妖狼 使用 火球术    — 对目标使用技能",
		"  调查 石碑             — 调查某物",
		"  与 老者 交谈           — 与NPC交谈",
		"  攻击 妖狼 / 防御       — 战斗",
		"  给予 老者 小血瓶       — 赠送物品",
		"  购买 小血瓶            — 购买（需先与商人交谈）",
		"",
		"直接输入编号可以选择上一回合给出的建议行动。",
		"其他任何文字都会交给世界之灵自由演绎。",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printResult(result *types.TurnResult) {
	c.printLine(result.Description)
	if result.PlayerMessage != "" {
		c.printSystem(result.PlayerMessage)
	}
	if r := result.CurrentState.LastActionResult; r != nil {
		if r.VictoryInfo != "" {
			c.printSystem(r.VictoryInfo)
		}
		if r.DefeatInfo != "" {
			c.printSystem(r.DefeatInfo)
		}
	}
	for i, sug := range result.Suggestions {
		line := fmt.Sprintf("  %d. %s", i+1, sug.ActionCommand)
		if len(sug.Details) > 0 {
			line += "（" + strings.Join(sug.Details, "，") + "）"
		}
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
