// Package tui provides a full-screen terminal interface for Word Soul
// built on bubbletea: a scrollback viewport for the narrative, a status
// bar for the player's condition, and an input line with history recall.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/wordsoul/engine"
	"github.com/nathoo/wordsoul/engine/save"
	"github.com/nathoo/wordsoul/types"
)

const thinkingMarker = "（世界之灵正在推演……）"

// turnDoneMsg reports the outcome of an asynchronous turn. Narrative
// generation blocks on the AI backend, so turns run as a tea.Cmd
// instead of inside Update.
type turnDoneMsg struct {
	result *types.TurnResult
	err    error
}

// Model is the bubbletea model for a running game session.
type Model struct {
	engine  *engine.Engine
	ctx     context.Context
	saveDir string

	viewport viewport.Model
	input    textinput.Model
	history  *inputHistory

	lines    []outputLine
	width    int
	height   int
	ready    bool
	busy     bool
	quitting bool

	sessionID string
}

// NewModel builds the initial model for the given engine.
func NewModel(ctx context.Context, eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("> ")
	ti.Placeholder = "你要做什么？"
	ti.CharLimit = 200
	ti.Focus()

	home, _ := os.UserHomeDir()

	m := Model{
		engine:  eng,
		ctx:     ctx,
		saveDir: filepath.Join(home, ".wordsoul", "saves"),
		input:   ti,
		history: newInputHistory(50),
	}

	if p := eng.Pack.Principles; p != "" {
		m.appendLine(kindNarrative, p)
		m.appendLine(kindNarrative, "")
	}
	m.appendLine(kindSystem, fmt.Sprintf("你身处：%s", eng.State.CurrentLocation))
	m.appendLine(kindSystem, "输入 /help 查看可用命令。")
	return m
}

// Run starts the TUI event loop and blocks until the player quits.
func Run(ctx context.Context, eng *engine.Engine) error {
	p := tea.NewProgram(NewModel(ctx, eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Layout: viewport, status bar, input line.
		vpHeight := msg.Height - 2
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		case tea.KeyUp:
			if cmd, ok := m.history.Prev(); ok {
				m.input.SetValue(cmd)
				m.input.CursorEnd()
			}
			return m, nil
		case tea.KeyDown:
			if cmd, ok := m.history.Next(); ok {
				m.input.SetValue(cmd)
				m.input.CursorEnd()
			}
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case turnDoneMsg:
		m.busy = false
		m.dropThinkingLine()
		if msg.err != nil {
			m.appendLine(kindError, fmt.Sprintf("[回合失败: %v]", msg.err))
		} else {
			m.appendResult(msg.result)
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.history.Push(input)

	if strings.HasPrefix(input, "/") {
		quit := m.handleMeta(input)
		m.refreshViewport()
		m.viewport.GotoBottom()
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// A bare number replays a suggestion from the last response.
	if cmd := m.pickSuggestion(input); cmd != "" {
		input = cmd
	}

	m.appendLine(kindPlayer, "> "+input)
	m.appendLine(kindSystem, thinkingMarker)
	m.busy = true
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, m.runTurn(input)
}

// runTurn executes a full turn off the event loop.
func (m Model) runTurn(input string) tea.Cmd {
	eng, ctx := m.engine, m.ctx
	return func() tea.Msg {
		result, err := eng.ProcessTurn(ctx, input)
		return turnDoneMsg{result: result, err: err}
	}
}

func (m *Model) pickSuggestion(input string) string {
	n, err := strconv.Atoi(input)
	if err != nil {
		return ""
	}
	last := m.engine.State.LastAIResponse
	if last == nil || n < 1 || n > len(last.Suggestions) {
		return ""
	}
	return last.Suggestions[n-1].ActionCommand
}

// handleMeta dispatches slash commands. Returns true on /quit.
func (m *Model) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/save":
		m.cmdSave(arg)
	case "/load":
		m.cmdLoad(arg)
	case "/state":
		m.cmdState()
	case "/help":
		m.cmdHelp()
	default:
		m.appendLine(kindSystem, fmt.Sprintf("未知命令: %s，输入 /help 查看可用命令。", cmd))
	}
	return false
}

func (m *Model) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}
	data, err := save.Save(m.engine, m.sessionID)
	if err == nil {
		err = os.MkdirAll(m.saveDir, 0o755)
	}
	if err == nil {
		err = os.WriteFile(filepath.Join(m.saveDir, name+".json"), data, 0o644)
	}
	if err != nil {
		m.appendLine(kindError, fmt.Sprintf("存档失败: %v", err))
		return
	}
	m.appendLine(kindSystem, fmt.Sprintf("已保存到 %s。", name))
}

func (m *Model) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}
	data, err := os.ReadFile(filepath.Join(m.saveDir, name+".json"))
	if err != nil {
		m.appendLine(kindError, fmt.Sprintf("读档失败: %v", err))
		return
	}
	sd, err := save.Load(data)
	if err != nil {
		m.appendLine(kindError, fmt.Sprintf("读档失败: %v", err))
		return
	}
	save.ApplySave(m.engine, sd)
	m.sessionID = sd.SessionID
	m.appendLine(kindSystem, fmt.Sprintf("已从 %s 读取。", name))
	m.appendLine(kindSystem, fmt.Sprintf("你身处：%s", m.engine.State.CurrentLocation))
}

func (m *Model) cmdState() {
	s := m.engine.State
	m.appendLine(kindSystem, fmt.Sprintf("位置: %s", s.CurrentLocation))

	names := make([]string, 0, len(s.Attributes))
	for name := range s.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	attrs := make([]string, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, fmt.Sprintf("%s %g", name, s.Attributes[name]))
	}
	m.appendLine(kindSystem, "属性: "+strings.Join(attrs, ", "))
	m.appendLine(kindSystem, fmt.Sprintf("背包: %v", s.Inventory))
	if len(s.ActiveQuests) > 0 {
		m.appendLine(kindSystem, fmt.Sprintf("任务: %v", s.ActiveQuests))
	}
	if s.InCombat {
		var enemies []string
		for _, cb := range s.Combatants {
			enemies = append(enemies, cb.Name)
		}
		m.appendLine(kindCombat, "战斗中: "+strings.Join(enemies, ", "))
	}
}

func (m *Model) cmdHelp() {
	help := []string{
		"系统命令: /save /load /state /quit",
		"行动示例: 使用 小血瓶 ｜ 对 妖狼 使用 火球术 ｜ 调查 石碑",
		"          与 老者 交谈 ｜ 攻击 妖狼 ｜ 防御 ｜ 购买 小血瓶",
		"直接输入编号可以选择上一回合给出的建议行动。",
		"上下方向键翻阅输入历史，PgUp/PgDn 滚动正文。",
	}
	for _, line := range help {
		m.appendLine(kindSystem, line)
	}
}

// appendResult renders a completed turn into the scrollback.
func (m *Model) appendResult(result *types.TurnResult) {
	m.appendLine(kindNarrative, result.Description)
	if result.PlayerMessage != "" {
		m.appendLine(kindSystem, result.PlayerMessage)
	}
	if r := result.CurrentState.LastActionResult; r != nil {
		if r.VictoryInfo != "" {
			m.appendLine(kindCombat, r.VictoryInfo)
		}
		if r.DefeatInfo != "" {
			m.appendLine(kindCombat, r.DefeatInfo)
		}
	}
	for i, sug := range result.Suggestions {
		line := fmt.Sprintf("  %d. %s", i+1, sug.ActionCommand)
		if len(sug.Details) > 0 {
			line += "（" + strings.Join(sug.Details, "，") + "）"
		}
		m.appendLine(kindSuggestion, line)
	}
	m.appendLine(kindNarrative, "")
}

func (m *Model) appendLine(kind lineKind, text string) {
	m.lines = append(m.lines, outputLine{kind: kind, text: text})
}

// dropThinkingLine removes the pending-turn marker once the turn lands.
func (m *Model) dropThinkingLine() {
	if n := len(m.lines); n > 0 && m.lines[n-1].text == thinkingMarker {
		m.lines = m.lines[:n-1]
	}
}

// refreshViewport re-wraps and re-styles the scrollback for the current
// terminal width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := m.viewport.Width
	var rendered []string
	for _, line := range m.lines {
		for _, wrapped := range runeWrap(line.text, width) {
			rendered = append(rendered, outputLine{kind: line.kind, text: wrapped}.render())
		}
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
}

func (m Model) View() string {
	if m.quitting {
		return "再会。\n"
	}
	if !m.ready {
		return "加载中……"
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}
