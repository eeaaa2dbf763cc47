// Package ai talks to the language model backing the game master.
// It renders prompts, drives the staged generation pipeline, and
// parses the model's structured replies.
package ai

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/nathoo/wordsoul/types"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

const (
	maxAttempts  = 3
	stageTimeout = 150 * time.Second
)

var backoffStep = 2 * time.Second

// Narrator produces the structured game-master response for one turn.
// The engine depends on this interface so tests can script the model.
type Narrator interface {
	Generate(ctx context.Context, req *types.GenerationRequest) (*types.StructuredResponse, error)
}

// Client runs the staged generation pipeline against a Provider.
type Client struct {
	provider Provider
}

func NewClient(p Provider) *Client {
	return &Client{provider: p}
}

// Generate runs the three stages in order: free-form narrative,
// structured change extraction, then action suggestions. Each stage
// retries transient failures with a linear backoff before giving up.
func (c *Client) Generate(ctx context.Context, req *types.GenerationRequest) (*types.StructuredResponse, error) {
	narrative, err := c.complete(ctx, "narrative.tmpl", narrativeData(req))
	if err != nil {
		return nil, fmt.Errorf("narrative stage: %w", err)
	}
	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return nil, fmt.Errorf("narrative stage: model returned empty text")
	}

	resp := &types.StructuredResponse{Description: narrative}

	changesRaw, err := c.complete(ctx, "changes.tmpl", changesData(req, narrative))
	if err != nil {
		return nil, fmt.Errorf("changes stage: %w", err)
	}
	parseChanges(resp, ParseObject(changesRaw))

	suggestRaw, err := c.complete(ctx, "suggest.tmpl", suggestData(req, narrative))
	if err != nil {
		return nil, fmt.Errorf("suggestion stage: %w", err)
	}
	parseSuggestions(resp, ParseObject(suggestRaw))

	return resp, nil
}

// complete renders one prompt template and calls the provider,
// retrying only errors classified as transient.
func (c *Client) complete(ctx context.Context, name string, data any) (string, error) {
	var buf strings.Builder
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	prompt := buf.String()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * backoffStep
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		stageCtx, cancel := context.WithTimeout(ctx, stageTimeout)
		out, err := c.provider.Complete(stageCtx, prompt)
		cancel()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("gave up after %d attempts: %w", maxAttempts, lastErr)
}

type narrativePrompt struct {
	Principles   string
	Location     string
	Attributes   string
	Inventory    string
	ActionResult string
	Unparsed     bool
	Avoid        []string
	History      string
	Action       string
}

func narrativeData(req *types.GenerationRequest) narrativePrompt {
	return narrativePrompt{
		Principles:   req.Pack.Principles,
		Location:     req.State.CurrentLocation,
		Attributes:   formatAttributes(req.State.Attributes),
		Inventory:    formatList(req.State.Inventory),
		ActionResult: formatActionResult(req.State.LastActionResult, req.State.NPCActionResults),
		Unparsed:     req.Unparsed,
		Avoid:        req.Avoid,
		History:      formatHistory(req.State.RecentHistory),
		Action:       req.PlayerAction,
	}
}

type changesPrompt struct {
	Location  string
	Inventory string
	Narrative string
}

func changesData(req *types.GenerationRequest, narrative string) changesPrompt {
	return changesPrompt{
		Location:  req.State.CurrentLocation,
		Inventory: formatList(req.State.Inventory),
		Narrative: narrative,
	}
}

type suggestPrompt struct {
	Location  string
	Inventory string
	Skills    string
	Narrative string
}

func suggestData(req *types.GenerationRequest, narrative string) suggestPrompt {
	names := make([]string, 0, len(req.Pack.Skills))
	for _, sk := range req.Pack.Skills {
		names = append(names, sk.Name)
	}
	sort.Strings(names)
	return suggestPrompt{
		Location:  req.State.CurrentLocation,
		Inventory: formatList(req.State.Inventory),
		Skills:    formatList(names),
		Narrative: narrative,
	}
}

// formatHistory renders the stored history oldest to newest as a
// dialogue log. Entries are stored newest first.
func formatHistory(entries []types.HistoryEntry) string {
	if len(entries) == 0 {
		return "（这是冒险的开始）"
	}
	var b strings.Builder
	for i := len(entries) - 1; i >= 0; i-- {
		speaker := "你"
		if entries[i].Role == "player" {
			speaker = "玩家"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, entries[i].Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAttributes(attrs map[string]float64) string {
	if len(attrs) == 0 {
		return "无"
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, trimFloat(attrs[name])))
	}
	return strings.Join(parts, ", ")
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "空"
	}
	return strings.Join(items, ", ")
}

// trimFloat prints whole numbers without a decimal point.
func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// formatActionResult summarizes the mechanical outcome of the turn so
// the model narrates what actually happened instead of inventing it.
func formatActionResult(r *types.ActionResult, npcResults []types.NPCActionResult) string {
	if r == nil && len(npcResults) == 0 {
		return ""
	}
	var parts []string
	if r != nil {
		switch r.Type {
		case "attack":
			parts = append(parts, fmt.Sprintf("玩家攻击了 %s，造成 %s 点伤害", r.Target, trimFloat(r.Damage)))
		case "initiate_combat":
			parts = append(parts, fmt.Sprintf("玩家向 %s 发起了战斗", r.Target))
		case "attack_failed":
			parts = append(parts, fmt.Sprintf("玩家试图攻击 %s，但失败了（%s）", r.Target, r.Reason))
		case "defend":
			parts = append(parts, "玩家进入了防御姿态")
		case "use_item_failed", "use_skill_failed":
			parts = append(parts, fmt.Sprintf("玩家的行动失败了：%s", r.Reason))
		default:
			if r.Reason != "" {
				parts = append(parts, r.Reason)
			}
		}
		if r.VictoryInfo != "" {
			parts = append(parts, r.VictoryInfo)
		}
		if r.DefeatInfo != "" {
			parts = append(parts, r.DefeatInfo)
		}
	}
	for _, nr := range npcResults {
		parts = append(parts, fmt.Sprintf("%s 对玩家造成了 %s 点伤害", nr.NPC, trimFloat(nr.Damage)))
	}
	return strings.Join(parts, "；")
}

// AssistWorldCreation asks the model to fill in or polish a partial
// world setup. Empty field values are generated from scratch.
func (c *Client) AssistWorldCreation(ctx context.Context, fields map[string]string) (map[string]string, error) {
	raw, err := c.complete(ctx, "assist.tmpl", struct{ Fields map[string]string }{fields})
	if err != nil {
		return nil, fmt.Errorf("world creation: %w", err)
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(StripFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("world creation: bad reply: %w", err)
	}
	return out, nil
}
