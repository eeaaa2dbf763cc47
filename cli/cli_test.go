package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nathoo/wordsoul/engine"
	"github.com/nathoo/wordsoul/types"
)

type stubNarrator struct {
	resp *types.StructuredResponse
}

func (n *stubNarrator) Generate(_ context.Context, _ *types.GenerationRequest) (*types.StructuredResponse, error) {
	if n.resp != nil {
		r := *n.resp
		return &r, nil
	}
	return &types.StructuredResponse{Description: "故事继续。"}, nil
}

func testPack() *types.SettingPack {
	return &types.SettingPack{
		Dimensions: map[string]types.Dimension{
			types.DimSurvival: {Name: "气血", InitialValue: 100},
			types.DimOutput:   {Name: "力量", InitialValue: 10},
			types.DimResource: {Name: "法力", InitialValue: 50},
		},
		Items:      []types.ItemDef{{Name: "小血瓶", Type: types.ItemTypeConsumable, Effects: []string{"气血 + 20"}}},
		Principles: "黑暗奇幻的试炼之地。",
	}
}

func newTestCLI(t *testing.T, narrator *stubNarrator, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	eng := engine.New(testPack(), "荒废的神庙", narrator)
	eng.State.Inventory = []string{"小血瓶"}
	var out bytes.Buffer
	return &CLI{
		Engine:  eng,
		In:      strings.NewReader(input),
		Out:     &out,
		SaveDir: t.TempDir(),
	}, &out
}

func TestRunShowsPrinciplesAndLocation(t *testing.T) {
	c, out := newTestCLI(t, &stubNarrator{}, "/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "黑暗奇幻的试炼之地。") {
		t.Error("expected world principles in output")
	}
	if !strings.Contains(output, "荒废的神庙") {
		t.Error("expected starting location in output")
	}
}

func TestRunProcessesTurn(t *testing.T) {
	narrator := &stubNarrator{resp: &types.StructuredResponse{Description: "你喝下了药水，伤口愈合。"}}
	c, out := newTestCLI(t, narrator, "使用 小血瓶\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "你喝下了药水，伤口愈合。") {
		t.Error("expected narrative in output")
	}
	if got := c.Engine.State.Attributes["气血"]; got != 120 {
		t.Errorf("气血 = %v, want 120", got)
	}
}

func TestRunShowsSuggestions(t *testing.T) {
	narrator := &stubNarrator{resp: &types.StructuredResponse{
		Description: "夜色渐深。",
		Suggestions: []types.Suggestion{{ActionCommand: "使用 小血瓶"}},
	}}
	c, out := newTestCLI(t, narrator, "调查 四周\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "1. 使用 小血瓶") {
		t.Errorf("expected numbered suggestion, got:\n%s", out.String())
	}
}

func TestNumberReplaysSuggestion(t *testing.T) {
	narrator := &stubNarrator{resp: &types.StructuredResponse{
		Description: "夜色渐深。",
		Suggestions: []types.Suggestion{{ActionCommand: "使用 小血瓶"}},
	}}
	c, _ := newTestCLI(t, narrator, "调查 四周\n1\n/quit\n")
	c.Run(context.Background())

	// Picking "1" replays 使用 小血瓶 and consumes it.
	if got := c.Engine.State.Attributes["气血"]; got != 120 {
		t.Errorf("气血 = %v, want 120 after replayed suggestion", got)
	}
	if len(c.Engine.State.Inventory) != 0 {
		t.Errorf("inventory = %v, want empty", c.Engine.State.Inventory)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	c, out := newTestCLI(t, &stubNarrator{}, "使用 小血瓶\n/save slot1\n/quit\n")
	c.Run(context.Background())
	if !strings.Contains(out.String(), "已保存到 slot1") {
		t.Fatalf("save not confirmed:\n%s", out.String())
	}

	c2, out2 := newTestCLI(t, &stubNarrator{}, "/load slot1\n/quit\n")
	c2.SaveDir = c.SaveDir
	c2.Run(context.Background())
	if !strings.Contains(out2.String(), "已从 slot1 读取") {
		t.Fatalf("load not confirmed:\n%s", out2.String())
	}
	if got := c2.Engine.State.Attributes["气血"]; got != 120 {
		t.Errorf("气血 = %v, want restored 120", got)
	}
}

func TestStateCommand(t *testing.T) {
	c, out := newTestCLI(t, &stubNarrator{}, "/state\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "气血 100") {
		t.Errorf("expected attributes in state dump:\n%s", output)
	}
	if !strings.Contains(output, "小血瓶") {
		t.Error("expected inventory in state dump")
	}
}

func TestUnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, &stubNarrator{}, "/dance\n/quit\n")
	c.Run(context.Background())
	if !strings.Contains(out.String(), "未知命令") {
		t.Error("expected unknown-command notice")
	}
}
