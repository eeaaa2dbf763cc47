// Package engine provides the ProcessTurn() orchestrator that wires
// together parsing, mechanics, narrative generation, correction, state
// merge, combat, and the final consistency gate into a single turn.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/wordsoul/ai"
	"github.com/nathoo/wordsoul/engine/corrector"
	"github.com/nathoo/wordsoul/engine/parser"
	"github.com/nathoo/wordsoul/engine/state"
	"github.com/nathoo/wordsoul/types"
	"github.com/nathoo/wordsoul/validate"
)

// ErrStateCorrupted is returned when the post-turn consistency gate
// fails. The turn is rolled back; nothing was committed.
var ErrStateCorrupted = errors.New("游戏状态出现异常，为防止数据损坏已中断操作")

// Engine owns one session's setting pack and game state. Callers must
// serialize turns per session; a turn mutates both documents.
type Engine struct {
	Pack     *types.SettingPack
	State    *types.GameState
	Narrator ai.Narrator

	// PackDirty is set when dynamic promotion extended the pack this
	// session, so the caller knows to persist it.
	PackDirty bool
}

// New creates an engine with fresh state derived from pack defaults.
func New(pack *types.SettingPack, startLocation string, narrator ai.Narrator) *Engine {
	return &Engine{
		Pack:     pack,
		State:    state.New(pack, startLocation),
		Narrator: narrator,
	}
}

// Restore creates an engine around previously saved documents.
func Restore(pack *types.SettingPack, s *types.GameState, narrator ai.Narrator) *Engine {
	return &Engine{Pack: pack, State: s, Narrator: narrator}
}

// ProcessTurn runs one complete player-action-to-response cycle.
// On error the pre-turn state is restored: a turn either commits whole
// or not at all.
func (e *Engine) ProcessTurn(ctx context.Context, playerAction string) (*types.TurnResult, error) {
	// 0. Snapshot for rollback. Promotion never mutates the pack in
	// place, so restoring the pointer is enough on that side.
	snapState := state.Clone(e.State)
	snapPack := e.Pack
	snapDirty := e.PackDirty

	// 1. Start-of-turn upkeep.
	state.TickCooldowns(e.State)
	state.ClearTransient(e.State)

	// 2. Parse the action and apply its mechanical effects before the
	// narrative runs, so the model narrates an already-updated world.
	cmd := parser.Parse(playerAction)
	parsed := e.applyMechanics(cmd)

	// 3. Narrative generation. A collaborator failure is turn-fatal.
	req := &types.GenerationRequest{
		Pack:         e.Pack,
		State:        e.State,
		PlayerAction: playerAction,
		Unparsed:     !parsed,
	}
	resp, err := e.Narrator.Generate(ctx, req)
	if err != nil {
		e.restore(snapState, snapPack, snapDirty)
		return nil, fmt.Errorf("narrative generation: %w", err)
	}

	// 4. Correction, with one regeneration attempt for severe findings.
	regen := func(avoid []string) (*types.StructuredResponse, error) {
		retryReq := *req
		retryReq.Avoid = avoid
		return e.Narrator.Generate(ctx, &retryReq)
	}
	resp, findings := corrector.ValidateAndCorrect(e.Pack, e.State, resp, regen)
	if len(findings) > 0 {
		fmt.Fprintf(os.Stderr, "turn: corrected response carries %d finding(s)\n", len(findings))
	}

	// 5. Merge the corrected response into state.
	e.applyResponse(resp)

	// 6. Combat sub-turn.
	if e.State.InCombat {
		e.runNPCTurns()
		e.checkCombatStatus()
	}

	// 7. Annotate suggestions with live mechanical previews.
	e.enrichSuggestions(resp.Suggestions)

	// 8. Final consistency gate. Fails closed: abort and roll back.
	if ok, verrs := validate.State(e.State, e.Pack); !ok {
		fmt.Fprintf(os.Stderr, "turn: state validation failed: %s\n", strings.Join(verrs, "; "))
		e.restore(snapState, snapPack, snapDirty)
		return nil, ErrStateCorrupted
	}

	// 9. Commit history and the full reply for suggestion replay.
	state.PushHistory(e.State, playerAction, resp.Description)
	e.State.LastAIResponse = resp

	return &types.TurnResult{StructuredResponse: *resp, CurrentState: e.State}, nil
}

func (e *Engine) restore(s *types.GameState, pack *types.SettingPack, dirty bool) {
	e.State = s
	e.Pack = pack
	e.PackDirty = dirty
}

// extendPack swaps in a promoted pack copy and marks it for persistence.
func (e *Engine) extendPack(pack *types.SettingPack) {
	e.Pack = pack
	e.PackDirty = true
}
