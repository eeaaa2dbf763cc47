package engine

import (
	"strings"
	"time"

	"github.com/nathoo/wordsoul/engine/promote"
	"github.com/nathoo/wordsoul/engine/state"
	"github.com/nathoo/wordsoul/types"
)

// Quest status phrases that move a quest from active to the completed
// log. Failure phrases are checked first so "已失败" never reads as done.
var (
	questFailurePhrases = []string{"失败"}
	questSuccessPhrases = []string{"已完成", "完成", "成功"}
)

// applyResponse merges the corrected narrative deltas into game state.
func (e *Engine) applyResponse(resp *types.StructuredResponse) {
	if resp.AddItem != "" {
		e.State.Inventory = append(e.State.Inventory, resp.AddItem)
		if e.Pack.Item(resp.AddItem) == nil {
			pack, _ := promote.ExtendItem(e.Pack, resp.AddItem)
			e.extendPack(pack)
		}
	}

	if resp.RemoveItem != "" {
		state.RemoveItem(e.State, resp.RemoveItem)
	}

	if resp.QuestUpdate != "" {
		name, status, found := strings.Cut(resp.QuestUpdate, ":")
		if found {
			e.updateQuest(strings.TrimSpace(name), strings.TrimSpace(status))
		}
	}

	if resp.Location != "" && resp.Location != e.State.CurrentLocation {
		e.State.CurrentLocation = resp.Location
	}

	if q := resp.NewQuest; q != nil && e.Pack.Task(q.Name) == nil {
		e.extendPack(promote.ExtendTaskDef(e.Pack, *q))
		e.setQuestStatus(q.Name, "已接取")
	}
}

// updateQuest applies one quest status change. Completion and failure
// phrases move the quest into the bounded completed log; anything else
// just records the new status. Unknown quests are promoted first.
func (e *Engine) updateQuest(name, status string) {
	if name == "" || status == "" {
		return
	}
	if e.Pack.Task(name) == nil {
		pack, _ := promote.ExtendTask(e.Pack, name)
		e.extendPack(pack)
	}

	if done, success := questOver(status); done {
		delete(e.State.ActiveQuests, name)
		state.RecordCompleted(e.State, types.CompletedQuest{
			Name:        name,
			Status:      status,
			CompletedAt: time.Now().Format(time.RFC3339),
			IsSuccess:   success,
		})
		return
	}
	e.setQuestStatus(name, status)
}

func (e *Engine) setQuestStatus(name, status string) {
	if e.State.ActiveQuests == nil {
		e.State.ActiveQuests = make(map[string]string)
	}
	e.State.ActiveQuests[name] = status
}

func questOver(status string) (done, success bool) {
	for _, p := range questFailurePhrases {
		if strings.Contains(status, p) {
			return true, false
		}
	}
	for _, p := range questSuccessPhrases {
		if strings.Contains(status, p) {
			return true, true
		}
	}
	return false, false
}
