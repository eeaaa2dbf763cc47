package engine

import (
	"fmt"
	"math"

	"github.com/nathoo/wordsoul/engine/state"
	"github.com/nathoo/wordsoul/types"
)

// Fallback attribute names for packs whose dimensions omit a kind.
const (
	fallbackHealth = "气血"
	fallbackAttack = "力量"
	fallbackArmor  = "护甲"
)

const (
	defaultPlayerAttack = 10
	defaultNPCAttack    = 5
)

func (e *Engine) healthAttr() string {
	if n := e.Pack.SurvivalName(); n != "" {
		return n
	}
	return fallbackHealth
}

func (e *Engine) attackAttr() string {
	if d, ok := e.Pack.Dimensions[types.DimOutput]; ok {
		return d.Name
	}
	return fallbackAttack
}

func (e *Engine) armorAttr() string {
	if d, ok := e.Pack.Dimensions[types.DimDefense]; ok {
		return d.Name
	}
	return fallbackArmor
}

// handleAttack either initiates combat against a hostile NPC or strikes
// a current combatant. Combatants carry their own attribute snapshot so
// combat damage never touches the NPC's pack-level data.
func (e *Engine) handleAttack(targetName string) {
	if !e.State.InCombat {
		npc := e.Pack.NPC(targetName)
		if npc == nil || !npc.IsHostile {
			e.State.LastActionResult = &types.ActionResult{
				Type:   "attack_failed",
				Target: targetName,
				Reason: fmt.Sprintf("无法攻击目标 %s。", targetName),
			}
			return
		}
		attrs := make(map[string]float64, len(npc.Attributes))
		for k, v := range npc.Attributes {
			attrs[k] = v
		}
		e.State.InCombat = true
		e.State.Combatants = []types.Combatant{{Name: npc.Name, Attributes: attrs}}
		e.State.LastActionResult = &types.ActionResult{Type: "initiate_combat", Target: targetName}
		return
	}

	var target *types.Combatant
	for i := range e.State.Combatants {
		if e.State.Combatants[i].Name == targetName {
			target = &e.State.Combatants[i]
			break
		}
	}
	if target == nil {
		e.State.LastActionResult = &types.ActionResult{
			Type:   "attack_failed",
			Target: targetName,
			Reason: fmt.Sprintf("战斗中没有名为 %s 的敌人。", targetName),
		}
		return
	}

	attack := attrOr(e.State.Attributes, e.attackAttr(), defaultPlayerAttack)
	armor := attrOr(target.Attributes, e.armorAttr(), 0)
	damage := math.Max(0, math.Round(attack-armor))

	target.Attributes[e.healthAttr()] -= damage
	e.State.LastActionResult = &types.ActionResult{Type: "attack", Target: targetName, Damage: damage}
}

// runNPCTurns lets every combatant strike the player. Defending halves
// incoming damage (floored), then spent status effects expire.
func (e *Engine) runNPCTurns() {
	defending := state.IsDefending(e.State)
	armor := attrOr(e.State.Attributes, e.armorAttr(), 0)
	health := e.healthAttr()

	results := make([]types.NPCActionResult, 0, len(e.State.Combatants))
	for _, npc := range e.State.Combatants {
		damage := attrOr(npc.Attributes, e.attackAttr(), defaultNPCAttack) - armor
		if defending {
			damage = math.Floor(damage / 2)
		}
		damage = math.Max(0, math.Round(damage))
		e.State.Attributes[health] -= damage
		results = append(results, types.NPCActionResult{NPC: npc.Name, Action: "attack", Damage: damage})
	}

	kept := e.State.StatusEffects[:0]
	for _, s := range e.State.StatusEffects {
		if s.Duration > 1 {
			kept = append(kept, s)
		}
	}
	e.State.StatusEffects = kept
	e.State.NPCActionResults = results
}

// checkCombatStatus removes downed combatants and ends combat when none
// remain or the player falls. Victory and defeat are checked
// independently; both messages may be present in the same result.
func (e *Engine) checkCombatStatus() {
	health := e.healthAttr()

	alive := e.State.Combatants[:0]
	for _, npc := range e.State.Combatants {
		if attrOr(npc.Attributes, health, 0) > 0 {
			alive = append(alive, npc)
			continue
		}
		r := resultFor(e.State)
		r.VictoryInfo = fmt.Sprintf("你击败了 %s！", npc.Name)
	}
	e.State.Combatants = alive

	if len(alive) == 0 {
		e.State.InCombat = false
		e.State.Combatants = nil
	}

	if e.State.Attributes[health] <= 0 {
		e.State.InCombat = false
		r := resultFor(e.State)
		r.DefeatInfo = "你失去了意识..."
	}
}

func resultFor(s *types.GameState) *types.ActionResult {
	if s.LastActionResult == nil {
		s.LastActionResult = &types.ActionResult{}
	}
	return s.LastActionResult
}

func attrOr(attrs map[string]float64, name string, def float64) float64 {
	if v, ok := attrs[name]; ok {
		return v
	}
	return def
}
