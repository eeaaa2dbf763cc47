package engine

import (
	"fmt"

	"github.com/nathoo/wordsoul/engine/effects"
	"github.com/nathoo/wordsoul/engine/parser"
	"github.com/nathoo/wordsoul/engine/promote"
	"github.com/nathoo/wordsoul/engine/state"
	"github.com/nathoo/wordsoul/types"
)

// applyMechanics routes a parsed command to its handler, mutating state
// in place. Returns false when no shape matched; the narrative layer
// then carries full interpretive weight. Failures inside a handler are
// recorded as structured action results, never as errors.
func (e *Engine) applyMechanics(cmd parser.Command) bool {
	switch cmd.Kind {
	case parser.KindUseSkill:
		e.handleUseSkill(cmd.Object, cmd.Target)
	case parser.KindUseItem:
		e.handleUseItem(cmd.Object)
	case parser.KindObserve:
		e.State.FocusTarget = cmd.Object
	case parser.KindTalk:
		e.State.TalkTarget = cmd.Target
	case parser.KindAttack:
		e.handleAttack(cmd.Target)
	case parser.KindDefend:
		e.handleDefend()
	case parser.KindGiveItem:
		e.handleGiveItem(cmd.Target, cmd.Object)
	case parser.KindBuyItem:
		e.handleBuyItem(cmd.Object)
	case parser.KindSellItem:
		// Selling is a recognized command with no mechanical effect yet.
		// The narrative layer frames the attempt.
	default:
		return false
	}
	return true
}

func (e *Engine) handleUseItem(name string) {
	if !state.HasItem(e.State, name) {
		e.State.LastActionResult = &types.ActionResult{
			Type:   "use_item_failed",
			Target: name,
			Reason: fmt.Sprintf("你没有物品 '%s'。", name),
		}
		return
	}

	item := e.Pack.Item(name)
	if item == nil {
		// The player holds something the pack never defined. Promote a
		// plausible definition so it behaves like first-class content.
		pack, def := promote.ExtendItem(e.Pack, name)
		e.extendPack(pack)
		item = &def
	}

	effects.ApplyAll(e.State, item.Effects)

	if item.Type == types.ItemTypeConsumable {
		state.RemoveItem(e.State, name)
	}
	e.State.LastActionResult = &types.ActionResult{Type: "use_item", Target: name}
}

func (e *Engine) handleUseSkill(name, target string) {
	if _, onCooldown := e.State.Cooldowns[name]; onCooldown {
		e.State.LastActionResult = &types.ActionResult{
			Type:   "use_skill_failed",
			Target: target,
			Reason: fmt.Sprintf("技能 '%s' 还在冷却中。", name),
		}
		return
	}

	skill := e.Pack.Skill(name)
	if skill == nil {
		pack, def := promote.ExtendSkill(e.Pack, name)
		e.extendPack(pack)
		skill = &def
	}

	if !effects.Affordable(e.State, skill.Cost) {
		e.State.LastActionResult = &types.ActionResult{
			Type:   "use_skill_failed",
			Target: target,
			Reason: fmt.Sprintf("资源不足，无法使用 '%s'。", name),
		}
		return
	}

	if skill.Cost != "" {
		effects.Apply(e.State, skill.Cost)
	}
	effects.ApplyAll(e.State, skill.Effects)

	if skill.Cooldown > 0 {
		if e.State.Cooldowns == nil {
			e.State.Cooldowns = make(map[string]int)
		}
		e.State.Cooldowns[name] = skill.Cooldown
	}
	e.State.LastActionResult = &types.ActionResult{Type: "use_skill", Target: target}
}

func (e *Engine) handleGiveItem(npcName, itemName string) {
	if !state.HasItem(e.State, itemName) || e.Pack.NPC(npcName) == nil {
		return
	}
	state.RemoveItem(e.State, itemName)
	e.State.GiveInfo = &types.GiveInfo{NPC: npcName, Item: itemName}
}

func (e *Engine) handleDefend() {
	if !e.State.InCombat {
		return
	}
	e.State.StatusEffects = append(e.State.StatusEffects, types.StatusEffect{Type: "defending", Duration: 1})
	e.State.LastActionResult = &types.ActionResult{Type: "defend"}
}

func (e *Engine) handleBuyItem(itemName string) {
	npcName := e.State.TalkTarget
	if npcName == "" {
		return
	}

	npc := e.Pack.NPC(npcName)
	item := e.Pack.Item(itemName)
	if npc == nil || item == nil || !sells(npc, itemName) {
		return
	}

	currency := e.Pack.ResourceName()
	if currency == "" || item.Price == nil {
		return
	}
	price := *item.Price

	if e.State.Attributes[currency] < price {
		e.State.BuyInfo = &types.BuyInfo{NPC: npcName, Item: itemName, Success: false, Reason: "货币不足"}
		return
	}

	e.State.Attributes[currency] = effects.Round2(e.State.Attributes[currency] - price)
	e.State.Inventory = append(e.State.Inventory, itemName)
	e.State.BuyInfo = &types.BuyInfo{NPC: npcName, Item: itemName, Success: true, Price: price}
}

func sells(npc *types.NPCDef, itemName string) bool {
	for _, n := range npc.Sells {
		if n == itemName {
			return true
		}
	}
	return false
}
