// Package state manages GameState lifecycle: construction from pack
// defaults, deep cloning for the no-partial-commit guarantee, cooldown
// ticking, transient-flag cleanup, and the bounded history ring.
package state

import (
	"strings"

	"github.com/nathoo/wordsoul/types"
)

// HistoryLimit bounds recent_history; CompletedLimit bounds the
// completed-quest log.
const (
	HistoryLimit   = 10
	CompletedLimit = 10
)

var htmlEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// New creates a fresh game state from the pack's dimension defaults.
func New(pack *types.SettingPack, startLocation string) *types.GameState {
	attrs := make(map[string]float64, len(pack.Dimensions))
	for _, d := range pack.Dimensions {
		attrs[d.Name] = d.InitialValue
	}
	return &types.GameState{
		Attributes:      attrs,
		Inventory:       []string{},
		CurrentLocation: startLocation,
		ActiveQuests:    map[string]string{},
		Cooldowns:       map[string]int{},
		RecentHistory:   []types.HistoryEntry{},
	}
}

// Clone returns a deep copy of the state. The orchestrator snapshots
// before a turn so a failed final gate can discard every mutation.
func Clone(s *types.GameState) *types.GameState {
	c := *s

	c.Attributes = cloneFloatMap(s.Attributes)
	c.Inventory = append([]string(nil), s.Inventory...)
	c.ActiveQuests = cloneStringMap(s.ActiveQuests)
	c.CompletedQuests = append([]types.CompletedQuest(nil), s.CompletedQuests...)
	c.Cooldowns = cloneIntMap(s.Cooldowns)
	c.StatusEffects = append([]types.StatusEffect(nil), s.StatusEffects...)
	c.RecentHistory = append([]types.HistoryEntry(nil), s.RecentHistory...)
	c.NPCActionResults = append([]types.NPCActionResult(nil), s.NPCActionResults...)

	if s.Combatants != nil {
		c.Combatants = make([]types.Combatant, len(s.Combatants))
		for i, cb := range s.Combatants {
			c.Combatants[i] = types.Combatant{Name: cb.Name, Attributes: cloneFloatMap(cb.Attributes)}
		}
	}
	if s.LastAIResponse != nil {
		r := *s.LastAIResponse
		r.Suggestions = append([]types.Suggestion(nil), s.LastAIResponse.Suggestions...)
		if s.LastAIResponse.NewQuest != nil {
			q := *s.LastAIResponse.NewQuest
			r.NewQuest = &q
		}
		c.LastAIResponse = &r
	}
	if s.GiveInfo != nil {
		g := *s.GiveInfo
		c.GiveInfo = &g
	}
	if s.BuyInfo != nil {
		b := *s.BuyInfo
		c.BuyInfo = &b
	}
	if s.LastActionResult != nil {
		a := *s.LastActionResult
		c.LastActionResult = &a
	}
	return &c
}

// TickCooldowns decrements every cooldown by one turn and drops entries
// that reach zero. Counters never go negative.
func TickCooldowns(s *types.GameState) {
	if len(s.Cooldowns) == 0 {
		return
	}
	next := make(map[string]int, len(s.Cooldowns))
	for skill, remaining := range s.Cooldowns {
		if remaining > 1 {
			next[skill] = remaining - 1
		}
	}
	s.Cooldowns = next
}

// ClearTransient drops the per-turn scratch fields left by the previous
// turn.
func ClearTransient(s *types.GameState) {
	s.FocusTarget = ""
	s.TalkTarget = ""
	s.GiveInfo = nil
	s.BuyInfo = nil
	s.LastActionResult = nil
	s.NPCActionResults = nil
}

// PushHistory records one exchange at the front of the bounded history,
// newest first: the assistant's narrative, then the player's action.
// Both are HTML-escaped.
func PushHistory(s *types.GameState, playerText, assistantText string) {
	entries := []types.HistoryEntry{
		{Role: "assistant", Content: Sanitize(assistantText)},
		{Role: "player", Content: Sanitize(playerText)},
	}
	s.RecentHistory = append(entries, s.RecentHistory...)
	if len(s.RecentHistory) > HistoryLimit {
		s.RecentHistory = s.RecentHistory[:HistoryLimit]
	}
}

// Sanitize escapes angle brackets to block basic HTML injection in
// history content.
func Sanitize(text string) string {
	return htmlEscaper.Replace(text)
}

// HasItem reports whether the inventory holds at least one instance.
func HasItem(s *types.GameState, name string) bool {
	for _, item := range s.Inventory {
		if item == name {
			return true
		}
	}
	return false
}

// RemoveItem removes exactly one instance of name from the inventory.
// Returns false when the item is not held.
func RemoveItem(s *types.GameState, name string) bool {
	for i, item := range s.Inventory {
		if item == name {
			s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// IsDefending reports whether a defending status effect is active.
func IsDefending(s *types.GameState) bool {
	for _, e := range s.StatusEffects {
		if e.Type == "defending" {
			return true
		}
	}
	return false
}

// RecordCompleted appends to the bounded completed-quest log, evicting
// the oldest entries beyond the limit.
func RecordCompleted(s *types.GameState, q types.CompletedQuest) {
	s.CompletedQuests = append(s.CompletedQuests, q)
	if n := len(s.CompletedQuests); n > CompletedLimit {
		s.CompletedQuests = s.CompletedQuests[n-CompletedLimit:]
	}
}

func cloneFloatMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	c := make(map[string]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	c := make(map[string]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
