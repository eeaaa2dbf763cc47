// Package types defines the shared data structures for the Word Soul engine.
// This package contains only type definitions and trivial accessors; no
// game logic.
package types

// Dimension kinds used as keys of SettingPack.Dimensions. The first three
// are required in every pack; 防御 and 辅助 are optional.
const (
	DimSurvival = "生存"
	DimOutput   = "输出"
	DimResource = "资源"
	DimDefense  = "防御"
	DimSupport  = "辅助"
)

// Item type marking a consumable: used once, then removed from inventory.
const ItemTypeConsumable = "恢复类"

// Dimension maps a dimension kind to a display name and starting value.
// The name is the attribute key used everywhere else (effects, costs,
// NPC attribute maps, GameState.Attributes).
type Dimension struct {
	Name         string  `json:"name"`
	InitialValue float64 `json:"initial_value"`
}

// ItemDef is a single item definition in a setting pack. JSON tags use the
// pack's native (Chinese) vocabulary so packs produced for the original
// system decode unchanged.
type ItemDef struct {
	Name        string   `json:"名称"`
	Type        string   `json:"类型"`
	Effects     []string `json:"效果"`
	Acquisition string   `json:"获取"`
	Price       *float64 `json:"价格,omitempty"`
}

// SkillDef is a single skill definition. Cost drains the resource
// dimension; Cooldown is in turns (0 = none).
type SkillDef struct {
	Name     string   `json:"名称"`
	Type     string   `json:"类型"`
	Cost     string   `json:"消耗"`
	Effects  []string `json:"效果"`
	Cooldown int      `json:"冷却时间,omitempty"`
}

// NPCDef is a single NPC definition.
type NPCDef struct {
	Name           string             `json:"名称"`
	Description    string             `json:"描述"`
	Location       string             `json:"位置"`
	DialogueSample string             `json:"对话示例,omitempty"`
	Attributes     map[string]float64 `json:"attributes"`
	IsHostile      bool               `json:"is_hostile"`
	Sells          []string           `json:"售卖物品,omitempty"`
}

// TaskDef is a single task (quest) definition.
type TaskDef struct {
	Name      string `json:"名称"`
	Status    string `json:"状态"`
	Objective string `json:"目标"`
	Reward    string `json:"奖励"`
}

// ForbiddenWordRule flags a word that must not appear in narrative text.
type ForbiddenWordRule struct {
	Word    string `json:"word"`
	Message string `json:"message,omitempty"`
}

// LocationRule constrains which locations the narrative may mention.
type LocationRule struct {
	RequiredLocation  string `json:"required_location,omitempty"`
	ForbiddenLocation string `json:"forbidden_location,omitempty"`
	Message           string `json:"message,omitempty"`
}

// NarrativeRules is the pack's optional narrative-consistency rule set,
// consumed by the corrector.
type NarrativeRules struct {
	ForbiddenWords []ForbiddenWordRule `json:"forbidden_words,omitempty"`
	LocationRules  []LocationRule      `json:"location_rules,omitempty"`
}

// SettingPack is the structured rule/content document for one world.
// Created once at world generation, then extended by dynamic promotion
// during play.
type SettingPack struct {
	Dimensions     map[string]Dimension `json:"attribute_dimensions"`
	Items          []ItemDef            `json:"items"`
	Skills         []SkillDef           `json:"skills"`
	NPCs           []NPCDef             `json:"npcs"`
	Tasks          []TaskDef            `json:"tasks"`
	NarrativeRules *NarrativeRules      `json:"narrative_rules,omitempty"`
	Principles     string               `json:"ai_narrative_principles,omitempty"`
}

// Item returns the item definition with the given name, or nil.
func (p *SettingPack) Item(name string) *ItemDef {
	for i := range p.Items {
		if p.Items[i].Name == name {
			return &p.Items[i]
		}
	}
	return nil
}

// Skill returns the skill definition with the given name, or nil.
func (p *SettingPack) Skill(name string) *SkillDef {
	for i := range p.Skills {
		if p.Skills[i].Name == name {
			return &p.Skills[i]
		}
	}
	return nil
}

// NPC returns the NPC definition with the given name, or nil.
func (p *SettingPack) NPC(name string) *NPCDef {
	for i := range p.NPCs {
		if p.NPCs[i].Name == name {
			return &p.NPCs[i]
		}
	}
	return nil
}

// Task returns the task definition with the given name, or nil.
func (p *SettingPack) Task(name string) *TaskDef {
	for i := range p.Tasks {
		if p.Tasks[i].Name == name {
			return &p.Tasks[i]
		}
	}
	return nil
}

// DimensionNames returns the display names of all defined dimensions,
// known kinds first in a fixed order.
func (p *SettingPack) DimensionNames() []string {
	names := make([]string, 0, len(p.Dimensions))
	for _, kind := range []string{DimSurvival, DimOutput, DimResource, DimDefense, DimSupport} {
		if d, ok := p.Dimensions[kind]; ok {
			names = append(names, d.Name)
		}
	}
	for kind, d := range p.Dimensions {
		switch kind {
		case DimSurvival, DimOutput, DimResource, DimDefense, DimSupport:
		default:
			names = append(names, d.Name)
		}
	}
	return names
}

// ResourceName returns the display name of the resource dimension
// (the currency/cost attribute), or "" when undefined.
func (p *SettingPack) ResourceName() string {
	if d, ok := p.Dimensions[DimResource]; ok {
		return d.Name
	}
	return ""
}

// SurvivalName returns the display name of the survival dimension
// (the health attribute), or "" when undefined.
func (p *SettingPack) SurvivalName() string {
	if d, ok := p.Dimensions[DimSurvival]; ok {
		return d.Name
	}
	return ""
}

// HistoryEntry is one bounded-history record. Role is "player" or
// "assistant"; content is HTML-escaped before storage.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Combatant is a per-combat snapshot of a hostile NPC. Attributes are
// copied from the pack so combat damage never mutates shared world data.
type Combatant struct {
	Name       string             `json:"name"`
	Attributes map[string]float64 `json:"attributes"`
}

// StatusEffect is a timed player condition ("defending", …).
type StatusEffect struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}

// CompletedQuest records a quest moved off the active list.
type CompletedQuest struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	CompletedAt string `json:"completed_at"`
	IsSuccess   bool   `json:"is_success"`
}

// ActionResult is the structured outcome of the last mechanical action.
// Mechanics failures are reported here, never as errors.
type ActionResult struct {
	Type        string  `json:"type"`
	Target      string  `json:"target,omitempty"`
	Damage      float64 `json:"damage,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	VictoryInfo string  `json:"victory_info,omitempty"`
	DefeatInfo  string  `json:"defeat_info,omitempty"`
}

// NPCActionResult is one combatant's action during the combat sub-turn.
type NPCActionResult struct {
	NPC    string  `json:"npc"`
	Action string  `json:"action"`
	Damage float64 `json:"damage"`
}

// GiveInfo records a completed give-item action for the narrative layer.
type GiveInfo struct {
	NPC  string `json:"npc"`
	Item string `json:"item"`
}

// BuyInfo records a buy attempt for the narrative layer.
type BuyInfo struct {
	NPC     string  `json:"npc"`
	Item    string  `json:"item"`
	Success bool    `json:"success"`
	Price   float64 `json:"price,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// Suggestion is one suggested follow-up action from the model, optionally
// enriched with mechanical previews (cost/effect/price text).
type Suggestion struct {
	ActionCommand string   `json:"action_command"`
	Details       []string `json:"details,omitempty"`
}

// StructuredResponse is the merged, validated output of the narrative
// collaborator's three stages.
type StructuredResponse struct {
	Description   string       `json:"description"`
	PlayerMessage string       `json:"player_message,omitempty"`
	AddItem       string       `json:"add_item_to_inventory,omitempty"`
	RemoveItem    string       `json:"remove_item_from_inventory,omitempty"`
	QuestUpdate   string       `json:"update_quest_status,omitempty"`
	Location      string       `json:"update_location,omitempty"`
	NewQuest      *TaskDef     `json:"create_new_quest,omitempty"`
	Suggestions   []Suggestion `json:"suggested_choices,omitempty"`
}

// GameState is the complete mutable per-session state. Fields after the
// transient marker are per-turn scratch, cleared at the start of each turn.
type GameState struct {
	Attributes      map[string]float64  `json:"attributes"`
	Inventory       []string            `json:"inventory"`
	CurrentLocation string              `json:"current_location"`
	ActiveQuests    map[string]string   `json:"active_quests"`
	CompletedQuests []CompletedQuest    `json:"completed_quests,omitempty"`
	Cooldowns       map[string]int      `json:"cooldowns,omitempty"`
	InCombat        bool                `json:"in_combat,omitempty"`
	Combatants      []Combatant         `json:"combatants,omitempty"`
	StatusEffects   []StatusEffect      `json:"player_status_effects,omitempty"`
	RecentHistory   []HistoryEntry      `json:"recent_history"`
	LastAIResponse  *StructuredResponse `json:"last_ai_response,omitempty"`

	// Transient per-turn scratch.
	FocusTarget      string            `json:"focus_target,omitempty"`
	TalkTarget       string            `json:"talk_target,omitempty"`
	GiveInfo         *GiveInfo         `json:"give_info,omitempty"`
	BuyInfo          *BuyInfo          `json:"buy_info,omitempty"`
	LastActionResult *ActionResult     `json:"last_action_result,omitempty"`
	NPCActionResults []NPCActionResult `json:"npc_action_results,omitempty"`
}

// AIConfig selects and authenticates a narrative backend. A nil config
// means "use the process-wide default".
type AIConfig struct {
	Name     string `json:"config_name,omitempty"`
	Provider string `json:"api_type"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
	Model    string `json:"model_name,omitempty"`
}

// TurnResult is the payload returned to the caller after a successful turn.
type TurnResult struct {
	StructuredResponse
	CurrentState *GameState `json:"current_state"`
}

// GenerationRequest is the narrative collaborator's input for one turn.
type GenerationRequest struct {
	Pack         *SettingPack
	State        *GameState
	PlayerAction string
	// Unparsed is set when the mechanics layer could not match the
	// action text; the narrative must carry full interpretive weight.
	Unparsed bool
	// Avoid carries the corrector's findings as negative context on a
	// regeneration attempt.
	Avoid []string
	// Config is the per-session backend override; nil selects the
	// process-wide default.
	Config *AIConfig
}
