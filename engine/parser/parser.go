// Package parser matches player free text against the known command
// shapes. Intentionally dumb: no NLP, just an ordered list of patterns
// evaluated first-match-wins. Order matters: "使用 X" would otherwise
// swallow "对 Y 使用 X".
package parser

import (
	"regexp"
	"strings"
)

// Kind identifies which command shape matched.
type Kind int

const (
	KindNone Kind = iota
	KindUseSkill
	KindUseItem
	KindObserve
	KindTalk
	KindAttack
	KindDefend
	KindGiveItem
	KindBuyItem
	KindSellItem
)

// Command is the parsed representation of a player action.
// Object is the item/skill/thing acted with; Target is who or what it is
// directed at (skill target, talk partner, give recipient).
type Command struct {
	Kind   Kind
	Object string
	Target string
}

// shape pairs a pattern with a constructor for its Command. The slice
// order is the matching priority.
type shape struct {
	re    *regexp.Regexp
	build func(m []string) Command
}

var shapes = []shape{
	{
		// 对 <target> 使用 <skill>
		re: regexp.MustCompile(`^对\s+(.+?)\s+使用\s+(.+)`),
		build: func(m []string) Command {
			return Command{Kind: KindUseSkill, Target: strings.TrimSpace(m[1]), Object: strings.TrimSpace(m[2])}
		},
	},
	{
		// 使用 <item> (stops before a 对 so the skill form can't be re-matched)
		re: regexp.MustCompile(`^使用\s+([^对]+)`),
		build: func(m []string) Command {
			return Command{Kind: KindUseItem, Object: strings.TrimSpace(m[1])}
		},
	},
	{
		// 调查/观察/查看/检查 <thing>
		re: regexp.MustCompile(`^(调查|观察|查看|检查)\s+(.+)`),
		build: func(m []string) Command {
			return Command{Kind: KindObserve, Object: strings.TrimSpace(m[2])}
		},
	},
	{
		// 与/和 <npc> 交谈
		re: regexp.MustCompile(`^(与|和)\s+(.+?)\s+交谈`),
		build: func(m []string) Command {
			return Command{Kind: KindTalk, Target: strings.TrimSpace(m[2])}
		},
	},
	{
		// 攻击 <target>
		re: regexp.MustCompile(`^攻击\s+(.+)`),
		build: func(m []string) Command {
			return Command{Kind: KindAttack, Target: strings.TrimSpace(m[1])}
		},
	},
	{
		// 防御/格挡
		re: regexp.MustCompile(`^(防御|格挡)`),
		build: func(m []string) Command {
			return Command{Kind: KindDefend}
		},
	},
	{
		// 给予/给 <npc> <item>
		re: regexp.MustCompile(`^(给予|给)\s+(.+?)\s+(.+)`),
		build: func(m []string) Command {
			return Command{Kind: KindGiveItem, Target: strings.TrimSpace(m[2]), Object: strings.TrimSpace(m[3])}
		},
	},
	{
		// 购买 <item>
		re: regexp.MustCompile(`^购买\s+(.+)`),
		build: func(m []string) Command {
			return Command{Kind: KindBuyItem, Object: strings.TrimSpace(m[1])}
		},
	},
	{
		// 售卖 <item>
		re: regexp.MustCompile(`^售卖\s+(.+)`),
		build: func(m []string) Command {
			return Command{Kind: KindSellItem, Object: strings.TrimSpace(m[1])}
		},
	},
}

// Parse converts raw player text into a Command. A Kind of KindNone means
// no shape matched and the narrative layer must carry full interpretive
// weight.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{}
	}
	for _, sh := range shapes {
		if m := sh.re.FindStringSubmatch(input); m != nil {
			return sh.build(m)
		}
	}
	return Command{}
}
