package engine

import (
	"fmt"

	"github.com/nathoo/wordsoul/engine/parser"
	"github.com/nathoo/wordsoul/types"
)

// enrichSuggestions appends resolved cost/effect/price text to each
// suggested command so the client can preview mechanics without a
// second round trip. The pack may have been extended this turn, so the
// lookups run against the live pack.
func (e *Engine) enrichSuggestions(suggestions []types.Suggestion) {
	for i := range suggestions {
		cmd := parser.Parse(suggestions[i].ActionCommand)
		var details []string

		switch cmd.Kind {
		case parser.KindUseItem:
			if item := e.Pack.Item(cmd.Object); item != nil {
				details = append(details, item.Effects...)
			}
		case parser.KindUseSkill:
			if skill := e.Pack.Skill(cmd.Object); skill != nil {
				if skill.Cost != "" {
					details = append(details, skill.Cost)
				}
				details = append(details, skill.Effects...)
			}
		case parser.KindBuyItem:
			if item := e.Pack.Item(cmd.Object); item != nil && item.Price != nil {
				details = append(details, fmt.Sprintf("价格: %g", *item.Price))
			}
		}

		if len(details) > 0 {
			suggestions[i].Details = details
		}
	}
}
