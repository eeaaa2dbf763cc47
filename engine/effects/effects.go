// Package effects implements the effect/cost expression grammar and its
// application to player attributes. Every expression is one atomic
// mutation of a single attribute; all state changes flow through Apply.
package effects

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nathoo/wordsoul/types"
)

// Expression grammars. An effect is "<attribute> <op> <number>" with
// op in +-*/; a cost is the minus-only subset.
var (
	effectRe = regexp.MustCompile(`^\s*(.+?)\s*([+\-*/])\s*(\d+(\.\d+)?)\s*$`)
	costRe   = regexp.MustCompile(`^\s*(.+?)\s*(-)\s*(\d+(\.\d+)?)\s*$`)
)

// Expr is a parsed effect or cost expression.
type Expr struct {
	Attribute string
	Op        string
	Value     float64
}

// Parse parses an effect expression. The second return is false when the
// string does not match the grammar.
func Parse(s string) (Expr, bool) {
	m := effectRe.FindStringSubmatch(s)
	if m == nil {
		return Expr{}, false
	}
	v, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return Expr{}, false
	}
	return Expr{Attribute: strings.TrimSpace(m[1]), Op: m[2], Value: v}, true
}

// ParseCost parses a cost expression ("<attribute> - <number>").
func ParseCost(s string) (Expr, bool) {
	m := costRe.FindStringSubmatch(s)
	if m == nil {
		return Expr{}, false
	}
	v, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return Expr{}, false
	}
	return Expr{Attribute: strings.TrimSpace(m[1]), Op: m[2], Value: v}, true
}

// Apply parses and applies one effect expression to the state's attributes.
// Unknown attributes and division by zero are no-ops; float results are
// rounded to 2 decimals.
func Apply(s *types.GameState, effect string) {
	expr, ok := Parse(effect)
	if !ok {
		return
	}
	ApplyExpr(s, expr)
}

// ApplyAll applies a list of effect expressions in order.
func ApplyAll(s *types.GameState, effects []string) {
	for _, e := range effects {
		Apply(s, e)
	}
}

// ApplyExpr applies an already-parsed expression.
func ApplyExpr(s *types.GameState, expr Expr) {
	cur, ok := s.Attributes[expr.Attribute]
	if !ok {
		return
	}
	switch expr.Op {
	case "+":
		cur += expr.Value
	case "-":
		cur -= expr.Value
	case "*":
		cur *= expr.Value
	case "/":
		if expr.Value == 0 {
			return
		}
		cur /= expr.Value
	default:
		return
	}
	s.Attributes[expr.Attribute] = Round2(cur)
}

// Affordable reports whether the state can pay the given cost expression.
// Unparseable costs and costs on unknown attributes are trivially
// affordable (the apply step will no-op on them anyway).
func Affordable(s *types.GameState, cost string) bool {
	expr, ok := ParseCost(cost)
	if !ok {
		return true
	}
	cur, ok := s.Attributes[expr.Attribute]
	if !ok {
		return true
	}
	return cur >= expr.Value
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
