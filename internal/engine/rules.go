package engine

import "github.com/quillform/quillform/internal/schema"

// ResolveEffect combines a field's rules for one effect into a boolean.
//
// With no rules of the effect, the static defaults apply: visible and
// enable default to true, required to the field's static Required flag.
// With one or more rules, any passing rule wins (OR across rules); a field
// whose rules all fail resolves false even if its static default would say
// otherwise.
func (ev *Evaluator) ResolveEffect(effect schema.Effect, node *schema.Node, idx *schema.Index, answers schema.AnswerSet) bool {
	if node == nil {
		return false
	}

	matched := false
	for _, rule := range node.Field.Rules {
		if rule.Effect != effect {
			continue
		}
		matched = true
		if ev.ruleHolds(rule, idx, answers) {
			return true
		}
	}
	if matched {
		return false
	}

	if effect == schema.EffectRequired {
		return node.Field.Required
	}
	return true
}

// ruleHolds evaluates one rule under its combination mode: AND requires
// every condition, OR at least one. An empty condition list holds
// vacuously. A condition whose target is absent from the index is false.
func (ev *Evaluator) ruleHolds(rule schema.Rule, idx *schema.Index, answers schema.AnswerSet) bool {
	if len(rule.Conditions) == 0 {
		return true
	}
	for _, cond := range rule.Conditions {
		target := idx.Node(cond.TargetID)
		ok := target != nil && ev.Evaluate(cond, target, answers[cond.TargetID])
		if rule.Logic == schema.LogicOr {
			if ok {
				return true
			}
		} else if !ok {
			// Unspecified logic combines as AND.
			return false
		}
	}
	return rule.Logic != schema.LogicOr
}
