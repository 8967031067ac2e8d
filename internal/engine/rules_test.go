package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillform/quillform/internal/schema"
	"github.com/quillform/quillform/internal/testutil"
)

func TestResolveEffectDefaults(t *testing.T) {
	ev := newTestEvaluator()
	idx := Normalize([]schema.Field{
		testutil.TextField("plain", "Plain"),
		testutil.Required(testutil.TextField("must", "Must")),
	})

	// No rules: visible and enable default true, required to the flag.
	assert.True(t, ev.ResolveEffect(schema.EffectVisible, idx.Node("plain"), idx, nil))
	assert.True(t, ev.ResolveEffect(schema.EffectEnable, idx.Node("plain"), idx, nil))
	assert.False(t, ev.ResolveEffect(schema.EffectRequired, idx.Node("plain"), idx, nil))
	assert.True(t, ev.ResolveEffect(schema.EffectRequired, idx.Node("must"), idx, nil))

	assert.False(t, ev.ResolveEffect(schema.EffectVisible, nil, idx, nil))
}

func TestResolveEffectRulesOverrideStatic(t *testing.T) {
	ev := newTestEvaluator()
	// Statically required, but a required rule exists and fails: the rule
	// set wins over the flag.
	idx := Normalize([]schema.Field{
		testutil.TextField("trigger", "Trigger"),
		testutil.Required(testutil.WithRules(testutil.TextField("f", "F"),
			testutil.RequiredWhen("trigger", schema.OpNotEmpty, ""))),
	})

	assert.False(t, ev.ResolveEffect(schema.EffectRequired, idx.Node("f"), idx, nil))

	answers := schema.AnswerSet{"trigger": schema.Text("x")}
	assert.True(t, ev.ResolveEffect(schema.EffectRequired, idx.Node("f"), idx, answers))
}

func TestResolveEffectAnyRuleWins(t *testing.T) {
	ev := newTestEvaluator()
	idx := Normalize([]schema.Field{
		testutil.TextField("a", "A"),
		testutil.TextField("b", "B"),
		testutil.WithRules(testutil.TextField("f", "F"),
			testutil.VisibleWhen("a", schema.OpNotEmpty, ""),
			testutil.VisibleWhen("b", schema.OpNotEmpty, "")),
	})

	assert.False(t, ev.ResolveEffect(schema.EffectVisible, idx.Node("f"), idx, nil))

	// Either rule passing is enough.
	assert.True(t, ev.ResolveEffect(schema.EffectVisible, idx.Node("f"), idx,
		schema.AnswerSet{"b": schema.Text("x")}))
	assert.True(t, ev.ResolveEffect(schema.EffectVisible, idx.Node("f"), idx,
		schema.AnswerSet{"a": schema.Text("x")}))
}

func TestResolveEffectIgnoresOtherEffects(t *testing.T) {
	ev := newTestEvaluator()
	// Only an enable rule exists: visibility keeps its default.
	idx := Normalize([]schema.Field{
		testutil.TextField("a", "A"),
		testutil.WithRules(testutil.TextField("f", "F"),
			testutil.EnabledWhen("a", schema.OpNotEmpty, "")),
	})

	assert.True(t, ev.ResolveEffect(schema.EffectVisible, idx.Node("f"), idx, nil))
	assert.False(t, ev.ResolveEffect(schema.EffectEnable, idx.Node("f"), idx, nil))
}

func TestRuleHoldsLogic(t *testing.T) {
	ev := newTestEvaluator()
	idx := Normalize([]schema.Field{
		testutil.TextField("a", "A"),
		testutil.TextField("b", "B"),
	})

	conds := []schema.Condition{
		{TargetID: "a", Operator: schema.OpNotEmpty},
		{TargetID: "b", Operator: schema.OpNotEmpty},
	}
	onlyA := schema.AnswerSet{"a": schema.Text("x")}
	both := schema.AnswerSet{"a": schema.Text("x"), "b": schema.Text("y")}

	tests := []struct {
		name    string
		rule    schema.Rule
		answers schema.AnswerSet
		want    bool
	}{
		{"and needs all", schema.Rule{Logic: schema.LogicAnd, Conditions: conds}, onlyA, false},
		{"and with all", schema.Rule{Logic: schema.LogicAnd, Conditions: conds}, both, true},
		{"or needs one", schema.Rule{Logic: schema.LogicOr, Conditions: conds}, onlyA, true},
		{"or with none", schema.Rule{Logic: schema.LogicOr, Conditions: conds}, nil, false},
		{"unspecified logic is and", schema.Rule{Conditions: conds}, onlyA, false},
		{"empty conditions hold vacuously", schema.Rule{Logic: schema.LogicAnd}, nil, true},
		{"empty or conditions hold vacuously", schema.Rule{Logic: schema.LogicOr}, nil, true},
		{
			"missing target is false",
			schema.Rule{Logic: schema.LogicAnd, Conditions: []schema.Condition{
				{TargetID: "ghost", Operator: schema.OpEmpty},
			}},
			nil,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ev.ruleHolds(tt.rule, idx, tt.answers))
		})
	}
}
