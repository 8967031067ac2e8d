package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldCloneIsDeep(t *testing.T) {
	orig := Field{
		ID:      "q",
		Type:    TypeMatrix,
		Rows:    []Item{{ID: "r", Value: "R"}},
		Columns: []Item{{ID: "c", Value: "C"}},
		Rules: []Rule{{
			Effect:     EffectVisible,
			Logic:      LogicAnd,
			Conditions: []Condition{{TargetID: "t", Operator: OpNotEmpty}},
		}},
		Children: []Field{{ID: "child", Type: TypeText}},
	}

	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone.Rows[0].Value = "mutated"
	clone.Rules[0].Conditions[0].TargetID = "mutated"
	clone.Children[0].ID = "mutated"

	assert.Equal(t, "R", orig.Rows[0].Value)
	assert.Equal(t, "t", orig.Rules[0].Conditions[0].TargetID)
	assert.Equal(t, "child", orig.Children[0].ID)
}

func TestItemByID(t *testing.T) {
	items := []Item{{ID: "a", Value: "A"}, {ID: "b", Value: "B"}}

	it, ok := ItemByID(items, "b")
	assert.True(t, ok)
	assert.Equal(t, "B", it.Value)

	_, ok = ItemByID(items, "ghost")
	assert.False(t, ok)

	_, ok = ItemByID(nil, "a")
	assert.False(t, ok)
}

func TestOperatorNumeric(t *testing.T) {
	numeric := []Operator{OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual}
	for _, op := range numeric {
		assert.True(t, op.Numeric(), "%s", op)
	}
	for op := range ValidOperators {
		switch op {
		case OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual:
		default:
			assert.False(t, op.Numeric(), "%s", op)
		}
	}
}

func TestFieldJSONNames(t *testing.T) {
	f := Field{
		ID:        "q1",
		Type:      TypeText,
		InputKind: InputNumber,
		Rules: []Rule{{
			Effect:     EffectRequired,
			Conditions: []Condition{{TargetID: "other", Operator: OpEquals, Expected: "x"}},
		}},
	}

	data, err := json.Marshal(f)
	require.NoError(t, err)

	// The wire names are part of the persisted definition format.
	assert.Contains(t, string(data), `"fieldType":"text"`)
	assert.Contains(t, string(data), `"inputKind":"number"`)
	assert.Contains(t, string(data), `"targetId":"other"`)

	var got Field
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, f, got)
}
