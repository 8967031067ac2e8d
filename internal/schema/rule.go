package schema

// Effect names what a rule controls when it passes.
type Effect string

const (
	EffectVisible  Effect = "visible"
	EffectEnable   Effect = "enable"
	EffectRequired Effect = "required"
)

// ValidEffects defines the allowed rule effects.
var ValidEffects = map[Effect]bool{
	EffectVisible:  true,
	EffectEnable:   true,
	EffectRequired: true,
}

// Logic is the combination mode for a rule's conditions.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// Operator compares a target field's current answer against an expected
// string. Unsupported operator/value combinations evaluate to false, never
// to an error: rules are authored by non-technical users and must be total.
type Operator string

const (
	OpEquals         Operator = "equals"
	OpNotEquals      Operator = "notEquals"
	OpContains       Operator = "contains"
	OpIncludes       Operator = "includes"
	OpEmpty          Operator = "empty"
	OpNotEmpty       Operator = "notEmpty"
	OpGreaterThan    Operator = "greaterThan"
	OpGreaterOrEqual Operator = "greaterOrEqual"
	OpLessThan       Operator = "lessThan"
	OpLessOrEqual    Operator = "lessOrEqual"
)

// ValidOperators defines the allowed condition operators.
var ValidOperators = map[Operator]bool{
	OpEquals:         true,
	OpNotEquals:      true,
	OpContains:       true,
	OpIncludes:       true,
	OpEmpty:          true,
	OpNotEmpty:       true,
	OpGreaterThan:    true,
	OpGreaterOrEqual: true,
	OpLessThan:       true,
	OpLessOrEqual:    true,
}

// Numeric reports whether the operator is a magnitude comparison. Magnitude
// comparisons always force the numeric evaluation path.
func (op Operator) Numeric() bool {
	switch op {
	case OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual:
		return true
	}
	return false
}

// Property accessors usable on a condition's actual value.
const (
	AccessorLength = "length"
	AccessorCount  = "count"
)

// Condition compares one other field's current answer against Expected.
type Condition struct {
	// TargetID names the field whose answer is inspected. A target absent
	// from the index makes the condition false.
	TargetID string `json:"targetId"`

	Operator Operator `json:"operator"`
	Expected string   `json:"expected,omitempty"`

	// Accessor optionally replaces the actual value with its length
	// (strings), element count (arrays), or key count (records) before
	// comparison. Unknown accessor names measure as 0.
	Accessor string `json:"accessor,omitempty"`
}

// Rule bundles conditions with a combination mode and a target effect.
//
// A rule passes when, under its Logic, all (and) or at least one (or) of
// its conditions hold. An empty condition list passes vacuously. Across
// multiple rules of the same effect, any passing rule wins.
type Rule struct {
	Effect     Effect      `json:"effect"`
	Logic      Logic       `json:"logic"`
	Conditions []Condition `json:"conditions"`
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	out := r
	if r.Conditions != nil {
		out.Conditions = make([]Condition, len(r.Conditions))
		copy(out.Conditions, r.Conditions)
	}
	return out
}
