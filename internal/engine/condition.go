package engine

import (
	"strconv"
	"strings"

	"github.com/quillform/quillform/internal/registry"
	"github.com/quillform/quillform/internal/schema"
)

// machineEpsilon is the float64 unit roundoff (2^-52).
const machineEpsilon = 2.220446049250313e-16

// DefaultEpsilon is the tolerance for numeric equality in conditions. Ten
// units of roundoff absorbs representation error from parsing and ordinary
// arithmetic without masking real differences. The value is configuration,
// not doctrine: override it with WithEpsilon.
const DefaultEpsilon = 10 * machineEpsilon

// Evaluator evaluates conditions and resolves rule effects against live
// answers. It is stateless apart from its collaborators and safe to share
// across selector calls.
//
// Evaluation is deliberately total: malformed numbers, missing targets, and
// unsupported operator/value combinations all evaluate to false. Rules are
// authored by non-technical users and must never crash the form.
type Evaluator struct {
	reg     *registry.Registry
	epsilon float64
}

// NewEvaluator returns an evaluator using the given registry and numeric
// equality tolerance. A non-positive epsilon falls back to DefaultEpsilon.
func NewEvaluator(reg *registry.Registry, epsilon float64) *Evaluator {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Evaluator{reg: reg, epsilon: epsilon}
}

// Evaluate decides a single condition against the target field's current
// definition and answer. A nil target is false.
func (ev *Evaluator) Evaluate(cond schema.Condition, target *schema.Node, answer schema.Answer) bool {
	if target == nil {
		return false
	}

	actual := ev.extractActual(target, answer)

	if cond.Accessor != "" {
		actual = applyAccessor(cond.Accessor, actual)
	}

	// Emptiness operators short-circuit before any comparison.
	switch cond.Operator {
	case schema.OpEmpty:
		return isEmptyValue(actual)
	case schema.OpNotEmpty:
		return !isEmptyValue(actual)
	}

	// Magnitude comparisons against a selection resolve the selected
	// option ID to the option's value when that value is numeric.
	if cond.Operator.Numeric() {
		if s, ok := actual.(string); ok && !isNumericString(s) {
			if opt, found := schema.ItemByID(target.Field.Options, s); found && isNumericString(opt.Value) {
				actual = opt.Value
			}
		}
	}

	if ev.numericPath(cond.Operator, target, actual) {
		return ev.evaluateNumeric(cond.Operator, actual, cond.Expected)
	}
	return evaluateString(cond.Operator, actual, cond.Expected)
}

// extractActual pulls the comparable value out of the answer according to
// the target's answer kind. Missing answers, mismatched shapes, and kinds
// with no condition semantics (media, none) extract as nil.
func (ev *Evaluator) extractActual(target *schema.Node, answer schema.Answer) any {
	if answer == nil {
		return nil
	}
	switch ev.reg.Kind(target.Field.Type) {
	case schema.KindText:
		if v, ok := answer.(schema.Text); ok {
			return string(v)
		}
	case schema.KindSelection:
		if v, ok := answer.(schema.Selection); ok {
			return string(v)
		}
	case schema.KindMultiSelection:
		if v, ok := answer.(schema.MultiSelection); ok {
			return []string(v)
		}
	case schema.KindMultiText:
		if v, ok := answer.(schema.MultiText); ok {
			// Entries in the field's declared option order, so array
			// comparisons are deterministic.
			out := make([]string, 0, len(v))
			for _, opt := range target.Field.Options {
				if text, entered := v[opt.ID]; entered {
					out = append(out, text)
				}
			}
			return out
		}
	case schema.KindMatrix:
		if v, ok := answer.(schema.Matrix); ok {
			return map[string]string(v)
		}
	case schema.KindMedia, schema.KindNone:
		return nil
	}
	return nil
}

// applyAccessor replaces the actual value with its length (strings, in
// characters), element count (arrays), or key count (records). Unsupported
// accessor names and nil values measure as 0.
func applyAccessor(accessor string, actual any) any {
	if accessor != schema.AccessorLength && accessor != schema.AccessorCount {
		return 0
	}
	switch v := actual.(type) {
	case string:
		return len([]rune(v))
	case []string:
		return len(v)
	case map[string]string:
		return len(v)
	default:
		return 0
	}
}

// isEmptyValue implements the shared emptiness rule: nil, an empty array,
// a record with zero keys, or a string that trims to nothing. The strings
// "false" and "0" are values, not absences, and are never empty.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case map[string]string:
		return len(val) == 0
	default:
		return false
	}
}

// numericPath decides whether the condition compares numbers: magnitude
// operators always do; so does a numeric actual value (accessor results),
// an expression target with a numeric display format, or a text target
// with a numeric input kind.
func (ev *Evaluator) numericPath(op schema.Operator, target *schema.Node, actual any) bool {
	if op.Numeric() {
		return true
	}
	switch actual.(type) {
	case int, float64:
		return true
	}
	switch target.Field.Type {
	case schema.TypeExpression:
		return target.Field.Format == schema.FormatNumber || target.Field.Format == schema.FormatCurrency
	case schema.TypeText:
		return target.Field.InputKind == schema.InputNumber
	}
	return false
}

// evaluateNumeric parses both sides as floats; a side that fails to parse
// makes the condition false. Equality uses the configured epsilon rather
// than exact float comparison.
func (ev *Evaluator) evaluateNumeric(op schema.Operator, actual any, expected string) bool {
	a, ok := toFloat(actual)
	if !ok {
		return false
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(expected), 64)
	if err != nil {
		return false
	}

	switch op {
	case schema.OpEquals:
		return abs(a-b) <= ev.epsilon
	case schema.OpNotEquals:
		return abs(a-b) > ev.epsilon
	case schema.OpGreaterThan:
		return a > b
	case schema.OpGreaterOrEqual:
		return a >= b
	case schema.OpLessThan:
		return a < b
	case schema.OpLessOrEqual:
		return a <= b
	default:
		return false
	}
}

// evaluateString handles the non-numeric operators. Arrays are never equal
// to a scalar; includes requires an array; contains requires text. Any
// other combination is false.
func evaluateString(op schema.Operator, actual any, expected string) bool {
	switch op {
	case schema.OpEquals:
		s, ok := actual.(string)
		return ok && s == expected
	case schema.OpNotEquals:
		s, ok := actual.(string)
		if !ok {
			// Arrays and records are never equal to a scalar.
			return true
		}
		return s != expected
	case schema.OpContains:
		s, ok := actual.(string)
		return ok && containsWords(s, expected)
	case schema.OpIncludes:
		list, ok := actual.([]string)
		if !ok {
			return false
		}
		for _, elem := range list {
			if elem == expected {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func isNumericString(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
