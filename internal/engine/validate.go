package engine

import (
	"strings"

	"github.com/quillform/quillform/internal/schema"
)

// ValidateField checks one field for required-answer violations. Unknown
// IDs, non-input types (containers and display blocks), and fields that
// are currently not visible produce no errors. A visible field that
// resolves required with an empty answer emits exactly one required error.
//
// Validation accumulates data instead of failing: the caller gets every
// problem at once.
func (ev *Evaluator) ValidateField(id string, idx *schema.Index, answers schema.AnswerSet) []schema.ValidationError {
	node := idx.Node(id)
	if node == nil {
		return nil
	}
	meta, known := ev.reg.Meta(node.Field.Type)
	if !known || meta.Kind == schema.KindNone {
		return nil
	}
	if !ev.ResolveEffect(schema.EffectVisible, node, idx, answers) {
		return nil
	}
	if !ev.ResolveEffect(schema.EffectRequired, node, idx, answers) {
		return nil
	}
	if !answerEmpty(meta.Kind, answers[id]) {
		return nil
	}
	return []schema.ValidationError{{
		FieldID:  id,
		RuleKind: schema.RuleRequired,
		Message:  "answer is required",
	}}
}

// ValidateForm validates every field in the index, in document order, and
// concatenates the results.
func (ev *Evaluator) ValidateForm(idx *schema.Index, answers schema.AnswerSet) []schema.ValidationError {
	var errs []schema.ValidationError
	idx.Walk(func(n *schema.Node) {
		errs = append(errs, ev.ValidateField(n.Field.ID, idx, answers)...)
	})
	return errs
}

// answerEmpty applies the emptiness rule across every sub-field of the
// answer shape. The strings "false" and "0" are answers, never emptiness;
// whitespace-only text is empty; so are empty arrays and zero-key records.
func answerEmpty(kind schema.AnswerKind, a schema.Answer) bool {
	if a == nil {
		return true
	}
	switch kind {
	case schema.KindText:
		v, ok := a.(schema.Text)
		return !ok || strings.TrimSpace(string(v)) == ""
	case schema.KindSelection:
		v, ok := a.(schema.Selection)
		return !ok || strings.TrimSpace(string(v)) == ""
	case schema.KindMultiSelection:
		v, ok := a.(schema.MultiSelection)
		return !ok || len(v) == 0
	case schema.KindMultiText:
		v, ok := a.(schema.MultiText)
		if !ok || len(v) == 0 {
			return true
		}
		for _, text := range v {
			if strings.TrimSpace(text) != "" {
				return false
			}
		}
		return true
	case schema.KindMatrix:
		v, ok := a.(schema.Matrix)
		if !ok || len(v) == 0 {
			return true
		}
		for _, col := range v {
			if strings.TrimSpace(col) != "" {
				return false
			}
		}
		return true
	case schema.KindMedia:
		v, ok := a.(schema.Media)
		return !ok || (strings.TrimSpace(v.DataURI) == "" && len(v.Strokes) == 0)
	default:
		// KindNone and unknown kinds hold no answer.
		return true
	}
}
