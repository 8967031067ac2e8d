// Package testutil provides deterministic fixtures for engine and harness
// tests.
//
// The builders construct field trees in a fraction of the lines a literal
// would take, with the same item ID scheme the engine generates at runtime
// (fieldID-option, fieldID-option-1, ...). The same builder call always
// produces an identical tree, which keeps golden snapshots stable.
package testutil

import (
	"fmt"

	"github.com/quillform/quillform/internal/schema"
)

// TextField returns a plain text input field.
func TextField(id, label string) schema.Field {
	return schema.Field{ID: id, Type: schema.TypeText, Label: label, InputKind: schema.InputText}
}

// NumberField returns a text field with a numeric input kind, so conditions
// against it compare numerically.
func NumberField(id, label string) schema.Field {
	return schema.Field{ID: id, Type: schema.TypeText, Label: label, InputKind: schema.InputNumber}
}

// RadioField returns a radio field with one option per value.
// Option IDs follow the engine's generation scheme for the field ID.
func RadioField(id, label string, values ...string) schema.Field {
	return schema.Field{ID: id, Type: schema.TypeRadio, Label: label, Options: items(id, "option", values)}
}

// CheckboxField returns a checkbox field with one option per value.
func CheckboxField(id, label string, values ...string) schema.Field {
	return schema.Field{ID: id, Type: schema.TypeCheckbox, Label: label, Options: items(id, "option", values)}
}

// MultiTextField returns a multitext field with one labeled entry per value.
func MultiTextField(id, label string, values ...string) schema.Field {
	return schema.Field{ID: id, Type: schema.TypeMultiText, Label: label, Options: items(id, "option", values)}
}

// MatrixField returns a matrix field with the given row and column values.
func MatrixField(id, label string, rows, cols []string) schema.Field {
	return schema.Field{
		ID:      id,
		Type:    schema.TypeMatrix,
		Label:   label,
		Rows:    items(id, "row", rows),
		Columns: items(id, "col", cols),
	}
}

// Section returns a container field owning the given children.
func Section(id, label string, children ...schema.Field) schema.Field {
	return schema.Field{ID: id, Type: schema.TypeSection, Label: label, Children: children}
}

// Required marks a field as statically required.
func Required(f schema.Field) schema.Field {
	f.Required = true
	return f
}

// WithRules attaches rules to a field.
func WithRules(f schema.Field, rules ...schema.Rule) schema.Field {
	f.Rules = append(f.Rules, rules...)
	return f
}

// VisibleWhen returns a single-condition visibility rule.
func VisibleWhen(targetID string, op schema.Operator, expected string) schema.Rule {
	return rule(schema.EffectVisible, targetID, op, expected)
}

// EnabledWhen returns a single-condition enablement rule.
func EnabledWhen(targetID string, op schema.Operator, expected string) schema.Rule {
	return rule(schema.EffectEnable, targetID, op, expected)
}

// RequiredWhen returns a single-condition requiredness rule.
func RequiredWhen(targetID string, op schema.Operator, expected string) schema.Rule {
	return rule(schema.EffectRequired, targetID, op, expected)
}

func rule(effect schema.Effect, targetID string, op schema.Operator, expected string) schema.Rule {
	return schema.Rule{
		Effect: effect,
		Logic:  schema.LogicAnd,
		Conditions: []schema.Condition{
			{TargetID: targetID, Operator: op, Expected: expected},
		},
	}
}

// items generates an item list with the same IDs the engine's starter
// seeding would produce: id-suffix, id-suffix-1, id-suffix-2, ...
func items(fieldID, suffix string, values []string) []schema.Item {
	out := make([]schema.Item, 0, len(values))
	for i, v := range values {
		itemID := fieldID + "-" + suffix
		if i > 0 {
			itemID = fmt.Sprintf("%s-%d", itemID, i)
		}
		out = append(out, schema.Item{ID: itemID, Value: v})
	}
	return out
}

// OptionID returns the generated ID of the nth (zero-based) option of a
// field built by these helpers.
func OptionID(fieldID string, n int) string {
	return itemID(fieldID, "option", n)
}

// RowID returns the generated ID of the nth (zero-based) matrix row.
func RowID(fieldID string, n int) string {
	return itemID(fieldID, "row", n)
}

// ColID returns the generated ID of the nth (zero-based) matrix column.
func ColID(fieldID string, n int) string {
	return itemID(fieldID, "col", n)
}

func itemID(fieldID, suffix string, n int) string {
	if n == 0 {
		return fieldID + "-" + suffix
	}
	return fmt.Sprintf("%s-%s-%d", fieldID, suffix, n)
}
