package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quillform/quillform/internal/schema"
)

// Scenario defines a conformance test scenario.
// A scenario loads a form tree into a fresh store, executes a sequence of
// answer and structural-edit steps, and asserts on the resulting derived
// state (visibility, validation errors, export output).
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name for snapshot comparison.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Form is the nested field tree loaded before any steps run.
	Form []FieldSpec `yaml:"form"`

	// Steps are applied in order against the store.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions validate the final derived state.
	Assertions []Assertion `yaml:"assertions"`
}

// FieldSpec is the YAML shape of one authored field. It mirrors
// schema.Field but keeps the scenario format independent of the model's
// JSON encoding.
type FieldSpec struct {
	ID        string          `yaml:"id"`
	Type      string          `yaml:"type"`
	Label     string          `yaml:"label,omitempty"`
	Required  bool            `yaml:"required,omitempty"`
	InputKind string          `yaml:"inputKind,omitempty"`
	Options   []ItemSpec      `yaml:"options,omitempty"`
	Rows      []ItemSpec      `yaml:"rows,omitempty"`
	Columns   []ItemSpec      `yaml:"columns,omitempty"`
	Formula   string          `yaml:"formula,omitempty"`
	Format    string          `yaml:"format,omitempty"`
	Rules     []RuleSpec      `yaml:"rules,omitempty"`
	Children  []FieldSpec     `yaml:"children,omitempty"`
}

// ItemSpec is an option, row, or column in scenario YAML.
type ItemSpec struct {
	ID    string `yaml:"id"`
	Value string `yaml:"value"`
}

// RuleSpec is a conditional rule in scenario YAML.
type RuleSpec struct {
	Effect     string          `yaml:"effect"`
	Logic      string          `yaml:"logic,omitempty"`
	Conditions []ConditionSpec `yaml:"conditions"`
}

// ConditionSpec is a single condition in scenario YAML.
type ConditionSpec struct {
	Target   string `yaml:"target"`
	Operator string `yaml:"operator"`
	Expected string `yaml:"expected,omitempty"`
	Accessor string `yaml:"accessor,omitempty"`
}

// Field converts the spec into the model type, children included.
func (fs FieldSpec) Field() schema.Field {
	f := schema.Field{
		ID:        fs.ID,
		Type:      schema.FieldType(fs.Type),
		Label:     fs.Label,
		Required:  fs.Required,
		InputKind: fs.InputKind,
		Formula:   fs.Formula,
		Format:    fs.Format,
	}
	for _, it := range fs.Options {
		f.Options = append(f.Options, schema.Item{ID: it.ID, Value: it.Value})
	}
	for _, it := range fs.Rows {
		f.Rows = append(f.Rows, schema.Item{ID: it.ID, Value: it.Value})
	}
	for _, it := range fs.Columns {
		f.Columns = append(f.Columns, schema.Item{ID: it.ID, Value: it.Value})
	}
	for _, rs := range fs.Rules {
		r := schema.Rule{Effect: schema.Effect(rs.Effect), Logic: schema.Logic(rs.Logic)}
		for _, cs := range rs.Conditions {
			r.Conditions = append(r.Conditions, schema.Condition{
				TargetID: cs.Target,
				Operator: schema.Operator(cs.Operator),
				Expected: cs.Expected,
				Accessor: cs.Accessor,
			})
		}
		f.Rules = append(f.Rules, r)
	}
	for _, c := range fs.Children {
		f.Children = append(f.Children, c.Field())
	}
	return f
}

// Step is one action against the store. Exactly one of the three members
// is set per step.
type Step struct {
	// Answer records an answer for a field.
	Answer *AnswerStep `yaml:"answer,omitempty"`

	// Clear removes the answer of the named field.
	Clear string `yaml:"clear,omitempty"`

	// Edit applies a structural edit.
	Edit *EditStep `yaml:"edit,omitempty"`
}

// AnswerStep sets a field's answer. Exactly one of the value members is
// set, matching the field type's answer kind.
type AnswerStep struct {
	Field string `yaml:"field"`

	Text           *string           `yaml:"text,omitempty"`
	Selection      *string           `yaml:"selection,omitempty"`
	MultiSelection []string          `yaml:"multiSelection,omitempty"`
	MultiText      map[string]string `yaml:"multiText,omitempty"`
	Matrix         map[string]string `yaml:"matrix,omitempty"`
}

// Answer converts the step's value member into the model answer.
func (a *AnswerStep) Answer() (schema.Answer, error) {
	switch {
	case a.Text != nil:
		return schema.Text(*a.Text), nil
	case a.Selection != nil:
		return schema.Selection(*a.Selection), nil
	case a.MultiSelection != nil:
		return schema.MultiSelection(a.MultiSelection), nil
	case a.MultiText != nil:
		return schema.MultiText(a.MultiText), nil
	case a.Matrix != nil:
		return schema.Matrix(a.Matrix), nil
	}
	return nil, fmt.Errorf("answer step for %q has no value", a.Field)
}

// EditStep applies one structural edit. Op selects the operation; the
// remaining members parameterize it.
type EditStep struct {
	// Op is one of: add_field, update_field, remove_field, move_field,
	// add_option, update_option, remove_option, add_row, update_row,
	// remove_row, add_column, update_column, remove_column.
	Op string `yaml:"op"`

	// Type is the field type for add_field.
	Type string `yaml:"type,omitempty"`

	// Parent scopes add_field and move_field; empty means root level.
	Parent string `yaml:"parent,omitempty"`

	// Field names the edited field (all ops except add_field).
	Field string `yaml:"field,omitempty"`

	// NewID renames the field on update_field.
	NewID string `yaml:"newId,omitempty"`

	// Label updates the field label on update_field, or seeds it on
	// add_field.
	Label *string `yaml:"label,omitempty"`

	// Item names the option, row, or column for item update/remove ops.
	Item string `yaml:"item,omitempty"`

	// Value is the item display value for item add/update ops.
	Value string `yaml:"value,omitempty"`

	// Position is the insertion index for add_field and move_field.
	Position *int `yaml:"position,omitempty"`

	// ExpectOK asserts the edit's outcome. Nil means the edit must
	// succeed; false means it must be rejected.
	ExpectOK *bool `yaml:"expectOk,omitempty"`
}

// Edit op constants.
const (
	OpAddField     = "add_field"
	OpUpdateField  = "update_field"
	OpRemoveField  = "remove_field"
	OpMoveField    = "move_field"
	OpAddOption    = "add_option"
	OpUpdateOption = "update_option"
	OpRemoveOption = "remove_option"
	OpAddRow       = "add_row"
	OpUpdateRow    = "update_row"
	OpRemoveRow    = "remove_row"
	OpAddColumn    = "add_column"
	OpUpdateColumn = "update_column"
	OpRemoveColumn = "remove_column"
)

var validOps = map[string]bool{
	OpAddField: true, OpUpdateField: true, OpRemoveField: true, OpMoveField: true,
	OpAddOption: true, OpUpdateOption: true, OpRemoveOption: true,
	OpAddRow: true, OpUpdateRow: true, OpRemoveRow: true,
	OpAddColumn: true, OpUpdateColumn: true, OpRemoveColumn: true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Form) == 0 {
		return fmt.Errorf("form list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks that exactly one step member is set.
func validateStep(index int, step *Step) error {
	set := 0
	if step.Answer != nil {
		set++
		if step.Answer.Field == "" {
			return fmt.Errorf("steps[%d].answer: field is required", index)
		}
		if _, err := step.Answer.Answer(); err != nil {
			return fmt.Errorf("steps[%d].answer: exactly one value member is required", index)
		}
	}
	if step.Clear != "" {
		set++
	}
	if step.Edit != nil {
		set++
		if !validOps[step.Edit.Op] {
			return fmt.Errorf("steps[%d].edit: unknown op %q", index, step.Edit.Op)
		}
		if step.Edit.Op == OpAddField && step.Edit.Type == "" {
			return fmt.Errorf("steps[%d].edit: type is required for add_field", index)
		}
		if step.Edit.Op != OpAddField && step.Edit.Field == "" {
			return fmt.Errorf("steps[%d].edit: field is required for %s", index, step.Edit.Op)
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of answer, clear, edit is required", index)
	}
	return nil
}
