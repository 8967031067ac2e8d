package compiler

import (
	"fmt"

	"github.com/quillform/quillform/internal/registry"
	"github.com/quillform/quillform/internal/schema"
)

// Validation error codes (E100-E199)
const (
	// Field structure errors (E101-E109)
	ErrEmptyFieldID      = "E101" // field id is empty
	ErrDuplicateFieldID  = "E102" // field id reused anywhere in the tree
	ErrUnknownFieldType  = "E103" // fieldType not in the registry
	ErrChildrenOnLeaf    = "E104" // children on a non-container type
	ErrDuplicateItemID   = "E105" // option/row/column id reused within a field
	ErrEmptyItemID       = "E106" // option/row/column id is empty

	// Rule errors (E110-E119)
	ErrInvalidEffect    = "E110" // rule effect outside visible/enable/required
	ErrInvalidLogic     = "E111" // rule logic outside and/or
	ErrInvalidOperator  = "E112" // condition operator unknown
	ErrUnknownRuleTarget = "E113" // condition targets a field not in the tree
)

// ValidationError represents a structural problem in an authored form.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled definition tree against the structural rules.
// Returns all errors found (does not fail-fast).
func Validate(tree []schema.Field, reg *registry.Registry) []ValidationError {
	var errs []ValidationError
	ids := map[string]bool{}

	var walk func(fields []schema.Field, path string)
	walk = func(fields []schema.Field, path string) {
		for i, f := range fields {
			fpath := fmt.Sprintf("%s[%d]", path, i)
			if f.ID != "" {
				fpath = fmt.Sprintf("%s(%s)", fpath, f.ID)
			}

			if f.ID == "" {
				errs = append(errs, ValidationError{
					Field: fpath + ".id", Code: ErrEmptyFieldID,
					Message: "field id must be non-empty",
				})
			} else if ids[f.ID] {
				errs = append(errs, ValidationError{
					Field: fpath + ".id", Code: ErrDuplicateFieldID,
					Message: fmt.Sprintf("duplicate field id: %q", f.ID),
				})
			}
			ids[f.ID] = true

			meta, known := reg.Meta(f.Type)
			if !known {
				errs = append(errs, ValidationError{
					Field: fpath + ".fieldType", Code: ErrUnknownFieldType,
					Message: fmt.Sprintf("unknown field type: %q", f.Type),
				})
			}

			if len(f.Children) > 0 && (!known || !meta.Container) {
				errs = append(errs, ValidationError{
					Field: fpath + ".children", Code: ErrChildrenOnLeaf,
					Message: fmt.Sprintf("type %q is not a container and cannot hold children", f.Type),
				})
			}

			errs = append(errs, validateItems(f.Options, fpath+".options")...)
			errs = append(errs, validateItems(f.Rows, fpath+".rows")...)
			errs = append(errs, validateItems(f.Columns, fpath+".columns")...)
			errs = append(errs, validateRules(f.Rules, fpath)...)

			if len(f.Children) > 0 {
				walk(f.Children, fpath+".children")
			}
		}
	}
	walk(tree, "form.fields")

	// Rule targets resolve against the whole tree, so they are checked
	// after every id has been collected.
	var checkTargets func(fields []schema.Field, path string)
	checkTargets = func(fields []schema.Field, path string) {
		for i, f := range fields {
			fpath := fmt.Sprintf("%s[%d]", path, i)
			for ri, rule := range f.Rules {
				for ci, cond := range rule.Conditions {
					if cond.TargetID == "" || !ids[cond.TargetID] {
						errs = append(errs, ValidationError{
							Field: fmt.Sprintf("%s.rules[%d].conditions[%d].targetId", fpath, ri, ci),
							Code:  ErrUnknownRuleTarget,
							Message: fmt.Sprintf("field %q targets unknown field %q",
								f.ID, cond.TargetID),
						})
					}
				}
			}
			if len(f.Children) > 0 {
				checkTargets(f.Children, fpath+".children")
			}
		}
	}
	checkTargets(tree, "form.fields")

	return errs
}

// validateItems checks option/row/column id uniqueness within one field.
func validateItems(items []schema.Item, path string) []ValidationError {
	var errs []ValidationError
	seen := map[string]bool{}
	for i, it := range items {
		switch {
		case it.ID == "":
			errs = append(errs, ValidationError{
				Field: fmt.Sprintf("%s[%d].id", path, i), Code: ErrEmptyItemID,
				Message: "item id must be non-empty",
			})
		case seen[it.ID]:
			errs = append(errs, ValidationError{
				Field: fmt.Sprintf("%s[%d].id", path, i), Code: ErrDuplicateItemID,
				Message: fmt.Sprintf("duplicate item id: %q", it.ID),
			})
		}
		seen[it.ID] = true
	}
	return errs
}

// validateRules checks effect, logic, and operator enumerations.
func validateRules(rules []schema.Rule, fpath string) []ValidationError {
	var errs []ValidationError
	for ri, rule := range rules {
		rpath := fmt.Sprintf("%s.rules[%d]", fpath, ri)
		if !schema.ValidEffects[rule.Effect] {
			errs = append(errs, ValidationError{
				Field: rpath + ".effect", Code: ErrInvalidEffect,
				Message: fmt.Sprintf("invalid effect: %q", rule.Effect),
			})
		}
		if rule.Logic != "" && rule.Logic != schema.LogicAnd && rule.Logic != schema.LogicOr {
			errs = append(errs, ValidationError{
				Field: rpath + ".logic", Code: ErrInvalidLogic,
				Message: fmt.Sprintf("invalid logic: %q", rule.Logic),
			})
		}
		for ci, cond := range rule.Conditions {
			if !schema.ValidOperators[cond.Operator] {
				errs = append(errs, ValidationError{
					Field: fmt.Sprintf("%s.conditions[%d].operator", rpath, ci),
					Code:  ErrInvalidOperator,
					Message: fmt.Sprintf("invalid operator: %q", cond.Operator),
				})
			}
		}
	}
	return errs
}
