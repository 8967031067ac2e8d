package harness

import (
	"fmt"
	"strings"

	"github.com/quillform/quillform/internal/engine"
)

// Assertion validates one aspect of the final derived state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "visible" / "hidden": field visibility
	// - "enabled" / "disabled": field enablement
	// - "required" / "optional": field requiredness
	// - "error_count": total count of validation errors
	// - "field_error": the field has at least one validation error
	// - "field_exists" / "field_absent": index membership
	// - "export_line": the export output contains "Display: value"
	Type string `yaml:"type"`

	// Field names the asserted field (all types except error_count and
	// export_line).
	Field string `yaml:"field,omitempty"`

	// Count is the expected error total (error_count only).
	Count int `yaml:"count,omitempty"`

	// Line is the expected export line (export_line only).
	Line string `yaml:"line,omitempty"`
}

// Assertion type constants.
const (
	AssertVisible     = "visible"
	AssertHidden      = "hidden"
	AssertEnabled     = "enabled"
	AssertDisabled    = "disabled"
	AssertRequired    = "required"
	AssertOptional    = "optional"
	AssertErrorCount  = "error_count"
	AssertFieldError  = "field_error"
	AssertFieldExists = "field_exists"
	AssertFieldAbsent = "field_absent"
	AssertExportLine  = "export_line"
)

// fieldAssertions are the types that require a Field member.
var fieldAssertions = map[string]bool{
	AssertVisible: true, AssertHidden: true,
	AssertEnabled: true, AssertDisabled: true,
	AssertRequired: true, AssertOptional: true,
	AssertFieldError: true, AssertFieldExists: true, AssertFieldAbsent: true,
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch {
	case fieldAssertions[a.Type]:
		if a.Field == "" {
			return fmt.Errorf("assertions[%d]: field is required for %s", index, a.Type)
		}
	case a.Type == AssertErrorCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for error_count", index)
		}
	case a.Type == AssertExportLine:
		if a.Line == "" {
			return fmt.Errorf("assertions[%d]: line is required for export_line", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// AssertionError is returned when an assertion fails.
// It includes enough context to debug the failure without re-running.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s\n  Expected: %s\n  Actual: %s",
		e.Type, e.Expected, e.Actual)
}

func assertionError(a Assertion, expected, actual string) error {
	return &AssertionError{Type: a.Type, Expected: expected, Actual: actual}
}

// checkAssertion evaluates one assertion against the store's current
// derived state.
func checkAssertion(st *engine.Store, a Assertion) error {
	switch a.Type {
	case AssertVisible, AssertHidden:
		got := st.IsVisible(a.Field)
		want := a.Type == AssertVisible
		if got != want {
			return assertionError(a,
				fmt.Sprintf("field %s visible=%v", a.Field, want),
				fmt.Sprintf("visible=%v", got))
		}

	case AssertEnabled, AssertDisabled:
		got := st.IsEnabled(a.Field)
		want := a.Type == AssertEnabled
		if got != want {
			return assertionError(a,
				fmt.Sprintf("field %s enabled=%v", a.Field, want),
				fmt.Sprintf("enabled=%v", got))
		}

	case AssertRequired, AssertOptional:
		got := st.IsRequired(a.Field)
		want := a.Type == AssertRequired
		if got != want {
			return assertionError(a,
				fmt.Sprintf("field %s required=%v", a.Field, want),
				fmt.Sprintf("required=%v", got))
		}

	case AssertErrorCount:
		errs := st.Errors()
		if len(errs) != a.Count {
			return assertionError(a,
				fmt.Sprintf("%d validation errors", a.Count),
				describeErrors(st))
		}

	case AssertFieldError:
		if len(st.FieldErrors(a.Field)) == 0 {
			return assertionError(a,
				fmt.Sprintf("field %s has a validation error", a.Field),
				describeErrors(st))
		}

	case AssertFieldExists, AssertFieldAbsent:
		got := st.Field(a.Field) != nil
		want := a.Type == AssertFieldExists
		if got != want {
			return assertionError(a,
				fmt.Sprintf("field %s present=%v", a.Field, want),
				fmt.Sprintf("present=%v", got))
		}

	case AssertExportLine:
		for _, item := range st.HydrateResponse() {
			if fmt.Sprintf("%s: %s", item.DisplayText, item.AnswerValue) == a.Line {
				return nil
			}
		}
		return assertionError(a,
			fmt.Sprintf("export contains %q", a.Line),
			describeExport(st))

	default:
		return assertionError(a, "a known assertion type", fmt.Sprintf("type %q", a.Type))
	}

	return nil
}

func describeErrors(st *engine.Store) string {
	errs := st.Errors()
	if len(errs) == 0 {
		return "no validation errors"
	}
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.FieldID
	}
	return fmt.Sprintf("%d errors on [%s]", len(errs), strings.Join(parts, " "))
}

func describeExport(st *engine.Store) string {
	items := st.HydrateResponse()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s: %s", item.DisplayText, item.AnswerValue)
	}
	return "export lines: " + strings.Join(parts, " | ")
}
