package schema

import "fmt"

// RuleKind classifies a validation error.
type RuleKind string

const (
	// RuleRequired is emitted when a required, visible field has an empty
	// answer. Currently the only validation rule kind.
	RuleRequired RuleKind = "required"
)

// ValidationError is pure data, never a Go error raised through control
// flow: validation accumulates all problems so a caller can show them at
// once.
type ValidationError struct {
	FieldID  string   `json:"fieldId"`
	RuleKind RuleKind `json:"ruleKind"`
	Message  string   `json:"message"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.FieldID, e.Message, e.RuleKind)
}
