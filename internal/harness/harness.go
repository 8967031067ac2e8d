package harness

import (
	"fmt"

	"github.com/quillform/quillform/internal/engine"
	"github.com/quillform/quillform/internal/registry"
	"github.com/quillform/quillform/internal/schema"
)

// StepEvent records one executed step for the scenario log.
type StepEvent struct {
	// Kind is "answer", "clear", or the edit op name.
	Kind string `json:"kind"`

	// Field is the field the step touched. For add_field this is the
	// generated ID.
	Field string `json:"field,omitempty"`

	// OK reports whether the step was accepted by the store.
	OK bool `json:"ok"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step outcome matched its
	// expectation and every assertion held.
	Pass bool `json:"pass"`

	// Log contains one event per executed step, in order.
	Log []StepEvent `json:"log"`

	// Errors contains step and assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Store is the engine store after all steps, for further inspection.
	Store *engine.Store `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Log: []StepEvent{}, Errors: []string{}}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh store for isolation. Execution flow:
//
//  1. Build the form tree from the scenario's field specs
//  2. Load it into a new store with the built-in registry
//  3. Apply answer, clear, and edit steps in order
//  4. Evaluate assertions against the final derived state
//
// Run returns an error only for malformed steps; assertion failures land
// in Result.Errors with Pass set to false.
func Run(scenario *Scenario) (*Result, error) {
	tree := make([]schema.Field, len(scenario.Form))
	for i, fs := range scenario.Form {
		tree[i] = fs.Field()
	}

	st := engine.NewStore(registry.New())
	st.Load(tree)

	result := NewResult()
	result.Store = st

	for i, step := range scenario.Steps {
		event, err := applyStep(st, step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		result.Log = append(result.Log, event)

		if step.Edit != nil {
			wantOK := step.Edit.ExpectOK == nil || *step.Edit.ExpectOK
			if event.OK != wantOK {
				result.AddError(fmt.Sprintf("steps[%d]: %s on %s: ok=%v, want %v",
					i, event.Kind, event.Field, event.OK, wantOK))
			}
		}
	}

	for i, assertion := range scenario.Assertions {
		if err := checkAssertion(st, assertion); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

// applyStep executes one step against the store.
func applyStep(st *engine.Store, step Step) (StepEvent, error) {
	switch {
	case step.Answer != nil:
		a, err := step.Answer.Answer()
		if err != nil {
			return StepEvent{}, err
		}
		st.SetAnswer(step.Answer.Field, a)
		return StepEvent{Kind: "answer", Field: step.Answer.Field, OK: true}, nil

	case step.Clear != "":
		st.ClearAnswer(step.Clear)
		return StepEvent{Kind: "clear", Field: step.Clear, OK: true}, nil

	case step.Edit != nil:
		field, ok := applyEdit(st, step.Edit)
		return StepEvent{Kind: step.Edit.Op, Field: field, OK: ok}, nil
	}

	return StepEvent{}, fmt.Errorf("empty step")
}

// applyEdit dispatches a structural edit to the store. It returns the
// touched field ID and the store's accept/reject outcome.
func applyEdit(st *engine.Store, e *EditStep) (string, bool) {
	switch e.Op {
	case OpAddField:
		var patch *engine.FieldPatch
		if e.Label != nil {
			patch = &engine.FieldPatch{Label: e.Label}
		}
		id, ok := st.AddField(schema.FieldType(e.Type), engine.AddOptions{
			ParentID: e.Parent,
			Position: e.Position,
			Patch:    patch,
		})
		return id, ok

	case OpUpdateField:
		patch := engine.FieldPatch{Label: e.Label}
		if e.NewID != "" {
			patch.ID = &e.NewID
		}
		return e.Field, st.UpdateField(e.Field, patch)

	case OpRemoveField:
		return e.Field, st.RemoveField(e.Field)

	case OpMoveField:
		pos := 0
		if e.Position != nil {
			pos = *e.Position
		}
		return e.Field, st.MoveField(e.Field, pos, e.Parent)

	case OpAddOption:
		_, ok := st.AddOption(e.Field, e.Value)
		return e.Field, ok
	case OpUpdateOption:
		return e.Field, st.UpdateOption(e.Field, e.Item, e.Value)
	case OpRemoveOption:
		return e.Field, st.RemoveOption(e.Field, e.Item)

	case OpAddRow:
		_, ok := st.AddRow(e.Field, e.Value)
		return e.Field, ok
	case OpUpdateRow:
		return e.Field, st.UpdateRow(e.Field, e.Item, e.Value)
	case OpRemoveRow:
		return e.Field, st.RemoveRow(e.Field, e.Item)

	case OpAddColumn:
		_, ok := st.AddColumn(e.Field, e.Value)
		return e.Field, ok
	case OpUpdateColumn:
		return e.Field, st.UpdateColumn(e.Field, e.Item, e.Value)
	case OpRemoveColumn:
		return e.Field, st.RemoveColumn(e.Field, e.Item)
	}

	return e.Field, false
}
