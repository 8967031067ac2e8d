package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/quillform/quillform/internal/engine"
	"github.com/quillform/quillform/internal/schema"
)

// Snapshot captures the derived state of a store after a scenario run.
// Field order follows the index walk (roots first, depth-first), so the
// serialized form is deterministic for a given scenario.
type Snapshot struct {
	Scenario string              `json:"scenario"`
	Fields   []FieldState        `json:"fields"`
	Errors   []string            `json:"errors,omitempty"`
	Export   []engine.ExportItem `json:"export,omitempty"`
}

// FieldState is one field's derived flags in a snapshot.
type FieldState struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Index    int    `json:"index"`
	Visible  bool   `json:"visible"`
	Required bool   `json:"required"`
	Answered bool   `json:"answered"`
}

// TakeSnapshot reads the store's current derived state into a Snapshot.
func TakeSnapshot(name string, st *engine.Store) *Snapshot {
	snap := &Snapshot{Scenario: name, Fields: []FieldState{}}

	answers := st.Answers()
	st.Snapshot().Walk(func(n *schema.Node) {
		_, answered := answers[n.Field.ID]
		snap.Fields = append(snap.Fields, FieldState{
			ID:       n.Field.ID,
			Type:     string(n.Field.Type),
			Index:    n.Index,
			Visible:  st.IsVisible(n.Field.ID),
			Required: st.IsRequired(n.Field.ID),
			Answered: answered,
		})
	})

	for _, e := range st.Errors() {
		snap.Errors = append(snap.Errors, e.String())
	}
	snap.Export = st.HydrateResponse()

	return snap
}

// Marshal serializes the snapshot as indented JSON with a trailing
// newline, the byte format stored in golden files.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the final state snapshot
// against a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution fails. Snapshot mismatches fail
// the test via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-run result's final state against the
// golden file for scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := TakeSnapshot(scenarioName, result.Store).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
