package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillform/quillform/internal/schema"
	"github.com/quillform/quillform/internal/testutil"
)

func TestPatchApply(t *testing.T) {
	f := testutil.RadioField("q1", "Old", "A", "B")
	f.Required = false

	patch := FieldPatch{
		Label:    Ptr("New"),
		Required: Ptr(true),
		Options:  Ptr([]schema.Item{{ID: "x", Value: "X"}}),
	}
	patch.apply(&f)

	assert.Equal(t, "New", f.Label)
	assert.True(t, f.Required)
	assert.Equal(t, []schema.Item{{ID: "x", Value: "X"}}, f.Options)
	// Untouched attributes survive.
	assert.Equal(t, "q1", f.ID)
	assert.Equal(t, schema.TypeRadio, f.Type)
}

func TestPatchApplyNilPointers(t *testing.T) {
	f := testutil.Required(testutil.TextField("t1", "Label"))
	orig := f.Clone()

	(&FieldPatch{}).apply(&f)
	assert.Equal(t, orig, f)

	var nilPatch *FieldPatch
	nilPatch.apply(&f)
	assert.Equal(t, orig, f)
}

func TestPatchApplyNeverChangesID(t *testing.T) {
	f := testutil.TextField("t1", "Label")
	patch := FieldPatch{ID: Ptr("t2"), Label: Ptr("Renamed label")}
	patch.apply(&f)

	// Renames rewire the index and are handled by the store, not here.
	assert.Equal(t, "t1", f.ID)
	assert.Equal(t, "Renamed label", f.Label)
}

func TestPatchApplyCopiesItemSlices(t *testing.T) {
	items := []schema.Item{{ID: "a", Value: "A"}}
	f := testutil.TextField("t1", "L")

	patch := FieldPatch{Options: &items}
	patch.apply(&f)

	items[0].Value = "mutated"
	assert.Equal(t, "A", f.Options[0].Value)
}
