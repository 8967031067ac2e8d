package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillform/quillform/internal/registry"
	"github.com/quillform/quillform/internal/schema"
	"github.com/quillform/quillform/internal/testutil"
)

func newTestStore(tree ...schema.Field) *Store {
	s := NewStore(registry.New())
	s.Load(tree)
	return s
}

func TestLoadWipesAnswers(t *testing.T) {
	s := newTestStore(testutil.TextField("t1", "T"))
	s.SetAnswer("t1", schema.Text("x"))
	require.NotNil(t, s.Response("t1"))

	s.Load([]schema.Field{testutil.TextField("t1", "T")})
	assert.Nil(t, s.Response("t1"))
}

func TestSubscribeNotify(t *testing.T) {
	s := newTestStore(testutil.TextField("t1", "T"))
	c := testutil.NewNotifyCounter()
	token := s.Subscribe(c.Func())

	s.SetAnswer("t1", schema.Text("x"))
	s.ClearAnswer("t1")
	_, ok := s.AddField(schema.TypeText, AddOptions{})
	require.True(t, ok)
	assert.Equal(t, 3, c.Count())

	s.Unsubscribe(token)
	s.ResetAnswers()
	assert.Equal(t, 3, c.Count())
}

func TestSetAnswerNilClears(t *testing.T) {
	s := newTestStore(testutil.TextField("t1", "T"))
	s.SetAnswer("t1", schema.Text("x"))
	s.SetAnswer("t1", nil)
	assert.Nil(t, s.Response("t1"))
}

func TestAddFieldGeneratesScopedIDs(t *testing.T) {
	s := newTestStore(testutil.Section("s1", "S"))

	id1, ok := s.AddField(schema.TypeText, AddOptions{ParentID: "s1"})
	require.True(t, ok)
	assert.Equal(t, "s1-text", id1)

	id2, ok := s.AddField(schema.TypeText, AddOptions{ParentID: "s1"})
	require.True(t, ok)
	assert.Equal(t, "s1-text-1", id2)

	id3, ok := s.AddField(schema.TypeText, AddOptions{})
	require.True(t, ok)
	assert.Equal(t, "text", id3)

	assert.Equal(t, []string{"s1-text", "s1-text-1"}, s.Field("s1").ChildIDs)
	assert.Equal(t, []string{"s1", "text"}, s.Snapshot().RootIDs)
}

func TestAddFieldSeedsStarterItems(t *testing.T) {
	s := newTestStore()

	id, ok := s.AddField(schema.TypeRadio, AddOptions{})
	require.True(t, ok)

	f := s.Field(id).Field
	require.Len(t, f.Options, 3)
	assert.Equal(t, schema.Item{ID: "radio-option", Value: "Option 1"}, f.Options[0])
	assert.Equal(t, schema.Item{ID: "radio-option-1", Value: "Option 2"}, f.Options[1])
	assert.Equal(t, schema.Item{ID: "radio-option-2", Value: "Option 3"}, f.Options[2])

	mid, ok := s.AddField(schema.TypeMatrix, AddOptions{})
	require.True(t, ok)
	m := s.Field(mid).Field
	assert.Len(t, m.Rows, 3)
	assert.Len(t, m.Columns, 3)
	assert.Equal(t, "Row 1", m.Rows[0].Value)
	assert.Equal(t, "Column 1", m.Columns[0].Value)
}

func TestAddFieldPatchSuppressesStarters(t *testing.T) {
	s := newTestStore()

	id, ok := s.AddField(schema.TypeRadio, AddOptions{Patch: &FieldPatch{
		Label:   Ptr("Rating"),
		Options: Ptr([]schema.Item{{ID: "good", Value: "Good"}}),
	}})
	require.True(t, ok)

	f := s.Field(id).Field
	assert.Equal(t, "Rating", f.Label)
	require.Len(t, f.Options, 1)
	assert.Equal(t, "good", f.Options[0].ID)
}

func TestAddFieldPosition(t *testing.T) {
	s := newTestStore(testutil.TextField("a", "A"), testutil.TextField("b", "B"))

	id, ok := s.AddField(schema.TypeText, AddOptions{Position: At(1)})
	require.True(t, ok)

	assert.Equal(t, []string{"a", id, "b"}, s.Snapshot().RootIDs)
	for i, rid := range s.Snapshot().RootIDs {
		assert.Equal(t, i, s.Field(rid).Index)
	}
}

func TestAddFieldRejections(t *testing.T) {
	s := newTestStore(testutil.TextField("leaf", "L"))

	id, ok := s.AddField("hologram", AddOptions{})
	assert.False(t, ok)
	assert.Empty(t, id)

	_, ok = s.AddField(schema.TypeText, AddOptions{ParentID: "ghost"})
	assert.False(t, ok)

	// Only containers accept children.
	_, ok = s.AddField(schema.TypeText, AddOptions{ParentID: "leaf"})
	assert.False(t, ok)

	assert.Equal(t, 1, s.Snapshot().Len())
}

func TestUpdateFieldLabel(t *testing.T) {
	s := newTestStore(testutil.TextField("t1", "Old"))

	require.True(t, s.UpdateField("t1", FieldPatch{Label: Ptr("New")}))
	assert.Equal(t, "New", s.Field("t1").Field.Label)

	assert.False(t, s.UpdateField("ghost", FieldPatch{Label: Ptr("X")}))
}

func TestUpdateFieldRenameCascade(t *testing.T) {
	s := newTestStore(
		testutil.Section("s1", "S",
			testutil.TextField("a", "A"),
			testutil.Section("s2", "Inner", testutil.TextField("b", "B")),
		),
		testutil.TextField("after", "After"),
	)
	s.SetAnswer("s1", schema.Text("ignored"))

	require.True(t, s.UpdateField("s1", FieldPatch{ID: Ptr("s1-new")}))

	assert.False(t, s.Snapshot().Has("s1"))
	moved := s.Field("s1-new")
	require.NotNil(t, moved)
	assert.Equal(t, []string{"a", "s2"}, moved.ChildIDs)

	// Sibling list rewritten in place, order preserved.
	assert.Equal(t, []string{"s1-new", "after"}, s.Snapshot().RootIDs)

	// Direct children repoint to the new ID; grandchildren are untouched.
	assert.Equal(t, "s1-new", s.Field("a").ParentID)
	assert.Equal(t, "s1-new", s.Field("s2").ParentID)
	assert.Equal(t, "s2", s.Field("b").ParentID)

	// The answer follows the field across the rename.
	assert.Nil(t, s.Response("s1"))
	assert.Equal(t, schema.Text("ignored"), s.Response("s1-new"))
}

func TestUpdateFieldRenameCollision(t *testing.T) {
	s := newTestStore(testutil.TextField("a", "A"), testutil.TextField("b", "B"))

	assert.False(t, s.UpdateField("a", FieldPatch{ID: Ptr("b")}))
	assert.False(t, s.UpdateField("a", FieldPatch{ID: Ptr("")}))
	assert.True(t, s.Snapshot().Has("a"))

	// A patch carrying the current ID is a plain update, not a rename.
	assert.True(t, s.UpdateField("a", FieldPatch{ID: Ptr("a"), Label: Ptr("Same")}))
	assert.Equal(t, "Same", s.Field("a").Field.Label)
}

func TestRemoveFieldCascades(t *testing.T) {
	s := newTestStore(
		testutil.Section("s1", "S",
			testutil.TextField("a", "A"),
			testutil.Section("s2", "Inner", testutil.TextField("b", "B")),
		),
		testutil.TextField("after", "After"),
	)

	require.True(t, s.RemoveField("s1"))

	for _, id := range []string{"s1", "a", "s2", "b"} {
		assert.False(t, s.Snapshot().Has(id), "%s should be gone", id)
	}
	assert.Equal(t, []string{"after"}, s.Snapshot().RootIDs)
	assert.Equal(t, 0, s.Field("after").Index)

	assert.False(t, s.RemoveField("ghost"))
}

func TestRemoveFieldKeepsAnswer(t *testing.T) {
	s := newTestStore(testutil.TextField("t1", "T"), testutil.TextField("t2", "T2"))
	s.SetAnswer("t1", schema.Text("kept"))

	require.True(t, s.RemoveField("t1"))

	// Answers are only wiped on Load; a removed field's answer lingers
	// harmlessly and revives if the same ID is recreated.
	assert.Equal(t, schema.Text("kept"), s.Answers()["t1"])
}

func TestMoveFieldBetweenParents(t *testing.T) {
	s := newTestStore(
		testutil.Section("s1", "S1", testutil.TextField("a", "A"), testutil.TextField("b", "B")),
		testutil.Section("s2", "S2", testutil.TextField("c", "C")),
	)

	require.True(t, s.MoveField("a", 1, "s2"))

	assert.Equal(t, []string{"b"}, s.Field("s1").ChildIDs)
	assert.Equal(t, []string{"c", "a"}, s.Field("s2").ChildIDs)
	assert.Equal(t, "s2", s.Field("a").ParentID)
	assert.Equal(t, 1, s.Field("a").Index)
	assert.Equal(t, 0, s.Field("b").Index)
}

func TestMoveFieldToRoot(t *testing.T) {
	s := newTestStore(testutil.Section("s1", "S1", testutil.TextField("a", "A")))

	require.True(t, s.MoveField("a", 0, ""))

	assert.Equal(t, []string{"a", "s1"}, s.Snapshot().RootIDs)
	assert.Equal(t, "", s.Field("a").ParentID)
	assert.Empty(t, s.Field("s1").ChildIDs)
	assert.Equal(t, 1, s.Field("s1").Index)
}

func TestMoveFieldWithinSiblings(t *testing.T) {
	s := newTestStore(
		testutil.TextField("a", "A"),
		testutil.TextField("b", "B"),
		testutil.TextField("c", "C"),
	)

	require.True(t, s.MoveField("c", 0, ""))

	assert.Equal(t, []string{"c", "a", "b"}, s.Snapshot().RootIDs)
	for i, id := range s.Snapshot().RootIDs {
		assert.Equal(t, i, s.Field(id).Index)
	}
}

func TestMoveFieldRejections(t *testing.T) {
	s := newTestStore(
		testutil.Section("s1", "S1",
			testutil.Section("s2", "S2"),
		),
		testutil.TextField("leaf", "L"),
	)

	assert.False(t, s.MoveField("ghost", 0, ""))
	assert.False(t, s.MoveField("s1", 0, "ghost"))
	// A field cannot move into itself or its own descendant.
	assert.False(t, s.MoveField("s1", 0, "s1"))
	assert.False(t, s.MoveField("s1", 0, "s2"))
	// Leaves never take children.
	assert.False(t, s.MoveField("s2", 0, "leaf"))

	assert.Equal(t, []string{"s1", "leaf"}, s.Snapshot().RootIDs)
	assert.Equal(t, []string{"s2"}, s.Field("s1").ChildIDs)
}

func TestItemAdd(t *testing.T) {
	s := newTestStore(
		testutil.RadioField("q", "Q", "A", "B", "C"),
		testutil.MatrixField("m", "M", []string{"R"}, []string{"C"}),
	)

	id, ok := s.AddOption("q", "Delta")
	require.True(t, ok)
	assert.Equal(t, "q-option-3", id)
	assert.Equal(t, schema.Item{ID: "q-option-3", Value: "Delta"}, s.Field("q").Field.Options[3])

	// Empty value defaults to the positional label.
	id, ok = s.AddOption("q", "")
	require.True(t, ok)
	assert.Equal(t, "Option 5", s.Field("q").Field.Options[4].Value)
	assert.Equal(t, "q-option-4", id)

	id, ok = s.AddRow("m", "")
	require.True(t, ok)
	assert.Equal(t, "m-row-1", id)
	assert.Equal(t, "Row 2", s.Field("m").Field.Rows[1].Value)

	id, ok = s.AddColumn("m", "Score")
	require.True(t, ok)
	assert.Equal(t, "m-col-1", id)

	_, ok = s.AddOption("ghost", "X")
	assert.False(t, ok)
}

func TestItemUpdate(t *testing.T) {
	s := newTestStore(testutil.RadioField("q", "Q", "A", "B"))
	c := testutil.NewNotifyCounter()
	s.Subscribe(c.Func())

	require.True(t, s.UpdateOption("q", "q-option", "Alpha"))
	assert.Equal(t, "Alpha", s.Field("q").Field.Options[0].Value)
	assert.Equal(t, 1, c.Count())

	// Unchanged value: accepted but no new snapshot, no notification.
	before := s.Snapshot()
	require.True(t, s.UpdateOption("q", "q-option", "Alpha"))
	assert.Same(t, before, s.Snapshot())
	assert.Equal(t, 1, c.Count())

	// Unknown item: accepted as a no-op.
	require.True(t, s.UpdateOption("q", "ghost-item", "X"))
	assert.Equal(t, 1, c.Count())

	// Missing field or missing list fail.
	assert.False(t, s.UpdateOption("ghost", "q-option", "X"))
	assert.False(t, s.UpdateRow("q", "q-option", "X"))
}

func TestItemRemove(t *testing.T) {
	s := newTestStore(testutil.RadioField("q", "Q", "A", "B", "C"))

	require.True(t, s.RemoveOption("q", "q-option-1"))
	opts := s.Field("q").Field.Options
	require.Len(t, opts, 2)
	assert.Equal(t, "q-option", opts[0].ID)
	assert.Equal(t, "q-option-2", opts[1].ID)

	assert.False(t, s.RemoveOption("q", "ghost-item"))
	assert.False(t, s.RemoveOption("ghost", "q-option"))
	assert.False(t, s.RemoveRow("q", "q-option"))
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestStore(testutil.TextField("a", "A"), testutil.TextField("b", "B"))
	before := s.Snapshot()

	require.True(t, s.UpdateField("b", FieldPatch{Label: Ptr("B2")}))
	after := s.Snapshot()

	// The old snapshot is untouched and unaffected nodes keep identity.
	assert.NotSame(t, before, after)
	assert.Equal(t, "B", before.Node("b").Field.Label)
	assert.Equal(t, "B2", after.Node("b").Field.Label)
	assert.Same(t, before.Node("a"), after.Node("a"))
}

func TestAnswersReturnsCopy(t *testing.T) {
	s := newTestStore(testutil.TextField("t1", "T"))
	s.SetAnswer("t1", schema.Text("x"))

	got := s.Answers()
	got["t1"] = schema.Text("mutated")
	got["extra"] = schema.Text("y")

	assert.Equal(t, schema.Answer(schema.Text("x")), s.Response("t1"))
	assert.Nil(t, s.Response("extra"))
}

func TestSetAnswersReplacesWholeSet(t *testing.T) {
	s := newTestStore(testutil.TextField("t1", "T"), testutil.TextField("t2", "T2"))
	s.SetAnswer("t1", schema.Text("old"))

	s.SetAnswers(schema.AnswerSet{
		"t2":   schema.Text("new"),
		"null": nil,
	})

	assert.Nil(t, s.Response("t1"))
	assert.Equal(t, schema.Answer(schema.Text("new")), s.Response("t2"))
	assert.Nil(t, s.Response("null"))
}

func TestHydrateDefinitionRoundTrip(t *testing.T) {
	tree := []schema.Field{
		testutil.Section("s1", "S", testutil.RadioField("q", "Q", "A", "B")),
		testutil.TextField("t", "T"),
	}
	s := newTestStore(tree...)
	assert.Equal(t, tree, s.HydrateDefinition())
}

func TestDerivedStateAfterEdits(t *testing.T) {
	s := newTestStore(
		testutil.RadioField("trigger", "Trigger", "Yes", "No"),
		testutil.Required(testutil.WithRules(testutil.TextField("details", "Details"),
			testutil.VisibleWhen("trigger", schema.OpEquals, "trigger-option"))),
	)

	assert.False(t, s.IsVisible("details"))
	assert.Empty(t, s.Errors())

	s.SetAnswer("trigger", schema.Selection("trigger-option"))
	assert.True(t, s.IsVisible("details"))
	errs := s.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "details", errs[0].FieldID)

	// Removing the trigger hides the dependent field again: its rule's
	// target vanishes, so the condition can never hold.
	require.True(t, s.RemoveField("trigger"))
	assert.False(t, s.IsVisible("details"))
	assert.Empty(t, s.Errors())
}

func TestStoreWithEpsilonOption(t *testing.T) {
	s := NewStore(registry.New(), WithEpsilon(0.5))
	s.Load([]schema.Field{
		testutil.NumberField("n", "N"),
		testutil.WithRules(testutil.TextField("f", "F"),
			testutil.VisibleWhen("n", schema.OpEquals, "10")),
	})

	s.SetAnswer("n", schema.Text("10.4"))
	assert.True(t, s.IsVisible("f"))
}
