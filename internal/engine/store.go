package engine

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quillform/quillform/internal/registry"
	"github.com/quillform/quillform/internal/schema"
)

// Store is the stateful core of the engine: it exclusively owns the
// normalized index and the answer map, exposes every structural-edit
// operation and read selector, and is the single source of truth any UI
// layer consumes.
//
// Thread-safety model: single logical writer. Every operation runs to
// completion synchronously; the store is not internally locked, and
// concurrent external callers must serialize their own access (one UI
// event loop). Each structural edit commits a new index snapshot, so a
// reader holding a prior snapshot never observes sheared state.
//
// Mutations are atomic: they either fully succeed (returning a generated
// ID or true) or fully fail (returning "" or false) with the prior state
// untouched. Failure is a result, never a panic.
type Store struct {
	reg     *registry.Registry
	ev      *Evaluator
	idx     *schema.Index
	answers schema.AnswerSet

	subs     map[string]func()
	subOrder []string
}

// Option configures a Store.
type Option func(*Store)

// WithEpsilon sets the numeric-equality tolerance used by condition
// evaluation. Defaults to DefaultEpsilon.
func WithEpsilon(epsilon float64) Option {
	return func(s *Store) {
		s.ev = NewEvaluator(s.reg, epsilon)
	}
}

// NewStore creates an empty store using the given field-type registry.
func NewStore(reg *registry.Registry, opts ...Option) *Store {
	s := &Store{
		reg:     reg,
		ev:      NewEvaluator(reg, DefaultEpsilon),
		idx:     schema.NewIndex(),
		answers: schema.AnswerSet{},
		subs:    map[string]func(){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the index wholesale from a definition tree and wipes every
// answer. Never fails: normalization is total.
func (s *Store) Load(tree []schema.Field) {
	s.idx = Normalize(tree)
	s.answers = schema.AnswerSet{}
	slog.Debug("form loaded", "fields", s.idx.Len(), "roots", len(s.idx.RootIDs))
	s.notify()
}

// commit installs a new snapshot and broadcasts the change.
func (s *Store) commit(idx *schema.Index) {
	s.idx = idx
	s.notify()
}

// notify synchronously invokes every subscriber in registration order.
// Subscribers must not re-enter a mutating operation on the same store
// from within the callback; the store provides no reentrancy guard.
func (s *Store) notify() {
	for _, token := range s.subOrder {
		if fn := s.subs[token]; fn != nil {
			fn()
		}
	}
}

// Subscribe registers a change callback and returns its token.
func (s *Store) Subscribe(fn func()) string {
	token := uuid.NewString()
	s.subs[token] = fn
	s.subOrder = append(s.subOrder, token)
	return token
}

// Unsubscribe removes a previously registered callback.
func (s *Store) Unsubscribe(token string) {
	if _, ok := s.subs[token]; !ok {
		return
	}
	delete(s.subs, token)
	s.subOrder, _ = removeID(s.subOrder, token)
}

// --- Answers -------------------------------------------------------------

// SetAnswer records the answer for a field. Pure map update; structure is
// never touched, and no check ties the answer shape to the field type
// (the selectors' exhaustive dispatch tolerates mismatches).
func (s *Store) SetAnswer(id string, a schema.Answer) {
	if a == nil {
		s.ClearAnswer(id)
		return
	}
	s.answers[id] = a
	s.notify()
}

// ClearAnswer removes the answer for a field.
func (s *Store) ClearAnswer(id string) {
	delete(s.answers, id)
	s.notify()
}

// ResetAnswers wipes every answer, leaving structure intact.
func (s *Store) ResetAnswers() {
	s.answers = schema.AnswerSet{}
	s.notify()
}

// --- Structural edits ----------------------------------------------------

// AddOptions controls where a new field is inserted and how it is seeded.
type AddOptions struct {
	// ParentID places the field inside a section; empty means root level.
	ParentID string
	// Position is the sibling index to insert at; nil or out of range
	// appends. Use At for inline construction.
	Position *int
	// Patch is merged over the registry's default properties.
	Patch *FieldPatch
}

// At returns a position pointer for AddOptions.
func At(i int) *int {
	return &i
}

// AddField creates a field of the given type, generating a collision-free
// ID scoped to the parent, seeding registry defaults plus the patch, and
// auto-populating starter options or matrix rows/columns when the type
// carries them and the patch supplied none. Returns the new ID, or "" when
// the type is unknown or the parent is missing (or not a container).
func (s *Store) AddField(t schema.FieldType, opts AddOptions) (string, bool) {
	meta, known := s.reg.Meta(t)
	if !known {
		slog.Debug("addField rejected: unknown type", "type", t)
		return "", false
	}
	if opts.ParentID != "" {
		parent := s.idx.Node(opts.ParentID)
		if parent == nil || !s.containerType(parent.Field.Type) {
			slog.Debug("addField rejected: bad parent", "parent", opts.ParentID)
			return "", false
		}
	}

	id := GenerateID(FieldIDPrefix(t, opts.ParentID), s.idx.IDs())

	f := meta.Defaults.Clone()
	f.ID = id
	f.Type = t
	opts.Patch.apply(&f)
	s.seedStarterItems(meta, &f)

	idx := cloneIndex(s.idx)
	node := &schema.Node{Field: f, ParentID: opts.ParentID}
	idx.Nodes[id] = node

	pos := -1
	if opts.Position != nil {
		pos = *opts.Position
	}
	if opts.ParentID == "" {
		idx.RootIDs = insertAt(idx.RootIDs, id, pos)
		reindex(idx, idx.RootIDs)
	} else {
		parent := idx.Node(opts.ParentID).Clone()
		parent.ChildIDs = insertAt(parent.ChildIDs, id, pos)
		idx.Nodes[opts.ParentID] = parent
		reindex(idx, parent.ChildIDs)
	}

	slog.Debug("field added", "id", id, "type", t, "parent", opts.ParentID)
	s.commit(idx)
	return id, true
}

// seedStarterItems fills empty option or matrix lists with the registry's
// starter count of generated items.
func (s *Store) seedStarterItems(meta registry.Meta, f *schema.Field) {
	if meta.StarterItems <= 0 {
		return
	}
	if meta.HasOptions && len(f.Options) == 0 {
		f.Options = starterItems(f.ID, optionSuffix, "Option", meta.StarterItems)
	}
	if meta.HasMatrix {
		if len(f.Rows) == 0 {
			f.Rows = starterItems(f.ID, rowSuffix, "Row", meta.StarterItems)
		}
		if len(f.Columns) == 0 {
			f.Columns = starterItems(f.ID, colSuffix, "Column", meta.StarterItems)
		}
	}
}

func starterItems(fieldID, suffix, label string, count int) []schema.Item {
	items := make([]schema.Item, 0, count)
	existing := map[string]struct{}{}
	for i := 0; i < count; i++ {
		id := GenerateID(ItemIDPrefix(fieldID, suffix), existing)
		existing[id] = struct{}{}
		items = append(items, schema.Item{ID: id, Value: fmt.Sprintf("%s %d", label, i+1)})
	}
	return items
}

// UpdateField merges a patch into an existing field. A patch whose ID
// differs from id is a rename: the index entry moves to the new key, the
// owning sibling list is rewritten, and every direct child's ParentID is
// updated. Returns false when id is unknown or a rename collides with an
// existing ID.
func (s *Store) UpdateField(id string, patch FieldPatch) bool {
	node := s.idx.Node(id)
	if node == nil {
		return false
	}

	newID := id
	if patch.ID != nil && *patch.ID != id {
		newID = *patch.ID
		if newID == "" || s.idx.Has(newID) {
			slog.Debug("updateField rejected: rename collision", "id", id, "newId", newID)
			return false
		}
	}

	idx := cloneIndex(s.idx)
	updated := node.Clone()
	patch.apply(&updated.Field)

	if newID != id {
		updated.Field.ID = newID
		delete(idx.Nodes, id)
		idx.Nodes[newID] = updated

		// Rewrite the reference in the owning sibling list.
		if updated.ParentID == "" {
			idx.RootIDs = replaceID(idx.RootIDs, id, newID)
		} else {
			parent := idx.Node(updated.ParentID).Clone()
			parent.ChildIDs = replaceID(parent.ChildIDs, id, newID)
			idx.Nodes[updated.ParentID] = parent
		}

		// Cascade the new parent ID onto direct children. Their own IDs
		// and child lists are untouched.
		for _, cid := range updated.ChildIDs {
			if child := idx.Node(cid); child != nil {
				c := child.Clone()
				c.ParentID = newID
				idx.Nodes[cid] = c
			}
		}

		// The answer follows the field across a rename.
		if a, ok := s.answers[id]; ok {
			delete(s.answers, id)
			s.answers[newID] = a
		}
	} else {
		idx.Nodes[id] = updated
	}

	slog.Debug("field updated", "id", id, "newId", newID)
	s.commit(idx)
	return true
}

// RemoveField deletes a field and, recursively, all of its descendants,
// detaching it from its sibling list and reindexing the survivors.
func (s *Store) RemoveField(id string) bool {
	node := s.idx.Node(id)
	if node == nil {
		return false
	}

	idx := cloneIndex(s.idx)
	for _, did := range idx.Descendants(id) {
		delete(idx.Nodes, did)
	}
	delete(idx.Nodes, id)

	if node.ParentID == "" {
		idx.RootIDs, _ = removeID(idx.RootIDs, id)
		reindex(idx, idx.RootIDs)
	} else if parent := idx.Node(node.ParentID); parent != nil {
		p := parent.Clone()
		p.ChildIDs, _ = removeID(p.ChildIDs, id)
		idx.Nodes[node.ParentID] = p
		reindex(idx, p.ChildIDs)
	}

	slog.Debug("field removed", "id", id)
	s.commit(idx)
	return true
}

// MoveField detaches a field from its current position and inserts it at
// toIndex under toParentID ("" for root level). Fails on unknown IDs and
// on cycles: the target parent may not be the field itself or any of its
// descendants.
func (s *Store) MoveField(id string, toIndex int, toParentID string) bool {
	node := s.idx.Node(id)
	if node == nil {
		return false
	}
	if toParentID != "" {
		if toParentID == id {
			return false
		}
		target := s.idx.Node(toParentID)
		if target == nil || !s.containerType(target.Field.Type) {
			return false
		}
		for _, did := range s.idx.Descendants(id) {
			if did == toParentID {
				slog.Debug("moveField rejected: cycle", "id", id, "target", toParentID)
				return false
			}
		}
	}

	idx := cloneIndex(s.idx)

	// Detach from the current owner and reindex the shortened list.
	if node.ParentID == "" {
		idx.RootIDs, _ = removeID(idx.RootIDs, id)
		reindex(idx, idx.RootIDs)
	} else if parent := idx.Node(node.ParentID); parent != nil {
		p := parent.Clone()
		p.ChildIDs, _ = removeID(p.ChildIDs, id)
		idx.Nodes[node.ParentID] = p
		reindex(idx, p.ChildIDs)
	}

	moved := idx.Node(id).Clone()
	moved.ParentID = toParentID
	idx.Nodes[id] = moved

	if toParentID == "" {
		idx.RootIDs = insertAt(idx.RootIDs, id, toIndex)
		reindex(idx, idx.RootIDs)
	} else {
		p := idx.Node(toParentID).Clone()
		p.ChildIDs = insertAt(p.ChildIDs, id, toIndex)
		idx.Nodes[toParentID] = p
		reindex(idx, p.ChildIDs)
	}

	slog.Debug("field moved", "id", id, "parent", toParentID, "index", toIndex)
	s.commit(idx)
	return true
}

// --- Option / row / column edits -----------------------------------------

// AddOption appends an option with a generated, field-scoped ID. An empty
// value defaults to "Option N". Returns "" when the field is unknown.
func (s *Store) AddOption(fieldID, value string) (string, bool) {
	return s.addItem(fieldID, optionSuffix, "Option", value)
}

// AddRow appends a matrix row. See AddOption.
func (s *Store) AddRow(fieldID, value string) (string, bool) {
	return s.addItem(fieldID, rowSuffix, "Row", value)
}

// AddColumn appends a matrix column. See AddOption.
func (s *Store) AddColumn(fieldID, value string) (string, bool) {
	return s.addItem(fieldID, colSuffix, "Column", value)
}

func (s *Store) addItem(fieldID, suffix, label, value string) (string, bool) {
	node := s.idx.Node(fieldID)
	if node == nil {
		return "", false
	}

	idx := cloneIndex(s.idx)
	updated := node.Clone()
	list := itemList(&updated.Field, suffix)

	id := GenerateID(ItemIDPrefix(fieldID, suffix), itemIDSet(*list))
	if value == "" {
		value = fmt.Sprintf("%s %d", label, len(*list)+1)
	}
	*list = append(*list, schema.Item{ID: id, Value: value})
	idx.Nodes[fieldID] = updated

	s.commit(idx)
	return id, true
}

// UpdateOption replaces an option's value. Structurally a no-op when the
// value is unchanged or the item is absent; false when the field or its
// option list is missing.
func (s *Store) UpdateOption(fieldID, itemID, value string) bool {
	return s.updateItem(fieldID, optionSuffix, itemID, value)
}

// UpdateRow replaces a matrix row's value. See UpdateOption.
func (s *Store) UpdateRow(fieldID, itemID, value string) bool {
	return s.updateItem(fieldID, rowSuffix, itemID, value)
}

// UpdateColumn replaces a matrix column's value. See UpdateOption.
func (s *Store) UpdateColumn(fieldID, itemID, value string) bool {
	return s.updateItem(fieldID, colSuffix, itemID, value)
}

func (s *Store) updateItem(fieldID, suffix, itemID, value string) bool {
	node := s.idx.Node(fieldID)
	if node == nil {
		return false
	}
	if len(*itemList(&node.Field, suffix)) == 0 {
		return false
	}

	pos := -1
	for i, it := range *itemList(&node.Field, suffix) {
		if it.ID == itemID {
			if it.Value == value {
				// Unchanged value: no new snapshot, no notification.
				return true
			}
			pos = i
			break
		}
	}
	if pos < 0 {
		return true
	}

	idx := cloneIndex(s.idx)
	updated := node.Clone()
	(*itemList(&updated.Field, suffix))[pos].Value = value
	idx.Nodes[fieldID] = updated

	s.commit(idx)
	return true
}

// RemoveOption filters an option out of the field's list. False when the
// field, the list, or the item is missing.
func (s *Store) RemoveOption(fieldID, itemID string) bool {
	return s.removeItem(fieldID, optionSuffix, itemID)
}

// RemoveRow removes a matrix row. See RemoveOption.
func (s *Store) RemoveRow(fieldID, itemID string) bool {
	return s.removeItem(fieldID, rowSuffix, itemID)
}

// RemoveColumn removes a matrix column. See RemoveOption.
func (s *Store) RemoveColumn(fieldID, itemID string) bool {
	return s.removeItem(fieldID, colSuffix, itemID)
}

func (s *Store) removeItem(fieldID, suffix, itemID string) bool {
	node := s.idx.Node(fieldID)
	if node == nil {
		return false
	}
	existing := *itemList(&node.Field, suffix)
	if len(existing) == 0 {
		return false
	}
	if _, found := schema.ItemByID(existing, itemID); !found {
		return false
	}

	idx := cloneIndex(s.idx)
	updated := node.Clone()
	list := itemList(&updated.Field, suffix)
	kept := make([]schema.Item, 0, len(existing)-1)
	for _, it := range existing {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	*list = kept
	idx.Nodes[fieldID] = updated

	s.commit(idx)
	return true
}

// itemList selects the option, row, or column list of a field by suffix.
func itemList(f *schema.Field, suffix string) *[]schema.Item {
	switch suffix {
	case rowSuffix:
		return &f.Rows
	case colSuffix:
		return &f.Columns
	default:
		return &f.Options
	}
}

func (s *Store) containerType(t schema.FieldType) bool {
	m, ok := s.reg.Meta(t)
	return ok && m.Container
}

// --- Selectors -----------------------------------------------------------
//
// Selectors are pure reads computed on demand from the current index and
// answers. Nothing is cached, so repeated calls interleaved with mutations
// always see the latest committed state.

// Field returns the node for id, or nil. The returned node belongs to the
// current snapshot and must be treated as read-only.
func (s *Store) Field(id string) *schema.Node {
	return s.idx.Node(id)
}

// Response returns the current answer for id, or nil.
func (s *Store) Response(id string) schema.Answer {
	return s.answers[id]
}

// Snapshot returns the current index. The snapshot is immutable: later
// edits commit fresh snapshots and never touch this one.
func (s *Store) Snapshot() *schema.Index {
	return s.idx
}

// IsVisible resolves the visible effect for id. Unknown IDs are not
// visible.
func (s *Store) IsVisible(id string) bool {
	return s.ev.ResolveEffect(schema.EffectVisible, s.idx.Node(id), s.idx, s.answers)
}

// IsEnabled resolves the enable effect for id.
func (s *Store) IsEnabled(id string) bool {
	return s.ev.ResolveEffect(schema.EffectEnable, s.idx.Node(id), s.idx, s.answers)
}

// IsRequired resolves the required effect for id.
func (s *Store) IsRequired(id string) bool {
	return s.ev.ResolveEffect(schema.EffectRequired, s.idx.Node(id), s.idx, s.answers)
}

// FieldErrors validates a single field against the current answers.
func (s *Store) FieldErrors(id string) []schema.ValidationError {
	return s.ev.ValidateField(id, s.idx, s.answers)
}

// Errors validates the whole form against the current answers.
func (s *Store) Errors() []schema.ValidationError {
	return s.ev.ValidateForm(s.idx, s.answers)
}

// HydrateDefinition reconstructs the nested definition tree from the
// current index.
func (s *Store) HydrateDefinition() []schema.Field {
	return Hydrate(s.idx)
}

// HydrateResponse flattens the current answers into export items.
func (s *Store) HydrateResponse() []ExportItem {
	return ExportItems(s.reg, s.idx, s.answers)
}

// Answers returns a copy of the current answer set.
func (s *Store) Answers() schema.AnswerSet {
	out := make(schema.AnswerSet, len(s.answers))
	for id, a := range s.answers {
		out[id] = a
	}
	return out
}

// SetAnswers replaces the whole answer set (e.g. when loading a saved
// draft). Structure is untouched.
func (s *Store) SetAnswers(answers schema.AnswerSet) {
	s.answers = make(schema.AnswerSet, len(answers))
	for id, a := range answers {
		if a != nil {
			s.answers[id] = a
		}
	}
	s.notify()
}

func replaceID(ids []string, oldID, newID string) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		if v == oldID {
			out[i] = newID
		} else {
			out[i] = v
		}
	}
	return out
}
