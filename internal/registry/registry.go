// Package registry holds capability metadata for the built-in field types.
//
// The registry is an explicitly constructed collaborator: the engine takes
// a *Registry and never reaches into package-level state. The built-in seed
// is immutable; Override layers host-supplied metadata on top and Reset
// drops every override.
package registry

import "github.com/quillform/quillform/internal/schema"

// Meta describes one field type's capabilities: how it stores its answer,
// what structural attributes it carries, and how many starter items a
// freshly added instance receives.
type Meta struct {
	Type  schema.FieldType
	Label string

	// Kind classifies the answer shape. KindNone marks containers and
	// display-only types, which are skipped by validation and export.
	Kind schema.AnswerKind

	// Container reports whether the type owns child fields.
	Container bool

	// HasOptions / HasMatrix report which item lists the type carries.
	HasOptions bool
	HasMatrix  bool

	// StarterItems is how many options (or matrix rows and columns) a new
	// field of this type is populated with when none are supplied.
	StarterItems int

	// Defaults seeds type-specific attributes on newly added fields.
	// ID, Type, and structural attributes are always overwritten by the
	// engine; only property defaults (label, input kind, format) apply.
	Defaults schema.Field
}

// builtins is the immutable metadata seed. Never mutated after init;
// Registry instances copy from it.
var builtins = []Meta{
	{Type: schema.TypeSection, Label: "Section", Kind: schema.KindNone, Container: true},
	{Type: schema.TypeText, Label: "Text", Kind: schema.KindText,
		Defaults: schema.Field{Label: "Text question", InputKind: schema.InputText}},
	{Type: schema.TypeTextarea, Label: "Paragraph", Kind: schema.KindText,
		Defaults: schema.Field{Label: "Paragraph question"}},
	{Type: schema.TypeRadio, Label: "Multiple choice", Kind: schema.KindSelection,
		HasOptions: true, StarterItems: 3,
		Defaults: schema.Field{Label: "Multiple choice question"}},
	{Type: schema.TypeDropdown, Label: "Dropdown", Kind: schema.KindSelection,
		HasOptions: true, StarterItems: 3,
		Defaults: schema.Field{Label: "Dropdown question"}},
	{Type: schema.TypeCheckbox, Label: "Checkboxes", Kind: schema.KindMultiSelection,
		HasOptions: true, StarterItems: 3,
		Defaults: schema.Field{Label: "Checkbox question"}},
	{Type: schema.TypeMultiText, Label: "Multi text", Kind: schema.KindMultiText,
		HasOptions: true, StarterItems: 3,
		Defaults: schema.Field{Label: "Multi text question"}},
	{Type: schema.TypeMatrix, Label: "Matrix", Kind: schema.KindMatrix,
		HasMatrix: true, StarterItems: 3,
		Defaults: schema.Field{Label: "Matrix question"}},
	{Type: schema.TypeExpression, Label: "Expression", Kind: schema.KindText,
		Defaults: schema.Field{Label: "Expression", Format: schema.FormatText}},
	{Type: schema.TypeHTML, Label: "HTML block", Kind: schema.KindNone},
	{Type: schema.TypeImage, Label: "Image", Kind: schema.KindNone},
	{Type: schema.TypeSignature, Label: "Signature", Kind: schema.KindMedia,
		Defaults: schema.Field{Label: "Signature"}},
	{Type: schema.TypeDiagram, Label: "Diagram", Kind: schema.KindMedia,
		Defaults: schema.Field{Label: "Diagram"}},
}

// Registry resolves field types to their metadata.
type Registry struct {
	meta  map[schema.FieldType]Meta
	order []schema.FieldType
}

// New returns a registry seeded with the built-in field types.
func New() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Meta returns the metadata for a field type. The second result is false
// for unknown types.
func (r *Registry) Meta(t schema.FieldType) (Meta, bool) {
	m, ok := r.meta[t]
	return m, ok
}

// Kind returns the answer-kind classification for a field type, or
// KindNone for unknown types.
func (r *Registry) Kind(t schema.FieldType) schema.AnswerKind {
	if m, ok := r.meta[t]; ok {
		return m.Kind
	}
	return schema.KindNone
}

// Has reports whether the type is registered.
func (r *Registry) Has(t schema.FieldType) bool {
	_, ok := r.meta[t]
	return ok
}

// Types returns the registered field types in declaration order, built-ins
// first, then overrides in the order they were added.
func (r *Registry) Types() []schema.FieldType {
	out := make([]schema.FieldType, len(r.order))
	copy(out, r.order)
	return out
}

// Override registers or replaces metadata for a type. Hosts use this to
// rebrand built-ins or add custom display types; the built-in seed itself
// is never touched.
func (r *Registry) Override(m Meta) {
	if _, exists := r.meta[m.Type]; !exists {
		r.order = append(r.order, m.Type)
	}
	r.meta[m.Type] = m
}

// Reset drops every override and restores the built-in seed.
func (r *Registry) Reset() {
	r.meta = make(map[schema.FieldType]Meta, len(builtins))
	r.order = make([]schema.FieldType, 0, len(builtins))
	for _, m := range builtins {
		r.meta[m.Type] = m
		r.order = append(r.order, m.Type)
	}
}
