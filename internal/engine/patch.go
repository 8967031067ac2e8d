package engine

import "github.com/quillform/quillform/internal/schema"

// FieldPatch is a partial field update: nil pointers leave the attribute
// alone, non-nil pointers replace it. A non-nil ID makes UpdateField treat
// the patch as a rename.
type FieldPatch struct {
	ID        *string
	Label     *string
	Required  *bool
	InputKind *string
	Options   *[]schema.Item
	Rows      *[]schema.Item
	Columns   *[]schema.Item
	Formula   *string
	Format    *string
	HTML      *string
	Src       *string
	Rules     *[]schema.Rule
}

// apply merges the patch into f. The ID attribute is never applied here;
// renames rewire the index and are handled by the store.
func (p *FieldPatch) apply(f *schema.Field) {
	if p == nil {
		return
	}
	if p.Label != nil {
		f.Label = *p.Label
	}
	if p.Required != nil {
		f.Required = *p.Required
	}
	if p.InputKind != nil {
		f.InputKind = *p.InputKind
	}
	if p.Options != nil {
		f.Options = cloneItemSlice(*p.Options)
	}
	if p.Rows != nil {
		f.Rows = cloneItemSlice(*p.Rows)
	}
	if p.Columns != nil {
		f.Columns = cloneItemSlice(*p.Columns)
	}
	if p.Formula != nil {
		f.Formula = *p.Formula
	}
	if p.Format != nil {
		f.Format = *p.Format
	}
	if p.HTML != nil {
		f.HTML = *p.HTML
	}
	if p.Src != nil {
		f.Src = *p.Src
	}
	if p.Rules != nil {
		rules := make([]schema.Rule, len(*p.Rules))
		for i, r := range *p.Rules {
			rules[i] = r.Clone()
		}
		f.Rules = rules
	}
}

func cloneItemSlice(items []schema.Item) []schema.Item {
	out := make([]schema.Item, len(items))
	copy(out, items)
	return out
}

// Ptr returns a pointer to v. Convenience for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
