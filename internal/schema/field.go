package schema

// FieldType identifies one of the built-in questionnaire field variants.
// The set is closed: the registry seeds metadata for exactly these types,
// and the compiler rejects anything else.
type FieldType string

const (
	// TypeSection is the only container type. A section owns an ordered
	// list of child fields instead of an answer of its own.
	TypeSection FieldType = "section"

	// Text-like input types.
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"

	// Option-backed input types.
	TypeRadio     FieldType = "radio"
	TypeDropdown  FieldType = "dropdown"
	TypeCheckbox  FieldType = "checkbox"
	TypeMultiText FieldType = "multitext"

	// TypeMatrix collects one column choice per row.
	TypeMatrix FieldType = "matrix"

	// TypeExpression displays a computed value. Its display format decides
	// whether conditions compare it numerically.
	TypeExpression FieldType = "expression"

	// Display-only types. Never answerable, never validated.
	TypeHTML  FieldType = "html"
	TypeImage FieldType = "image"

	// Media capture types.
	TypeSignature FieldType = "signature"
	TypeDiagram   FieldType = "diagram"
)

// InputKind values for TypeText. A numeric input kind makes conditions
// against the field compare numerically.
const (
	InputText   = "text"
	InputNumber = "number"
	InputEmail  = "email"
	InputPhone  = "phone"
)

// Numeric display formats for TypeExpression.
const (
	FormatNumber   = "number"
	FormatCurrency = "currency"
	FormatText     = "text"
)

// Item is an option, matrix row, or matrix column. Item IDs are unique
// within their owning field only, never globally.
type Item struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Field is one node of the authored questionnaire tree.
//
// Exactly one of two shapes holds per type: container types carry Children
// and no answer-bearing attributes; leaf types carry type-specific
// attributes and no Children. The zero value is not a valid field; IDs are
// required and globally unique across the whole form, nesting included.
type Field struct {
	ID       string    `json:"id"`
	Type     FieldType `json:"fieldType"`
	Label    string    `json:"label,omitempty"`
	Required bool      `json:"required,omitempty"`

	// InputKind refines TypeText (text, number, email, phone).
	InputKind string `json:"inputKind,omitempty"`

	// Option-backed attributes.
	Options []Item `json:"options,omitempty"`

	// Matrix attributes.
	Rows    []Item `json:"rows,omitempty"`
	Columns []Item `json:"columns,omitempty"`

	// Expression attributes.
	Formula string `json:"formula,omitempty"`
	Format  string `json:"format,omitempty"`

	// Display payloads.
	HTML string `json:"html,omitempty"`
	Src  string `json:"src,omitempty"`

	// Conditional rules controlling visibility, enablement, and
	// requiredness of this field.
	Rules []Rule `json:"rules,omitempty"`

	// Children is populated only on container types, and only in the
	// nested tree form. The normalized index strips it into ChildIDs.
	Children []Field `json:"children,omitempty"`
}

// Clone returns a deep copy of the field, children included.
func (f Field) Clone() Field {
	out := f
	out.Options = cloneItems(f.Options)
	out.Rows = cloneItems(f.Rows)
	out.Columns = cloneItems(f.Columns)
	if f.Rules != nil {
		out.Rules = make([]Rule, len(f.Rules))
		for i, r := range f.Rules {
			out.Rules[i] = r.Clone()
		}
	}
	if f.Children != nil {
		out.Children = make([]Field, len(f.Children))
		for i, c := range f.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// ItemByID returns the item with the given ID from a list, if present.
func ItemByID(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
