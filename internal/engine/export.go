package engine

import (
	"fmt"
	"strings"

	"github.com/quillform/quillform/internal/registry"
	"github.com/quillform/quillform/internal/schema"
)

// ExportItem is one flat, display-ready row of a hydrated response:
// the field, its display text, and the answer rendered with option,
// row, and column IDs resolved to their authored values.
type ExportItem struct {
	FieldID     string `json:"fieldId"`
	DisplayText string `json:"displayText"`
	AnswerValue string `json:"answerValue"`
}

// ExportItems joins the normalized definitions with the raw answers into
// flat export rows, in document order. Containers, display blocks, and
// unknown types are skipped; answerable fields appear whether answered or
// not, with an empty value when unanswered.
func ExportItems(reg *registry.Registry, idx *schema.Index, answers schema.AnswerSet) []ExportItem {
	var items []ExportItem
	idx.Walk(func(n *schema.Node) {
		meta, known := reg.Meta(n.Field.Type)
		if !known || meta.Kind == schema.KindNone {
			return
		}
		display := n.Field.Label
		if display == "" {
			display = n.Field.ID
		}
		items = append(items, ExportItem{
			FieldID:     n.Field.ID,
			DisplayText: display,
			AnswerValue: renderAnswer(&n.Field, answers[n.Field.ID]),
		})
	})
	return items
}

// renderAnswer flattens one answer to display text, resolving item IDs
// against the field's option, row, and column lists. Unknown IDs render
// as themselves rather than disappearing.
func renderAnswer(f *schema.Field, a schema.Answer) string {
	if a == nil {
		return ""
	}
	switch v := a.(type) {
	case schema.Text:
		return string(v)
	case schema.Selection:
		return itemValue(f.Options, string(v))
	case schema.MultiSelection:
		parts := make([]string, 0, len(v))
		for _, id := range v {
			parts = append(parts, itemValue(f.Options, id))
		}
		return strings.Join(parts, ", ")
	case schema.MultiText:
		// One "option: text" pair per entered value, in option order.
		var parts []string
		for _, opt := range f.Options {
			if text, ok := v[opt.ID]; ok && strings.TrimSpace(text) != "" {
				parts = append(parts, opt.Value+": "+text)
			}
		}
		return strings.Join(parts, "; ")
	case schema.Matrix:
		// One "row: column" pair per answered row, in row order.
		var parts []string
		for _, row := range f.Rows {
			if col, ok := v[row.ID]; ok && strings.TrimSpace(col) != "" {
				parts = append(parts, row.Value+": "+itemValue(f.Columns, col))
			}
		}
		return strings.Join(parts, "; ")
	case schema.Media:
		if v.DataURI != "" {
			return v.DataURI
		}
		if len(v.Strokes) > 0 {
			return fmt.Sprintf("[%d strokes]", len(v.Strokes))
		}
		return ""
	default:
		return ""
	}
}

func itemValue(items []schema.Item, id string) string {
	if it, ok := schema.ItemByID(items, id); ok {
		return it.Value
	}
	return id
}
