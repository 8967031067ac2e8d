package engine

import "github.com/quillform/quillform/internal/schema"

// Normalize flattens a field-definition tree into an index. Each node's
// Children attribute is stripped into an ordered ChildIDs list, ParentID is
// set from the walking context, and Index records the position among
// immediate siblings. Depth-0 fields become the root order.
//
// Only container types recurse; children accidentally present on a leaf
// type are dropped, preserving the one-shape-per-type invariant.
func Normalize(tree []schema.Field) *schema.Index {
	idx := schema.NewIndex()
	idx.RootIDs = normalizeLevel(idx, tree, "")
	return idx
}

func normalizeLevel(idx *schema.Index, fields []schema.Field, parentID string) []string {
	if len(fields) == 0 {
		return nil
	}
	ids := make([]string, 0, len(fields))
	for i, f := range fields {
		node := &schema.Node{
			Field:    f.Clone(),
			ParentID: parentID,
			Index:    i,
		}
		children := node.Field.Children
		node.Field.Children = nil
		if f.Type == schema.TypeSection && len(children) > 0 {
			node.ChildIDs = normalizeLevel(idx, children, f.ID)
		}
		idx.Nodes[f.ID] = node
		ids = append(ids, f.ID)
	}
	return ids
}

// Hydrate rebuilds the nested tree from an index. Hydration is total over
// any well-formed index: a dangling child or root ID degrades to a minimal
// default text leaf rather than failing, so partially corrupt authored
// data still renders.
//
// Hydrate(Normalize(t)) reproduces t for any well-formed tree.
func Hydrate(idx *schema.Index) []schema.Field {
	if idx == nil {
		return nil
	}
	return hydrateLevel(idx, idx.RootIDs, make(map[string]bool, idx.Len()))
}

func hydrateLevel(idx *schema.Index, ids []string, seen map[string]bool) []schema.Field {
	if len(ids) == 0 {
		return nil
	}
	out := make([]schema.Field, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		node := idx.Node(id)
		if node == nil {
			// Dangling reference: degrade to a default leaf.
			out = append(out, schema.Field{ID: id, Type: schema.TypeText})
			continue
		}
		f := node.Field.Clone()
		if len(node.ChildIDs) > 0 {
			f.Children = hydrateLevel(idx, node.ChildIDs, seen)
		}
		out = append(out, f)
	}
	return out
}

// cloneIndex makes a snapshot for a structural edit: the node map and root
// slice are fresh, the nodes themselves are shared. Edits clone individual
// nodes before touching them, so unaffected nodes keep their identity and
// consumers doing shallow equality checks see no spurious change.
func cloneIndex(idx *schema.Index) *schema.Index {
	out := &schema.Index{
		Nodes:   make(map[string]*schema.Node, len(idx.Nodes)),
		RootIDs: append([]string(nil), idx.RootIDs...),
	}
	for id, n := range idx.Nodes {
		out.Nodes[id] = n
	}
	return out
}

// reindex rewrites Index on every member of a sibling list to match its
// array position. Nodes whose index already matches are left untouched
// (identity preserved); the rest are cloned into the snapshot first.
func reindex(idx *schema.Index, siblings []string) {
	for i, id := range siblings {
		n := idx.Node(id)
		if n == nil || n.Index == i {
			continue
		}
		clone := n.Clone()
		clone.Index = i
		idx.Nodes[id] = clone
	}
}

// insertAt returns ids with id inserted at pos, appending when pos is
// negative or past the end.
func insertAt(ids []string, id string, pos int) []string {
	if pos < 0 || pos > len(ids) {
		pos = len(ids)
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:pos]...)
	out = append(out, id)
	out = append(out, ids[pos:]...)
	return out
}

// removeID returns ids without id. The second result is false when id was
// not present.
func removeID(ids []string, id string) ([]string, bool) {
	for i, v := range ids {
		if v == id {
			out := make([]string, 0, len(ids)-1)
			out = append(out, ids[:i]...)
			out = append(out, ids[i+1:]...)
			return out, true
		}
	}
	return ids, false
}
