package schema

// Node is one entry of the normalized index: a field definition with its
// tree position made explicit. The nested Children attribute is always
// stripped; structure lives in ParentID/ChildIDs/Index instead.
//
// INVARIANTS:
//   - ParentID is "" for roots; "" is never a legal field ID
//   - ChildIDs is non-empty only on container types
//   - Index equals the node's position in its sibling list
type Node struct {
	Field    Field    `json:"field"`
	ParentID string   `json:"parentId,omitempty"`
	ChildIDs []string `json:"childIds,omitempty"`
	Index    int      `json:"index"`
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	out := &Node{
		Field:    n.Field.Clone(),
		ParentID: n.ParentID,
		Index:    n.Index,
	}
	if n.ChildIDs != nil {
		out.ChildIDs = make([]string, len(n.ChildIDs))
		copy(out.ChildIDs, n.ChildIDs)
	}
	return out
}

// Index is the canonical runtime representation of a form: a flat id→node
// map plus the ordered list of root IDs. Every ID referenced as a child or
// root appears exactly once as a key, and no two entries share an ID.
//
// Structural edits never mutate an Index in place. Each edit produces a new
// snapshot sharing untouched nodes with its predecessor, so readers holding
// the prior snapshot never observe sheared state.
type Index struct {
	Nodes   map[string]*Node `json:"nodes"`
	RootIDs []string         `json:"rootIds"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{Nodes: map[string]*Node{}}
}

// Node returns the node for id, or nil if absent.
func (idx *Index) Node(id string) *Node {
	if idx == nil {
		return nil
	}
	return idx.Nodes[id]
}

// Has reports whether id is present in the index.
func (idx *Index) Has(id string) bool {
	return idx.Node(id) != nil
}

// Len returns the number of fields in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Nodes)
}

// IDs returns the set of all field IDs currently in the index. Used for
// collision-free ID generation.
func (idx *Index) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(idx.Nodes))
	for id := range idx.Nodes {
		ids[id] = struct{}{}
	}
	return ids
}

// Siblings returns the sibling list owning id: the parent's ChildIDs, or
// RootIDs for roots. The returned slice is the index's own; callers must
// not mutate it.
func (idx *Index) Siblings(n *Node) []string {
	if n.ParentID == "" {
		return idx.RootIDs
	}
	if parent := idx.Node(n.ParentID); parent != nil {
		return parent.ChildIDs
	}
	return nil
}

// Walk visits every node reachable from the roots in depth-first,
// declaration order. It never revisits a node; the walk is bounded by the
// index's own node count even if the structure were corrupted into a cycle.
func (idx *Index) Walk(visit func(*Node)) {
	seen := make(map[string]bool, len(idx.Nodes))
	var walk func(ids []string)
	walk = func(ids []string) {
		for _, id := range ids {
			n := idx.Node(id)
			if n == nil || seen[id] {
				continue
			}
			seen[id] = true
			visit(n)
			if len(n.ChildIDs) > 0 {
				walk(n.ChildIDs)
			}
		}
	}
	walk(idx.RootIDs)
}

// Descendants returns the IDs of all fields below id, depth-first. The
// result excludes id itself. Used by remove (cascade) and move (cycle
// guard).
func (idx *Index) Descendants(id string) []string {
	n := idx.Node(id)
	if n == nil {
		return nil
	}
	var out []string
	seen := map[string]bool{id: true}
	var walk func(ids []string)
	walk = func(ids []string) {
		for _, cid := range ids {
			child := idx.Node(cid)
			if child == nil || seen[cid] {
				continue
			}
			seen[cid] = true
			out = append(out, cid)
			if len(child.ChildIDs) > 0 {
				walk(child.ChildIDs)
			}
		}
	}
	walk(n.ChildIDs)
	return out
}
