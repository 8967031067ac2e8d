package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildIndex wires a small two-level index by hand:
//
//	s1
//	  a
//	  s2
//	    b
//	c
func buildIndex() *Index {
	idx := NewIndex()
	idx.RootIDs = []string{"s1", "c"}
	idx.Nodes["s1"] = &Node{Field: Field{ID: "s1", Type: TypeSection}, ChildIDs: []string{"a", "s2"}, Index: 0}
	idx.Nodes["a"] = &Node{Field: Field{ID: "a", Type: TypeText}, ParentID: "s1", Index: 0}
	idx.Nodes["s2"] = &Node{Field: Field{ID: "s2", Type: TypeSection}, ParentID: "s1", ChildIDs: []string{"b"}, Index: 1}
	idx.Nodes["b"] = &Node{Field: Field{ID: "b", Type: TypeText}, ParentID: "s2", Index: 0}
	idx.Nodes["c"] = &Node{Field: Field{ID: "c", Type: TypeText}, Index: 1}
	return idx
}

func TestIndexLookups(t *testing.T) {
	idx := buildIndex()

	assert.True(t, idx.Has("b"))
	assert.False(t, idx.Has("ghost"))
	assert.Nil(t, idx.Node("ghost"))
	assert.Equal(t, 5, idx.Len())

	var nilIdx *Index
	assert.Nil(t, nilIdx.Node("a"))
	assert.Equal(t, 0, nilIdx.Len())
}

func TestIndexIDs(t *testing.T) {
	ids := buildIndex().IDs()
	assert.Len(t, ids, 5)
	_, ok := ids["s2"]
	assert.True(t, ok)
}

func TestSiblings(t *testing.T) {
	idx := buildIndex()

	assert.Equal(t, []string{"s1", "c"}, idx.Siblings(idx.Node("c")))
	assert.Equal(t, []string{"a", "s2"}, idx.Siblings(idx.Node("a")))

	orphan := &Node{Field: Field{ID: "x"}, ParentID: "ghost"}
	assert.Nil(t, idx.Siblings(orphan))
}

func TestWalkOrder(t *testing.T) {
	var visited []string
	buildIndex().Walk(func(n *Node) {
		visited = append(visited, n.Field.ID)
	})
	assert.Equal(t, []string{"s1", "a", "s2", "b", "c"}, visited)
}

func TestWalkBoundedOnCycle(t *testing.T) {
	idx := buildIndex()
	// Corrupt the structure into a cycle; the walk must still terminate
	// and visit each node at most once.
	idx.Node("s2").ChildIDs = []string{"b", "s1"}

	count := map[string]int{}
	idx.Walk(func(n *Node) { count[n.Field.ID]++ })

	for id, c := range count {
		assert.Equal(t, 1, c, "node %s visited %d times", id, c)
	}
}

func TestDescendants(t *testing.T) {
	idx := buildIndex()

	assert.Equal(t, []string{"a", "s2", "b"}, idx.Descendants("s1"))
	assert.Equal(t, []string{"b"}, idx.Descendants("s2"))
	assert.Empty(t, idx.Descendants("c"))
	assert.Empty(t, idx.Descendants("ghost"))
}

func TestNodeClone(t *testing.T) {
	orig := &Node{
		Field:    Field{ID: "q", Type: TypeRadio, Options: []Item{{ID: "o", Value: "O"}}},
		ParentID: "s1",
		ChildIDs: []string{"x"},
		Index:    3,
	}

	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone.ChildIDs[0] = "mutated"
	clone.Field.Options[0].Value = "mutated"
	assert.Equal(t, "x", orig.ChildIDs[0])
	assert.Equal(t, "O", orig.Field.Options[0].Value)
}
