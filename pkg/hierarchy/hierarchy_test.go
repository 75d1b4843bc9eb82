package hierarchy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, name string, path ...string) Record {
	return Record{ID: id, Path: path, Name: name}
}

func ids(nodes []*Node) []string {
	result := make([]string, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, n.ID)
	}
	return result
}

func sampleRecords() []Record {
	return []Record{
		rec("a", "A", "a"),
		rec("b", "B", "a", "b"),
		rec("c", "C", "a", "c"),
		rec("d", "D", "d"),
		rec("e", "E", "a", "b", "e"),
		rec("x", "X", "missing", "x"),
	}
}

func TestBuildHierarchy_RootsInInputOrder(t *testing.T) {
	forest := BuildHierarchy(sampleRecords())
	assert.Equal(t, []string{"a", "d"}, ids(forest))
}

func TestBuildHierarchy_ChildrenInInputOrder(t *testing.T) {
	forest := BuildHierarchy(sampleRecords())

	a := forest[0]
	require.Equal(t, []string{"b", "c"}, ids(a.ChildNodes()))
	assert.Equal(t, []string{"e"}, ids(a.ChildNodes()[0].ChildNodes()))
	assert.Empty(t, a.ChildNodes()[1].ChildNodes())
}

func TestBuildHierarchy_HasChildrenConsistency(t *testing.T) {
	forest := BuildHierarchy(sampleRecords())
	for _, node := range Flatten(forest) {
		assert.Equal(t, len(node.ChildNodes()) > 0, node.HasChildren, "node %s", node.ID)
	}
}

func TestBuildHierarchy_OrphansDropped(t *testing.T) {
	forest := BuildHierarchy(sampleRecords())
	assert.Nil(t, FindByID(forest, "x"))
	assert.Len(t, Flatten(forest), 5)
}

func TestBuildHierarchy_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		records   []Record
		roots     []string
		reachable int
	}{
		{
			name:      "empty input",
			records:   nil,
			roots:     []string{},
			reachable: 0,
		},
		{
			name:      "record without path is dropped",
			records:   []Record{rec("a", "A", "a"), rec("z", "Z")},
			roots:     []string{"a"},
			reachable: 1,
		},
		{
			name:      "child listed before parent",
			records:   []Record{rec("b", "B", "a", "b"), rec("a", "A", "a")},
			roots:     []string{"a"},
			reachable: 2,
		},
		{
			name:      "duplicate id keeps first",
			records:   []Record{rec("a", "A", "a"), rec("a", "A2", "a")},
			roots:     []string{"a"},
			reachable: 1,
		},
		{
			name:      "mutual parents stay unreachable",
			records:   []Record{rec("p", "P", "q", "p"), rec("q", "Q", "p", "q")},
			roots:     []string{},
			reachable: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := BuildHierarchy(tt.records)
			assert.Equal(t, tt.roots, ids(forest))
			assert.Len(t, Flatten(forest), tt.reachable)
		})
	}
}

func TestBuildHierarchy_DuplicateKeepsFirstName(t *testing.T) {
	forest := BuildHierarchy([]Record{rec("a", "A", "a"), rec("a", "A2", "a")})
	require.Len(t, forest, 1)
	assert.Equal(t, "A", forest[0].Name)
}

func TestBuildHierarchy_Deterministic(t *testing.T) {
	first := Flatten(BuildHierarchy(sampleRecords()))
	second := Flatten(BuildHierarchy(sampleRecords()))
	require.Equal(t, ids(first), ids(second))
	for i := range first {
		assert.Equal(t, ids(first[i].ChildNodes()), ids(second[i].ChildNodes()))
	}
}

func TestBuildHierarchy_DoesNotAliasInputPath(t *testing.T) {
	records := []Record{rec("a", "A", "a")}
	forest := BuildHierarchy(records)
	records[0].Path[0] = "changed"
	assert.Equal(t, []string{"a"}, forest[0].Path)
}

func TestNode_DetachChildren(t *testing.T) {
	forest := BuildHierarchy(sampleRecords())
	a := forest[0]

	children := a.DetachChildren()
	assert.Equal(t, []string{"b", "c"}, ids(children))
	assert.True(t, a.Delivered())
	assert.True(t, a.HasChildren)
	assert.Nil(t, a.ChildNodes())
	assert.Nil(t, a.DetachChildren())
}

func TestNode_MarshalJSON_OmitsChildren(t *testing.T) {
	forest := BuildHierarchy(sampleRecords())

	data, err := json.Marshal(forest[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","data_path":["a"],"name":"A","hasChildren":true}`, string(data))
}

func TestRecord_ParentID(t *testing.T) {
	_, ok := rec("a", "A", "a").ParentID()
	assert.False(t, ok)

	parent, ok := rec("e", "E", "a", "b", "e").ParentID()
	assert.True(t, ok)
	assert.Equal(t, "b", parent)
}
