package rowmodel

import (
	"context"
	"errors"
	"testing"

	"github.com/mholzen/treegrid/pkg/hierarchy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string, path ...string) hierarchy.Record {
	return hierarchy.Record{ID: id, Path: path, Name: id}
}

func ids(nodes []*hierarchy.Node) []string {
	result := make([]string, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, n.ID)
	}
	return result
}

func deepRecords() StaticSource {
	return StaticSource{
		rec("r1", "r1"),
		rec("a", "r1", "a"),
		rec("a1", "r1", "a", "a1"),
		rec("a2", "r1", "a", "a2"),
		rec("b", "r1", "b"),
		rec("r2", "r2"),
		rec("r3", "r3"),
		rec("c", "r3", "c"),
		rec("c1", "r3", "c", "c1"),
		rec("orphan", "ghost", "orphan"),
	}
}

func TestGetRows_Example(t *testing.T) {
	source := StaticSource{
		{ID: "a", Path: []string{"a"}, Name: "A"},
		{ID: "b", Path: []string{"a", "b"}, Name: "B"},
		{ID: "c", Path: []string{"a", "c"}, Name: "C"},
	}
	provider := NewProvider(source)
	recorder := &Recorder{}

	provider.GetRows(context.Background(), Request{StartIndex: 0, EndIndex: 10}, recorder)

	require.Len(t, recorder.Events, 2)
	success := recorder.Events[0]
	assert.Equal(t, EventSuccess, success.Type)
	assert.Equal(t, []string{"a"}, ids(success.Rows))
	assert.Equal(t, 1, success.TotalCount)
	assert.True(t, success.Rows[0].HasChildren)

	push := recorder.Events[1]
	assert.Equal(t, EventPush, push.Type)
	assert.Equal(t, []string{"a"}, push.Route)
	assert.Equal(t, []string{"b", "c"}, ids(push.Rows))
	assert.Equal(t, 2, push.TotalCount)
}

func TestGetRows_EagerDeliveryOrderAndCompleteness(t *testing.T) {
	provider := NewProvider(deepRecords())
	recorder := &Recorder{}

	provider.GetRows(context.Background(), Request{StartIndex: 0, EndIndex: 1}, recorder)

	require.True(t, recorder.Succeeded())
	assert.Equal(t, []string{"r1"}, ids(recorder.Events[0].Rows))
	assert.Equal(t, 3, recorder.Events[0].TotalCount)

	pushes := recorder.Pushes()
	var routes [][]string
	for _, p := range pushes {
		routes = append(routes, p.Route)
	}
	assert.Equal(t, [][]string{
		{"r1"},
		{"r1", "a"},
		{"r3"},
		{"r3", "c"},
	}, routes)
	assert.Equal(t, []string{"a", "b"}, ids(pushes[0].Rows))
	assert.Equal(t, []string{"a1", "a2"}, ids(pushes[1].Rows))
	assert.Equal(t, []string{"c"}, ids(pushes[2].Rows))
	assert.Equal(t, []string{"c1"}, ids(pushes[3].Rows))
	assert.Equal(t, Delivered, provider.State())
}

func TestGetRows_DeliveryDetachesChildren(t *testing.T) {
	provider := NewProvider(deepRecords())
	provider.GetRows(context.Background(), Request{EndIndex: 10}, &Recorder{})

	for _, root := range provider.Forest() {
		assert.Nil(t, root.ChildNodes(), "root %s", root.ID)
		assert.True(t, root.Delivered())
	}
	assert.True(t, provider.Forest()[0].HasChildren)
}

func TestGetRows_SecondRootRequestPushesNothing(t *testing.T) {
	calls := 0
	source := SourceFunc(func(ctx context.Context) ([]hierarchy.Record, error) {
		calls++
		return deepRecords(), nil
	})
	provider := NewProvider(source)

	provider.GetRows(context.Background(), Request{StartIndex: 0, EndIndex: 2}, &Recorder{})

	second := &Recorder{}
	provider.GetRows(context.Background(), Request{StartIndex: 2, EndIndex: 4}, second)

	require.Len(t, second.Events, 1)
	assert.Equal(t, []string{"r3"}, ids(second.Events[0].Rows))
	assert.Equal(t, 3, second.Events[0].TotalCount)
	assert.Equal(t, 1, calls)
}

func TestGetRows_NonRootAlwaysFails(t *testing.T) {
	tests := []struct {
		name      string
		groupPath []string
	}{
		{"valid path", []string{"r1"}},
		{"nested valid path", []string{"r1", "a"}},
		{"unknown path", []string{"nope"}},
		{"empty key", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewProvider(deepRecords())
			recorder := &Recorder{}

			provider.GetRows(context.Background(), Request{GroupPath: tt.groupPath, EndIndex: 10}, recorder)

			require.Len(t, recorder.Events, 1)
			assert.Equal(t, EventFail, recorder.Events[0].Type)
			assert.ErrorIs(t, recorder.Err, ErrUnsupportedRequest)
			assert.Equal(t, Uninitialized, provider.State())
		})
	}
}

func TestGetRows_NonRootFailsAfterDelivery(t *testing.T) {
	provider := NewProvider(deepRecords())
	provider.GetRows(context.Background(), Request{EndIndex: 10}, &Recorder{})

	recorder := &Recorder{}
	provider.GetRows(context.Background(), Request{GroupPath: []string{"r1"}, EndIndex: 10}, recorder)
	assert.ErrorIs(t, recorder.Err, ErrUnsupportedRequest)
	assert.Empty(t, recorder.Pushes())
}

func TestGetRows_Pagination(t *testing.T) {
	tests := []struct {
		start, end int
		expected   []string
	}{
		{0, 10, []string{"r1", "r2", "r3"}},
		{0, 2, []string{"r1", "r2"}},
		{1, 3, []string{"r2", "r3"}},
		{2, 100, []string{"r3"}},
		{3, 5, []string{}},
		{10, 20, []string{}},
		{2, 1, []string{}},
		{-1, 1, []string{"r1"}},
	}

	for _, tt := range tests {
		provider := NewProvider(deepRecords())
		recorder := &Recorder{}
		provider.GetRows(context.Background(), Request{StartIndex: tt.start, EndIndex: tt.end}, recorder)

		require.True(t, recorder.Succeeded(), "range [%d,%d)", tt.start, tt.end)
		assert.Equal(t, tt.expected, ids(recorder.Events[0].Rows), "range [%d,%d)", tt.start, tt.end)
		assert.Equal(t, 3, recorder.Events[0].TotalCount)
	}
}

func TestGetRows_SourceError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	source := SourceFunc(func(ctx context.Context) ([]hierarchy.Record, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return deepRecords(), nil
	})
	provider := NewProvider(source)

	recorder := &Recorder{}
	provider.GetRows(context.Background(), Request{EndIndex: 10}, recorder)
	require.Len(t, recorder.Events, 1)
	assert.ErrorIs(t, recorder.Err, boom)
	assert.Contains(t, recorder.Err.Error(), "cannot load records")
	assert.Equal(t, Uninitialized, provider.State())

	retry := &Recorder{}
	provider.GetRows(context.Background(), Request{EndIndex: 10}, retry)
	assert.True(t, retry.Succeeded())
	assert.Equal(t, 2, calls)
}

func TestGetRows_LeavesOnlyNoPushes(t *testing.T) {
	provider := NewProvider(StaticSource{rec("a", "a"), rec("b", "b")})
	recorder := &Recorder{}
	provider.GetRows(context.Background(), Request{EndIndex: 10}, recorder)

	assert.Len(t, recorder.Events, 1)
	assert.Empty(t, recorder.Pushes())
	assert.Equal(t, Delivered, provider.State())
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		start, end, n int
		lo, hi        int
	}{
		{0, 5, 10, 0, 5},
		{5, 15, 10, 5, 10},
		{12, 15, 10, 10, 10},
		{-3, 2, 10, 0, 2},
		{4, 2, 10, 4, 4},
		{0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		lo, hi := PageBounds(tt.start, tt.end, tt.n)
		assert.Equal(t, tt.lo, lo)
		assert.Equal(t, tt.hi, hi)
		assert.GreaterOrEqual(t, hi-lo, 0)
	}
}

func TestPredicates(t *testing.T) {
	forest := hierarchy.BuildHierarchy(deepRecords())
	r1, r2 := forest[0], forest[1]

	assert.True(t, IsGroupNode(r1))
	assert.False(t, IsGroupNode(r2))
	assert.False(t, IsGroupNode(nil))
	assert.Equal(t, "r1", GroupKey(r1))
	assert.Equal(t, []string{"r1"}, DataPath(r1))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "delivered", Delivered.String())
	assert.Equal(t, "state(42)", State(42).String())
}
