package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathkv/pathkv/pkg/types"
)

func TestEmitterWildcardDispatchOrder(t *testing.T) {
	e := NewEmitter()
	var got []string

	e.Subscribe("/users/*", false, func(ev types.Event) {
		got = append(got, ev.Path)
	})

	e.Dispatch(types.Event{Type: types.EventChanged, Path: "/users/a", New: types.Number(1)})
	e.Dispatch(types.Event{Type: types.EventChanged, Path: "/users/b", New: types.Number(2)})
	e.Dispatch(types.Event{Type: types.EventDeleted, Path: "/users/a"})
	e.Dispatch(types.Event{Type: types.EventChanged, Path: "/other/a", New: types.Number(3)})

	require.Equal(t, []string{"/users/a", "/users/b", "/users/a"}, got)
}

func TestEmitterCancel(t *testing.T) {
	e := NewEmitter()
	fired := false
	sub := e.Subscribe("/x", false, func(types.Event) { fired = true })
	e.Cancel(sub)
	e.Dispatch(types.Event{Path: "/x"})
	assert.False(t, fired)
}

func TestEmitterIncludeChildren(t *testing.T) {
	e := NewEmitter()
	var got []string
	e.Subscribe("/a/b", true, func(ev types.Event) { got = append(got, ev.Path) })

	e.Dispatch(types.Event{Path: "/a/b"})
	e.Dispatch(types.Event{Path: "/a/b/c"})
	e.Dispatch(types.Event{Path: "/a/bc"})

	require.Equal(t, []string{"/a/b", "/a/b/c"}, got)
}

func TestHasSubscribers(t *testing.T) {
	e := NewEmitter()
	assert.False(t, e.HasSubscribers())
	e.Subscribe("/x", false, func(types.Event) {})
	assert.True(t, e.HasSubscribers())
}
