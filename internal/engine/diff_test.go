package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathkv/pathkv/pkg/types"
)

func TestDiffDetectsAddedRemovedModified(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Set("/old", types.Object(map[string]types.Value{
		"a": types.Number(1),
		"b": types.String("same"),
		"c": types.Number(10),
	}), noAuth))
	require.NoError(t, eng.Set("/new", types.Object(map[string]types.Value{
		"b": types.String("same"),
		"c": types.Number(99),
		"d": types.Bool(true),
	}), noAuth))

	entries, err := eng.Diff("/old", "/new", noAuth)
	require.NoError(t, err)

	byPath := map[string]DiffEntry{}
	for _, e := range entries {
		byPath[e.Path] = e
	}

	require.Contains(t, byPath, "/a")
	assert.Equal(t, DiffRemoved, byPath["/a"].Status)
	require.Contains(t, byPath, "/c")
	assert.Equal(t, DiffModified, byPath["/c"].Status)
	require.Contains(t, byPath, "/d")
	assert.Equal(t, DiffAdded, byPath["/d"].Status)
	assert.NotContains(t, byPath, "/b")
}

func TestDiffBothMissingIsEmpty(t *testing.T) {
	eng := newTestEngine(t)
	entries, err := eng.Diff("/nope1", "/nope2", noAuth)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
