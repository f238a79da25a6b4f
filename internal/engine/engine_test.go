package engine

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathkv/pathkv/internal/authz"
	"github.com/pathkv/pathkv/internal/kvstore"
	"github.com/pathkv/pathkv/internal/value"
	"github.com/pathkv/pathkv/pkg/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	env, err := kvstore.Open(t.TempDir(), types.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return New(env)
}

var noAuth = types.AuthContext{}

func TestScenario1_ObjectDecomposition(t *testing.T) {
	eng := newTestEngine(t)
	v := types.Object(map[string]types.Value{
		"name": types.String("Alice"),
		"age":  types.Number(30),
	})
	require.NoError(t, eng.Set("/u/1", v, noAuth))

	name, err := eng.Get("/u/1/name", noAuth)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.String("Alice"), name))

	age, err := eng.Get("/u/1/age", noAuth)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.Number(30), age))

	whole, err := eng.Get("/u/1", noAuth)
	require.NoError(t, err)
	assert.True(t, types.Equal(v, whole))
}

func TestScenario2_ArraySentinel(t *testing.T) {
	eng := newTestEngine(t)
	v := types.Array(
		types.Number(10),
		types.Number(20),
		types.Object(map[string]types.Value{"k": types.String("v")}),
	)
	require.NoError(t, eng.Set("/arr", v, noAuth))

	got, err := eng.Get("/arr", noAuth)
	require.NoError(t, err)
	assert.True(t, types.Equal(v, got))

	leaf, err := eng.Get("/arr/2/k", noAuth)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.String("v"), leaf))
}

func TestScenario3_DeepPathAndDelete(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Set("/a/b/c/d", types.String("deep"), noAuth))

	a, err := eng.Get("/a", noAuth)
	require.NoError(t, err)
	want := types.Object(map[string]types.Value{
		"b": types.Object(map[string]types.Value{
			"c": types.Object(map[string]types.Value{"d": types.String("deep")}),
		}),
	})
	assert.True(t, types.Equal(want, a))

	c, err := eng.Get("/a/b/c", noAuth)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.Object(map[string]types.Value{"d": types.String("deep")}), c))

	require.NoError(t, eng.Delete("/a/b", noAuth))
	_, err = eng.Get("/a/b", noAuth)
	require.Error(t, err)

	// /a had no entries of its own and no children remain under it, so it
	// no longer resolves as an (empty) object — only the root is always
	// present with no stored entries.
	_, err = eng.Get("/a", noAuth)
	require.Error(t, err)
}

func TestScenario4_SkipAheadBulk(t *testing.T) {
	eng := newTestEngine(t)
	for i := 0; i < 1000; i++ {
		require.NoError(t, eng.Set("/u/"+strconv.Itoa(i), types.Number(float64(i)), noAuth))
		require.NoError(t, eng.Set("/p/"+strconv.Itoa(i), types.Number(float64(i)), noAuth))
	}

	got, err := eng.Get("/u", noAuth)
	require.NoError(t, err)
	require.True(t, got.IsObject())
	assert.Len(t, got.Obj, 1000)
	assert.True(t, types.Equal(types.Number(42), got.Obj["42"]))
}

func TestScenario5_EventOrdering(t *testing.T) {
	eng := newTestEngine(t)
	var events []types.Event
	eng.Emitter().Subscribe("/users/*", false, func(ev types.Event) {
		events = append(events, ev)
	})

	require.NoError(t, eng.Set("/users/a", types.Number(1), noAuth))
	require.NoError(t, eng.Set("/users/b", types.Number(2), noAuth))
	require.NoError(t, eng.Delete("/users/a", noAuth))

	require.Len(t, events, 3)
	assert.Equal(t, types.EventChanged, events[0].Type)
	assert.Equal(t, "/users/a", events[0].Path)
	assert.False(t, events[0].HasOld)
	assert.Equal(t, types.EventChanged, events[1].Type)
	assert.Equal(t, "/users/b", events[1].Path)
	assert.Equal(t, types.EventDeleted, events[2].Type)
	assert.Equal(t, "/users/a", events[2].Path)
	assert.True(t, events[2].HasOld)
	assert.True(t, types.Equal(types.Number(1), events[2].Old))
}

func TestScenario6_LegacyBranchMarker(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.env.Update(func(tx *kvstore.Tx) error {
		if err := tx.Put([]byte("/legacy"), []byte("__branch__")); err != nil {
			return err
		}
		enc, err := value.Encode(types.String("y"))
		if err != nil {
			return err
		}
		return tx.Put([]byte("/legacy/x"), enc)
	}))

	got, err := eng.Get("/legacy", noAuth)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.Object(map[string]types.Value{"x": types.String("y")}), got))

	// current writers never rewrite /legacy itself
	err = eng.env.View(func(tx *kvstore.Tx) error {
		v, ok := tx.Get([]byte("/legacy"))
		require.True(t, ok)
		assert.Equal(t, "__branch__", string(v))
		return nil
	})
	require.NoError(t, err)
}

func TestIdempotentDelete(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Set("/x", types.Number(1), noAuth))
	require.NoError(t, eng.Delete("/x", noAuth))

	var fired bool
	eng.Emitter().Subscribe("/x", false, func(types.Event) { fired = true })
	require.NoError(t, eng.Delete("/x", noAuth))
	assert.False(t, fired)
}

func TestUpdateShallowMerge(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Set("/doc", types.Object(map[string]types.Value{
		"a": types.Number(1),
		"b": types.Object(map[string]types.Value{"x": types.Number(1)}),
	}), noAuth))

	require.NoError(t, eng.Update("/doc", types.Object(map[string]types.Value{
		"b": types.Object(map[string]types.Value{"y": types.Number(2)}),
		"c": types.Number(3),
	}), noAuth))

	got, err := eng.Get("/doc", noAuth)
	require.NoError(t, err)
	want := types.Object(map[string]types.Value{
		"a": types.Number(1),
		"b": types.Object(map[string]types.Value{"y": types.Number(2)}), // replaced, not deep-merged
		"c": types.Number(3),
	})
	assert.True(t, types.Equal(want, got))
}

func TestUpdateOnMissingPathBehavesAsSet(t *testing.T) {
	eng := newTestEngine(t)
	patch := types.Object(map[string]types.Value{"a": types.Number(1)})
	require.NoError(t, eng.Update("/new", patch, noAuth))

	got, err := eng.Get("/new", noAuth)
	require.NoError(t, err)
	assert.True(t, types.Equal(patch, got))
}

func TestUpdateRejectsNonObjectTarget(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Set("/leaf", types.String("hi"), noAuth))
	err := eng.Update("/leaf", types.Object(map[string]types.Value{"a": types.Number(1)}), noAuth)
	require.Error(t, err)
}

func TestArrayShrinkDeletesOrphans(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Set("/arr", types.Array(types.Number(1), types.Number(2), types.Number(3)), noAuth))
	require.NoError(t, eng.Set("/arr", types.Array(types.Number(9)), noAuth))

	got, err := eng.Get("/arr", noAuth)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.Array(types.Number(9)), got))

	err = eng.env.View(func(tx *kvstore.Tx) error {
		_, ok := tx.Get([]byte("/arr/1"))
		assert.False(t, ok)
		_, ok = tx.Get([]byte("/arr/2"))
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestObjectOverwritesStalePrimitive(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Set("/p", types.String("leaf"), noAuth))
	require.NoError(t, eng.Set("/p", types.Object(map[string]types.Value{"a": types.Number(1)}), noAuth))

	got, err := eng.Get("/p", noAuth)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.Object(map[string]types.Value{"a": types.Number(1)}), got))
}

func TestExistsAgreesWithGet(t *testing.T) {
	eng := newTestEngine(t)
	ok, err := eng.Exists("/missing", noAuth)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, eng.Set("/present/child", types.Number(1), noAuth))
	ok, err = eng.Exists("/present", noAuth)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = eng.Exists("/", noAuth)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListReturnsDirectChildrenOnly(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Set("/a/b/c", types.Number(1), noAuth))
	require.NoError(t, eng.Set("/a/d", types.Number(2), noAuth))

	names, err := eng.List("/a", noAuth)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "d"}, names)

	// served from cache on the second call
	names2, err := eng.List("/a", noAuth)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "d"}, names2)
}

func TestListAndExistsSeeDeepWritesAfterCaching(t *testing.T) {
	eng := newTestEngine(t)

	// Cache "/a" as empty before anything exists under it.
	names, err := eng.List("/a", noAuth)
	require.NoError(t, err)
	assert.Empty(t, names)
	ok, err := eng.Exists("/a", noAuth)
	require.NoError(t, err)
	assert.False(t, ok)

	// A write two levels down must invalidate every ancestor up to "/a",
	// not just its immediate parent "/a/b".
	require.NoError(t, eng.Set("/a/b/c", types.Number(1), noAuth))

	names, err = eng.List("/a", noAuth)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b"}, names)
	ok, err = eng.Exists("/a", noAuth)
	require.NoError(t, err)
	assert.True(t, ok)

	// Re-cache, then delete the deep descendant and confirm the ancestor
	// chain is invalidated symmetrically on delete.
	_, err = eng.List("/a", noAuth)
	require.NoError(t, err)
	require.NoError(t, eng.Delete("/a/b/c", noAuth))

	names, err = eng.List("/a", noAuth)
	require.NoError(t, err)
	assert.Empty(t, names)
	ok, err = eng.Exists("/a", noAuth)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthHookDeniesWrite(t *testing.T) {
	eng := newTestEngine(t)
	eng.SetAuthHook(authz.Func(func(op types.Op, _ string, _ types.AuthContext) error {
		if op == types.OpWrite {
			return types.ErrAccessDenied
		}
		return nil
	}))
	err := eng.Set("/x", types.Number(1), noAuth)
	require.Error(t, err)
}

func TestAuthHookCannotInitiateNestedWrite(t *testing.T) {
	eng := newTestEngine(t)
	var nestedErr error
	eng.SetAuthHook(authz.Func(func(op types.Op, path string, auth types.AuthContext) error {
		if op == types.OpRead && path == "/y" {
			nestedErr = eng.Set("/y", types.Number(99), auth)
		}
		return nil
	}))
	require.NoError(t, eng.Set("/y", types.Number(1), noAuth))
	_, err := eng.Get("/y", noAuth)
	require.NoError(t, err)
	require.Error(t, nestedErr)
}

func TestVerifyReportsLegacyMarkerAndOrphans(t *testing.T) {
	eng := newTestEngine(t)
	err := eng.env.Update(func(tx *kvstore.Tx) error {
		if err := tx.Put([]byte("/legacy"), []byte("__branch__")); err != nil {
			return err
		}
		if err := tx.Put([]byte("/arr"), []byte("__array__:1")); err != nil {
			return err
		}
		enc, err := value.Encode(types.Number(1))
		if err != nil {
			return err
		}
		return tx.Put([]byte("/arr/5"), enc)
	})
	require.NoError(t, err)

	diags, err := eng.Verify()
	require.NoError(t, err)
	require.Len(t, diags, 2)
}
