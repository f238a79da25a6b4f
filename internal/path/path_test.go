package path

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("root", func(t *testing.T) {
		p, err := Normalize("/")
		require.NoError(t, err)
		assert.True(t, p.IsRoot())
	})

	t.Run("strips trailing slash", func(t *testing.T) {
		p, err := Normalize("/a/b/")
		require.NoError(t, err)
		assert.Equal(t, "/a/b", p.String())
	})

	cases := []string{"", "a/b", "//", "/a//b", strings.Repeat("/a", 1000)}
	for _, c := range cases {
		c := c
		t.Run("invalid_"+c, func(t *testing.T) {
			_, err := Normalize(c)
			require.Error(t, err)
		})
	}

	t.Run("length ceiling", func(t *testing.T) {
		long := "/" + strings.Repeat("a", MaxLength)
		_, err := Normalize(long)
		require.Error(t, err)
	})
}

func TestSegmentsAndParent(t *testing.T) {
	p, err := Normalize("/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, Segments(p))

	root, _ := Normalize("/")
	assert.Nil(t, Segments(root))

	parent, ok := Parent(p)
	require.True(t, ok)
	assert.Equal(t, "/a/b", parent.String())

	parent, ok = Parent(Path("/a"))
	require.True(t, ok)
	assert.True(t, parent.IsRoot())

	_, ok = Parent(Path("/"))
	assert.False(t, ok)
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("/users/alice", "/users/*"))
	assert.True(t, Matches("/users/alice", "/users/alice"))
	assert.False(t, Matches("/users/alice/email", "/users/*"))
	assert.False(t, Matches("/users", "/users/*"))
}

func TestExtract(t *testing.T) {
	bindings, err := Extract("/users/alice/email", "/users/$name/$field")
	require.NoError(t, err)
	assert.Equal(t, "alice", bindings["name"])
	assert.Equal(t, "email", bindings["field"])

	_, err = Extract("/users/alice", "/users/$name/$field")
	require.Error(t, err)

	_, err = Extract("/accounts/alice", "/users/$name")
	require.Error(t, err)
}

func TestHasPrefixAndChildPrefix(t *testing.T) {
	root := Path("/")
	assert.Equal(t, "/", ChildPrefix(root))
	assert.True(t, HasPrefix(root, "/anything/at/all"))

	p := Path("/a/b")
	assert.Equal(t, "/a/b/", ChildPrefix(p))
	assert.True(t, HasPrefix(p, "/a/b"))
	assert.True(t, HasPrefix(p, "/a/b/c"))
	assert.False(t, HasPrefix(p, "/a/bc"))
}
