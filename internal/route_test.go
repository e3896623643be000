package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	t.Parallel()

	t.Run("splits literals and parameters", func(t *testing.T) {
		t.Parallel()

		p, err := compilePattern("/users/{id}/posts/{post_id}")
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "post_id"}, p.paramNames())
	})

	t.Run("duplicate parameter name is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := compilePattern("/users/{id}/friends/{id}")
		assert.ErrorIs(t, err, ErrDuplicateParam)
	})

	t.Run("empty parameter name is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := compilePattern("/users/{}")
		assert.Error(t, err)
	})
}

func TestPatternMatch(t *testing.T) {
	t.Parallel()

	p, err := compilePattern("/users/{id}/posts")
	require.NoError(t, err)

	t.Run("binds parameter values", func(t *testing.T) {
		t.Parallel()

		params := p.match("/users/42/posts")
		require.NotNil(t, params)
		assert.Equal(t, "42", params["id"])
	})

	t.Run("trailing slash is normalized", func(t *testing.T) {
		t.Parallel()

		assert.NotNil(t, p.match("/users/42/posts/"))
	})

	t.Run("segment count must match", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, p.match("/users/42"))
		assert.Nil(t, p.match("/users/42/posts/7"))
	})

	t.Run("literal mismatch misses", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, p.match("/users/42/comments"))
	})

	t.Run("empty parameter segment misses", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, p.match("/users//posts"))
	})

	t.Run("root pattern matches root path", func(t *testing.T) {
		t.Parallel()

		root, err := compilePattern("/")
		require.NoError(t, err)
		assert.NotNil(t, root.match("/"))
		assert.Nil(t, root.match("/x"))
	})
}

func TestPatternEqual(t *testing.T) {
	t.Parallel()

	compile := func(raw string) *pattern {
		p, err := compilePattern(raw)
		require.NoError(t, err)
		return p
	}

	t.Run("parameter names do not matter", func(t *testing.T) {
		t.Parallel()

		assert.True(t, compile("/users/{id}").equal(compile("/users/{uid}")))
	})

	t.Run("literal versus parameter differs", func(t *testing.T) {
		t.Parallel()

		assert.False(t, compile("/users/me").equal(compile("/users/{id}")))
	})

	t.Run("different literals differ", func(t *testing.T) {
		t.Parallel()

		assert.False(t, compile("/users").equal(compile("/posts")))
	})
}

func TestJoinPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		prefix, path, want string
	}{
		{"", "/users", "/users"},
		{"/api", "/users", "/api/users"},
		{"/api/", "users/", "/api/users"},
		{"/api", "", "/api"},
		{"", "", "/"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, joinPrefix(tc.prefix, tc.path), "join(%q, %q)", tc.prefix, tc.path)
	}
}
