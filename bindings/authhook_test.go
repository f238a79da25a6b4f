package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathkv/pathkv/pkg/types"
)

func TestTokenHookRequiresMatchingSecret(t *testing.T) {
	h := tokenHook{secret: "s3cr3t"}

	err := h.Allow(types.OpRead, "/a", types.AuthContext{Token: "s3cr3t"})
	assert.NoError(t, err)

	err = h.Allow(types.OpRead, "/a", types.AuthContext{Token: "wrong"})
	assert.ErrorIs(t, err, types.ErrAuthFailed)
}

func TestPathRulesHookLongestPrefixWins(t *testing.T) {
	hook, err := parseRules(`[
		{"prefix": "/", "read": true, "write": false},
		{"prefix": "/admin", "read": true, "write": true}
	]`)
	require.NoError(t, err)

	assert.NoError(t, hook.Allow(types.OpRead, "/public", types.AuthContext{}))
	assert.Error(t, hook.Allow(types.OpWrite, "/public", types.AuthContext{}))
	assert.NoError(t, hook.Allow(types.OpWrite, "/admin/x", types.AuthContext{}))
}

func TestPathRulesHookDeniesUnmatchedPath(t *testing.T) {
	hook, err := parseRules(`[{"prefix": "/admin", "read": true, "write": true}]`)
	require.NoError(t, err)

	assert.ErrorIs(t, hook.Allow(types.OpRead, "/other", types.AuthContext{}), types.ErrAccessDenied)
}

func TestParseRulesRejectsInvalidJSON(t *testing.T) {
	_, err := parseRules("not json")
	assert.Error(t, err)
}
