package main

import (
	"encoding/json"
	"strings"

	"github.com/pathkv/pathkv/internal/authz"
	"github.com/pathkv/pathkv/pkg/types"
)

// tokenHook enforces enable_auth's shared-secret contract: every call must
// carry an AuthContext.Token equal to secret, or be refused.
type tokenHook struct {
	secret string
	next   authz.Hook // optional hook consulted after the token check; pathkv_enable_auth leaves it nil
}

func (h tokenHook) Allow(op types.Op, path string, auth types.AuthContext) error {
	if auth.Token != h.secret {
		return types.ErrAuthFailed
	}
	if h.next != nil {
		return h.next.Allow(op, path, auth)
	}
	return nil
}

// pathRule is one entry of the rules_json array enable_rules accepts:
// {"prefix": "/admin", "read": true, "write": false}.
type pathRule struct {
	Prefix string `json:"prefix"`
	Read   bool   `json:"read"`
	Write  bool   `json:"write"`
}

// pathRulesHook grants or denies by longest-matching-prefix rule. A path
// matching no rule is denied, the conservative default for an explicit
// rules engine.
type pathRulesHook struct {
	rules []pathRule
}

func parseRules(rulesJSON string) (*pathRulesHook, error) {
	var rules []pathRule
	if err := json.Unmarshal([]byte(rulesJSON), &rules); err != nil {
		return nil, types.ErrInvalidArgument.Wrap(err)
	}
	return &pathRulesHook{rules: rules}, nil
}

func (h *pathRulesHook) Allow(op types.Op, path string, _ types.AuthContext) error {
	best := -1
	var bestRule pathRule
	for _, r := range h.rules {
		if !strings.HasPrefix(path, r.Prefix) {
			continue
		}
		if len(r.Prefix) > best {
			best = len(r.Prefix)
			bestRule = r
		}
	}
	if best < 0 {
		return types.ErrAccessDenied
	}
	if op == types.OpRead && bestRule.Read {
		return nil
	}
	if (op == types.OpWrite || op == types.OpDelete) && bestRule.Write {
		return nil
	}
	return types.ErrAccessDenied
}
