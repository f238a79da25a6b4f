// Package authz defines the pluggable authorization collaborator the
// engine calls synchronously before every operation. The engine
// depends only on the Hook interface; JWT issuance/validation and a
// rules engine are external collaborators reached only through it.
package authz

import "github.com/pathkv/pathkv/pkg/types"

// Hook is consulted by the engine with (op, normalized path, auth
// context) before the operation proceeds. It must be safe to call from
// the engine's calling goroutine and reentrant-safe for read-only calls
// back into the engine (e.g. a rule that inspects existing data), but must
// never itself initiate a write — the engine rejects recursive writes
// from within a hook call.
type Hook interface {
	Allow(op types.Op, path string, auth types.AuthContext) error
}

// AllowAll is the default hook: every operation is permitted.
type AllowAll struct{}

func (AllowAll) Allow(types.Op, string, types.AuthContext) error { return nil }

// Func adapts a plain function to the Hook interface.
type Func func(op types.Op, path string, auth types.AuthContext) error

func (f Func) Allow(op types.Op, path string, auth types.AuthContext) error {
	return f(op, path, auth)
}
