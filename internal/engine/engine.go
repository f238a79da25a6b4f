// Package engine is the storage engine: decomposition-on-write,
// cursor-driven reconstruction-on-read, delete-with-subtree, shallow
// merge-update, and existence/listing operations. It is the hard part of
// pathkv — everything else in the module exists to support it.
package engine

import (
	"github.com/pathkv/pathkv/internal/authz"
	"github.com/pathkv/pathkv/internal/event"
	"github.com/pathkv/pathkv/internal/kvstore"
	"github.com/pathkv/pathkv/internal/path"
	"github.com/pathkv/pathkv/internal/pathkvlog"
	"github.com/pathkv/pathkv/pkg/types"
)

// Engine ties the ordered-store adapter to the decomposition/reconstruction
// protocol and the event pipeline. It is safe for concurrent use: reads may
// run concurrently with each other and with at most one in-flight write,
// which kvstore.Env enforces.
type Engine struct {
	env       *kvstore.Env
	emitter   *event.Emitter
	queue     *event.Queue
	authHook  authz.Hook
	names     *nameCache
	inHook    bool // guards against a hook attempting a write
}

// New wraps env with the default allow-all authorization hook and an
// emitter with no subscribers.
func New(env *kvstore.Env) *Engine {
	return &Engine{
		env:      env,
		emitter:  event.NewEmitter(),
		authHook: authz.AllowAll{},
		names:    newNameCache(1024),
	}
}

// SetEventEmitter installs e as the in-process dispatch target. Passing
// nil restores a fresh, subscriber-less emitter (effectively disabling
// dispatch without disabling the queue).
func (eng *Engine) SetEventEmitter(e *event.Emitter) {
	if e == nil {
		e = event.NewEmitter()
	}
	eng.emitter = e
}

// SetAuthHook installs hook as the authorization collaborator. Passing nil
// restores allow-all.
func (eng *Engine) SetAuthHook(hook authz.Hook) {
	if hook == nil {
		hook = authz.AllowAll{}
	}
	eng.authHook = hook
}

// EnableEventQueue switches the engine into queued mode: post-commit
// events are additionally appended to a lock-free SPSC ring of the given
// capacity, for a host-side drain loop to consume.
func (eng *Engine) EnableEventQueue(capacity int, policy event.OverflowPolicy) {
	eng.queue = event.NewQueue(capacity, policy)
}

// Queue exposes the event queue for hosts that enabled it (nil otherwise).
func (eng *Engine) Queue() *event.Queue { return eng.queue }

// Emitter exposes the in-process emitter so hosts can Subscribe directly.
func (eng *Engine) Emitter() *event.Emitter { return eng.emitter }

// authorize runs the authorization hook for op on p. While the hook itself
// is running, the engine is marked as "in a hook": a hook closure that
// tries to initiate a write (by calling back into Set/Delete/Update on the
// same Engine) is rejected, but it may freely call Get/Exists/List for
// read-only introspection. inHook is a best-effort, single-flag
// guard, not a per-goroutine one — adequate because a write already
// serializes with Update's single-writer semantics; it does not attempt to
// catch a hook on one goroutine racing a write authorized on another.
func (eng *Engine) authorize(op types.Op, p path.Path, auth types.AuthContext) error {
	if eng.inHook && op != types.OpRead {
		return types.ErrAccessDenied.Wrapf(nil, "writes are not permitted from within an authorization hook")
	}

	wasInHook := eng.inHook
	eng.inHook = true
	err := eng.authHook.Allow(op, p.String(), auth)
	eng.inHook = wasInHook

	if err != nil {
		return types.ErrAccessDenied.Wrap(err)
	}
	return nil
}

// Set normalizes path, authorizes the write, decomposes value into one
// backing-store entry per primitive leaf (plus array-length sentinels),
// commits, and dispatches a ValueChanged event.
func (eng *Engine) Set(rawPath string, value types.Value, auth types.AuthContext) error {
	p, err := path.Normalize(rawPath)
	if err != nil {
		return err
	}
	if err := eng.authorize(types.OpWrite, p, auth); err != nil {
		return err
	}

	var old types.Value
	hasOld := false
	hasSubs := eng.emitter.HasSubscribers() || eng.queue != nil
	if hasSubs {
		old, err = eng.getLocked(p, auth, true)
		hasOld = err == nil
		if err != nil && !isNotFound(err) {
			return err
		}
	}

	err = eng.env.Update(func(tx *kvstore.Tx) error {
		return setRecursive(tx, p.String(), value)
	})
	if err != nil {
		pathkvlog.Warn("set: commit failed", "path", p.String(), "err", err)
		return err
	}
	eng.names.invalidate(p)

	if hasSubs {
		ev := types.Event{Type: types.EventChanged, Path: p.String(), New: value, Old: old, HasOld: hasOld}
		eng.publish(ev)
	}
	return nil
}

// Get normalizes path, authorizes the read, and resolves the value: a
// point lookup first, falling back to cursor-driven subtree reconstruction
// when no exact entry exists but at least one descendant does.
func (eng *Engine) Get(rawPath string, auth types.AuthContext) (types.Value, error) {
	p, err := path.Normalize(rawPath)
	if err != nil {
		return types.Value{}, err
	}
	if err := eng.authorize(types.OpRead, p, auth); err != nil {
		return types.Value{}, err
	}
	return eng.getLocked(p, auth, false)
}

// getLocked is Get without the authorization check, used by Get itself
// after authorizing and by Set and Delete (fetching old values). The
// AuthContext and bool parameters are unused.
func (eng *Engine) getLocked(p path.Path, _ types.AuthContext, _ bool) (types.Value, error) {
	var result types.Value
	err := eng.env.View(func(tx *kvstore.Tx) error {
		v, found, rerr := resolveAt(tx, p.String(), p.IsRoot())
		if rerr != nil {
			return rerr
		}
		if !found {
			return types.ErrNotFound
		}
		result = v
		return nil
	})
	if err != nil {
		return types.Value{}, err
	}
	return result, nil
}

// Delete removes path and every descendant in a single write transaction,
// then dispatches a ValueDeleted event carrying the old value if it was
// fetched. Deleting an absent path is a no-op that returns
// success without emitting an event (idempotence).
func (eng *Engine) Delete(rawPath string, auth types.AuthContext) error {
	p, err := path.Normalize(rawPath)
	if err != nil {
		return err
	}
	if err := eng.authorize(types.OpDelete, p, auth); err != nil {
		return err
	}

	old, err := eng.getLocked(p, auth, true)
	hasOld := err == nil
	if err != nil && !isNotFound(err) {
		return err
	}
	if !hasOld {
		// Nothing exists at path or under it: delete is idempotent, a
		// no-op that emits no event.
		return nil
	}
	hasSubs := eng.emitter.HasSubscribers() || eng.queue != nil

	err = eng.env.Update(func(tx *kvstore.Tx) error {
		return deleteSubtreeKeys(tx, p)
	})
	if err != nil {
		return err
	}
	eng.names.invalidate(p)

	if hasSubs {
		eng.publish(types.Event{Type: types.EventDeleted, Path: p.String(), Old: old, HasOld: hasOld})
	}
	return nil
}

// Update applies patch (which must be an object) as a shallow merge onto
// whatever object currently exists at path, then writes the merge result
// with Set. If nothing exists at path, Update behaves as Set(path, patch)
//.
func (eng *Engine) Update(rawPath string, patch types.Value, auth types.AuthContext) error {
	if !patch.IsObject() {
		return types.ErrInvalidArgument.Wrapf(nil, "update patch must be an object")
	}
	p, err := path.Normalize(rawPath)
	if err != nil {
		return err
	}

	current, err := eng.Get(p.String(), auth)
	switch {
	case isNotFound(err):
		return eng.Set(p.String(), patch, auth)
	case err != nil:
		return err
	case !current.IsObject():
		return types.ErrInvalidPath.Wrapf(nil, "cannot merge-update a non-object value at %s", p)
	}

	merged := current.Clone()
	for k, v := range patch.Obj {
		merged.Obj[k] = v
	}
	return eng.Set(p.String(), merged, auth)
}

// Exists reports whether Get(path) would succeed, preferring a
// point-existence test before falling back to a cursor-seek prefix test;
// both forms agree by construction.
func (eng *Engine) Exists(rawPath string, auth types.AuthContext) (bool, error) {
	p, err := path.Normalize(rawPath)
	if err != nil {
		return false, err
	}
	if err := eng.authorize(types.OpRead, p, auth); err != nil {
		return false, err
	}
	if p.IsRoot() {
		return true, nil
	}

	var exists bool
	err = eng.env.View(func(tx *kvstore.Tx) error {
		if _, ok := tx.Get([]byte(p.String())); ok {
			exists = true
			return nil
		}
		if names, cached := eng.names.get(p); cached {
			exists = len(names) > 0
			return nil
		}
		c := tx.Cursor()
		prefix := []byte(path.ChildPrefix(p))
		k, _, ok := c.Seek(prefix)
		exists = ok && kvstore.HasPrefix(k, prefix)
		return nil
	})
	return exists, err
}

// List returns the direct-child segment names at parent, computed by the
// same single forward cursor pass as reconstruction but without recursing
// into grandchildren.
func (eng *Engine) List(rawPath string, auth types.AuthContext) ([]string, error) {
	p, err := path.Normalize(rawPath)
	if err != nil {
		return nil, err
	}
	if err := eng.authorize(types.OpRead, p, auth); err != nil {
		return nil, err
	}

	if names, ok := eng.names.get(p); ok {
		return names, nil
	}

	var names []string
	err = eng.env.View(func(tx *kvstore.Tx) error {
		names = directChildNames(tx, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	eng.names.put(p, names)
	return names, nil
}

func (eng *Engine) publish(ev types.Event) {
	if eng.queue != nil {
		eng.queue.Push(ev)
	}
	eng.emitter.Dispatch(ev)
}

func isNotFound(err error) bool {
	e, ok := err.(*types.Error)
	return ok && e.Kind == types.ErrKindNotFound
}
