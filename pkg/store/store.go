// Package store is pathkv's public Go API: a thin, documented facade over
// internal/engine — callers never import internal/engine directly.
package store

import (
	"github.com/pathkv/pathkv/internal/authz"
	"github.com/pathkv/pathkv/internal/engine"
	"github.com/pathkv/pathkv/internal/event"
	"github.com/pathkv/pathkv/internal/kvstore"
	"github.com/pathkv/pathkv/pkg/types"
)

// Store is an open handle on a pathkv data directory.
type Store struct {
	env *kvstore.Env
	eng *engine.Engine
}

// Open opens (creating if absent) the data directory at dir and returns a
// ready-to-use Store.
//
// Example:
//
//	s, err := store.Open("/var/lib/myapp/data", store.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
func Open(dir string, opts types.OpenOptions) (*Store, error) {
	env, err := kvstore.Open(dir, opts)
	if err != nil {
		return nil, err
	}
	return &Store{env: env, eng: engine.New(env)}, nil
}

// DefaultOptions returns the conservative defaults Open uses when the
// caller has no specific tuning needs.
func DefaultOptions() types.OpenOptions { return types.DefaultOpenOptions() }

// Close releases the backing store's handle. Outstanding Subscribe callbacks
// may still be invoked for events dispatched before Close returns.
func (s *Store) Close() error { return s.env.Close() }

// Set writes v at path, decomposing any compound value into one entry per
// primitive leaf.
func (s *Store) Set(path string, v types.Value, auth types.AuthContext) error {
	return s.eng.Set(path, v, auth)
}

// Get reconstructs and returns the value rooted at path.
func (s *Store) Get(path string, auth types.AuthContext) (types.Value, error) {
	return s.eng.Get(path, auth)
}

// Delete removes path and every descendant.
func (s *Store) Delete(path string, auth types.AuthContext) error {
	return s.eng.Delete(path, auth)
}

// Update shallow-merges patch (which must be an object) onto the object
// currently at path, or behaves as Set if nothing exists there yet.
func (s *Store) Update(path string, patch types.Value, auth types.AuthContext) error {
	return s.eng.Update(path, patch, auth)
}

// Exists reports whether Get(path) would succeed.
func (s *Store) Exists(path string, auth types.AuthContext) (bool, error) {
	return s.eng.Exists(path, auth)
}

// List returns the direct-child segment names stored under path.
func (s *Store) List(path string, auth types.AuthContext) ([]string, error) {
	return s.eng.List(path, auth)
}

// Diff structurally compares the subtrees rooted at oldPath and newPath,
// reporting one entry per leaf that was added, removed, or modified
// (arrays count as single leaves; see engine.Diff).
func (s *Store) Diff(oldPath, newPath string, auth types.AuthContext) ([]engine.DiffEntry, error) {
	return s.eng.Diff(oldPath, newPath, auth)
}

// Verify walks the backing store read-only and reports structural
// irregularities (legacy markers, orphaned array children) without
// mutating anything.
func (s *Store) Verify() ([]engine.Diagnostic, error) {
	return s.eng.Verify()
}

// SetAuthHook installs hook as the authorization collaborator consulted
// before every operation. Passing nil restores allow-all.
func (s *Store) SetAuthHook(hook authz.Hook) {
	s.eng.SetAuthHook(hook)
}

// Subscribe registers callback for synchronous, in-process dispatch
// against events matching pattern (see event.Emitter.Subscribe for
// pattern semantics).
func (s *Store) Subscribe(pattern string, includeChildren bool, callback func(types.Event)) event.Subscription {
	return s.eng.Emitter().Subscribe(pattern, includeChildren, callback)
}

// Unsubscribe cancels a subscription returned by Subscribe.
func (s *Store) Unsubscribe(sub event.Subscription) {
	s.eng.Emitter().Cancel(sub)
}

// EnableEventQueue additionally appends every dispatched event to a
// lock-free ring of the given capacity and overflow policy, for a host
// that wants to drain events out-of-process (via PopBatch) instead of, or
// in addition to, Subscribe callbacks.
func (s *Store) EnableEventQueue(capacity int, policy event.OverflowPolicy) {
	s.eng.EnableEventQueue(capacity, policy)
}

// PopBatch drains up to max pending events from the event queue. It
// returns an empty, non-nil slice if EnableEventQueue was never called or
// nothing is pending.
func (s *Store) PopBatch(max int) []types.Event {
	q := s.eng.Queue()
	if q == nil {
		return []types.Event{}
	}
	return q.PopBatch(max)
}

// PendingEvents returns the number of events currently available to
// drain from the event queue, or 0 if EnableEventQueue was never called.
func (s *Store) PendingEvents() int {
	q := s.eng.Queue()
	if q == nil {
		return 0
	}
	return q.Pending()
}
