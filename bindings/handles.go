package main

import (
	"sync"
	"sync/atomic"

	"github.com/pathkv/pathkv/pkg/store"
	"github.com/pathkv/pathkv/pkg/types"
)

// handleEntry owns everything a single opened store needs to serve the
// C-ABI surface: the store itself, an optional auth token (set by
// enable_auth), and an optional async write queue (set by
// enable_write_queue). Modeling the C side's opaque handles as indices
// into this process-wide table (rather than returning a Go pointer cast
// to a C integer) keeps every live Go object reachable from ordinary GC
// roots, per guidance on raw-pointer-handle replacement.
type handleEntry struct {
	s         *store.Store
	authToken string // empty: no token required
	writeQ    *asyncWriteQueue
}

var (
	handlesMu sync.RWMutex
	handles   = map[int64]*handleEntry{}
	nextID    atomic.Int64
)

// registerHandle stores e and returns the opaque handle identifying it.
func registerHandle(e *handleEntry) int64 {
	id := nextID.Add(1)
	handlesMu.Lock()
	handles[id] = e
	handlesMu.Unlock()
	return id
}

// lookupHandle returns the entry for id, or nil if it is unknown or has
// already been closed.
func lookupHandle(id int64) *handleEntry {
	handlesMu.RLock()
	defer handlesMu.RUnlock()
	return handles[id]
}

// releaseHandle removes id from the table atomically; a concurrent call
// using the same id afterward sees it as unknown rather than racing the
// underlying Store's Close.
func releaseHandle(id int64) *handleEntry {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	e := handles[id]
	delete(handles, id)
	return e
}

// authContextFor builds the AuthContext passed to the engine from the
// optional UTF-8 token a C caller supplied, or the zero value if tok is
// empty (no token presented).
func authContextFor(tok string) types.AuthContext {
	if tok == "" {
		return types.AuthContext{}
	}
	return types.AuthContext{Token: tok}
}
