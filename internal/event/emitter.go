// Package event implements pathkv's two notification paths: an in-process
// synchronous Emitter and a lock-free single-producer/single-consumer
// Queue for out-of-process hosts.
package event

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pathkv/pathkv/internal/path"
	"github.com/pathkv/pathkv/pkg/types"
)

// Subscription is an opaque, cancellable handle returned by Subscribe.
type Subscription struct {
	id uuid.UUID
}

type subscriber struct {
	id              uuid.UUID
	pattern         string
	isWildcard      bool // pattern ends in "*"
	wildcardPrefix  string
	includeChildren bool
	callback        func(types.Event)
	order           int // subscription order, for deterministic dispatch
}

// Emitter is a mutex-guarded subscription registry that dispatches
// matching callbacks synchronously, in subscription order, on the calling
// (committing) goroutine. A linear scan over active subscriptions is used
// for matching; a pattern index is an optimization this package does not
// need at the subscription counts pathkv targets.
type Emitter struct {
	mu    sync.Mutex
	subs  []*subscriber
	order int
}

// NewEmitter returns an Emitter with no active subscriptions.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe registers callback against pattern. Pattern semantics:
//   - an exact path fires only for that path;
//   - a pattern ending in "*" matches any key with the prefix of
//     everything before the "*";
//   - includeChildren additionally matches any descendant of pattern.
func (e *Emitter) Subscribe(pattern string, includeChildren bool, callback func(types.Event)) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := &subscriber{
		id:              uuid.New(),
		pattern:         pattern,
		includeChildren: includeChildren,
		callback:        callback,
		order:           e.order,
	}
	e.order++
	if len(pattern) > 0 && pattern[len(pattern)-1] == '*' {
		s.isWildcard = true
		s.wildcardPrefix = pattern[:len(pattern)-1]
	}
	e.subs = append(e.subs, s)
	return Subscription{id: s.id}
}

// Cancel deregisters sub. A callback already in progress for sub may still
// run to completion; no future event will reach it.
func (e *Emitter) Cancel(sub Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s.id == sub.id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// HasSubscribers reports whether any subscription is currently active,
// letting the engine skip the "fetch old value for the event" read when
// nobody is listening — a measured hot-path optimization.
func (e *Emitter) HasSubscribers() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs) > 0
}

// Dispatch delivers ev synchronously to every matching subscriber, in
// subscription-id (registration) order, on the calling goroutine.
func (e *Emitter) Dispatch(ev types.Event) {
	e.mu.Lock()
	matched := make([]*subscriber, 0, len(e.subs))
	for _, s := range e.subs {
		if matches(s, ev.Path) {
			matched = append(matched, s)
		}
	}
	e.mu.Unlock()

	for _, s := range matched {
		s.callback(ev)
	}
}

func matches(s *subscriber, evPath string) bool {
	switch {
	case s.isWildcard:
		return len(evPath) >= len(s.wildcardPrefix) && evPath[:len(s.wildcardPrefix)] == s.wildcardPrefix
	case evPath == s.pattern:
		return true
	case s.includeChildren:
		return path.HasPrefix(path.Path(s.pattern), evPath)
	default:
		return false
	}
}
