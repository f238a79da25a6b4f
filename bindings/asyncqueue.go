package main

import (
	"sync"
	"sync/atomic"

	"github.com/pathkv/pathkv/pkg/store"
	"github.com/pathkv/pathkv/pkg/types"
)

// writeJob is one queued mutation: a Set of data, or a Delete when del is
// true.
type writeJob struct {
	path string
	data types.Value
	del  bool
	auth types.AuthContext
}

// asyncWriteQueue serializes writeJobs onto a single worker goroutine per
// handle, matching enable_write_queue's contract that set_async/
// delete_async return immediately with an id that wait_for_write later
// blocks on. One worker per handle is sufficient: the backing store
// already allows only one in-flight write transaction at a time, so
// fanning out workers would only add contention.
type asyncWriteQueue struct {
	jobs   chan int64
	data   sync.Map // id -> writeJob
	done   sync.Map // id -> chan error
	nextID atomic.Int64
	s      *store.Store
}

func newAsyncWriteQueue(s *store.Store) *asyncWriteQueue {
	q := &asyncWriteQueue{
		jobs: make(chan int64, 256),
		s:    s,
	}
	go q.run()
	return q
}

func (q *asyncWriteQueue) run() {
	for id := range q.jobs {
		jv, _ := q.data.LoadAndDelete(id)
		job := jv.(writeJob)

		var err error
		if job.del {
			err = q.s.Delete(job.path, job.auth)
		} else {
			err = q.s.Set(job.path, job.data, job.auth)
		}

		if ch, ok := q.done.Load(id); ok {
			ch.(chan error) <- err
		}
	}
}

// submit enqueues job and returns its id.
func (q *asyncWriteQueue) submit(job writeJob) int64 {
	id := q.nextID.Add(1)
	q.data.Store(id, job)
	q.done.Store(id, make(chan error, 1))
	q.jobs <- id
	return id
}

// wait blocks until id's job has completed and returns its result. It
// returns an error for an unknown or already-consumed id.
func (q *asyncWriteQueue) wait(id int64) error {
	// The channel is removed here, not by the worker, so a job that
	// finished before wait was called still has its buffered result, and a
	// second wait on the same id sees it as unknown.
	v, ok := q.done.LoadAndDelete(id)
	if !ok {
		return types.ErrInvalidArgument
	}
	ch := v.(chan error)
	return <-ch
}

func (q *asyncWriteQueue) close() {
	close(q.jobs)
}
