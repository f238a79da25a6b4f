package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathkv/pathkv/pkg/types"
)

func TestQueuePushPopOrder(t *testing.T) {
	q := NewQueue(4, DropOldest)
	for i := 0; i < 4; i++ {
		q.Push(types.Event{Path: "/a", Type: types.EventChanged})
	}
	require.Equal(t, 4, q.Pending())

	batch := q.PopBatch(2)
	require.Len(t, batch, 2)
	assert.Equal(t, uint64(1), batch[0].Sequence)
	assert.Equal(t, uint64(2), batch[1].Sequence)
	assert.Equal(t, 2, q.Pending())
}

func TestQueueDropOldestOnOverflow(t *testing.T) {
	q := NewQueue(4, DropOldest) // rounds up to 16
	// Push more than capacity by shrinking via a small queue explicitly.
	small := &Queue{capacity: 2, mask: 1, buf: make([]types.Event, 2), occupied: make([]uint32, 2), policy: DropOldest}
	for i := 0; i < 5; i++ {
		small.Push(types.Event{Path: "/a"})
	}
	assert.Equal(t, uint64(3), small.DropsSinceLastCheck())
	batch := small.PopBatch(10)
	require.Len(t, batch, 2)
	// the two most recent pushes survive
	assert.Equal(t, uint64(4), batch[0].Sequence)
	assert.Equal(t, uint64(5), batch[1].Sequence)
	_ = q
}
