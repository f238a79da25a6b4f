package kvstore

import (
	"bytes"

	"go.etcd.io/bbolt"
)

// Cursor is a forward-only, prefix-seekable cursor over the backing
// store's ordered key space. It exposes exactly the two primitives the
// reconstruction algorithm needs: Seek(key) positions at the first entry
// with key >= the argument (or none), and Next advances one entry in
// ascending order.
type Cursor struct {
	c *bbolt.Cursor
}

// Seek positions the cursor at the first key >= prefix and returns it, or
// ok=false if no such key exists.
func (c *Cursor) Seek(prefix []byte) (key, value []byte, ok bool) {
	if c.c == nil {
		return nil, nil, false
	}
	k, v := c.c.Seek(prefix)
	if k == nil {
		return nil, nil, false
	}
	return k, v, true
}

// Next advances one entry in ascending lexical order.
func (c *Cursor) Next() (key, value []byte, ok bool) {
	if c.c == nil {
		return nil, nil, false
	}
	k, v := c.c.Next()
	if k == nil {
		return nil, nil, false
	}
	return k, v, true
}

// HasPrefix is a small helper mirroring bytes.HasPrefix for callers
// driving a Seek/Next loop against a fixed prefix.
func HasPrefix(key, prefix []byte) bool {
	return bytes.HasPrefix(key, prefix)
}
