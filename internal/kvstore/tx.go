package kvstore

import "go.etcd.io/bbolt"

// Tx is a single read or write transaction. A Tx (and any Cursor opened
// from it) must not be used from more than one goroutine and must not
// outlive the View/Update call that produced it.
type Tx struct {
	btx    *bbolt.Tx
	bucket *bbolt.Bucket
}

// Get performs a point lookup. The returned slice is only valid for the
// lifetime of the transaction; callers that need to retain it must copy.
func (t *Tx) Get(key []byte) ([]byte, bool) {
	if t.bucket == nil {
		return nil, false
	}
	v := t.bucket.Get(key)
	if v == nil {
		return nil, false
	}
	return v, true
}

// Put writes key->value, overwriting any existing entry.
func (t *Tx) Put(key, value []byte) error {
	return t.bucket.Put(key, value)
}

// Delete removes key. It is a no-op if key is absent.
func (t *Tx) Delete(key []byte) error {
	if t.bucket == nil {
		return nil
	}
	return t.bucket.Delete(key)
}

// Cursor opens a forward cursor over the bucket.
func (t *Tx) Cursor() *Cursor {
	if t.bucket == nil {
		return &Cursor{}
	}
	return &Cursor{c: t.bucket.Cursor()}
}

// Writable reports whether this transaction permits mutation.
func (t *Tx) Writable() bool { return t.btx.Writable() }
