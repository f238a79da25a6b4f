// Package kvstore is a thin ordered-store adapter: it wraps
// go.etcd.io/bbolt, an LMDB-shaped backing store treated as a black-box
// collaborator (ACID single-writer/multi-reader transactions over an
// ordered byte-key/byte-value map, with prefix-seekable cursors). The
// engine package never imports bbolt directly; every backing-store call
// goes through this adapter so the engine is agnostic to which ordered
// store backs it.
package kvstore

import (
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/pathkv/pathkv/pkg/types"
)

// bucketName is the single unnamed-map equivalent: bbolt requires a named
// top-level bucket, so pathkv uses exactly one and never creates another —
// a single map within the environment holds all path keys.
var bucketName = []byte("paths")

// Env is an opened backing-store environment bound to a data directory.
type Env struct {
	db       *bbolt.DB
	readOnly bool
}

// Open creates dir if absent and opens (or creates) the backing-store file
// within it, synced and opened read-only per opts. opts.MapSizeBytes is
// not used.
func Open(dir string, opts types.OpenOptions) (*Env, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, types.ErrTransactionFail.Wrapf(err, "create data dir %s", dir)
	}

	boltOpts := &bbolt.Options{
		Timeout:      2 * time.Second,
		ReadOnly:     opts.ReadOnly,
		NoSync:       !opts.SyncEveryCommit,
		NoGrowSync:   !opts.SyncEveryCommit,
		FreelistType: bbolt.FreelistArrayType,
	}

	db, err := bbolt.Open(filepath.Join(dir, "pathkv.db"), 0o644, boltOpts)
	if err != nil {
		return nil, types.ErrTransactionFail.Wrapf(err, "open backing store in %s", dir)
	}

	if !opts.ReadOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketName)
			return err
		})
		if err != nil {
			_ = db.Close()
			return nil, types.ErrTransactionFail.Wrap(err)
		}
	}

	return &Env{db: db, readOnly: opts.ReadOnly}, nil
}

// Close releases the environment handle. Outstanding transactions must be
// closed first; Close does not cross thread boundaries implicitly.
func (e *Env) Close() error {
	if err := e.db.Close(); err != nil {
		return types.ErrTransactionFail.Wrap(err)
	}
	return nil
}

// View runs fn inside a read-only transaction. Multiple Views may run
// concurrently with each other and with a single in-flight Update; each
// sees a consistent snapshot taken at Begin-time.
func (e *Env) View(fn func(tx *Tx) error) error {
	return e.db.View(func(btx *bbolt.Tx) error {
		return fn(&Tx{btx: btx, bucket: btx.Bucket(bucketName)})
	})
}

// Update runs fn inside a write transaction. Write transactions are
// exclusive: only one may be in flight at a time (bbolt enforces this
// internally with a writer lock).
func (e *Env) Update(fn func(tx *Tx) error) error {
	if e.readOnly {
		return types.ErrAccessDenied.Wrapf(nil, "environment opened read-only")
	}
	return e.db.Update(func(btx *bbolt.Tx) error {
		return fn(&Tx{btx: btx, bucket: btx.Bucket(bucketName)})
	})
}
