package engine

import (
	"strconv"

	"github.com/pathkv/pathkv/internal/kvstore"
	"github.com/pathkv/pathkv/internal/path"
	"github.com/pathkv/pathkv/internal/value"
	"github.com/pathkv/pathkv/pkg/types"
)

// setRecursive is the write-path decomposition: a primitive is encoded
// and stored directly; an array recurses into one child per element and
// then writes a length sentinel at key; an object recurses into one
// child per entry and writes nothing at key itself.
//
// After writing the new value's own children, any pre-existing child of
// key that the new value does not account for is deleted — a primitive
// keeps none, an array keeps only indices [0, N), an object keeps only
// its own keys. The same "primitives are terminal" / "no stale children"
// invariant applies to all three kinds, not just arrays.
func setRecursive(tx *kvstore.Tx, key string, v types.Value) error {
	switch v.K {
	case types.KindNull, types.KindBool, types.KindNumber, types.KindString:
		enc, err := value.Encode(v)
		if err != nil {
			return err
		}
		if err := tx.Put([]byte(key), enc); err != nil {
			return types.ErrTransactionFail.Wrap(err)
		}
		return clearOrphanChildren(tx, key, func(string) bool { return false })

	case types.KindArray:
		for i, e := range v.Arr {
			childKey := key + "/" + strconv.Itoa(i)
			if err := setRecursive(tx, childKey, e); err != nil {
				return err
			}
		}
		if err := tx.Put([]byte(key), value.EncodeArraySentinel(len(v.Arr))); err != nil {
			return types.ErrTransactionFail.Wrap(err)
		}
		n := len(v.Arr)
		return clearOrphanChildren(tx, key, func(name string) bool {
			idx, err := strconv.Atoi(name)
			return err == nil && idx >= 0 && idx < n && strconv.Itoa(idx) == name
		})

	case types.KindObject:
		if err := tx.Delete([]byte(key)); err != nil {
			return types.ErrTransactionFail.Wrap(err)
		}
		keep := make(map[string]struct{}, len(v.Obj))
		for k, e := range v.Obj {
			keep[k] = struct{}{}
			childKey := key + "/" + k
			if err := setRecursive(tx, childKey, e); err != nil {
				return err
			}
		}
		return clearOrphanChildren(tx, key, func(name string) bool {
			_, ok := keep[name]
			return ok
		})

	default:
		return types.ErrEncodingFailed.Wrapf(nil, "unknown value kind %d", v.K)
	}
}

// clearOrphanChildren deletes every existing direct child of key (and its
// whole descendant subtree) whose name does not satisfy keep. It performs
// one cursor pass to collect direct-child names, then one targeted delete
// per orphan — it never re-reads values, only keys.
func clearOrphanChildren(tx *kvstore.Tx, key string, keep func(name string) bool) error {
	names := directChildNamesAt(tx, key)
	for _, name := range names {
		if keep(name) {
			continue
		}
		if err := deleteSubtreeKeys(tx, path.Path(key+"/"+name)); err != nil {
			return err
		}
	}
	return nil
}

// deleteSubtreeKeys deletes p itself and every key with prefix p+"/" (or,
// for the root, every key in the store) within tx.
func deleteSubtreeKeys(tx *kvstore.Tx, p path.Path) error {
	if p.IsRoot() {
		return deleteAll(tx)
	}

	key := p.String()
	if err := tx.Delete([]byte(key)); err != nil {
		return types.ErrTransactionFail.Wrap(err)
	}

	prefix := []byte(key + "/")
	var toDelete [][]byte
	c := tx.Cursor()
	k, _, ok := c.Seek(prefix)
	for ok && kvstore.HasPrefix(k, prefix) {
		cp := append([]byte(nil), k...)
		toDelete = append(toDelete, cp)
		k, _, ok = c.Next()
	}
	for _, k := range toDelete {
		if err := tx.Delete(k); err != nil {
			return types.ErrTransactionFail.Wrap(err)
		}
	}
	return nil
}

// deleteAll empties the store, used when deleting the root. The logical
// root itself is never a stored entry, so it remains always-present:
// deleting it empties the store but the root is still there afterward.
func deleteAll(tx *kvstore.Tx) error {
	var all [][]byte
	c := tx.Cursor()
	k, _, ok := c.Seek([]byte(path.Root))
	for ok {
		cp := append([]byte(nil), k...)
		all = append(all, cp)
		k, _, ok = c.Next()
	}
	for _, k := range all {
		if err := tx.Delete(k); err != nil {
			return types.ErrTransactionFail.Wrap(err)
		}
	}
	return nil
}
