package engine

import (
	"strconv"
	"strings"

	"github.com/pathkv/pathkv/internal/kvstore"
	"github.com/pathkv/pathkv/internal/path"
	"github.com/pathkv/pathkv/internal/value"
	"github.com/pathkv/pathkv/pkg/types"
)

// childPrefixOf returns the key prefix under which key's direct children
// live: "/" for the root, key+"/" otherwise.
func childPrefixOf(key string) string {
	if key == path.Root {
		return path.Root
	}
	return key + "/"
}

// resolveAt is the full read-resolution algorithm, usable both
// at the top of Get and recursively while reconstructing a subtree: point
// lookup first; an array sentinel or legacy marker triggers the
// appropriate recursive reconstruction; otherwise fall back to a
// cursor-prefix existence test before reporting not-found. forceObject is
// set for the root, which always exists (possibly as an empty object)
// even with zero stored entries.
func resolveAt(tx *kvstore.Tx, key string, forceObject bool) (types.Value, bool, error) {
	if raw, ok := tx.Get([]byte(key)); ok {
		if n, isArr := value.DecodeArraySentinel(raw); isArr {
			v, err := reconstructArray(tx, key, n)
			return v, true, err
		}
		if value.IsLegacyBranchMarker(raw) {
			v, err := reconstructObject(tx, key)
			return v, true, err
		}
		v, err := value.Decode(raw)
		return v, true, err
	}

	prefix := []byte(childPrefixOf(key))
	c := tx.Cursor()
	k, _, ok := c.Seek(prefix)
	hasChildren := ok && kvstore.HasPrefix(k, prefix)
	if !hasChildren && !forceObject {
		return types.Value{}, false, nil
	}
	v, err := reconstructObject(tx, key)
	return v, true, err
}

// reconstructObject performs a single forward cursor pass, assembling an
// object from key's descendants. For each distinct direct
// child name it does at most one additional Seek: the "skip-ahead"
// optimization advances past every nested descendant of that child in one
// jump (the synthetic key prefix+name+"0" sorts just after all of
// prefix+name+"/..." because '0' (0x30) is greater than '/' (0x2F)), so a
// reconstruction pass costs O(direct children), not O(total descendants).
// The skip is taken only from a nested descendant's key: from the child's
// own key prefix+name the cursor steps with Next, because siblings whose
// names extend name with a byte below '/' (such as "a-b" after "a") sort
// between prefix+name and prefix+name+"/".
func reconstructObject(tx *kvstore.Tx, key string) (types.Value, error) {
	prefix := childPrefixOf(key)
	obj := map[string]types.Value{}

	c := tx.Cursor()
	k, v, ok := c.Seek([]byte(prefix))
	for ok && kvstore.HasPrefix(k, []byte(prefix)) {
		suffix := string(k[len(prefix):])
		idx := strings.IndexByte(suffix, '/')

		if idx < 0 {
			// Direct entry at prefix+suffix. Decide what it is without a
			// second lookup: we already have its raw value from the
			// cursor.
			name := suffix
			childKey := prefix + name
			if n, isArr := value.DecodeArraySentinel(v); isArr {
				child, err := reconstructArray(tx, childKey, n)
				if err != nil {
					return types.Value{}, err
				}
				obj[name] = child
				k, v, ok = c.Next()
				continue
			}
			if value.IsLegacyBranchMarker(v) {
				child, err := reconstructObject(tx, childKey)
				if err != nil {
					return types.Value{}, err
				}
				obj[name] = child
				k, v, ok = c.Next()
				continue
			}
			decoded, err := value.Decode(v)
			if err != nil {
				return types.Value{}, err
			}
			obj[name] = decoded
			k, v, ok = c.Next()
			continue
		}

		// Nested descendant: the whole subtree under prefix+direct
		// belongs to one child we have not yet resolved. Fetch it fully
		// (its own forward cursor pass, rooted at prefix+direct) then
		// skip past every remaining row for it in one seek.
		direct := suffix[:idx]
		if _, done := obj[direct]; !done {
			childKey := prefix + direct
			child, _, err := resolveAt(tx, childKey, false)
			if err != nil {
				return types.Value{}, err
			}
			obj[direct] = child
		}
		k, v, ok = c.Seek([]byte(prefix + direct + "0"))
	}

	return types.Object(obj), nil
}

// reconstructArray reads the N elements of the array rooted at key,
// fetching each index with the full get-style resolution (an element may
// itself be compound).
func reconstructArray(tx *kvstore.Tx, key string, n int) (types.Value, error) {
	elems := make([]types.Value, n)
	for i := 0; i < n; i++ {
		childKey := key + "/" + strconv.Itoa(i)
		v, found, err := resolveAt(tx, childKey, false)
		if err != nil {
			return types.Value{}, err
		}
		if !found {
			// A declared element is missing on disk; treat as null
			// rather than fail the whole read, matching the engine's
			// general tolerance for on-disk irregularities.
			v = types.Null()
		}
		elems[i] = v
	}
	return types.Array(elems...), nil
}

// directChildNamesAt lists the direct-child names of key using the same
// forward cursor pass as reconstruction, without recursing into
// grandchildren. Used by List and by the orphan-detection pass in
// decompose.go.
func directChildNamesAt(tx *kvstore.Tx, key string) []string {
	prefix := childPrefixOf(key)
	var names []string
	seen := map[string]struct{}{}

	c := tx.Cursor()
	k, _, ok := c.Seek([]byte(prefix))
	for ok && kvstore.HasPrefix(k, []byte(prefix)) {
		suffix := string(k[len(prefix):])
		name := suffix
		idx := strings.IndexByte(suffix, '/')
		if idx >= 0 {
			name = suffix[:idx]
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		if idx < 0 {
			// On the child's own key: step, as in reconstructObject.
			k, _, ok = c.Next()
			continue
		}
		k, _, ok = c.Seek([]byte(prefix + name + "0"))
	}
	return names
}

// directChildNames is directChildNamesAt for the public List API, which
// works in terms of path.Path.
func directChildNames(tx *kvstore.Tx, p path.Path) []string {
	return directChildNamesAt(tx, p.String())
}

