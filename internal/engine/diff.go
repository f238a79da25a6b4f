package engine

import (
	"github.com/pathkv/pathkv/internal/path"
	"github.com/pathkv/pathkv/pkg/types"
)

// DiffStatus classifies a single DiffEntry: unchanged, added, removed, or
// modified.
type DiffStatus int

const (
	DiffUnchanged DiffStatus = iota
	DiffAdded
	DiffRemoved
	DiffModified
)

func (s DiffStatus) String() string {
	switch s {
	case DiffAdded:
		return "added"
	case DiffRemoved:
		return "removed"
	case DiffModified:
		return "modified"
	default:
		return "unchanged"
	}
}

// DiffEntry reports one leaf-level difference between two subtrees.
type DiffEntry struct {
	Path   string
	Status DiffStatus
	Old    types.Value
	New    types.Value
}

// Diff reconstructs oldPath and newPath (each addressable within the same
// store, e.g. two snapshots exported under different roots, or simply two
// distinct live paths) and structurally diffs them leaf by leaf. Only
// objects are descended into: an array, or a value whose kind differs
// between the two sides, is compared as a whole and yields one entry.
func (eng *Engine) Diff(oldPath, newPath string, auth types.AuthContext) ([]DiffEntry, error) {
	oldVal, oldErr := eng.Get(oldPath, auth)
	if oldErr != nil && !isNotFound(oldErr) {
		return nil, oldErr
	}
	newVal, newErr := eng.Get(newPath, auth)
	if newErr != nil && !isNotFound(newErr) {
		return nil, newErr
	}

	var entries []DiffEntry
	diffValues(path.Root, oldErr == nil, oldVal, newErr == nil, newVal, &entries)
	return entries, nil
}

func diffValues(at string, hasOld bool, oldV types.Value, hasNew bool, newV types.Value, out *[]DiffEntry) {
	switch {
	case !hasOld && !hasNew:
		return
	case !hasOld:
		appendLeafDiffs(at, DiffAdded, types.Value{}, newV, out)
		return
	case !hasNew:
		appendLeafDiffs(at, DiffRemoved, oldV, types.Value{}, out)
		return
	}

	if oldV.K == types.KindObject && newV.K == types.KindObject {
		keys := map[string]struct{}{}
		for k := range oldV.Obj {
			keys[k] = struct{}{}
		}
		for k := range newV.Obj {
			keys[k] = struct{}{}
		}
		for k := range keys {
			ov, okOld := oldV.Obj[k]
			nv, okNew := newV.Obj[k]
			diffValues(joinSeg(at, k), okOld, ov, okNew, nv, out)
		}
		return
	}

	if !types.Equal(oldV, newV) {
		*out = append(*out, DiffEntry{Path: at, Status: DiffModified, Old: oldV, New: newV})
	}
}

// appendLeafDiffs records one entry per terminal leaf when an entire
// subtree was added or removed wholesale, rather than one entry for the
// whole (possibly large) compound value.
func appendLeafDiffs(at string, status DiffStatus, oldV, newV types.Value, out *[]DiffEntry) {
	v := newV
	if status == DiffRemoved {
		v = oldV
	}
	if v.K != types.KindObject {
		*out = append(*out, DiffEntry{Path: at, Status: status, Old: oldV, New: newV})
		return
	}
	for k, child := range v.Obj {
		if status == DiffRemoved {
			appendLeafDiffs(joinSeg(at, k), status, child, types.Value{}, out)
		} else {
			appendLeafDiffs(joinSeg(at, k), status, types.Value{}, child, out)
		}
	}
}

// joinSeg appends child segment name k to parent key at, matching
// childPrefixOf's root-vs-non-root rule in reconstruct.go.
func joinSeg(at, k string) string {
	if at == path.Root {
		return path.Root + k
	}
	return at + "/" + k
}
