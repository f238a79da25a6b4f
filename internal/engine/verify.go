package engine

import (
	"strconv"
	"strings"

	"github.com/pathkv/pathkv/internal/kvstore"
	"github.com/pathkv/pathkv/internal/value"
)

// DiagnosticKind classifies a single finding from Verify.
type DiagnosticKind int

const (
	DiagOrphanArrayChild DiagnosticKind = iota
	DiagLegacyBranchMarker
)

// Diagnostic describes one irregularity Verify found at rest: a read-only
// walk that reports structural findings without mutating the store.
type Diagnostic struct {
	Kind DiagnosticKind
	Key  string
	Note string
}

// Verify walks every stored key once and reports array children that fall
// outside their array's declared [0, N) range (orphan garbage a prior
// engine version, or an external writer, could have left behind — see
//) and any legacy __branch__ markers present at rest. It never
// mutates the store.
func (eng *Engine) Verify() ([]Diagnostic, error) {
	var diags []Diagnostic
	err := eng.env.View(func(tx *kvstore.Tx) error {
		diags = verifyTx(tx)
		return nil
	})
	return diags, err
}

func verifyTx(tx *kvstore.Tx) []Diagnostic {
	var diags []Diagnostic

	arrayBounds := map[string]int{} // array key -> declared length

	c := tx.Cursor()
	k, v, ok := c.Seek([]byte("/"))
	for ok {
		key := string(k)
		if n, isArr := value.DecodeArraySentinel(v); isArr {
			arrayBounds[key] = n
		} else if value.IsLegacyBranchMarker(v) {
			diags = append(diags, Diagnostic{
				Kind: DiagLegacyBranchMarker,
				Key:  key,
				Note: "legacy __branch__ marker tolerated on read; current writers never produce it",
			})
		}
		k, v, ok = c.Next()
	}

	for arrKey, n := range arrayBounds {
		prefix := arrKey + "/"
		c2 := tx.Cursor()
		reported := map[string]struct{}{}
		k, _, ok := c2.Seek([]byte(prefix))
		for ok && kvstore.HasPrefix(k, []byte(prefix)) {
			suffix := string(k[len(prefix):])
			name := suffix
			idx := strings.IndexByte(suffix, '/')
			if idx >= 0 {
				name = suffix[:idx]
			}
			if _, dup := reported[name]; !dup && !isValidArrayIndex(name, n) {
				reported[name] = struct{}{}
				diags = append(diags, Diagnostic{
					Kind: DiagOrphanArrayChild,
					Key:  string(k),
					Note: "child outside declared array range [0," + strconv.Itoa(n) + ")",
				})
			}
			if idx < 0 {
				// On the child's own key: step, as in reconstructObject.
				k, _, ok = c2.Next()
				continue
			}
			k, _, ok = c2.Seek([]byte(prefix + name + "0"))
		}
	}

	return diags
}

func isValidArrayIndex(name string, n int) bool {
	idx, err := strconv.Atoi(name)
	return err == nil && idx >= 0 && idx < n && strconv.Itoa(idx) == name
}
