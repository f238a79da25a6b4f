// Command bindings builds as a C shared/archive library (go build
// -buildmode=c-shared or c-archive) exposing pathkv's flat C-ABI function
// table. main is never invoked by a C host; it exists only because cgo's
// //export requires package main for this build mode.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/pathkv/pathkv/internal/event"
	"github.com/pathkv/pathkv/internal/value"
	"github.com/pathkv/pathkv/pkg/store"
	"github.com/pathkv/pathkv/pkg/types"
)

func main() {}

// resultCode translates a Go error into the C-ABI's result convention:
// 0 on success, -1 on generic failure, -2 when the authorization hook
// specifically reported an authentication failure (as opposed to a
// plain access-denied refusal).
func resultCode(err error) C.int {
	if err == nil {
		return 0
	}
	if errors.Is(err, types.ErrAuthFailed) {
		return -2
	}
	return -1
}

// pathkv_init opens (creating if absent) the data directory at data_dir
// and returns an opaque handle, or -1 on failure.
//
//export pathkv_init
func pathkv_init(dataDir *C.char) C.longlong {
	s, err := store.Open(C.GoString(dataDir), store.DefaultOptions())
	if err != nil {
		return -1
	}
	return C.longlong(registerHandle(&handleEntry{s: s}))
}

// pathkv_close releases handle and everything it owns. Using handle again
// afterward is a no-op returning failure, not undefined behavior. Returns
// 0 on success, -1 on generic failure.
//
//export pathkv_close
func pathkv_close(handle C.longlong) C.int {
	e := releaseHandle(int64(handle))
	if e == nil {
		return -1
	}
	if e.writeQ != nil {
		e.writeQ.close()
	}
	return resultCode(e.s.Close())
}

// pathkv_enable_auth installs a shared-secret authorization hook: every
// subsequent call on handle must pass the same secret as its token
// argument. Returns 0 on success, -1 if handle is unknown.
//
//export pathkv_enable_auth
func pathkv_enable_auth(handle C.longlong, secret *C.char) C.int {
	e := lookupHandle(int64(handle))
	if e == nil {
		return -1
	}
	e.authToken = C.GoString(secret)
	e.s.SetAuthHook(tokenHook{secret: e.authToken})
	return 0
}

// pathkv_enable_rules installs a path-prefix rules engine parsed from
// rules_json (a JSON array of {"prefix","read","write"} objects),
// replacing any previously installed authorization hook. Returns 0 on
// success, -1 on an unknown handle or malformed rules_json.
//
//export pathkv_enable_rules
func pathkv_enable_rules(handle C.longlong, rulesJSON *C.char) C.int {
	e := lookupHandle(int64(handle))
	if e == nil {
		return -1
	}
	hook, err := parseRules(C.GoString(rulesJSON))
	if err != nil {
		return -1
	}
	e.s.SetAuthHook(hook)
	return 0
}

// pathkv_set_string decomposes and writes the JSON value json_utf8 at
// path, authorized by the optional token (pass NULL for none). Returns
// 0 on success, -1 on generic failure, -2 on an authentication failure.
//
//export pathkv_set_string
func pathkv_set_string(handle C.longlong, path, jsonUTF8, token *C.char) C.int {
	e := lookupHandle(int64(handle))
	if e == nil {
		return -1
	}
	v, err := value.ParseJSON([]byte(C.GoString(jsonUTF8)))
	if err != nil {
		return -1
	}
	return resultCode(e.s.Set(C.GoString(path), v, authContextFor(goStringOrEmpty(token))))
}

// pathkv_get_string reconstructs path and returns it as an allocated,
// null-terminated JSON string the caller must release with
// pathkv_free_string, or NULL on failure/not-found.
//
//export pathkv_get_string
func pathkv_get_string(handle C.longlong, path, token *C.char) *C.char {
	e := lookupHandle(int64(handle))
	if e == nil {
		return nil
	}
	v, err := e.s.Get(C.GoString(path), authContextFor(goStringOrEmpty(token)))
	if err != nil {
		return nil
	}
	raw, err := value.MarshalJSON(v)
	if err != nil {
		return nil
	}
	return C.CString(string(raw))
}

// pathkv_set_binary writes the raw codec bytes at data/len directly
// (bypassing JSON), for hosts that already speak the binary codec.
// Returns 0 on success, -1 on generic failure, -2 on an authentication
// failure.
//
//export pathkv_set_binary
func pathkv_set_binary(handle C.longlong, path *C.char, data *C.char, length C.int, token *C.char) C.int {
	e := lookupHandle(int64(handle))
	if e == nil {
		return -1
	}
	raw := C.GoBytes(unsafe.Pointer(data), length)
	v, err := value.Decode(raw)
	if err != nil {
		return -1
	}
	return resultCode(e.s.Set(C.GoString(path), v, authContextFor(goStringOrEmpty(token))))
}

// pathkv_get_binary reconstructs path and writes its re-encoded codec
// bytes' length to out_len, returning a caller-owned buffer the host
// frees with pathkv_free_string, or NULL on failure.
//
//export pathkv_get_binary
func pathkv_get_binary(handle C.longlong, path *C.char, outLen *C.int, token *C.char) *C.char {
	e := lookupHandle(int64(handle))
	if e == nil {
		return nil
	}
	v, err := e.s.Get(C.GoString(path), authContextFor(goStringOrEmpty(token)))
	if err != nil {
		return nil
	}
	enc, err := value.Encode(v)
	if err != nil {
		return nil
	}
	*outLen = C.int(len(enc))
	return (*C.char)(C.CBytes(enc))
}

// pathkv_delete removes path and every descendant. Returns 0 on success,
// -1 on generic failure, -2 on an authentication failure.
//
//export pathkv_delete
func pathkv_delete(handle C.longlong, path, token *C.char) C.int {
	e := lookupHandle(int64(handle))
	if e == nil {
		return -1
	}
	return resultCode(e.s.Delete(C.GoString(path), authContextFor(goStringOrEmpty(token))))
}

// pathkv_get_raw is a zero-copy-flavored view for primitive values only:
// it reports the value's kind via out_kind and, for KindString, a pointer
// into a freshly allocated buffer the caller must free. Compound
// (array/object) values are rejected (out_kind is set to -1) — a C host
// wanting a whole subtree should call pathkv_get_string instead.
//
//export pathkv_get_raw
func pathkv_get_raw(handle C.longlong, path *C.char, outKind *C.int, outNumber *C.double, outLen *C.int, token *C.char) *C.char {
	e := lookupHandle(int64(handle))
	if e == nil {
		*outKind = -1
		return nil
	}
	v, err := e.s.Get(C.GoString(path), authContextFor(goStringOrEmpty(token)))
	if err != nil || !v.IsPrimitive() {
		*outKind = -1
		return nil
	}
	*outKind = C.int(v.K)
	switch v.K {
	case types.KindNumber:
		*outNumber = C.double(v.N)
		return nil
	case types.KindBool:
		if v.B {
			*outNumber = 1
		}
		return nil
	case types.KindString:
		*outLen = C.int(len(v.Str))
		return C.CString(v.Str)
	default: // KindNull
		return nil
	}
}

// pathkv_enable_event_queue switches handle into queued mode with a ring
// of at least capacity entries, dropping the oldest entry on overflow.
// Returns 0 on success, -1 if handle is unknown.
//
//export pathkv_enable_event_queue
func pathkv_enable_event_queue(handle C.longlong, capacity C.int) C.int {
	e := lookupHandle(int64(handle))
	if e == nil {
		return -1
	}
	e.s.EnableEventQueue(int(capacity), event.DropOldest)
	return 0
}

// pathkv_event_queue_pop_batch drains up to max_count pending events into
// a host-readable form: it returns the number of (type, path) pairs
// written, each as "changed|deleted:path" joined by newlines into an
// allocated buffer the host must free.
//
//export pathkv_event_queue_pop_batch
func pathkv_event_queue_pop_batch(handle C.longlong, maxCount C.int, outBuf **C.char) C.int {
	e := lookupHandle(int64(handle))
	if e == nil {
		*outBuf = nil
		return 0
	}
	batch := e.s.PopBatch(int(maxCount))
	if len(batch) == 0 {
		*outBuf = nil
		return 0
	}
	var sb []byte
	for i, ev := range batch {
		if i > 0 {
			sb = append(sb, '\n')
		}
		sb = append(sb, []byte(ev.Type.String()+":"+ev.Path)...)
	}
	*outBuf = C.CString(string(sb))
	return C.int(len(batch))
}

// pathkv_event_queue_pending returns the number of events currently
// available to drain.
//
//export pathkv_event_queue_pending
func pathkv_event_queue_pending(handle C.longlong) C.int {
	e := lookupHandle(int64(handle))
	if e == nil {
		return 0
	}
	return C.int(e.s.PendingEvents())
}

// pathkv_enable_write_queue starts a background worker accepting
// set_async/delete_async jobs for handle. Returns 0 on success, -1 if
// handle is unknown.
//
//export pathkv_enable_write_queue
func pathkv_enable_write_queue(handle C.longlong) C.int {
	e := lookupHandle(int64(handle))
	if e == nil {
		return -1
	}
	e.writeQ = newAsyncWriteQueue(e.s)
	return 0
}

// pathkv_set_async enqueues a Set and returns a job id for wait_for_write,
// or -1 if the write queue was never enabled.
//
//export pathkv_set_async
func pathkv_set_async(handle C.longlong, path *C.char, data *C.char, length C.int, token *C.char) C.longlong {
	e := lookupHandle(int64(handle))
	if e == nil || e.writeQ == nil {
		return -1
	}
	raw := C.GoBytes(unsafe.Pointer(data), length)
	v, err := value.Decode(raw)
	if err != nil {
		return -1
	}
	id := e.writeQ.submit(writeJob{path: C.GoString(path), data: v, auth: authContextFor(goStringOrEmpty(token))})
	return C.longlong(id)
}

// pathkv_delete_async enqueues a Delete and returns a job id for
// wait_for_write, or -1 if the write queue was never enabled.
//
//export pathkv_delete_async
func pathkv_delete_async(handle C.longlong, path, token *C.char) C.longlong {
	e := lookupHandle(int64(handle))
	if e == nil || e.writeQ == nil {
		return -1
	}
	id := e.writeQ.submit(writeJob{path: C.GoString(path), del: true, auth: authContextFor(goStringOrEmpty(token))})
	return C.longlong(id)
}

// pathkv_wait_for_write blocks until job id completes. Returns 0 on
// success, -1 on generic failure (including an unknown handle/id), -2 if
// the job failed on an authentication failure.
//
//export pathkv_wait_for_write
func pathkv_wait_for_write(handle C.longlong, id C.longlong) C.int {
	e := lookupHandle(int64(handle))
	if e == nil || e.writeQ == nil {
		return -1
	}
	return resultCode(e.writeQ.wait(int64(id)))
}

// pathkv_free_string releases a buffer returned by pathkv_get_string,
// pathkv_get_binary, pathkv_get_raw, or pathkv_event_queue_pop_batch.
//
//export pathkv_free_string
func pathkv_free_string(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func goStringOrEmpty(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}
