// Package types holds the data model and error taxonomy shared by every
// pathkv package: the Value union, path-operation option structs, and the
// typed Error used across the path, codec, storage, and event layers.
package types

import "fmt"

// ErrKind classifies errors so callers can branch on intent rather than
// text. It mirrors the taxonomy a storage engine reports to its hosts.
type ErrKind int

const (
	ErrKindInvalidPath    ErrKind = iota // malformed, too long, or empty segment
	ErrKindNotFound                      // no leaf and no children at path
	ErrKindAccessDenied                  // authorization hook refused
	ErrKindAuthFailed                    // token required by hook could not be validated
	ErrKindDecoding                      // codec-level corruption or unsupported format
	ErrKindEncoding                      // value could not be encoded
	ErrKindStorageFull                   // backing store exhausted
	ErrKindCorrupted                     // backing store reports corruption
	ErrKindTransaction                   // backing store could not begin or commit
	ErrKindQueueOverflow                 // event ring dropped entries since last drain
	ErrKindInvalidArgument               // caller passed a value the operation rejects
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns a copy of e with cause attached, leaving e itself untouched
// so package-level sentinels stay safe to compare with errors.Is.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg, Err: cause}
}

// Wrapf is Wrap with a formatted message appended to Msg.
func (e *Error) Wrapf(cause error, format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg + ": " + fmt.Sprintf(format, args...), Err: cause}
}

// Sentinels returned by implementations; compare with errors.Is.
var (
	ErrInvalidPath     = &Error{Kind: ErrKindInvalidPath, Msg: "invalid path"}
	ErrNotFound        = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	ErrAccessDenied    = &Error{Kind: ErrKindAccessDenied, Msg: "access denied"}
	ErrAuthFailed      = &Error{Kind: ErrKindAuthFailed, Msg: "authentication failed"}
	ErrDecodingFailed  = &Error{Kind: ErrKindDecoding, Msg: "decoding failed"}
	ErrEncodingFailed  = &Error{Kind: ErrKindEncoding, Msg: "encoding failed"}
	ErrStorageFull     = &Error{Kind: ErrKindStorageFull, Msg: "storage full"}
	ErrCorrupted       = &Error{Kind: ErrKindCorrupted, Msg: "backing store corrupted"}
	ErrTransactionFail = &Error{Kind: ErrKindTransaction, Msg: "transaction failed"}
	ErrQueueOverflow   = &Error{Kind: ErrKindQueueOverflow, Msg: "event queue overflowed"}
	ErrInvalidArgument = &Error{Kind: ErrKindInvalidArgument, Msg: "invalid argument"}
)
