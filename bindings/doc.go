// Package bindings is pathkv's C-ABI surface: a flat function table
// (init/close/set_string/get_string/set_binary/get_binary/delete/get_raw/
// enable_event_queue/event_queue_pop_batch/event_queue_pending/
// enable_write_queue/set_async/delete_async/wait_for_write/free_string)
// exposing pkg/store to foreign hosts over cgo.
//
// Here Go is the library and C is the caller, so every exported function
// takes and returns only C-ABI-safe types (opaque handle integers, UTF-8
// null-terminated strings, pointer+length byte buffers). The handle
// table below is the thing every exported call is a method on, addressed
// by an opaque index instead of a Go pointer.
package main
