//go:build !linux && !windows && !(darwin && cgo)

package renderthread

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

// threadID identifies the calling goroutine on platforms without an OS thread
// id. The worker is locked to its OS thread for its whole life, so no other
// goroutine can share its id. The "goroutine N [" header of runtime.Stack has
// been stable since Go 1; if it ever stops parsing every caller gets -1, which
// onWorker treats as the worker, so the facade stops blocking instead of
// deadlocking a reentrant call.
func threadID() int64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	if !bytes.HasPrefix(b, goroutinePrefix) {
		return -1
	}
	b = b[len(goroutinePrefix):]
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || id <= 0 {
		return -1
	}
	return id
}
