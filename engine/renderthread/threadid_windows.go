package renderthread

import "golang.org/x/sys/windows"

// threadID identifies the calling OS thread.
func threadID() int64 {
	return int64(windows.GetCurrentThreadId())
}
