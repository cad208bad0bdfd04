//go:build darwin && cgo

package renderthread

/*
#include <pthread.h>
#include <stdint.h>

static uint64_t current_thread_id(void) {
	uint64_t id = 0;
	pthread_threadid_np(NULL, &id);
	return id;
}
*/
import "C"

// threadID identifies the calling OS thread.
func threadID() int64 {
	return int64(C.current_thread_id())
}
