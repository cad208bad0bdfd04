package renderthread

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadIDIsStablePerThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	id := threadID()
	assert.Positive(t, id)
	assert.Equal(t, id, threadID())

	other := make(chan int64)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		other <- threadID()
	}()
	assert.NotEqual(t, id, <-other)
}
