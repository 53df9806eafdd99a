package duplication

import "sync"

var (
	singletonOnce sync.Once
	singleton     *Controller
)

// Instance returns the process-wide Controller, incrementing its external
// reference count. The Controller itself is created lazily on first call
// and never deallocated; callers must call Release when they are done
// with the reference Instance handed them.
func Instance() *Controller {
	singletonOnce.Do(func() {
		singleton = newPlatformController()
	})
	singleton.AddRef()
	return singleton
}
