// Package eintr retries calls that fail with EINTR.
//
// The public packages surface EINTR to their callers. These helpers are only
// for setup paths inside the module (procfs discovery, the CLI) where a signal
// arriving mid-call has no meaning to the caller.
package eintr

import (
	"github.com/opencontainers/posix/errno"
)

func isEINTR(err error) bool {
	e, ok := errno.Of(err)
	return ok && e == errno.EINTR
}

// Retry takes a function that returns an error and calls it until the error
// returned is not EINTR.
func Retry(fn func() error) error {
	for {
		err := fn()
		if !isEINTR(err) {
			return err
		}
	}
}

// Retry2 is like Retry, but it returns 2 values.
func Retry2[T any](fn func() (T, error)) (val T, err error) {
	for {
		val, err = fn()
		if !isEINTR(err) {
			return val, err
		}
	}
}
