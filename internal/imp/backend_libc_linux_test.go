//go:build linux && cgo && posix_libc

package imp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
)

func TestBackendName(t *testing.T) {
	assert.Equal(t, "libc", Backend)
}

func TestTtynameNotTerminal(t *testing.T) {
	p, err := Pipe2(unix.O_CLOEXEC)
	require.NoError(t, err)
	defer Close(p[0])
	defer Close(p[1])

	_, err = Ttyname(p[0], make([]byte, 64))
	assert.Equal(t, errno.ENOTTY, err)
	_, err = Ttyname(p[0], nil)
	assert.Equal(t, errno.ERANGE, err)
}
