//go:build unix

package wipe

import (
	"golang.org/x/sys/unix"
)

// openNoFollow открытие символической ссылки завершается ошибкой ELOOP
const openNoFollow = unix.O_NOFOLLOW
