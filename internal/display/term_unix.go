//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package display

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// terminalSize returns the size of the terminal in character cells.
func terminalSize(fd uintptr) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("getting window size: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}
