// confirm.go implements the single-keypress terminal confirmation used when
// the browser review session is unavailable.
package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ConfirmKey reads a single keypress answer to a yes/no prompt.
// 'y' or 'Y' confirms; any other key (including Esc and Ctrl+C) declines.
// Falls back to declining when stdin is not a terminal.
func ConfirmKey(prompt string) (bool, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return false, fmt.Errorf("stdin is not a terminal")
	}

	fmt.Printf("%s [y/N] ", prompt)

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return false, fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	buf := make([]byte, 1)
	if _, err := os.Stdin.Read(buf); err != nil {
		return false, fmt.Errorf("reading keypress: %w", err)
	}

	key := buf[0]
	// Echo the choice on its own line; raw mode suppressed the newline.
	fmt.Printf("%c\r\n", key)

	return key == 'y' || key == 'Y', nil
}
