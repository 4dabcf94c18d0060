package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// errNotInteractive is returned when a prompt is needed but stdin is not a
// terminal.
var errNotInteractive = errors.New("stdin is not a terminal; pass --yes to confirm")

// ConfirmSingleKey displays a yes/no prompt and waits for a single keypress.
// Returns true for 'y'/'Y', false for 'n'/'N', or error on Ctrl+C.
func ConfirmSingleKey(prompt string) (bool, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return false, errNotInteractive
	}

	fmt.Printf("%s (y/n): ", prompt)

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return false, fmt.Errorf("failed to set raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	b := make([]byte, 1)
	if _, err := os.Stdin.Read(b); err != nil {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	switch b[0] {
	case 3: // Ctrl+C
		fmt.Print("^C\r\n")
		return false, fmt.Errorf("interrupted")
	case 'y', 'Y':
		fmt.Print("y\r\n")
		return true, nil
	case 'n', 'N':
		fmt.Print("n\r\n")
		return false, nil
	}

	// Invalid key - restore terminal and ask again
	term.Restore(fd, oldState)
	fmt.Println()
	fmt.Println("Invalid key. Please press 'y' or 'n'.")
	return ConfirmSingleKey(prompt)
}

// confirmOrYes skips the prompt when --yes was given.
func confirmOrYes(yes bool, prompt string) (bool, error) {
	if yes {
		return true, nil
	}
	return ConfirmSingleKey(prompt)
}
