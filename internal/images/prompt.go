// SPDX-License-Identifier: MPL-2.0

package images

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// promptSecretValue asks the user for a secret value on the controlling
// terminal with echo disabled. It is the default SecretPromptFunc.
func promptSecretValue(name string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("secret %q has no value and stdin is not a terminal", name)
	}

	fmt.Fprintf(os.Stderr, "Enter value for secret %q: ", name)
	value, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(value), nil
}
