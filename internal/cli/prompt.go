package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptPassphrase reads a passphrase twice without echo and verifies the
// two entries match. An empty first entry means no passphrase.
func promptPassphrase() (string, error) {
	first, err := readSecret("Enter passphrase (empty for no passphrase): ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", nil
	}

	second, err := readSecret("Enter same passphrase again: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passphrases do not match")
	}
	return first, nil
}

func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())

	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return string(raw), nil
	}

	// Piped stdin, e.g. in scripts: read a plain line.
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
