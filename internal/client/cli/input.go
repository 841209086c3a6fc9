package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/sealbox/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetPassword prints prompt to w and reads a secret from the user's
// terminal without echo. A newline is printed after the read to keep the
// UI tidy.
func GetPassword(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)

	if len(pw) == 0 {
		return "", errEmptyInput
	}
	return string(pw), nil
}

// GetNewPassword asks for a secret twice and fails if the answers differ.
func GetNewPassword(w io.Writer, prompt string) (string, error) {
	first, err := GetPassword(w, prompt)
	if err != nil {
		return "", err
	}
	second, err := GetPassword(w, "Repeat: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errMismatch
	}
	return first, nil
}
