// Package secret encodes connection passwords so they can sit in config
// files and shell history without being stored in clear text. The encoding
// is reversible base64, not encryption.
package secret

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Text written around the interactive exchange.
const (
	PromptText   = "Enter the password to encode: "
	ResultPrefix = "Your encoded password - "
)

// Encode returns the standard base64 encoding of s.
func Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Decode reverses Encode.
func Decode(encoded string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret: %w", err)
	}
	return string(b), nil
}

// Prompt asks for a password on out, reads one line from in and writes the
// encoded form back to out. It returns the encoded value.
func Prompt(in io.Reader, out io.Writer) (string, error) {
	if _, err := io.WriteString(out, PromptText); err != nil {
		return "", err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")

	return Print(out, line)
}

// Print writes the encoded form of password to out and returns it.
func Print(out io.Writer, password string) (string, error) {
	encoded := Encode(password)
	if _, err := fmt.Fprintf(out, "%s%s\n", ResultPrefix, encoded); err != nil {
		return "", err
	}
	return encoded, nil
}
