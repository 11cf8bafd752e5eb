package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/saltyorg/cassframe/internal/secret"
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Encode a password for use with --password or CASSFRAME_PASSWORD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := encodePassword(cmd.InOrStdin(), cmd.OutOrStdout())
			return err
		},
	}
}

// encodePassword reads without echo when in is a terminal and falls back
// to reading a plain line otherwise.
func encodePassword(in io.Reader, out io.Writer) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return secret.Prompt(in, out)
	}

	if _, err := io.WriteString(out, secret.PromptText); err != nil {
		return "", err
	}
	pw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return secret.Print(out, string(pw))
}
