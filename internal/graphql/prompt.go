// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package graphql

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptAPIKey reads an API key from the terminal without echo. It returns
// ErrNoAPIKey when in is not a terminal or nothing was typed.
func PromptAPIKey(in *os.File, out io.Writer) (string, error) {
	fd := int(in.Fd()) //nolint:gosec
	if !term.IsTerminal(fd) {
		return "", ErrNoAPIKey
	}

	fmt.Fprint(out, "Kili API key: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}

	key := strings.TrimSpace(string(b))
	if key == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}
