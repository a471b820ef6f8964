package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// readInput reads all of path, or of stdin when path is empty or "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return data, nil
}

// decodeHex parses hex text, ignoring whitespace between digits.
func decodeHex(text []byte) ([]byte, error) {
	digits := strings.Join(strings.Fields(string(text)), "")
	data, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("decode hex input: %w", err)
	}

	return data, nil
}
