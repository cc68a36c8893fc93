// Package prompt reads the country filter from the operator.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CountryQuestion is printed before reading the country filter.
const CountryQuestion = "Type country, e.g. us, uk, etc (or leave blank)..."

// Country prints CountryQuestion to out and reads one line from in. The line
// terminator is stripped; nothing else is. An empty line, or EOF before any
// input, means no country filter.
func Country(in io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprintln(out, CountryQuestion); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read country: %w", err)
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
