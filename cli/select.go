package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var ErrNoExpirations = errors.New("no expirations available")

// SelectExpiration lists the expirations by index and reads an index from in,
// prompting again after out-of-range or non-numeric input.
func SelectExpiration(in io.Reader, out io.Writer, expirations []time.Time) (time.Time, error) {
	if len(expirations) == 0 {
		return time.Time{}, ErrNoExpirations
	}

	fmt.Fprintln(out, "Available expirations:")
	for i, exp := range expirations {
		fmt.Fprintf(out, "%d: %s\n", i, exp.Format("2006-01-02"))
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Select expiration by index: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return time.Time{}, err
			}
			return time.Time{}, io.ErrUnexpectedEOF
		}
		idx, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || idx < 0 || idx >= len(expirations) {
			fmt.Fprintln(out, "Invalid index. Try again.")
			continue
		}
		return expirations[idx], nil
	}
}
