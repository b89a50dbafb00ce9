package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// promptSecret prints label and reads one line from stdin with terminal echo
// turned off. When echo cannot be changed (pipes, redirected files) the line
// is read as is.
func promptSecret(out io.Writer, stdin *os.File, label string) (string, error) {
	if stdin == nil {
		return "", errors.New("stdin unavailable")
	}

	fmt.Fprint(out, label)
	if restore, err := disableEcho(stdin); err == nil {
		defer func() {
			restore()
			fmt.Fprintln(out)
		}()
	}

	line, err := readLine(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r"), nil
}

// readLine reads up to the next newline one byte at a time so consecutive
// prompts on the same stdin do not lose buffered input.
func readLine(reader io.Reader) (string, error) {
	var builder strings.Builder
	buffer := make([]byte, 1)
	for {
		n, err := reader.Read(buffer)
		if n == 1 {
			if buffer[0] == '\n' {
				return builder.String(), nil
			}
			builder.WriteByte(buffer[0])
		}
		if errors.Is(err, io.EOF) {
			if builder.Len() == 0 {
				return "", io.ErrUnexpectedEOF
			}
			return builder.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}
